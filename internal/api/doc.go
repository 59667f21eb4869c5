// Package api is the HTTP adapter in front of the services. Handlers decode
// and validate requests, take the principal that the auth middleware put in
// the context, call one service operation and render its result or error.
//
// Error responses never carry internal details: MapErrorToStatusCode and
// GetSafeErrorMessage decide what a client sees, and the full error is only
// logged, redacted.
package api
