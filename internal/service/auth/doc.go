// Package auth issues and validates the JWT access and refresh tokens used by
// the API, and verifies bcrypt password hashes at login.
package auth
