// Package service contains the use cases of the task tracker. It enforces the
// access rules from internal/authz, orchestrates the stores defined in
// internal/store, and groups every task mutation with its audit entry in a
// single transaction.
//
// Services return the sentinel errors declared in errors.go for expected
// conditions; anything else is wrapped in a ServiceError.
package service
