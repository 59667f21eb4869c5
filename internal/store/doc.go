// Package store defines the persistence interfaces for users, the status and
// category vocabularies, tasks and the task audit log, together with the
// errors they return and the transaction helper services use to group writes.
//
// Implementations live in internal/platform/postgres.
package store
