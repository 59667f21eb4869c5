// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx driver.
//
// Constraint violations are translated into store sentinel errors
// (ErrEmailExists, ErrNameExists, ErrTaskTitleExists, ErrInUse) so services
// never inspect SQLSTATE codes. The schema lives in migrations/ and is applied
// with Migrate, which drives goose over the embedded files.
package postgres
