// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Tests using it are skipped unless DATABASE_URL (or TASKS_TEST_DB_URL) is
// set. The schema is migrated once per test binary using the migrations
// embedded in the postgres package, and each test runs inside a transaction
// that is rolled back afterwards:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		tasks := postgres.NewPostgresTaskStore(db, nil).WithTx(tx)
//		...
//	})
package testdb
