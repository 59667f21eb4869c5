// Package mocks provides test doubles for the store and auth interfaces.
//
// Two styles live here. MemoryDB and the Memory*Store types are a small
// in-memory database: the stores share one MemoryDB, resolve the same joins
// the Postgres stores do, and MemoryTransactor rolls the whole database back
// when a unit of work fails. Service tests use them to check behavior across
// several stores at once.
//
// TestifyMockUserStore, MockJWTService and MockPasswordVerifier are call-level
// doubles for tests that care about exact interactions:
//
//	users := new(mocks.TestifyMockUserStore)
//	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, store.ErrUserNotFound)
//
// Failures can be injected into the in-memory stores by operation name:
//
//	db := mocks.NewMemoryDB()
//	db.FailOn("task_logs.create", errors.New("disk full"))
package mocks
