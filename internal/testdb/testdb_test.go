package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTestDatabaseURLPrefersTestVariable(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://primary/db")
	t.Setenv("TASKS_TEST_DB_URL", "postgres://test/db")
	assert.Equal(t, "postgres://test/db", GetTestDatabaseURL())
	assert.True(t, IsIntegrationTestEnvironment())
}

func TestGetTestDatabaseURLUnset(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TASKS_TEST_DB_URL", "")
	assert.Empty(t, GetTestDatabaseURL())
	assert.False(t, IsIntegrationTestEnvironment())
}
