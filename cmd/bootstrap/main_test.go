package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/seed"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memorySeeder() *seed.Seeder {
	db := mocks.NewMemoryDB()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := service.NewUserService(mocks.NewMemoryUserStore(db), &mocks.MockPasswordVerifier{}, logger)
	return seed.New(mocks.NewMemoryStatusStore(db), mocks.NewMemoryCategoryStore(db), users, logger)
}

func TestExecuteStatusesTwice(t *testing.T) {
	ctx := context.Background()
	s := memorySeeder()

	var out bytes.Buffer
	require.NoError(t, execute(ctx, s, config.SeedConfig{}, []string{"statuses"}, &out))
	assert.Contains(t, out.String(), `status "pendiente": created`)

	out.Reset()
	require.NoError(t, execute(ctx, s, config.SeedConfig{}, []string{"statuses"}, &out))
	assert.Contains(t, out.String(), `status "pendiente": already exists`)
	assert.NotContains(t, out.String(), "created")
}

func TestExecuteAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("flags", func(t *testing.T) {
		var out bytes.Buffer
		err := execute(ctx, memorySeeder(), config.SeedConfig{},
			[]string{"admin", "-email", "root@example.com", "-password", "correct-horse-battery"}, &out)
		require.NoError(t, err)
		assert.Contains(t, out.String(), `admin "root@example.com": created`)
	})

	t.Run("defaults from config", func(t *testing.T) {
		var out bytes.Buffer
		defaults := config.SeedConfig{AdminEmail: "env@example.com", AdminPassword: "correct-horse-battery"}
		require.NoError(t, execute(ctx, memorySeeder(), defaults, []string{"admin"}, &out))
		assert.Contains(t, out.String(), "env@example.com")
	})

	t.Run("missing credentials", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, execute(ctx, memorySeeder(), config.SeedConfig{}, []string{"admin"}, &out))
	})
}

func TestExecuteUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := execute(context.Background(), memorySeeder(), config.SeedConfig{}, []string{"frobnicate"}, &out)
	assert.ErrorIs(t, err, errUsage)

	err = execute(context.Background(), memorySeeder(), config.SeedConfig{}, nil, &out)
	assert.ErrorIs(t, err, errUsage)
}

func TestExecuteAll(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, execute(context.Background(), memorySeeder(), config.SeedConfig{}, []string{"all"}, &out))
	assert.Contains(t, out.String(), `role "admin"`)
	assert.Contains(t, out.String(), `category "otros": created`)
	assert.NotContains(t, out.String(), "admin \"")
}
