package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/authz"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusService(t *testing.T) {
	ctx := context.Background()

	setup := func() (*mocks.MemoryDB, *service.StatusService, *domain.User, *domain.User) {
		db := mocks.NewMemoryDB()
		return db,
			service.NewStatusService(mocks.NewMemoryStatusStore(db), quietLogger()),
			db.AddUser("admin@example.com", domain.RoleAdmin),
			db.AddUser("ana@example.com", domain.RoleClient)
	}

	t.Run("admin creates and client reads", func(t *testing.T) {
		_, svc, admin, client := setup()

		created, err := svc.Create(ctx, admin, "  revisión ")
		require.NoError(t, err)
		assert.Equal(t, "revisión", created.Name)
		assert.NotZero(t, created.ID)

		list, err := svc.List(ctx, client)
		require.NoError(t, err)
		assert.Equal(t, []domain.Status{*created}, list)

		got, err := svc.Get(ctx, client, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, got.Name)
	})

	t.Run("client cannot write", func(t *testing.T) {
		_, svc, _, client := setup()

		_, err := svc.Create(ctx, client, "x")
		assert.ErrorIs(t, err, authz.ErrForbidden)
	})

	t.Run("anonymous cannot read", func(t *testing.T) {
		_, svc, _, _ := setup()

		_, err := svc.List(ctx, nil)
		assert.ErrorIs(t, err, authz.ErrAuthenticationRequired)
	})

	t.Run("name rules", func(t *testing.T) {
		_, svc, admin, _ := setup()

		_, err := svc.Create(ctx, admin, "   ")
		assert.ErrorIs(t, err, domain.ErrNameEmpty)

		_, err = svc.Create(ctx, admin, strings.Repeat("ñ", domain.MaxNameLength+1))
		assert.ErrorIs(t, err, domain.ErrNameTooLong)

		_, err = svc.Create(ctx, admin, strings.Repeat("ñ", domain.MaxNameLength))
		assert.NoError(t, err)
	})

	t.Run("duplicate name", func(t *testing.T) {
		db, svc, admin, _ := setup()
		db.AddStatus("pendiente")

		_, err := svc.Create(ctx, admin, "pendiente")
		assert.ErrorIs(t, err, service.ErrDuplicateName)
	})

	t.Run("rename", func(t *testing.T) {
		db, svc, admin, _ := setup()
		st := db.AddStatus("old")

		updated, err := svc.Update(ctx, admin, st.ID, "new")
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Name)

		_, err = svc.Update(ctx, admin, 999, "new")
		assert.ErrorIs(t, err, service.ErrStatusNotFound)
	})

	t.Run("status in use cannot be deleted", func(t *testing.T) {
		db, svc, admin, client := setup()
		pending := db.AddStatus(domain.PendingStatusName)
		tasks, err := service.NewTaskService(mocks.NewMemoryTransactor(db), mocks.NewMemoryTaskStore(db),
			mocks.NewMemoryTaskLogStore(db), mocks.NewMemoryStatusStore(db), mocks.NewMemoryCategoryStore(db), quietLogger())
		require.NoError(t, err)
		_, err = tasks.Create(ctx, client, service.TaskInput{Title: "a"})
		require.NoError(t, err)

		err = svc.Delete(ctx, admin, pending.ID)
		assert.ErrorIs(t, err, service.ErrInUse)

		unused := db.AddStatus("cancelada")
		assert.NoError(t, svc.Delete(ctx, admin, unused.ID))
		_, err = svc.Get(ctx, admin, unused.ID)
		assert.ErrorIs(t, err, service.ErrStatusNotFound)
	})
}

func TestCategoryService_DeleteUncategorizesTasks(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewMemoryDB()
	db.AddStatus(domain.PendingStatusName)
	work := db.AddCategory("trabajo")
	admin := db.AddUser("admin@example.com", domain.RoleAdmin)
	client := db.AddUser("ana@example.com", domain.RoleClient)

	tasks, err := service.NewTaskService(mocks.NewMemoryTransactor(db), mocks.NewMemoryTaskStore(db),
		mocks.NewMemoryTaskLogStore(db), mocks.NewMemoryStatusStore(db), mocks.NewMemoryCategoryStore(db), quietLogger())
	require.NoError(t, err)
	task, err := tasks.Create(ctx, client, service.TaskInput{Title: "a", CategoryID: &work.ID})
	require.NoError(t, err)

	svc := service.NewCategoryService(mocks.NewMemoryCategoryStore(db), quietLogger())
	require.NoError(t, svc.Delete(ctx, admin, work.ID))

	got, err := tasks.Get(ctx, client, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.CategoryID)

	err = svc.Delete(ctx, admin, work.ID)
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}

func TestLogService(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	logs := service.NewLogService(mocks.NewMemoryTaskLogStore(f.db), quietLogger())

	a := f.create(t, f.alice, "a")
	b := f.create(t, f.bob, "b")
	require.NoError(t, f.svc.Delete(ctx, f.alice, a.ID))

	t.Run("admin lists newest first", func(t *testing.T) {
		entries, err := logs.List(ctx, f.admin, store.TaskLogFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, domain.ActionDeleted, entries[0].Action)
		assert.Equal(t, a.ID, entries[0].Task.ID)
		assert.True(t, entries[0].Task.IsDeleted)
	})

	t.Run("filters by task and action", func(t *testing.T) {
		entries, err := logs.List(ctx, f.admin, store.TaskLogFilter{TaskID: b.ID})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "bob@example.com", entries[0].Task.Owner.Email)

		entries, err = logs.List(ctx, f.admin, store.TaskLogFilter{Action: domain.ActionCreated})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("get", func(t *testing.T) {
		entries, err := logs.List(ctx, f.admin, store.TaskLogFilter{TaskID: b.ID})
		require.NoError(t, err)

		entry, err := logs.Get(ctx, f.admin, entries[0].ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ActionCreated, entry.Action)

		_, err = logs.Get(ctx, f.admin, 99999)
		assert.ErrorIs(t, err, service.ErrTaskLogNotFound)
	})

	t.Run("clients are forbidden", func(t *testing.T) {
		_, err := logs.List(ctx, f.alice, store.TaskLogFilter{})
		assert.ErrorIs(t, err, authz.ErrForbidden)

		_, err = logs.Get(ctx, nil, 1)
		assert.ErrorIs(t, err, authz.ErrAuthenticationRequired)
	})
}
