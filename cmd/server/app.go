package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// application holds the wired dependencies of a running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService
	users      service.UserService
	tasks      service.TaskService
	statuses   *service.StatusService
	categories *service.CategoryService
	logs       *service.LogService
}

// newApplication builds the stores and services on top of db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	statusStore := postgres.NewPostgresStatusStore(db, logger)
	categoryStore := postgres.NewPostgresCategoryStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	taskLogStore := postgres.NewPostgresTaskLogStore(db, logger)

	app.users = service.NewUserService(userStore, auth.NewBcryptVerifier(), logger)
	app.statuses = service.NewStatusService(statusStore, logger)
	app.categories = service.NewCategoryService(categoryStore, logger)
	app.logs = service.NewLogService(taskLogStore, logger)
	app.tasks, err = service.NewTaskService(
		store.NewDBTransactor(db),
		taskStore,
		taskLogStore,
		statusStore,
		categoryStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task service: %w", err)
	}

	return app, nil
}

// setupRouter mounts the API on a chi router.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.Handlers{
		Auth:          api.NewAuthHandler(app.users, app.jwtService, app.logger),
		Statuses:      api.NewStatusHandler(app.statuses),
		Categories:    api.NewCategoryHandler(app.categories),
		Tasks:         api.NewTaskHandler(app.tasks),
		Logs:          api.NewLogHandler(app.logs),
		Authenticator: middleware.NewAuthMiddleware(app.jwtService, app.users),
		AuthLimiter: middleware.NewRateLimiter(
			app.config.Auth.RateLimitPerMinute,
			app.config.Auth.RateLimitBurst,
		),
		Health: func(r *http.Request) error {
			return app.db.PingContext(r.Context())
		},
	}, app.logger)
}
