// Command bootstrap seeds reference data into the tasks database.
//
// Usage:
//
//	bootstrap roles
//	bootstrap statuses
//	bootstrap categories
//	bootstrap admin -email root@example.com -password '...'
//	bootstrap all [-email ... -password ...]
//
// The admin flags default to TASKS_SEED_ADMIN_EMAIL and TASKS_SEED_ADMIN_PASSWORD.
// Every subcommand can be run repeatedly.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/seed"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

var errUsage = errors.New("usage: bootstrap <roles|statuses|categories|admin|all> [-email E -password P]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	users := service.NewUserService(
		postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, log),
		auth.NewBcryptVerifier(),
		log,
	)
	seeder := seed.New(
		postgres.NewPostgresStatusStore(db, log),
		postgres.NewPostgresCategoryStore(db, log),
		users,
		log,
	)

	return execute(ctx, seeder, cfg.Seed, args, out)
}

// execute dispatches one subcommand and prints a line per seeded item.
func execute(ctx context.Context, seeder *seed.Seeder, defaults config.SeedConfig, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(out)
	email := fs.String("email", defaults.AdminEmail, "admin email")
	password := fs.String("password", defaults.AdminPassword, "admin password")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var (
		results []seed.Result
		err     error
	)
	switch args[0] {
	case "roles":
		results, err = seeder.Roles(ctx)
	case "statuses":
		results, err = seeder.Statuses(ctx)
	case "categories":
		results, err = seeder.Categories(ctx)
	case "admin":
		if *email == "" || *password == "" {
			return errors.New("admin requires -email and -password")
		}
		var r seed.Result
		r, err = seeder.Admin(ctx, *email, *password)
		if err == nil {
			results = []seed.Result{r}
		}
	case "all":
		results, err = seeder.All(ctx, *email, *password)
	default:
		return errUsage
	}

	for _, r := range results {
		fmt.Fprintln(out, r)
	}
	if err != nil {
		slog.Error("bootstrap failed", "command", args[0], "error", err)
	}
	return err
}
