// Package seed loads the reference data a fresh database needs: the status and
// category vocabularies and a first admin account. Every operation is a
// get-or-create, so running it twice leaves the database unchanged.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Outcome records what a seed step did for one item.
type Outcome string

const (
	Created       Outcome = "created"
	AlreadyExists Outcome = "already exists"
)

// Result is the outcome for a single seeded item.
type Result struct {
	Kind    string
	Name    string
	Outcome Outcome
}

func (r Result) String() string {
	return fmt.Sprintf("%s %q: %s", r.Kind, r.Name, r.Outcome)
}

// AdminEnsurer creates or promotes an admin account. It reports true when a
// new user was created.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

// Seeder writes reference data through the stores.
type Seeder struct {
	statuses   store.StatusStore
	categories store.CategoryStore
	admins     AdminEnsurer
	logger     *slog.Logger
}

// New creates a Seeder. admins may be nil when no admin seeding is needed.
func New(statuses store.StatusStore, categories store.CategoryStore, admins AdminEnsurer, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		statuses:   statuses,
		categories: categories,
		admins:     admins,
		logger:     logger.With(slog.String("component", "seed")),
	}
}

// Roles checks the closed role set. Roles live in code, so nothing is written.
func (s *Seeder) Roles(_ context.Context) ([]Result, error) {
	results := make([]Result, 0, len(domain.Roles))
	for _, role := range domain.Roles {
		if _, err := domain.ParseRole(string(role)); err != nil {
			return results, fmt.Errorf("role %q: %w", role, err)
		}
		results = append(results, Result{Kind: "role", Name: string(role), Outcome: AlreadyExists})
	}
	return results, nil
}

// Statuses seeds domain.DefaultStatusNames.
func (s *Seeder) Statuses(ctx context.Context) ([]Result, error) {
	return seedNames(ctx, s.logger, "status", domain.DefaultStatusNames,
		func(ctx context.Context, name string) error {
			_, err := s.statuses.GetByName(ctx, name)
			return err
		},
		func(ctx context.Context, name string) error {
			return s.statuses.Create(ctx, &domain.Status{Name: name})
		},
	)
}

// Categories seeds domain.DefaultCategoryNames.
func (s *Seeder) Categories(ctx context.Context) ([]Result, error) {
	return seedNames(ctx, s.logger, "category", domain.DefaultCategoryNames,
		func(ctx context.Context, name string) error {
			_, err := s.categories.GetByName(ctx, name)
			return err
		},
		func(ctx context.Context, name string) error {
			return s.categories.Create(ctx, &domain.Category{Name: name})
		},
	)
}

// Admin creates the admin account, or promotes an existing user with that email.
func (s *Seeder) Admin(ctx context.Context, email, password string) (Result, error) {
	result := Result{Kind: "admin", Name: email}
	if s.admins == nil {
		return result, errors.New("admin seeding is not configured")
	}

	created, err := s.admins.EnsureAdmin(ctx, email, password)
	if err != nil {
		return result, fmt.Errorf("failed to ensure admin %s: %w", email, err)
	}

	result.Outcome = AlreadyExists
	if created {
		result.Outcome = Created
	}
	s.logger.InfoContext(ctx, "admin seeded", "outcome", result.Outcome)
	return result, nil
}

// All runs the vocabulary seeds and, when email is set, the admin seed.
func (s *Seeder) All(ctx context.Context, email, password string) ([]Result, error) {
	var all []Result
	for _, step := range []func(context.Context) ([]Result, error){s.Roles, s.Statuses, s.Categories} {
		results, err := step(ctx)
		all = append(all, results...)
		if err != nil {
			return all, err
		}
	}

	if email == "" {
		return all, nil
	}
	result, err := s.Admin(ctx, email, password)
	if err != nil {
		return all, err
	}
	return append(all, result), nil
}

func seedNames(
	ctx context.Context,
	logger *slog.Logger,
	kind string,
	names []string,
	lookup func(context.Context, string) error,
	create func(context.Context, string) error,
) ([]Result, error) {
	results := make([]Result, 0, len(names))
	for _, name := range names {
		result := Result{Kind: kind, Name: name, Outcome: AlreadyExists}

		err := lookup(ctx, name)
		switch {
		case err == nil:
		case store.IsNotFoundError(err):
			// A concurrent seed may win the insert; that still counts as existing.
			cerr := create(ctx, name)
			switch {
			case cerr == nil:
				result.Outcome = Created
			case !errors.Is(cerr, store.ErrNameExists):
				return results, fmt.Errorf("failed to create %s %q: %w", kind, name, cerr)
			}
		default:
			return results, fmt.Errorf("failed to look up %s %q: %w", kind, name, err)
		}

		logger.DebugContext(ctx, "seeded", "kind", kind, "name", name, "outcome", result.Outcome)
		results = append(results, result)
	}
	return results, nil
}
