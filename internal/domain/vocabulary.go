package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxNameLength bounds vocabulary names and task titles.
const MaxNameLength = 255

// PendingStatusName is the status every new task starts in. Lookups are case-insensitive.
const PendingStatusName = "pendiente"

var (
	ErrNameEmpty   = errors.New("name cannot be empty")
	ErrNameTooLong = errors.New("name must be at most 255 characters")
)

// Status is an entry of the admin-managed task status vocabulary.
type Status struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category is an entry of the admin-managed task category vocabulary.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IsPending reports whether s is the status new tasks are created with.
func (s *Status) IsPending() bool {
	return s != nil && strings.EqualFold(s.Name, PendingStatusName)
}

// NormalizeName trims a vocabulary name and checks its bounds.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("name", "cannot be empty", ErrNameEmpty)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", NewValidationError("name", "must be at most 255 characters", ErrNameTooLong)
	}
	return name, nil
}

// DefaultStatusNames is the canonical status vocabulary seeded at bootstrap.
var DefaultStatusNames = []string{PendingStatusName, "en_progreso", "completada", "cancelada"}

// DefaultCategoryNames is the canonical category vocabulary seeded at bootstrap.
var DefaultCategoryNames = []string{"trabajo", "personal", "otros"}
