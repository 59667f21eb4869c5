package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrTitleEmpty   = errors.New("title cannot be empty")
	ErrTitleTooLong = errors.New("title must be at most 255 characters")
	ErrEmptyOwnerID = errors.New("task owner cannot be empty")
	ErrEmptyStatus  = errors.New("task status cannot be empty")
)

// Task is a unit of work owned by a single user.
//
// Tasks are never physically removed through the API; deletion sets IsDeleted
// and the row stays visible to admins.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	StatusID    int64     `json:"status_id"`
	CategoryID  *int64    `json:"category_id"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskDetails is a task joined with its owner, status and category, the shape
// used for responses and audit entries.
type TaskDetails struct {
	Task
	Owner    User
	Status   Status
	Category *Category
}

// NewTask creates a task for owner in the given status. The ID is assigned by the store.
func NewTask(ownerID uuid.UUID, title string, description *string, statusID int64, categoryID *int64) (*Task, error) {
	t := &Task{
		Title:       strings.TrimSpace(title),
		Description: description,
		OwnerID:     ownerID,
		StatusID:    statusID,
		CategoryID:  categoryID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the task's field-level invariants.
func (t *Task) Validate() error {
	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if t.StatusID <= 0 {
		return ErrEmptyStatus
	}
	return nil
}

// ValidateTitle checks the bounds of a task title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "cannot be empty", ErrTitleEmpty)
	}
	if utf8.RuneCountInString(title) > MaxNameLength {
		return NewValidationError("title", "must be at most 255 characters", ErrTitleTooLong)
	}
	return nil
}

// MarkDeleted flags the task as logically deleted. It reports whether the flag
// changed, so callers can skip the audit entry for a repeated delete.
func (t *Task) MarkDeleted() bool {
	if t.IsDeleted {
		return false
	}
	t.IsDeleted = true
	return true
}
