package domain

import (
	"strings"
	"time"
)

// TaskAction names the kind of mutation recorded in a TaskLog entry.
type TaskAction string

const (
	ActionCreated TaskAction = "CREATED"
	ActionUpdated TaskAction = "UPDATED"
	ActionDeleted TaskAction = "DELETED"
)

// ParseTaskAction converts a query value into a TaskAction. Matching ignores case.
func ParseTaskAction(s string) (TaskAction, error) {
	switch a := TaskAction(strings.ToUpper(strings.TrimSpace(s))); a {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return a, nil
	default:
		return "", NewValidationError("action", "must be one of CREATED, UPDATED, DELETED", ErrInvalidAction)
	}
}

// TaskLog is one append-only audit record of a task mutation.
type TaskLog struct {
	ID        int64      `json:"id"`
	TaskID    int64      `json:"task_id"`
	Action    TaskAction `json:"action"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewTaskLog builds an audit entry for taskID stamped with the current time.
func NewTaskLog(taskID int64, action TaskAction) *TaskLog {
	return &TaskLog{
		TaskID:    taskID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

// TaskLogDetails is a log entry with its task fully expanded.
type TaskLogDetails struct {
	TaskLog
	Task TaskDetails
}
