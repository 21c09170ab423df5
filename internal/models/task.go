package models

import (
	"fmt"
	"time"
)

// Status is the closed set of task lifecycle states. Any status may
// move to any other status directly; there is no terminal state.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusComplete   Status = "Complete"
)

// ParseStatus matches the wire literal exactly, case-sensitive.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusComplete:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status: %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

func (s Status) String() string {
	return string(s)
}

type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
