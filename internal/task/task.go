// Package task defines the task record exchanged with the Task API.
package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
)

// Status is the lifecycle state of a task.
type Status string

// Allowed statuses, in display order.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"

	// DefaultStatus is assigned to new tasks and to a cleared form.
	DefaultStatus = StatusPending
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Task is a unit of work as returned by the Task API.
type Task struct {
	ID            int            `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Status        Status         `json:"status"`
	CreatedAt     date.Timestamp `json:"created_at"`
	CommentsCount int            `json:"comments_count"`
}

// Payload carries the client-editable fields of a task on create and update.
// ID, CreatedAt and CommentsCount are owned by the server.
type Payload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// NewPayload builds a payload with trimmed title and description.
// An empty status falls back to DefaultStatus.
func NewPayload(title, description string, status Status) Payload {
	if status == "" {
		status = DefaultStatus
	}
	return Payload{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      status,
	}
}

// PayloadOf returns the editable fields of t.
func PayloadOf(t *Task) Payload {
	return Payload{Title: t.Title, Description: t.Description, Status: t.Status}
}

// Label returns the human-readable form of a status: the enum is split on
// underscores and each word capitalized ("in_progress" -> "In Progress").
func (s Status) Label() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Next returns the status after s in display order, wrapping around.
func (s Status) Next() Status {
	return s.shift(1)
}

// Prev returns the status before s in display order, wrapping around.
func (s Status) Prev() Status {
	return s.shift(-1)
}

func (s Status) shift(delta int) Status {
	n := len(Statuses)
	for i, v := range Statuses {
		if v == s {
			return Statuses[((i+delta)%n+n)%n]
		}
	}
	return DefaultStatus
}

// StatusNames returns the statuses as plain strings.
func StatusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}

// IndexByID returns the position of the task with the given ID, or -1.
func IndexByID(tasks []*Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
