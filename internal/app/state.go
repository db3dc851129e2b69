// Package app holds the application controller: the authoritative task
// collection, the loading and error flags, and the editing reference, plus the
// operations that reconcile them with the Task API.
package app

import (
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// User-facing error messages, one per operation.
const (
	ErrFetch  = "Failed to fetch tasks. Please try again."
	ErrCreate = "Failed to create task. Please try again."
	ErrUpdate = "Failed to update task. Please try again."
	ErrDelete = "Failed to delete task. Please try again."

	// DeletePrompt is shown before a task is deleted.
	DeletePrompt = "Are you sure you want to delete this task?"
)

// State is the controller's view of the world. Transitions never modify the
// receiver's Tasks slice in place; they return a State with a fresh slice so
// earlier snapshots stay valid.
type State struct {
	Tasks   []*task.Task
	Editing *task.Task
	Loading bool
	Err     string
}

// StartFetch marks a fetch in flight and clears the error.
func (s State) StartFetch() State {
	s.Loading = true
	s.Err = ""
	return s
}

// Fetched replaces the whole collection with tasks.
func (s State) Fetched(tasks []*task.Task) State {
	s.Tasks = append([]*task.Task(nil), tasks...)
	s.Loading = false
	return s
}

// FetchFailed records a failed fetch. The collection is left as it was.
func (s State) FetchFailed() State {
	s.Err = ErrFetch
	s.Loading = false
	return s
}

// StartMutation clears the error before a create, update or delete.
func (s State) StartMutation() State {
	s.Err = ""
	return s
}

// Created appends a server-confirmed task.
func (s State) Created(t *task.Task) State {
	tasks := make([]*task.Task, 0, len(s.Tasks)+1)
	tasks = append(tasks, s.Tasks...)
	s.Tasks = append(tasks, t)
	return s
}

// Updated swaps the entry with the given ID for t, keeping order, and exits
// edit mode.
func (s State) Updated(id int, t *task.Task) State {
	tasks := make([]*task.Task, len(s.Tasks))
	for i, cur := range s.Tasks {
		if cur.ID == id {
			tasks[i] = t
			continue
		}
		tasks[i] = cur
	}
	s.Tasks = tasks
	s.Editing = nil
	return s
}

// Deleted drops the entry with the given ID. The editing reference is left
// alone even when it points at the deleted task.
func (s State) Deleted(id int) State {
	tasks := make([]*task.Task, 0, len(s.Tasks))
	for _, cur := range s.Tasks {
		if cur.ID != id {
			tasks = append(tasks, cur)
		}
	}
	s.Tasks = tasks
	return s
}

// Failed records a generic error message for a failed mutation.
func (s State) Failed(msg string) State {
	s.Err = msg
	return s
}

// BeginEdit points the editing reference at t.
func (s State) BeginEdit(t *task.Task) State {
	s.Editing = t
	return s
}

// CancelEdit clears the editing reference.
func (s State) CancelEdit() State {
	s.Editing = nil
	return s
}

// DismissError clears the error.
func (s State) DismissError() State {
	s.Err = ""
	return s
}

// HasError reports whether an error banner should be shown.
func (s State) HasError() bool {
	return s.Err != ""
}
