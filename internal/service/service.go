// Package service is the client side of the Task API: the Service contract the
// controller depends on and an HTTP implementation of it.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// Service performs the four task operations against the remote collection.
type Service interface {
	List(ctx context.Context) ([]*task.Task, error)
	Create(ctx context.Context, p task.Payload) (*task.Task, error)
	Update(ctx context.Context, id int, p task.Payload) (*task.Task, error)
	Delete(ctx context.Context, id int) error
}

// Error describes a failed Task API call. StatusCode is 0 when the request
// never produced a response (transport failure, canceled context).
type Error struct {
	Method     string
	Path       string
	StatusCode int
	RequestID  string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
		if e.Message != "" {
			msg += ": " + e.Message
		}
	} else if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%s %s: %s (request %s)", e.Method, e.Path, msg, e.RequestID)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, msg)
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the Task API.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
