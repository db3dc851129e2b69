package app

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/twiced-technology-gmbh/taskdeck/internal/activity"
	"github.com/twiced-technology-gmbh/taskdeck/internal/service"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// errNoTask marks a create or update that reported success without a record.
var errNoTask = errors.New("service returned no task")

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Call is the network half of an operation. It only touches the Service, so
// it may run off the event loop; its Result is handed back to Apply.
type Call func(ctx context.Context) Result

// Result is the outcome of a Call.
type Result interface {
	isResult()
}

// FetchResult is the outcome of a list call.
type FetchResult struct {
	Tasks []*task.Task
	Err   error
}

// CreateResult is the outcome of a create call.
type CreateResult struct {
	Task *task.Task
	Err  error
}

// UpdateResult is the outcome of an update call.
type UpdateResult struct {
	ID   int
	Task *task.Task
	Err  error
}

// DeleteResult is the outcome of a delete call.
type DeleteResult struct {
	ID  int
	Err error
}

func (FetchResult) isResult()  {}
func (CreateResult) isResult() {}
func (UpdateResult) isResult() {}
func (DeleteResult) isResult() {}

// Controller owns State and mediates between the views and the Service.
// It is not safe for concurrent use: State is only touched by Begin*, Apply
// and the edit/error operations, which the caller runs on one goroutine.
type Controller struct {
	svc      service.Service
	state    State
	logger   *log.Logger
	activity activity.Recorder
	confirm  Confirmer

	// cause is the service error behind the last failed Apply.
	cause error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRecorder sets the activity recorder for confirmed mutations.
func WithRecorder(r activity.Recorder) Option {
	return func(c *Controller) { c.activity = r }
}

// WithConfirmer sets the gate consulted by DeleteTask.
func WithConfirmer(cf Confirmer) Option {
	return func(c *Controller) { c.confirm = cf }
}

// New returns a Controller with an empty collection. Without a Confirmer,
// DeleteTask declines every deletion.
func New(svc service.Service, opts ...Option) *Controller {
	c := &Controller{
		svc:      svc,
		logger:   log.New(io.Discard, "", 0),
		activity: activity.Nop{},
		confirm:  ConfirmFunc(func(string) bool { return false }),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state
}

// Cause returns the service error behind the most recent applied result, or
// nil when it succeeded.
func (c *Controller) Cause() error {
	return c.cause
}

// --- Synchronous operations ---

// FetchTasks replaces the collection with the Service's list. Loading is
// cleared on every exit path.
func (c *Controller) FetchTasks(ctx context.Context) bool {
	call := c.BeginFetch()
	defer func() { c.state.Loading = false }()
	return c.Apply(call(ctx))
}

// CreateTask creates a task and appends the server's record on success.
func (c *Controller) CreateTask(ctx context.Context, p task.Payload) bool {
	return c.Apply(c.BeginCreate(p)(ctx))
}

// UpdateTask updates a task and swaps in the server's record on success.
func (c *Controller) UpdateTask(ctx context.Context, id int, p task.Payload) bool {
	return c.Apply(c.BeginUpdate(id, p)(ctx))
}

// DeleteTask asks the Confirmer, then deletes the task. A declined
// confirmation is a no-op and returns false.
func (c *Controller) DeleteTask(ctx context.Context, id int) bool {
	if !c.confirm.Confirm(DeletePrompt) {
		return false
	}
	return c.Apply(c.BeginDelete(id)(ctx))
}

// --- Two-phase operations ---

// BeginFetch marks a fetch in flight and returns the list call.
func (c *Controller) BeginFetch() Call {
	c.state = c.state.StartFetch()
	svc := c.svc
	return func(ctx context.Context) Result {
		tasks, err := svc.List(ctx)
		return FetchResult{Tasks: tasks, Err: err}
	}
}

// BeginCreate clears the error and returns the create call with a trimmed payload.
func (c *Controller) BeginCreate(p task.Payload) Call {
	c.state = c.state.StartMutation()
	p = task.NewPayload(p.Title, p.Description, p.Status)
	svc := c.svc
	return func(ctx context.Context) Result {
		t, err := svc.Create(ctx, p)
		return CreateResult{Task: t, Err: err}
	}
}

// BeginUpdate clears the error and returns the update call with a trimmed payload.
func (c *Controller) BeginUpdate(id int, p task.Payload) Call {
	c.state = c.state.StartMutation()
	p = task.NewPayload(p.Title, p.Description, p.Status)
	svc := c.svc
	return func(ctx context.Context) Result {
		t, err := svc.Update(ctx, id, p)
		return UpdateResult{ID: id, Task: t, Err: err}
	}
}

// BeginDelete clears the error and returns the delete call. Callers must
// have obtained confirmation already.
func (c *Controller) BeginDelete(id int) Call {
	c.state = c.state.StartMutation()
	svc := c.svc
	return func(ctx context.Context) Result {
		return DeleteResult{ID: id, Err: svc.Delete(ctx, id)}
	}
}

// Apply folds a Result into State and reports whether the call succeeded.
func (c *Controller) Apply(r Result) bool {
	c.cause = nil
	switch r := r.(type) {
	case FetchResult:
		if r.Err != nil {
			c.logger.Printf("Error fetching tasks: %v", r.Err)
			c.cause = r.Err
			c.state = c.state.FetchFailed()
			return false
		}
		c.state = c.state.Fetched(r.Tasks)
		return true

	case CreateResult:
		if r.Err == nil && r.Task == nil {
			r.Err = errNoTask
		}
		if r.Err != nil {
			c.logger.Printf("Error creating task: %v", r.Err)
			c.cause = r.Err
			c.state = c.state.Failed(ErrCreate)
			return false
		}
		c.state = c.state.Created(r.Task)
		c.activity.Record(activity.ActionCreate, r.Task.ID, r.Task.Title)
		return true

	case UpdateResult:
		if r.Err == nil && r.Task == nil {
			r.Err = errNoTask
		}
		if r.Err != nil {
			c.logger.Printf("Error updating task #%d: %v", r.ID, r.Err)
			c.cause = r.Err
			c.state = c.state.Failed(ErrUpdate)
			return false
		}
		c.state = c.state.Updated(r.ID, r.Task)
		c.activity.Record(activity.ActionUpdate, r.ID, r.Task.Title)
		return true

	case DeleteResult:
		if r.Err != nil {
			c.logger.Printf("Error deleting task #%d: %v", r.ID, r.Err)
			c.cause = r.Err
			c.state = c.state.Failed(ErrDelete)
			return false
		}
		c.state = c.state.Deleted(r.ID)
		c.activity.Record(activity.ActionDelete, r.ID, "")
		return true
	}
	return false
}

// --- Local operations ---

// BeginEdit loads t into the form. The in-memory snapshot is used as is.
func (c *Controller) BeginEdit(t *task.Task) {
	c.state = c.state.BeginEdit(t)
}

// CancelEdit leaves edit mode.
func (c *Controller) CancelEdit() {
	c.state = c.state.CancelEdit()
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.state = c.state.DismissError()
}
