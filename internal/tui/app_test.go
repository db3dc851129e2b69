package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/app"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// stubService is a minimal in-memory service.Service.
type stubService struct {
	tasks   []*task.Task
	listErr error
	calls   []string
}

func (s *stubService) List(context.Context) ([]*task.Task, error) {
	s.calls = append(s.calls, "list")
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		cp := *t
		out[i] = &cp
	}
	return out, nil
}

func (s *stubService) Create(_ context.Context, p task.Payload) (*task.Task, error) {
	s.calls = append(s.calls, "create")
	t := &task.Task{ID: len(s.tasks) + 100, Title: p.Title, Description: p.Description, Status: p.Status}
	s.tasks = append(s.tasks, t)
	cp := *t
	return &cp, nil
}

func (s *stubService) Update(_ context.Context, id int, p task.Payload) (*task.Task, error) {
	s.calls = append(s.calls, "update")
	for _, t := range s.tasks {
		if t.ID == id {
			t.Title, t.Description, t.Status = p.Title, p.Description, p.Status
			cp := *t
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubService) Delete(_ context.Context, id int) error {
	s.calls = append(s.calls, "delete")
	return nil
}

func newTestApp(t *testing.T, svc *stubService) *App {
	t.Helper()
	a := NewApp(app.New(svc), config.NewDefault())
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return a
}

// exec runs cmd and feeds its message back into the model, like the runtime would.
func exec(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(resultMsg)
	require.True(t, ok, "expected a service result, got %T", msg)
	a.Update(msg)
}

func press(a *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func loaded(t *testing.T, svc *stubService) *App {
	t.Helper()
	a := newTestApp(t, svc)
	cmd := a.Init()
	assert.True(t, a.State().Loading)
	assert.Contains(t, a.View(), LoadingText)
	exec(t, a, cmd)
	require.False(t, a.State().Loading)
	return a
}

func seed() *stubService {
	return &stubService{tasks: []*task.Task{
		{ID: 1, Title: "First", Status: task.StatusPending},
		{ID: 2, Title: "Second", Status: task.StatusInProgress},
	}}
}

func TestAppInitialFetch(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	assert.Len(t, a.State().Tasks, 2)
	v := a.View()
	assert.Contains(t, v, "Your Tasks (2)")
	assert.Contains(t, v, "In Progress")
	assert.Equal(t, []string{"list"}, svc.calls)
}

func TestAppEmptyState(t *testing.T) {
	a := loaded(t, &stubService{})
	assert.Contains(t, a.View(), EmptyListText)
}

func TestAppErrorBannerAndDismiss(t *testing.T) {
	svc := &stubService{listErr: errors.New("down")}
	a := loaded(t, svc)

	assert.Contains(t, a.View(), app.ErrFetch)

	press(a, runes("x"))
	assert.False(t, a.State().HasError())
	assert.NotContains(t, a.View(), app.ErrFetch)
}

func TestAppRefresh(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	cmd := press(a, runes("r"))
	assert.True(t, a.State().Loading)
	assert.Nil(t, press(a, runes("r")), "no second fetch while loading")
	exec(t, a, cmd)
	assert.Equal(t, []string{"list", "list"}, svc.calls)
}

func TestAppCreateFlow(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	press(a, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, a.form.Focused())
	press(a, runes("  Third  "))

	cmd := press(a, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, a.form.Submitting())
	exec(t, a, cmd)

	st := a.State()
	require.Len(t, st.Tasks, 3)
	assert.Equal(t, "Third", st.Tasks[2].Title)
	assert.Empty(t, a.form.Title())
	assert.False(t, a.form.Submitting())
}

func TestAppEmptyTitleWarningBlocksCall(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	press(a, tea.KeyMsg{Type: tea.KeyTab})
	cmd := press(a, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Contains(t, a.View(), TitleRequired)

	press(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotContains(t, a.View(), TitleRequired)
	assert.Equal(t, []string{"list"}, svc.calls)
}

func TestAppEditFlow(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	press(a, runes("j"))
	press(a, runes("e"))
	st := a.State()
	require.NotNil(t, st.Editing)
	assert.Equal(t, 2, st.Editing.ID)
	assert.True(t, a.form.Focused())
	assert.Equal(t, "Second", a.form.Title())
	assert.Contains(t, a.View(), "Edit Task")

	press(a, runes("!"))
	exec(t, a, press(a, tea.KeyMsg{Type: tea.KeyCtrlS}))

	st = a.State()
	assert.Nil(t, st.Editing)
	assert.Equal(t, "Second!", st.Tasks[1].Title)
	assert.Equal(t, []int{1, 2}, []int{st.Tasks[0].ID, st.Tasks[1].ID})
	assert.False(t, a.form.Editing())
	assert.Empty(t, a.form.Title())
}

func TestAppEscDuringFailedUpdateKeepsEditing(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	press(a, runes("e"))
	require.NotNil(t, a.State().Editing)
	press(a, runes("!"))

	// The task disappears server-side so the update fails.
	svc.tasks = svc.tasks[1:]
	cmd := press(a, tea.KeyMsg{Type: tea.KeyCtrlS})
	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, a.State().Editing, "esc is ignored while saving")
	assert.True(t, a.form.Editing())

	exec(t, a, cmd)
	st := a.State()
	assert.NotEmpty(t, st.Err)
	require.NotNil(t, st.Editing)
	assert.Equal(t, 1, st.Editing.ID)
	assert.Equal(t, "First!", a.form.Title())
	assert.False(t, a.form.Submitting())
}

func TestAppCancelEdit(t *testing.T) {
	a := loaded(t, seed())

	press(a, runes("e"))
	require.NotNil(t, a.State().Editing)

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, a.State().Editing)
	assert.Empty(t, a.form.Title())
	assert.True(t, a.list.Focused())
}

func TestAppDeleteDeclined(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	press(a, runes("d"))
	v := a.View()
	assert.Contains(t, v, app.DeletePrompt)
	assert.Contains(t, v, "First")

	assert.Nil(t, press(a, runes("n")))
	assert.Len(t, a.State().Tasks, 2)
	assert.Equal(t, []string{"list"}, svc.calls)
}

func TestAppDeleteConfirmed(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	press(a, runes("d"))
	exec(t, a, press(a, runes("y")))

	st := a.State()
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, 2, st.Tasks[0].ID)
	assert.Equal(t, []string{"list", "delete"}, svc.calls)
}

func TestAppIgnoresResultsAfterQuit(t *testing.T) {
	svc := seed()
	a := newTestApp(t, svc)
	cmd := a.Init()

	_, quit := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, quit)
	assert.Error(t, a.ctx.Err())

	a.Update(cmd())
	assert.Empty(t, a.State().Tasks)
	assert.Empty(t, a.View())
}

func TestAppReloadRefetches(t *testing.T) {
	svc := seed()
	a := loaded(t, svc)

	svc.tasks = append(svc.tasks, &task.Task{ID: 3, Title: "From CLI", Status: task.StatusPending})
	_, cmd := a.Update(ReloadMsg{})
	exec(t, a, cmd)

	assert.Len(t, a.State().Tasks, 3)
	assert.Equal(t, []string{"list", "list"}, svc.calls)
}
