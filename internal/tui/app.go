// Package tui implements the full-screen terminal UI: the task form, the task
// list, the error banner and the delete confirmation, hosted by one bubbletea
// model that drives an app.Controller.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskdeck/internal/app"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewMain view = iota
	viewConfirmDelete
	viewWarning
)

// LoadingText is shown in place of the list while a fetch is in flight.
const LoadingText = "Loading tasks..."

const (
	appChrome    = 2 // blank line + status bar below the list
	maxFormWidth = 80
)

// App is the top-level bubbletea model.
type App struct {
	ctrl   *app.Controller
	form   *Form
	list   *List
	keys   keyMap
	view   view
	source string
	width  int
	height int

	// ctx is canceled on quit; in-flight calls observe it and late results
	// are dropped.
	ctx      context.Context
	cancel   context.CancelFunc
	quitting bool

	// Delete confirmation.
	deleteID    int
	deleteTitle string
}

// NewApp creates the root model around ctrl.
func NewApp(ctrl *app.Controller, cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		ctrl:   ctrl,
		form:   NewForm(),
		list:   NewList(cfg.DateFormat()),
		keys:   defaultKeyMap(),
		source: cfg.API.URL,
		ctx:    ctx,
		cancel: cancel,
	}
	a.list.OnEdit = a.startEdit
	a.list.OnDelete = a.startDelete
	a.list.Focus()
	return a
}

// Close cancels any in-flight calls. It is safe to call more than once.
func (a *App) Close() {
	a.quitting = true
	a.cancel()
}

// Init implements tea.Model. The initial fetch runs once per session.
func (a *App) Init() tea.Cmd {
	return a.run(a.ctrl.BeginFetch())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.form.SetWidth(a.formWidth())
		return a, nil
	case resultMsg:
		if a.quitting {
			return a, nil
		}
		a.apply(msg.result)
		return a, nil
	case ReloadMsg:
		return a, a.refresh()
	}
	return a, a.form.Forward(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	switch a.view {
	case viewConfirmDelete:
		return a.viewDeleteConfirm()
	case viewWarning:
		return a.viewWarning()
	default:
		return a.viewMain()
	}
}

// State exposes the controller state.
func (a *App) State() app.State {
	return a.ctrl.State()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher when another process changed tasks.
type ReloadMsg struct{}

// resultMsg carries a finished service call back to the event loop.
type resultMsg struct {
	result app.Result
}

// run executes call off the event loop.
func (a *App) run(call app.Call) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return resultMsg{result: call(ctx)}
	}
}

func (a *App) apply(r app.Result) {
	ok := a.ctrl.Apply(r)
	switch r.(type) {
	case app.CreateResult, app.UpdateResult:
		a.form.Settle(ok)
	}
	a.sync()
}

// sync propagates controller state into the form and list.
func (a *App) sync() {
	st := a.ctrl.State()
	a.form.SetInitial(st.Editing)
	a.list.Clamp(st.Tasks)
}

// refresh starts a fetch unless one is already in flight.
func (a *App) refresh() tea.Cmd {
	if a.quitting || a.ctrl.State().Loading {
		return nil
	}
	return a.run(a.ctrl.BeginFetch())
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.Close()
	return a, tea.Quit
}

// --- Key handling ---

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, a.keys.ForceQuit) {
		return a.quit()
	}

	switch a.view {
	case viewConfirmDelete:
		return a.handleDeleteKey(msg)
	case viewWarning:
		// Any key acknowledges the warning.
		a.form.DismissWarning()
		a.view = viewMain
		return a, nil
	}

	if a.form.Focused() {
		return a.handleFormKey(msg)
	}
	return a.handleListKey(msg)
}

func (a *App) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Focus):
		return a, a.focusForm()
	case key.Matches(msg, a.keys.Refresh):
		return a, a.refresh()
	case key.Matches(msg, a.keys.Dismiss):
		a.ctrl.DismissError()
		return a, nil
	}
	return a, a.list.Update(msg, a.ctrl.State().Tasks)
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev, cmd := a.form.Update(msg)
	switch ev {
	case FormSubmit:
		return a, a.submit()
	case FormCancel:
		a.ctrl.CancelEdit()
		a.sync()
		a.focusList()
	case FormLeave:
		a.focusList()
	}
	return a, cmd
}

func (a *App) submit() tea.Cmd {
	p, ok := a.form.Submit()
	if !ok {
		if a.form.Warning() != "" {
			a.view = viewWarning
		}
		return nil
	}
	if t := a.form.Initial(); t != nil {
		return a.run(a.ctrl.BeginUpdate(t.ID, p))
	}
	return a.run(a.ctrl.BeginCreate(p))
}

func (a *App) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Yes):
		a.view = viewMain
		return a, a.run(a.ctrl.BeginDelete(a.deleteID))
	case key.Matches(msg, a.keys.No):
		a.view = viewMain
	}
	return a, nil
}

func (a *App) startEdit(t *task.Task) tea.Cmd {
	a.ctrl.BeginEdit(t)
	a.sync()
	return a.focusForm()
}

func (a *App) startDelete(id int) tea.Cmd {
	a.deleteID = id
	a.deleteTitle = ""
	tasks := a.ctrl.State().Tasks
	if i := task.IndexByID(tasks, id); i >= 0 {
		a.deleteTitle = tasks[i].Title
	}
	a.view = viewConfirmDelete
	return nil
}

func (a *App) focusForm() tea.Cmd {
	a.list.Blur()
	return a.form.Focus()
}

func (a *App) focusList() {
	a.form.Blur()
	a.list.Focus()
}

// --- View rendering ---

func (a *App) formWidth() int {
	if a.width == 0 || a.width > maxFormWidth {
		return maxFormWidth
	}
	return a.width
}

func (a *App) viewMain() string {
	st := a.ctrl.State()

	top := []string{
		headerStyle.Render("Task Manager") + " " + dimStyle.Render("Manage your tasks efficiently"),
	}
	if st.HasError() {
		top = append(top, bannerStyle.Render(st.Err+"  [x]"))
	}
	top = append(top, a.form.View())
	head := lipgloss.JoinVertical(lipgloss.Left, top...)

	var body string
	if st.Loading {
		body = dimStyle.Render(LoadingText)
	} else {
		avail := 0
		if a.height > 0 {
			avail = a.height - lipgloss.Height(head) - appChrome
			if avail < 1 {
				avail = 1
			}
		}
		body = a.list.View(st.Tasks, a.formWidth(), avail)
	}

	return lipgloss.JoinVertical(lipgloss.Left, head, body, "", a.renderStatusBar())
}

func (a *App) renderStatusBar() string {
	st := a.ctrl.State()
	hints := "tab:form e:edit d:del r:refresh q:quit"
	if a.form.Focused() {
		hints = "tab:next ctrl+s:save esc:back"
	}
	if st.HasError() && !a.form.Focused() {
		hints += " x:dismiss"
	}
	status := fmt.Sprintf(" %s | %d tasks | %s", a.source, len(st.Tasks), hints)
	if a.width > 0 {
		status = truncate(status, a.width)
	}
	return statusBarStyle.Render(status)
}

func (a *App) viewDeleteConfirm() string {
	content := errorStyle.Render(app.DeletePrompt) + "\n\n" +
		fmt.Sprintf("  #%d: %s", a.deleteID, a.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

func (a *App) viewWarning() string {
	content := errorStyle.Render(a.form.Warning()) + "\n\n" +
		dimStyle.Render("press any key")

	return warningDialogStyle.Render(content)
}
