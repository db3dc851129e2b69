package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// TitleRequired is the warning raised when the form is submitted without a title.
const TitleRequired = "Title is required"

// formField identifies the focused input.
type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldStatus
	fieldCount
)

// FormEvent tells the parent what a key press asked for.
type FormEvent int

const (
	// FormNone means the key was consumed by the form.
	FormNone FormEvent = iota
	// FormSubmit asks the parent to call Submit and dispatch the payload.
	FormSubmit
	// FormCancel asks the parent to leave edit mode.
	FormCancel
	// FormLeave asks the parent to move focus away from the form.
	FormLeave
)

const (
	titleCharLimit = 200
	descCharLimit  = 2000
	descHeight     = 4
	minInputWidth  = 20
)

// Form is the create/edit input group. It owns only its field values and
// the submitting flag; dispatch is up to the parent.
type Form struct {
	keys        keyMap
	title       textinput.Model
	description textarea.Model
	status      task.Status
	field       formField
	focused     bool

	initial    *task.Task
	submitting bool
	// submittedCreate records the mode at submit time; Settle uses it.
	submittedCreate bool
	warning         string
	width           int
}

// NewForm returns an empty form in create mode.
func NewForm() *Form {
	title := textinput.New()
	title.Placeholder = "Enter task title"
	title.CharLimit = titleCharLimit

	desc := textarea.New()
	desc.Placeholder = "Enter task description"
	desc.CharLimit = descCharLimit
	desc.SetHeight(descHeight)
	desc.ShowLineNumbers = false

	return &Form{
		keys:        defaultKeyMap(),
		title:       title,
		description: desc,
		status:      task.DefaultStatus,
	}
}

// SetInitial loads the record to edit. Fields reset only when the identity of
// the record changes: a different pointer repopulates them, nil clears them.
func (f *Form) SetInitial(t *task.Task) {
	if t == f.initial {
		return
	}
	f.initial = t
	if t == nil {
		f.reset()
		return
	}
	f.title.SetValue(t.Title)
	f.description.SetValue(t.Description)
	f.status = t.Status
	if !f.status.Valid() {
		f.status = task.DefaultStatus
	}
}

func (f *Form) reset() {
	f.title.SetValue("")
	f.description.SetValue("")
	f.status = task.DefaultStatus
}

// Initial returns the record being edited, or nil in create mode.
func (f *Form) Initial() *task.Task {
	return f.initial
}

// Editing reports whether the form is in edit mode.
func (f *Form) Editing() bool {
	return f.initial != nil
}

// Title returns the raw title value.
func (f *Form) Title() string { return f.title.Value() }

// Description returns the raw description value.
func (f *Form) Description() string { return f.description.Value() }

// Status returns the selected status.
func (f *Form) Status() task.Status { return f.status }

// SetValues overwrites the field values without touching the edit reference.
func (f *Form) SetValues(title, description string, status task.Status) {
	f.title.SetValue(title)
	f.description.SetValue(description)
	if status.Valid() {
		f.status = status
	}
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool { return f.submitting }

// CanSubmit reports whether the submit affordance is enabled.
func (f *Form) CanSubmit() bool {
	return !f.submitting && strings.TrimSpace(f.title.Value()) != ""
}

// Submit validates the fields. An empty title raises the blocking warning and
// returns false without a payload. Otherwise the form enters the submitting
// state and returns the trimmed payload for the parent to dispatch.
func (f *Form) Submit() (task.Payload, bool) {
	if f.submitting {
		return task.Payload{}, false
	}
	if err := task.ValidateTitle(f.title.Value()); err != nil {
		f.warning = TitleRequired
		return task.Payload{}, false
	}
	f.submitting = true
	f.submittedCreate = f.initial == nil
	return task.NewPayload(f.title.Value(), f.description.Value(), f.status), true
}

// Settle ends a submission. A successful create clears the fields; an edit
// is reset by the parent clearing the edit reference.
func (f *Form) Settle(ok bool) {
	if !f.submitting {
		return
	}
	f.submitting = false
	if ok && f.submittedCreate {
		f.reset()
		f.field = fieldTitle
		f.syncFocus()
	}
}

// Warning returns the pending blocking warning, if any.
func (f *Form) Warning() string { return f.warning }

// DismissWarning acknowledges the warning.
func (f *Form) DismissWarning() { f.warning = "" }

// Focus gives the form keyboard focus.
func (f *Form) Focus() tea.Cmd {
	f.focused = true
	return f.syncFocus()
}

// Blur removes keyboard focus.
func (f *Form) Blur() {
	f.focused = false
	f.title.Blur()
	f.description.Blur()
}

// Focused reports whether the form has keyboard focus.
func (f *Form) Focused() bool { return f.focused }

// SetWidth sizes the inputs to fit width cells.
func (f *Form) SetWidth(width int) {
	f.width = width
	w := width - 4 //nolint:mnd // panel border and padding
	if w < minInputWidth {
		w = minInputWidth
	}
	f.title.Width = w
	f.description.SetWidth(w)
}

func (f *Form) syncFocus() tea.Cmd {
	f.title.Blur()
	f.description.Blur()
	if !f.focused {
		return nil
	}
	switch f.field {
	case fieldTitle:
		return f.title.Focus()
	case fieldDescription:
		return f.description.Focus()
	}
	return nil
}

// Update handles a key press while the form is focused.
func (f *Form) Update(msg tea.KeyMsg) (FormEvent, tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Submit):
		return FormSubmit, nil
	case key.Matches(msg, f.keys.Cancel):
		switch {
		case f.submitting:
			return FormNone, nil
		case f.Editing():
			return FormCancel, nil
		}
		return FormLeave, nil
	case key.Matches(msg, f.keys.NextField):
		if f.field == fieldCount-1 {
			return FormLeave, nil
		}
		f.field++
		return FormNone, f.syncFocus()
	case key.Matches(msg, f.keys.PrevField):
		if f.field > fieldTitle {
			f.field--
		}
		return FormNone, f.syncFocus()
	}

	if f.submitting {
		return FormNone, nil
	}

	var cmd tea.Cmd
	switch f.field {
	case fieldTitle:
		if key.Matches(msg, f.keys.Enter) {
			f.field = fieldDescription
			return FormNone, f.syncFocus()
		}
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldStatus:
		switch {
		case key.Matches(msg, f.keys.Enter):
			return FormSubmit, nil
		case key.Matches(msg, f.keys.Left):
			f.status = f.status.Prev()
		case key.Matches(msg, f.keys.Right):
			f.status = f.status.Next()
		}
	}
	return FormNone, cmd
}

// Forward passes a non-key message (cursor blink) to the focused input.
func (f *Form) Forward(msg tea.Msg) tea.Cmd {
	if !f.focused {
		return nil
	}
	var cmd tea.Cmd
	switch f.field {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	}
	return cmd
}

// View renders the form panel.
func (f *Form) View() string {
	heading := "Create New Task"
	if f.Editing() {
		heading = "Edit Task"
	}

	parts := []string{
		sectionTitleStyle.Render(heading),
		"",
		f.label(fieldTitle, "Title *"),
		f.title.View(),
		"",
		f.label(fieldDescription, "Description"),
		f.description.View(),
		"",
		f.label(fieldStatus, "Status"),
		f.statusView(),
		"",
		f.actionsView(),
	}

	style := panelStyle
	if f.focused {
		style = activePanelStyle
	}
	if f.width > 0 {
		style = style.Width(f.width - 2) //nolint:mnd // border width
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (f *Form) label(field formField, text string) string {
	if f.focused && f.field == field {
		return activeLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (f *Form) statusView() string {
	opts := make([]string, len(task.Statuses))
	for i, s := range task.Statuses {
		if s == f.status {
			opts[i] = badgeStyle(s).Render(s.Label())
			continue
		}
		opts[i] = dimStyle.Render(s.Label())
	}
	return strings.Join(opts, "  ")
}

func (f *Form) actionsView() string {
	label := "Create Task"
	if f.Editing() {
		label = "Update Task"
	}
	if f.submitting {
		label = "Saving..."
	}

	submit := disabledButtonStyle.Render(label)
	if f.CanSubmit() {
		submit = buttonStyle.Render(label)
	}

	hints := "ctrl+s:save"
	if f.Editing() && !f.submitting {
		hints += "  esc:cancel"
	}
	return submit + "  " + dimStyle.Render(hints)
}
