package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

func listTasks() []*task.Task {
	created := date.New(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	return []*task.Task{
		{ID: 1, Title: "Write docs", Description: "Explain the API", Status: task.StatusInProgress, CreatedAt: created, CommentsCount: 1},
		{ID: 2, Title: "Ship", Status: task.StatusCompleted, CreatedAt: created, CommentsCount: 3},
		{ID: 3, Title: "Plan", Status: task.StatusPending, CreatedAt: created},
	}
}

func TestRenderListEmpty(t *testing.T) {
	out := RenderList(nil, -1, 60, "")
	assert.Contains(t, out, EmptyListText)
	assert.NotContains(t, out, "Your Tasks")
}

func TestRenderListCards(t *testing.T) {
	tasks := listTasks()
	out := RenderList(tasks, 0, 60, date.DisplayFormat)

	assert.Contains(t, out, "Your Tasks (3)")
	assert.Contains(t, out, "Write docs")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "Explain the API")
	assert.Contains(t, out, "Created: 2024-01-15")
	assert.Contains(t, out, "1 comment")
	assert.Contains(t, out, "3 comments")
	assert.NotContains(t, out, "0 comment")
}

func TestRenderListDoesNotModifyTasks(t *testing.T) {
	tasks := listTasks()
	before := make([]task.Task, len(tasks))
	for i, tk := range tasks {
		before[i] = *tk
	}

	RenderList(tasks, 1, 40, date.DisplayFormat)

	for i, tk := range tasks {
		assert.Equal(t, before[i], *tk)
	}
}

func TestCommentsLabel(t *testing.T) {
	assert.Empty(t, commentsLabel(0))
	assert.Equal(t, "1 comment", commentsLabel(1))
	assert.Equal(t, "2 comments", commentsLabel(2))
}

func TestListTriggers(t *testing.T) {
	tasks := listTasks()
	l := NewList("")
	l.Focus()

	var edited *task.Task
	var deleted []int
	l.OnEdit = func(tk *task.Task) tea.Cmd { edited = tk; return nil }
	l.OnDelete = func(id int) tea.Cmd { deleted = append(deleted, id); return nil }

	l.Update(runes("e"), tasks)
	require.NotNil(t, edited)
	assert.Same(t, tasks[0], edited)

	l.Update(runes("j"), tasks)
	l.Update(runes("d"), tasks)
	assert.Equal(t, []int{2}, deleted)

	l.Update(runes("j"), tasks)
	l.Update(runes("j"), tasks)
	assert.Equal(t, 2, l.Cursor(), "cursor stops at the last task")
}

func TestListTriggersIgnoreEmpty(t *testing.T) {
	l := NewList("")
	called := false
	l.OnEdit = func(*task.Task) tea.Cmd { called = true; return nil }
	l.OnDelete = func(int) tea.Cmd { called = true; return nil }

	l.Update(runes("e"), nil)
	l.Update(runes("d"), nil)
	assert.False(t, called)
}

func TestListClamp(t *testing.T) {
	tasks := listTasks()
	l := NewList("")
	l.Update(runes("j"), tasks)
	l.Update(runes("j"), tasks)
	require.Equal(t, 2, l.Cursor())

	l.Clamp(tasks[:1])
	assert.Equal(t, 0, l.Cursor())
	l.Clamp(nil)
	assert.Equal(t, 0, l.Cursor())
}

func TestListViewScrollsToCursor(t *testing.T) {
	tasks := listTasks()
	l := NewList("")
	l.Focus()
	l.Update(runes("j"), tasks)
	l.Update(runes("j"), tasks)

	// Room for the header and roughly one card.
	out := l.View(tasks, 60, 6)
	assert.Contains(t, out, "Plan")
	assert.Contains(t, out, "more")
}
