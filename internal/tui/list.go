package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// EmptyListText is shown when there are no tasks.
const EmptyListText = "No tasks yet. Create your first task above!"

const (
	maxDescLines     = 3
	defaultListWidth = 60
)

// List renders the task collection and turns edit/delete key presses into
// callbacks. It never modifies the tasks it is given.
type List struct {
	keys       keyMap
	cursor     int
	scrollOff  int
	focused    bool
	dateFormat string

	// OnEdit is called with the selected task when edit is pressed.
	OnEdit func(t *task.Task) tea.Cmd
	// OnDelete is called with the selected task's ID when delete is pressed.
	OnDelete func(id int) tea.Cmd
}

// NewList returns a List rendering creation dates with dateFormat.
func NewList(dateFormat string) *List {
	if dateFormat == "" {
		dateFormat = date.DisplayFormat
	}
	return &List{keys: defaultKeyMap(), dateFormat: dateFormat}
}

// Cursor returns the selected index.
func (l *List) Cursor() int { return l.cursor }

// Focus gives the list keyboard focus.
func (l *List) Focus() { l.focused = true }

// Blur removes keyboard focus.
func (l *List) Blur() { l.focused = false }

// Focused reports whether the list has keyboard focus.
func (l *List) Focused() bool { return l.focused }

// Selected returns the task under the cursor, or nil.
func (l *List) Selected(tasks []*task.Task) *task.Task {
	if l.cursor >= 0 && l.cursor < len(tasks) {
		return tasks[l.cursor]
	}
	return nil
}

// Clamp keeps the cursor inside tasks after the collection changes.
func (l *List) Clamp(tasks []*task.Task) {
	if l.cursor >= len(tasks) {
		l.cursor = len(tasks) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.scrollOff > l.cursor {
		l.scrollOff = l.cursor
	}
}

// Update handles navigation and the edit/delete triggers.
func (l *List) Update(msg tea.KeyMsg, tasks []*task.Task) tea.Cmd {
	switch {
	case key.Matches(msg, l.keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(msg, l.keys.Down):
		if l.cursor < len(tasks)-1 {
			l.cursor++
		}
	case key.Matches(msg, l.keys.Edit):
		if t := l.Selected(tasks); t != nil && l.OnEdit != nil {
			return l.OnEdit(t)
		}
	case key.Matches(msg, l.keys.Delete):
		if t := l.Selected(tasks); t != nil && l.OnDelete != nil {
			return l.OnDelete(t.ID)
		}
	}
	return nil
}

// View renders the list into at most height lines (0 = unbounded), scrolling
// so the cursor stays visible.
func (l *List) View(tasks []*task.Task, width, height int) string {
	if len(tasks) == 0 {
		return RenderList(tasks, -1, width, l.dateFormat)
	}
	cursor := -1
	if l.focused {
		cursor = l.cursor
	}

	header := listHeader(len(tasks))
	cards := make([]string, len(tasks))
	for i, t := range tasks {
		cards[i] = renderCard(t, i == cursor, width, l.dateFormat)
	}
	if height <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, cards...)...)
	}

	l.ensureVisible(cards, height-1)
	parts := []string{header}
	used := 1
	if l.scrollOff > 0 {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("  ↑ %d more", l.scrollOff)))
		used++
	}
	end := l.scrollOff
	for end < len(cards) {
		h := lipgloss.Height(cards[end])
		if end > l.scrollOff && used+h > height-1 {
			break
		}
		parts = append(parts, cards[end])
		used += h
		end++
	}
	if end < len(cards) {
		parts = append(parts, dimStyle.Render(fmt.Sprintf("  ↓ %d more", len(cards)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ensureVisible moves scrollOff so the cursor card fits within avail lines.
func (l *List) ensureVisible(cards []string, avail int) {
	if l.cursor < l.scrollOff {
		l.scrollOff = l.cursor
		return
	}
	for l.scrollOff < l.cursor {
		used := 0
		if l.scrollOff > 0 {
			used++
		}
		for i := l.scrollOff; i <= l.cursor; i++ {
			used += lipgloss.Height(cards[i])
		}
		if used <= avail {
			return
		}
		l.scrollOff++
	}
}

// RenderList renders every task as a card. cursor marks the highlighted card
// (-1 for none). It has no side effects.
func RenderList(tasks []*task.Task, cursor, width int, dateFormat string) string {
	if len(tasks) == 0 {
		return dimStyle.Render(EmptyListText)
	}
	parts := make([]string, 0, len(tasks)+1)
	parts = append(parts, listHeader(len(tasks)))
	for i, t := range tasks {
		parts = append(parts, renderCard(t, i == cursor, width, dateFormat))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func listHeader(n int) string {
	return sectionTitleStyle.Render(fmt.Sprintf("Your Tasks (%d)", n))
}

func renderCard(t *task.Task, active bool, width int, dateFormat string) string {
	if width <= 0 {
		width = defaultListWidth
	}
	style := cardStyle
	if active {
		style = activeCardStyle
	}
	return style.Width(width - 2).Render(strings.Join(cardLines(t, width, dateFormat), "\n")) //nolint:mnd // border width
}

// cardLines returns the plain content of a card: title and badge, the
// description when present, then the meta line.
func cardLines(t *task.Task, width int, dateFormat string) []string {
	const cardChrome = 4 // border (2) + padding (2)
	inner := width - cardChrome
	if inner < 1 {
		inner = 1
	}

	badge := badgeStyle(t.Status).Render(t.Status.Label())
	titleWidth := inner - lipgloss.Width(badge) - 1
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(truncate(t.Title, titleWidth)) + " " + badge,
	}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		lines = append(lines, wrapText(desc, inner, maxDescLines)...)
	}

	lines = append(lines, dimStyle.Render(metaLine(t, dateFormat)))
	return lines
}

// metaLine is "Created: <date>" plus the comment count when there are any.
func metaLine(t *task.Task, dateFormat string) string {
	meta := "Created: " + t.CreatedAt.Display(dateFormat)
	if c := commentsLabel(t.CommentsCount); c != "" {
		meta += "  " + c
	}
	return meta
}

// commentsLabel renders "1 comment" / "N comments", or "" for zero.
func commentsLabel(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "1 comment"
	default:
		return fmt.Sprintf("%d comments", n)
	}
}
