package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

const (
	detailTimeFormat = "2006-01-02 15:04"
	markdownWrap     = 80
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Status colors aligned with the TUI badge palette.
	statusStyles = map[task.Status]lipgloss.Style{
		task.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	}

	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))

	// plainMarkdown renders descriptions without ANSI styling.
	plainMarkdown = false
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[task.Status]lipgloss.Style{}
	commentStyle = lipgloss.NewStyle()
	plainMarkdown = true
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, dateFormat string) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, statusW, titleW, createdW := 4, 8, 5, 9
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		statusW = max(statusW, len(t.Status.Label())+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		createdW = max(createdW, len(t.CreatedAt.Display(dateFormat))+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", titleW, "TITLE", createdW, "CREATED", "COMMENTS")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		created := t.CreatedAt.Display(dateFormat)
		if created == "" {
			created = dimStyle.Render("--")
		}
		comments := dimStyle.Render("--")
		if t.CommentsCount > 0 {
			comments = strconv.Itoa(t.CommentsCount)
		}

		row := fmt.Sprintf("%-*d %s %s %s %s",
			idW, t.ID,
			padRight(styledStatus(t.Status), statusW),
			padRight(title, titleW),
			padRight(created, createdW),
			comments)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. comments may be nil.
func TaskDetail(w io.Writer, t *task.Task, comments []*task.Comment) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", styledStatus(t.Status))
	printField(w, "Created", stringOrDash(t.CreatedAt.Display(detailTimeFormat)))
	printField(w, "Comments", strconv.Itoa(t.CommentsCount))

	if desc := strings.TrimSpace(t.Description); desc != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderMarkdown(desc))
	}

	if len(comments) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("COMMENTS"))
		for _, c := range comments {
			fmt.Fprintf(w, "  %s %s\n",
				dimStyle.Render(c.CreatedAt.Display(detailTimeFormat)),
				commentStyle.Render(c.Content))
		}
	}
}

// CommentDetail renders a newly added comment.
func CommentDetail(w io.Writer, c *task.Comment) {
	fmt.Fprintf(w, "Added comment #%d to task #%d\n", c.ID, c.TaskID)
	fmt.Fprintf(w, "  %s %s\n",
		dimStyle.Render(c.CreatedAt.Display(detailTimeFormat)),
		commentStyle.Render(c.Content))
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// renderMarkdown renders a description with glamour, falling back to the raw
// text when rendering fails.
func renderMarkdown(s string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(markdownWrap)}
	if plainMarkdown {
		opts = append(opts, glamour.WithStandardStyle("notty"), glamour.WithColorProfile(termenv.Ascii))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return s
	}
	out, err := r.Render(s)
	if err != nil {
		return s
	}
	return strings.Trim(out, "\n")
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// styledStatus renders the status label using its color, if any.
func styledStatus(s task.Status) string {
	if st, ok := statusStyles[s]; ok {
		return st.Render(s.Label())
	}
	return s.Label()
}

// dateOrDash formats ts for compact output.
func dateOrDash(ts date.Timestamp) string {
	if ts.IsZero() {
		return "--"
	}
	return ts.Display(date.DisplayFormat)
}
