package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, comments []*task.Comment) {
	fmt.Fprintln(w, formatTaskLine(t))

	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
	for _, c := range comments {
		fmt.Fprintln(w, "  > "+dateOrDash(c.CreatedAt)+" "+c.Content)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + string(t.Status) + "] " + t.Title +
		" created:" + dateOrDash(t.CreatedAt)
	if t.CommentsCount > 0 {
		line += " comments:" + strconv.Itoa(t.CommentsCount)
	}
	return line
}
