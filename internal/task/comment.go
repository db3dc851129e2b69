package task

import "github.com/twiced-technology-gmbh/taskdeck/internal/date"

// Comment is a note attached to a task.
type Comment struct {
	ID        int            `json:"id"`
	TaskID    int            `json:"task_id"`
	Content   string         `json:"content"`
	CreatedAt date.Timestamp `json:"created_at"`
}
