// Package server implements the reference Task API: a gin router over a
// gorm-backed sqlite store, serving the routes the service client calls.
package server

import (
	"time"

	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// Task is the persisted task row.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:20;not null;default:pending;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment is the persisted comment row.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	TaskID    uint   `gorm:"not null;index"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Task) toTask(comments int) *task.Task {
	return &task.Task{
		ID:            int(m.ID),
		Title:         m.Title,
		Description:   m.Description,
		Status:        task.Status(m.Status),
		CreatedAt:     date.New(m.CreatedAt.UTC()),
		CommentsCount: comments,
	}
}

func (m *Comment) toComment() *task.Comment {
	return &task.Comment{
		ID:        int(m.ID),
		TaskID:    int(m.TaskID),
		Content:   m.Content,
		CreatedAt: date.New(m.CreatedAt.UTC()),
	}
}
