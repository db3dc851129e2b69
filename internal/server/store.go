package server

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

// ErrNotFound is returned when a task or comment does not exist.
var ErrNotFound = errors.New("not found")

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Open opens the sqlite database at path and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Each sqlite connection is its own in-memory database, and sqlite
	// serializes writers anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Task{}, &Comment{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}

// TaskPatch holds the fields present in an update request. Nil fields are
// left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *task.Status
}

// Empty reports whether the patch carries no fields.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Store reads and writes tasks and comments.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListTasks returns every task in insertion order.
func (s *Store) ListTasks(ctx context.Context) ([]*task.Task, error) {
	var rows []Task
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	counts, err := s.commentCounts(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]*task.Task, len(rows))
	for i := range rows {
		tasks[i] = rows[i].toTask(counts[rows[i].ID])
	}
	return tasks, nil
}

// GetTask returns one task.
func (s *Store) GetTask(ctx context.Context, id int) (*task.Task, error) {
	m, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, m)
}

// CreateTask inserts a task. The payload must already be validated.
func (s *Store) CreateTask(ctx context.Context, p task.Payload) (*task.Task, error) {
	m := &Task{Title: p.Title, Description: p.Description, Status: string(p.Status)}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m.toTask(0), nil
}

// UpdateTask applies the fields present in patch.
func (s *Store) UpdateTask(ctx context.Context, id int, patch TaskPatch) (*task.Task, error) {
	m, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Status != nil {
		m.Status = string(*patch.Status)
	}

	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return s.withCount(ctx, m)
}

// DeleteTask removes a task and its comments.
func (s *Store) DeleteTask(ctx context.Context, id int) error {
	if _, err := s.findTask(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Task{}, id).Error
	})
}

// ListComments returns the comments of a task, newest first.
func (s *Store) ListComments(ctx context.Context, taskID int) ([]*task.Comment, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}

	var rows []Comment
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	comments := make([]*task.Comment, len(rows))
	for i := range rows {
		comments[i] = rows[i].toComment()
	}
	return comments, nil
}

// GetComment returns one comment of a task.
func (s *Store) GetComment(ctx context.Context, taskID, commentID int) (*task.Comment, error) {
	m, err := s.findComment(ctx, taskID, commentID)
	if err != nil {
		return nil, err
	}
	return m.toComment(), nil
}

// CreateComment attaches a comment to a task.
func (s *Store) CreateComment(ctx context.Context, taskID int, content string) (*task.Comment, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}
	m := &Comment{TaskID: uint(taskID), Content: content} //nolint:gosec // IDs are positive
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m.toComment(), nil
}

// UpdateComment replaces the content of a comment.
func (s *Store) UpdateComment(ctx context.Context, taskID, commentID int, content string) (*task.Comment, error) {
	m, err := s.findComment(ctx, taskID, commentID)
	if err != nil {
		return nil, err
	}
	m.Content = content
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m.toComment(), nil
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(ctx context.Context, taskID, commentID int) error {
	m, err := s.findComment(ctx, taskID, commentID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(m).Error
}

func (s *Store) findTask(ctx context.Context, id int) (*Task, error) {
	var m Task
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Store) findComment(ctx context.Context, taskID, commentID int) (*Comment, error) {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return nil, err
	}
	var m Comment
	err := s.db.WithContext(ctx).Where("id = ? AND task_id = ?", commentID, taskID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Store) withCount(ctx context.Context, m *Task) (*task.Task, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Comment{}).Where("task_id = ?", m.ID).Count(&n).Error; err != nil {
		return nil, err
	}
	return m.toTask(int(n)), nil
}

func (s *Store) commentCounts(ctx context.Context) (map[uint]int, error) {
	var rows []struct {
		TaskID uint
		N      int
	}
	err := s.db.WithContext(ctx).Model(&Comment{}).
		Select("task_id, COUNT(*) AS n").
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.TaskID] = r.N
	}
	return counts, nil
}
