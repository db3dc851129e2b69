package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
)

func sample() []*Task {
	day := func(d int) date.Timestamp {
		return date.New(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
	}
	return []*Task{
		{ID: 1, Title: "write docs", Status: StatusCompleted, CreatedAt: day(3), CommentsCount: 2},
		{ID: 2, Title: "Fix login", Description: "session cookie expires", Status: StatusPending, CreatedAt: day(1)},
		{ID: 3, Title: "Deploy", Status: StatusInProgress, CreatedAt: day(2), CommentsCount: 5},
	}
}

func ids(tasks []*Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tasks := sample()

	assert.Equal(t, []int{1, 2, 3}, ids(Filter(tasks, FilterOptions{})))
	assert.Equal(t, []int{2, 3}, ids(Filter(tasks, FilterOptions{Statuses: []string{"pending", "in_progress"}})))
	assert.Equal(t, []int{2}, ids(Filter(tasks, FilterOptions{Search: "COOKIE"})))
	assert.Equal(t, []int{1}, ids(Filter(tasks, FilterOptions{Search: "docs", Statuses: []string{"completed"}})))
	assert.Empty(t, Filter(tasks, FilterOptions{Search: "docs", Statuses: []string{"pending"}}))

	// Input order is untouched.
	assert.Equal(t, []int{1, 2, 3}, ids(tasks))
}

func TestSort(t *testing.T) {
	tests := []struct {
		field   string
		reverse bool
		want    []int
	}{
		{SortID, false, []int{1, 2, 3}},
		{SortID, true, []int{3, 2, 1}},
		{SortStatus, false, []int{2, 3, 1}},
		{SortTitle, false, []int{3, 2, 1}},
		{SortCreated, false, []int{2, 3, 1}},
		{SortCreated, true, []int{1, 3, 2}},
		{SortComments, true, []int{3, 1, 2}},
		{"unknown", false, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			tasks := sample()
			Sort(tasks, tt.field, tt.reverse)
			assert.Equal(t, tt.want, ids(tasks))
		})
	}
}

func TestSortIsStable(t *testing.T) {
	tasks := []*Task{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusCompleted},
		{ID: 3, Status: StatusPending},
	}
	Sort(tasks, SortStatus, false)
	assert.Equal(t, []int{1, 3, 2}, ids(tasks))
}
