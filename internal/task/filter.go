package task

import (
	"slices"
	"sort"
	"strings"
)

// Sort fields accepted by Sort.
const (
	SortID       = "id"
	SortStatus   = "status"
	SortTitle    = "title"
	SortCreated  = "created"
	SortComments = "comments"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses []string
	Search   string // case-insensitive substring match across title and description
}

// Filter returns tasks matching all specified criteria (AND logic). The input
// slice is not modified.
func Filter(tasks []*Task, opts FilterOptions) []*Task {
	result := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *Task, opts FilterOptions) bool {
	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, string(t.Status)) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across title and description.
func matchesSearch(t *Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// ValidSortFields returns the fields Sort understands.
func ValidSortFields() []string {
	return []string{SortID, SortStatus, SortTitle, SortCreated, SortComments}
}

// Sort sorts tasks in place by the given field. Status uses display order,
// not alphabetical order. Unknown fields sort by ID.
func Sort(tasks []*Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field)
		}
		return compareTasks(tasks[i], tasks[j], field)
	})
}

func compareTasks(a, b *Task, field string) bool {
	switch field {
	case SortStatus:
		return slices.Index(Statuses, a.Status) < slices.Index(Statuses, b.Status)
	case SortTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case SortCreated:
		return a.CreatedAt.Before(b.CreatedAt.Time)
	case SortComments:
		return a.CommentsCount < b.CommentsCount
	default:
		return a.ID < b.ID
	}
}
