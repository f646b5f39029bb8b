package task

import (
	"sort"
	"strings"
	"time"
)

// Filter selects tasks by optional criteria. Nil or empty fields impose no
// constraint. Due-date bounds are inclusive on both ends; a task without a
// due date never matches once either bound is set.
type Filter struct {
	Status     *Status
	Priority   *Priority
	DueAfter   *time.Time
	DueBefore  *time.Time
	TextSearch string
}

// Matches reports whether t satisfies every set criterion.
func (f Filter) Matches(t *Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.DueAfter != nil || f.DueBefore != nil {
		if t.DueDate == nil {
			return false
		}
		due := DayOf(*t.DueDate)
		if f.DueAfter != nil && due.Before(DayOf(*f.DueAfter)) {
			return false
		}
		if f.DueBefore != nil && due.After(DayOf(*f.DueBefore)) {
			return false
		}
	}
	if f.TextSearch != "" {
		if !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.TextSearch)) {
			return false
		}
	}
	return true
}

// ApplyFilter returns the tasks matching f, preserving the input order.
// It never fails; an empty result is valid for any filter.
func ApplyFilter(tasks []*Task, f Filter) []*Task {
	result := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			result = append(result, t)
		}
	}
	return result
}

// SortBy identifies an optional ordering applied after filtering.
type SortBy string

const (
	SortNone      SortBy = ""
	SortDueDate   SortBy = "due_date"
	SortPriority  SortBy = "priority"
	SortCreatedAt SortBy = "created_at"
)

// IsValid reports whether s is a recognized sort key. The empty value is
// valid and means "keep insertion order".
func (s SortBy) IsValid() bool {
	switch s {
	case SortNone, SortDueDate, SortPriority, SortCreatedAt:
		return true
	}
	return false
}

// priorityRank orders priorities from most to least urgent.
var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// SortTasks returns a copy of tasks ordered by the given key. Sorting is
// stable, so ties keep their relative order. SortDueDate is ascending with
// undated tasks last, SortPriority runs high to low, SortCreatedAt is
// ascending. SortNone returns tasks unchanged.
func SortTasks(tasks []*Task, by SortBy) []*Task {
	if by == SortNone {
		return tasks
	}

	sorted := make([]*Task, len(tasks))
	copy(sorted, tasks)

	switch by {
	case SortDueDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i].DueDate, sorted[j].DueDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
	case SortPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return priorityRank[sorted[i].Priority] < priorityRank[sorted[j].Priority]
		})
	case SortCreatedAt:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
	}
	return sorted
}
