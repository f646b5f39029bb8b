package task

import (
	"math"
	"time"
)

// Stats summarizes a task collection: counts per status and priority,
// schedule-derived counts, and the completion percentage.
type Stats struct {
	Total                int     `json:"total"`
	Pending              int     `json:"pending"`
	InProgress           int     `json:"in_progress"`
	Done                 int     `json:"done"`
	LowPriority          int     `json:"low_priority"`
	MediumPriority       int     `json:"medium_priority"`
	HighPriority         int     `json:"high_priority"`
	Overdue              int     `json:"overdue"`
	DueToday             int     `json:"due_today"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Summarize computes Stats for tasks. The completion percentage is
// done/total*100 rounded to two decimals, defined as 0 for an empty list.
// A task is overdue when its due date falls strictly before now's day and
// its status is not done; due today means the due date falls on now's day.
func Summarize(tasks []*Task, now time.Time) Stats {
	var s Stats
	today := DayOf(now)

	for _, t := range tasks {
		s.Total++

		switch t.Status {
		case StatusPending:
			s.Pending++
		case StatusInProgress:
			s.InProgress++
		case StatusDone:
			s.Done++
		}

		switch t.Priority {
		case PriorityLow:
			s.LowPriority++
		case PriorityMedium:
			s.MediumPriority++
		case PriorityHigh:
			s.HighPriority++
		}

		if t.DueDate != nil {
			due := DayOf(*t.DueDate)
			if due.Before(today) && t.Status != StatusDone {
				s.Overdue++
			}
			if due.Equal(today) {
				s.DueToday++
			}
		}
	}

	if s.Total > 0 {
		pct := float64(s.Done) / float64(s.Total) * 100
		s.CompletionPercentage = math.Round(pct*100) / 100
	}
	return s
}
