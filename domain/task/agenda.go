package task

import (
	"sort"
	"time"
)

// AgendaDay groups the tasks due on a single day. Date is midnight UTC.
type AgendaDay struct {
	Date  time.Time `json:"date"`
	Tasks []*Task   `json:"tasks"`
}

// GroupByDay buckets the tasks whose due date falls within [from, to]
// (inclusive, day granularity) by due day. Days come back ascending; tasks
// within a day keep their input order. Undated tasks are skipped, so the
// result feeds a calendar grid directly.
func GroupByDay(tasks []*Task, from, to time.Time) []AgendaDay {
	start, end := DayOf(from), DayOf(to)

	byDay := make(map[time.Time][]*Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		due := DayOf(*t.DueDate)
		if due.Before(start) || due.After(end) {
			continue
		}
		byDay[due] = append(byDay[due], t)
	}

	days := make([]AgendaDay, 0, len(byDay))
	for date, dayTasks := range byDay {
		days = append(days, AgendaDay{Date: date, Tasks: dayTasks})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}
