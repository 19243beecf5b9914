package overdue

import (
	"sort"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/util"
)

// UrgentWindow is how far ahead a high priority task counts as urgent.
const UrgentWindow = 24 * time.Hour

type Entry struct {
	TaskID   string    `json:"task_id"`
	Title    string    `json:"title"`
	Due      time.Time `json:"due"`
	DaysLate int       `json:"days_late"`
}

// IsOverdue reports whether task is incomplete and due strictly before the
// start of now's calendar day (in now's location).
func IsOverdue(task model.Task, now time.Time) bool {
	if task.Completed || task.DueDate == nil || task.DueDate.IsZero() {
		return false
	}
	return task.DueDate.Before(util.StartOfDay(now, now.Location()))
}

// IsUrgent reports whether task is an incomplete high priority task due
// within UrgentWindow of now that has not already slipped past its day.
func IsUrgent(task model.Task, now time.Time) bool {
	if task.Completed || task.Priority != model.PriorityHigh || task.DueDate == nil || task.DueDate.IsZero() {
		return false
	}
	if IsOverdue(task, now) {
		return false
	}
	return !task.DueDate.After(now.Add(UrgentWindow))
}

// Sweep returns the overdue tasks ordered by how long ago they were due.
func Sweep(tasks []model.Task, now time.Time) []Entry {
	var swept []Entry
	for _, task := range tasks {
		if !IsOverdue(task, now) {
			continue
		}
		due := task.DueDate.Time
		late := util.DaysBetween(due, now, now.Location())
		swept = append(swept, Entry{
			TaskID:   task.ID,
			Title:    task.Title,
			Due:      due,
			DaysLate: late,
		})
	}
	sort.SliceStable(swept, func(i, j int) bool {
		return swept[i].Due.Before(swept[j].Due)
	})
	return swept
}
