package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/overdue"
	"google.golang.org/api/calendar/v3"
)

// TaskIDProperty is the private extended property linking an event to its task.
const TaskIDProperty = "toka_id"

const defaultDuration = 30 * time.Minute

// ConvertTaskToEvent builds the calendar event for a task with a due date.
// A due time of exactly midnight produces an all-day event.
func ConvertTaskToEvent(task model.Task, colorID string, now time.Time) (*calendar.Event, error) {
	if task.DueDate == nil || task.DueDate.IsZero() {
		return nil, fmt.Errorf("task has no due date: %s", task.ID)
	}
	loc := now.Location()
	due := task.DueDate.In(loc)

	prefix := ""
	if task.Completed {
		prefix = "✓"
	} else if overdue.IsOverdue(task, now) {
		prefix = "!"
	}
	summary := task.Title
	if prefix != "" {
		summary = fmt.Sprintf("%s %s", prefix, task.Title)
	}

	event := &calendar.Event{
		Summary:     summary,
		ColorId:     colorID,
		Description: describe(task),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TaskIDProperty: task.ID,
			},
		},
	}

	if due.Hour() == 0 && due.Minute() == 0 && due.Second() == 0 {
		event.Start = &calendar.EventDateTime{Date: due.Format("2006-01-02")}
		event.End = &calendar.EventDateTime{Date: due.AddDate(0, 0, 1).Format("2006-01-02")}
		return event, nil
	}

	duration := defaultDuration
	if task.Completed && task.TimeSpent > 0 {
		duration = time.Duration(task.TimeSpent) * time.Minute
	} else if task.EstimatedTime > 0 {
		duration = time.Duration(task.EstimatedTime) * time.Minute
	}
	event.Start = &calendar.EventDateTime{DateTime: due.UTC().Format(time.RFC3339)}
	event.End = &calendar.EventDateTime{DateTime: due.Add(duration).UTC().Format(time.RFC3339)}
	return event, nil
}

func describe(task model.Task) string {
	var b strings.Builder

	if len(task.Tags) > 0 {
		for _, tag := range task.Tags {
			fmt.Fprintf(&b, "#%s ", tag.Name)
		}
		b.WriteString("\n\n")
	}

	status := "pending"
	if task.Completed {
		status = "completed"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)
	if task.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", task.Category)
	}
	if task.Priority != "" {
		fmt.Fprintf(&b, "Priority: %s\n", task.Priority)
	}
	fmt.Fprintf(&b, "ID: %s\n", task.ID)

	if task.EstimatedTime > 0 || task.TimeSpent > 0 {
		b.WriteString("\nAccounting:\n")
		est := time.Duration(task.EstimatedTime) * time.Minute
		spent := time.Duration(task.TimeSpent) * time.Minute
		if est > 0 {
			fmt.Fprintf(&b, "• estimated: %s\n", est)
		}
		if spent > 0 {
			fmt.Fprintf(&b, "• spent: %s\n", spent)
			if est > 0 {
				if diff := spent - est; diff > 0 {
					fmt.Fprintf(&b, "• over estimate by: %s\n", diff)
				} else if diff < 0 {
					fmt.Fprintf(&b, "• under estimate by: %s\n", -diff)
				}
			}
		}
	}

	if task.Description != "" {
		b.WriteString("\nNotes:\n")
		b.WriteString(task.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// EventNeedsUpdate returns a patch with the fields of target that differ
// from existing, or nil when they match.
func EventNeedsUpdate(existing, target *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}

	startEqual, err := sameEventTime(existing.Start, target.Start)
	if err != nil {
		return nil, err
	}
	endEqual, err := sameEventTime(existing.End, target.End)
	if err != nil {
		return nil, err
	}
	if !startEqual || !endEqual {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

func sameEventTime(a, b *calendar.EventDateTime) (bool, error) {
	if a == nil || b == nil {
		return a == b, nil
	}
	if a.Date != "" || b.Date != "" {
		return a.Date == b.Date, nil
	}
	at, err := time.Parse(time.RFC3339, a.DateTime)
	if err != nil {
		return false, err
	}
	bt, err := time.Parse(time.RFC3339, b.DateTime)
	if err != nil {
		return false, err
	}
	return at.Equal(bt), nil
}
