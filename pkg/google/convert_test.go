package google

import (
	"strings"
	"testing"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"google.golang.org/api/calendar/v3"
)

var testNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func dueTask(id string, due time.Time) model.Task {
	return model.Task{
		ID:        id,
		Title:     "Write report",
		CreatedAt: model.Timestamp{Time: testNow.Add(-48 * time.Hour)},
		DueDate:   model.NewTimestamp(due),
		Priority:  model.PriorityHigh,
		Category:  "work",
		Tags:      []model.Tag{{ID: "1", Name: "Work"}},
	}
}

func TestConvertTimedEvent(t *testing.T) {
	task := dueTask("t1", testNow.Add(3*time.Hour))
	task.EstimatedTime = 90

	event, err := ConvertTaskToEvent(task, "5", testNow)
	if err != nil {
		t.Fatalf("ConvertTaskToEvent: %v", err)
	}
	if event.Summary != "Write report" {
		t.Errorf("Summary = %q", event.Summary)
	}
	if event.ColorId != "5" {
		t.Errorf("ColorId = %q", event.ColorId)
	}
	if got := event.ExtendedProperties.Private[TaskIDProperty]; got != "t1" {
		t.Errorf("task id property = %q", got)
	}
	if event.Start.DateTime != "2024-06-15T17:00:00Z" {
		t.Errorf("Start = %q", event.Start.DateTime)
	}
	if event.End.DateTime != "2024-06-15T18:30:00Z" {
		t.Errorf("End = %q, want estimate applied", event.End.DateTime)
	}
	for _, want := range []string{"#Work", "Status: pending", "Priority: high", "ID: t1", "estimated: 1h30m0s"} {
		if !strings.Contains(event.Description, want) {
			t.Errorf("description missing %q:\n%s", want, event.Description)
		}
	}
}

func TestConvertAllDayEvent(t *testing.T) {
	task := dueTask("t1", time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC))
	event, err := ConvertTaskToEvent(task, "1", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if event.Start.Date != "2024-06-20" || event.End.Date != "2024-06-21" {
		t.Errorf("all-day range = %q..%q", event.Start.Date, event.End.Date)
	}
	if event.Start.DateTime != "" {
		t.Errorf("all-day event should not carry a DateTime")
	}
}

func TestConvertPrefixes(t *testing.T) {
	late := dueTask("t1", testNow.AddDate(0, 0, -2))
	event, err := ConvertTaskToEvent(late, "1", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if event.Summary != "! Write report" {
		t.Errorf("overdue Summary = %q", event.Summary)
	}

	done := late
	done.Completed = true
	done.TimeSpent = 45
	event, err = ConvertTaskToEvent(done, "1", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if event.Summary != "✓ Write report" {
		t.Errorf("completed Summary = %q", event.Summary)
	}
	if event.End.DateTime != "2024-06-13T14:45:00Z" {
		t.Errorf("completed End = %q, want time spent applied", event.End.DateTime)
	}
}

func TestConvertWithoutDueDate(t *testing.T) {
	task := model.Task{ID: "t1", Title: "x"}
	if _, err := ConvertTaskToEvent(task, "1", testNow); err == nil {
		t.Fatal("expected error for task without due date")
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	target, err := ConvertTaskToEvent(dueTask("t1", testNow.Add(time.Hour)), "2", testNow)
	if err != nil {
		t.Fatal(err)
	}

	same := *target
	same.Start = &calendar.EventDateTime{DateTime: "2024-06-15T15:00:00+00:00"}
	patch, err := EventNeedsUpdate(&same, target)
	if err != nil {
		t.Fatal(err)
	}
	if patch != nil {
		t.Errorf("expected no patch for equal events, got %+v", patch)
	}

	changed := *target
	changed.Summary = "old title"
	changed.ColorId = "9"
	patch, err = EventNeedsUpdate(&changed, target)
	if err != nil {
		t.Fatal(err)
	}
	if patch == nil {
		t.Fatal("expected a patch")
	}
	if patch.Summary != target.Summary || patch.ColorId != "2" {
		t.Errorf("patch = %+v", patch)
	}
	if patch.Start != nil || patch.Description != "" {
		t.Errorf("patch carries unchanged fields: %+v", patch)
	}
}
