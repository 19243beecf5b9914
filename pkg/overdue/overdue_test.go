package overdue

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Sergey-Okey/toka-app/pkg/model"
)

var now = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func due(t time.Time) *model.Timestamp {
	return &model.Timestamp{Time: t}
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name string
		task model.Task
		want bool
	}{
		{"no due date", model.Task{}, false},
		{"due yesterday", model.Task{DueDate: due(now.Add(-24 * time.Hour))}, true},
		{"due earlier today", model.Task{DueDate: due(now.Add(-10 * time.Hour))}, false},
		{"due last second of yesterday", model.Task{DueDate: due(time.Date(2024, 6, 14, 23, 59, 59, 0, time.UTC))}, true},
		{"completed and due yesterday", model.Task{Completed: true, DueDate: due(now.Add(-24 * time.Hour))}, false},
		{"due tomorrow", model.Task{DueDate: due(now.Add(24 * time.Hour))}, false},
	}
	for _, tt := range tests {
		if got := IsOverdue(tt.task, now); got != tt.want {
			t.Errorf("%s: IsOverdue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsUrgent(t *testing.T) {
	tests := []struct {
		name string
		task model.Task
		want bool
	}{
		{"high due in 3h", model.Task{Priority: model.PriorityHigh, DueDate: due(now.Add(3 * time.Hour))}, true},
		{"high due in exactly 24h", model.Task{Priority: model.PriorityHigh, DueDate: due(now.Add(24 * time.Hour))}, true},
		{"high due in 2 days", model.Task{Priority: model.PriorityHigh, DueDate: due(now.Add(48 * time.Hour))}, false},
		{"high overdue", model.Task{Priority: model.PriorityHigh, DueDate: due(now.Add(-24 * time.Hour))}, false},
		{"high due this morning", model.Task{Priority: model.PriorityHigh, DueDate: due(now.Add(-5 * time.Hour))}, true},
		{"medium due soon", model.Task{Priority: model.PriorityMedium, DueDate: due(now.Add(time.Hour))}, false},
		{"high completed", model.Task{Completed: true, Priority: model.PriorityHigh, DueDate: due(now.Add(time.Hour))}, false},
		{"high no due", model.Task{Priority: model.PriorityHigh}, false},
	}
	for _, tt := range tests {
		if got := IsUrgent(tt.task, now); got != tt.want {
			t.Errorf("%s: IsUrgent = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSweep(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Title: "two days late", DueDate: due(now.Add(-48 * time.Hour))},
		{ID: "b", Title: "on time", DueDate: due(now.Add(time.Hour))},
		{ID: "c", Title: "five days late", DueDate: due(now.Add(-5 * 24 * time.Hour))},
		{ID: "d", Title: "done", Completed: true, DueDate: due(now.Add(-48 * time.Hour))},
	}
	swept := Sweep(tasks, now)
	if len(swept) != 2 {
		t.Fatalf("Expected 2 swept entries, got %d", len(swept))
	}
	if swept[0].TaskID != "c" || swept[0].DaysLate != 5 {
		t.Errorf("Expected oldest overdue first with 5 days late, got %+v", swept[0])
	}
	if swept[1].TaskID != "a" || swept[1].DaysLate != 2 {
		t.Errorf("Expected second entry 'a' with 2 days late, got %+v", swept[1])
	}
}

func TestSweepCountsCalendarDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	// 2026-03-08 is only 23 hours long in New York.
	at := time.Date(2026, 3, 9, 12, 0, 0, 0, ny)
	tasks := []model.Task{{ID: "a", DueDate: due(time.Date(2026, 3, 8, 9, 0, 0, 0, ny))}}

	swept := Sweep(tasks, at)
	if len(swept) != 1 || swept[0].DaysLate != 1 {
		t.Errorf("Expected one entry 1 day late, got %+v", swept)
	}
}
