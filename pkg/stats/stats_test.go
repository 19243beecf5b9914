package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
)

func TestProductivity(t *testing.T) {
	tests := []struct{ completed, total, want int }{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := Productivity(tt.completed, tt.total); got != tt.want {
			t.Errorf("Productivity(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestRollupReplacesToday(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{{Completed: true}, {}, {}, {}}
	history := []model.DailyStats{
		{Date: "2024-06-14", Completed: 1, Total: 1, Productivity: 100},
		{Date: "2024-06-15", Completed: 0, Total: 1, Productivity: 0},
	}

	got := Rollup(history, tasks, now)
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	want := model.DailyStats{Date: "2024-06-15", Completed: 1, Total: 4, Productivity: 25}
	if got[1] != want {
		t.Errorf("Expected %+v, got %+v", want, got[1])
	}
	if history[1].Total != 1 {
		t.Errorf("Rollup modified its input")
	}
}

func TestRollupEvictsOldest(t *testing.T) {
	var history []model.DailyStats
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < HistoryLimit; i++ {
		history = append(history, model.DailyStats{Date: start.AddDate(0, 0, i).Format("2006-01-02")})
	}
	now := start.AddDate(0, 0, HistoryLimit)
	got := Rollup(history, nil, now)
	if len(got) != HistoryLimit {
		t.Fatalf("Expected %d records, got %d", HistoryLimit, len(got))
	}
	if got[0].Date != "2024-01-02" {
		t.Errorf("Expected oldest record evicted, first is %s", got[0].Date)
	}
	if got[len(got)-1].Date != now.Format("2006-01-02") {
		t.Errorf("Expected today appended last, got %s", got[len(got)-1].Date)
	}
}

func history(values ...int) []model.DailyStats {
	out := make([]model.DailyStats, 0, len(values))
	for i, v := range values {
		out = append(out, model.DailyStats{Date: fmt.Sprintf("2024-06-%02d", i+1), Productivity: v})
	}
	return out
}

func TestWeeklyAndPredicted(t *testing.T) {
	tests := []struct {
		name              string
		history           []model.DailyStats
		weekly, predicted int
	}{
		{"empty", nil, 0, 0},
		{"single sample", history(40), 40, 40},
		{"rising", history(10, 20, 30, 40, 50, 60, 70), 40, 49},
		{"window keeps last seven", history(100, 100, 10, 20, 30, 40, 50, 60, 70), 40, 49},
		{"falling", history(80, 10), 45, 35},
	}
	for _, tt := range tests {
		if got := Weekly(tt.history); got != tt.weekly {
			t.Errorf("%s: Weekly = %d, want %d", tt.name, got, tt.weekly)
		}
		if got := Predicted(tt.history); got != tt.predicted {
			t.Errorf("%s: Predicted = %d, want %d", tt.name, got, tt.predicted)
		}
	}
}

func TestByPriority(t *testing.T) {
	tasks := []model.Task{
		{Completed: true, Priority: model.PriorityHigh, TimeSpent: 30},
		{Completed: true, Priority: model.PriorityHigh, TimeSpent: 45},
		{Completed: false, Priority: model.PriorityHigh, TimeSpent: 100},
		{Completed: true, TimeSpent: 10},
	}
	got := ByPriority(tasks)
	if len(got) != len(model.Priorities) {
		t.Errorf("Expected every priority present, got %d", len(got))
	}
	if high := got[model.PriorityHigh]; high.Count != 2 || high.TotalTime != 75 || high.AvgTime != 38 {
		t.Errorf("Unexpected high stats %+v", high)
	}
	if none := got[model.PriorityNone]; none.Count != 1 || none.AvgTime != 10 {
		t.Errorf("Unexpected none stats %+v", none)
	}
	if low := got[model.PriorityLow]; low.Count != 0 || low.AvgTime != 0 {
		t.Errorf("Unexpected low stats %+v", low)
	}
}

func TestByTag(t *testing.T) {
	registry := []model.Tag{{ID: "1", Name: "Work"}, {ID: "2", Name: "Personal"}}
	tasks := []model.Task{
		{Completed: true, Tags: []model.Tag{{Name: "Work"}}},
		{Completed: true, Tags: []model.Tag{{Name: "Work"}, {Name: "Personal"}}},
		{Completed: false, Tags: []model.Tag{{Name: "Personal"}}},
	}
	got := ByTag(tasks, registry)
	if len(got) != 2 || got[0].Count != 2 || got[1].Count != 1 {
		t.Errorf("Unexpected tag stats %+v", got)
	}
}
