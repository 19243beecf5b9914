// Package stats derives completion statistics from a task collection.
package stats

import (
	"math"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/util"
)

const (
	// HistoryLimit is the number of days of DailyStats kept.
	HistoryLimit = 30
	// WeekWindow is the number of recent days averaged by Weekly.
	WeekWindow = 7
)

// Productivity is completed/total as a rounded percentage, 0 for no tasks.
func Productivity(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Rollup recomputes today's record from tasks and returns the new history.
// Today's record is replaced when present, appended otherwise, and the
// oldest records are evicted beyond HistoryLimit. history is not modified.
func Rollup(history []model.DailyStats, tasks []model.Task, now time.Time) []model.DailyStats {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	today := model.DailyStats{
		Date:         util.DayKey(now, now.Location()),
		Completed:    completed,
		Total:        len(tasks),
		Productivity: Productivity(completed, len(tasks)),
	}

	out := make([]model.DailyStats, 0, len(history)+1)
	out = append(out, history...)
	replaced := false
	for i := range out {
		if out[i].Date == today.Date {
			out[i] = today
			replaced = true
			break
		}
	}
	if !replaced {
		out = append(out, today)
	}
	if len(out) > HistoryLimit {
		out = out[len(out)-HistoryLimit:]
	}
	return out
}

func recent(history []model.DailyStats) []model.DailyStats {
	if len(history) > WeekWindow {
		return history[len(history)-WeekWindow:]
	}
	return history
}

// Weekly is the mean productivity of the most recent WeekWindow days.
func Weekly(history []model.DailyStats) int {
	window := recent(history)
	if len(window) == 0 {
		return 0
	}
	sum := 0
	for _, d := range window {
		sum += d.Productivity
	}
	return int(math.Round(float64(sum) / float64(len(window))))
}

// Predicted extrapolates Weekly by the window's average daily change.
func Predicted(history []model.DailyStats) int {
	weekly := Weekly(history)
	window := recent(history)
	if len(window) < 2 {
		return weekly
	}
	first := window[0].Productivity
	last := window[len(window)-1].Productivity
	return weekly + int(math.Round(float64(last-first)/WeekWindow))
}

// PriorityStat summarizes completed tasks of one priority. Times are minutes.
type PriorityStat struct {
	Count     int `json:"count" yaml:"count"`
	TotalTime int `json:"totalTime" yaml:"totalTime"`
	AvgTime   int `json:"avgTime" yaml:"avgTime"`
}

// ByPriority aggregates time spent on completed tasks per priority.
// Every known priority is present in the result.
func ByPriority(tasks []model.Task) map[model.Priority]PriorityStat {
	out := make(map[model.Priority]PriorityStat, len(model.Priorities))
	for _, p := range model.Priorities {
		out[p] = PriorityStat{}
	}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		p := t.Priority
		if p == "" {
			p = model.PriorityNone
		}
		s := out[p]
		s.Count++
		s.TotalTime += t.TimeSpent
		out[p] = s
	}
	for p, s := range out {
		if s.Count > 0 {
			s.AvgTime = int(math.Round(float64(s.TotalTime) / float64(s.Count)))
			out[p] = s
		}
	}
	return out
}

// TagStat counts completed tasks carrying a registry tag.
type TagStat struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	Count int    `json:"count" yaml:"count"`
}

// ByTag returns one TagStat per registry tag, in registry order.
func ByTag(tasks []model.Task, registry []model.Tag) []TagStat {
	out := make([]TagStat, 0, len(registry))
	for _, tag := range registry {
		s := TagStat{ID: tag.ID, Name: tag.Name, Color: tag.Color}
		for _, t := range tasks {
			if t.Completed && t.HasTag(tag.Name) {
				s.Count++
			}
		}
		out = append(out, s)
	}
	return out
}
