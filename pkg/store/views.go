package store

import (
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/overdue"
	"github.com/Sergey-Okey/toka-app/pkg/stats"
)

// Derived views are computed from the current collection on every call.

// Summary bundles the derived views of the collection.
type Summary struct {
	Total                 int              `json:"total" yaml:"total"`
	Active                int              `json:"active" yaml:"active"`
	Completed             int              `json:"completed" yaml:"completed"`
	Overdue               int              `json:"overdue" yaml:"overdue"`
	Categories            []string         `json:"categories" yaml:"categories"`
	Priorities            []model.Priority `json:"priorities" yaml:"priorities"`
	Tags                  []string         `json:"tags" yaml:"tags"`
	WeeklyProductivity    int              `json:"weeklyProductivity" yaml:"weeklyProductivity"`
	PredictedProductivity int              `json:"predictedProductivity" yaml:"predictedProductivity"`
	Urgent                []model.Task     `json:"urgent" yaml:"urgent"`
}

type counts struct {
	total, active, completed, overdue int
}

func (s *Store) countLocked(now time.Time) counts {
	var c counts
	c.total = len(s.tasks)
	for _, t := range s.tasks {
		late := overdue.IsOverdue(t, now)
		if t.Completed {
			c.completed++
		} else if !late || s.policy == ActiveIncludesOverdue {
			c.active++
		}
		if late {
			c.overdue++
		}
	}
	return c
}

func (s *Store) currentCounts() counts {
	var c counts
	s.view(func(now time.Time) { c = s.countLocked(now) })
	return c
}

func (s *Store) TotalCount() int     { return s.currentCounts().total }
func (s *Store) CompletedCount() int { return s.currentCounts().completed }
func (s *Store) OverdueCount() int   { return s.currentCounts().overdue }

// ActiveCount counts incomplete tasks; whether overdue ones are included
// depends on the store's ActivePolicy.
func (s *Store) ActiveCount() int { return s.currentCounts().active }

func distinctLocked[T comparable](tasks []model.Task, values func(model.Task) []T) []T {
	var zero T
	seen := make(map[T]bool)
	out := []T{}
	for _, t := range tasks {
		for _, v := range values(t) {
			if v == zero || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func categoriesOf(t model.Task) []string         { return []string{t.Category} }
func prioritiesOf(t model.Task) []model.Priority { return []model.Priority{t.Priority} }

func tagNamesOf(t model.Task) []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// Categories lists the distinct non-empty categories in first-seen order.
func (s *Store) Categories() []string {
	var out []string
	s.view(func(time.Time) { out = distinctLocked(s.tasks, categoriesOf) })
	return out
}

// Priorities lists the distinct priorities in first-seen order.
func (s *Store) Priorities() []model.Priority {
	var out []model.Priority
	s.view(func(time.Time) { out = distinctLocked(s.tasks, prioritiesOf) })
	return out
}

// TagNames lists the distinct tag names in first-seen order.
func (s *Store) TagNames() []string {
	var out []string
	s.view(func(time.Time) { out = distinctLocked(s.tasks, tagNamesOf) })
	return out
}

func (s *Store) WeeklyProductivity() int {
	var out int
	s.view(func(time.Time) { out = stats.Weekly(s.history) })
	return out
}

func (s *Store) PredictedProductivity() int {
	var out int
	s.view(func(time.Time) { out = stats.Predicted(s.history) })
	return out
}

func urgentLocked(tasks []model.Task, now time.Time) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if overdue.IsUrgent(t, now) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// UrgentTasks returns incomplete high priority tasks due within a day.
func (s *Store) UrgentTasks() []model.Task {
	var out []model.Task
	s.view(func(now time.Time) { out = urgentLocked(s.tasks, now) })
	return out
}

// OverdueTasks lists overdue tasks, longest overdue first.
func (s *Store) OverdueTasks() []overdue.Entry {
	var out []overdue.Entry
	s.view(func(now time.Time) { out = overdue.Sweep(s.tasks, now) })
	return out
}

// PriorityStats aggregates time spent on completed tasks per priority.
func (s *Store) PriorityStats() map[model.Priority]stats.PriorityStat {
	var out map[model.Priority]stats.PriorityStat
	s.view(func(time.Time) { out = stats.ByPriority(s.tasks) })
	return out
}

// TagStats counts completed tasks per registry tag.
func (s *Store) TagStats() []stats.TagStat {
	var out []stats.TagStat
	s.view(func(time.Time) { out = stats.ByTag(s.tasks, s.registry.All()) })
	return out
}

// Summary computes every derived view from one consistent snapshot.
func (s *Store) Summary() Summary {
	var sum Summary
	s.view(func(now time.Time) {
		c := s.countLocked(now)
		sum = Summary{
			Total:                 c.total,
			Active:                c.active,
			Completed:             c.completed,
			Overdue:               c.overdue,
			Categories:            distinctLocked(s.tasks, categoriesOf),
			Priorities:            distinctLocked(s.tasks, prioritiesOf),
			Tags:                  distinctLocked(s.tasks, tagNamesOf),
			WeeklyProductivity:    stats.Weekly(s.history),
			PredictedProductivity: stats.Predicted(s.history),
			Urgent:                urgentLocked(s.tasks, now),
		}
	})
	return sum
}
