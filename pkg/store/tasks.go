package store

import (
	"strconv"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/overdue"
	"github.com/Sergey-Okey/toka-app/pkg/util"
)

const idAttempts = 5

// uniqueIDLocked draws ids until one is unused. A failing or repeatedly
// colliding generator falls back to a time-based id with a counter suffix.
func (s *Store) uniqueIDLocked(now time.Time) string {
	for i := 0; i < idAttempts; i++ {
		id, err := s.newID()
		if err != nil {
			s.logger.Printf("Warning: id generator failed: %v", err)
			break
		}
		if id != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
	base := strconv.FormatInt(now.UnixMilli(), 10)
	for n := len(s.tasks); ; n++ {
		id := base + "-" + strconv.Itoa(n)
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTask creates an incomplete task from d, prepends it to the collection
// and returns its id. Priority defaults to medium and tags to none.
func (s *Store) AddTask(d model.Draft) string {
	var id string
	s.mutate(func(now time.Time) bool {
		id = s.uniqueIDLocked(now)
		priority := d.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		task := model.Task{
			ID:            id,
			Title:         d.Title,
			Completed:     false,
			CreatedAt:     model.Timestamp{Time: now},
			Category:      d.Category,
			Priority:      priority,
			Tags:          s.registry.Resolve(d.Tags),
			Description:   d.Description,
			EstimatedTime: d.EstimatedTime,
		}
		if d.DueDate != nil {
			task.DueDate = model.NewTimestamp(*d.DueDate)
		}
		s.tasks = append([]model.Task{task}, s.tasks...)
		return true
	})
	return id
}

// setCompleted applies the completion flag and keeps completedDate present
// exactly when the task is completed.
func setCompleted(t *model.Task, completed bool, now time.Time) {
	switch {
	case completed && !t.Completed:
		t.CompletedDate = &model.Timestamp{Time: now}
	case !completed:
		t.CompletedDate = nil
	}
	t.Completed = completed
}

// UpdateTask merges p into the task with the given id. It reports false,
// after recording a diagnostic, when no such task exists.
func (s *Store) UpdateTask(id string, p model.Patch) bool {
	return s.mutate(func(now time.Time) bool {
		i := s.indexLocked(id)
		if i < 0 {
			s.logf("Task not found for update: %s", id)
			return false
		}
		t := &s.tasks[i]
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Category != nil {
			t.Category = *p.Category
		}
		if p.Priority != nil {
			t.Priority = *p.Priority
		}
		if p.Tags != nil {
			t.Tags = s.registry.Resolve(p.Tags)
		}
		if p.ClearDueDate {
			t.DueDate = nil
		} else if p.DueDate != nil {
			t.DueDate = model.NewTimestamp(*p.DueDate)
		}
		if p.TimeSpent != nil {
			t.TimeSpent = *p.TimeSpent
		}
		if p.EstimatedTime != nil {
			t.EstimatedTime = *p.EstimatedTime
		}
		if p.Completed != nil {
			setCompleted(t, *p.Completed, now)
		}
		t.LastModified = &model.Timestamp{Time: now}
		return true
	})
}

// DeleteTask removes the task with the given id, reporting false when it
// does not exist.
func (s *Store) DeleteTask(id string) bool {
	return s.mutate(func(now time.Time) bool {
		i := s.indexLocked(id)
		if i < 0 {
			s.logf("Task not found for delete: %s", id)
			return false
		}
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		return true
	})
}

// ToggleCompletion flips the completed flag of the task with the given id.
func (s *Store) ToggleCompletion(id string) bool {
	return s.mutate(func(now time.Time) bool {
		i := s.indexLocked(id)
		if i < 0 {
			s.logf("Task not found for toggle: %s", id)
			return false
		}
		t := &s.tasks[i]
		setCompleted(t, !t.Completed, now)
		t.LastModified = &model.Timestamp{Time: now}
		return true
	})
}

// CompleteTask marks the task done and records the time spent on it.
// An already completed task keeps its completedDate.
func (s *Store) CompleteTask(id string, spent time.Duration) bool {
	return s.mutate(func(now time.Time) bool {
		i := s.indexLocked(id)
		if i < 0 {
			s.logf("Task not found for complete: %s", id)
			return false
		}
		t := &s.tasks[i]
		setCompleted(t, true, now)
		t.TimeSpent = int(spent.Round(time.Minute) / time.Minute)
		t.LastModified = &model.Timestamp{Time: now}
		return true
	})
}

// TaskByID returns a copy of the task with the given id.
func (s *Store) TaskByID(id string) (task model.Task, ok bool) {
	s.view(func(time.Time) {
		if i := s.indexLocked(id); i >= 0 {
			task, ok = s.tasks[i].Clone(), true
		}
	})
	return task, ok
}

// Tasks returns a copy of the collection, newest first.
func (s *Store) Tasks() []model.Task {
	var out []model.Task
	s.view(func(time.Time) {
		out = cloneTasks(s.tasks)
	})
	return out
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, 0, len(in))
	for _, t := range in {
		out = append(out, t.Clone())
	}
	return out
}

// TasksForDate returns tasks due on day's calendar day, regardless of time
// of day. A zero day returns every task.
func (s *Store) TasksForDate(day time.Time) []model.Task {
	if day.IsZero() {
		return s.Tasks()
	}
	var out []model.Task
	s.view(func(now time.Time) {
		out = []model.Task{}
		for _, t := range s.tasks {
			if t.DueDate != nil && util.SameDay(t.DueDate.Time, day, now.Location()) {
				out = append(out, t.Clone())
			}
		}
	})
	return out
}

// HasTasksForDate reports whether any task is due on day's calendar day.
func (s *Store) HasTasksForDate(day time.Time) bool {
	return len(s.TasksForDate(day)) > 0
}

// IsOverdue reports whether task is incomplete and was due before today.
func (s *Store) IsOverdue(task model.Task) bool {
	return overdue.IsOverdue(task, s.now())
}

// AddTag registers a tag; an existing name returns the registered tag.
func (s *Store) AddTag(name, color string) (model.Tag, error) {
	var (
		tag model.Tag
		err error
	)
	s.mutate(func(now time.Time) bool {
		id := strconv.FormatInt(now.UnixMilli(), 10)
		if gen, genErr := s.newID(); genErr == nil && gen != "" {
			id = gen
		}
		var created bool
		tag, created, err = s.registry.Add(id, name, color)
		return created
	})
	return tag, err
}

// Tags returns the tag registry.
func (s *Store) Tags() []model.Tag {
	var out []model.Tag
	s.view(func(time.Time) {
		out = s.registry.All()
	})
	return out
}

// History returns the retained daily statistics, oldest first.
func (s *Store) History() []model.DailyStats {
	var out []model.DailyStats
	s.view(func(time.Time) {
		out = append([]model.DailyStats(nil), s.history...)
	})
	return out
}

// Logs returns the retained diagnostics, oldest first.
func (s *Store) Logs() []string {
	var out []string
	s.view(func(time.Time) {
		out = append([]string(nil), s.logs...)
	})
	return out
}
