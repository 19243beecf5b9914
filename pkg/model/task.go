package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Priority is the urgency label of a task.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority from least to most urgent.
var Priorities = []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority validates s as a priority name. Empty input yields "".
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return "", nil
	}
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q (want none, low, medium or high)", s)
}

// priorityFromLevel maps the 1-5 numeric scale of old data files.
func priorityFromLevel(level int) Priority {
	switch {
	case level <= 0:
		return PriorityNone
	case level <= 2:
		return PriorityLow
	case level == 3:
		return PriorityMedium
	default:
		return PriorityHigh
	}
}

// UnmarshalJSON accepts both priority names and the legacy numeric levels.
func (p *Priority) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*p = ""
		return nil
	}
	if level, err := strconv.Atoi(s); err == nil {
		*p = priorityFromLevel(level)
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("failed to decode priority: %w", err)
	}
	parsed, err := ParsePriority(name)
	if err != nil {
		// Unknown labels from other versions of the data file degrade to
		// none instead of failing the whole record.
		*p = PriorityNone
		return nil
	}
	*p = parsed
	return nil
}

// Tag is a short label attached to tasks. Registry tags carry an ID.
type Tag struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// UnmarshalJSON accepts a tag object or a bare tag name.
func (t *Tag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*t = Tag{Name: name}
		return nil
	}
	type alias Tag
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return fmt.Errorf("failed to decode tag: %w", err)
	}
	*t = Tag(a)
	return nil
}

// Task is a single tracked item.
type Task struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Completed     bool       `json:"completed" yaml:"completed"`
	CreatedAt     Timestamp  `json:"createdAt" yaml:"createdAt"`
	CompletedDate *Timestamp `json:"completedDate,omitempty" yaml:"completedDate,omitempty"`
	DueDate       *Timestamp `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Category      string     `json:"category,omitempty" yaml:"category,omitempty"`
	Priority      Priority   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Tags          []Tag      `json:"tags" yaml:"tags"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	// Accounting, in minutes
	TimeSpent     int        `json:"timeSpent,omitempty" yaml:"timeSpent,omitempty"`
	EstimatedTime int        `json:"estimatedTime,omitempty" yaml:"estimatedTime,omitempty"`
	LastModified  *Timestamp `json:"lastModified,omitempty" yaml:"lastModified,omitempty"`
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]Tag(nil), t.Tags...)
	}
	c.CompletedDate = cloneTimestamp(t.CompletedDate)
	c.DueDate = cloneTimestamp(t.DueDate)
	c.LastModified = cloneTimestamp(t.LastModified)
	return c
}

// HasTag reports whether the task carries a tag named name.
func (t Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

func cloneTimestamp(ts *Timestamp) *Timestamp {
	if ts == nil || ts.IsZero() {
		return nil
	}
	c := *ts
	return &c
}

// Normalize drops empty optional timestamps and fills defaults that older
// data files may lack.
func (t *Task) Normalize() {
	t.CompletedDate = cloneTimestamp(t.CompletedDate)
	t.DueDate = cloneTimestamp(t.DueDate)
	t.LastModified = cloneTimestamp(t.LastModified)
	if t.Tags == nil {
		t.Tags = []Tag{}
	}
	if !t.Completed {
		t.CompletedDate = nil
	}
}

// DecodeTasks decodes a persisted task list. upgraded reports whether any
// record used a legacy shape (string tags, numeric or unknown priority, or
// completedAt in place of completed) and should be rewritten.
func DecodeTasks(data []byte) (tasks []Task, upgraded bool, err error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, false, fmt.Errorf("failed to decode task list: %w", err)
	}
	tasks = make([]Task, 0, len(raws))
	for i, raw := range raws {
		var task Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, false, fmt.Errorf("failed to decode task %d: %w", i, err)
		}
		legacy, completedAt := inspectLegacy(raw)
		if legacy {
			upgraded = true
		}
		if completedAt != nil {
			task.Completed = true
			if task.CompletedDate == nil {
				task.CompletedDate = completedAt
			}
		}
		task.Normalize()
		tasks = append(tasks, task)
	}
	return tasks, upgraded, nil
}

// inspectLegacy reports whether raw uses an old record shape. Records that
// only carry completedAt (no completed flag) return its timestamp.
func inspectLegacy(raw json.RawMessage) (legacy bool, completedAt *Timestamp) {
	var shape struct {
		Priority    json.RawMessage   `json:"priority"`
		Tags        []json.RawMessage `json:"tags"`
		Completed   json.RawMessage   `json:"completed"`
		CompletedAt *Timestamp        `json:"completedAt"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return false, nil
	}

	if shape.CompletedAt != nil && !shape.CompletedAt.IsZero() {
		legacy = true
		if len(bytes.TrimSpace(shape.Completed)) == 0 {
			completedAt = shape.CompletedAt
		}
	}

	if p := bytes.TrimSpace(shape.Priority); len(p) > 0 {
		switch {
		case p[0] >= '0' && p[0] <= '9' || p[0] == '-':
			legacy = true
		case p[0] == '"':
			var name string
			if err := json.Unmarshal(p, &name); err == nil {
				if _, err := ParsePriority(name); err != nil {
					legacy = true
				}
			}
		}
	}
	for _, tag := range shape.Tags {
		if t := bytes.TrimSpace(tag); len(t) > 0 && t[0] == '"' {
			legacy = true
		}
	}
	return legacy, completedAt
}

// DailyStats is the completion rollup of one calendar day.
type DailyStats struct {
	Date         string `json:"date" yaml:"date"`
	Completed    int    `json:"completed" yaml:"completed"`
	Total        int    `json:"total" yaml:"total"`
	Productivity int    `json:"productivity" yaml:"productivity"`
}
