package taskwarrior

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Task statuses as written by `task export`.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusWaiting   = "waiting"
	StatusDeleted   = "deleted"
	StatusRecurring = "recurring"
)

// timeLayout is Taskwarrior's compact UTC timestamp.
const timeLayout = "20060102T150405Z"

// Time decodes Taskwarrior timestamps. An empty string or "0" is zero.
type Time struct {
	time.Time
}

func (ct *Time) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "0" || s == "null" {
		ct.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

func (ct Time) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.UTC().Format(timeLayout) + `"`), nil
}

type Annotation struct {
	Description string `json:"description"`
	Entry       *Time  `json:"entry,omitempty"`
}

// Task is one record of `task export`. Est is the "est" UDA holding a
// duration such as "PT1H30M" or "45m".
type Task struct {
	UUID        string       `json:"uuid"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Entry       *Time        `json:"entry,omitempty"`
	Due         *Time        `json:"due,omitempty"`
	Scheduled   *Time        `json:"scheduled,omitempty"`
	End         *Time        `json:"end,omitempty"`
	Project     string       `json:"project,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Est         string       `json:"est,omitempty"`
}

// Importable reports whether the task is still open work. Deleted,
// completed and recurrence template records are skipped on import.
func (t Task) Importable() bool {
	switch strings.ToLower(t.Status) {
	case StatusCompleted, StatusDeleted, StatusRecurring:
		return false
	}
	return strings.TrimSpace(t.Description) != ""
}
