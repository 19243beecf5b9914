package model

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp is an ISO-8601 instant. It is written in UTC and read from any of
// the layouts older data files were produced with.
type Timestamp struct {
	time.Time
}

// zoneless layouts are interpreted in local time.
var timestampLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", false},
}

// NewTimestamp returns a *Timestamp for t, or nil when t is zero.
func NewTimestamp(t time.Time) *Timestamp {
	if t.IsZero() {
		return nil
	}
	return &Timestamp{Time: t}
}

// ParseTimestamp parses s using the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, time.Local)
		}
		if err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Timestamp.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return fmt.Errorf("failed to parse timestamp: %w", err)
	}
	*ts = parsed
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Timestamp.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ts.Time.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// MarshalYAML writes the same UTC string as MarshalJSON.
func (ts Timestamp) MarshalYAML() (interface{}, error) {
	if ts.Time.IsZero() {
		return nil, nil
	}
	return ts.Time.UTC().Format(time.RFC3339Nano), nil
}

// Ptr returns the wrapped time, or nil when unset.
func (ts *Timestamp) Ptr() *time.Time {
	if ts == nil || ts.Time.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}
