package util

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DayLayout is the calendar-day key used by daily statistics.
const DayLayout = "2006-01-02"

var durationRe = regexp.MustCompile(`(\d+)([HMS])`)

// ParseDuration parses ISO 8601 duration format (PT1H30M). Plain Go
// durations ("90m", "1h30m") are accepted as well.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if s[0] != 'P' {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return d, nil
	}

	// Remove 'P' prefix and check for 'T' (time component)
	s = s[1:]
	if len(s) == 0 || s[0] != 'T' {
		return 0, fmt.Errorf("invalid ISO 8601 duration (missing T): P%s", s)
	}
	s = s[1:]

	var total time.Duration
	for _, match := range durationRe.FindAllStringSubmatch(s, -1) {
		value, _ := strconv.Atoi(match[1])
		switch match[2] {
		case "H":
			total += time.Duration(value) * time.Hour
		case "M":
			total += time.Duration(value) * time.Minute
		case "S":
			total += time.Duration(value) * time.Second
		}
	}

	if total == 0 {
		return 0, fmt.Errorf("invalid ISO 8601 duration: PT%s", s)
	}

	return total, nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DayKey formats t's calendar day in loc as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// DaysBetween counts calendar days from a's day to b's day in loc. Days
// shortened or lengthened by a DST change still count as one.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}
