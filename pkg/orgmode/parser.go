// Package orgmode reads TODO headlines from Org-mode files.
package orgmode

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/tags"
)

// Headline is one TODO or DONE entry.
type Headline struct {
	Title    string
	Done     bool
	Priority model.Priority
	Tags     []string
	Deadline time.Time
	Notes    []string
	Source   string
}

var (
	headlineRegex = regexp.MustCompile(`^\*+\s+(TODO|DONE)\s+(?:\[#([A-Z])\]\s*)?(.*?)(?:\s+:([\w@#%:]+):)?\s*$`)
	anyHeading    = regexp.MustCompile(`^\*+\s`)
	plannedRegex  = regexp.MustCompile(`(DEADLINE|SCHEDULED):\s+<(\d{4}-\d{2}-\d{2})(?:\s+[A-Za-z]{2,3}\.?)?(?:\s+(\d{1,2}:\d{2}))?[^>]*>`)
	drawerStart   = regexp.MustCompile(`^:[A-Z_]+:\s*$`)
)

func parseFile(filePath string) ([]Headline, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file, filePath)
}

// ParseFiles parses each file in order.
func ParseFiles(filePaths []string) ([]Headline, error) {
	var all []Headline
	for _, filePath := range filePaths {
		headlines, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		all = append(all, headlines...)
	}
	return all, nil
}

// Parse collects TODO and DONE headlines. A DEADLINE wins over SCHEDULED;
// plain body lines outside drawers become notes.
func Parse(r io.Reader, source string) ([]Headline, error) {
	scanner := bufio.NewScanner(r)
	var headlines []Headline
	var current *Headline
	inDrawer := false
	deadlineSet := false

	flush := func() {
		if current != nil && current.Title != "" {
			headlines = append(headlines, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if matches := headlineRegex.FindStringSubmatch(line); matches != nil {
			flush()
			current = &Headline{
				Title:    strings.TrimSpace(matches[3]),
				Done:     matches[1] == "DONE",
				Priority: convertPriority(matches[2]),
				Source:   source,
			}
			if matches[4] != "" {
				for _, tag := range strings.Split(matches[4], ":") {
					if tag != "" {
						current.Tags = append(current.Tags, tag)
					}
				}
			}
			inDrawer = false
			deadlineSet = false
			continue
		}
		if anyHeading.MatchString(line) {
			flush()
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case inDrawer:
			if line == ":END:" {
				inDrawer = false
			}
		case drawerStart.MatchString(line):
			inDrawer = line != ":END:"
		case plannedRegex.MatchString(line):
			for _, m := range plannedRegex.FindAllStringSubmatch(line, -1) {
				if deadlineSet && m[1] != "DEADLINE" {
					continue
				}
				if t, ok := parsePlanned(m[2], m[3]); ok {
					current.Deadline = t
					deadlineSet = m[1] == "DEADLINE"
				}
			}
		case line != "":
			current.Notes = append(current.Notes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return headlines, nil
}

func parsePlanned(day, clock string) (time.Time, bool) {
	if clock == "" {
		t, err := time.ParseInLocation("2006-01-02", day, time.Local)
		return t, err == nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, time.Local)
	return t, err == nil
}

func convertPriority(cookie string) model.Priority {
	switch cookie {
	case "A":
		return model.PriorityHigh
	case "B":
		return model.PriorityMedium
	case "C":
		return model.PriorityLow
	}
	return ""
}

// FilterTasks keeps headlines carrying tag. An empty tag keeps everything.
func FilterTasks(headlines []Headline, tag string) []Headline {
	if tag == "" {
		return headlines
	}
	var filtered []Headline
	for _, h := range headlines {
		for _, t := range h.Tags {
			if strings.EqualFold(t, tag) {
				filtered = append(filtered, h)
				break
			}
		}
	}
	return filtered
}

// ToDraft maps a headline onto a store draft.
func ToDraft(h Headline) model.Draft {
	d := model.Draft{
		Title:       h.Title,
		Description: strings.Join(h.Notes, "\n"),
		Priority:    h.Priority,
		Tags:        tags.FromNames(h.Tags),
	}
	if !h.Deadline.IsZero() {
		due := h.Deadline
		d.DueDate = &due
	}
	return d
}

// Drafts converts the open (TODO) headlines.
func Drafts(headlines []Headline) []model.Draft {
	var drafts []model.Draft
	for _, h := range headlines {
		if !h.Done {
			drafts = append(drafts, ToDraft(h))
		}
	}
	return drafts
}
