// Package taskwarrior reads Taskwarrior exports and turns them into drafts
// for the task store.
package taskwarrior

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/model"
	"github.com/Sergey-Okey/toka-app/pkg/tags"
	"github.com/Sergey-Okey/toka-app/pkg/util"
)

type Client struct {
	// Binary is the task executable; empty means "task" on PATH.
	Binary string
}

func NewClient() *Client {
	return &Client{Binary: "task"}
}

// GetTasks runs `task <filter> export` with hooks disabled.
func (c *Client) GetTasks(filter []string) ([]Task, error) {
	bin := c.Binary
	if bin == "" {
		bin = "task"
	}
	args := append(append([]string{}, filter...), "export", "rc.hooks=0")
	output, err := exec.Command(bin, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, stderr: %s",
				exitErr.ExitCode(), exitErr.Stderr)
		}
		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}
	return c.ParseTasks(bytes.NewReader(output))
}

// ParseTasks accepts either a JSON array (as written by `task export`) or a
// stream of JSON objects one after another (as seen by hooks).
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var tasks []Task
		if err := dec.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("failed to decode task export: %w", err)
		}
		return tasks, nil
	}

	var tasks []Task
	for {
		var task Task
		if err := dec.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// ToDraft maps a Taskwarrior record onto a store draft. The project becomes
// the category and annotations are joined into the description.
func ToDraft(t Task) model.Draft {
	d := model.Draft{
		Title:    strings.TrimSpace(t.Description),
		Category: t.Project,
		Priority: convertPriority(t.Priority),
		Tags:     tags.FromNames(t.Tags),
	}

	due := t.Due
	if due == nil || due.IsZero() {
		due = t.Scheduled
	}
	if due != nil && !due.IsZero() {
		local := due.Time.Local()
		d.DueDate = &local
	}

	var notes []string
	for _, a := range t.Annotations {
		if s := strings.TrimSpace(a.Description); s != "" {
			notes = append(notes, s)
		}
	}
	d.Description = strings.Join(notes, "\n")

	if t.Est != "" {
		if est, err := util.ParseDuration(t.Est); err == nil && est > 0 {
			d.EstimatedTime = int(est.Round(time.Minute) / time.Minute)
		}
	}
	return d
}

// Drafts converts the importable tasks.
func Drafts(tasks []Task) []model.Draft {
	var drafts []model.Draft
	for _, t := range tasks {
		if t.Importable() {
			drafts = append(drafts, ToDraft(t))
		}
	}
	return drafts
}

func convertPriority(p string) model.Priority {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case "H":
		return model.PriorityHigh
	case "M":
		return model.PriorityMedium
	case "L":
		return model.PriorityLow
	}
	return ""
}
