package google

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/colors"
	"github.com/Sergey-Okey/toka-app/pkg/index"
	"github.com/Sergey-Okey/toka-app/pkg/model"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// EventService is the subset of the Calendar API the publisher needs.
type EventService interface {
	Get(ctx context.Context, eventID string) (*calendar.Event, error)
	Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error)
	Patch(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error)
	Delete(ctx context.Context, eventID string) error
	FindByTaskID(ctx context.Context, taskID string) (*calendar.Event, error)
}

// Result counts what a Publish call did.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	Failed    int
}

// Publisher mirrors due-dated tasks into a calendar, one event per task.
// The calendar is write-only from the store's point of view.
type Publisher struct {
	events EventService
	index  *index.EventIndex
	colors *colors.ColorCache
	now    func() time.Time
	logger *log.Logger
}

func NewPublisher(events EventService, idx *index.EventIndex, cc *colors.ColorCache, now func() time.Time) *Publisher {
	if now == nil {
		now = time.Now
	}
	return &Publisher{events: events, index: idx, colors: cc, now: now, logger: log.Default()}
}

// Publish creates or patches events for tasks with a due date and deletes
// events whose task is gone or no longer has a due date. Per-task failures
// are logged and counted; only saving the index and colors returns an error.
func (p *Publisher) Publish(ctx context.Context, tasks []model.Task) (Result, error) {
	var res Result
	now := p.now()
	keep := make(map[string]bool)

	for _, task := range tasks {
		if task.DueDate == nil || task.DueDate.IsZero() {
			continue
		}
		keep[task.ID] = true
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := p.sync(ctx, task, now, &res); err != nil {
			p.logger.Printf("Error syncing task %s: %v", task.ID, err)
			res.Failed++
		}
	}

	for _, taskID := range p.index.TaskIDs() {
		if keep[taskID] {
			continue
		}
		eventID := p.index.Get(taskID)
		if err := p.events.Delete(ctx, eventID); err != nil && !isGone(err) {
			p.logger.Printf("Error deleting event %s: %v", eventID, err)
			res.Failed++
			continue
		}
		p.index.Remove(taskID)
		res.Deleted++
	}

	var errs []error
	if err := p.index.Save(); err != nil {
		errs = append(errs, fmt.Errorf("save event index: %w", err))
	}
	if err := p.colors.Save(); err != nil {
		errs = append(errs, fmt.Errorf("save color cache: %w", err))
	}
	return res, errors.Join(errs...)
}

// isGone reports whether the event no longer exists, for instance because
// it was removed in the calendar directly.
func isGone(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone
	}
	return false
}

func (p *Publisher) sync(ctx context.Context, task model.Task, now time.Time, res *Result) error {
	event, err := ConvertTaskToEvent(task, p.colors.ColorID(task.Category), now)
	if err != nil {
		return err
	}

	var existing *calendar.Event
	// 1. Try local index first
	if eventID := p.index.Get(task.ID); eventID != "" {
		existing, err = p.events.Get(ctx, eventID)
		if err != nil {
			existing = nil
		}
	}
	// 2. Fall back to searching by extended property
	if existing == nil {
		existing, err = p.events.FindByTaskID(ctx, task.ID)
		if err != nil {
			return fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing == nil {
		created, err := p.events.Insert(ctx, event)
		if err != nil {
			return err
		}
		p.index.Set(task.ID, created.Id)
		res.Created++
		return nil
	}

	patch, err := EventNeedsUpdate(existing, event)
	if err != nil {
		return fmt.Errorf("could not compare task with its calendar event: %w", err)
	}
	p.index.Set(task.ID, existing.Id)
	if patch == nil {
		res.Unchanged++
		return nil
	}
	if _, err := p.events.Patch(ctx, existing.Id, patch); err != nil {
		return err
	}
	res.Updated++
	return nil
}
