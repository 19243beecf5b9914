package google

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
)

// CalendarClient is a Google Calendar API client bound to one calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
}

// NewCalendarClient creates a new Google Calendar client.
func NewCalendarClient(srv *calendar.Service, calendarID string) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID}
}

func (c *CalendarClient) Get(ctx context.Context, eventID string) (*calendar.Event, error) {
	return c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
}

func (c *CalendarClient) Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
}

// Patch performs a partial update on an event.
func (c *CalendarClient) Patch(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

func (c *CalendarClient) Delete(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// FindByTaskID searches for the event carrying the task id in its private
// extended properties. It returns nil, nil when there is none.
func (c *CalendarClient) FindByTaskID(ctx context.Context, taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

var _ EventService = (*CalendarClient)(nil)
