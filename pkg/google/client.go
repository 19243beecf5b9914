package google

import (
	"context"
	"fmt"

	"github.com/Sergey-Okey/toka-app/pkg/auth"
)

// NewClient authenticates and resolves calendarName to a calendar id.
func NewClient(ctx context.Context, configDir, calendarName string) (*CalendarClient, error) {
	srv, err := auth.GetCalendarService(ctx, configDir)
	if err != nil {
		return nil, err
	}

	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	var calendarID string
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			calendarID = item.Id
			break
		}
	}
	if calendarID == "" {
		return nil, fmt.Errorf("calendar '%s' not found", calendarName)
	}

	return NewCalendarClient(srv, calendarID), nil
}
