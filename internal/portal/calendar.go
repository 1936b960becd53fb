package portal

import (
	"context"
	"fmt"
	"time"
)

// CreateCalendarEvent records a manual admin calendar entry that is not
// backed by a service request (site visits, internal blocks).
func (c *Client) CreateCalendarEvent(ctx context.Context, date time.Time, timeOfDay, eventType, note string) error {
	body := map[string]string{
		"date": date.Format("2006-01-02"),
		"time": timeOfDay,
		"type": eventType,
		"note": note,
	}
	if err := c.postJSON(ctx, "/calendar/events", body, nil); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}
