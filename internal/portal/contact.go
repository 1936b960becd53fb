package portal

import (
	"context"
	"fmt"

	"SunPortal/entity"
)

// SubmitContact sends a marketing site contact form submission.
func (c *Client) SubmitContact(ctx context.Context, msg entity.ContactMessage) error {
	if err := c.postJSON(ctx, "/contact", msg, nil); err != nil {
		return fmt.Errorf("submit contact form: %w", err)
	}
	return nil
}
