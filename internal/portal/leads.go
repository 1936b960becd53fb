package portal

import (
	"context"
	"fmt"
	"net/url"

	"SunPortal/entity"
)

// Leads lists sales inquiries, optionally filtered by status. Admin only.
func (c *Client) Leads(ctx context.Context, status string) ([]entity.Lead, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}

	var leads []entity.Lead
	if err := c.get(ctx, "/leads", query, &leads); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// CreateLead records a new inquiry from the marketing site.
func (c *Client) CreateLead(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	var created entity.Lead
	if err := c.postJSON(ctx, "/leads", lead, &created); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return &created, nil
}

// UpdateLeadStatus moves a lead through the back-office pipeline.
func (c *Client) UpdateLeadStatus(ctx context.Context, id, status string) error {
	if err := c.patchJSON(ctx, "/leads/"+id, map[string]string{"status": status}, nil); err != nil {
		return fmt.Errorf("update lead %s: %w", id, err)
	}
	return nil
}

// DeleteLead removes a lead. Admin only.
func (c *Client) DeleteLead(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/leads/"+id); err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	return nil
}
