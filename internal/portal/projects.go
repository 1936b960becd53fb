package portal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"SunPortal/entity"
)

// Projects returns one page of the installation portfolio.
func (c *Client) Projects(ctx context.Context, page, perPage int) (*entity.ProjectPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var result entity.ProjectPage
	if err := c.get(ctx, "/projects", query, &result); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return &result, nil
}

// Project returns a single portfolio entry.
func (c *Client) Project(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	if err := c.get(ctx, "/projects/"+id, nil, &project); err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &project, nil
}

// CreateProject adds a portfolio entry. Admin only.
func (c *Client) CreateProject(ctx context.Context, project entity.Project) (*entity.Project, error) {
	var created entity.Project
	if err := c.postJSON(ctx, "/projects", project, &created); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &created, nil
}

// UpdateProject replaces a portfolio entry. Admin only.
func (c *Client) UpdateProject(ctx context.Context, project entity.Project) error {
	if err := c.putJSON(ctx, "/projects/"+project.ID, project, nil); err != nil {
		return fmt.Errorf("update project %s: %w", project.ID, err)
	}
	return nil
}

// DeleteProject removes a portfolio entry. Admin only.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/projects/"+id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}
