package portal

import (
	"context"
	"fmt"

	"SunPortal/entity"
)

// Users lists portal accounts. Admin only.
func (c *Client) Users(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser adds a portal account. Admin only.
func (c *Client) CreateUser(ctx context.Context, user entity.User) (*entity.User, error) {
	var created entity.User
	if err := c.postJSON(ctx, "/users", user, &created); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

// UpdateUser replaces an account's profile fields. Admin only.
func (c *Client) UpdateUser(ctx context.Context, user entity.User) error {
	if err := c.putJSON(ctx, "/users/"+user.ID, user, nil); err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return nil
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/users/"+id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}
