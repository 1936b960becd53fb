package entity

import (
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"omitempty"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone" validate:"omitempty"`
	Role      string    `json:"role" validate:"omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	CustomerRole = "customer"
	AdminRole    = "admin"
)

func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}

func (u *User) IsCustomer() bool {
	return u.Role == CustomerRole
}

// DisplayName returns the user's name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
