package entity

import (
	"time"
)

// Lead statuses as the back office tracks them.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadQualified = "qualified"
	LeadClosed    = "closed"
)

// Lead is a sales inquiry captured from the marketing site.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
