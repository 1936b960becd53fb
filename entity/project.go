package entity

import (
	"time"
)

// Project is a completed or in-progress installation shown on the
// marketing site portfolio.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	PowerKW     float64   `json:"power_kw"`
	Images      []string  `json:"images"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectPage is one page of the paginated project list.
type ProjectPage struct {
	Items   []Project `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}
