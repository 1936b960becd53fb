package entity

import (
	"time"
)

// BlogPost is an article on the marketing site blog.
type BlogPost struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	CoverImage  string    `json:"cover_image"`
	PublishedAt time.Time `json:"published_at"`
}
