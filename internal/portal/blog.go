package portal

import (
	"context"
	"fmt"

	"SunPortal/entity"
)

// BlogPosts lists published articles, newest first.
func (c *Client) BlogPosts(ctx context.Context) ([]entity.BlogPost, error) {
	var posts []entity.BlogPost
	if err := c.get(ctx, "/blog", nil, &posts); err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	return posts, nil
}

// BlogPostBySlug returns a single article by its URL slug.
func (c *Client) BlogPostBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	var post entity.BlogPost
	if err := c.get(ctx, "/blog/"+slug, nil, &post); err != nil {
		return nil, fmt.Errorf("get blog post %s: %w", slug, err)
	}
	return &post, nil
}
