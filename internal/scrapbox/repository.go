package scrapbox

import (
	"context"

	"scrapjournal/internal/page"
)

// Repository joins the API reader with a poster.
type Repository struct {
	*Client
	poster Poster
}

// NewRepository returns a repository that reads through c and writes
// through poster.
func NewRepository(c *Client, poster Poster) *Repository {
	return &Repository{Client: c, poster: poster}
}

// Post delegates to the poster.
func (r *Repository) Post(ctx context.Context, p page.Page) error {
	return r.poster.Post(ctx, p)
}
