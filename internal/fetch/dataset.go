package fetch

import (
	"context"

	"git.home.luguber.info/inful/bitacora/internal/content"
)

// Dataset holds every collection of one build, in fetch order.
type Dataset struct {
	Socials   []content.Record
	About     []content.Record
	Redirects []content.Record
	Feeds     []content.Feed
	Comments  []content.Comment
	Media     []content.Media
	Logs      []content.Log
	Blogs     []content.Blog
}

// Source is what the build needs from the data endpoint.
type Source interface {
	FetchAll(ctx context.Context) (*Dataset, error)
}

// FetchAll requests the collections sequentially and stops at the first
// failure.
func (c *Client) FetchAll(ctx context.Context) (*Dataset, error) {
	var (
		ds  Dataset
		err error
	)
	if ds.Socials, err = c.Socials(ctx); err != nil {
		return nil, err
	}
	if ds.About, err = c.About(ctx); err != nil {
		return nil, err
	}
	if ds.Redirects, err = c.Redirects(ctx); err != nil {
		return nil, err
	}
	if ds.Feeds, err = c.Feeds(ctx); err != nil {
		return nil, err
	}
	if ds.Comments, err = c.Comments(ctx); err != nil {
		return nil, err
	}
	if ds.Media, err = c.Media(ctx); err != nil {
		return nil, err
	}
	if ds.Logs, err = c.Logs(ctx); err != nil {
		return nil, err
	}
	if ds.Blogs, err = c.Blogs(ctx); err != nil {
		return nil, err
	}
	return &ds, nil
}
