// Package transform prepares fetched collections for rendering: log slugs
// and classification, media collection, and comment and post filtering.
package transform

import (
	"context"
	"slices"
	"strconv"

	"git.home.luguber.info/inful/bitacora/internal/content"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/observability"
)

// Resolver makes a remote media URL available locally.
type Resolver interface {
	Resolve(ctx context.Context, url, filename string) (string, bool)
}

// LogSlug is the slug of the log at fetch position index.
func LogSlug(index int) string {
	return "0x" + strconv.FormatInt(int64(index), 16)
}

// Logs assigns slugs in fetch order, classifies each entry and reverses the
// slice in place for newest-first display.
//
// Entries without an image are notes. Entries with one are photos whatever
// the download outcome; a failed download leaves ImageURL empty.
func Logs(ctx context.Context, logs []content.Log, media Resolver) []content.Log {
	for i := range logs {
		l := &logs[i]
		l.Slug = LogSlug(i)
		if l.ImageURL == "" {
			l.Type = content.LogNote
			continue
		}
		l.Type = content.LogPhoto
		name, _ := media.Resolve(ctx, l.ImageURL, "")
		l.ImageURL = name
	}
	slices.Reverse(logs)
	return logs
}

// CollectMedia downloads every standalone media record under its slug.
// It returns how many are available locally.
func CollectMedia(ctx context.Context, items []content.Media, media Resolver) int {
	available := 0
	for _, item := range items {
		if _, ok := media.Resolve(ctx, item.URL, item.Slug); ok {
			available++
		}
	}
	observability.DebugContext(ctx, "Collected media", logfields.Count(available))
	return available
}

// Approved keeps approved comments in fetch order.
func Approved(comments []content.Comment) []content.Comment {
	out := make([]content.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Approved {
			out = append(out, c)
		}
	}
	return out
}

// Published keeps published posts in fetch order.
func Published(blogs []content.Blog) []content.Blog {
	out := make([]content.Blog, 0, len(blogs))
	for _, b := range blogs {
		if b.Published {
			out = append(out, b)
		}
	}
	return out
}

// CommentsFor returns the comments whose path equals route exactly, newest
// first. Unapproved comments are never returned.
func CommentsFor(comments []content.Comment, route string) []content.Comment {
	var out []content.Comment
	for _, c := range comments {
		if c.Approved && c.Path == route {
			out = append(out, c)
		}
	}
	slices.Reverse(out)
	return out
}
