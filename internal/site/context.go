package site

import (
	"slices"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/locale"
	"git.home.luguber.info/inful/bitacora/internal/paginate"
)

// Context is the read-only configuration shared by every view of a build.
// It is passed by value; use the With methods to derive variants.
type Context struct {
	locales          []locale.Locale
	commentsEndpoint string
	pageSize         int
	mediaDir         string
	redirectFile     string
	buildID          string
	now              func() time.Time
}

// NewContext returns a Context for both locales with the default page size.
func NewContext(commentsEndpoint string) Context {
	return Context{
		locales:          slices.Clone(locale.All),
		commentsEndpoint: commentsEndpoint,
		pageSize:         paginate.DefaultPageSize,
		mediaDir:         "img",
		redirectFile:     "redirects.nginx",
		now:              time.Now,
	}
}

// WithPageSize sets the listing page size; values below 1 are ignored.
func (c Context) WithPageSize(n int) Context {
	if n >= 1 {
		c.pageSize = n
	}
	return c
}

// WithMediaDir sets the media directory below the output root.
func (c Context) WithMediaDir(dir string) Context {
	if dir != "" {
		c.mediaDir = dir
	}
	return c
}

// WithRedirectFile sets the redirects artifact name within its sink.
func (c Context) WithRedirectFile(name string) Context {
	if name != "" {
		c.redirectFile = name
	}
	return c
}

// WithBuildID records the build identifier exposed to templates.
func (c Context) WithBuildID(id string) Context {
	c.buildID = id
	return c
}

// WithClock replaces the clock used for feed build dates.
func (c Context) WithClock(now func() time.Time) Context {
	if now != nil {
		c.now = now
	}
	return c
}

// Locales returns a copy of the rendered locales, default first.
func (c Context) Locales() []locale.Locale { return slices.Clone(c.locales) }

// CommentsEndpoint is the URL templates post new comments to.
func (c Context) CommentsEndpoint() string { return c.commentsEndpoint }

// PageSize is the number of items per listing page.
func (c Context) PageSize() int { return c.pageSize }

// MediaDir is the media directory below the output root.
func (c Context) MediaDir() string { return c.mediaDir }

// RedirectFile is the name of the redirects artifact within its sink.
func (c Context) RedirectFile() string { return c.redirectFile }

// BuildID identifies the build that produced the pages.
func (c Context) BuildID() string { return c.buildID }

// Now returns the current time according to the context clock.
func (c Context) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
