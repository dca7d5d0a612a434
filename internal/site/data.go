package site

import (
	"git.home.luguber.info/inful/bitacora/internal/content"
	"git.home.luguber.info/inful/bitacora/internal/locale"
)

// Pagination is the navigation state of a listing page.
type Pagination struct {
	Number int
	Total  int
	Prev   string
	Next   string
}

// PageData is the value every HTML template executes against.
type PageData struct {
	Lang        locale.Locale
	LangTag     string // canonical BCP 47 form of Lang, for <html lang>
	Prefix      string // "" or "/en"
	Path        string // route prefix of detail pages, e.g. "/en/logs/"
	CurrentPage string // view name on listings, slug on detail pages
	MediaBase   string // absolute route of the media directory, e.g. "/img"
	BuildID     string

	Socials          []content.Record
	About            content.Record
	CommentsEndpoint string
	Comments         []content.Comment

	Blogs []content.Blog
	Logs  []content.Log
	Post  *content.Blog
	Log   *content.Log

	Page Pagination
}

// Alternate maps an unprefixed route to the same view in the other locale.
func (p PageData) Alternate(route string) string {
	if p.Lang.IsDefault() {
		return locale.English.Prefix() + route
	}
	return route
}

// FeedItem is one entry of an RSS feed.
type FeedItem struct {
	Title       string
	Link        string
	Description string
	Date        string
}

// FeedData is the value the feed template executes against.
type FeedData struct {
	BuildDate string
	Feed      content.Feed
	Lang      locale.Locale
	Language  string // RSS <language> value, e.g. "es-uy"
	Items     []FeedItem
}

// RedirectData is the value the redirects template executes against.
type RedirectData struct {
	Redirects []content.Record
}

// SearchEntry is one record of search/index.json.
type SearchEntry struct {
	Kind  string `json:"kind"`
	Slug  string `json:"slug"`
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Input is everything a full render needs.
type Input struct {
	Socials   []content.Record
	About     []content.Record
	Redirects []content.Record
	Feeds     []content.Feed
	Comments  []content.Comment
	Logs      []content.Log
	Blogs     []content.Blog
}
