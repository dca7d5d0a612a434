package content

import (
	"encoding/json"

	"git.home.luguber.info/inful/bitacora/internal/locale"
)

// FeedType selects the collection a feed is built from.
type FeedType string

const (
	FeedBlog FeedType = "blog"
	FeedLog  FeedType = "log"
)

// Feed describes one RSS output. Fields holds the full source record so
// templates can reach channel metadata this type does not name.
type Feed struct {
	Slug        string   `json:"url_slug" validate:"required,excludesall=/\\"`
	Lang        string   `json:"lang" validate:"required"`
	Type        FeedType `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Fields      Record   `json:"-"`
}

func (f *Feed) UnmarshalJSON(data []byte) error {
	type plain Feed
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var fields Record
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*f = Feed(p)
	f.Fields = fields
	return nil
}

// Kind returns the feed's collection. Anything other than "blog" is a log feed.
func (f Feed) Kind() FeedType {
	if f.Type == FeedBlog {
		return FeedBlog
	}
	return FeedLog
}

// Locale resolves Lang. Only an exact "es-UY" lands at the site root;
// everything else is published with the English tree.
func (f Feed) Locale() locale.Locale {
	if locale.Locale(f.Lang) == locale.Spanish {
		return locale.Spanish
	}
	return locale.English
}

// Validate checks the struct tags.
func (f Feed) Validate() error { return validate.Struct(f) }
