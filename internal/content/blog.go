package content

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/locale"
)

// Blog is a long-form post. Slugs come from the source.
type Blog struct {
	Slug      string      `json:"url_slug" validate:"required"`
	Title     locale.Text `json:"title"`
	Brief     locale.Text `json:"brief"`
	Content   locale.Text `json:"content"`
	Date      string      `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string      `json:"time" validate:"omitempty,datetime=15:04"`
	Published bool        `json:"published"`
	ImageURL  string      `json:"image_url,omitempty"`
}

type blogWire struct {
	Slug      string `json:"url_slug"`
	TitleES   string `json:"title_es"`
	TitleEN   string `json:"title_en"`
	BriefES   string `json:"brief_es"`
	BriefEN   string `json:"brief_en"`
	ContentES string `json:"content_es"`
	ContentEN string `json:"content_en"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Published flag   `json:"published"`
	ImageURL  string `json:"image_url"`
}

// UnmarshalJSON decodes the endpoint's flat `_es`/`_en` layout.
func (b *Blog) UnmarshalJSON(data []byte) error {
	var w blogWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*b = Blog{
		Slug:      w.Slug,
		Title:     locale.Text{ES: w.TitleES, EN: w.TitleEN},
		Brief:     locale.Text{ES: w.BriefES, EN: w.BriefEN},
		Content:   locale.Text{ES: w.ContentES, EN: w.ContentEN},
		Date:      w.Date,
		Time:      w.Time,
		Published: bool(w.Published),
		ImageURL:  w.ImageURL,
	}
	return nil
}

// PublishedAt is the post's date and time in Zone.
func (b Blog) PublishedAt() (time.Time, error) {
	return ParseDateTime(b.Date, b.Time)
}

// Validate checks the struct tags. Only published posts are validated;
// drafts never render.
func (b Blog) Validate() error { return validate.Struct(b) }
