package content

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/locale"
)

// LogType classifies a log entry by whether it carries an image.
type LogType string

const (
	LogNote  LogType = "note"
	LogPhoto LogType = "photo"
)

// Log is a short entry. Slug and Type are assigned by the transform stage.
type Log struct {
	Slug     string      `json:"url_slug"`
	Content  locale.Text `json:"content"`
	Date     string      `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string      `json:"time" validate:"omitempty,datetime=15:04"`
	ImageURL string      `json:"image_url"`
	Type     LogType     `json:"type,omitempty" validate:"omitempty,oneof=note photo"`
}

type logWire struct {
	ContentES string `json:"content_es"`
	ContentEN string `json:"content_en"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	ImageURL  string `json:"image_url"`
}

// UnmarshalJSON decodes the endpoint's flat `_es`/`_en` layout. Any slug or
// type in the payload is ignored.
func (l *Log) UnmarshalJSON(data []byte) error {
	var w logWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*l = Log{
		Content:  locale.Text{ES: w.ContentES, EN: w.ContentEN},
		Date:     w.Date,
		Time:     w.Time,
		ImageURL: w.ImageURL,
	}
	return nil
}

// PublishedAt is the entry's date and time in Zone.
func (l Log) PublishedAt() (time.Time, error) {
	return ParseDateTime(l.Date, l.Time)
}

// IsPhoto reports whether the entry was classified as a photo.
func (l Log) IsPhoto() bool { return l.Type == LogPhoto }

// Validate checks the struct tags.
func (l Log) Validate() error { return validate.Struct(l) }
