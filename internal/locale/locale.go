// Package locale defines the two locales the site is published in and the
// bilingual text value selected per locale.
package locale

import "golang.org/x/text/language"

// Locale is a supported (language, region) pair.
type Locale string

const (
	// Spanish is the default locale; it is published at the site root.
	Spanish Locale = "es-UY"
	// English is published under /en/.
	English Locale = "en-US"
)

// All lists the supported locales, default first.
var All = []Locale{Spanish, English}

// IsDefault reports whether l is published at the site root.
func (l Locale) IsDefault() bool { return l == Spanish }

// Dir is the output subdirectory for l ("" for the default locale).
func (l Locale) Dir() string {
	if l.IsDefault() {
		return ""
	}
	return "en"
}

// Prefix is the URL prefix for l without a trailing slash ("" or "/en").
func (l Locale) Prefix() string {
	if l.IsDefault() {
		return ""
	}
	return "/" + l.Dir()
}

// Tag returns the BCP 47 tag of l.
func (l Locale) Tag() language.Tag {
	return language.Make(string(l))
}

func (l Locale) String() string { return string(l) }

// Text is a piece of copy available in both locales.
type Text struct {
	ES string `json:"es"`
	EN string `json:"en"`
}

// In selects the Spanish copy for Spanish and the English copy otherwise.
func (t Text) In(l Locale) string {
	if l == Spanish {
		return t.ES
	}
	return t.EN
}
