// Package content defines the records served by the data endpoint.
//
// Bilingual fields arrive as paired `<name>_es` / `<name>_en` keys and are
// decoded into locale.Text values. Records the site passes through to
// templates without interpretation (socials, about, redirects) are kept as
// opaque Record maps.
package content
