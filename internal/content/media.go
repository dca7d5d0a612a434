package content

// Media is a standalone asset downloaded under an explicit filename. Records
// are not validated at fetch time; a bad URL or filename fails only that
// download.
type Media struct {
	Slug string `json:"url_slug"`
	URL  string `json:"media"`
}
