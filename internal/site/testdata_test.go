package site

import (
	"testing/fstest"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/content"
	"git.home.luguber.info/inful/bitacora/internal/locale"
)

// testTemplates are minimal templates exposing the fields under test.
func testTemplates() fstest.MapFS {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"partials/nav.html": file(`{{define "nav"}}<nav lang="{{.LangTag}}"><a href="{{.Alternate "/"}}">alt</a>{{range .Socials}}{{index . "name"}};{{end}}</nav>{{end}}`),
		"index.html":        file(`{{template "nav" .}}home {{.Page.Number}}/{{.Page.Total}} prev={{.Page.Prev}} next={{.Page.Next}}{{range .Blogs}} [{{t .Title $.Lang}}]{{end}}`),
		"post.html":         file(`{{.Path}}{{.CurrentPage}} {{.Post.Title.In .Lang}} {{markdown (.Post.Content.In .Lang)}}{{range .Comments}} ({{.Name}}){{end}} {{.CommentsEndpoint}}`),
		"about.html":        file(`about {{.Lang}} {{index .About "bio"}}`),
		"logs.html":         file(`logs {{.Page.Number}}/{{.Page.Total}} prev={{.Page.Prev}} next={{.Page.Next}}{{range .Logs}} [{{.Slug}}:{{.Type}}]{{end}}`),
		"log.html":          file(`{{.Path}}{{.CurrentPage}} {{t .Log.Content .Lang}} {{if .Log.ImageURL}}{{$.MediaBase}}/{{.Log.ImageURL}}{{end}}{{range .Comments}} ({{.Name}}){{end}}`),
		"search.html":       file(`search {{.Lang}} posts={{len .Blogs}} logs={{len .Logs}} about={{index .About "bio"}}`),
		"rss.xml":           file(`<rss><channel><language>{{.Language}}</language><lastBuildDate>{{.BuildDate}}</lastBuildDate>{{range .Items}}<item><title>{{xml .Title}}</title><link>{{.Link}}</link><description>{{xml .Description}}</description><pubDate>{{.Date}}</pubDate></item>{{end}}</channel></rss>`),
		"redirects.nginx":   file(`{{range .Redirects}}rewrite ^{{index . "from"}}$ {{index . "to"}} permanent;
{{end}}`),
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
}

func testBlogs(n int) []content.Blog {
	out := make([]content.Blog, n)
	for i := range out {
		slug := "post-" + string(rune('a'+i))
		out[i] = content.Blog{
			Slug:      slug,
			Title:     locale.Text{ES: "Titulo " + slug, EN: "Title " + slug},
			Brief:     locale.Text{ES: "resumen", EN: "brief"},
			Content:   locale.Text{ES: "**hola**", EN: "**hello**"},
			Date:      "2024-03-01",
			Time:      "14:30",
			Published: true,
		}
	}
	return out
}

func testLogs(n int) []content.Log {
	out := make([]content.Log, n)
	for i := range out {
		out[i] = content.Log{
			Slug:    "0x" + string(rune('0'+i)),
			Content: locale.Text{ES: "nota", EN: "note"},
			Date:    "2024-03-01",
			Time:    "09:00",
			Type:    content.LogNote,
		}
	}
	return out
}
