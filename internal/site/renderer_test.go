package site

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bitacora/internal/content"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
)

func newTestRenderer(t *testing.T) (*Renderer, *MemorySink, *MemorySink) {
	t.Helper()
	out := NewMemorySink()
	redirects := NewMemorySink()
	ctx := NewContext("https://comments.example.com/submit").WithClock(fixedClock).WithRedirectFile("redirects.conf")
	return NewRenderer(ctx, NewEngine(testTemplates()), out, WithRedirectSink(redirects)), out, redirects
}

func get(t *testing.T, sink *MemorySink, p string) string {
	t.Helper()
	b, ok := sink.Get(p)
	require.True(t, ok, "missing artifact %s", p)
	return string(b)
}

func TestHomePageOneWrittenThreeTimesPerLocale(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	require.NoError(t, r.Home(t.Context(), nil, testBlogs(7)))

	for _, prefix := range []string{"", "en/"} {
		root := get(t, out, prefix+"index.html")
		assert.Equal(t, root, get(t, out, prefix+"page/index.html"))
		assert.Equal(t, root, get(t, out, prefix+"page/1/index.html"))
		assert.Contains(t, root, "home 1/2 prev=# next=/"+prefix+"page/2")
	}

	assert.Contains(t, get(t, out, "page/2/index.html"), "home 2/2 prev=/page/1 next=#")
	assert.Contains(t, get(t, out, "en/page/2/index.html"), "prev=/en/page/1 next=#")
	_, ok := out.Get("page/3/index.html")
	assert.False(t, ok)
	assert.Equal(t, 2*(3+1), r.Artifacts()[ViewHome])
}

func TestHomeLocaleSelectedFields(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	require.NoError(t, r.Home(t.Context(), nil, testBlogs(1)))
	assert.Contains(t, get(t, out, "index.html"), "[Titulo post-a]")
	assert.Contains(t, get(t, out, "en/index.html"), "[Title post-a]")
}

func TestHomeExactMultipleLinksToMissingPage(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	require.NoError(t, r.Home(t.Context(), nil, testBlogs(5)))
	assert.Contains(t, get(t, out, "index.html"), "home 1/2 prev=# next=/page/2")
	_, ok := out.Get("page/2/index.html")
	assert.False(t, ok)
}

func TestHomeEmptyStillWritesRoot(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	require.NoError(t, r.Home(t.Context(), nil, nil))
	for _, p := range []string{"index.html", "page/index.html", "page/1/index.html", "en/index.html", "en/page/index.html", "en/page/1/index.html"} {
		assert.Contains(t, get(t, out, p), "home 1/1 prev=# next=#")
	}
}

func TestLogsListPaths(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	require.NoError(t, r.LogsList(t.Context(), nil, testLogs(6)))

	for _, prefix := range []string{"", "en/"} {
		root := get(t, out, prefix+"logs/index.html")
		assert.Equal(t, root, get(t, out, prefix+"logs/page/index.html"))
		assert.Equal(t, root, get(t, out, prefix+"logs/page/1/index.html"))
	}
	assert.Contains(t, get(t, out, "logs/index.html"), "next=/logs/page/2")
	assert.Contains(t, get(t, out, "en/logs/index.html"), "next=/en/logs/page/2")
	assert.Contains(t, get(t, out, "en/logs/page/2/index.html"), "prev=/en/logs/page/1 next=#")
}

func TestPostsAttachLocaleMatchedComments(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	comments := []content.Comment{
		{Path: "/post-a", Name: "es-1", Approved: true},
		{Path: "/en/post-a", Name: "en-1", Approved: true},
		{Path: "/post-a", Name: "pending", Approved: false},
		{Path: "/post-a", Name: "es-2", Approved: true},
	}
	require.NoError(t, r.Posts(t.Context(), nil, comments, testBlogs(1)))

	es := get(t, out, "post-a/index.html")
	assert.Contains(t, es, "/post-a Titulo post-a <p><strong>hola</strong></p>")
	assert.Contains(t, es, "(es-2) (es-1)")
	assert.NotContains(t, es, "en-1")
	assert.NotContains(t, es, "pending")
	assert.Contains(t, es, "https://comments.example.com/submit")

	en := get(t, out, "en/post-a/index.html")
	assert.Contains(t, en, "/en/post-a Title post-a")
	assert.Contains(t, en, "(en-1)")
	assert.NotContains(t, en, "es-1")
}

func TestLogDetailPages(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	logs := testLogs(1)
	logs[0].Type = content.LogPhoto
	logs[0].ImageURL = "abc.jpg"
	comments := []content.Comment{{Path: "/en/logs/0x0", Name: "reader", Approved: true}}
	require.NoError(t, r.Logs(t.Context(), nil, comments, logs))

	es := get(t, out, "logs/0x0/index.html")
	assert.Contains(t, es, "/logs/0x0 nota /img/abc.jpg")
	assert.NotContains(t, es, "reader")
	assert.Contains(t, get(t, out, "en/logs/0x0/index.html"), "/en/logs/0x0 note /img/abc.jpg (reader)")
}

func TestAboutUsesFirstRecordOrZero(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	require.NoError(t, r.About(t.Context(), nil, []content.Record{{"bio": "yo"}, {"bio": "ignored"}}))
	assert.Equal(t, "about es-UY yo", get(t, out, "about/index.html"))
	assert.Equal(t, "about en-US yo", get(t, out, "en/about/index.html"))

	r2, out2, _ := newTestRenderer(t)
	require.NoError(t, r2.About(t.Context(), nil, nil))
	assert.Contains(t, get(t, out2, "about/index.html"), "about es-UY")
}

func TestRedirectsRenderedOnce(t *testing.T) {
	r, out, redirects := newTestRenderer(t)
	require.NoError(t, r.Redirects(t.Context(), []content.Record{{"from": "/old", "to": "/new"}}))
	assert.Equal(t, []string{"redirects.conf"}, redirects.Paths())
	assert.Equal(t, "rewrite ^/old$ /new permanent;\n", get(t, redirects, "redirects.conf"))
	assert.Empty(t, out.Paths())
}

func TestSearchPageAndIndex(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	blogs := testBlogs(6)
	logs := testLogs(7)
	require.NoError(t, r.Search(t.Context(), nil, blogs, logs, []content.Record{{"bio": "yo"}}))

	assert.Equal(t, "search es-UY posts=6 logs=7 about=yo", get(t, out, "search/index.html"), "search is never paginated")

	var entries []SearchEntry
	require.NoError(t, json.Unmarshal([]byte(get(t, out, "en/search/index.json")), &entries))
	require.Len(t, entries, 13)
	assert.Equal(t, SearchEntry{Kind: "post", Slug: "post-a", URL: "/en/post-a", Title: "Title post-a", Text: "hello"}, entries[0])
	assert.Equal(t, "/en/logs/0x0", entries[6].URL)
	assert.Equal(t, "Fri, 01 Mar 2024 09:00:00 -0300", entries[6].Title)
}

func TestFeeds(t *testing.T) {
	r, out, _ := newTestRenderer(t)
	feeds := []content.Feed{
		{Slug: "rss.xml", Lang: "es-UY", Type: content.FeedBlog},
		{Slug: "logs.xml", Lang: "en-US", Type: "other"},
	}
	blogs := testBlogs(1)
	blogs[0].Title.ES = "Uno & dos"
	require.NoError(t, r.Feeds(t.Context(), feeds, blogs, testLogs(1)))

	es := get(t, out, "rss.xml")
	assert.Contains(t, es, "<language>es-uy</language>")
	assert.Contains(t, es, "<lastBuildDate>Sat, 02 Mar 2024 15:00:00 -0300</lastBuildDate>")
	assert.Contains(t, es, "<title>Uno &amp; dos</title><link>post-a</link><description>resumen</description><pubDate>Fri, 01 Mar 2024 14:30:00 -0300</pubDate>")

	en := get(t, out, "en/logs.xml")
	assert.Contains(t, en, "<language>en-us</language>")
	assert.Contains(t, en, "<title>Fri, 01 Mar 2024 09:00:00 -0300</title><link>0x0</link><description>note</description>")
}

func TestMissingTemplateIsFatal(t *testing.T) {
	fsys := testTemplates()
	delete(fsys, "about.html")
	r := NewRenderer(NewContext(""), NewEngine(fsys), NewMemorySink())

	err := r.About(t.Context(), nil, nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
	assert.Contains(t, err.Error(), "about.html")

	require.Error(t, NewEngine(fsys).Check(RequiredTemplates...))
	require.NoError(t, NewEngine(testTemplates()).Check(RequiredTemplates...))
}

func TestAllRendersEveryView(t *testing.T) {
	r, out, redirects := newTestRenderer(t)
	in := Input{
		Socials:   []content.Record{{"name": "mastodon"}},
		About:     []content.Record{{"bio": "yo"}},
		Redirects: []content.Record{{"from": "/a", "to": "/b"}},
		Feeds:     []content.Feed{{Slug: "rss.xml", Lang: "es-UY", Type: content.FeedBlog}},
		Blogs:     testBlogs(2),
		Logs:      testLogs(2),
	}
	require.NoError(t, r.All(t.Context(), in))

	assert.Contains(t, get(t, out, "index.html"), `<nav lang="es-UY"><a href="/en/">alt</a>mastodon;</nav>`)
	assert.Contains(t, get(t, out, "en/index.html"), `<nav lang="en-US"><a href="/">alt</a>mastodon;</nav>`)
	for _, p := range []string{"post-a/index.html", "en/post-b/index.html", "about/index.html", "logs/index.html", "en/logs/0x1/index.html", "search/index.html", "search/index.json", "rss.xml"} {
		_, ok := out.Get(p)
		assert.True(t, ok, p)
	}
	assert.Len(t, redirects.Paths(), 1)

	arts := r.Artifacts()
	assert.Equal(t, 4, arts[ViewPost])
	assert.Equal(t, 1, arts[ViewRedirects])
	assert.Equal(t, 4, arts[ViewSearch])
}
