package site

import (
	"context"
	"encoding/json"
	"maps"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/bitacora/internal/content"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/locale"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/observability"
	"git.home.luguber.info/inful/bitacora/internal/paginate"
	"git.home.luguber.info/inful/bitacora/internal/transform"
)

// View names used for logging and artifact counts.
const (
	ViewHome      = "home"
	ViewPost      = "post"
	ViewAbout     = "about"
	ViewLogsList  = "logs"
	ViewLog       = "log"
	ViewSearch    = "search"
	ViewFeed      = "rss"
	ViewRedirects = "redirects"
)

const logsDir = "logs"

// Renderer produces every view of the site into a Sink.
type Renderer struct {
	site      Context
	engine    *Engine
	out       Sink
	redirects Sink
	recorder  metrics.Recorder
	artifacts map[string]int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRedirectSink sends the redirects artifact to a sink other than the
// output tree.
func WithRedirectSink(s Sink) Option {
	return func(r *Renderer) {
		if s != nil {
			r.redirects = s
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Renderer) { r.recorder = metrics.OrNoop(rec) }
}

// NewRenderer returns a Renderer writing to out.
func NewRenderer(site Context, engine *Engine, out Sink, opts ...Option) *Renderer {
	r := &Renderer{
		site:      site,
		engine:    engine,
		out:       out,
		redirects: out,
		recorder:  metrics.NoopRecorder{},
		artifacts: map[string]int{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Artifacts reports how many files each view wrote.
func (r *Renderer) Artifacts() map[string]int {
	return maps.Clone(r.artifacts)
}

// All renders every view in a fixed order. Comments and blogs are expected
// to be filtered already.
func (r *Renderer) All(ctx context.Context, in Input) error {
	steps := []struct {
		view string
		run  func() error
	}{
		{ViewHome, func() error { return r.Home(ctx, in.Socials, in.Blogs) }},
		{ViewPost, func() error { return r.Posts(ctx, in.Socials, in.Comments, in.Blogs) }},
		{ViewAbout, func() error { return r.About(ctx, in.Socials, in.About) }},
		{ViewLogsList, func() error { return r.LogsList(ctx, in.Socials, in.Logs) }},
		{ViewLog, func() error { return r.Logs(ctx, in.Socials, in.Comments, in.Logs) }},
		{ViewRedirects, func() error { return r.Redirects(ctx, in.Redirects) }},
		{ViewSearch, func() error { return r.Search(ctx, in.Socials, in.Blogs, in.Logs, in.About) }},
		{ViewFeed, func() error { return r.Feeds(ctx, in.Feeds, in.Blogs, in.Logs) }},
	}
	for _, step := range steps {
		start := time.Now()
		if err := step.run(); err != nil {
			return err
		}
		observability.DebugContext(ctx, "Rendered view",
			logfields.View(step.view),
			logfields.Count(r.artifacts[step.view]),
			logfields.Duration(time.Since(start)))
	}
	return nil
}

func (r *Renderer) base(l locale.Locale) PageData {
	return PageData{
		Lang:             l,
		LangTag:          l.Tag().String(),
		Prefix:           l.Prefix(),
		MediaBase:        "/" + r.site.MediaDir(),
		BuildID:          r.site.BuildID(),
		CommentsEndpoint: r.site.CommentsEndpoint(),
	}
}

// emit renders name once and writes the result to every path.
func (r *Renderer) emit(view, name string, data any, sink Sink, paths ...string) error {
	out, err := r.engine.Render(name, data)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := sink.Write(p, out); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write artifact").
				WithContext("view", view).WithContext("path", p).Build()
		}
	}
	r.artifacts[view] += len(paths)
	r.recorder.AddArtifacts(view, len(paths))
	return nil
}

func indexAt(dir string) string { return path.Join(dir, "index.html") }

// listing renders a paginated view per locale. dir is the listing's output
// directory below the locale root ("" for home, "logs" for logs).
func listing[T any](r *Renderer, view, name, dir string, socials []content.Record, items []T, assign func(*PageData, []T)) error {
	for _, l := range r.site.Locales() {
		linkBase := l.Prefix()
		if dir != "" {
			linkBase += "/" + dir
		}
		outDir := path.Join(l.Dir(), dir)
		for page := range paginate.Paginate(items, r.site.PageSize(), linkBase) {
			data := r.base(l)
			data.CurrentPage = view
			data.Socials = socials
			data.Page = Pagination{Number: page.Number, Total: page.Total, Prev: page.Prev, Next: page.Next}
			assign(&data, page.Items)

			dirs := paginate.Dirs(outDir, page.Number)
			paths := make([]string, len(dirs))
			for i, d := range dirs {
				paths[i] = indexAt(d)
			}
			if err := r.emit(view, name, data, r.out, paths...); err != nil {
				return err
			}
		}
	}
	return nil
}

// Home renders the paginated post listing.
func (r *Renderer) Home(_ context.Context, socials []content.Record, blogs []content.Blog) error {
	return listing(r, ViewHome, TemplateHome, "", socials, blogs, func(d *PageData, page []content.Blog) {
		d.Blogs = page
	})
}

// LogsList renders the paginated log listing.
func (r *Renderer) LogsList(_ context.Context, socials []content.Record, logs []content.Log) error {
	return listing(r, ViewLogsList, TemplateLogs, logsDir, socials, logs, func(d *PageData, page []content.Log) {
		d.Logs = page
	})
}

// Posts renders one detail page per post and locale with the comments
// addressed to that exact route.
func (r *Renderer) Posts(_ context.Context, socials []content.Record, comments []content.Comment, blogs []content.Blog) error {
	for i := range blogs {
		post := &blogs[i]
		for _, l := range r.site.Locales() {
			data := r.base(l)
			data.Path = l.Prefix() + "/"
			data.CurrentPage = post.Slug
			data.Socials = socials
			data.Post = post
			data.Comments = transform.CommentsFor(comments, data.Path+post.Slug)
			if err := r.emit(ViewPost, TemplatePost, data, r.out, indexAt(path.Join(l.Dir(), post.Slug))); err != nil {
				return err
			}
		}
	}
	return nil
}

// Logs renders one detail page per log entry and locale.
func (r *Renderer) Logs(_ context.Context, socials []content.Record, comments []content.Comment, logs []content.Log) error {
	for i := range logs {
		entry := &logs[i]
		for _, l := range r.site.Locales() {
			data := r.base(l)
			data.Path = l.Prefix() + "/" + logsDir + "/"
			data.CurrentPage = entry.Slug
			data.Socials = socials
			data.Log = entry
			data.Comments = transform.CommentsFor(comments, data.Path+entry.Slug)
			if err := r.emit(ViewLog, TemplateLog, data, r.out, indexAt(path.Join(l.Dir(), logsDir, entry.Slug))); err != nil {
				return err
			}
		}
	}
	return nil
}

// About renders the about page from the first about record.
func (r *Renderer) About(_ context.Context, socials []content.Record, about []content.Record) error {
	for _, l := range r.site.Locales() {
		data := r.base(l)
		data.CurrentPage = ViewAbout
		data.Socials = socials
		data.About = content.FirstOrZero(about)
		if err := r.emit(ViewAbout, TemplateAbout, data, r.out, indexAt(path.Join(l.Dir(), "about"))); err != nil {
			return err
		}
	}
	return nil
}

// Redirects renders the redirect rules once; they are not localized.
func (r *Renderer) Redirects(_ context.Context, redirects []content.Record) error {
	return r.emit(ViewRedirects, TemplateRedirects, RedirectData{Redirects: redirects}, r.redirects, r.site.RedirectFile())
}

// Search renders the search page over every post and log, plus a JSON
// index of the same content.
func (r *Renderer) Search(_ context.Context, socials []content.Record, blogs []content.Blog, logs []content.Log, about []content.Record) error {
	for _, l := range r.site.Locales() {
		data := r.base(l)
		data.CurrentPage = ViewSearch
		data.Socials = socials
		data.Blogs = blogs
		data.Logs = logs
		data.About = content.FirstOrZero(about)
		dir := path.Join(l.Dir(), "search")
		if err := r.emit(ViewSearch, TemplateSearch, data, r.out, indexAt(dir)); err != nil {
			return err
		}

		index, err := r.searchIndex(l, blogs, logs)
		if err != nil {
			return err
		}
		if err := r.out.Write(path.Join(dir, "index.json"), index); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write search index").
				WithContext("locale", string(l)).Build()
		}
		r.artifacts[ViewSearch]++
		r.recorder.AddArtifacts(ViewSearch, 1)
	}
	return nil
}

func (r *Renderer) searchIndex(l locale.Locale, blogs []content.Blog, logs []content.Log) ([]byte, error) {
	entries := make([]SearchEntry, 0, len(blogs)+len(logs))
	for _, b := range blogs {
		body, err := r.engine.renderMarkdown(b.Content.In(l))
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRender, "index post").WithContext("slug", b.Slug).Build()
		}
		entries = append(entries, SearchEntry{
			Kind:  "post",
			Slug:  b.Slug,
			URL:   l.Prefix() + "/" + b.Slug,
			Title: b.Title.In(l),
			Text:  PlainText(body),
		})
	}
	for _, lg := range logs {
		body, err := r.engine.renderMarkdown(lg.Content.In(l))
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryRender, "index log").WithContext("slug", lg.Slug).Build()
		}
		entries = append(entries, SearchEntry{
			Kind:  "log",
			Slug:  lg.Slug,
			URL:   l.Prefix() + "/" + logsDir + "/" + lg.Slug,
			Title: rfc822(lg.Date, lg.Time),
			Text:  PlainText(body),
		})
	}
	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "encode search index").Build()
	}
	return out, nil
}

// Feeds renders every feed descriptor. Feeds whose lang is exactly es-UY
// land at the output root; all others under the English directory.
func (r *Renderer) Feeds(ctx context.Context, feeds []content.Feed, blogs []content.Blog, logs []content.Log) error {
	buildDate := content.FormatRSS(r.site.Now())
	for _, feed := range feeds {
		l := feed.Locale()
		var (
			items []FeedItem
			err   error
		)
		if feed.Kind() == content.FeedBlog {
			items, err = BlogFeedItems(blogs, l)
		} else {
			items, err = LogFeedItems(logs, l)
		}
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRender, "build feed items").
				WithContext("feed", feed.Slug).Build()
		}
		data := FeedData{
			BuildDate: buildDate,
			Feed:      feed,
			Lang:      l,
			Language:  strings.ToLower(l.Tag().String()),
			Items:     items,
		}
		if err := r.emit(ViewFeed, TemplateRSS, data, r.out, path.Join(l.Dir(), feed.Slug)); err != nil {
			return err
		}
		observability.DebugContext(ctx, "Rendered feed", logfields.Feed(feed.Slug), logfields.Locale(string(l)), logfields.Count(len(items)))
	}
	return nil
}

// BlogFeedItems maps posts to feed items with locale-selected title and brief.
func BlogFeedItems(blogs []content.Blog, l locale.Locale) ([]FeedItem, error) {
	items := make([]FeedItem, 0, len(blogs))
	for _, b := range blogs {
		ts, err := b.PublishedAt()
		if err != nil {
			return nil, err
		}
		items = append(items, FeedItem{
			Title:       b.Title.In(l),
			Link:        b.Slug,
			Description: b.Brief.In(l),
			Date:        content.FormatRSS(ts),
		})
	}
	return items, nil
}

// LogFeedItems maps logs to feed items. Logs have no title; the formatted
// date stands in for it.
func LogFeedItems(logs []content.Log, l locale.Locale) ([]FeedItem, error) {
	items := make([]FeedItem, 0, len(logs))
	for _, lg := range logs {
		ts, err := lg.PublishedAt()
		if err != nil {
			return nil, err
		}
		date := content.FormatRSS(ts)
		items = append(items, FeedItem{
			Title:       date,
			Link:        lg.Slug,
			Description: lg.Content.In(l),
			Date:        date,
		})
	}
	return items, nil
}
