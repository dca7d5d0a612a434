package site

import (
	"bytes"
	"encoding/xml"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/bitacora/internal/content"
	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/locale"
)

// Template names looked up in the template directory.
const (
	TemplateHome      = "index.html"
	TemplatePost      = "post.html"
	TemplateAbout     = "about.html"
	TemplateLogs      = "logs.html"
	TemplateLog       = "log.html"
	TemplateSearch    = "search.html"
	TemplateRSS       = "rss.xml"
	TemplateRedirects = "redirects.nginx"
)

// RequiredTemplates lists every template a full build executes.
var RequiredTemplates = []string{
	TemplateHome, TemplatePost, TemplateAbout, TemplateLogs,
	TemplateLog, TemplateSearch, TemplateRSS, TemplateRedirects,
}

// partialsGlob matches shared HTML fragments parsed into every page.
const partialsGlob = "partials/*.html"

// Engine renders named templates from a filesystem. Files ending in .html
// use html/template; anything else (feeds, server config) uses text/template.
type Engine struct {
	fsys     fs.FS
	markdown goldmark.Markdown

	mu    sync.Mutex
	pages map[string]executor
}

type executor interface {
	Execute(w io.Writer, data any) error
}

// NewEngine returns an Engine reading templates from fsys.
func NewEngine(fsys fs.FS) *Engine {
	return &Engine{
		fsys: fsys,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
		pages: map[string]executor{},
	}
}

// Check loads every named template so a missing or broken one fails before
// any output is written.
func (e *Engine) Check(names ...string) error {
	for _, name := range names {
		if _, err := e.lookup(name); err != nil {
			return err
		}
	}
	return nil
}

// Render executes the named template with data.
func (e *Engine) Render(name string, data any) ([]byte, error) {
	tpl, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "execute template").
			WithContext("template", name).Fatal().Build()
	}
	return buf.Bytes(), nil
}

func (e *Engine) lookup(name string) (executor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tpl, ok := e.pages[name]; ok {
		return tpl, nil
	}
	if _, err := fs.Stat(e.fsys, name); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "template not found: "+name).
			WithContext("template", name).Fatal().WithRetry(ferrors.RetryUserAction).Build()
	}
	var (
		tpl executor
		err error
	)
	if path.Ext(name) == ".html" {
		tpl, err = e.parseHTML(name)
	} else {
		tpl, err = e.parseText(name)
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryTemplate, "parse template").
			WithContext("template", name).Fatal().WithRetry(ferrors.RetryUserAction).Build()
	}
	e.pages[name] = tpl
	return tpl, nil
}

func (e *Engine) parseHTML(name string) (executor, error) {
	t := htmltemplate.New(path.Base(name)).Funcs(e.htmlFuncs()).Option("missingkey=zero")
	partials, err := fs.Glob(e.fsys, partialsGlob)
	if err != nil {
		return nil, err
	}
	if len(partials) > 0 {
		if t, err = t.ParseFS(e.fsys, partials...); err != nil {
			return nil, err
		}
	}
	// The page is parsed last so its block definitions win over the partials'.
	if t, err = t.ParseFS(e.fsys, name); err != nil {
		return nil, err
	}
	return t, nil
}

func (e *Engine) parseText(name string) (executor, error) {
	t, err := texttemplate.New(path.Base(name)).Funcs(e.textFuncs()).Option("missingkey=zero").ParseFS(e.fsys, name)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (e *Engine) renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := e.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

func (e *Engine) commonFuncs() map[string]any {
	return map[string]any{
		"t":         func(txt locale.Text, l locale.Locale) string { return txt.In(l) },
		"xml":       xmlEscape,
		"rfc822":    rfc822,
		"plain":     PlainText,
		"truncate":  truncate,
		"hasPrefix": strings.HasPrefix,
	}
}

func (e *Engine) htmlFuncs() htmltemplate.FuncMap {
	funcs := htmltemplate.FuncMap(e.commonFuncs())
	funcs["markdown"] = func(src string) (htmltemplate.HTML, error) {
		out, err := e.renderMarkdown(src)
		// #nosec G203 -- content comes from the site owner's own endpoint
		return htmltemplate.HTML(out), err
	}
	// #nosec G203 -- content comes from the site owner's own endpoint
	funcs["safeHTML"] = func(s string) htmltemplate.HTML { return htmltemplate.HTML(s) }
	return funcs
}

func (e *Engine) textFuncs() texttemplate.FuncMap {
	funcs := texttemplate.FuncMap(e.commonFuncs())
	funcs["markdown"] = e.renderMarkdown
	return funcs
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// rfc822 formats a content date and time for feeds; unparsable input is
// returned unchanged.
func rfc822(date, clock string) string {
	t, err := content.ParseDateTime(date, clock)
	if err != nil {
		return strings.TrimSpace(date + " " + clock)
	}
	return content.FormatRSS(t)
}

func truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
