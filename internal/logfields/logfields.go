package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyService    = "service"
	KeyLocale     = "locale"
	KeyView       = "view"
	KeyPath       = "path"
	KeyFile       = "file"
	KeySlug       = "slug"
	KeyPage       = "page"
	KeyFeed       = "feed"
	KeyURL        = "url"
	KeyCount      = "count"
	KeyStatus     = "status"
	KeyMethod     = "method"
	KeyRemoteAddr = "remote_addr"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func Service(s string) slog.Attr        { return slog.String(KeyService, s) }
func Locale(l string) slog.Attr         { return slog.String(KeyLocale, l) }
func View(v string) slog.Attr           { return slog.String(KeyView, v) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func Slug(s string) slog.Attr           { return slog.String(KeySlug, s) }
func Page(n int) slog.Attr              { return slog.Int(KeyPage, n) }
func Feed(slug string) slog.Attr        { return slog.String(KeyFeed, slug) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func Status(code int) slog.Attr         { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr         { return slog.String(KeyMethod, m) }
func RemoteAddr(addr string) slog.Attr  { return slog.String(KeyRemoteAddr, addr) }
func Duration(d time.Duration) slog.Attr { return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
