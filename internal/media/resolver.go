// Package media downloads remote images into the site's media directory.
//
// Resolution never fails a build: on any error the item is logged and the
// caller receives no filename. Files already present on disk are trusted as
// is and never re-downloaded.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
	"git.home.luguber.info/inful/bitacora/internal/logfields"
	"git.home.luguber.info/inful/bitacora/internal/metrics"
	"git.home.luguber.info/inful/bitacora/internal/observability"
)

var driveViewURL = regexp.MustCompile(`^https://drive\.google\.com/file/d/([a-zA-Z0-9_-]+)/view\?usp=.*`)

// DirectURL rewrites a Google Drive "view" link into its direct download
// form. Other URLs are returned unchanged.
func DirectURL(raw string) string {
	m := driveViewURL.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	return "https://drive.google.com/uc?id=" + m[1]
}

// DeriveFilename returns "<everything after id=>.jpg". Trailing parameters
// stay in the name so files cached by earlier builds keep matching.
func DeriveFilename(rawURL string) (string, error) {
	_, id, found := strings.Cut(rawURL, "id=")
	if !found {
		return "", fmt.Errorf("no id= in %q", rawURL)
	}
	if id == "" {
		return "", fmt.Errorf("empty id in %q", rawURL)
	}
	return id + ".jpg", nil
}

// Resolver downloads media into Dir.
type Resolver struct {
	Dir      string
	client   *http.Client
	recorder metrics.Recorder
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the download client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Resolver) { r.recorder = metrics.OrNoop(rec) }
}

// NewResolver returns a Resolver storing files under dir.
func NewResolver(dir string, opts ...Option) *Resolver {
	r := &Resolver{
		Dir:      dir,
		client:   &http.Client{Timeout: 60 * time.Second},
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve makes rawURL available as a local file and returns its filename
// relative to Dir. filename may be empty, in which case it is derived from
// the URL. ok is false when the media could not be made available.
func (r *Resolver) Resolve(ctx context.Context, rawURL, filename string) (string, bool) {
	name, result, err := r.resolve(ctx, rawURL, filename)
	r.recorder.IncMediaResult(result)
	if err != nil {
		attrs := []slog.Attr{logfields.URL(rawURL), logfields.Error(err)}
		if ce, ok := ferrors.AsClassified(err); ok {
			attrs = append(attrs, ce.LogAttrs()...)
		}
		observability.ErrorContext(ctx, "Failed to download media", attrs...)
		return "", false
	}
	return name, true
}

func (r *Resolver) resolve(ctx context.Context, rawURL, filename string) (string, metrics.MediaResult, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", metrics.MediaFailed, ferrors.MediaError("missing media url").
			WithContext("file", filename).Build()
	}
	target := DirectURL(rawURL)
	if filename == "" {
		derived, err := DeriveFilename(target)
		if err != nil {
			return "", metrics.MediaFailed, ferrors.WrapError(err, ferrors.CategoryMedia, "cannot derive filename").
				Warning().Build()
		}
		filename = derived
	}
	if filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", metrics.MediaFailed, ferrors.MediaError("filename escapes media directory").
			WithContext("file", filename).Build()
	}

	path := filepath.Join(r.Dir, filename)
	if _, err := os.Stat(path); err == nil {
		observability.DebugContext(ctx, "Media already exists", logfields.File(filename))
		return filename, metrics.MediaCached, nil
	}

	if err := r.download(ctx, target, path); err != nil {
		return "", metrics.MediaFailed, err
	}
	observability.DebugContext(ctx, "Downloaded media", logfields.File(filename), logfields.URL(target))
	return filename, metrics.MediaDownloaded, nil
}

// download streams the body into path. A partial file is removed so a later
// build does not mistake it for a cached download.
func (r *Resolver) download(ctx context.Context, target, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryMedia, "build request").Warning().Build()
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "media request failed").Warning().Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return ferrors.MediaError("unexpected status").WithContext("status", resp.StatusCode).Build()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create media directory").Warning().Build()
	}
	// #nosec G304 -- path is Dir joined with a base name checked above
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create media file").Warning().Build()
	}
	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return ferrors.WrapError(err, ferrors.CategoryMedia, "write media file").Warning().Build()
	}
	return nil
}
