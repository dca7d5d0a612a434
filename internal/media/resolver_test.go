package media

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bitacora/internal/metrics"
)

type mediaCounter struct {
	metrics.NoopRecorder
	results map[metrics.MediaResult]int
}

func (m *mediaCounter) IncMediaResult(r metrics.MediaResult) { m.results[r]++ }

func TestDirectURL(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/uc?id=AbC_1-2",
		DirectURL("https://drive.google.com/file/d/AbC_1-2/view?usp=sharing"))
	assert.Equal(t, "https://example.com/a.jpg", DirectURL("https://example.com/a.jpg"))
	assert.Equal(t, "https://drive.google.com/file/d/abc/edit", DirectURL("https://drive.google.com/file/d/abc/edit"))
}

func TestDeriveFilename(t *testing.T) {
	name, err := DeriveFilename("https://drive.google.com/uc?id=AbC_1-2")
	require.NoError(t, err)
	assert.Equal(t, "AbC_1-2.jpg", name)

	name, err = DeriveFilename("https://img.example.com/get?id=42&size=large")
	require.NoError(t, err)
	assert.Equal(t, "42&size=large.jpg", name, "trailing parameters are part of the name")

	_, err = DeriveFilename("https://example.com/a.jpg")
	require.Error(t, err)

	_, err = DeriveFilename("https://example.com/get?id=")
	require.Error(t, err)
}

func TestResolveDownloadsAndStreams(t *testing.T) {
	payload := strings.Repeat("x", 256*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	rec := &mediaCounter{results: map[metrics.MediaResult]int{}}
	r := NewResolver(dir, WithRecorder(rec))

	name, ok := r.Resolve(t.Context(), server.URL+"/uc?id=abc", "")
	require.True(t, ok)
	assert.Equal(t, "abc.jpg", name)

	data, err := os.ReadFile(filepath.Join(dir, "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
	assert.Equal(t, 1, rec.results[metrics.MediaDownloaded])
}

func TestResolveCachedFileMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("new"))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("old"), 0o600))

	rec := &mediaCounter{results: map[metrics.MediaResult]int{}}
	r := NewResolver(dir, WithRecorder(rec))
	for range 3 {
		name, ok := r.Resolve(t.Context(), server.URL+"/logo.png", "logo.png")
		require.True(t, ok)
		assert.Equal(t, "logo.png", name)
	}

	assert.Equal(t, int32(0), hits.Load())
	data, err := os.ReadFile(filepath.Join(dir, "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data), "cached files are never refreshed")
	assert.Equal(t, 3, rec.results[metrics.MediaCached])
}

func TestResolveNon200ReturnsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	rec := &mediaCounter{results: map[metrics.MediaResult]int{}}
	name, ok := NewResolver(dir, WithRecorder(rec)).Resolve(t.Context(), server.URL+"/x?id=gone", "")
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.NoFileExists(t, filepath.Join(dir, "gone.jpg"))
	assert.Equal(t, 1, rec.results[metrics.MediaFailed])
}

func TestResolveNetworkFailureReturnsNoResult(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	name, ok := NewResolver(t.TempDir()).Resolve(t.Context(), url+"/uc?id=abc", "")
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestResolveWithoutIDFailsGracefully(t *testing.T) {
	name, ok := NewResolver(t.TempDir()).Resolve(t.Context(), "https://example.com/a.jpg", "")
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestResolveRejectsTraversal(t *testing.T) {
	name, ok := NewResolver(t.TempDir()).Resolve(t.Context(), "https://example.com/a.jpg", "../escape.jpg")
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestResolveMalformedURLFailsOneItem(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"not a url", "not a url"},
		{"bad escape", "https://example.com/%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			rec := &mediaCounter{results: map[metrics.MediaResult]int{}}
			name, ok := NewResolver(dir, WithRecorder(rec)).Resolve(t.Context(), tt.url, "a.jpg")
			assert.False(t, ok)
			assert.Empty(t, name)
			assert.NoFileExists(t, filepath.Join(dir, "a.jpg"))
			assert.Equal(t, 1, rec.results[metrics.MediaFailed])
		})
	}
}
