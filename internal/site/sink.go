package site

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Sink receives rendered artifacts. Paths are slash-separated and relative
// to the sink's root.
type Sink interface {
	Write(path string, content []byte) error
}

// cleanRelative rejects absolute paths and paths escaping the root.
func cleanRelative(p string) (string, error) {
	if p == "" {
		return "", errors.New("output path is required")
	}
	clean := path.Clean(p)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("output path %q escapes the output root", p)
	}
	return clean, nil
}

// FileSink writes artifacts below Root, replacing existing files.
type FileSink struct {
	Root string
}

func (s FileSink) Write(p string, content []byte) error {
	if s.Root == "" {
		return errors.New("output root is required")
	}
	rel, err := cleanRelative(p)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	// Published files must be readable by the web server.
	// #nosec G306 -- site artifacts are public
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// MemorySink keeps artifacts in memory.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: map[string][]byte{}}
}

func (s *MemorySink) Write(p string, content []byte) error {
	rel, err := cleanRelative(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[rel] = slices.Clone(content)
	return nil
}

// Get returns the artifact written at p.
func (s *MemorySink) Get(p string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path.Clean(p)]
	return b, ok
}

// Paths lists written paths in lexical order.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.files))
}
