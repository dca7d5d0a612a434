package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("missing DATA_ENDPOINT").Build(), 7},
		{"fetch", FetchError("HTTP 500").Build(), 8},
		{"template", TemplateError("missing index.html").Build(), 11},
		{"filesystem", FileSystemError("write failed").Build(), 11},
		{"runtime", RuntimeError("server").Build(), 12},
		{"unclassified", errors.New("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	cfgErr := ConfigError("DATA_ENDPOINT is required").Build()
	assert.Equal(t, "Error: DATA_ENDPOINT is required", quiet.FormatError(cfgErr))

	fsErr := FileSystemError("write failed").WithCause(errors.New("disk full")).Build()
	assert.Equal(t, "Error: write failed (use -v for details)", quiet.FormatError(fsErr))
	assert.Contains(t, verbose.FormatError(fsErr), "disk full")

	assert.Equal(t, "Error: boom", quiet.FormatError(errors.New("boom")))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	var logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(FetchError("data endpoint returned 401").WithContext("service", "Blogs").Build())

	assert.Equal(t, 8, code)
	assert.Contains(t, out.String(), "data endpoint returned 401")
	assert.Contains(t, logs.String(), "service=Blogs")
}
