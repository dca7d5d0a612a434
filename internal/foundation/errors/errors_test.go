package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("builder sets fields", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.json").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		assert.Equal(t, "config.json", file)
		assert.Equal(t, "[config:fatal] invalid configuration", err.Error())
	})

	t.Run("wrapped cause is reachable", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := WrapError(cause, CategoryFetch, "fetch Blogs").Fatal().Build()
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("classification survives fmt wrapping", func(t *testing.T) {
		inner := FetchError("data endpoint returned 500").Build()
		wrapped := fmt.Errorf("fetch content: %w", inner)

		assert.True(t, IsClassified(wrapped))
		assert.True(t, HasCategory(wrapped, CategoryFetch))
		assert.Equal(t, SeverityFatal, GetSeverity(wrapped))
	})

	t.Run("unclassified defaults", func(t *testing.T) {
		err := errors.New("plain")
		assert.Equal(t, CategoryInternal, GetCategory(err))
		assert.Equal(t, SeverityError, GetSeverity(err))
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := MediaError("download failed").Build()
		derived := base.WithContext("url", "https://example.com/a.jpg")
		_, ok := base.Context().Get("url")
		assert.False(t, ok)
		u, _ := derived.Context().GetString("url")
		assert.Equal(t, "https://example.com/a.jpg", u)
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClassifiedError
		category ErrorCategory
		fatal    bool
		retry    bool
	}{
		{"config", ConfigError("x").Build(), CategoryConfig, true, false},
		{"validation", ValidationError("x").Build(), CategoryValidation, true, false},
		{"fetch", FetchError("x").Build(), CategoryFetch, true, true},
		{"media", MediaError("x").Build(), CategoryMedia, false, true},
		{"template", TemplateError("x").Build(), CategoryTemplate, true, false},
		{"notify", NotifyError("x").Build(), CategoryNotify, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.fatal, tt.err.IsFatal())
			assert.Equal(t, tt.retry, tt.err.CanRetry())
		})
	}
}

func TestLogAttrsSortedContext(t *testing.T) {
	err := RenderError("write failed").
		WithContext("path", "en/index.html").
		WithContext("locale", "en-US").
		Build()

	attrs := err.LogAttrs()
	require.Len(t, attrs, 4)
	assert.Equal(t, "category", attrs[0].Key)
	assert.Equal(t, "severity", attrs[1].Key)
	assert.Equal(t, "locale", attrs[2].Key)
	assert.Equal(t, "path", attrs[3].Key)
}
