package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithBuildID(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")
	assert.Equal(t, "build-123", GetContext(ctx).BuildID)
}

func TestWithStagePreservesBuildID(t *testing.T) {
	ctx := WithBuildID(context.Background(), "build-123")
	ctx = WithStage(ctx, "fetch_content")

	lc := GetContext(ctx)
	assert.Equal(t, "build-123", lc.BuildID)
	assert.Equal(t, "fetch_content", lc.Stage)
}

func TestEmptyContext(t *testing.T) {
	assert.Equal(t, LogContext{}, GetContext(context.Background()))
}

func TestLogHelpersIncludeContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithStage(WithBuildID(context.Background(), "b-1"), "render_home")
	InfoContext(ctx, "rendered", slog.Int("pages", 3))
	WarnContext(ctx, "degraded")
	DebugContext(ctx, "detail")
	ErrorContext(ctx, "failed")

	out := buf.String()
	assert.Contains(t, out, "build_id=b-1")
	assert.Contains(t, out, "stage=render_home")
	assert.Contains(t, out, "pages=3")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "level=ERROR")
}
