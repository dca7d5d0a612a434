package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/bitacora/internal/foundation/errors"
)

const minimalJSON = `{
	"TEMPLATE_DIR": "templates",
	"OUTPUT_DIR": "dist",
	"DATA_ENDPOINT": "https://data.example.com/exec",
	"DATA_AUTH_TOKEN": "${TEST_BITACORA_TOKEN}",
	"COMMENTS_ENDPOINT": "https://comments.example.com/exec",
	"OUTPUT_REDIRECT_FILE": "dist/redirects.nginx"
}`

func TestParseJSONAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_BITACORA_TOKEN", "s3cret")

	cfg, err := Parse([]byte(minimalJSON))
	require.NoError(t, err)
	assert.Equal(t, "templates", cfg.TemplateDir)
	assert.Equal(t, "s3cret", cfg.DataAuthToken)
	assert.Equal(t, "img", cfg.MediaDir)
	assert.Equal(t, filepath.Join("dist", "img"), cfg.MediaPath())
	assert.Equal(t, 5, cfg.ItemsPerPage)
	assert.Equal(t, []string{"js", "img", "css"}, cfg.StaticDirs)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	assert.True(t, cfg.Serve.WatchTemplates())
	assert.Nil(t, cfg.Notify)
}

func TestParseYAML(t *testing.T) {
	raw := `
TEMPLATE_DIR: templates
OUTPUT_DIR: dist
DATA_ENDPOINT: https://data.example.com/exec
DATA_AUTH_TOKEN: tok
OUTPUT_REDIRECT_FILE: redirects.nginx
ITEMS_PER_PAGE: 10
NOTIFY:
  NATS_URL: nats://localhost:4222
SERVE:
  REBUILD_EVERY: 15m
  WATCH: false
LOGGING:
  LEVEL: DEBUG
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	require.NotNil(t, cfg.Notify)
	assert.Equal(t, "bitacora.builds", cfg.Notify.Subject)
	assert.False(t, cfg.Serve.WatchTemplates())
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)

	every, err := cfg.Serve.RebuildInterval()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, every)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`{"TEMPLATE_DIRS": "x"}`))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestValidationNamesConfigKeys(t *testing.T) {
	_, err := Parse([]byte(`{"TEMPLATE_DIR": "t", "OUTPUT_DIR": "o", "DATA_ENDPOINT": "not a url", "OUTPUT_REDIRECT_FILE": "r"}`))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Contains(t, err.Error(), "DATA_ENDPOINT")
	assert.Contains(t, err.Error(), "DATA_AUTH_TOKEN")
}

func TestValidationRejectsEscapingMediaDir(t *testing.T) {
	cfg := Example()
	cfg.DataAuthToken = "tok"
	cfg.MediaDir = "../img"
	err := Validate(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEDIA_DIR")
}

func TestValidationRejectsBadRebuildInterval(t *testing.T) {
	cfg := Example()
	cfg.DataAuthToken = "tok"
	cfg.Serve.RebuildEvery = "soon"
	require.Error(t, Validate(&cfg))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestInitWritesLoadableExample(t *testing.T) {
	t.Setenv("BITACORA_DATA_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false), "existing file is kept")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DataAuthToken)
	assert.Equal(t, "templates", cfg.TemplateDir)
}

func TestLoadEnvFilesDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TEST_BITACORA_A=file\nTEST_BITACORA_B=file\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("TEST_BITACORA_A", "process")
	t.Setenv("TEST_BITACORA_B", "")
	require.NoError(t, os.Unsetenv("TEST_BITACORA_B"))

	loadEnvFiles()
	assert.Equal(t, "process", os.Getenv("TEST_BITACORA_A"))
	assert.Equal(t, "file", os.Getenv("TEST_BITACORA_B"))
}

func TestNormalizeLogging(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
