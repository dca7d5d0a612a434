package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

const (
	levelDebug level = "debug"
	levelInfo  level = "info"
)

func newLevels() *Normalizer[level] {
	return NewNormalizer(map[string]level{"debug": levelDebug, "INFO": levelInfo}, levelInfo)
}

func TestNormalize(t *testing.T) {
	n := newLevels()
	assert.Equal(t, levelDebug, n.Normalize("  DeBuG "))
	assert.Equal(t, levelInfo, n.Normalize("info"))
	assert.Equal(t, levelInfo, n.Normalize("verbose"), "unknown falls back to default")
}

func TestParse(t *testing.T) {
	n := newLevels()
	got, err := n.Parse("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, levelDebug, got)

	got, err = n.Parse("")
	require.NoError(t, err)
	assert.Equal(t, levelInfo, got)

	_, err = n.Parse("trace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[debug info]")
}

func TestValidKeysIsCopy(t *testing.T) {
	n := newLevels()
	keys := n.ValidKeys()
	keys[0] = "x"
	assert.Equal(t, []string{"debug", "info"}, n.ValidKeys())
}
