package treedex

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/treedex.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultRankingParams(), cfg.RankingParams())
}

func TestLoadConfig_ParsesYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/treedex.yaml"
	contents := "ranking:\n  k1: 2.0\n  b: 0.5\ncollections:\n  docs: 2.0\nsummary_len: 240\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	params := cfg.RankingParams()
	assert.Equal(t, 2.0, params.K1)
	assert.Equal(t, 0.5, params.B)
	assert.Equal(t, 3.0, params.TitleWeight) // untouched field keeps its default
	assert.Equal(t, 2.0, cfg.Collections["docs"])
	assert.Equal(t, 240, cfg.SummaryLen)
}

func TestLoadConfig_EnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/treedex.yaml"
	require.NoError(t, os.WriteFile(path, []byte("ranking:\n  k1: 2.0\n"), 0o644))

	t.Setenv("TREEDEX_RANKING_K1", "9.0")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9.0, cfg.RankingParams().K1)
}
