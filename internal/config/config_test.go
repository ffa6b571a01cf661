package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchforge/csbench/internal/errors"
	"github.com/searchforge/csbench/internal/params"
)

// isolate points the user-config layer at an empty directory so tests
// never pick up the developer's real config.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "capreolus", cfg.Backend.Binary)
	assert.Equal(t, "rerank", cfg.Backend.Task)
	assert.Equal(t, []string{"go", "java", "javascript", "php", "python", "ruby"}, cfg.Sweep.Languages)
	assert.False(t, cfg.Sweep.Train)
	assert.True(t, cfg.Sweep.Eval)
	assert.Equal(t, "BM25RM3", cfg.Searcher.Searcher)
	assert.True(t, cfg.History.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "capreolus", cfg.Backend.Binary)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	projectYAML := `
backend:
  binary: /opt/ir/capreolus
sweep:
  languages: [ruby, go]
  train: true
  eval: true
searcher:
  searcher: BM25RM3
  k1: 1.2
  b: 0.75
  fb_terms: 20
  fb_docs: 5
  original_query_weight: 0.5
  hits: 500
  benchmark: codesearchnet_corpus
  fold: s1
  optimize: mrr
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte(projectYAML), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/opt/ir/capreolus", cfg.Backend.Binary)
	assert.Equal(t, []string{"ruby", "go"}, cfg.Sweep.Languages)
	assert.True(t, cfg.Sweep.Train)
	assert.Equal(t, 1.2, cfg.Searcher.K1)
	assert.Equal(t, 20, cfg.Searcher.FBTerms)
	assert.Equal(t, "mrr", cfg.Searcher.Optimize)
}

func TestLoad_UserThenProjectPrecedence(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	userDir := filepath.Join(xdg, "csbench")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.yaml"),
		[]byte("backend:\n  binary: user-backend\nsweep:\n  languages: [php]\n"), 0o644))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName),
		[]byte("sweep:\n  languages: [java]\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	// User layer set the binary; project layer won the axis
	assert.Equal(t, "user-backend", cfg.Backend.Binary)
	assert.Equal(t, []string{"java"}, cfg.Sweep.Languages)
}

func TestLoad_EnvOverridesWinOverFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName),
		[]byte("backend:\n  binary: project-backend\n"), 0o644))

	t.Setenv("CSBENCH_BACKEND", "env-backend")
	t.Setenv("CSBENCH_K1", "0.9")
	t.Setenv("CSBENCH_LANGUAGES", "go, python")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "env-backend", cfg.Backend.Binary)
	assert.Equal(t, 0.9, cfg.Searcher.K1)
	assert.Equal(t, []string{"go", "python"}, cfg.Sweep.Languages)
}

func TestLoad_RejectsUnknownLanguage(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName),
		[]byte("sweep:\n  languages: [go, rust]\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownLanguage, errors.GetCode(err))
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName),
		[]byte(":\n  - not yaml"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestValidate_RejectsBadHyperparameters(t *testing.T) {
	cfg := NewConfig()
	cfg.Searcher.Hits = -5

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBadHyperparam, errors.GetCode(err))
}

func TestAxis_ParsesConfiguredLanguages(t *testing.T) {
	cfg := NewConfig()
	cfg.Sweep.Languages = []string{"java", "go"}

	axis, err := cfg.Axis()
	require.NoError(t, err)
	assert.Equal(t, []params.Language{params.LangJava, params.LangGo}, axis)
}

func TestWriteYAML_RoundTrips(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigName)

	cfg := NewConfig()
	cfg.Sweep.Languages = []string{"ruby"}
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"ruby"}, loaded.Sweep.Languages)
}
