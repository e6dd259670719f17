package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.RequireVisibleOpener)
	assert.False(t, cfg.CheckSuffixDirectives)
	assert.Equal(t, "cpp", cfg.Language("hpp"))
	assert.Equal(t, "go", cfg.Language("go"))
	assert.Equal(t, "generic", cfg.Language("scala"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().TokenBudget, cfg.TokenBudget)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fimcorpus.yaml")
	yaml := `
max_context_chars: 1500
token_budget: 256
require_visible_opener: false
languages:
  rs: rust
output:
  corpus_path: out.jsonl
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.MaxContextChars)
	assert.Equal(t, 256, cfg.TokenBudget)
	assert.False(t, cfg.RequireVisibleOpener)
	assert.Equal(t, "rust", cfg.Language("rs"))
	assert.Equal(t, "out.jsonl", cfg.Output.CorpusPath)
	// Untouched knobs keep their defaults.
	assert.Equal(t, Default().MinMiddleLen, cfg.MinMiddleLen)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fimcorpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker_count: 2\n"), 0o644))

	t.Setenv("FIMCORPUS_WORKERS", "8")
	t.Setenv("FIMCORPUS_TOKEN_BUDGET", "123")
	t.Setenv("FIMCORPUS_MAX_CONTEXT_CHARS", "900")
	t.Setenv("FIMCORPUS_SPLIT_DENSITY", "5")
	t.Setenv("FIMCORPUS_DEDUP_FINGERPRINT_CAP", "7")
	t.Setenv("FIMCORPUS_REQUIRE_VISIBLE_OPENER", "false")
	t.Setenv("FIMCORPUS_CHECK_SUFFIX_DIRECTIVES", "true")
	t.Setenv("FIMCORPUS_CORPUS_PATH", "env.jsonl")
	t.Setenv("FIMCORPUS_INDEX_PATH", "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, 123, cfg.TokenBudget)
	assert.Equal(t, 900, cfg.MaxContextChars)
	assert.Equal(t, 5, cfg.SplitDensity)
	assert.Equal(t, 7, cfg.DedupFingerprintCap)
	assert.False(t, cfg.RequireVisibleOpener)
	assert.True(t, cfg.CheckSuffixDirectives)
	assert.Equal(t, "env.jsonl", cfg.Output.CorpusPath)
	assert.Equal(t, "env.db", cfg.Output.IndexPath)
}

func TestLoad_UnparsableEnvValueIsIgnored(t *testing.T) {
	t.Setenv("FIMCORPUS_WORKERS", "many")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().WorkerCount, cfg.WorkerCount)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fimcorpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker_count: [not an int\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_FatalKnobs(t *testing.T) {
	mutations := []struct {
		name string
		mut  func(*Config)
	}{
		{"zero workers", func(c *Config) { c.WorkerCount = 0 }},
		{"zero context", func(c *Config) { c.MaxContextChars = 0 }},
		{"zero min middle", func(c *Config) { c.MinMiddleLen = 0 }},
		{"max middle below min", func(c *Config) { c.MaxMiddleLen = c.MinMiddleLen - 1 }},
		{"zero dedup cap", func(c *Config) { c.DedupFingerprintCap = 0 }},
		{"zero density", func(c *Config) { c.SplitDensity = 0 }},
		{"zero token budget", func(c *Config) { c.TokenBudget = 0 }},
		{"empty corpus path", func(c *Config) { c.Output.CorpusPath = "" }},
	}
	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mut(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
