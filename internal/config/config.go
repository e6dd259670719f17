package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every knob the pipeline recognizes. Budgets are in
// characters unless noted otherwise.
type Config struct {
	// Window size kept on each side of the split point.
	MaxContextChars int `yaml:"max_context_chars"`

	// Bounds on the extracted middle span.
	MinMiddleLen int `yaml:"min_middle_len"`
	MaxMiddleLen int `yaml:"max_middle_len"`

	// Maximum number of surviving examples per normalized middle
	// fingerprint, enforced corpus-wide.
	DedupFingerprintCap int `yaml:"dedup_fingerprint_cap"`

	// One split is proposed per SplitDensity code lines.
	SplitDensity int `yaml:"split_density"`

	// Whitespace-token budget over the whole example (prefix+middle+suffix).
	TokenBudget int `yaml:"token_budget"`

	WorkerCount int `yaml:"worker_count"`

	// RequireVisibleOpener rejects an #else/#elif/#endif inside the prefix
	// window whose opener was truncated away, even when the opener exists
	// earlier in the file. A model completing the window cannot see that
	// opener.
	RequireVisibleOpener bool `yaml:"require_visible_opener"`

	// CheckSuffixDirectives extends the directive scan through the middle
	// and suffix windows. Off by default: the mirror rule for the suffix
	// boundary is a policy choice, not a fixed behavior.
	CheckSuffixDirectives bool `yaml:"check_suffix_directives"`

	// Languages maps a file extension (without dot) to a language tag.
	Languages map[string]string `yaml:"languages"`

	Output struct {
		CorpusPath string `yaml:"corpus_path"`
		ReportPath string `yaml:"report_path"`
		IndexPath  string `yaml:"index_path"`
	} `yaml:"output"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	cfg := &Config{
		MaxContextChars:       2000,
		MinMiddleLen:          8,
		MaxMiddleLen:          400,
		DedupFingerprintCap:   3,
		SplitDensity:          2,
		TokenBudget:           500,
		WorkerCount:           4,
		RequireVisibleOpener:  true,
		CheckSuffixDirectives: false,
		Languages: map[string]string{
			"c":   "cpp",
			"h":   "cpp",
			"cc":  "cpp",
			"cpp": "cpp",
			"cxx": "cpp",
			"hpp": "cpp",
			"hxx": "cpp",
			"go":  "go",
		},
	}
	cfg.Output.CorpusPath = "corpus.jsonl"
	cfg.Output.ReportPath = "corpus_report.json"
	return cfg
}

// Load reads the YAML config at path on top of the defaults, then applies
// environment overrides. A missing file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays FIMCORPUS_* variables on every scalar knob. The
// language extension map is file-only. Unparsable values are ignored;
// Validate catches anything that ends up out of range.
func applyEnv(cfg *Config) {
	envInt("FIMCORPUS_MAX_CONTEXT_CHARS", &cfg.MaxContextChars)
	envInt("FIMCORPUS_MIN_MIDDLE_LEN", &cfg.MinMiddleLen)
	envInt("FIMCORPUS_MAX_MIDDLE_LEN", &cfg.MaxMiddleLen)
	envInt("FIMCORPUS_DEDUP_FINGERPRINT_CAP", &cfg.DedupFingerprintCap)
	envInt("FIMCORPUS_SPLIT_DENSITY", &cfg.SplitDensity)
	envInt("FIMCORPUS_TOKEN_BUDGET", &cfg.TokenBudget)
	envInt("FIMCORPUS_WORKERS", &cfg.WorkerCount)
	envBool("FIMCORPUS_REQUIRE_VISIBLE_OPENER", &cfg.RequireVisibleOpener)
	envBool("FIMCORPUS_CHECK_SUFFIX_DIRECTIVES", &cfg.CheckSuffixDirectives)
	envString("FIMCORPUS_CORPUS_PATH", &cfg.Output.CorpusPath)
	envString("FIMCORPUS_REPORT_PATH", &cfg.Output.ReportPath)
	envString("FIMCORPUS_INDEX_PATH", &cfg.Output.IndexPath)
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports configuration errors. These are fatal at startup:
// processing never begins on an invalid configuration.
func (c *Config) Validate() error {
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker_count must be >= 1, got %d", c.WorkerCount)
	}
	if c.MaxContextChars < 1 {
		return fmt.Errorf("max_context_chars must be >= 1, got %d", c.MaxContextChars)
	}
	if c.MinMiddleLen < 1 {
		return fmt.Errorf("min_middle_len must be >= 1, got %d", c.MinMiddleLen)
	}
	if c.MaxMiddleLen < c.MinMiddleLen {
		return fmt.Errorf("max_middle_len (%d) must be >= min_middle_len (%d)", c.MaxMiddleLen, c.MinMiddleLen)
	}
	if c.DedupFingerprintCap < 1 {
		return fmt.Errorf("dedup_fingerprint_cap must be >= 1, got %d", c.DedupFingerprintCap)
	}
	if c.SplitDensity < 1 {
		return fmt.Errorf("split_density must be >= 1, got %d", c.SplitDensity)
	}
	if c.TokenBudget < 1 {
		return fmt.Errorf("token_budget must be >= 1, got %d", c.TokenBudget)
	}
	if c.Output.CorpusPath == "" {
		return fmt.Errorf("output.corpus_path must not be empty")
	}
	return nil
}

// Language resolves a file extension (without dot) to a language tag,
// defaulting to "generic" for anything unmapped.
func (c *Config) Language(ext string) string {
	if lang, ok := c.Languages[ext]; ok {
		return lang
	}
	return "generic"
}
