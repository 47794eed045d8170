// Package config holds the tunables of a top-N run and loads them from a
// YAML file and FREQTOP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/freqtop/internal/lineio"
	"github.com/dreamware/freqtop/internal/partition"
	"github.com/dreamware/freqtop/internal/storage"
)

// DefaultMemoryLimit is the memory budget assumed when none is configured.
const DefaultMemoryLimit int64 = 1 << 30

// DefaultTopN is the result size when none is configured.
const DefaultTopN = 100

// Config describes a run.
type Config struct {
	// MemoryLimit is the total memory budget in bytes. Files up to a quarter
	// of it are counted in one pass; larger files are partitioned.
	MemoryLimit int64 `yaml:"memory_limit"`

	// TopN is the number of entries kept.
	TopN int `yaml:"top_n"`

	// Hash names the partition routing hash: "fnv1a" or "xxh3".
	Hash string `yaml:"hash"`

	// TempDir holds partition files. Empty means next to the input file.
	TempDir string `yaml:"temp_dir"`

	// ResultFormat is "text" or "sqlite".
	ResultFormat string `yaml:"result_format"`

	// MaxLineBytes is the longest accepted input line.
	MaxLineBytes int `yaml:"max_line_bytes"`

	// AllowPartial emits whatever was ranked when a run fails midway.
	AllowPartial bool `yaml:"allow_partial"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MemoryLimit:  DefaultMemoryLimit,
		TopN:         DefaultTopN,
		Hash:         "fnv1a",
		ResultFormat: storage.FormatText,
		MaxLineBytes: lineio.DefaultMaxLineBytes,
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FREQTOP_* variables looked up with getenv.
// Unset or empty variables leave the field alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("FREQTOP_MEMORY_LIMIT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("FREQTOP_MEMORY_LIMIT: %w", err)
		}
		c.MemoryLimit = n
	}
	if v := getenv("FREQTOP_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FREQTOP_TOP_N: %w", err)
		}
		c.TopN = n
	}
	if v := getenv("FREQTOP_HASH"); v != "" {
		c.Hash = v
	}
	if v := getenv("FREQTOP_TMPDIR"); v != "" {
		c.TempDir = v
	}
	if v := getenv("FREQTOP_FORMAT"); v != "" {
		c.ResultFormat = v
	}
	if v := getenv("FREQTOP_MAX_LINE_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FREQTOP_MAX_LINE_BYTES: %w", err)
		}
		c.MaxLineBytes = n
	}
	if v := getenv("FREQTOP_ALLOW_PARTIAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FREQTOP_ALLOW_PARTIAL: %w", err)
		}
		c.AllowPartial = b
	}
	return nil
}

// PartitionBudget is the per-partition byte budget, a quarter of MemoryLimit.
func (c Config) PartitionBudget() int64 {
	return c.MemoryLimit / 4
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.MemoryLimit < 4 {
		errs = append(errs, fmt.Errorf("memory_limit must be at least 4 bytes, got %d", c.MemoryLimit))
	}
	if c.TopN < 1 {
		errs = append(errs, fmt.Errorf("top_n must be positive, got %d", c.TopN))
	}
	if _, err := partition.HasherByName(c.Hash); err != nil {
		errs = append(errs, err)
	}
	switch c.ResultFormat {
	case storage.FormatText, storage.FormatSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown result_format %q (use text or sqlite)", c.ResultFormat))
	}
	if c.MaxLineBytes < 1 {
		errs = append(errs, fmt.Errorf("max_line_bytes must be positive, got %d", c.MaxLineBytes))
	}
	return errors.Join(errs...)
}
