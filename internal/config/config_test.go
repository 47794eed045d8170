package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env builds a getenv function over a fixed map
func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

// TestDefault tests the built-in configuration
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, int64(1<<30), cfg.MemoryLimit)
	assert.Equal(t, int64(1<<28), cfg.PartitionBudget())
	assert.Equal(t, 100, cfg.TopN)
	assert.Equal(t, "fnv1a", cfg.Hash)
	assert.Equal(t, "text", cfg.ResultFormat)
	assert.False(t, cfg.AllowPartial)
	assert.NoError(t, cfg.Validate())
}

// TestLoad tests reading a YAML file over the defaults
func TestLoad(t *testing.T) {
	t.Run("empty path keeps defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides selected fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "freqtop.yaml")
		require.NoError(t, os.WriteFile(path, []byte("memory_limit: 4096\nhash: xxh3\nallow_partial: true\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, int64(4096), cfg.MemoryLimit)
		assert.Equal(t, "xxh3", cfg.Hash)
		assert.True(t, cfg.AllowPartial)
		assert.Equal(t, 100, cfg.TopN, "unset fields keep their default")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("top_n: [1, 2\n"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

// TestApplyEnv tests environment overrides
func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "no variables",
			vars: map[string]string{},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "all variables",
			vars: map[string]string{
				"FREQTOP_MEMORY_LIMIT":   "8000",
				"FREQTOP_TOP_N":          "5",
				"FREQTOP_HASH":           "xxh3",
				"FREQTOP_TMPDIR":         "/scratch",
				"FREQTOP_FORMAT":         "sqlite",
				"FREQTOP_MAX_LINE_BYTES": "2048",
				"FREQTOP_ALLOW_PARTIAL":  "true",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, Config{
					MemoryLimit:  8000,
					TopN:         5,
					Hash:         "xxh3",
					TempDir:      "/scratch",
					ResultFormat: "sqlite",
					MaxLineBytes: 2048,
					AllowPartial: true,
				}, cfg)
			},
		},
		{name: "bad memory limit", vars: map[string]string{"FREQTOP_MEMORY_LIMIT": "1G"}, wantErr: true},
		{name: "bad top n", vars: map[string]string{"FREQTOP_TOP_N": "ten"}, wantErr: true},
		{name: "bad line limit", vars: map[string]string{"FREQTOP_MAX_LINE_BYTES": "x"}, wantErr: true},
		{name: "bad partial flag", vars: map[string]string{"FREQTOP_ALLOW_PARTIAL": "maybe"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(env(tt.vars))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

// TestValidate tests rejection of invalid settings
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "memory limit too small", mutate: func(c *Config) { c.MemoryLimit = 3 }},
		{name: "zero top n", mutate: func(c *Config) { c.TopN = 0 }},
		{name: "unknown hash", mutate: func(c *Config) { c.Hash = "crc32" }},
		{name: "unknown format", mutate: func(c *Config) { c.ResultFormat = "csv" }},
		{name: "zero line limit", mutate: func(c *Config) { c.MaxLineBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
