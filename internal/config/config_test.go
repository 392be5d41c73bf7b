package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/resolver"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "! Post_Deduplication.csv", cfg.Output)
	assert.Equal(t, ",", cfg.Separator)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.True(t, cfg.BreakOnErrors)
	assert.Equal(t, resolver.DefaultDelimiter, cfg.ConcatDelimiter)
	assert.Equal(t, ", ", cfg.ConcatDelimiter)
	assert.False(t, cfg.CaseInsensitive)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rowmerge.yaml")
	content := `
filename: contacts.csv
unique_key: "first, last"
separator: ";"
break_on_errors: false
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "contacts.csv", cfg.Input)
	assert.Equal(t, []string{"first", "last"}, cfg.KeyColumns())
	assert.Equal(t, ";", cfg.Separator)
	assert.False(t, cfg.BreakOnErrors)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields keep their defaults
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rowmerge.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"filename":"a.csv","unique_key":"id","case_insensitive":true}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", cfg.Input)
	assert.True(t, cfg.CaseInsensitive)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0644))

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, engine.ErrConfiguration)

	_, err = Load(bad)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Input = "in.csv"
		cfg.UniqueKey = "id"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no input", func(c *Config) { c.Input = " " }, "filename"},
		{"no output", func(c *Config) { c.Output = "" }, "output_filename"},
		{"no key", func(c *Config) { c.UniqueKey = " , " }, "unique_key"},
		{"case-insensitive composite", func(c *Config) { c.UniqueKey = "a,b"; c.CaseInsensitive = true }, "case_insensitive"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "log-level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "log-format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cerr *engine.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"yes", "Y", "true", "T", "1"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"no", "N", "false", "f", "0"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}
