package config

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyEnvs = []string{
	"GOOGLE_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	"AZURE_OPENAI_API_KEY", "GROQ_API_KEY", "DEEPSEEK_API_KEY", "LLM_API_KEY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range append(keyEnvs, "TEMPERATURE", "LLM_BASE_URL", "LLM_TIMEOUT", "LOG_LEVEL", "LOG_FILE") {
		t.Setenv(k, "")
	}
}

func TestParseTemperature(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"", 0.5},
		{"0.7", 0.7},
		{" 0.25 ", 0.25},
		{"0", 0},
		{"1", 1},
		{"1.5", 1},
		{"-0.3", 0},
		{"abc", 0.5},
		{"NaN", 0.5},
		{"nan", 0.5},
		{"inf", 1},
		{"-Inf", 0},
		{"1e-1", 0.1},
	}
	for _, tt := range tests {
		t.Run(strconv.Quote(tt.raw), func(t *testing.T) {
			got := ParseTemperature(tt.raw)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.InDelta(t, 0.5, cfg.TemperatureValue(), 1e-6)
}

func TestLoad_OptionalFileMissing(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := Load(path, false)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
temperature: "0.9"
llm:
  base_url: https://llm.example.com/v1
  model: deepseek/deepseek-chat
  timeout: 45s
log:
  level: debug
  file: logs/gen_report.log
prompt:
  aliases:
    - project: 平台
      names: [API, SDK]
`), 0o644))

	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("GOOGLE_API_KEY", "g")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://llm.example.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "deepseek/deepseek-chat", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level, "env overrides file")
	assert.Equal(t, "logs/gen_report.log", cfg.Log.File)
	assert.InDelta(t, 0.9, cfg.TemperatureValue(), 1e-6)
	assert.Equal(t, "g", cfg.Keys.Google)
	require.Len(t, cfg.Prompt.Aliases, 1)
	assert.Equal(t, AliasConfig{Project: "平台", Names: []string{"API", "SDK"}}, cfg.Prompt.Aliases[0])
}

func TestLoad_TemperatureFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEMPERATURE", "not-a-number")

	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, "not-a-number", cfg.Temperature)
	assert.InDelta(t, 0.5, cfg.TemperatureValue(), 1e-6)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestEnsureAPIKey(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.EnsureAPIKey(), ErrNoAPIKey)

	cfg.Keys.Groq = "x"
	assert.NoError(t, cfg.EnsureAPIKey())

	cfg = Default()
	cfg.LLM.APIKey = "custom"
	assert.NoError(t, cfg.EnsureAPIKey())
}

func TestEnsureAPIKey_FromEnv(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.EnsureAPIKey(), ErrNoAPIKey)

	t.Setenv("ANTHROPIC_API_KEY", "a")
	cfg, err = Load("", false)
	require.NoError(t, err)
	assert.NoError(t, cfg.EnsureAPIKey())
}
