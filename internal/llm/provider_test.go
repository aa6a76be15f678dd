package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/gen_report/internal/config"
)

func TestSplitModel(t *testing.T) {
	tests := []struct {
		in       string
		provider string
		model    string
	}{
		{"gemini/gemini-1.5-flash", "gemini", "gemini-1.5-flash"},
		{"OpenAI/gpt-4o", "openai", "gpt-4o"},
		{"anthropic/claude-3-5-haiku-latest", "anthropic", "claude-3-5-haiku-latest"},
		{"groq/llama-3.1-8b-instant", "groq", "llama-3.1-8b-instant"},
		{"deepseek/deepseek-chat", "deepseek", "deepseek-chat"},
		{"azure/my-deployment", "azure", "my-deployment"},
		{"gpt-4o-mini", "openai", "gpt-4o-mini"},
		{"meta-llama/Llama-3-70b", "openai", "meta-llama/Llama-3-70b"},
		{"gemini/", "openai", "gemini/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, m := SplitModel(tt.in)
			assert.Equal(t, tt.provider, p.Name)
			assert.Equal(t, tt.model, m)
		})
	}
}

func TestResolve_Gemini(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.Google = "g-key"
	cfg.Temperature = "0.2"
	cfg.LLM.Timeout = 30 * time.Second

	mc, err := Resolve(cfg, "gemini/gemini-1.5-flash", 2000)
	require.NoError(t, err)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/openai/", mc.BaseURL)
	assert.Equal(t, "g-key", mc.APIKey)
	assert.Equal(t, "gemini-1.5-flash", mc.Model)
	assert.Equal(t, 30*time.Second, mc.Timeout)
	require.NotNil(t, mc.MaxTokens)
	assert.Equal(t, 2000, *mc.MaxTokens)
	require.NotNil(t, mc.Temperature)
	assert.InDelta(t, 0.2, *mc.Temperature, 1e-6)
	assert.False(t, mc.ByAzure)
}

func TestResolve_GeminiKeyPreferred(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.Google = "google"
	cfg.Keys.Gemini = "gemini"

	mc, err := Resolve(cfg, "gemini/gemini-1.5-pro", 0)
	require.NoError(t, err)
	assert.Equal(t, "gemini", mc.APIKey)
	assert.Nil(t, mc.MaxTokens)
}

func TestResolve_ConfigOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.BaseURL = "https://llm.internal/v1"
	cfg.LLM.APIKey = "custom"

	mc, err := Resolve(cfg, "qwen-plus", 100)
	require.NoError(t, err)
	assert.Equal(t, "https://llm.internal/v1", mc.BaseURL)
	assert.Equal(t, "custom", mc.APIKey)
	assert.Equal(t, "qwen-plus", mc.Model)
}

func TestResolve_Azure(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.Azure = "az"
	cfg.LLM.AzureEndpoint = "https://example.openai.azure.com"

	mc, err := Resolve(cfg, "azure/gpt4o-deploy", 100)
	require.NoError(t, err)
	assert.True(t, mc.ByAzure)
	assert.Equal(t, "https://example.openai.azure.com", mc.BaseURL)
	assert.Equal(t, "2024-06-01", mc.APIVersion)
	assert.Equal(t, "gpt4o-deploy", mc.Model)
}

func TestResolve_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.Google = "only-google"

	_, err := Resolve(cfg, "openai/gpt-4o", 100)
	assert.ErrorIs(t, err, config.ErrNoAPIKey)

	cfg.Keys.Azure = "az"
	_, err = Resolve(cfg, "azure/deploy", 100)
	assert.ErrorContains(t, err, "base url is missing")
}
