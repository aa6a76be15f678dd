package llm

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/iWorld-y/gen_report/internal/config"
)

// Provider 一个 OpenAI 兼容的模型服务
type Provider struct {
	Name    string
	BaseURL string
	Azure   bool
	apiKey  func(k config.APIKeys) string
}

const defaultProvider = "openai"

var providers = map[string]Provider{
	"openai": {
		Name:    "openai",
		BaseURL: "https://api.openai.com/v1",
		apiKey:  func(k config.APIKeys) string { return k.OpenAI },
	},
	"gemini": {
		Name:    "gemini",
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai/",
		apiKey: func(k config.APIKeys) string {
			if k.Gemini != "" {
				return k.Gemini
			}
			return k.Google
		},
	},
	"anthropic": {
		Name:    "anthropic",
		BaseURL: "https://api.anthropic.com/v1/",
		apiKey:  func(k config.APIKeys) string { return k.Anthropic },
	},
	"groq": {
		Name:    "groq",
		BaseURL: "https://api.groq.com/openai/v1",
		apiKey:  func(k config.APIKeys) string { return k.Groq },
	},
	"deepseek": {
		Name:    "deepseek",
		BaseURL: "https://api.deepseek.com/v1",
		apiKey:  func(k config.APIKeys) string { return k.DeepSeek },
	},
	"azure": {
		Name:   "azure",
		Azure:  true,
		apiKey: func(k config.APIKeys) string { return k.Azure },
	},
}

// SplitModel 拆分 "provider/model"，未知前缀整体当作模型名交给默认 provider
func SplitModel(name string) (Provider, string) {
	if prefix, rest, ok := strings.Cut(name, "/"); ok {
		if p, known := providers[strings.ToLower(prefix)]; known && rest != "" {
			return p, rest
		}
	}
	return providers[defaultProvider], name
}

// Resolve 根据模型名和配置生成 eino openai ChatModel 配置。
// llm.base_url / llm.api_key 配置优先于 provider 默认值。
func Resolve(cfg *config.Config, modelName string, maxTokens int) (*openai.ChatModelConfig, error) {
	p, name := SplitModel(modelName)

	baseURL := p.BaseURL
	if p.Azure {
		baseURL = cfg.LLM.AzureEndpoint
	}
	if cfg.LLM.BaseURL != "" {
		baseURL = cfg.LLM.BaseURL
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%s: base url is missing", p.Name)
	}

	apiKey := cfg.LLM.APIKey
	if apiKey == "" {
		apiKey = p.apiKey(cfg.Keys)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", p.Name, config.ErrNoAPIKey)
	}

	temperature := cfg.TemperatureValue()
	mc := &openai.ChatModelConfig{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Model:       name,
		Timeout:     cfg.LLM.Timeout,
		Temperature: &temperature,
	}
	if maxTokens > 0 {
		mc.MaxTokens = &maxTokens
	}
	if p.Azure {
		mc.ByAzure = true
		mc.APIVersion = cfg.LLM.AzureAPIVersion
	}
	return mc, nil
}
