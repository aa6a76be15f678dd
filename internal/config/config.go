package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultModel 默认模型，带 provider 前缀
	DefaultModel = "gemini/gemini-1.5-flash"
	// DefaultTemperature TEMPERATURE 缺失或非法时使用
	DefaultTemperature = 0.5
)

// ErrNoAPIKey 未找到任何 provider 的 API Key
var ErrNoAPIKey = errors.New("no provider API key env var found (e.g., GOOGLE_API_KEY for Gemini), set one before running")

// Config 项目配置结构体
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Keys   APIKeys      `yaml:"-"`
	Log    LogConfig    `yaml:"log"`
	Prompt PromptConfig `yaml:"prompt"`

	// Temperature 保留原始字符串，解析见 ParseTemperature
	Temperature string `yaml:"temperature" env:"TEMPERATURE"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string        `yaml:"base_url" env:"LLM_BASE_URL"`
	APIKey  string        `yaml:"api_key" env:"LLM_API_KEY"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout" env:"LLM_TIMEOUT"`

	AzureEndpoint   string `yaml:"azure_endpoint" env:"AZURE_OPENAI_ENDPOINT"`
	AzureAPIVersion string `yaml:"azure_api_version" env:"AZURE_API_VERSION"`
}

// APIKeys 各 provider 的 API Key，只从环境变量读取
type APIKeys struct {
	Google    string `env:"GOOGLE_API_KEY"`
	Gemini    string `env:"GEMINI_API_KEY"`
	OpenAI    string `env:"OPENAI_API_KEY"`
	Anthropic string `env:"ANTHROPIC_API_KEY"`
	Azure     string `env:"AZURE_OPENAI_API_KEY"`
	Groq      string `env:"GROQ_API_KEY"`
	DeepSeek  string `env:"DEEPSEEK_API_KEY"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

// PromptConfig prompt 相关配置
type PromptConfig struct {
	// Aliases 为空时使用内置的项目别名分组
	Aliases []AliasConfig `yaml:"aliases"`
}

// AliasConfig 一组项目别名，Names 都归入 Project
type AliasConfig struct {
	Project string   `yaml:"project"`
	Names   []string `yaml:"names"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:           DefaultModel,
			AzureAPIVersion: "2024-06-01",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	return Load(path, true)
}

// Load 按 默认值 -> yaml 文件 -> .env -> 环境变量 的顺序构建配置。
// mustExist 为 false 时配置文件不存在不算错误。
func Load(path string, mustExist bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !mustExist:
		default:
			return nil, err
		}
	}

	// .env 不覆盖已存在的环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// TemperatureValue 解析后的 temperature
func (c *Config) TemperatureValue() float32 {
	return float32(ParseTemperature(c.Temperature))
}

// ParseTemperature 解析 temperature：限制在 [0,1]，缺失、非法或 NaN 时返回 0.5
func ParseTemperature(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTemperature
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(t) {
		return DefaultTemperature
	}
	return math.Max(0, math.Min(1, t))
}

// EnsureAPIKey 检查至少配置了一个 provider 的 API Key，只检查存在性
func (c *Config) EnsureAPIKey() error {
	k := c.Keys
	for _, v := range []string{k.Google, k.Gemini, k.OpenAI, k.Anthropic, k.Azure, k.Groq, k.DeepSeek, c.LLM.APIKey} {
		if v != "" {
			return nil
		}
	}
	return ErrNoAPIKey
}
