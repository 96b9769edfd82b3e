package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/samber/lo"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Safety SafetyConfig
	Log    LogConfig
}

// Load 从进程环境变量加载配置。
func Load() (*Config, error) {
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return LoadFrom(es)
}

// LoadFrom decodes the configuration from an explicit environment set.
func LoadFrom(es env.EnvSet) (*Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	addr, err := resolveAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	cfg.AI.normalize()
	cfg.Safety.normalize()
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)

	return &cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port string `env:"PORT,default=3001"`
	Addr string
}

// resolveAddr 解析服务器监听地址。
func resolveAddr(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		port = "3001"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":3001" 或 "127.0.0.1:3001"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider string        `env:"LLM_PROVIDER,default=openai"`
	Timeout  time.Duration `env:"LLM_TIMEOUT"`
	OpenAI   OpenAIConfig
	Ark      ArkConfig
}

// OpenAIConfig holds the OpenAI chat completions settings.
type OpenAIConfig struct {
	APIKey       string `env:"OPENAI_API_KEY"`
	LegacyAPIKey string `env:"REACT_APP_OPENAI_API_KEY"`
	Model        string `env:"OPENAI_MODEL,default=gpt-3.5-turbo"`
	BaseURL      string `env:"OPENAI_BASE_URL,default=https://api.openai.com/v1"`
}

// ArkConfig holds the Volcengine Ark settings.
type ArkConfig struct {
	APIKey    string `env:"ARK_API_KEY"`
	AccessKey string `env:"ARK_ACCESS_KEY"`
	SecretKey string `env:"ARK_SECRET_KEY"`
	Model     string `env:"ARK_MODEL"`
	BaseURL   string `env:"ARK_BASE_URL,default=https://ark.cn-beijing.volces.com/api/v3"`
	Region    string `env:"ARK_REGION,default=cn-beijing"`
}

func (c *AIConfig) normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}

	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.LegacyAPIKey)
	}
	c.OpenAI.LegacyAPIKey = ""
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-3.5-turbo"
	}
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)

	c.Ark.APIKey = strings.TrimSpace(c.Ark.APIKey)
	c.Ark.AccessKey = strings.TrimSpace(c.Ark.AccessKey)
	c.Ark.SecretKey = strings.TrimSpace(c.Ark.SecretKey)
	c.Ark.Model = strings.TrimSpace(c.Ark.Model)
}

// Enabled 表示当前 provider 是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	case ProviderArk:
		return c.Ark.Model != "" && (c.Ark.APIKey != "" || (c.Ark.AccessKey != "" && c.Ark.SecretKey != ""))
	default:
		return false
	}
}

// SafetyConfig overrides the crisis short-circuit defaults.
type SafetyConfig struct {
	Keywords    []string `env:"CRISIS_KEYWORDS"`
	CrisisReply string   `env:"CRISIS_REPLY"`
}

func (c *SafetyConfig) normalize() {
	keywords := lo.Compact(lo.Map(c.Keywords, func(k string, _ int) string {
		return strings.TrimSpace(k)
	}))
	if len(keywords) == 0 {
		keywords = nil
	}
	c.Keywords = keywords
	c.CrisisReply = strings.TrimSpace(c.CrisisReply)
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=text"`
	File   string `env:"LOG_FILE"`
}
