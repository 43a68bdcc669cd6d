package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Provider names accepted in COMPLETION_PROVIDER.
const (
	ProviderMistral = "mistral"
	ProviderArk     = "ark"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Memory   MemoryConfig
	Personas PersonaConfig
	LogLevel string
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	memory, err := loadMemoryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Memory:   memory,
		Personas: loadPersonaConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8000" 或 "127.0.0.1:8000"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider      string
	HistoryWindow int
	MaxTokens     int
	Mistral       MistralConfig
	Ark           ArkConfig
}

// MistralConfig holds the credentials for the default provider.
type MistralConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ArkConfig holds the Volcengine Ark credentials.
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
}

// Enabled 表示所选 provider 是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.Ark.Enabled()
	default:
		return c.Mistral.APIKey != ""
	}
}

// MissingReason describes which credential is absent, for per-request errors.
func (c AIConfig) MissingReason() string {
	switch c.Provider {
	case ProviderArk:
		return "ARK_MODEL with ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY is not set"
	default:
		return "MISTRAL_API_KEY is not set"
	}
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。采样参数按请求传入，这里不设默认值。
func (c ArkConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		APIKey:    c.APIKey,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Model:     c.Model,
	})
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("COMPLETION_PROVIDER", ProviderMistral))
	if provider != ProviderMistral && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid COMPLETION_PROVIDER value %q: want %s or %s", provider, ProviderMistral, ProviderArk)
	}

	window, err := parsePositiveIntEnv("CHAT_HISTORY_WINDOW", 10)
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parsePositiveIntEnv("CHAT_MAX_TOKENS", 300)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:      provider,
		HistoryWindow: window,
		MaxTokens:     maxTokens,
		Mistral: MistralConfig{
			APIKey:  strings.TrimSpace(os.Getenv("MISTRAL_API_KEY")),
			Model:   getEnvOrDefault("MISTRAL_MODEL", "open-mistral-7b"),
			BaseURL: getEnvOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
		},
		Ark: ArkConfig{
			APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
			AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
			Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
			BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
			Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		},
	}, nil
}

// MemoryConfig 描述会话记忆配置。MaxTurns 为 0 表示不限制。
type MemoryConfig struct {
	MaxTurns int
}

func loadMemoryConfig() (MemoryConfig, error) {
	maxTurns, err := parseOptionalIntEnv("MEMORY_MAX_TURNS")
	if err != nil {
		return MemoryConfig{}, err
	}
	if maxTurns == nil {
		return MemoryConfig{}, nil
	}
	if *maxTurns < 0 {
		return MemoryConfig{}, fmt.Errorf("invalid MEMORY_MAX_TURNS value %d: must not be negative", *maxTurns)
	}
	return MemoryConfig{MaxTurns: *maxTurns}, nil
}

// PersonaConfig 描述角色来源。File 为空时使用内置角色。
type PersonaConfig struct {
	File      string
	DefaultID string
}

func loadPersonaConfig() PersonaConfig {
	return PersonaConfig{
		File:      strings.TrimSpace(os.Getenv("PERSONAS_FILE")),
		DefaultID: getEnvOrDefault("DEFAULT_PERSONA", "bastian"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parsePositiveIntEnv(key string, defaultValue int) (int, error) {
	val, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return defaultValue, nil
	}
	if *val < 1 {
		return 0, fmt.Errorf("invalid %s value %d: must be positive", key, *val)
	}
	return *val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
