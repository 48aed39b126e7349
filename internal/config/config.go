package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is constructed once at
// process start and passed by reference; nothing mutates it afterwards.
type Config struct {
	Gateway      GatewayConfig      `yaml:"gateway" mapstructure:"gateway"`
	Notification NotificationConfig `yaml:"notification" mapstructure:"notification"`
	Anthropic    AnthropicConfig    `yaml:"anthropic" mapstructure:"anthropic"`
	OCR          OCRConfig          `yaml:"ocr" mapstructure:"ocr"`
	Agent        AgentConfig        `yaml:"agent" mapstructure:"agent"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// GatewayConfig points at the core ledger + ML GraphQL gateway.
type GatewayConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// NotificationConfig points at the notification service.
type NotificationConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds live reasoning provider settings. An empty Key
// selects the mock provider with no network attempt.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OCRConfig holds document extraction settings. An empty MistralKey selects
// the mock extractor with no network attempt.
type OCRConfig struct {
	MistralKey string `yaml:"mistral_key" mapstructure:"mistral_key"`
	Model      string `yaml:"model" mapstructure:"model"`
}

// AgentConfig holds the orchestration decision thresholds.
type AgentConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	RiskThreshold       float64 `yaml:"risk_threshold" mapstructure:"risk_threshold"`
	CallTimeoutSecs     int     `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
}

// CallTimeout returns the per-call timeout applied uniformly to all
// backend and provider calls.
func (a AgentConfig) CallTimeout() time.Duration {
	return time.Duration(a.CallTimeoutSecs) * time.Second
}

// StoreConfig configures the workflow run log backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AGENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("gateway.url", "http://localhost:4000/graphql")
	v.SetDefault("gateway.timeout_secs", 30)
	v.SetDefault("notification.url", "http://localhost:5025/graphql")
	v.SetDefault("notification.timeout_secs", 10)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("ocr.model", "pixtral-large-latest")
	v.SetDefault("agent.confidence_threshold", 0.7)
	v.SetDefault("agent.risk_threshold", 0.6)
	v.SetDefault("agent.call_timeout_secs", 30)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "agents.db")
	v.SetDefault("server.port", 5020)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
