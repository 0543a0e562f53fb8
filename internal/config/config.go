// Package config loads the Aegis configuration value that is constructed once
// at startup and passed to every component.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"aegis/internal/logging"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"

	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"

	// DefaultConfigFile is read when no --config path is supplied and the file exists.
	DefaultConfigFile = "aegis.yaml"
	// DefaultEnvFile is loaded into the process environment when present.
	DefaultEnvFile = ".env"
)

// Config is the complete Aegis configuration.
type Config struct {
	Mode         string        `yaml:"mode" env:"AEGIS_MODE" validate:"oneof=production development"`
	Host         string        `yaml:"host" env:"AEGIS_HOST"`
	Port         int           `yaml:"port" env:"AEGIS_PORT" validate:"min=1,max=65535"`
	StaticDir    string        `yaml:"static_dir" env:"AEGIS_STATIC_DIR"`
	PollInterval time.Duration `yaml:"poll_interval" env:"AEGIS_POLL_INTERVAL" validate:"min=1s"`
	// RateLimitPerMinute throttles the static bundle and websocket upgrades per client IP. 0 disables.
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" env:"AEGIS_RATE_LIMIT" validate:"min=0"`
	ServerURL          string `yaml:"server_url" env:"AEGIS_SERVER_URL"`

	Agent AgentConfig `yaml:"agent"`
	Auth  AuthConfig  `yaml:"auth"`
	Chat  ChatConfig  `yaml:"chat"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

// AgentConfig names the simulated agent.
type AgentConfig struct {
	Name    string `yaml:"name" env:"AEGIS_AGENT_NAME" validate:"required"`
	Version string `yaml:"version" env:"AEGIS_AGENT_VERSION" validate:"required"`
}

// DisplayName returns e.g. "Aegis v1.2.0".
func (a AgentConfig) DisplayName() string {
	return fmt.Sprintf("%s v%s", a.Name, strings.TrimPrefix(a.Version, "v"))
}

// AuthConfig enables the optional bearer-token guard on /api when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AEGIS_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"AEGIS_TOKEN_TTL" validate:"min=1m"`
}

// Enabled reports whether API requests must carry a valid token.
func (a AuthConfig) Enabled() bool {
	return strings.TrimSpace(a.JWTSecret) != ""
}

// ChatConfig configures the external chat providers.
type ChatConfig struct {
	APIKey            string        `yaml:"-" env:"GEMINI_API_KEY"`
	Model             string        `yaml:"model" env:"AEGIS_CHAT_MODEL" validate:"required"`
	BaseURL           string        `yaml:"base_url" env:"AEGIS_CHAT_BASE_URL" validate:"required,url"`
	SystemInstruction string        `yaml:"system_instruction"`
	Timeout           time.Duration `yaml:"timeout" env:"AEGIS_CHAT_TIMEOUT" validate:"min=1s"`

	// Optional OpenAI-compatible fallback, tried when the primary provider is unavailable.
	FallbackURL   string `yaml:"fallback_url" env:"AEGIS_CHAT_FALLBACK_URL" validate:"omitempty,url"`
	FallbackModel string `yaml:"fallback_model" env:"AEGIS_CHAT_FALLBACK_MODEL"`
	FallbackKey   string `yaml:"-" env:"OPENAI_API_KEY"`
}

// StoreConfig selects where the chat history is persisted.
type StoreConfig struct {
	Kind string `yaml:"kind" env:"AEGIS_STORE" validate:"oneof=file sqlite memory"`
	Path string `yaml:"path" env:"AEGIS_STORE_PATH" validate:"required_unless=Kind memory"`
}

// LogConfig mirrors logging.Options with config tags.
type LogConfig struct {
	Level      string `yaml:"level" env:"AEGIS_LOG_LEVEL" validate:"oneof=trace debug info warn warning error"`
	Format     string `yaml:"format" env:"AEGIS_LOG_FORMAT" validate:"oneof=text json"`
	File       string `yaml:"file" env:"AEGIS_LOG_FILE"`
	Stdout     bool   `yaml:"stdout" env:"AEGIS_LOG_STDOUT"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"min=0"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"min=0"`
	Compress   bool   `yaml:"compress"`
}

// Options converts the log section for logging.New.
func (l LogConfig) Options() logging.Options {
	return logging.Options{
		Level:      l.Level,
		Format:     l.Format,
		File:       l.File,
		Stdout:     l.Stdout,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Mode:               ModeProduction,
		Host:               "0.0.0.0",
		Port:               3000,
		PollInterval:       5 * time.Second,
		RateLimitPerMinute: 600,
		ServerURL:          "http://127.0.0.1:3000",
		Agent: AgentConfig{
			Name:    "Aegis",
			Version: "1.2.0",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Chat: ChatConfig{
			Model:             "gemini-3-flash-preview",
			BaseURL:           "https://generativelanguage.googleapis.com/",
			SystemInstruction: "You are Aegis, an advanced AI engineering agent. You help users build, debug, and manage their software projects. Keep your answers concise and helpful.",
			Timeout:           60 * time.Second,
			FallbackModel:     "gpt-4o-mini",
		},
		Store: StoreConfig{
			Kind: StoreFile,
			Path: filepath.Join("data", "aegis_chat_history.json"),
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			File:       filepath.Join("logs", "aegis.log"),
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file, then .env and
// process environment overrides, then validation. An empty path reads
// DefaultConfigFile only if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(DefaultEnvFile); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// loadDotEnv loads key=value pairs without overriding variables already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ListenAddr returns host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Development reports whether static hosting is disabled.
func (c *Config) Development() bool {
	return c.Mode == ModeDevelopment
}
