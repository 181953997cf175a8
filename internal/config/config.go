// Package config loads edimap settings from the environment or a config file.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Ingest   IngestConfig   `yaml:"ingest" json:"ingest"`
	OpenAI   OpenAIConfig   `yaml:"openai" json:"openai"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" json:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port int    `yaml:"port" json:"port" env:"PORT" env-default:"3000" validate:"min=1,max=65535"`

	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" json:"request_timeout" env:"SERVER_REQUEST_TIMEOUT" env-default:"60s" validate:"gt=0"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes" env:"SERVER_MAX_BODY_BYTES" env-default:"10485760" validate:"gt=0"`

	// APIKeyHeader names the header carrying application API keys.
	APIKeyHeader string `yaml:"api_key_header" json:"api_key_header" env:"API_KEY_HEADER" env-default:"X-API-Key" validate:"required"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	// Path is the database file, or ":memory:".
	Path        string `yaml:"path" json:"path" env:"DB_PATH" env-default:"data/edimap.db" validate:"required"`
	BusyTimeout int    `yaml:"busy_timeout_ms" json:"busy_timeout_ms" env:"DB_BUSY_TIMEOUT_MS" env-default:"10000" validate:"gte=0"`
}

// IngestConfig holds table extraction settings.
type IngestConfig struct {
	// DataDir holds the extracted mapping, code definition and information
	// item documents.
	DataDir string `yaml:"data_dir" json:"data_dir" env:"EDIMAP_DATA_DIR" env-default:"data" validate:"required"`

	AIEnabled        bool     `yaml:"ai_enabled" json:"ai_enabled" env:"EDIMAP_AI_ENABLED" env-default:"false"`
	NeedsAIThreshold float64  `yaml:"needs_ai_threshold" json:"needs_ai_threshold" env:"EDIMAP_NEEDS_AI_THRESHOLD" env-default:"0.6" validate:"gte=0,lte=1"`
	Keywords         []string `yaml:"keywords" json:"keywords" env:"EDIMAP_KEYWORDS" env-separator:","`
}

// OpenAIConfig holds settings for the AI region suggester.
type OpenAIConfig struct {
	APIKey  string        `yaml:"api_key" json:"api_key" env:"OPENAI_API_KEY"`
	Model   string        `yaml:"model" json:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini" validate:"required"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" env:"OPENAI_TIMEOUT" env-default:"60s" validate:"gt=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" json:"format" env:"LOG_FORMAT" env-default:"text" validate:"oneof=text json"`
}

// Load reads configuration from path when set, otherwise from the
// environment alone. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and reports all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, fmt.Sprintf("%s, got %v", msg, fe.Value()))
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// String returns the config with secrets masked.
func (c *Config) String() string {
	key := ""
	if c.OpenAI.APIKey != "" {
		key = "[MASKED]"
	}
	return fmt.Sprintf("Config{Server: {Addr: %q}, Database: {Path: %q}, Ingest: {DataDir: %q, AIEnabled: %v}, OpenAI: {Model: %q, APIKey: %q}, Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(), c.Database.Path, c.Ingest.DataDir, c.Ingest.AIEnabled,
		c.OpenAI.Model, key, c.Logging.Level, c.Logging.Format)
}
