package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces the environment overrides (ORDERUP_DB_PASSWORD etc).
const envPrefix = "orderup"

// Database holds PostgreSQL connection settings. Each field is processed as
// its own envconfig key so the override names are flat (ORDERUP_DB_USER, not
// a struct-path derived name).
type Database struct {
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name     string `yaml:"database" envconfig:"DB_NAME"`
}

// HTTP holds the API server settings.
type HTTP struct {
	Port int `yaml:"port"`
}

// WebSocket holds tuning knobs for the realtime transport.
type WebSocket struct {
	SendBuffer      int   `yaml:"send_buffer"`       // per-connection outbound queue length
	MaxPayloadBytes int64 `yaml:"max_payload_bytes"` // inbound frame limit
}

// SMTP holds the optional mail transport. An empty section disables email
// side effects entirely (the dispatcher silently skips).
type SMTP struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT"`
	User     string `yaml:"user" envconfig:"SMTP_USER"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD"`
	From     string `yaml:"from" envconfig:"SMTP_FROM"`
}

// Configured reports whether a usable mail transport was provided.
func (s SMTP) Configured() bool {
	return s.Host != "" && s.From != ""
}

// Config is the full process configuration.
type Config struct {
	HTTP              HTTP      `yaml:"http"`
	Database          Database  `yaml:"database"`
	WebSocket         WebSocket `yaml:"websocket"`
	SMTP              SMTP      `yaml:"smtp"`
	NotificationSound string    `yaml:"notification_sound"` // overridden by ORDERUP_NOTIFICATION_SOUND
}

// LoadFromFile loads config from a YAML file, applies environment overrides,
// sets defaults, and validates required fields.
func LoadFromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// env wins over file, mainly for credentials. Sections are processed
	// individually: envconfig derives keys for nested structs from the field
	// path, which would bury the documented ORDERUP_DB_* / ORDERUP_SMTP_*
	// names under the section name.
	for _, section := range []any{&cfg.Database, &cfg.SMTP} {
		if err := envconfig.Process(envPrefix, section); err != nil {
			return nil, fmt.Errorf("failed to apply env overrides: %w", err)
		}
	}
	if v, ok := os.LookupEnv("ORDERUP_NOTIFICATION_SOUND"); ok {
		cfg.NotificationSound = v
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets safe defaults for some fields.
func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 3000
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}

	if cfg.WebSocket.SendBuffer == 0 {
		cfg.WebSocket.SendBuffer = 64
	}
	if cfg.WebSocket.MaxPayloadBytes == 0 {
		cfg.WebSocket.MaxPayloadBytes = 1 << 20
	}

	if cfg.SMTP.Host != "" && cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		problems = append(problems, "http.port must be in 1..65535")
	}

	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Password == "" {
		problems = append(problems, "database.password is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.database (name) is required")
	}

	if c.WebSocket.SendBuffer < 0 {
		problems = append(problems, "websocket.send_buffer must be >= 0")
	}

	// smtp is optional, but a partial section is a misconfiguration
	if c.SMTP.Host != "" {
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			problems = append(problems, "smtp.port must be in 1..65535")
		}
		if c.SMTP.From == "" {
			problems = append(problems, "smtp.from is required when smtp.host is set")
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
