package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/claude/meetday/internal/scoring"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Scoring   ScoringConfig   `yaml:"scoring"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// RedisConfig configures the turn hint cache. An empty URL disables it.
type RedisConfig struct {
	URL    string        `yaml:"url"`
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type ScoringConfig struct {
	TotalPolicy string `yaml:"total_policy"`
}

// Policy returns the parsed total policy. Load has already validated it.
func (s ScoringConfig) Policy() scoring.TotalPolicy {
	p, _ := scoring.ParseTotalPolicy(s.TotalPolicy)
	return p
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

func defaults() *Config {
	return &Config{
		Redis: RedisConfig{
			Prefix: "meetday:",
			TTL:    12 * time.Hour,
		},
		Tailscale: TailscaleConfig{Hostname: "meetday"},
		Scoring:   ScoringConfig{TotalPolicy: string(scoring.TotalBombOut)},
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix MEETDAY_ and underscore-separated paths:
//
//	MEETDAY_SERVER_HOST, MEETDAY_SERVER_PORT,
//	MEETDAY_DB_HOST, MEETDAY_DB_PORT, MEETDAY_DB_NAME,
//	MEETDAY_DB_USER, MEETDAY_DB_PASSWORD, MEETDAY_DB_SSLMODE,
//	MEETDAY_AUTH_API_KEY,
//	MEETDAY_REDIS_URL, MEETDAY_REDIS_PREFIX, MEETDAY_REDIS_TTL,
//	MEETDAY_TAILSCALE_ENABLED, MEETDAY_TAILSCALE_HOSTNAME, MEETDAY_TAILSCALE_STATE_DIR,
//	MEETDAY_SCORING_TOTAL_POLICY
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Host, "MEETDAY_SERVER_HOST")
	setInt(&cfg.Server.Port, "MEETDAY_SERVER_PORT")

	setString(&cfg.Database.Host, "MEETDAY_DB_HOST")
	setInt(&cfg.Database.Port, "MEETDAY_DB_PORT")
	setString(&cfg.Database.Name, "MEETDAY_DB_NAME")
	setString(&cfg.Database.User, "MEETDAY_DB_USER")
	setString(&cfg.Database.Password, "MEETDAY_DB_PASSWORD")
	setString(&cfg.Database.SSLMode, "MEETDAY_DB_SSLMODE")

	setString(&cfg.Auth.APIKey, "MEETDAY_AUTH_API_KEY")

	setString(&cfg.Redis.URL, "MEETDAY_REDIS_URL")
	setString(&cfg.Redis.Prefix, "MEETDAY_REDIS_PREFIX")
	if v := os.Getenv("MEETDAY_REDIS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Redis.TTL = d
		}
	}

	if v := os.Getenv("MEETDAY_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	setString(&cfg.Tailscale.Hostname, "MEETDAY_TAILSCALE_HOSTNAME")
	setString(&cfg.Tailscale.StateDir, "MEETDAY_TAILSCALE_STATE_DIR")

	setString(&cfg.Scoring.TotalPolicy, "MEETDAY_SCORING_TOTAL_POLICY")
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Redis.URL != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be positive")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if _, err := scoring.ParseTotalPolicy(c.Scoring.TotalPolicy); err != nil {
		return fmt.Errorf("scoring.total_policy: %w", err)
	}
	return nil
}
