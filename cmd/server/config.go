// Package main provides the admin notices server CLI.
package main

import (
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/good-yellow-bee/adminnotices/internal/models"
	"github.com/good-yellow-bee/adminnotices/internal/notices"
)

// MemoryDatabase as database.path keeps all data in process memory.
const MemoryDatabase = ":memory:"

// Config represents the server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Security  SecurityConfig  `yaml:"security"`
	Notices   NoticesConfig   `yaml:"notices"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Verbose   bool            `yaml:"-"` // set via CLI flag
}

// ServerConfig contains listener settings.
type ServerConfig struct {
	HTTPAddress    string `yaml:"http_address"`    // admin console (default: :8080)
	MetricsAddress string `yaml:"metrics_address"` // Prometheus endpoint (default: :9090, "none" disables)
	SecureCookies  bool   `yaml:"secure_cookies"`  // set when served behind TLS
}

// DatabaseConfig contains storage settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite file, or :memory:
}

// SecurityConfig contains authentication and anti-forgery settings.
type SecurityConfig struct {
	RequireNonce     bool   `yaml:"require_nonce"`     // reject AJAX calls without a token
	SessionTTL       string `yaml:"session_ttl"`       // e.g. 24h
	LockoutThreshold int    `yaml:"lockout_threshold"` // failed logins before lockout
	LockoutDuration  string `yaml:"lockout_duration"`  // e.g. 15m
}

// NoticesConfig contains notice production and display settings.
type NoticesConfig struct {
	HidingRoles []string             `yaml:"hiding_roles"` // roles that get the notice panel
	Directory   string               `yaml:"directory"`    // watched notice files, optional
	Static      []StaticNoticeConfig `yaml:"static"`
	Timezone    string               `yaml:"timezone"`    // IANA name for displayed times
	DateFormat  string               `yaml:"date_format"` // Go layout, overridden by the date_format option
	TimeFormat  string               `yaml:"time_format"` // Go layout, overridden by the time_format option
}

// StaticNoticeConfig is one notice defined in the config file.
type StaticNoticeConfig struct {
	Level       string `yaml:"level"`
	Message     string `yaml:"message"`
	Dismissible bool   `yaml:"dismissible"`
}

// RateLimitConfig bounds AJAX calls per user.
type RateLimitConfig struct {
	AjaxPerMinute int `yaml:"ajax_per_minute"`
	Burst         int `yaml:"burst"`
}

// MetricsEnabled reports whether the metrics listener should start.
func (c *Config) MetricsEnabled() bool {
	return c.Server.MetricsAddress != "none"
}

// Secrets are read from the environment only.
type Secrets struct {
	CSRFKey       string `env:"ANM_CSRF_KEY,required,notEmpty"`
	SessionSecret string `env:"ANM_SESSION_SECRET,required,notEmpty"`
	HashSalt      string `env:"ANM_HASH_SALT,required,notEmpty"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// setDefaults sets default values for missing config fields.
func (c *Config) setDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = ":8080"
	}
	if c.Server.MetricsAddress == "" {
		c.Server.MetricsAddress = ":9090"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/adminnotices.db"
	}
	if c.Security.SessionTTL == "" {
		c.Security.SessionTTL = "24h"
	}
	if c.Security.LockoutThreshold == 0 {
		c.Security.LockoutThreshold = 5
	}
	if c.Security.LockoutDuration == "" {
		c.Security.LockoutDuration = "15m"
	}
	if len(c.Notices.HidingRoles) == 0 {
		c.Notices.HidingRoles = []string{string(models.RoleAdmin)}
	}
	if c.Notices.Timezone == "" {
		c.Notices.Timezone = "UTC"
	}
	if c.Notices.DateFormat == "" {
		c.Notices.DateFormat = notices.DefaultDateFormat
	}
	if c.Notices.TimeFormat == "" {
		c.Notices.TimeFormat = notices.DefaultTimeFormat
	}
	if c.RateLimit.AjaxPerMinute == 0 {
		c.RateLimit.AjaxPerMinute = 120
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.HTTPAddress == "" {
		return fmt.Errorf("server.http_address is required")
	}
	if c.Server.HTTPAddress == c.Server.MetricsAddress {
		return fmt.Errorf("server.metrics_address must differ from server.http_address")
	}
	if _, err := c.SessionTTL(); err != nil {
		return fmt.Errorf("invalid security.session_ttl: %w", err)
	}
	if _, err := c.LockoutDuration(); err != nil {
		return fmt.Errorf("invalid security.lockout_duration: %w", err)
	}
	if c.Security.LockoutThreshold < 1 {
		return fmt.Errorf("security.lockout_threshold must be positive")
	}
	for _, role := range c.Notices.HidingRoles {
		switch models.Role(role) {
		case models.RoleAdmin, models.RoleEditor, models.RoleViewer:
		default:
			return fmt.Errorf("notices.hiding_roles: unknown role %q", role)
		}
	}
	if _, err := time.LoadLocation(c.Notices.Timezone); err != nil {
		return fmt.Errorf("invalid notices.timezone: %w", err)
	}
	for i, n := range c.Notices.Static {
		if n.Message == "" {
			return fmt.Errorf("notices.static[%d].message is required", i)
		}
	}
	if c.RateLimit.AjaxPerMinute < 1 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit values must be positive")
	}
	return nil
}

// SessionTTL returns the parsed session lifetime.
func (c *Config) SessionTTL() (time.Duration, error) {
	return positiveDuration(c.Security.SessionTTL)
}

// LockoutDuration returns the parsed account lockout time.
func (c *Config) LockoutDuration() (time.Duration, error) {
	return positiveDuration(c.Security.LockoutDuration)
}

// Location returns the display time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Notices.Timezone)
}

// StaticNotices converts the configured notices.
func (c *Config) StaticNotices() []notices.StaticNotice {
	list := make([]notices.StaticNotice, 0, len(c.Notices.Static))
	for _, n := range c.Notices.Static {
		list = append(list, notices.StaticNotice{
			Level:       notices.ParseLevel(n.Level),
			Message:     n.Message,
			Dismissible: n.Dismissible,
		})
	}
	return list
}

func positiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}

// LoadSecrets reads the server secrets from the environment.
func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if len(s.CSRFKey) < 32 {
		return nil, fmt.Errorf("ANM_CSRF_KEY must be at least 32 characters")
	}
	if len(s.SessionSecret) < 32 {
		return nil, fmt.Errorf("ANM_SESSION_SECRET must be at least 32 characters")
	}
	return &s, nil
}

// CSRFKeyBytes derives the 32-byte key the anti-forgery layer needs.
func (s *Secrets) CSRFKeyBytes() []byte {
	sum := sha256.Sum256([]byte(s.CSRFKey))
	return sum[:]
}
