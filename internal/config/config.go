// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

// KeysConfig points at the remote key-issuing endpoint.
type KeysConfig struct {
	BaseURL string        `yaml:"base_url"` // e.g. http://127.0.0.1:8000/api/keys/
	RootURL string        `yaml:"root_url"` // redeem success navigates here with ?code=
	SubKey  string        `yaml:"sub_key"`  // render | voevoda | person
	Timeout time.Duration `yaml:"timeout"`  // 0 = wait forever
}

// PageConfig holds the element IDs of the access page.
type PageConfig struct {
	IssueForm  string `yaml:"issue_form"`
	RedeemForm string `yaml:"redeem_form"`
	NameField  string `yaml:"name_field"`
	CodeField  string `yaml:"code_field"`
}

type PortalConfig struct {
	Port          int           `yaml:"port"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SecureCookie  bool          `yaml:"secure_cookie"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty = in-process page state
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Keys    KeysConfig    `yaml:"keys"`
	Page    PageConfig    `yaml:"page"`
	Portal  PortalConfig  `yaml:"portal"`
	Log     LogConfig     `yaml:"log"`
	Redis   RedisConfig   `yaml:"redis"`
	Metrics MetricsConfig `yaml:"metrics"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, applies defaults and validates.
// A missing file is only tolerated in dev mode, where defaults are enough.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && dev:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Keys.BaseURL == "" {
		c.Keys.BaseURL = "http://127.0.0.1:8000/api/keys/"
	}
	if c.Keys.RootURL == "" {
		c.Keys.RootURL = "http://127.0.0.1:8000/"
	}
	if c.Keys.SubKey == "" {
		c.Keys.SubKey = "render"
	}
	if c.Page.IssueForm == "" {
		c.Page.IssueForm = "access_code_form"
	}
	if c.Page.RedeemForm == "" {
		c.Page.RedeemForm = "validate_code_form"
	}
	if c.Page.NameField == "" {
		c.Page.NameField = "name"
	}
	if c.Page.CodeField == "" {
		c.Page.CodeField = "code"
	}
	if c.Portal.Port == 0 {
		c.Portal.Port = 8080
	}
	if c.Portal.SessionTTL <= 0 {
		c.Portal.SessionTTL = 30 * time.Minute
	}
	if c.Portal.SessionSecret == "" && c.Runtime.Dev {
		c.Portal.SessionSecret = "dev-session-secret-change-me"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	c.Redis.TTL = normalizeTTL(c.Redis.TTL, c.Portal.SessionTTL)
}

// Validate performs the minimal checks needed before wiring adapters.
func (c *Config) Validate() error {
	if _, err := parseAbsURL(c.Keys.BaseURL); err != nil {
		return fmt.Errorf("keys.base_url: %w", err)
	}
	if _, err := parseAbsURL(c.Keys.RootURL); err != nil {
		return fmt.Errorf("keys.root_url: %w", err)
	}
	if c.Keys.Timeout < 0 {
		return errors.New("keys.timeout must not be negative")
	}
	if c.Page.IssueForm == c.Page.RedeemForm {
		return errors.New("page.issue_form and page.redeem_form must differ")
	}
	return nil
}

// ValidatePortal adds the checks only the portal host needs.
func (c *Config) ValidatePortal() error {
	if c.Portal.SessionSecret == "" {
		return errors.New("portal.session_secret is required")
	}
	if c.Portal.Port <= 0 || c.Portal.Port > 65535 {
		return fmt.Errorf("portal.port %d out of range", c.Portal.Port)
	}
	return nil
}

func parseAbsURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute url", raw)
	}
	return u, nil
}

func normalizeTTL(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
