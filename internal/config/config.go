package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/components"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort            = 3000
	defaultEnv             = "development"
	defaultBaseURL         = "http://localhost:3000"
	defaultDBHost          = "127.0.0.1"
	defaultDBPort          = 3306
	defaultDBUser          = "root"
	defaultDBName          = "formbuilder"
	defaultDBCharset       = "utf8mb4"
	defaultDBLoc           = "Local"
	defaultDraftTTL        = 10 * time.Minute
	defaultSubmitPerMinute = 30
)

// Environment variables that override file values.
const (
	EnvAdminPassword = "FORMBUILDER_ADMIN_PASSWORD"
	EnvDSN           = "FORMBUILDER_DSN"
	EnvRedisURL      = "FORMBUILDER_REDIS_URL"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	BaseURL        string         `yaml:"base_url"`
	AdminPassword  string         `yaml:"admin_password"` // plain text or bcrypt hash
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Policy         PolicyConfig   `yaml:"policy"`
	Drafts         DraftsConfig   `yaml:"drafts"`
	RateLimit      RateLimit      `yaml:"rate_limit"`
}

// DatabaseConfig selects the MySQL database. DSN wins over the discrete
// fields; an empty Driver of "memory" keeps everything in process.
type DatabaseConfig struct {
	Driver    string            `yaml:"driver"` // "mysql" | "memory"
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

// RedisConfig enables redis-backed drafts and rate limiting when URL is set.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// PolicyConfig mirrors components.Policy and validation.Policy.
type PolicyConfig struct {
	OptionCap             int  `yaml:"option_cap"`
	DefaultOptionCount    int  `yaml:"default_option_count"`
	RatingCap             int  `yaml:"rating_cap"`
	EnforceRequired       bool `yaml:"enforce_required"`
	EnforceAllowedDomains bool `yaml:"enforce_allowed_domains"`
	EnforceOptions        bool `yaml:"enforce_options"`
	// StrictContract also checks submissions against the OpenAPI payload
	// schema with bounds and unknown-key checks.
	StrictContract bool `yaml:"strict_contract"`
}

// DraftsConfig controls draft preview hand-off.
type DraftsConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// RateLimit bounds submissions per client IP.
type RateLimit struct {
	SubmitPerMinute int `yaml:"submit_per_minute"`
}

// Load reads path, applies defaults, environment overrides and validation.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML content. Unknown keys are rejected.
func Parse(content []byte) (*AppConfig, error) {
	cfg := Default()
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(&cfg, os.LookupEnv)
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when a key is absent.
func Default() AppConfig {
	return AppConfig{
		Port:    defaultPort,
		Env:     defaultEnv,
		BaseURL: defaultBaseURL,
		Database: DatabaseConfig{
			Driver:    "mysql",
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Policy: PolicyConfig{
			OptionCap:          components.DefaultOptionCap,
			DefaultOptionCount: components.DefaultOptionCount,
			RatingCap:          components.DefaultRatingCap,
		},
		Drafts:    DraftsConfig{TTL: defaultDraftTTL},
		RateLimit: RateLimit{SubmitPerMinute: defaultSubmitPerMinute},
	}
}

func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAdminPassword); ok && strings.TrimSpace(v) != "" {
		cfg.AdminPassword = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvDSN); ok && strings.TrimSpace(v) != "" {
		cfg.Database.DSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvRedisURL); ok && strings.TrimSpace(v) != "" {
		cfg.Redis.URL = strings.TrimSpace(v)
	}
}

func normalize(cfg *AppConfig) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	origins := cfg.AllowedOrigins[:0]
	for _, origin := range cfg.AllowedOrigins {
		if trimmed := strings.TrimRight(strings.TrimSpace(origin), "/"); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	cfg.AllowedOrigins = origins
	if cfg.Drafts.TTL <= 0 {
		cfg.Drafts.TTL = defaultDraftTTL
	}
	if cfg.RateLimit.SubmitPerMinute < 0 {
		cfg.RateLimit.SubmitPerMinute = 0
	}
}

// Validate reports configuration errors that cannot be defaulted.
func (c AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	switch c.Database.Driver {
	case "mysql":
		if c.Database.DSN == "" && (c.Database.Port < 1 || c.Database.Port > 65535) {
			return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Policy.OptionCap < 1 {
		return fmt.Errorf("invalid policy.option_cap %d, expected >= 1", c.Policy.OptionCap)
	}
	if c.Policy.DefaultOptionCount < 0 || c.Policy.DefaultOptionCount > c.Policy.OptionCap {
		return fmt.Errorf("invalid policy.default_option_count %d, expected 0-%d", c.Policy.DefaultOptionCount, c.Policy.OptionCap)
	}
	if c.Policy.RatingCap < 1 || c.Policy.RatingCap > widgets.MaxRatingStars {
		return fmt.Errorf("invalid policy.rating_cap %d, expected 1-%d", c.Policy.RatingCap, widgets.MaxRatingStars)
	}
	return nil
}

// IsDev reports whether the server runs in development mode.
func (c AppConfig) IsDev() bool {
	return c.Env == "development"
}

// ComponentPolicy converts the policy section for the component registry.
func (c AppConfig) ComponentPolicy() components.Policy {
	return components.Policy{
		OptionCap:          c.Policy.OptionCap,
		DefaultOptionCount: c.Policy.DefaultOptionCount,
		RatingCap:          c.Policy.RatingCap,
	}
}

// ValidationPolicy converts the policy section for submission checks.
func (c AppConfig) ValidationPolicy() validation.Policy {
	return validation.Policy{
		EnforceRequired:       c.Policy.EnforceRequired,
		EnforceAllowedDomains: c.Policy.EnforceAllowedDomains,
		EnforceOptions:        c.Policy.EnforceOptions,
	}
}
