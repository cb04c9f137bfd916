// Package config loads service settings from defaults, an optional YAML file,
// .env files and SALESDASH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sales-dashboard/pkg/logging"
)

const EnvPrefix = "SALESDASH_"

// DevSessionSecret signs tokens when no secret is configured. It is rejected
// in production.
const DevSessionSecret = "salesdash-dev-secret"

var ErrInsecureSecret = errors.New("config: session secret must be set in production")

type ServerConfig struct {
	Address   string `yaml:"address"`
	Transport string `yaml:"transport"`
	BasePath  string `yaml:"base_path"`
}

type StoreConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	// Offline serves the bundled demo data instead of calling the API.
	Offline bool `yaml:"offline"`
}

type RefreshConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

type SessionConfig struct {
	Secret      string        `yaml:"secret"`
	TTL         time.Duration `yaml:"ttl"`
	Store       string        `yaml:"store"`
	RedisAddr   string        `yaml:"redis_addr"`
	RedisPrefix string        `yaml:"redis_prefix"`
}

// Config is the full service configuration.
type Config struct {
	Environment string         `yaml:"environment"`
	Theme       string         `yaml:"theme"`
	Server      ServerConfig   `yaml:"server"`
	Store       StoreConfig    `yaml:"store"`
	Refresh     RefreshConfig  `yaml:"refresh"`
	Session     SessionConfig  `yaml:"session"`
	Log         logging.Config `yaml:"log"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Environment: "development",
		Theme:       "dark",
		Server: ServerConfig{
			Address:   ":8080",
			Transport: "nethttp",
			BasePath:  "/admin",
		},
		Store: StoreConfig{
			BaseURL:           "https://fakestoreapi.com",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
			Burst:             3,
		},
		Refresh: RefreshConfig{
			Enabled:  true,
			Schedule: "@every 5m",
		},
		Session: SessionConfig{
			Secret:      DevSessionSecret,
			TTL:         12 * time.Hour,
			Store:       "memory",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "salesdash:session:",
		},
		Log: logging.Config{Level: "info"},
	}
}

// LoadOptions controls where settings are read from.
type LoadOptions struct {
	// File is an optional YAML file. A missing file is an error only when set.
	File string
	// EnvFiles are loaded with godotenv; missing files are skipped. Values
	// already present in the environment win.
	EnvFiles []string
	// Lookup replaces os.LookupEnv, mostly for tests.
	Lookup func(string) (string, bool)
}

// Load resolves the configuration.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		raw, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", opts.File, err)
		}
	}

	for _, file := range opts.EnvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Server.Transport {
	case "nethttp", "fiber":
	default:
		errs = append(errs, fmt.Errorf("config: unknown transport %q", c.Server.Transport))
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("config: unknown session store %q", c.Session.Store))
	}
	switch c.Theme {
	case "dark", "light":
	default:
		errs = append(errs, fmt.Errorf("config: unknown theme %q", c.Theme))
	}
	secret := strings.TrimSpace(c.Session.Secret)
	switch {
	case secret == "":
		errs = append(errs, errors.New("config: session secret is required"))
	case c.IsProduction() && secret == DevSessionSecret:
		errs = append(errs, ErrInsecureSecret)
	}
	if c.Refresh.Enabled && strings.TrimSpace(c.Refresh.Schedule) == "" {
		errs = append(errs, errors.New("config: refresh schedule is required when refresh is enabled"))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

type envBinding struct {
	key   string
	apply func(string) error
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	bindings := []envBinding{
		{"ENV", setString(&cfg.Environment)},
		{"THEME", setString(&cfg.Theme)},
		{"ADDR", setString(&cfg.Server.Address)},
		{"TRANSPORT", setString(&cfg.Server.Transport)},
		{"BASE_PATH", setString(&cfg.Server.BasePath)},
		{"STORE_URL", setString(&cfg.Store.BaseURL)},
		{"STORE_TIMEOUT", setDuration(&cfg.Store.Timeout)},
		{"STORE_RPS", setFloat(&cfg.Store.RequestsPerSecond)},
		{"STORE_BURST", setInt(&cfg.Store.Burst)},
		{"OFFLINE", setBool(&cfg.Store.Offline)},
		{"REFRESH_ENABLED", setBool(&cfg.Refresh.Enabled)},
		{"REFRESH_SCHEDULE", setString(&cfg.Refresh.Schedule)},
		{"JWT_SECRET", setString(&cfg.Session.Secret)},
		{"SESSION_TTL", setDuration(&cfg.Session.TTL)},
		{"SESSION_STORE", setString(&cfg.Session.Store)},
		{"REDIS_ADDR", setString(&cfg.Session.RedisAddr)},
		{"REDIS_PREFIX", setString(&cfg.Session.RedisPrefix)},
		{"LOG_LEVEL", setString(&cfg.Log.Level)},
		{"LOG_DEV", setBool(&cfg.Log.Development)},
		{"LOG_ENCODING", setString(&cfg.Log.Encoding)},
	}

	var errs []error
	for _, b := range bindings {
		raw, ok := lookup(EnvPrefix + b.key)
		if !ok {
			continue
		}
		if err := b.apply(strings.TrimSpace(raw)); err != nil {
			errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, b.key, err))
		}
	}
	return errors.Join(errs...)
}

func setString(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setBool(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func setFloat(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

func setDuration(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}
