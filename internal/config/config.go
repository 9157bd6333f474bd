// Package config handles application configuration management.
//
// Configuration is layered: built-in defaults, then an optional YAML file named
// by DV_CONFIG_FILE, then DV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable the application reads.
const EnvPrefix = "DV_"

// ConfigFileEnv names the environment variable pointing at an optional YAML file.
const ConfigFileEnv = EnvPrefix + "CONFIG_FILE"

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server" envPrefix:"SERVER_"`
	Google      GoogleConfig      `yaml:"google" envPrefix:"GOOGLE_"`
	Session     SessionConfig     `yaml:"session" envPrefix:"SESSION_"`
	Credentials CredentialsConfig `yaml:"credentials" envPrefix:"CREDENTIALS_"`
	Database    DatabaseConfig    `yaml:"database" envPrefix:"DB_"`
	// LogLevel is one of debug, info, warn, error
	LogLevel    string      `yaml:"log_level" env:"LOG_LEVEL"`
	Environment Environment `yaml:"environment" env:"ENV"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Address string `yaml:"address" env:"ADDRESS"`
}

// GoogleConfig holds the OAuth client registered with Google.
type GoogleConfig struct {
	ClientID     string   `yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret string   `yaml:"client_secret" env:"CLIENT_SECRET"` //nolint:gosec // G117: intentional field for auth credentials
	RedirectURL  string   `yaml:"redirect_url" env:"REDIRECT_URL"`
	IssuerURL    string   `yaml:"issuer_url" env:"ISSUER_URL"`
	Scopes       []string `yaml:"scopes" env:"SCOPES" envSeparator:","`
}

// SessionConfig defines how browser sessions are stored and secured.
type SessionConfig struct {
	StoreType      SessionStoreType `yaml:"store_type" env:"STORE_TYPE"`
	Secret         string           `yaml:"secret" env:"SECRET"`
	CookieName     string           `yaml:"cookie_name" env:"COOKIE_NAME"`
	CookieDomain   string           `yaml:"cookie_domain" env:"COOKIE_DOMAIN"`
	CookieSameSite CookieSameSite   `yaml:"cookie_samesite" env:"COOKIE_SAMESITE"`
	// MaxAge is the cookie lifetime in seconds
	MaxAge int `yaml:"max_age" env:"MAX_AGE"`
}

// CredentialsConfig selects the credential store backend.
type CredentialsConfig struct {
	Store CredentialStoreType `yaml:"store" env:"STORE"`
	// EncryptionKey seals tokens at rest in the SQL store; defaults to the session secret
	EncryptionKey string `yaml:"encryption_key" env:"ENCRYPTION_KEY"`
	// RetentionDays prunes credentials not renewed for this many days; 0 keeps them forever
	RetentionDays int `yaml:"retention_days" env:"RETENTION_DAYS"`
}

// DatabaseConfig holds connection parameters for the SQL credential store.
type DatabaseConfig struct {
	Driver   DatabaseDriver `yaml:"driver" env:"DRIVER"`
	Host     string         `yaml:"host" env:"HOST"`
	Port     int            `yaml:"port" env:"PORT"`
	User     string         `yaml:"user" env:"USER"`
	Password string         `yaml:"password" env:"PASSWORD"`
	Database string         `yaml:"database" env:"NAME"`
	// Path is the SQLite database file, used when Driver is sqlite
	Path string `yaml:"path" env:"PATH"`
}

const defaultSessionSecret = "change-me-in-production"

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Google: GoogleConfig{
			RedirectURL: "http://localhost:8080/",
			IssuerURL:   "https://accounts.google.com",
			Scopes: []string{
				"openid",
				"email",
				"https://www.googleapis.com/auth/drive.file",
				"https://www.googleapis.com/auth/drive.install",
			},
		},
		Session: SessionConfig{
			StoreType:      StoreTypeCookie,
			Secret:         defaultSessionSecret,
			CookieName:     "directviewer_session",
			CookieSameSite: SameSiteLax,
			MaxAge:         86400 * 7,
		},
		Credentials: CredentialsConfig{
			Store:         CredentialStoreMemory,
			RetentionDays: 90,
		},
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			Host:     "localhost",
			Port:     3306,
			User:     "directviewer",
			Database: "directviewer",
			Path:     "./directviewer.db",
		},
		LogLevel:    "info",
		Environment: EnvDevelopment,
	}
}

// Load builds the configuration from defaults, the optional YAML file and the environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg.
func (c *Config) loadFile(path string) error {
	// #nosec G304 - path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	var errs []error

	if c.Google.ClientID == "" {
		errs = append(errs, errors.New("google client id is required"))
	}
	if c.Google.ClientSecret == "" {
		errs = append(errs, errors.New("google client secret is required"))
	}
	if !c.Environment.IsValid() {
		errs = append(errs, fmt.Errorf("invalid environment %q", c.Environment))
	}
	if !c.Session.StoreType.IsValid() {
		errs = append(errs, fmt.Errorf("invalid session store type %q", c.Session.StoreType))
	}
	if !c.Session.CookieSameSite.IsValid() {
		errs = append(errs, fmt.Errorf("invalid cookie samesite policy %q", c.Session.CookieSameSite))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session secret is required"))
	}
	if c.Environment.IsProduction() && c.Session.Secret == defaultSessionSecret {
		errs = append(errs, errors.New("session secret must be changed in production"))
	}
	if !c.Credentials.Store.IsValid() {
		errs = append(errs, fmt.Errorf("invalid credential store %q", c.Credentials.Store))
	}
	if c.Credentials.RetentionDays < 0 {
		errs = append(errs, fmt.Errorf("credential retention must not be negative, got %d days", c.Credentials.RetentionDays))
	}
	if c.Credentials.Store == CredentialStoreSQL && !c.Database.Driver.IsValid() {
		errs = append(errs, fmt.Errorf("invalid database driver %q", c.Database.Driver))
	}

	return errors.Join(errs...)
}

// CredentialRetention returns how long an unrenewed credential is kept.
// Zero means credentials are never pruned.
func (c *Config) CredentialRetention() time.Duration {
	return time.Duration(c.Credentials.RetentionDays) * 24 * time.Hour
}

// TokenKey returns the secret used to seal stored tokens.
func (c *Config) TokenKey() string {
	if c.Credentials.EncryptionKey != "" {
		return c.Credentials.EncryptionKey
	}
	return c.Session.Secret
}
