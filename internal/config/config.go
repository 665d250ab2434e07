// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted in DB_DRIVER.
const (
	DriverMongo   = "mongo"
	DriverMariaDB = "mariadb"
)

// devSecretKey is used when JWT_SECRET is unset outside production. Tokens
// signed with it can be forged by anyone who has read this file.
const devSecretKey = "dev-secret-key-do-not-use-in-production!!"

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string `envconfig:"ENV" default:"development"`

	// Port is the HTTP listen port.
	Port int `envconfig:"PORT" default:"8000"`

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`

	// FrontendOrigin is the single origin allowed to make cross-origin
	// requests with credentials.
	FrontendOrigin string `envconfig:"FRONTEND_ORIGIN" default:"http://127.0.0.1:3000"`

	// StaticDir is served under /static; landing.html inside it backs GET /.
	StaticDir string `envconfig:"STATIC_DIR" default:"static"`

	// AllowAdminSignup lets the signup body set is_admin. Off by default.
	AllowAdminSignup bool `envconfig:"ALLOW_ADMIN_SIGNUP" default:"false"`

	// Database selects the store driver and holds MariaDB settings.
	Database DatabaseConfig `envconfig:"DB"`

	// Mongo holds MongoDB connection settings.
	Mongo MongoConfig `envconfig:"MONGO"`

	// Auth holds token signing settings.
	Auth AuthConfig `envconfig:"JWT"`
}

// DatabaseConfig holds the store driver and MariaDB connection parameters.
// Individual fields (Host, User, Password, Name) are read from separate env
// vars so container orchestrators can manage each independently. If DB_URL
// is set, it takes precedence over the individual fields.
type DatabaseConfig struct {
	// Driver is "mongo" (default) or "mariadb".
	Driver string `split_words:"true" default:"mongo"`

	// Host is the MariaDB address in host:port format. If no port is
	// specified, 3306 is appended automatically.
	Host string `split_words:"true" default:"localhost:3306"`

	// User is the MariaDB username.
	User string `split_words:"true" default:"together"`

	// Password is the MariaDB password.
	Password string `split_words:"true" default:"together"`

	// Name is the database name.
	Name string `split_words:"true" default:"together_culture"`

	// URL is a complete DSN, bypassing the individual fields.
	URL string `split_words:"true"`

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int `split_words:"true" default:"25"`

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int `split_words:"true" default:"5"`

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration `split_words:"true" default:"5m"`
}

// DSN returns the go-sql-driver/mysql connection string. If DB_URL was set,
// it is parsed and re-encoded with parseTime forced on, since the
// repositories scan DATETIME columns into time.Time. Otherwise the DSN is
// built from the individual Host/User/Password/Name fields using the
// driver's Config.FormatDSN() to safely handle special characters in
// passwords.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		cfg, err := mysql.ParseDSN(d.URL)
		if err != nil {
			// Rejected by validate; sql.Open reports it again if reached.
			return d.URL
		}
		cfg.ParseTime = true
		return cfg.FormatDSN()
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// MongoConfig holds MongoDB connection parameters.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string `split_words:"true" default:"mongodb://localhost:27017"`

	// Database is the database holding the users, events, messages and
	// content collections.
	Database string `split_words:"true" default:"together_culture"`

	// CAFile is an optional PEM bundle used to verify the server certificate.
	CAFile string `split_words:"true"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	// Secret is the HMAC key tokens are signed with.
	Secret string `split_words:"true"`

	// TTL is how long an issued token stays valid.
	TTL time.Duration `split_words:"true" default:"30m"`
}

// Load reads an optional .env file, then configuration from environment
// variables with sensible defaults. Returns an error if required variables
// are missing or values are out of range.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field rules and fills the development secret.
func (c *Config) validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverMongo, DriverMariaDB:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverMongo, DriverMariaDB, c.Database.Driver)
	}

	if c.Database.Driver == DriverMariaDB && c.Database.URL != "" {
		if _, err := mysql.ParseDSN(c.Database.URL); err != nil {
			return fmt.Errorf("DB_URL is not a valid MariaDB DSN: %w", err)
		}
	}

	if c.Auth.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.TTL)
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	if c.IsProduction() {
		if c.Auth.Secret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if len(c.Auth.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
	}

	if c.Auth.Secret == "" {
		slog.Warn("JWT_SECRET not set, using the insecure development key")
		c.Auth.Secret = devSecretKey
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
