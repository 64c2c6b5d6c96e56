package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		BaseURL     string `yaml:"base_url" env:"SERVER_BASE_URL"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		CORSOrigins string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Admin struct {
		// Emails is a comma separated allowlist of administrator accounts
		Emails string `yaml:"emails" env:"ADMIN_EMAILS"`
	} `yaml:"admin"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Storage struct {
		Driver          string `yaml:"driver" env:"STORAGE_DRIVER"`
		Bucket          string `yaml:"bucket" env:"STORAGE_BUCKET"`
		Region          string `yaml:"region" env:"STORAGE_REGION"`
		Endpoint        string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
		AccessKeyID     string `yaml:"access_key_id" env:"STORAGE_ACCESS_KEY_ID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"STORAGE_SECRET_ACCESS_KEY"`
		PublicBaseURL   string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
	} `yaml:"storage"`

	Geocode struct {
		APIKey   string `yaml:"api_key" env:"GEOCODE_API_KEY"`
		Endpoint string `yaml:"endpoint" env:"GEOCODE_ENDPOINT"`
		CacheTTL string `yaml:"cache_ttl" env:"GEOCODE_CACHE_TTL"`
	} `yaml:"geocode"`

	Notify struct {
		FunctionURL string `yaml:"function_url" env:"NOTIFY_FUNCTION_URL"`
		Secret      string `yaml:"secret" env:"NOTIFY_SECRET"`
		AdminURL    string `yaml:"admin_url" env:"NOTIFY_ADMIN_URL"`
	} `yaml:"notify"`

	Mailer struct {
		Port         string `yaml:"port" env:"MAILER_PORT"`
		Provider     string `yaml:"provider" env:"MAILER_PROVIDER"`
		APIEndpoint  string `yaml:"api_endpoint" env:"MAILER_API_ENDPOINT"`
		APIKey       string `yaml:"api_key" env:"MAILER_API_KEY"`
		From         string `yaml:"from" env:"MAILER_FROM"`
		Recipients   string `yaml:"recipients" env:"MAILER_RECIPIENTS"`
		SMTPHost     string `yaml:"smtp_host" env:"MAILER_SMTP_HOST"`
		SMTPPort     int    `yaml:"smtp_port" env:"MAILER_SMTP_PORT"`
		SMTPUsername string `yaml:"smtp_username" env:"MAILER_SMTP_USERNAME"`
		SMTPPassword string `yaml:"smtp_password" env:"MAILER_SMTP_PASSWORD"`
	} `yaml:"mailer"`

	ComingSoon struct {
		Enabled        bool   `yaml:"enabled" env:"COMING_SOON"`
		AllowPrefixes  string `yaml:"allow_prefixes" env:"COMING_SOON_ALLOW_PREFIXES"`
		LandingPath    string `yaml:"landing_path" env:"COMING_SOON_LANDING_PATH"`
		PreviewKeyHash string `yaml:"preview_key_hash" env:"COMING_SOON_PREVIEW_KEY_HASH"`
	} `yaml:"coming_soon"`

	RateLimit struct {
		Requests int    `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`
		Window   string `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	} `yaml:"rate_limit"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config, err := load(configPath)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// LoadMailerConfig loads the same sources but only validates what the mailer function uses
func LoadMailerConfig(configPath string) (*Config, error) {
	config, err := load(configPath)
	if err != nil {
		return nil, err
	}
	if err := validateMailer(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func load(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is normal outside local development
	_ = godotenv.Load()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BaseURL = "http://localhost:3000"
	config.Server.StoragePath = "uploads"
	config.Server.CORSOrigins = "http://localhost:3000"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "collective"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.Issuer = ""
	config.JWT.AccessTokenExpiration = "1h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Driver = "local"
	config.Storage.Region = "us-east-1"

	config.Geocode.Endpoint = "https://maps.googleapis.com/maps/api/geocode/json"
	config.Geocode.CacheTTL = "168h"

	config.Mailer.Port = "8090"
	config.Mailer.Provider = "api"
	config.Mailer.APIEndpoint = "https://api.resend.com/emails"
	config.Mailer.SMTPPort = 587

	config.ComingSoon.AllowPrefixes = "/coming-soon,/api/waitlist,/api/preview,/static,/favicon.ico,/robots.txt,/sitemap.xml"
	config.ComingSoon.LandingPath = "/coming-soon"

	config.RateLimit.Requests = 30
	config.RateLimit.Window = "1m"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	for name, value := range map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"geocode cache ttl":           config.Geocode.CacheTTL,
		"rate limit window":           config.RateLimit.Window,
		"database conn max lifetime":  config.Database.ConnMaxLifetime,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch strings.ToLower(config.Storage.Driver) {
	case "local":
	case "s3":
		if config.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	return validateMailer(config)
}

func validateMailer(config *Config) error {
	switch strings.ToLower(config.Mailer.Provider) {
	case "api", "smtp":
	default:
		return fmt.Errorf("unknown mailer provider %q", config.Mailer.Provider)
	}
	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// AdminEmails returns the normalised admin allowlist.
func (c *Config) AdminEmails() []string {
	return SplitList(c.Admin.Emails, strings.ToLower)
}

// MailRecipients returns the addresses that receive moderation emails.
func (c *Config) MailRecipients() []string {
	return SplitList(c.Mailer.Recipients, nil)
}

// ComingSoonPrefixes returns the path prefixes that bypass the coming-soon gate.
func (c *Config) ComingSoonPrefixes() []string {
	return SplitList(c.ComingSoon.AllowPrefixes, nil)
}

// CORSOrigins returns the allowed CORS origins.
func (c *Config) CORSOrigins() []string {
	return SplitList(c.Server.CORSOrigins, nil)
}

// SplitList splits a comma separated value, trimming blanks and applying an optional transform.
func SplitList(value string, transform func(string) string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if transform != nil {
			part = transform(part)
		}
		out = append(out, part)
	}
	return out
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
