package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devJWTSecret = "your-secret-key-change-this-in-production"

// weakSecrets are refused when APP_ENV=production.
var weakSecrets = []string{
	devJWTSecret,
	"your-super-secret-jwt-key-change-this-in-production",
	"secret",
	"changeme",
}

type Config struct {
	Port     int    `env:"PORT" envDefault:"5000"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	DBDriver         string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	DBHost           string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort           int           `env:"DB_PORT" envDefault:"5432"`
	DBUser           string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword       string        `env:"DB_PASSWORD"`
	DBName           string        `env:"DB_NAME" envDefault:"chamber"`
	DBSSLMode        string        `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath       string        `env:"SQLITE_PATH" envDefault:"./data/chamber.db"`
	DBMaxOpenConns   int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"5s"`

	JWTSecret     string        `env:"JWT_SECRET"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	ClientURL   string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	UploadsDir    string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Requests allowed per window, per client IP. Zero disables the limiter.
	AuthRateLimit  int           `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	AuthRateWindow time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"15m"`
	APIRateLimit   int           `env:"API_RATE_LIMIT" envDefault:"100"`
	APIRateWindow  time.Duration `env:"API_RATE_WINDOW" envDefault:"15m"`

	BrevoAPIKey       string `env:"BREVO_API_KEY"`
	BrevoSMTPUser     string `env:"BREVO_SMTP_USER"`
	BrevoSMTPPassword string `env:"BREVO_SMTP_PASSWORD"`
	SendGridAPIKey    string `env:"SENDGRID_API_KEY"`
	GmailUser         string `env:"GMAIL_USER"`
	GmailAppPassword  string `env:"GMAIL_APP_PASSWORD"`
	MailFrom          string `env:"MAIL_FROM" envDefault:"noreply@chamber.local"`
	MailFromName      string `env:"MAIL_FROM_NAME" envDefault:"Chamber of Commerce"`
	ResetLinkFallback bool   `env:"RESET_LINK_FALLBACK" envDefault:"false"`

	RollbarToken string `env:"ROLLBAR_TOKEN"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@admin.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

// PostgresDSN returns DATABASE_URL or a DSN assembled from the DB_* keys.
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}

	if !c.IsProduction() {
		if c.JWTSecret == "" {
			slog.Warn("JWT_SECRET is not set, using the development fallback secret")
			c.JWTSecret = devJWTSecret
		}
		return nil
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	for _, weak := range weakSecrets {
		if c.JWTSecret == weak {
			return errors.New("JWT_SECRET is a known default value and must not be used in production")
		}
	}
	if c.DBDriver == "postgres" && c.DatabaseURL == "" && c.DBPassword == "" {
		return errors.New("DATABASE_URL or DB_PASSWORD is required in production")
	}
	return nil
}
