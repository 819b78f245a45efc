package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET,  required"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=168h"`
	OTPTTL     time.Duration `env:"OTP_TTL,     default=10m"`

	Mongo MongoConfig
	Redis RedisConfig
	Email EmailConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=investor_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// EmailConfig drives passcode delivery. An empty APIKey switches the sender
// to log-only mode: acceptable for development, a functional gap in
// production.
type EmailConfig struct {
	APIURL string `env:"EMAIL_API_URL, default=https://api.resend.com/emails"`
	APIKey string `env:"EMAIL_API_KEY"`
	From   string `env:"EMAIL_FROM,    default=no-reply@meridiancredit.example"`
}

// IsProduction reports whether cookies must be Secure/SameSite=None.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
// A missing JWT_SECRET is a startup error, not a runtime condition.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
