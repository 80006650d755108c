package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full runtime configuration, loaded from the environment.
type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`

	Mongo    MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Security SecurityConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=forka"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
	TLS      bool   `env:"REDIS_TLS,  default=false"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=noreply@forka.example"`
}

// SecurityConfig tunes the account security state machine.
type SecurityConfig struct {
	LockoutThreshold  int           `env:"LOCKOUT_THRESHOLD, default=5"`
	LockoutDuration   time.Duration `env:"LOCKOUT_DURATION,  default=15m"`
	BcryptCost        int           `env:"BCRYPT_COST,       default=0"` // 0 = library default
	PasswordMinLength int           `env:"PASSWORD_MIN_LENGTH, default=8"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
