package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr         string        `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr          string        `env:"ADMIN_ADDR" envDefault:":9091"`
	MaxUpdateSize      int64         `env:"MAX_UPDATE_SIZE_BYTES" envDefault:"1048576"` // 1MB
	PostgresURL        string        `env:"POSTGRES_URL,required"`
	RedisAddr          string        `env:"REDIS_ADDR"` // optional, empty disables update dedupe
	DedupeTTL          time.Duration `env:"DEDUPE_TTL" envDefault:"24h"`
	AuthorizedUsername string        `env:"AUTHORIZED_USERNAME,required"`
	TelegramBotToken   string        `env:"TELEGRAM_BOT_TOKEN,required"`
	NutritionixAppID   string        `env:"NUTRITIONIX_APP_ID,required"`
	NutritionixAppKey  string        `env:"NUTRITIONIX_APP_KEY,required"`
	OperandAPIKey      string        `env:"OPERAND_API_KEY"`   // optional, indexing disabled when unset
	OperandParentID    string        `env:"OPERAND_PARENT_ID"` // optional, indexing disabled when unset
	PublicBaseURL      string        `env:"PUBLIC_BASE_URL"`   // optional, used for absolute media links
}

// IndexingEnabled reports whether a semantic-search index target is configured.
func (c *Config) IndexingEnabled() bool {
	return c.OperandAPIKey != "" && c.OperandParentID != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
