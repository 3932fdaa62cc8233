package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL      string
	Port             string
	IsProduction     bool
	EnableDBCheck    bool
	JWTSecret        string
	RateLimit        string // ulule/limiter format, e.g. "100-M"
	BaseCurrency     string
	SeedOnStart      bool
	ReconcileOnStart bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("BASE_CURRENCY", "EUR")
	viper.SetDefault("SEED_ON_START", true)
	viper.SetDefault("RECONCILE_ON_START", false)

	// Environment variables override defaults and .env file values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.SeedOnStart = viper.GetBool("SEED_ON_START")
	cfg.ReconcileOnStart = viper.GetBool("RECONCILE_ON_START")

	return cfg, nil
}
