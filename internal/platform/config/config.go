package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	RunMigrations bool

	// Worker settings
	WorkerEnabled      bool
	WorkerPollInterval time.Duration
	ReconBatchBudget   time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("WORKER_ENABLED", true)
	viper.SetDefault("WORKER_POLL_INTERVAL", "5s")
	viper.SetDefault("RECON_BATCH_BUDGET", "30s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.WorkerEnabled = viper.GetBool("WORKER_ENABLED")

	pollIntervalStr := viper.GetString("WORKER_POLL_INTERVAL")
	pollInterval, err := time.ParseDuration(pollIntervalStr)
	if err != nil {
		pollInterval = 5 * time.Second
		if pollIntervalStr != "" {
			log.Printf("Warning: Invalid value for WORKER_POLL_INTERVAL ('%s'). Defaulting to %s.\n", pollIntervalStr, pollInterval.String())
		}
	}
	cfg.WorkerPollInterval = pollInterval

	batchBudgetStr := viper.GetString("RECON_BATCH_BUDGET")
	batchBudget, err := time.ParseDuration(batchBudgetStr)
	if err != nil {
		batchBudget = 30 * time.Second
		if batchBudgetStr != "" {
			log.Printf("Warning: Invalid value for RECON_BATCH_BUDGET ('%s'). Defaulting to %s.\n", batchBudgetStr, batchBudget.String())
		}
	}
	cfg.ReconBatchBudget = batchBudget

	return cfg, nil
}
