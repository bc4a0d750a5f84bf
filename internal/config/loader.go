package config

import (
	"log"
	"os"
	"strconv"
)

// Load loads configuration from environment variables.
// Falls back to defaults for any missing values.
func Load() *Config {
	cfg := Default()

	if port := os.Getenv("FILLSTATION_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	if host := os.Getenv("FILLSTATION_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if logLevel := os.Getenv("FILLSTATION_LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if registryPath := os.Getenv("FILLSTATION_HARDWARE_REGISTRY"); registryPath != "" {
		cfg.Hardware.RegistryPath = registryPath
	}

	if logDir := os.Getenv("FILLSTATION_LOG_DIR"); logDir != "" {
		cfg.Logging.Dir = logDir
	}

	if csvDir := os.Getenv("FILLSTATION_CSV_DIR"); csvDir != "" {
		cfg.Logging.CSVDir = csvDir
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}
