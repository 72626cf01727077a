// Package config provides configuration management for the sync tool.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Starling StarlingConfig
	Ledger   LedgerConfig
	Debug    bool
}

// StarlingConfig represents Starling API configuration.
type StarlingConfig struct {
	AccessToken string
	APIURL      string
}

// LedgerConfig represents database and ledger output configuration.
type LedgerConfig struct {
	DBPath      string
	OutputPath  string
	Title       string
	Currency    string
	MappingPath string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	config := &Config{
		Starling: StarlingConfig{
			AccessToken: os.Getenv("STARLING_ACCESS_TOKEN"),
			APIURL:      getEnvOrDefault("STARLING_API_URL", "https://api.starlingbank.com/api/v2"),
		},
		Ledger: LedgerConfig{
			DBPath:      getEnvOrDefault("STARLING_DB_PATH", "./starling.db"),
			OutputPath:  getEnvOrDefault("LEDGER_OUTPUT_PATH", "./starling.beancount"),
			Title:       getEnvOrDefault("LEDGER_TITLE", "Starling Ledger"),
			Currency:    getEnvOrDefault("LEDGER_CURRENCY", "GBP"),
			MappingPath: os.Getenv("CATEGORY_MAPPING_PATH"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set. Fields are named by their
// dot-separated path, e.g. "starling.accessToken".
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, field := range required {
		var value string
		switch field {
		case "starling.accessToken":
			value = c.Starling.AccessToken
		case "starling.apiUrl":
			value = c.Starling.APIURL
		case "ledger.dbPath":
			value = c.Ledger.DBPath
		case "ledger.outputPath":
			value = c.Ledger.OutputPath
		case "ledger.title":
			value = c.Ledger.Title
		case "ledger.currency":
			value = c.Ledger.Currency
		case "ledger.mappingPath":
			value = c.Ledger.MappingPath
		}

		if value == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s\nPlease check your .env file or environment variables",
			strings.Join(missing, ", "))
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
