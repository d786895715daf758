package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Template TemplateConfig
	Extract  ExtractConfig
	LogLevel string
}

// TemplateConfig holds workbook template configuration
type TemplateConfig struct {
	Path       string
	OutputPath string
}

// ExtractConfig holds extraction-related configuration
type ExtractConfig struct {
	Provider     string
	MaxTextBytes int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Template: TemplateConfig{
			Path:       getEnv("TEMPLATE_PATH", ""),
			OutputPath: getEnv("OUTPUT_PATH", "filled.xlsx"),
		},
		Extract: ExtractConfig{
			Provider:     getEnv("PROVIDER", "auto"),
			MaxTextBytes: getEnvAsInt("MAX_TEXT_BYTES", 4<<20),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Extract.MaxTextBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_TEXT_BYTES must be positive", ErrInvalidInput)
	}
	if c.Template.OutputPath == "" {
		return NewAppError("CONFIG_ERROR", "OUTPUT_PATH is required", ErrInvalidInput)
	}
	return nil
}
