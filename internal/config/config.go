package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ndtdash/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig    `validate:"required"`
	Server  ServerConfig  `validate:"required"`
	Logging LoggingConfig `validate:"required"`
}

// DataConfig holds the locations of the two source spreadsheets
type DataConfig struct {
	PlannedFile   string `validate:"required"`
	ExecutedFile  string `validate:"required"`
	PlannedSheet  string
	ExecutedSheet string
	KindsFile     string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string `validate:"required,numeric"`
	APIPort      string `validate:"required,numeric"`
	GinMode      string `validate:"oneof=debug release test"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
	File   string
	Format string `validate:"oneof=json console"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:    *loadDataConfig(),
		Server:  *loadServerConfig(),
		Logging: *loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		PlannedFile:   getEnvOrDefault("PLANNED_FILE", "dados/dados.planejado.xlsx"),
		ExecutedFile:  getEnvOrDefault("EXECUTED_FILE", "dados/dados.realizado.xlsx"),
		PlannedSheet:  getEnvOrDefault("PLANNED_SHEET", ""),
		ExecutedSheet: getEnvOrDefault("EXECUTED_SHEET", ""),
		KindsFile:     getEnvOrDefault("KINDS_FILE", ""),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:         getEnvOrDefault("PORT", "8080"),
		APIPort:      getEnvOrDefault("API_PORT", "8081"),
		GinMode:      getEnvOrDefault("GIN_MODE", "release"),
		ReadTimeout:  getEnvDurationOrDefault("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvDurationOrDefault("WRITE_TIMEOUT", 60*time.Second),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		File:   getEnvOrDefault("LOG_FILE", ""),
		Format: getEnvOrDefault("LOG_FORMAT", "console"),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return errors.ConfigInvalid("invalid settings: " + strings.Join(fields, ", "))
		}
		return errors.Wrap(err, "config validation")
	}
	if config.Server.Port == config.Server.APIPort {
		return errors.ConfigInvalid("PORT and API_PORT must differ")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
