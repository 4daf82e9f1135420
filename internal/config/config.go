package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host"`
		Port            string `yaml:"port"`
		User            string `yaml:"user"`
		Password        string `yaml:"password"`
		DBName          string `yaml:"dbname"`
		SSLMode         string `yaml:"sslmode"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret"`
		AccessTokenExpiration  string `yaml:"access_token_expiration"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration"`
		Issuer                 string `yaml:"issuer"`
	} `yaml:"jwt"`

	SMTP struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		Username  string `yaml:"username"`
		Password  string `yaml:"password"`
		FromName  string `yaml:"from_name"`
		FromEmail string `yaml:"from_email"`
	} `yaml:"smtp"`

	Storage struct {
		BasePath   string `yaml:"base_path"`
		TempMaxAge string `yaml:"temp_max_age"`
	} `yaml:"storage"`

	Scheduler struct {
		Enabled          bool   `yaml:"enabled"`
		RenewalInterval  string `yaml:"renewal_interval"`
		CleanupInterval  string `yaml:"cleanup_interval"`
	} `yaml:"scheduler"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from an optional .env file, a YAML file and
// environment variable overrides, in that order of increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	// .env is convenience for local development; absence is not an error.
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	loadFromEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "secretaria"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "secretaria.app"

	config.SMTP.FromName = "Secretaria"
	config.SMTP.FromEmail = "secretaria@escola.edu.br"

	config.Storage.BasePath = "storage"
	config.Storage.TempMaxAge = "24h"

	config.Scheduler.Enabled = true
	config.Scheduler.RenewalInterval = "1h"
	config.Scheduler.CleanupInterval = "6h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) {
	config.Server.Port = GetEnv("SERVER_PORT", config.Server.Port)
	config.Server.Mode = GetEnv("SERVER_MODE", config.Server.Mode)

	config.Database.Host = GetEnv("DB_HOST", config.Database.Host)
	config.Database.Port = GetEnv("DB_PORT", config.Database.Port)
	config.Database.User = GetEnv("DB_USER", config.Database.User)
	config.Database.Password = GetEnv("DB_PASSWORD", config.Database.Password)
	config.Database.DBName = GetEnv("DB_NAME", config.Database.DBName)
	config.Database.SSLMode = GetEnv("DB_SSLMODE", config.Database.SSLMode)

	config.JWT.Secret = GetEnv("JWT_SECRET", config.JWT.Secret)
	config.JWT.AccessTokenExpiration = GetEnv("JWT_ACCESS_TOKEN_EXPIRATION", config.JWT.AccessTokenExpiration)
	config.JWT.RefreshTokenExpiration = GetEnv("JWT_REFRESH_TOKEN_EXPIRATION", config.JWT.RefreshTokenExpiration)
	config.JWT.Issuer = GetEnv("JWT_ISSUER", config.JWT.Issuer)

	config.SMTP.Host = GetEnv("SMTP_HOST", config.SMTP.Host)
	config.SMTP.Port = GetEnvAsInt("SMTP_PORT", config.SMTP.Port)
	config.SMTP.Username = GetEnv("SMTP_USERNAME", config.SMTP.Username)
	config.SMTP.Password = GetEnv("SMTP_PASSWORD", config.SMTP.Password)

	config.Storage.BasePath = GetEnv("STORAGE_BASE_PATH", config.Storage.BasePath)

	config.Logging.Level = GetEnv("LOG_LEVEL", config.Logging.Level)
	config.Logging.Format = GetEnv("LOG_FORMAT", config.Logging.Format)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.JWT.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT refresh token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.Storage.TempMaxAge); err != nil {
		return fmt.Errorf("invalid storage temp max age format: %w", err)
	}
	if _, err := time.ParseDuration(config.Scheduler.RenewalInterval); err != nil {
		return fmt.Errorf("invalid scheduler renewal interval format: %w", err)
	}
	if _, err := time.ParseDuration(config.Scheduler.CleanupInterval); err != nil {
		return fmt.Errorf("invalid scheduler cleanup interval format: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns the postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return defaultValue
	}
	return value
}
