// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	ClientURL      string `mapstructure:"CLIENT_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	AccessSecret  string `mapstructure:"ACCESS_SECRET_KEY"`
	RefreshSecret string `mapstructure:"REFRESH_SECRET_KEY"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	S3Endpoint      string `mapstructure:"S3_ENDPOINT"`
	S3Region        string `mapstructure:"S3_REGION"`
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3AccessKey     string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string `mapstructure:"S3_SECRET_KEY"`
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`

	DefaultProfilePicture string `mapstructure:"DEFAULT_PROFILE_PICTURE_URL"`
	ImageMaxUploadSizeMB  int    `mapstructure:"IMAGE_MAX_UPLOAD_SIZE_MB"`

	TracingEnabled bool    `mapstructure:"TRACING_ENABLED"`
	TracingExport  string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint   string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSample  float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults are enough to run.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err == nil {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	// Defaults for development
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CLIENT_URL", "http://localhost:5000")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost,http://localhost:5000,http://127.0.0.1:5500")
	viper.SetDefault("ACCESS_SECRET_KEY", "dev-access-secret-change-in-production")
	viper.SetDefault("REFRESH_SECRET_KEY", "dev-refresh-secret-change-in-production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "platebook")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("S3_ENDPOINT", "http://localhost:9000")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_BUCKET", "platebook-media")
	viper.SetDefault("S3_ACCESS_KEY", "minioadmin")
	viper.SetDefault("S3_SECRET_KEY", "minioadmin")
	viper.SetDefault("S3_PUBLIC_BASE_URL", "")
	viper.SetDefault("DEFAULT_PROFILE_PICTURE_URL", "https://cdn.platebook.dev/profile-pictures/default.jpg")
	viper.SetDefault("IMAGE_MAX_UPLOAD_SIZE_MB", 10)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 0.1)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.AccessSecret == "" {
		return errors.New("ACCESS_SECRET_KEY is required")
	}
	if c.RefreshSecret == "" {
		return errors.New("REFRESH_SECRET_KEY is required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("ACCESS_SECRET_KEY and REFRESH_SECRET_KEY must be distinct")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	if isProduction {
		if c.AccessSecret == "dev-access-secret-change-in-production" ||
			c.RefreshSecret == "dev-refresh-secret-change-in-production" {
			return errors.New("token signing secrets must be changed from their default values in production")
		}
		if len(c.AccessSecret) < 32 || len(c.RefreshSecret) < 32 {
			return errors.New("token signing secrets must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must not be 'disable' in production")
		}
		if c.S3SecretKey == "minioadmin" {
			return errors.New("S3_SECRET_KEY must be changed from the default value in production")
		}
	} else {
		if len(c.AccessSecret) < 32 {
			log.Println("WARNING: ACCESS_SECRET_KEY is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}
