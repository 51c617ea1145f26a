package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Gemini   GeminiConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
}

// SessionConfig holds session token verification configuration.
type SessionConfig struct {
	CookieName string
	Secret     string
	Duration   time.Duration
}

// GeminiConfig holds upstream model configuration.
type GeminiConfig struct {
	APIKey                  string
	BaseURL                 string
	ImageModel              string
	TextModel               string
	Timeout                 time.Duration
	MaxConcurrentVariations int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Enable environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "backdrop")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("session.cookie_name", "backdrop_session")
	v.SetDefault("session.secret", "change-this-secret-in-production-min-32-chars")
	v.SetDefault("session.duration", "24h")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.image_model", "")
	v.SetDefault("gemini.text_model", "")
	v.SetDefault("gemini.timeout", "120s")
	v.SetDefault("gemini.max_concurrent_variations", 4)

	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults
	}

	var config Config

	config.Server.Host = v.GetString("server.host")
	config.Server.Port = v.GetInt("server.port")
	config.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	config.Server.WriteTimeout = v.GetDuration("server.write_timeout")

	config.Database.Host = v.GetString("database.host")
	config.Database.Port = v.GetInt("database.port")
	config.Database.User = v.GetString("database.user")
	config.Database.Password = v.GetString("database.password")
	config.Database.Database = v.GetString("database.database")
	config.Database.MaxOpenConns = v.GetInt("database.max_open_conns")
	config.Database.MaxIdleConns = v.GetInt("database.max_idle_conns")

	config.Session.CookieName = v.GetString("session.cookie_name")
	config.Session.Secret = v.GetString("session.secret")
	config.Session.Duration = v.GetDuration("session.duration")

	config.Gemini.APIKey = v.GetString("gemini.api_key")
	config.Gemini.BaseURL = v.GetString("gemini.base_url")
	config.Gemini.ImageModel = v.GetString("gemini.image_model")
	config.Gemini.TextModel = v.GetString("gemini.text_model")
	config.Gemini.Timeout = v.GetDuration("gemini.timeout")
	config.Gemini.MaxConcurrentVariations = v.GetInt("gemini.max_concurrent_variations")

	config.Log.Level = v.GetString("log.level")

	return &config, nil
}
