package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	AI       AIConfig       `mapstructure:"ai"`
	Agents   AgentsConfig   `mapstructure:"agents"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AppConfig holds application settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Timeout string `mapstructure:"timeout"`
}

// AIConfig holds AI provider settings
type AIConfig struct {
	Primary   string         `mapstructure:"primary"`
	Fallbacks []string       `mapstructure:"fallbacks"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Claude    ProviderConfig `mapstructure:"claude"`
}

// ProviderConfig holds provider-specific settings
type ProviderConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	BaseURL     string  `mapstructure:"base_url"`
}

// AgentsConfig holds settings for the agent-processing tier
type AgentsConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	DispatchTimeout string `mapstructure:"dispatch_timeout"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment and files
func Load() (*Config, error) {
	// Load .env if present; env vars already set win
	_ = godotenv.Load()

	// Set defaults
	viper.SetDefault("app.name", "Agent Orchestrator")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("database.path", "storage/orchestrator.db")
	viper.SetDefault("database.timeout", "30s")

	viper.SetDefault("ai.primary", "openai")
	viper.SetDefault("ai.fallbacks", []string{"claude"})
	viper.SetDefault("ai.openai.model", "gpt-4-turbo-preview")
	viper.SetDefault("ai.openai.max_tokens", 2000)
	viper.SetDefault("ai.openai.temperature", 0.3)
	viper.SetDefault("ai.claude.model", "claude-3-5-sonnet-20241022")
	viper.SetDefault("ai.claude.max_tokens", 2000)
	viper.SetDefault("ai.claude.temperature", 0.3)

	viper.SetDefault("agents.base_url", "http://localhost:8080")
	viper.SetDefault("agents.dispatch_timeout", "30s")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	// Bind environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from environment
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.Set("ai.openai.api_key", apiKey)
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		viper.Set("ai.claude.api_key", apiKey)
	}

	// Try to read config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// GetTimeout parses the database timeout string to a duration
func (c *Config) GetTimeout() time.Duration {
	if duration, err := time.ParseDuration(c.Database.Timeout); err == nil {
		return duration
	}
	return 30 * time.Second
}

// GetDispatchTimeout parses the agent dispatch timeout string to a duration
func (c *Config) GetDispatchTimeout() time.Duration {
	if duration, err := time.ParseDuration(c.Agents.DispatchTimeout); err == nil {
		return duration
	}
	return 30 * time.Second
}
