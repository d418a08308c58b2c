package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for trustchat
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Ollama   OllamaConfig   `mapstructure:"ollama"`
	Search   SearchConfig   `mapstructure:"search"`
	Review   ReviewConfig   `mapstructure:"review"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// AdminConfig holds API authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Path       string `mapstructure:"path"`
	Production bool   `mapstructure:"production"`
}

// OllamaConfig holds the generation backend configuration. The legacy
// app read these from process environment variables; here they are
// explicit parameters and the core never touches ambient state.
type OllamaConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Model           string        `mapstructure:"model"`
	KeepAlive       string        `mapstructure:"keep_alive"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`
	ReviewTimeout   time.Duration `mapstructure:"review_timeout"`
}

// SearchConfig holds the SearXNG search provider configuration
type SearchConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Format    string        `mapstructure:"format"` // "html" or "json"
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ReviewConfig holds answer review tuning
type ReviewConfig struct {
	// TrustThreshold is the single trust boundary: a self-reported score
	// at or below it triggers search-and-regenerate.
	TrustThreshold float64 `mapstructure:"trust_threshold"`
	// RecentYearWindow is the +/- year distance treated as recency risk.
	RecentYearWindow int `mapstructure:"recent_year_window"`
	// DefaultScore is used when no score can be parsed from the
	// delegated review response.
	DefaultScore float64 `mapstructure:"default_score"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("TRUSTCHAT")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.path", "./data/trustchat.db")

	v.SetDefault("log.path", "./data/trustchat.log")
	v.SetDefault("log.production", true)

	v.SetDefault("ollama.host", "localhost")
	v.SetDefault("ollama.port", 11434)
	v.SetDefault("ollama.model", "qwen2.5:7b")
	v.SetDefault("ollama.keep_alive", "5m")
	v.SetDefault("ollama.generate_timeout", 60*time.Second)
	v.SetDefault("ollama.review_timeout", 30*time.Second)

	v.SetDefault("search.base_url", "https://searx.bndkt.io")
	v.SetDefault("search.format", "html")
	v.SetDefault("search.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("search.timeout", 10*time.Second)

	v.SetDefault("review.trust_threshold", 70)
	v.SetDefault("review.recent_year_window", 5)
	v.SetDefault("review.default_score", 50)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// OllamaBaseURL returns the generation backend base URL
func (c *Config) OllamaBaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Ollama.Host, c.Ollama.Port)
}
