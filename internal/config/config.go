package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aijournal/aijournal/pkg/ai"
)

// Config is the whole application configuration, assembled once at startup
// and passed down explicitly. No package reads environment state after this.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	AI     ai.Config    `mapstructure:"ai"`
	Debug  bool         `mapstructure:"debug"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the host:port the server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the gorm/pgx connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Load reads configuration from an optional YAML file plus environment
// variables (a local .env file is honored too). Missing values fall back to
// defaults. Callers that talk to the AI provider validate cfg.AI at startup
// so a missing API key fails the process, not a request.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AIJOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The provider key keeps its conventional name.
	_ = v.BindEnv("ai.api_key", "OPENAI_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("aijournal")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
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
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "aijournal")
	v.SetDefault("db.sslmode", "disable")

	aiDefaults := ai.DefaultConfig()
	v.SetDefault("ai.base_url", aiDefaults.BaseURL)
	v.SetDefault("ai.model", aiDefaults.Model)
	v.SetDefault("ai.timeout", aiDefaults.Timeout)
	v.SetDefault("ai.max_retries", aiDefaults.MaxRetries)

	v.SetDefault("ai.feedback.temperature", aiDefaults.Feedback.Temperature)
	v.SetDefault("ai.feedback.max_tokens", aiDefaults.Feedback.MaxTokens)
	v.SetDefault("ai.feedback.system_message", aiDefaults.Feedback.SystemMessage)

	v.SetDefault("ai.translation.temperature", aiDefaults.Translation.Temperature)
	v.SetDefault("ai.translation.max_tokens", aiDefaults.Translation.MaxTokens)
	v.SetDefault("ai.translation.system_message", aiDefaults.Translation.SystemMessage)

	v.SetDefault("ai.title.temperature", aiDefaults.Title.Temperature)
	v.SetDefault("ai.title.max_tokens", aiDefaults.Title.MaxTokens)
	v.SetDefault("ai.title.system_message", aiDefaults.Title.SystemMessage)

	v.SetDefault("debug", false)
}
