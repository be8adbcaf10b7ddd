package ai

import (
	"time"
)

// Task names used for error tagging and per-task generation parameters.
const (
	TaskFeedback    = "feedback"
	TaskTranslation = "translation"
	TaskTitle       = "title"
)

// TaskConfig holds the generation parameters for one AI task.
type TaskConfig struct {
	Temperature   float32 `json:"temperature" mapstructure:"temperature"`
	MaxTokens     int     `json:"max_tokens" mapstructure:"max_tokens"`
	SystemMessage string  `json:"system_message" mapstructure:"system_message"`
}

// Config is the full configuration for the AI layer. It is constructed once
// at process startup and injected into the client and orchestrators; nothing
// in this package reads ambient state.
type Config struct {
	APIKey      string            `json:"api_key" mapstructure:"api_key"`
	BaseURL     string            `json:"base_url" mapstructure:"base_url"`
	Model       string            `json:"model" mapstructure:"model"`
	Headers     map[string]string `json:"headers" mapstructure:"headers"`
	Timeout     time.Duration     `json:"timeout" mapstructure:"timeout"`
	MaxRetries  int               `json:"max_retries" mapstructure:"max_retries"`
	Feedback    TaskConfig        `json:"feedback" mapstructure:"feedback"`
	Translation TaskConfig        `json:"translation" mapstructure:"translation"`
	Title       TaskConfig        `json:"title" mapstructure:"title"`
}

// DefaultConfig returns the default AI configuration. The API key has no
// default and must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.openai.com/v1/chat/completions",
		Model:      "gpt-4o-mini",
		Timeout:    30 * time.Second,
		MaxRetries: 1,
		Feedback: TaskConfig{
			Temperature:   0.7,
			MaxTokens:     600,
			SystemMessage: "You are a helpful assistant that writes concise, empathetic Japanese feedback.",
		},
		Translation: TaskConfig{
			Temperature:   0.7,
			MaxTokens:     2000,
			SystemMessage: "You are a professional translator specialized in translating Japanese to natural, fluent English.",
		},
		Title: TaskConfig{
			Temperature:   0.7,
			MaxTokens:     50,
			SystemMessage: "あなたは日記のタイトル生成アシスタントです。簡潔で適切なタイトルを生成してください。",
		},
	}
}

// Validate checks that the configuration is usable. A missing API key is a
// startup failure, not a per-request one.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return NewConfigError("", "OPENAI_API_KEY is not set", ErrMissingAPIKey)
	}
	if c.BaseURL == "" {
		return NewConfigError("", "base URL must not be empty", nil)
	}
	if c.Model == "" {
		return NewConfigError("", "model must not be empty", nil)
	}
	for _, tc := range []struct {
		name string
		cfg  TaskConfig
	}{
		{TaskFeedback, c.Feedback},
		{TaskTranslation, c.Translation},
		{TaskTitle, c.Title},
	} {
		if tc.cfg.Temperature < 0 || tc.cfg.Temperature > 2 {
			return NewConfigError(tc.name, "temperature must be in [0,2]", nil)
		}
		if tc.cfg.MaxTokens <= 0 {
			return NewConfigError(tc.name, "max_tokens must be positive", nil)
		}
	}
	return nil
}
