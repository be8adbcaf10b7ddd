package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Completer is the single point of contact with the chat-completion provider.
// Orchestrators depend on this interface so tests can substitute a fake.
type Completer interface {
	Complete(ctx context.Context, systemMessage, userMessage string, task TaskConfig) (string, error)
}

// Client issues chat-completion requests over HTTP. Every call is a fresh
// network round-trip; there is no caching layer in front of the provider.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a chat-completion client. The config must already be
// validated; a zero timeout falls back to the default.
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// chatMessage is one message in a chat-completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the provider wire format for a completion request.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse is the provider wire format for a completion response.
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete issues one chat-completion call and returns the completion text.
// Failure modes:
//   - non-2xx response: provider error carrying the status code and raw body
//   - malformed JSON body: parse error wrapping the decode failure
//   - well-formed body with no choices or empty content: parse error
//
// A transport failure or 5xx response is retried once before giving up.
func (c *Client) Complete(ctx context.Context, systemMessage, userMessage string, task TaskConfig) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: userMessage},
		},
		Temperature: task.Temperature,
		MaxTokens:   task.MaxTokens,
	})
	if err != nil {
		return "", NewParseError("", "failed to marshal request", err)
	}

	resp, err := c.doWithRetry(ctx, body)
	if err != nil {
		c.logger.Error("chat completion request failed", zap.Error(err))
		return "", NewProviderError("", "failed to execute request", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("chat completion returned non-2xx",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(errBody)))
		return "", NewProviderError("",
			fmt.Sprintf("provider returned %s: %s", resp.Status, string(errBody)),
			resp.StatusCode, nil)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		c.logger.Error("failed to decode chat completion body", zap.Error(err))
		return "", NewParseError("", "failed to decode response body", err)
	}

	// A body without usable content is a parse failure, never an empty result.
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		c.logger.Error("chat completion contained no content",
			zap.String("id", chatResp.ID),
			zap.Int("choices", len(chatResp.Choices)))
		return "", NewParseError("", "completion contained no content", ErrEmptyContent)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// doWithRetry performs the POST, retrying once on a transport error or a 5xx
// response. 4xx responses are returned as-is; they will not improve on retry.
func (c *Client) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		for k, v := range c.config.Headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			if lastResp != nil {
				lastResp.Body.Close()
			}
			return resp, nil
		}

		if err != nil {
			lastErr = err
			if !isTransientError(err) {
				return nil, err
			}
		} else {
			if lastResp != nil {
				lastResp.Body.Close()
			}
			lastResp = resp
		}

		if attempt < c.config.MaxRetries {
			c.logger.Warn("retrying chat completion",
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * 500 * time.Millisecond):
			}
		}
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

// isTransientError reports whether a transport error is worth one more try.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return isTransientError(urlErr.Err) || isTransientMessage(urlErr.Err)
	}
	return isTransientMessage(err)
}

func isTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
