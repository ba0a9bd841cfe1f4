package contentgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"leadgen/internal/resilience/circuitbreaker"
	"leadgen/internal/resilience/retry"
)

// DefaultOllamaBaseURL is where a local Ollama server listens.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OpenAIConfig holds configuration for an OpenAI-compatible chat backend.
type OpenAIConfig struct {
	// Name labels the backend ("ollama" or "openai").
	Name string

	// APIKey is sent as a bearer token. Ollama ignores it.
	APIKey string

	// BaseURL is the API root including the /v1 suffix.
	BaseURL string

	// Model is the chat model identifier (e.g. "llama3.2", "gpt-4o-mini").
	Model string

	// MaxTokens caps the reply length. Zero leaves it to the server.
	MaxTokens int

	// JSONMode asks the server for a JSON object response.
	JSONMode bool

	// Timeout is the maximum duration for a single API call.
	Timeout time.Duration
}

// OllamaConfig returns the configuration for an Ollama server at baseURL
// (scheme, host and port, without /v1).
func OllamaConfig(baseURL, model string) OpenAIConfig {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultOllamaBaseURL
	}
	return OpenAIConfig{
		Name:     "ollama",
		APIKey:   "ollama",
		BaseURL:  strings.TrimRight(baseURL, "/") + "/v1",
		Model:    model,
		JSONMode: true,
		Timeout:  5 * time.Minute,
	}
}

// Validate checks the configuration.
func (c OpenAIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// OpenAI implements Backend using an OpenAI-compatible chat completions API.
// It includes circuit breaker and retry logic for improved reliability.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         OpenAIConfig
}

// NewOpenAI creates a new OpenAI-compatible backend.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Name == "" {
		cfg.Name = "openai"
	}

	cbConfig := circuitbreaker.OpenAIAPIConfig()
	cbConfig.Name = cfg.Name + "-api"

	slog.Info("Initialized chat completion backend",
		slog.String("backend", cfg.Name),
		slog.String("base_url", cfg.BaseURL),
		slog.String("model", cfg.Model))

	return &OpenAI{
		client:         openai.NewClientWithConfig(clientConfig),
		circuitBreaker: circuitbreaker.New(cbConfig),
		retryConfig:    retry.AIAPIConfig(),
		config:         cfg,
	}
}

// Name implements Backend.
func (o *OpenAI) Name() string { return o.config.Name }

// Complete implements Backend.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		reply, err := circuitbreaker.Run(o.circuitBreaker, func() (string, error) {
			return o.doComplete(ctx, prompt)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("chat api circuit breaker open, request rejected",
					slog.String("service", o.circuitBreaker.Name()),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("%s api unavailable: circuit breaker open", o.config.Name)
			}
			return err
		}

		result = reply
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("%s completion failed: %w", o.config.Name, retryErr)
	}

	return result, nil
}

// doComplete performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doComplete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.config.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: o.config.MaxTokens,
	}
	if o.config.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Chat completion failed",
			slog.String("backend", o.config.Name),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%s api error: %w", o.config.Name, err)
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		slog.ErrorContext(ctx, "Chat API returned empty response",
			slog.String("backend", o.config.Name),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("%s api returned empty response", o.config.Name)
	}

	slog.DebugContext(ctx, "Chat completion finished",
		slog.String("backend", o.config.Name),
		slog.Duration("duration", duration),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}
