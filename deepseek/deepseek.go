// Package deepseek implements the translation provider client for the
// DeepSeek chat-completions API.
//
// DeepSeek exposes an OpenAI-compatible endpoint, so the client is built
// on the go-openai SDK pointed at the DeepSeek base URL. Each call
// translates exactly one string: the system prompt pins the target
// language and forbids translating placeholder tokens (${...}), delimited
// content, file paths, and URLs; a low temperature favors reproducible
// phrasing.
//
// Provider failures are normalized for the caller: timeouts, transport
// errors, and malformed responses come back as classified errors the
// translation engine treats as recoverable. A circuit breaker trips after
// repeated consecutive failures so a hard provider outage degrades to
// fast pass-through instead of a timeout per remaining item.
package deepseek

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// Defaults matching the tool's historical configuration.
const (
	DefaultBaseURL     = "https://api.deepseek.com/v1"
	DefaultModel       = "deepseek-chat"
	DefaultLanguage    = "Chinese"
	DefaultTemperature = 0.3
	DefaultTimeout     = 60 * time.Second

	maxTokens = 2000
)

// systemPrompt instructs the model; {{targetLang}} is substituted at
// client construction.
const systemPrompt = `Translate the following text to {{targetLang}}. Keep the meaning accurate but natural. Only return the translated text, nothing else.

IMPORTANT RULES:
1. Do NOT translate any code syntax, including: variable placeholders like ${path}, ${variable}, ${file}, etc.
2. Do NOT translate content inside brackets, parentheses, braces, quotes, or any code delimiters.
3. Do NOT translate file paths, URLs, or technical identifiers.
4. Only translate the human-readable description text outside of code syntax.
5. Preserve all punctuation and special characters exactly as they are.`

// Classified provider failures. All of them are recoverable per item:
// the affected text stays untranslated and the run continues.
var (
	ErrTimeout           = errors.New("provider request timed out")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrUnavailable       = errors.New("provider unavailable")
)

// Config holds the client configuration. Zero fields take the defaults
// above; APIKey is required.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Language    string // human-readable target language name, e.g. "Chinese"
	Temperature float32
	Timeout     time.Duration
}

// Client calls the DeepSeek API for one string at a time.
type Client struct {
	api         *openai.Client
	model       string
	prompt      string
	temperature float32
	timeout     time.Duration
	breaker     *gobreaker.CircuitBreaker
}

// New builds a client from cfg, applying defaults for unset fields.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       model,
		prompt:      strings.ReplaceAll(systemPrompt, "{{targetLang}}", language),
		temperature: temperature,
		timeout:     timeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "deepseek",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Translate sends text to the provider and returns the translated string.
// The request is bounded by the configured timeout. Errors are classified;
// context cancellation from the caller is passed through unchanged so an
// interrupt can be told apart from a provider failure.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: c.prompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: c.temperature,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
		}
		translated := strings.TrimSpace(resp.Choices[0].Message.Content)
		if translated == "" {
			return nil, fmt.Errorf("%w: empty completion", ErrMalformedResponse)
		}
		return translated, nil
	})
	if err != nil {
		return "", c.classify(ctx, err)
	}
	return result.(string), nil
}

// classify maps raw call failures onto the exported error taxonomy.
func (c *Client) classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		// The caller's context ended: interrupt, not a provider fault.
		return ctx.Err()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit breaker open", ErrUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
	case errors.Is(err, ErrMalformedResponse):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
