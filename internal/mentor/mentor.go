// Package mentor is an optional, pluggable LLM pass-through that the rest
// of synapse's core never imports: it explains a risk assessment or
// governance violation in natural language, nothing more. A Provider enum
// and provider-switch constructor select between OpenAI and Gemini
// backends; rate limiting is in-process via golang.org/x/time/rate rather
// than a cloud-backed limiter, since there is no shared cache to coordinate
// through.
package mentor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Provider identifies which backend a Client talks to.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderNone   Provider = "" // mentor disabled
)

// Client is a rate-limited, pluggable LLM pass-through.
type Client struct {
	provider Provider
	openai   *openai.Client
	gemini   *genai.Client
	model    string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewClient builds a Client for the given provider. apiKey must already
// be resolved (env var or keychain, per internal/config); an empty
// provider disables the mentor entirely and IsEnabled reports false.
func NewClient(ctx context.Context, provider Provider, apiKey, model string, rps float64) (*Client, error) {
	logger := slog.Default().With("component", "mentor")

	if provider == ProviderNone || apiKey == "" {
		logger.Info("mentor disabled: no provider or API key configured")
		return &Client{provider: ProviderNone, logger: logger}, nil
	}

	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	switch provider {
	case ProviderOpenAI:
		return &Client{
			provider: provider,
			openai:   openai.NewClient(apiKey),
			model:    model,
			limiter:  limiter,
			logger:   logger,
		}, nil
	case ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return &Client{
			provider: provider,
			gemini:   client,
			model:    model,
			limiter:  limiter,
			logger:   logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown mentor provider: %s", provider)
	}
}

// IsEnabled reports whether a provider was successfully configured.
func (c *Client) IsEnabled() bool { return c.provider != ProviderNone }

// Explain asks the configured provider to explain a risk or governance
// finding in natural language, given a short structured prompt. It blocks
// on the rate limiter before making the call.
func (c *Client) Explain(ctx context.Context, prompt string) (string, error) {
	if !c.IsEnabled() {
		return "", fmt.Errorf("mentor is not enabled")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("mentor rate limiter: %w", err)
	}

	switch c.provider {
	case ProviderOpenAI:
		return c.explainOpenAI(ctx, prompt)
	case ProviderGemini:
		return c.explainGemini(ctx, prompt)
	default:
		return "", fmt.Errorf("unknown mentor provider: %s", c.provider)
	}
}

func (c *Client) explainOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := c.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You explain static code-analysis findings concisely, in plain language, for a developer reviewing a pull request."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) explainGemini(ctx context.Context, prompt string) (string, error) {
	resp, err := c.gemini.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	return resp.Text(), nil
}
