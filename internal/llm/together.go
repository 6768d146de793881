package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spectramedia/bettybot/internal/chat"
	"github.com/spectramedia/bettybot/internal/observability/metrics"
	"github.com/spectramedia/bettybot/pkg/logging"
)

// Generator produces assistant text for a conversation turn. An empty
// return value means the caller must take the rule-based path.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []chat.Turn, userInput string) string
}

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds the Together API settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// backoffs is the fixed wait schedule between completion attempts. One
// attempt per entry; exhausting the schedule yields an empty response.
var backoffs = []time.Duration{
	600 * time.Millisecond,
	1200 * time.Millisecond,
	2400 * time.Millisecond,
	4800 * time.Millisecond,
}

// TogetherClient calls the Together chat-completion endpoint through its
// OpenAI-compatible API. All failures are absorbed: the client retries on
// the backoff schedule and returns "" when nothing usable comes back.
type TogetherClient struct {
	chat        chatClient
	configured  bool
	model       string
	maxTokens   int
	temperature float32
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTogetherClient builds a Together-backed generator. With an empty API
// key the client stays unconfigured and Generate short-circuits without
// touching the network.
func NewTogetherClient(cfg Config, m *metrics.ChatMetrics, logger *logging.Logger) *TogetherClient {
	if logger == nil {
		logger = logging.Default()
	}

	c := &TogetherClient{
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		logger:      logger,
		metrics:     m,
		sleep:       sleepCtx,
	}
	if cfg.APIKey == "" {
		logger.Warn("llm: no Together API key configured, generation disabled")
		return c
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	c.chat = openai.NewClientWithConfig(oc)
	c.configured = true
	return c
}

// Generate runs the retry loop over the backoff schedule and returns the
// first non-empty completion, or "" once the schedule is exhausted. Errors
// never propagate; the fallback generator decides what the visitor sees.
func (c *TogetherClient) Generate(ctx context.Context, systemPrompt string, history []chat.Turn, userInput string) string {
	if !c.configured || c.chat == nil {
		return ""
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userInput,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages:    messages,
	}

	var lastErr string
	for _, wait := range backoffs {
		resp, err := c.chat.CreateChatCompletion(ctx, req)
		switch {
		case err != nil:
			lastErr = err.Error()
			c.metrics.ObserveLLMAttempt("error")
		case len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "":
			lastErr = "empty model response"
			c.metrics.ObserveLLMAttempt("empty")
		default:
			c.metrics.ObserveLLMAttempt("success")
			return strings.TrimSpace(resp.Choices[0].Message.Content)
		}

		if err := c.sleep(ctx, wait); err != nil {
			c.logger.Warn("llm: request cancelled during backoff", "error", err)
			return ""
		}
	}

	c.metrics.ObserveLLMAttempt("exhausted")
	c.logger.Error("llm: together completion failed after all retries", "error", lastErr, "model", c.model)
	return ""
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
