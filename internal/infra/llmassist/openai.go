package llmassist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"briefline/internal/resilience/circuitbreaker"
	"briefline/internal/resilience/retry"
	"briefline/internal/usecase/rewrite"
)

// OpenAICompatible implements rewrite.Assistant against any
// OpenAI-chat-completions-compatible endpoint, wrapped in the same
// circuit-breaker-plus-retry discipline used elsewhere for external calls.
type OpenAICompatible struct {
	client         *openai.Client
	model          string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewOpenAICompatible builds an assistant from cfg. The caller should only
// construct this when cfg.Provider == "openai_compatible"; cmd/briefctl
// otherwise wires a nil rewrite.Assistant.
func NewOpenAICompatible(cfg Config) *OpenAICompatible {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAICompatible{
		client:         openai.NewClientWithConfig(clientConfig),
		model:          cfg.Model,
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
	}
}

// Suggest asks the assist backend to name the story's principal subject in
// a short phrase. Any failure, including an open circuit breaker, degrades
// to Suggestion{Accepted: false} rather than propagating an error: the
// assist is advisory only.
func (o *OpenAICompatible) Suggest(ctx context.Context, req rewrite.Request) (rewrite.Suggestion, error) {
	// Request id ties retries and breaker trips for one suggestion together
	// in the logs; the item id alone repeats across reruns.
	requestID := uuid.NewString()
	slog.DebugContext(ctx, "llm assist request",
		slog.String("request_id", requestID),
		slog.String("item_id", req.ItemID))

	var actor string
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		result, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSuggest(ctx, req)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "llm assist circuit breaker open, request rejected",
					slog.String("item_id", req.ItemID))
				return fmt.Errorf("llmassist: circuit breaker open")
			}
			return err
		}
		actor = result.(string)
		return nil
	})
	if retryErr != nil {
		return rewrite.Suggestion{}, nil
	}
	if actor == "" {
		return rewrite.Suggestion{}, nil
	}
	return rewrite.Suggestion{Actor: actor, Accepted: true}, nil
}

func (o *OpenAICompatible) doSuggest(ctx context.Context, req rewrite.Request) (string, error) {
	truncated := req.Fulltext
	const maxChars = 4000
	if len(truncated) > maxChars {
		truncated = truncated[:maxChars]
	}

	prompt := fmt.Sprintf(
		"用不超过6个汉字，给出以下新闻报道的核心主体（公司/产品/机构名），只输出名称，不要标点：\n%s",
		truncated)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: 32,
	})
	if err != nil {
		return "", fmt.Errorf("llmassist: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llmassist: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
