package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/anchorforge/anchorforge/internal/config"
)

// LLM is the completion interface every agent stage talks to.
type LLM interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// OpenAIClient implements LLM against any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client      *openai.Client
	temperature float32
	log         *slog.Logger
}

// NewOpenAIClient builds a client from config. The API key is read from the
// configured environment variable.
func NewOpenAIClient(cfg config.LLM, log *slog.Logger) (*OpenAIClient, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", cfg.APIKeyEnv)
	}
	if log == nil {
		log = slog.Default()
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		temperature: cfg.Temperature,
		log:         log,
	}, nil
}

// Complete sends a system+user chat completion and returns the assistant text.
func (c *OpenAIClient) Complete(ctx context.Context, model, system, user string) (string, error) {
	c.log.Debug("llm call", "model", model, "prompt_bytes", len(user))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.log.Debug("llm response", "model", model, "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
