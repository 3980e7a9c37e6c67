package models

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ayachat/ayachat/internal/types"
)

// OpenAIGenerator produces chat replies through an OpenAI-compatible
// chat completions endpoint.
type OpenAIGenerator struct {
	client *openai.Client
}

// NewOpenAIGenerator creates a generator for the official OpenAI API.
func NewOpenAIGenerator(apiKey string) (*OpenAIGenerator, error) {
	return newOpenAICompatible(apiKey, "", "openai-go")
}

// NewGrokGenerator targets the x.ai chat completions endpoint.
func NewGrokGenerator(apiKey string) (*OpenAIGenerator, error) {
	return newOpenAICompatible(apiKey, "https://api.x.ai/v1", "grok-go")
}

// NewOpenRouterGenerator targets the OpenRouter endpoint.
func NewOpenRouterGenerator(apiKey string) (*OpenAIGenerator, error) {
	return newOpenAICompatible(apiKey, "https://openrouter.ai/api/v1", "openrouter-go")
}

func newOpenAICompatible(apiKey, baseURL, agentName string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	headerValue := fmt.Sprintf("%s/%s go/%s",
		agentName, "1.0.0", strings.TrimPrefix(runtime.Version(), "go"))

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHeader("user-agent", headerValue),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)
	return &OpenAIGenerator{client: &client}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, promptText string, opts types.GenerationOptions) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("generator not configured")
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(promptText),
		},
		Temperature: openai.Float(opts.Temperature),
		TopP:        openai.Float(opts.TopP),
		MaxTokens:   openai.Int(int64(opts.MaxTokens)),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("failed to call llm API", "error", err.Error())
		return "", fmt.Errorf("failed to call chat completions API: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
