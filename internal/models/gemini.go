// Package models provides adapters for the supported text and image
// generation backends.
package models

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ayachat/ayachat/internal/types"
	"github.com/ayachat/ayachat/internal/utils"
)

// GeminiGenerator produces chat replies through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, promptText string, opts types.GenerationOptions) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("generator not configured")
	}
	promptText = strings.TrimSpace(promptText)
	if promptText == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		TopP:            genai.Ptr(float32(opts.TopP)),
		MaxOutputTokens: int32(opts.MaxTokens),
	}
	resp, err := g.client.Models.GenerateContent(ctx, opts.Model, genai.Text(promptText), config)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", nil
	}
	return utils.ExtractContentText(resp.Candidates[0].Content), nil
}
