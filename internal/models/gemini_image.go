package models

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ayachat/ayachat/internal/types"
)

// GeminiImageGenerator renders illustrations through the Gemini image
// models. Stable Diffusion specific parameters like steps and cfg_scale
// have no Gemini equivalent and are ignored; width and height only pick
// the aspect ratio.
type GeminiImageGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiImageGenerator(ctx context.Context, apiKey, model string) (*GeminiImageGenerator, error) {
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

	return &GeminiImageGenerator{
		client: client,
		model:  strings.TrimSpace(model),
	}, nil
}

func (g *GeminiImageGenerator) Generate(ctx context.Context, req types.ImageRequest) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("image generator not configured")
	}
	promptText := strings.TrimSpace(req.Prompt)
	if promptText == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	if req.NegativePrompt != "" {
		promptText += "\n\nAvoid: " + req.NegativePrompt
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: aspectRatioFor(req.Width, req.Height),
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(promptText), config)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty image response")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mimeType := strings.TrimSpace(part.InlineData.MIMEType)
		if mimeType == "" {
			mimeType = "image/png"
		}
		encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
		return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded), nil
	}
	return "", fmt.Errorf("image data missing in response")
}

func aspectRatioFor(width, height int) string {
	switch {
	case width <= 0 || height <= 0 || width == height:
		return "1:1"
	case width < height:
		if height*3 >= width*5 {
			return "9:16"
		}
		return "3:4"
	default:
		if width*3 >= height*5 {
			return "16:9"
		}
		return "4:3"
	}
}
