package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ayachat/ayachat/internal/types"
)

// DefaultSDBaseURL points at a locally running Stable Diffusion WebUI.
const DefaultSDBaseURL = "http://127.0.0.1:7860"

// SDClient talks to the Stable Diffusion WebUI txt2img API.
type SDClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSDClient(baseURL string) *SDClient {
	if baseURL == "" {
		baseURL = DefaultSDBaseURL
	}
	return &SDClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Image generation on CPU hosts can take minutes.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

type txt2imgRequest struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Steps          int     `json:"steps"`
	CfgScale       float64 `json:"cfg_scale"`
	Seed           int64   `json:"seed"`
	SamplerName    string  `json:"sampler_name"`
	BatchSize      int     `json:"batch_size"`
	NIter          int     `json:"n_iter"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
}

// Generate renders one image and returns it as a PNG data URL.
func (c *SDClient) Generate(ctx context.Context, req types.ImageRequest) (string, error) {
	payload := txt2imgRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Width:          req.Width,
		Height:         req.Height,
		Steps:          req.Steps,
		CfgScale:       req.CfgScale,
		Seed:           req.Seed,
		SamplerName:    req.Sampler,
		BatchSize:      1,
		NIter:          1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode txt2img request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sdapi/v1/txt2img", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create txt2img request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call Stable Diffusion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("stable diffusion returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed txt2imgResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode txt2img response: %w", err)
	}
	if len(parsed.Images) == 0 || parsed.Images[0] == "" {
		return "", fmt.Errorf("image data missing in response")
	}
	return "data:image/png;base64," + parsed.Images[0], nil
}
