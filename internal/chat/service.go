// Package chat orchestrates one conversation turn: prompt assembly, text
// generation with a blank-reply retry, and optional scene illustration.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/ayachat/ayachat/internal/imageprompt"
	"github.com/ayachat/ayachat/internal/prompt"
	"github.com/ayachat/ayachat/internal/scene"
	"github.com/ayachat/ayachat/internal/types"
)

// Generator produces a reply for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, promptText string, opts types.GenerationOptions) (string, error)
}

// ImageClient renders an image request and returns a data URL.
type ImageClient interface {
	Generate(ctx context.Context, req types.ImageRequest) (string, error)
}

// retryHistoryLimit is how much history survives the blank-reply retry.
const retryHistoryLimit = 10

// Service runs chat turns against a text backend and an image backend.
type Service struct {
	assembler *prompt.Assembler
	generator Generator
	images    ImageClient
	composer  *imageprompt.Composer
	seedFunc  func() int64
}

func NewService(generator Generator, images ImageClient) *Service {
	return &Service{
		assembler: prompt.NewAssembler(),
		generator: generator,
		images:    images,
		composer:  imageprompt.NewComposer(),
		seedFunc:  rand.Int63,
	}
}

// WithAssembler replaces the prompt assembler, mainly for tests.
func (s *Service) WithAssembler(a *prompt.Assembler) *Service {
	s.assembler = a
	return s
}

// WithComposer replaces the image prompt composer.
func (s *Service) WithComposer(c *imageprompt.Composer) *Service {
	s.composer = c
	return s
}

// WithSeedFunc replaces the random seed source for image requests.
func (s *Service) WithSeedFunc(f func() int64) *Service {
	s.seedFunc = f
	return s
}

// Send runs one turn. Backend errors on the first call propagate. A blank
// reply triggers one retry with recent history only; if the retry errors
// or stays blank, a canned in-character apology is returned instead.
func (s *Service) Send(ctx context.Context, in prompt.Input) (string, error) {
	full, kept, err := s.assembler.Assemble(in)
	if err != nil {
		return "", fmt.Errorf("failed to assemble prompt: %w", err)
	}

	opts := types.GenerationOptionsFrom(in.Settings)
	text, err := s.generator.Generate(ctx, full, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		slog.Warn("backend returned empty reply, retrying with recent history",
			"character", in.Character.Name)
		retryIn := in
		if len(kept) > retryHistoryLimit {
			retryIn.History = kept[len(kept)-retryHistoryLimit:]
		} else {
			retryIn.History = kept
		}
		retryPrompt, _, err := s.assembler.Assemble(retryIn)
		if err != nil {
			return "", fmt.Errorf("failed to assemble retry prompt: %w", err)
		}
		text, err = s.generator.Generate(ctx, retryPrompt, opts)
		if err != nil {
			slog.Error("retry generation failed", "error", err)
			text = ""
		}
	}

	if strings.TrimSpace(text) == "" {
		slog.Warn("backend still empty, returning fallback reply",
			"character", in.Character.Name)
		text = fmt.Sprintf("%s: …ごめんね、ちょっと言葉に詰まっちゃったみたい。もう一度質問してくれる？", in.Character.Name)
	}
	return text, nil
}

// Illustrate classifies the reply, composes an image prompt and renders
// it. recentContext carries the last few conversation lines so the scene
// can persist across turns. Returns a data URL.
func (s *Service) Illustrate(ctx context.Context, character *types.Character, reply string, recentContext []string, settings types.AppSettings) (string, error) {
	if character == nil {
		return "", fmt.Errorf("character is required")
	}
	if s.images == nil {
		return "", fmt.Errorf("no image backend configured")
	}

	res := scene.Classify(reply, recentContext)
	positive, negative := s.composer.Compose(character, res, imageprompt.Options{
		Lora:          settings.LoraSettings,
		ExtraNegative: settings.NegativePrompt,
	})

	defaults := character.Image.WithDefaults()
	seed := s.seedFunc()
	if character.Image.Seed != nil {
		seed = *character.Image.Seed
	}
	req := types.ImageRequest{
		Prompt:         positive,
		NegativePrompt: negative,
		Width:          defaults.Width,
		Height:         defaults.Height,
		Steps:          defaults.Steps,
		CfgScale:       defaults.CfgScale,
		Sampler:        defaults.Sampler,
		Seed:           seed,
	}

	slog.Info("generating illustration",
		"character", character.Name,
		"emotion", res.Emotion.Label,
		"scenario", res.Scenario.Label)

	image, err := s.images.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}
	return image, nil
}
