// Package imageprompt composes Stable Diffusion style prompts from a
// character's appearance and a classified scene.
package imageprompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayachat/ayachat/internal/scene"
	"github.com/ayachat/ayachat/internal/types"
)

const qualityTags = "masterpiece, best quality, highly detailed, beautiful lighting, anime style, high resolution, 8k"

var negativeTags = []string{
	"lowres", "bad anatomy", "bad hands", "text", "error",
	"missing fingers", "extra digit", "fewer digits", "cropped",
	"worst quality", "low quality", "normal quality", "jpeg artifacts",
	"signature", "watermark", "username", "blurry", "bad face",
	"ugly", "duplicate", "morbid", "mutilated", "extra fingers",
	"mutated hands", "poorly drawn hands", "poorly drawn face",
	"mutation", "deformed", "bad proportions", "extra limbs",
	"cloned face", "disfigured", "gross proportions", "malformed limbs",
	"missing arms", "missing legs", "extra arms", "extra legs",
	"fused fingers", "too many fingers",
}

// Options carries per-request additions to the composed prompt.
type Options struct {
	// Lora is prepended verbatim, e.g. "<lora:style:0.8>".
	Lora string
	// ExtraNegative is appended to the fixed negative tag list.
	ExtraNegative string
}

// Composer builds positive and negative prompts. The current time
// decides lighting and seasonal fragments.
type Composer struct {
	nowFunc func() time.Time
}

func NewComposer() *Composer {
	return &Composer{nowFunc: time.Now}
}

// WithClock replaces the time source, mainly for tests.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.nowFunc = now
	return c
}

// Compose assembles the positive and negative prompts for one illustration.
func (c *Composer) Compose(character *types.Character, res scene.Result, opts Options) (prompt, negative string) {
	parts := []string{
		c.appearance(character),
		res.Emotion.Fragment,
		res.Expression.Fragment,
		res.Action.Fragment,
		res.Scenario.Fragment,
		c.lighting(),
		c.season(),
		qualityTags,
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	prompt = strings.Join(kept, ", ")
	if opts.Lora != "" {
		prompt = opts.Lora + ", " + prompt
	}

	negative = strings.Join(negativeTags, ", ")
	if opts.ExtraNegative != "" {
		negative = negative + ", " + opts.ExtraNegative
	}
	return prompt, negative
}

func (c *Composer) appearance(character *types.Character) string {
	if character == nil {
		return "beautiful anime girl"
	}
	if character.HasStructuredAppearance() {
		a := character.Definition.Appearance
		var parts []string
		for _, p := range []string{a.Description, a.Hair, a.Eyes, a.Clothing} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	}
	if character.Appearance != "" {
		return character.Appearance
	}
	return fmt.Sprintf("beautiful anime girl, %s", character.Name)
}

func (c *Composer) lighting() string {
	switch h := c.nowFunc().Hour(); {
	case h >= 6 && h <= 11:
		return "morning light, soft sunlight, bright atmosphere"
	case h >= 12 && h <= 16:
		return "afternoon light, warm sunlight, clear lighting"
	case h >= 17 && h <= 19:
		return "evening light, golden hour, warm atmosphere"
	default:
		return "night lighting, soft artificial light, cozy atmosphere"
	}
}

func (c *Composer) season() string {
	switch m := int(c.nowFunc().Month()); {
	case m >= 3 && m <= 5:
		return "spring atmosphere, cherry blossoms, fresh green"
	case m >= 6 && m <= 8:
		return "summer atmosphere, bright sunshine, vivid colors"
	case m >= 9 && m <= 11:
		return "autumn atmosphere, fallen leaves, warm colors"
	default:
		return "winter atmosphere, snow, cool lighting"
	}
}
