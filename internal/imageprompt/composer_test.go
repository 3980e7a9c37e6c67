package imageprompt

import (
	"strings"
	"testing"
	"time"

	"github.com/ayachat/ayachat/internal/scene"
	"github.com/ayachat/ayachat/internal/types"
)

func fixedClock(month time.Month, hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, month, 15, hour, 0, 0, 0, time.UTC)
	}
}

func structuredCharacter() *types.Character {
	return &types.Character{
		Name: "アヤ",
		Definition: &types.CharacterDefinition{
			Appearance: types.CharacterAppearance{
				Description: "petite girl",
				Hair:        "long silver hair",
				Eyes:        "blue eyes",
				Clothing:    "white dress",
			},
		},
	}
}

func naturalScene() scene.Result {
	return scene.Classify("hello", nil)
}

func TestComposeStructuredAppearanceLeads(t *testing.T) {
	c := NewComposer().WithClock(fixedClock(time.April, 14))
	prompt, _ := c.Compose(structuredCharacter(), naturalScene(), Options{})

	if !strings.HasPrefix(prompt, "petite girl, long silver hair, blue eyes, white dress") {
		t.Errorf("prompt does not start with appearance: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "masterpiece, best quality, highly detailed, beautiful lighting, anime style, high resolution, 8k") {
		t.Errorf("prompt does not end with quality tags: %q", prompt)
	}
}

func TestComposeFallbackAppearance(t *testing.T) {
	c := NewComposer().WithClock(fixedClock(time.April, 14))
	character := &types.Character{Name: "アヤ"}
	prompt, _ := c.Compose(character, naturalScene(), Options{})
	if !strings.HasPrefix(prompt, "beautiful anime girl, アヤ") {
		t.Errorf("prompt = %q", prompt)
	}
}

func TestComposeFlatAppearance(t *testing.T) {
	c := NewComposer().WithClock(fixedClock(time.April, 14))
	character := &types.Character{Name: "アヤ", Appearance: "tall woman, black hair"}
	prompt, _ := c.Compose(character, naturalScene(), Options{})
	if !strings.HasPrefix(prompt, "tall woman, black hair, ") {
		t.Errorf("prompt = %q", prompt)
	}
}

func TestComposeTimeBands(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{6, "morning light, soft sunlight, bright atmosphere"},
		{11, "morning light, soft sunlight, bright atmosphere"},
		{12, "afternoon light, warm sunlight, clear lighting"},
		{16, "afternoon light, warm sunlight, clear lighting"},
		{17, "evening light, golden hour, warm atmosphere"},
		{19, "evening light, golden hour, warm atmosphere"},
		{20, "night lighting, soft artificial light, cozy atmosphere"},
		{3, "night lighting, soft artificial light, cozy atmosphere"},
	}
	for _, tt := range tests {
		c := NewComposer().WithClock(fixedClock(time.April, tt.hour))
		prompt, _ := c.Compose(structuredCharacter(), naturalScene(), Options{})
		if !strings.Contains(prompt, tt.want) {
			t.Errorf("hour %d: prompt %q missing %q", tt.hour, prompt, tt.want)
		}
	}
}

func TestComposeSeasons(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.March, "spring atmosphere, cherry blossoms, fresh green"},
		{time.July, "summer atmosphere, bright sunshine, vivid colors"},
		{time.October, "autumn atmosphere, fallen leaves, warm colors"},
		{time.January, "winter atmosphere, snow, cool lighting"},
		{time.December, "winter atmosphere, snow, cool lighting"},
	}
	for _, tt := range tests {
		c := NewComposer().WithClock(fixedClock(tt.month, 14))
		prompt, _ := c.Compose(structuredCharacter(), naturalScene(), Options{})
		if !strings.Contains(prompt, tt.want) {
			t.Errorf("month %v: prompt %q missing %q", tt.month, prompt, tt.want)
		}
	}
}

func TestComposeSceneFragmentsInOrder(t *testing.T) {
	c := NewComposer().WithClock(fixedClock(time.April, 14))
	res := scene.Classify("わーい！海に行こう！", nil)
	prompt, _ := c.Compose(structuredCharacter(), res, Options{})

	emotion := strings.Index(prompt, "happy expression")
	action := strings.Index(prompt, "walking, casual stride")
	scenario := strings.Index(prompt, "beach setting")
	if emotion < 0 || action < 0 || scenario < 0 {
		t.Fatalf("missing fragments in %q", prompt)
	}
	if !(emotion < action && action < scenario) {
		t.Errorf("fragment order wrong in %q", prompt)
	}
}

func TestComposeOptions(t *testing.T) {
	c := NewComposer().WithClock(fixedClock(time.April, 14))
	prompt, negative := c.Compose(structuredCharacter(), naturalScene(), Options{
		Lora:          "<lora:style:0.8>",
		ExtraNegative: "nsfw",
	})
	if !strings.HasPrefix(prompt, "<lora:style:0.8>, petite girl") {
		t.Errorf("lora not prepended: %q", prompt)
	}
	if !strings.HasSuffix(negative, ", nsfw") {
		t.Errorf("extra negative not appended: %q", negative)
	}
	if !strings.HasPrefix(negative, "lowres, bad anatomy, bad hands") {
		t.Errorf("negative = %q", negative)
	}
}

func TestComposeNegativeTagList(t *testing.T) {
	c := NewComposer().WithClock(fixedClock(time.April, 14))
	_, negative := c.Compose(structuredCharacter(), naturalScene(), Options{})

	want := "lowres, bad anatomy, bad hands, text, error, missing fingers, " +
		"extra digit, fewer digits, cropped, worst quality, low quality, " +
		"normal quality, jpeg artifacts, signature, watermark, username, " +
		"blurry, bad face, ugly, duplicate, morbid, mutilated, extra fingers, " +
		"mutated hands, poorly drawn hands, poorly drawn face, mutation, " +
		"deformed, bad proportions, extra limbs, cloned face, disfigured, " +
		"gross proportions, malformed limbs, missing arms, missing legs, " +
		"extra arms, extra legs, fused fingers, too many fingers"
	if negative != want {
		t.Errorf("negative = %q, want %q", negative, want)
	}
}

func TestComposeNoDanglingCommas(t *testing.T) {
	c := NewComposer().WithClock(fixedClock(time.April, 14))
	prompt, negative := c.Compose(structuredCharacter(), naturalScene(), Options{})
	for _, s := range []string{prompt, negative} {
		if strings.Contains(s, ", ,") || strings.Contains(s, ",,") {
			t.Errorf("dangling comma in %q", s)
		}
		if strings.HasSuffix(s, ",") || strings.HasPrefix(s, ",") {
			t.Errorf("leading/trailing comma in %q", s)
		}
	}
}
