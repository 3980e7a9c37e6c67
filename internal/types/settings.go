package types

// Image engines supported by the image pipeline.
const (
	ImageEngineSD     = "sd"
	ImageEngineGemini = "gemini"
)

// Response style selectors. "normal" adds no extra instruction.
const (
	ResponseFormatNormal      = "normal"
	ResponseFormatRoleplay    = "roleplay"
	ResponseFormatNarrative   = "narrative"
	ResponseFormatDialogue    = "dialogue"
	ResponseFormatDescriptive = "descriptive"
)

// VoiceSettings are text-to-speech parameters passed through to the voice
// collaborator. The core never interprets them.
type VoiceSettings struct {
	Enabled         bool    `json:"enabled"`
	AutoPlay        bool    `json:"auto_play"`
	VoiceID         string  `json:"voice_id"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed"`
	Volume          float64 `json:"volume"`
}

// AppSettings is the flat configuration record read as an immutable
// snapshot per prompt build.
type AppSettings struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
	Model       string  `json:"model"`

	// MemorySize caps the characters of memory inlined into a prompt.
	MemorySize int `json:"memory_size"`

	SystemPrompt       string `json:"system_prompt"`
	JailbreakPrompt    string `json:"jailbreak_prompt"`
	EnableSystemPrompt bool   `json:"enable_system_prompt"`
	EnableJailbreak    bool   `json:"enable_jailbreak"`
	ResponseFormat     string `json:"response_format"`

	EnableImageGeneration bool   `json:"enable_image_generation"`
	ImageEngine           string `json:"image_engine"`
	LoraSettings          string `json:"lora_settings"`
	// NegativePrompt is appended to the fixed negative prompt.
	NegativePrompt string `json:"negative_prompt"`

	Voice VoiceSettings `json:"voice"`
}

// DefaultSettings mirrors the shipped defaults.
func DefaultSettings() AppSettings {
	return AppSettings{
		Temperature:           0.7,
		TopP:                  0.9,
		MaxTokens:             2048,
		Model:                 "gemini-2.5-flash",
		MemorySize:            1000,
		ResponseFormat:        ResponseFormatNormal,
		EnableImageGeneration: true,
		ImageEngine:           ImageEngineSD,
		Voice: VoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			UseSpeakerBoost: true,
			Speed:           1.0,
			Volume:          0.8,
		},
	}
}

// GenerationOptions are the pass-through parameters handed to a text
// generation backend.
type GenerationOptions struct {
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// GenerationOptionsFrom builds backend options from a settings snapshot,
// substituting defaults for unset values.
func GenerationOptionsFrom(s AppSettings) GenerationOptions {
	opts := GenerationOptions{
		Model:       s.Model,
		Temperature: s.Temperature,
		TopP:        s.TopP,
		MaxTokens:   s.MaxTokens,
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 0.7
	}
	if opts.TopP <= 0 {
		opts.TopP = 0.9
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}
	return opts
}

// ImageRequest is the final payload for an image backend.
type ImageRequest struct {
	Prompt         string
	NegativePrompt string
	Width          int
	Height         int
	Steps          int
	CfgScale       float64
	Sampler        string
	Seed           int64
}
