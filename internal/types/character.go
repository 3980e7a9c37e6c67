package types

import "time"

// CharacterPersonality describes inner and outer personality traits.
type CharacterPersonality struct {
	Summary    string   `json:"summary"`
	External   string   `json:"external"`
	Internal   string   `json:"internal"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// CharacterAppearance holds the visual description used for image prompts.
type CharacterAppearance struct {
	Description string `json:"description"`
	Hair        string `json:"hair"`
	Eyes        string `json:"eyes"`
	Clothing    string `json:"clothing"`
}

// CharacterSpeakingStyle describes how the character talks.
type CharacterSpeakingStyle struct {
	Base         string `json:"base"`
	FirstPerson  string `json:"first_person"`
	SecondPerson string `json:"second_person"`
	Quirks       string `json:"quirks"`
}

// CharacterScenario describes the roleplay setting.
type CharacterScenario struct {
	Worldview            string `json:"worldview"`
	InitialSituation     string `json:"initial_situation"`
	RelationshipWithUser string `json:"relationship_with_user"`
}

// CharacterDefinition is the structured profile. It is optional: legacy
// characters carry only the flat fields on Character, and every renderer
// must branch on its presence.
type CharacterDefinition struct {
	Personality   CharacterPersonality   `json:"personality"`
	Background    string                 `json:"background"`
	Appearance    CharacterAppearance    `json:"appearance"`
	SpeakingStyle CharacterSpeakingStyle `json:"speaking_style"`
	Scenario      CharacterScenario      `json:"scenario"`
}

// ExampleDialogue is one (user line, character line) exchange sample.
type ExampleDialogue struct {
	User string `json:"user"`
	Char string `json:"char"`
}

// ImageDefaults are per-character generation parameters passed through to
// the image backend. Zero values mean "use the engine default".
type ImageDefaults struct {
	Seed     *int64  `json:"seed,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Steps    int     `json:"steps,omitempty"`
	CfgScale float64 `json:"cfg_scale,omitempty"`
	Sampler  string  `json:"sampler,omitempty"`
}

const (
	DefaultImageWidth    = 512
	DefaultImageHeight   = 768
	DefaultImageSteps    = 28
	DefaultImageCfgScale = 8
	DefaultImageSampler  = "DPM++ 2M Karras"
)

// WithDefaults fills unset image parameters with the engine defaults.
func (d ImageDefaults) WithDefaults() ImageDefaults {
	if d.Width <= 0 {
		d.Width = DefaultImageWidth
	}
	if d.Height <= 0 {
		d.Height = DefaultImageHeight
	}
	if d.Steps <= 0 {
		d.Steps = DefaultImageSteps
	}
	if d.CfgScale <= 0 {
		d.CfgScale = DefaultImageCfgScale
	}
	if d.Sampler == "" {
		d.Sampler = DefaultImageSampler
	}
	return d
}

// Character is the persisted profile.
type Character struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Tags            []string              `json:"tags"`
	FirstMessages   []string              `json:"first_messages"`
	Definition      *CharacterDefinition  `json:"definition,omitempty"`
	ExampleDialogue []ExampleDialogue     `json:"example_dialogue,omitempty"`

	// Flat fields, used when Definition is absent.
	Personality   string   `json:"personality,omitempty"`
	Appearance    string   `json:"appearance,omitempty"`
	SpeakingStyle string   `json:"speaking_style,omitempty"`
	Scenario      string   `json:"scenario,omitempty"`
	Background    string   `json:"background,omitempty"`
	Hobbies       []string `json:"hobbies,omitempty"`
	Likes         []string `json:"likes,omitempty"`
	Dislikes      []string `json:"dislikes,omitempty"`
	AvatarURL     string   `json:"avatar_url,omitempty"`

	Image ImageDefaults `json:"image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasStructuredAppearance reports whether the character has structured
// appearance data usable for image prompt composition.
func (c *Character) HasStructuredAppearance() bool {
	if c == nil || c.Definition == nil {
		return false
	}
	a := c.Definition.Appearance
	return a.Description != "" || a.Hair != "" || a.Eyes != "" || a.Clothing != ""
}
