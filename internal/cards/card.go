// Package cards imports and exports character card files. Cards are JSON
// documents, either a bare card object or a v2 envelope with the card
// under "data".
package cards

import (
	"encoding/json"
	"fmt"

	"github.com/ayachat/ayachat/internal/types"
	"github.com/ayachat/ayachat/internal/utils"
)

// CharacterCard mirrors the card file layout. Field names follow the card
// format, not this codebase.
type CharacterCard struct {
	FileName        string                     `json:"file-name,omitempty"`
	Name            string                     `json:"name"`
	Tags            []string                   `json:"tags,omitempty"`
	FirstMessage    []string                   `json:"first_message,omitempty"`
	Hobbies         []string                   `json:"hobbies,omitempty"`
	Likes           []string                   `json:"likes,omitempty"`
	Dislikes        []string                   `json:"dislikes,omitempty"`
	Age             string                     `json:"age,omitempty"`
	Occupation      string                     `json:"occupation,omitempty"`
	AvatarURL       string                     `json:"avatar_url,omitempty"`
	Definition      *types.CharacterDefinition `json:"character_definition,omitempty"`
	ExampleDialogue []types.ExampleDialogue    `json:"example_dialogue,omitempty"`

	// Flat fields carried by legacy cards.
	Personality   string `json:"personality,omitempty"`
	Appearance    string `json:"appearance,omitempty"`
	SpeakingStyle string `json:"speaking_style,omitempty"`
	Scenario      string `json:"scenario,omitempty"`
	Background    string `json:"background,omitempty"`
}

// cardEnvelope is the v2 card wrapper.
type cardEnvelope struct {
	Spec string          `json:"spec"`
	Data json.RawMessage `json:"data"`
}

// ParseCard decodes and validates a card file. Both bare cards and v2
// envelopes are accepted.
func ParseCard(raw []byte) (*CharacterCard, error) {
	payload := raw
	var envelope cardEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		payload = envelope.Data
	}

	if err := ValidateCard(payload); err != nil {
		return nil, err
	}

	var card CharacterCard
	if err := json.Unmarshal(payload, &card); err != nil {
		return nil, fmt.Errorf("failed to parse character card: %w", err)
	}
	if card.Name == "" {
		return nil, fmt.Errorf("character card has no name")
	}
	return &card, nil
}

// ToCharacter converts a card into the persisted character form. Escaped
// newlines and card placeholders in the flat text fields are normalized.
func (c *CharacterCard) ToCharacter() *types.Character {
	character := &types.Character{
		Name:            c.Name,
		Tags:            c.Tags,
		FirstMessages:   c.FirstMessage,
		Definition:      c.Definition,
		ExampleDialogue: c.ExampleDialogue,
		Personality:     utils.NormalizePromptText(c.Personality, c.Name, "ユーザー"),
		Appearance:      utils.NormalizePromptText(c.Appearance, c.Name, "ユーザー"),
		SpeakingStyle:   utils.NormalizePromptText(c.SpeakingStyle, c.Name, "ユーザー"),
		Scenario:        utils.NormalizePromptText(c.Scenario, c.Name, "ユーザー"),
		Background:      utils.NormalizePromptText(c.Background, c.Name, "ユーザー"),
		Hobbies:         c.Hobbies,
		Likes:           c.Likes,
		Dislikes:        c.Dislikes,
		AvatarURL:       c.AvatarURL,
	}
	return character
}

// FromCharacter builds an exportable card from a stored character.
func FromCharacter(character *types.Character) *CharacterCard {
	return &CharacterCard{
		Name:            character.Name,
		Tags:            character.Tags,
		FirstMessage:    character.FirstMessages,
		Hobbies:         character.Hobbies,
		Likes:           character.Likes,
		Dislikes:        character.Dislikes,
		AvatarURL:       character.AvatarURL,
		Definition:      character.Definition,
		ExampleDialogue: character.ExampleDialogue,
		Personality:     character.Personality,
		Appearance:      character.Appearance,
		SpeakingStyle:   character.SpeakingStyle,
		Scenario:        character.Scenario,
		Background:      character.Background,
	}
}

// Export renders a card as indented JSON for download.
func Export(character *types.Character) ([]byte, error) {
	data, err := json.MarshalIndent(FromCharacter(character), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export character card: %w", err)
	}
	return data, nil
}
