// Package prompt assembles the single text prompt sent to a chat backend:
// system directive, character block, recalled memories, user persona,
// conversation history and the pending user line.
package prompt

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ayachat/ayachat/internal/memory"
	"github.com/ayachat/ayachat/internal/types"
)

// MaxPromptChars caps the assembled prompt length in runes. When exceeded,
// history is dropped oldest first until the prompt fits. The preamble is
// never trimmed.
const MaxPromptChars = 30000

// Input carries everything one assembly needs. Settings is a snapshot:
// changes made while a reply is in flight do not affect this build.
type Input struct {
	Character   *types.Character
	Persona     *types.UserPersona
	Memos       []types.ChatMemo
	Settings    types.AppSettings
	History     []types.ChatMessage
	UserMessage string

	// Continue asks the character to keep talking; no user line is added.
	Continue bool
}

// Assembler builds prompts deterministically from an Input.
type Assembler struct {
	maxChars int
}

func NewAssembler() *Assembler {
	return &Assembler{maxChars: MaxPromptChars}
}

// WithMaxChars overrides the prompt length cap, mainly for tests.
func (a *Assembler) WithMaxChars(n int) *Assembler {
	if n > 0 {
		a.maxChars = n
	}
	return a
}

// Assemble builds the full prompt. The returned history is the subset that
// survived the length cap, so callers can retry with it or report drops.
func (a *Assembler) Assemble(in Input) (string, []types.ChatMessage, error) {
	if in.Character == nil {
		return "", nil, fmt.Errorf("character is required")
	}

	preamble, err := a.buildPreamble(in)
	if err != nil {
		return "", nil, err
	}

	history := filterHistory(in.History)
	userLine := ""
	if !in.Continue {
		userLine = "ユーザー: " + in.UserMessage + "\n"
	}

	full := composePrompt(preamble, history, userLine, in.Character.Name)
	for utf8.RuneCountInString(full) > a.maxChars && len(history) > 0 {
		history = history[1:]
		full = composePrompt(preamble, history, userLine, in.Character.Name)
	}
	if len(history) < len(filterHistory(in.History)) {
		slog.Warn("prompt over length cap, dropped oldest history",
			"kept", len(history),
			"dropped", len(filterHistory(in.History))-len(history))
	}
	return full, history, nil
}

func (a *Assembler) buildPreamble(in Input) (string, error) {
	base, err := CharacterBlock(in.Character)
	if err != nil {
		return "", err
	}

	memorySize := in.Settings.MemorySize
	if memorySize <= 0 {
		memorySize = memory.DefaultRecallChars
	}
	if block := memory.BuildRecallBlock(in.Memos, in.Character.ID, memorySize); block != "" {
		base += "\n\n" + block
		base += "\n\n上記の記憶情報を参考にして、一貫性のある自然な返答をしてください。"
	}

	if persona := PersonaBlock(in.Persona); persona != "" {
		base += "\n\n" + persona
	}

	base = DefaultSystemDirective + "\n\n" + base

	if in.Settings.EnableSystemPrompt && in.Settings.SystemPrompt != "" {
		base = base + "\n\n" + in.Settings.SystemPrompt
	}
	if in.Settings.EnableJailbreak && in.Settings.JailbreakPrompt != "" {
		base = in.Settings.JailbreakPrompt + "\n\n" + base
	}
	if instruction := FormatInstruction(in.Settings.ResponseFormat); instruction != "" {
		base += "\n\n" + instruction
	}
	return base, nil
}

func filterHistory(history []types.ChatMessage) []types.ChatMessage {
	kept := make([]types.ChatMessage, 0, len(history))
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) != "" {
			kept = append(kept, msg)
		}
	}
	return kept
}

func composePrompt(preamble string, history []types.ChatMessage, userLine, characterName string) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := characterName
		if msg.Role == types.RoleUser {
			speaker = "ユーザー"
		}
		lines = append(lines, speaker+": "+msg.Content)
	}
	historyText := strings.Join(lines, "\n")

	sep := ""
	if historyText != "" {
		sep = "\n"
	}
	return preamble + "\n\n" + historyText + sep + userLine + characterName + ":"
}
