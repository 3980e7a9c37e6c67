package types

import "time"

// Importance bounds for chat memos.
const (
	MinImportance = 1
	MaxImportance = 5
)

// ChatMemo is a note bound to one chat message. Memos with IsAIMemory set
// are eligible for automatic recall into prompts; the rest exist for human
// reference only.
type ChatMemo struct {
	ID          string   `json:"id"`
	MessageID   string   `json:"message_id"`
	SessionID   string   `json:"session_id"`
	CharacterID string   `json:"character_id"`
	// Content is the annotated message's original text, denormalized for
	// display.
	Content    string   `json:"content"`
	Note       string   `json:"note"`
	Tags       []string `json:"tags"`
	IsAIMemory bool     `json:"is_ai_memory"`
	// Importance is clamped to [MinImportance, MaxImportance].
	Importance int       `json:"importance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EffectiveImportance returns the memo's importance, treating unset (zero)
// as the minimum.
func (m ChatMemo) EffectiveImportance() int {
	if m.Importance < MinImportance {
		return MinImportance
	}
	if m.Importance > MaxImportance {
		return MaxImportance
	}
	return m.Importance
}
