package types

import "time"

// Chat roles. Only these two appear in a session.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one exchange unit. Messages are immutable once created,
// except that the terminal assistant message may be dropped for
// regeneration.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is an ordered conversation bound to one character.
type ChatSession struct {
	ID          string        `json:"id"`
	CharacterID string        `json:"character_id"`
	Title       string        `json:"title"`
	Messages    []ChatMessage `json:"messages"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// UserPersona is an optional user-side identity included in prompts.
type UserPersona struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Likes         []string `json:"likes"`
	Dislikes      []string `json:"dislikes"`
	OtherSettings string   `json:"other_settings"`
}
