// Package summary condenses a chat session into a structured digest.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ayachat/ayachat/internal/chat"
	"github.com/ayachat/ayachat/internal/types"
)

// MinMessages is the shortest conversation worth summarizing.
const MinMessages = 3

// Stats are message-count figures attached to every summary.
type Stats struct {
	MessageCount         int `json:"message_count"`
	UserMessageCount     int `json:"user_message_count"`
	AIMessageCount       int `json:"ai_message_count"`
	WordCount            int `json:"word_count"`
	AverageMessageLength int `json:"average_message_length"`
}

// Summary is the structured digest of one session.
type Summary struct {
	Overview          string   `json:"overview"`
	KeyPoints         []string `json:"keyPoints"`
	CharacterInsights []string `json:"characterInsights"`
	EmotionalFlow     string   `json:"emotionalFlow"`
	Topics            []string `json:"topics"`
	UserEngagement    string   `json:"userEngagement"`
	MemorableQuotes   []string `json:"memorableQuotes"`

	Stats       Stats     `json:"stats"`
	GeneratedAt time.Time `json:"generated_at"`
}

const summaryPromptTemplate = `以下の会話を詳細に分析して、構造化された要約を作成してください。

【会話タイトル】: %s
【キャラクター】: %s

【会話内容】:
%s

【要求する要約形式】:
以下のJSON形式で応答してください：

{
  "overview": "会話全体の概要（150文字以内）",
  "keyPoints": [
    "重要なポイント1",
    "重要なポイント2",
    "重要なポイント3"
  ],
  "characterInsights": [
    "キャラクターの性格や行動に関する洞察1",
    "キャラクターの性格や行動に関する洞察2"
  ],
  "emotionalFlow": "会話の感情的な流れの説明",
  "topics": [
    "話題1",
    "話題2",
    "話題3"
  ],
  "userEngagement": "ユーザーの関与度や興味のポイント",
  "memorableQuotes": [
    "印象的な発言やフレーズ1",
    "印象的な発言やフレーズ2"
  ]
}

重要な点：
- 客観的で正確な要約を心がける
- キャラクターの個性や特徴を捉える
- 会話の流れと感情の変化を記録
- ユーザーとキャラクターの関係性に注目
- 今後の会話に役立つ情報を抽出

JSON形式以外は出力しないでください。`

// Summarizer produces session digests through a text backend. Summaries
// use a low temperature regardless of chat settings.
type Summarizer struct {
	generator chat.Generator
	model     string
	nowFunc   func() time.Time
}

func NewSummarizer(generator chat.Generator, model string) *Summarizer {
	return &Summarizer{
		generator: generator,
		model:     model,
		nowFunc:   time.Now,
	}
}

// WithClock replaces the timestamp source, mainly for tests.
func (s *Summarizer) WithClock(now func() time.Time) *Summarizer {
	s.nowFunc = now
	return s
}

// Summarize digests one session. Short conversations get a canned summary
// without calling the backend.
func (s *Summarizer) Summarize(ctx context.Context, session *types.ChatSession, characterName string) (*Summary, error) {
	if session == nil || len(session.Messages) == 0 {
		return nil, fmt.Errorf("no messages to summarize")
	}

	stats := buildStats(session.Messages)
	if len(session.Messages) < MinMessages {
		return &Summary{
			Overview:      "会話がまだ短いため、要約するには十分な内容がありません。",
			KeyPoints:     []string{"会話を続けてより多くの内容を蓄積してください。"},
			EmotionalFlow: "会話開始",
			Stats:         stats,
			GeneratedAt:   s.nowFunc(),
		}, nil
	}

	promptText := BuildSummaryPrompt(session, characterName)
	opts := types.GenerationOptions{
		Model:       s.model,
		Temperature: 0.3,
		TopP:        0.8,
		MaxTokens:   1500,
	}
	raw, err := s.generator.Generate(ctx, promptText, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	summary, err := ParseSummary(raw)
	if err != nil {
		return nil, err
	}
	summary.Stats = stats
	summary.GeneratedAt = s.nowFunc()
	return summary, nil
}

// BuildSummaryPrompt renders the analysis prompt for one session.
func BuildSummaryPrompt(session *types.ChatSession, characterName string) string {
	if characterName == "" {
		characterName = "AI"
	}
	title := session.Title
	if title == "" {
		title = "新しいチャット"
	}

	lines := make([]string, 0, len(session.Messages))
	for _, msg := range session.Messages {
		speaker := characterName
		if msg.Role == types.RoleUser {
			speaker = "ユーザー"
		}
		lines = append(lines, speaker+": "+msg.Content)
	}
	return fmt.Sprintf(summaryPromptTemplate, title, characterName, strings.Join(lines, "\n\n"))
}

// ParseSummary extracts the JSON object from a model reply, tolerating
// prose or code fences around it.
func ParseSummary(raw string) (*Summary, error) {
	clean := strings.TrimSpace(raw)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}

	var summary Summary
	if err := json.Unmarshal([]byte(clean), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary output: %w", err)
	}
	summary.Overview = strings.TrimSpace(summary.Overview)
	if summary.Overview == "" {
		return nil, fmt.Errorf("missing overview")
	}
	return &summary, nil
}

func buildStats(messages []types.ChatMessage) Stats {
	stats := Stats{MessageCount: len(messages)}
	for _, msg := range messages {
		if msg.Role == types.RoleUser {
			stats.UserMessageCount++
		} else {
			stats.AIMessageCount++
		}
		stats.WordCount += utf8.RuneCountInString(msg.Content)
	}
	if stats.MessageCount > 0 {
		stats.AverageMessageLength = stats.WordCount / stats.MessageCount
	}
	return stats
}
