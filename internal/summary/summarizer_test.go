package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ayachat/ayachat/internal/types"
)

type mockGenerator struct {
	reply  string
	err    error
	prompt string
	opts   types.GenerationOptions
	calls  int
}

func (m *mockGenerator) Generate(_ context.Context, promptText string, opts types.GenerationOptions) (string, error) {
	m.calls++
	m.prompt = promptText
	m.opts = opts
	return m.reply, m.err
}

func session(contents ...string) *types.ChatSession {
	s := &types.ChatSession{ID: "s1", CharacterID: "aya", Title: "放課後の会話"}
	for i, content := range contents {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		s.Messages = append(s.Messages, types.ChatMessage{Role: role, Content: content})
	}
	return s
}

func TestSummarizeShortSessionSkipsBackend(t *testing.T) {
	gen := &mockGenerator{}
	s := NewSummarizer(gen, "gemini-2.5-flash")

	got, err := s.Summarize(context.Background(), session("やあ", "こんにちは"), "アヤ")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("backend called %d times for short session", gen.calls)
	}
	if !strings.Contains(got.Overview, "要約するには十分な内容がありません") {
		t.Errorf("overview = %q", got.Overview)
	}
	if got.Stats.MessageCount != 2 || got.Stats.UserMessageCount != 1 {
		t.Errorf("stats = %+v", got.Stats)
	}
}

func TestSummarize(t *testing.T) {
	gen := &mockGenerator{reply: `{
	  "overview": "買い物の計画を立てた",
	  "keyPoints": ["週末に出かける"],
	  "characterInsights": ["世話焼きな一面"],
	  "emotionalFlow": "楽しい雰囲気",
	  "topics": ["買い物"],
	  "userEngagement": "積極的",
	  "memorableQuotes": ["楽しみだね！"]
	}`}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSummarizer(gen, "gemini-2.5-flash").WithClock(func() time.Time { return now })

	got, err := s.Summarize(context.Background(), session("週末どうする？", "買い物に行こうよ", "いいね", "駅前でね！"), "アヤ")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.Overview != "買い物の計画を立てた" {
		t.Errorf("overview = %q", got.Overview)
	}
	if !got.GeneratedAt.Equal(now) {
		t.Errorf("generatedAt = %v", got.GeneratedAt)
	}
	if got.Stats.MessageCount != 4 || got.Stats.AIMessageCount != 2 {
		t.Errorf("stats = %+v", got.Stats)
	}
	if gen.opts.Temperature != 0.3 || gen.opts.TopP != 0.8 || gen.opts.MaxTokens != 1500 {
		t.Errorf("generation opts = %+v", gen.opts)
	}
	if !strings.Contains(gen.prompt, "【会話タイトル】: 放課後の会話") {
		t.Error("title missing from prompt")
	}
	if !strings.Contains(gen.prompt, "ユーザー: 週末どうする？") || !strings.Contains(gen.prompt, "アヤ: 買い物に行こうよ") {
		t.Error("conversation missing from prompt")
	}
}

func TestSummarizeBackendError(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	s := NewSummarizer(&mockGenerator{err: wantErr}, "gemini-2.5-flash")

	_, err := s.Summarize(context.Background(), session("a", "b", "c"), "アヤ")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
}

func TestSummarizeEmptySession(t *testing.T) {
	s := NewSummarizer(&mockGenerator{}, "gemini-2.5-flash")
	if _, err := s.Summarize(context.Background(), &types.ChatSession{}, "アヤ"); err == nil {
		t.Fatal("expected error for empty session")
	}
}

func TestParseSummaryWithWrapper(t *testing.T) {
	raw := "以下が要約です。\n```json\n{\"overview\": \"散歩の話\", \"emotionalFlow\": \"穏やか\"}\n```"
	got, err := ParseSummary(raw)
	if err != nil {
		t.Fatalf("ParseSummary: %v", err)
	}
	if got.Overview != "散歩の話" {
		t.Errorf("overview = %q", got.Overview)
	}
}

func TestParseSummaryMissingOverview(t *testing.T) {
	if _, err := ParseSummary(`{"keyPoints": ["a"]}`); err == nil {
		t.Fatal("expected error for missing overview")
	}
}

func TestParseSummaryInvalid(t *testing.T) {
	if _, err := ParseSummary("これは要約できませんでした"); err == nil {
		t.Fatal("expected error for non-JSON reply")
	}
}
