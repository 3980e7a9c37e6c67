package prompt

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ayachat/ayachat/internal/types"
)

func flatCharacter() *types.Character {
	return &types.Character{
		ID:            "aya",
		Name:          "アヤ",
		Personality:   "明るく元気",
		Appearance:    "銀髪のロングヘア",
		SpeakingStyle: "丁寧語",
		Scenario:      "学園もの",
	}
}

func message(role, content string) types.ChatMessage {
	return types.ChatMessage{Role: role, Content: content, Timestamp: time.Now()}
}

func TestAssembleBasicShape(t *testing.T) {
	in := Input{
		Character:   flatCharacter(),
		Settings:    types.DefaultSettings(),
		History:     []types.ChatMessage{message(types.RoleUser, "こんにちは"), message(types.RoleAssistant, "こんにちは！")},
		UserMessage: "元気？",
	}
	got, _, err := NewAssembler().Assemble(in)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.HasPrefix(got, DefaultSystemDirective) {
		t.Error("prompt does not start with system directive")
	}
	if !strings.Contains(got, "【キャラクター設定】") {
		t.Error("character block missing")
	}
	if !strings.Contains(got, "ユーザー: こんにちは\nアヤ: こんにちは！\nユーザー: 元気？\nアヤ:") {
		t.Errorf("history/user tail wrong:\n%s", got)
	}
	if !strings.HasSuffix(got, "アヤ:") {
		t.Error("prompt does not end with character cue")
	}
}

func TestAssembleNilCharacter(t *testing.T) {
	_, _, err := NewAssembler().Assemble(Input{UserMessage: "hi"})
	if err == nil {
		t.Fatal("expected error for nil character")
	}
}

func TestAssembleStructuredCharacter(t *testing.T) {
	c := flatCharacter()
	c.Definition = &types.CharacterDefinition{
		Personality: types.CharacterPersonality{Summary: "賢い航海士", Strengths: []string{"航海術", "交渉術"}},
		Background:  "海の街の出身",
	}
	got, _, err := NewAssembler().Assemble(Input{Character: c, Settings: types.DefaultSettings(), UserMessage: "hi"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(got, "## キャラクター設定") {
		t.Error("structured block missing")
	}
	if !strings.Contains(got, "**長所**: 航海術, 交渉術") {
		t.Error("joined strengths missing")
	}
	if strings.Contains(got, "【キャラクター設定】") {
		t.Error("flat block rendered for structured character")
	}
}

func TestAssembleMemoryBlock(t *testing.T) {
	memos := []types.ChatMemo{{
		ID: "m1", CharacterID: "aya", Note: "ユーザーはコーヒーが好き",
		IsAIMemory: true, Importance: 4, UpdatedAt: time.Now(),
	}}
	got, _, err := NewAssembler().Assemble(Input{
		Character: flatCharacter(), Settings: types.DefaultSettings(),
		Memos: memos, UserMessage: "hi",
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(got, "【キャラクター記憶】\n• ユーザーはコーヒーが好き") {
		t.Errorf("memory block missing:\n%s", got)
	}
	if !strings.Contains(got, "上記の記憶情報を参考にして") {
		t.Error("memory directive missing")
	}
}

func TestAssembleNoMemoryBlockWithoutMemos(t *testing.T) {
	got, _, err := NewAssembler().Assemble(Input{
		Character: flatCharacter(), Settings: types.DefaultSettings(), UserMessage: "hi",
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if strings.Contains(got, "【キャラクター記憶】") {
		t.Error("memory header rendered with no memos")
	}
}

func TestAssemblePersonaBlock(t *testing.T) {
	persona := &types.UserPersona{
		Name:     "優しい先輩",
		Likes:    []string{"読書", "紅茶"},
		Dislikes: []string{"騒がしい場所"},
	}
	got, _, err := NewAssembler().Assemble(Input{
		Character: flatCharacter(), Settings: types.DefaultSettings(),
		Persona: persona, UserMessage: "hi",
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(got, "- ユーザーのタイプ: 優しい先輩") {
		t.Error("persona type missing")
	}
	if !strings.Contains(got, "- 好きなもの: 読書, 紅茶") {
		t.Error("persona likes missing")
	}
}

func TestAssemblePromptLayers(t *testing.T) {
	s := types.DefaultSettings()
	s.EnableSystemPrompt = true
	s.SystemPrompt = "常に敬語で話すこと。"
	s.EnableJailbreak = true
	s.JailbreakPrompt = "脚色を恐れないでください。"
	s.ResponseFormat = types.ResponseFormatRoleplay

	got, _, err := NewAssembler().Assemble(Input{Character: flatCharacter(), Settings: s, UserMessage: "hi"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.HasPrefix(got, "脚色を恐れないでください。\n\n"+DefaultSystemDirective) {
		t.Error("jailbreak not prepended before directive")
	}
	if !strings.Contains(got, "常に敬語で話すこと。") {
		t.Error("system prompt missing")
	}
	if !strings.Contains(got, "【重要】完全にキャラクターになりきって") {
		t.Error("format instruction missing")
	}
}

func TestAssembleContinuationOmitsUserLine(t *testing.T) {
	in := Input{
		Character:   flatCharacter(),
		Settings:    types.DefaultSettings(),
		History:     []types.ChatMessage{message(types.RoleAssistant, "それでね…")},
		UserMessage: "hello",
		Continue:    true,
	}
	got, _, err := NewAssembler().Assemble(in)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if strings.Contains(got, "hello") {
		t.Error("continuation included the user message")
	}
	if !strings.HasSuffix(got, "アヤ: それでね…\nアヤ:") {
		t.Errorf("continuation tail wrong:\n%s", got)
	}
}

func TestAssembleSkipsBlankHistory(t *testing.T) {
	in := Input{
		Character: flatCharacter(),
		Settings:  types.DefaultSettings(),
		History: []types.ChatMessage{
			message(types.RoleUser, "  "),
			message(types.RoleUser, "おはよう"),
			message(types.RoleAssistant, ""),
		},
		UserMessage: "hi",
	}
	got, kept, err := NewAssembler().Assemble(in)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("kept %d messages, want 1", len(kept))
	}
	if strings.Contains(got, "アヤ: \n") {
		t.Error("blank assistant line rendered")
	}
}

func TestAssembleDropsOldestHistoryOverCap(t *testing.T) {
	c := flatCharacter()
	base, _, err := NewAssembler().Assemble(Input{Character: c, Settings: types.DefaultSettings(), UserMessage: "x"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// Cap leaves room for roughly one history line beyond the preamble.
	maxChars := utf8.RuneCountInString(base) + 30

	history := []types.ChatMessage{
		message(types.RoleUser, "最初のメッセージです"+strings.Repeat("！", 60)),
		message(types.RoleAssistant, "新しい返事"),
	}
	got, kept, err := NewAssembler().WithMaxChars(maxChars).Assemble(Input{
		Character: c, Settings: types.DefaultSettings(),
		History: history, UserMessage: "x",
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(kept) >= len(history) {
		t.Fatalf("expected history to shrink, kept %d of %d", len(kept), len(history))
	}
	if strings.Contains(got, "最初のメッセージです") {
		t.Error("oldest message not dropped first")
	}
	if !strings.Contains(got, DefaultSystemDirective) {
		t.Error("preamble was trimmed")
	}
	if !strings.Contains(got, "ユーザー: x") {
		t.Error("pending user line was trimmed")
	}
}

func TestAssembleTerminatesWhenPreambleAloneOverCap(t *testing.T) {
	got, kept, err := NewAssembler().WithMaxChars(10).Assemble(Input{
		Character: flatCharacter(), Settings: types.DefaultSettings(),
		History:     []types.ChatMessage{message(types.RoleUser, "a")},
		UserMessage: "b",
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(kept) != 0 {
		t.Errorf("kept %d messages, want 0", len(kept))
	}
	if got == "" {
		t.Error("prompt empty")
	}
}

func TestAssembleFallbackCharacterLine(t *testing.T) {
	c := &types.Character{ID: "n", Name: "ナミ"}
	got, _, err := NewAssembler().Assemble(Input{Character: c, Settings: types.DefaultSettings(), UserMessage: "hi"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(got, "あなたは「ナミ」として振る舞ってください。ユーザーと自然に会話し、キャラクターとして一貫性を保ってください。") {
		t.Errorf("fallback line missing:\n%s", got)
	}
}
