package utils

import (
	"testing"

	"google.golang.org/genai"
)

func TestExtractContentText(t *testing.T) {
	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: "こんにちは"},
			nil,
			{Text: "！"},
		},
	}
	if got := ExtractContentText(content); got != "こんにちは！" {
		t.Fatalf("unexpected text: %s", got)
	}
	if got := ExtractContentText(nil); got != "" {
		t.Fatalf("expected empty for nil content, got %s", got)
	}
}

func TestNormalizePromptText(t *testing.T) {
	got := NormalizePromptText(`{{char}}は{{user}}に\n\"おはよう\"と言った`, "アヤ", "ユーザー")
	want := "アヤはユーザーに\n\"おはよう\"と言った"
	if got != want {
		t.Fatalf("unexpected text: %s", got)
	}
}

func TestNormalizePromptTextReplacesEveryOccurrence(t *testing.T) {
	got := NormalizePromptText("{{char}}は{{user}}に挨拶した。{{char}}は笑った。", "アヤ", "ユーザー")
	want := "アヤはユーザーに挨拶した。アヤは笑った。"
	if got != want {
		t.Fatalf("unexpected text: %s", got)
	}
}
