package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayachat/ayachat/internal/types"
)

func TestSDClientGenerate(t *testing.T) {
	var got txt2imgRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sdapi/v1/txt2img" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(txt2imgResponse{Images: []string{"QUJD"}})
	}))
	defer server.Close()

	client := NewSDClient(server.URL)
	image, err := client.Generate(context.Background(), types.ImageRequest{
		Prompt:         "silver hair girl, beach setting",
		NegativePrompt: "lowres",
		Width:          512,
		Height:         768,
		Steps:          28,
		CfgScale:       8,
		Sampler:        "DPM++ 2M Karras",
		Seed:           42,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if image != "data:image/png;base64,QUJD" {
		t.Errorf("image = %q", image)
	}
	if got.Prompt != "silver hair girl, beach setting" || got.NegativePrompt != "lowres" {
		t.Errorf("prompts not forwarded: %+v", got)
	}
	if got.Width != 512 || got.Height != 768 || got.Steps != 28 || got.CfgScale != 8 || got.Seed != 42 {
		t.Errorf("parameters not forwarded: %+v", got)
	}
	if got.SamplerName != "DPM++ 2M Karras" {
		t.Errorf("sampler = %q", got.SamplerName)
	}
	if got.BatchSize != 1 || got.NIter != 1 {
		t.Errorf("batch fields wrong: %+v", got)
	}
}

func TestSDClientGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cuda out of memory", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewSDClient(server.URL).Generate(context.Background(), types.ImageRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestSDClientGenerateEmptyImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(txt2imgResponse{})
	}))
	defer server.Close()

	_, err := NewSDClient(server.URL).Generate(context.Background(), types.ImageRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error on empty images")
	}
}

func TestAspectRatioFor(t *testing.T) {
	tests := []struct {
		w, h int
		want string
	}{
		{512, 512, "1:1"},
		{0, 768, "1:1"},
		{512, 768, "3:4"},
		{512, 1024, "9:16"},
		{768, 512, "4:3"},
		{1024, 512, "16:9"},
	}
	for _, tt := range tests {
		if got := aspectRatioFor(tt.w, tt.h); got != tt.want {
			t.Errorf("aspectRatioFor(%d, %d) = %q, want %q", tt.w, tt.h, got, tt.want)
		}
	}
}
