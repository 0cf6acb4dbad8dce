package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krishiguru/apiserver/config"
)

func stubResponse(texts ...string) map[string]any {
	parts := make([]map[string]any, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, map[string]any{"text": text})
	}
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": parts, "role": "model"}},
		},
	}
}

func newTestClient(url string) *Client {
	return NewClient(config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "gemini-test",
	})
}

func TestGenerateTextReturnsCandidateText(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(stubResponse("irrigate now"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.GenerateText(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "irrigate now" {
		t.Errorf("unexpected text: %q", text)
	}
	if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Parts[0].Text != "system prompt" {
		t.Error("system instruction not forwarded")
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "user prompt" {
		t.Error("user prompt not forwarded")
	}
	if gotReq.GenerationConfig.ResponseMimeType != "" {
		t.Errorf("unexpected response mime type: %q", gotReq.GenerationConfig.ResponseMimeType)
	}
}

func TestGenerateTextJoinsParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stubResponse("first ", "second"))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).GenerateText(context.Background(), "", "q")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "first second" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestGenerateJSONSetsResponseMimeType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("expected JSON mime type, got %q", req.GenerationConfig.ResponseMimeType)
		}
		json.NewEncoder(w).Encode(stubResponse(`{"ok":true}`))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).GenerateJSON(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != `{"ok":true}` {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestGenerateTextProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateText(context.Background(), "", "q")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateText(context.Background(), "", "q")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestGenerateTextRetriesRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(stubResponse("ok"))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).GenerateText(context.Background(), "", "q")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "ok" {
		t.Errorf("unexpected text: %q", text)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestGenerateTextNoAPIKey(t *testing.T) {
	client := NewClient(config.GeminiConfig{})
	if _, err := client.GenerateText(context.Background(), "", "q"); !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
