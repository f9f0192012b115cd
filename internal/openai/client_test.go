package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chatReply(text string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": text}, "finish_reason": "stop"},
		},
	}
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %q", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[0].Content != "you are a test" {
			t.Errorf("unexpected system message: %+v", req.Messages[0])
		}
		if req.Messages[1].Role != "user" || req.Messages[1].Content != "hello" {
			t.Errorf("unexpected user message: %+v", req.Messages[1])
		}
		if req.Temperature != 0.3 {
			t.Errorf("expected temperature 0.3, got %f", req.Temperature)
		}
		if req.MaxTokens != 100 {
			t.Errorf("expected max_tokens 100, got %d", req.MaxTokens)
		}

		json.NewEncoder(w).Encode(chatReply("world"))
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", 5*time.Second)
	c.SetBaseURL(server.URL)

	result, err := c.Complete(context.Background(), "you are a test", "hello", 0.3, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "world" {
		t.Errorf("expected 'world', got %q", result)
	}
}

func TestComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "rate_limit_error",
				"message": "slow down",
			},
		})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", 5*time.Second)
	c.SetBaseURL(server.URL)

	_, err := c.Complete(context.Background(), "", "hi", 0.5, 100)
	if err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", 5*time.Second)
	c.SetBaseURL(server.URL)

	_, err := c.Complete(context.Background(), "", "hi", 0.5, 100)
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(chatReply("late"))
	}))
	defer server.Close()

	c := NewClient("test-key", "test-model", 20*time.Millisecond)
	c.SetBaseURL(server.URL)

	_, err := c.Complete(context.Background(), "", "hi", 0.5, 100)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestTranscribeFile_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("expected /audio/transcriptions, got %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-test" {
			t.Errorf("expected model whisper-test, got %q", got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("expected language en, got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "fake-audio" {
			t.Errorf("unexpected audio payload %q", data)
		}
		if header.Filename != "clip.webm" {
			t.Errorf("expected filename clip.webm, got %q", header.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello there"})
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "clip.webm")
	if err := os.WriteFile(path, []byte("fake-audio"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewClient("test-key", "test-model", 5*time.Second)
	c.SetBaseURL(server.URL)
	c.SetWhisperModel("whisper-test")

	text, err := c.TranscribeFile(context.Background(), path, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello there" {
		t.Errorf("expected 'hello there', got %q", text)
	}
}

func TestTranscribeFile_MissingFile(t *testing.T) {
	c := NewClient("test-key", "test-model", 5*time.Second)

	_, err := c.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "nope.webm"), "en")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
