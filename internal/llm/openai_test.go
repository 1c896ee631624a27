package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hey\n-----\nnull"}}]}`))
	}))
	defer server.Close()

	c := New("test-key", server.URL, "Al")

	text, err := c.Complete(context.Background(), "the transcript", "the persona")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "hey\n-----\nnull" {
		t.Errorf("unexpected completion text %q", text)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" {
		t.Errorf("unexpected model %q", gotReq.Model)
	}
	if gotReq.Temperature != 1 {
		t.Errorf("unexpected temperature %v", gotReq.Temperature)
	}
	if gotReq.MaxTokens != 128 {
		t.Errorf("unexpected max_tokens %d", gotReq.MaxTokens)
	}
	if gotReq.User != "Al" {
		t.Errorf("unexpected user %q", gotReq.User)
	}
	if len(gotReq.Messages) != 2 ||
		gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "the persona" ||
		gotReq.Messages[1].Role != "user" || gotReq.Messages[1].Content != "the transcript" {
		t.Errorf("unexpected messages %+v", gotReq.Messages)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New("test-key", server.URL, "Al")

	_, err := c.Complete(context.Background(), "u", "s")
	if err == nil {
		t.Fatal("expected error on non-200 status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := New("test-key", server.URL, "Al")

	if _, err := c.Complete(context.Background(), "u", "s"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestSetModel(t *testing.T) {
	c := New("k", "", "Al")

	c.SetModel("gpt-4o-mini")
	if c.model != "gpt-4o-mini" {
		t.Errorf("expected model override, got %q", c.model)
	}

	// Empty override keeps the current model.
	c.SetModel("")
	if c.model != "gpt-4o-mini" {
		t.Errorf("expected empty override to be ignored, got %q", c.model)
	}
}
