package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/mentoro/internal/config"
)

func TestOpenAIGenerate(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[{\"question\":\"q\",\"answer\":\"a\"}]"}}]}`))
	}))
	defer srv.Close()

	p, err := NewOpenAI(OpenAIOptions{BaseURL: srv.URL + "/", APIKey: "sk-test", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatal(err)
	}
	text, err := p.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if text != `[{"question":"q","answer":"a"}]` {
		t.Fatalf("text: %q", text)
	}
	if gotAuth != "Bearer sk-test" || gotPath != "/v1/chat/completions" {
		t.Fatalf("auth=%q path=%q", gotAuth, gotPath)
	}
	if gotReq.Model != "gpt-4o-mini" || len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "hello" {
		t.Fatalf("request: %+v", gotReq)
	}
}

func TestOpenAIErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "Bearer bad" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"auth","code":"invalid_api_key"}}`))
			return
		}
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p, _ := NewOpenAI(OpenAIOptions{BaseURL: srv.URL, APIKey: "ok", Model: "m", MaxRetries: 1, Timeout: 5 * time.Second})
	if _, err := p.Generate(context.Background(), "x"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err: got=%v want=%v", err, ErrEmptyResponse)
	}
	if calls.Load() != 2 {
		t.Fatalf("503 should be retried once: calls=%d", calls.Load())
	}

	calls.Store(0)
	p, _ = NewOpenAI(OpenAIOptions{BaseURL: srv.URL, APIKey: "bad", Model: "m", MaxRetries: 3})
	_, err := p.Generate(context.Background(), "x")
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusUnauthorized || he.Code != "invalid_api_key" {
		t.Fatalf("err: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx retried: calls=%d", calls.Load())
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), config.AIConfig{Provider: "none"}, nil)
	if err != nil || p != nil {
		t.Fatalf("none: p=%v err=%v", p, err)
	}
	if _, err := NewProvider(context.Background(), config.AIConfig{Provider: "gemini"}, nil); err == nil {
		t.Fatalf("gemini without key should fail")
	}
	if _, err := NewProvider(context.Background(), config.AIConfig{Provider: "claude"}, nil); err == nil {
		t.Fatalf("unknown provider should fail")
	}
	p, err = NewProvider(context.Background(), config.AIConfig{Provider: "openai", BaseURL: "http://localhost:1", Model: "m"}, nil)
	if err != nil || p.Name() != "openai" {
		t.Fatalf("openai: p=%v err=%v", p, err)
	}
}
