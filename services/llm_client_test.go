package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testChatClient(url string) *ChatClient {
	cfg := &Config{
		OpenAIAPIKey: "test-key",
		OpenAIModel:  "gpt-4o-mini",
		Temperature:  0.7,
		MaxTokens:    256,
	}
	return NewChatClient(cfg, url)
}

func chatReply(content string) string {
	return `{"choices":[{"message":{"content":"` + content + `"}}]}`
}

func TestChatClientComplete(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(chatReply("I vote for Alice")))
	}))
	defer srv.Close()

	client := testChatClient(srv.URL)
	answer, err := client.Complete(context.Background(), "You are a player.", "Who do you vote for?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if answer != "I vote for Alice" {
		t.Errorf("answer = %q", answer)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("messages = %+v, want system then user", gotReq.Messages)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
}

func TestChatClientOmitsEmptySystemPrompt(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(chatReply("ok")))
	}))
	defer srv.Close()

	if _, err := testChatClient(srv.URL).Complete(context.Background(), "", "hello"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("messages = %+v, want a single user message", gotReq.Messages)
	}
}

func TestChatClientRetriesRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chatReply("second try")))
	}))
	defer srv.Close()

	answer, err := testChatClient(srv.URL).Complete(context.Background(), "", "hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if answer != "second try" {
		t.Errorf("answer = %q", answer)
	}
	if attempts != 2 {
		t.Errorf("server saw %d attempts, want 2", attempts)
	}
}

func TestChatClientDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	_, err := testChatClient(srv.URL).Complete(context.Background(), "", "hi")
	if err == nil {
		t.Fatal("want error on 401")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("err = %v, want status 401", err)
	}
	if attempts != 1 {
		t.Errorf("server saw %d attempts, want 1 (no retry on 4xx)", attempts)
	}
}

func TestChatClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := testChatClient(srv.URL).Complete(context.Background(), "", "hi")
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("err = %v, want ErrEmptyCompletion", err)
	}
}

func TestChatClientHonorsContextDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testChatClient(srv.URL).Complete(ctx, "", "hi")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
