package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		`{"a":1}`:                          `{"a":1}`,
		"```json\n{\"a\":1}\n```":          `{"a":1}`,
		"Sure! Here it is: {\"a\":1} done": `{"a":1}`,
		"[1,2,3]":                          `[1,2,3]`,
		"no json here":                     "no json here",
	}
	for in, want := range cases {
		if got := ExtractJSON(in); got != want {
			t.Fatalf("ExtractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}

func chatServer(t *testing.T, replies []string, status []int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n < len(status) && status[n] != http.StatusOK {
			w.WriteHeader(status[n])
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"server_error"}}`))
			return
		}
		reply := replies[len(replies)-1]
		if n < len(replies) {
			reply = replies[n]
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestCompleteJSONRetriesServerErrors(t *testing.T) {
	t.Parallel()
	srv, calls := chatServer(t, []string{"", `{"title":"ok"}`}, []int{http.StatusInternalServerError, http.StatusOK})
	client, err := New(Options{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-test", MaxRetries: 2, RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	var out struct {
		Title string `json:"title"`
	}
	if err := client.CompleteJSON(context.Background(), "system", "user", &out); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.Title != "ok" || atomic.LoadInt32(calls) != 2 {
		t.Fatalf("expected recovery on second call, got %+v after %d calls", out, atomic.LoadInt32(calls))
	}
}

func TestCompleteJSONRejectsMalformedReply(t *testing.T) {
	t.Parallel()
	srv, calls := chatServer(t, []string{"definitely not json"}, nil)
	client, err := New(Options{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-test", MaxRetries: 3, RetryDelay: time.Millisecond})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	var out map[string]any
	if err := client.CompleteJSON(context.Background(), "system", "user", &out); err == nil {
		t.Fatalf("expected decode error")
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Fatalf("malformed json must not be retried, got %d calls", atomic.LoadInt32(calls))
	}
}

func TestNewRequiresKeyAndModel(t *testing.T) {
	t.Parallel()
	if _, err := New(Options{Model: "m"}); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := New(Options{APIKey: "k"}); err == nil {
		t.Fatalf("expected missing model error")
	}
}

func TestUnconfiguredFailsEveryCall(t *testing.T) {
	t.Parallel()
	var c Unconfigured
	if _, err := c.Complete(context.Background(), "s", "u", false); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	var out map[string]any
	if err := c.CompleteJSON(context.Background(), "s", "u", &out); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
