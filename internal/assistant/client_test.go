// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

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

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		URL:        url,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
		RetryDelay: 10 * time.Millisecond,
	})
}

// =============================================================================
// SEND
// =============================================================================

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Message != "hello" || !req.Voice {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(chatResponse{Response: "hi there"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	reply, err := c.Send(context.Background(), "hello", true)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "hi there" {
		t.Errorf("reply = %q", reply)
	}
}

func TestSendServerErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Error: "model overloaded"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Send(context.Background(), "hello", false)
	if err == nil {
		t.Fatal("error field not surfaced")
	}
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeServer {
		t.Errorf("err = %v", err)
	}
}

func TestSendRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(chatResponse{Response: "recovered"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	reply, err := c.Send(context.Background(), "hello", false)
	if err != nil {
		t.Fatalf("Send failed after retries: %v", err)
	}
	if reply != "recovered" {
		t.Errorf("reply = %q", reply)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Send(context.Background(), "hello", false); err == nil {
		t.Fatal("400 did not error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 4xx)", calls.Load())
	}
}

func TestSendUnreachable(t *testing.T) {
	// Port chosen from the dynamic range with nothing listening.
	c := NewClientWithConfig(&ClientConfig{
		URL:        "http://127.0.0.1:59999/chat",
		Timeout:    time.Second,
		MaxRetries: 1,
		RetryDelay: 10 * time.Millisecond,
	})

	_, err := c.Send(context.Background(), "hello", false)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("err = %v, want ErrUnreachable", err)
	}
}

// =============================================================================
// FALLBACK
// =============================================================================

func TestSendOrFallback(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{
		URL:        "http://127.0.0.1:59999/chat",
		Timeout:    time.Second,
		MaxRetries: 1,
		RetryDelay: 10 * time.Millisecond,
	})

	reply := c.SendOrFallback(context.Background(), "hello", false)
	if reply != FallbackReply {
		t.Errorf("reply = %q, want fallback", reply)
	}
}

// =============================================================================
// CONFIG WIRING
// =============================================================================

func TestDefaultsFilled(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})
	if c.config.URL == "" || c.config.Timeout == 0 || c.config.MaxResponseBytes == 0 {
		t.Errorf("defaults not filled: %+v", c.config)
	}
}
