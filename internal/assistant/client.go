// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant provides the HTTP client for the Zobo chat backend.
//
// The backend is opaque: a single POST endpoint taking {message, voice} and
// returning {response}. Everything interesting about the conversation lives
// server-side; this client only adds timeouts, bounded reads, retry with
// backoff, and a canned fallback reply so the UI degrades gracefully when
// the backend is unreachable.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zobo-ai/zobo-tui/internal/config"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the assistant client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "assistant backend is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// FallbackReply is shown when the backend cannot be reached at all.
const FallbackReply = "I can't reach my brain right now. Please check your connection and try again."

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the assistant client.
type ClientConfig struct {
	// URL is the chat endpoint (default: http://localhost:8787/chat)
	URL string

	// Timeout bounds each attempt (default: 30s)
	Timeout time.Duration

	// MaxRetries for transient failures (default: 2)
	MaxRetries int

	// RetryDelay before the first retry; doubles each attempt (default: 500ms)
	RetryDelay time.Duration

	// MaxResponseBytes caps how much of the response body is read
	// (default: 1 MiB)
	MaxResponseBytes int64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		URL:              "http://localhost:8787/chat",
		Timeout:          30 * time.Second,
		MaxRetries:       2,
		RetryDelay:       500 * time.Millisecond,
		MaxResponseBytes: 1 << 20,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the assistant backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new assistant client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new assistant client with custom configuration.
func NewClientWithConfig(cc *ClientConfig) *Client {
	if cc == nil {
		cc = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if cc.URL == "" {
		cc.URL = "http://localhost:8787/chat"
	}
	if cc.Timeout == 0 {
		cc.Timeout = 30 * time.Second
	}
	if cc.MaxRetries == 0 {
		cc.MaxRetries = 2
	}
	if cc.RetryDelay == 0 {
		cc.RetryDelay = 500 * time.Millisecond
	}
	if cc.MaxResponseBytes == 0 {
		cc.MaxResponseBytes = 1 << 20
	}

	return &Client{
		config: cc,
		httpClient: &http.Client{
			Timeout: cc.Timeout,
		},
	}
}

// FromConfig builds a client from the application configuration.
func FromConfig(cfg *config.Config) *Client {
	return NewClientWithConfig(&ClientConfig{
		URL:        cfg.Assistant.URL,
		Timeout:    time.Duration(cfg.Assistant.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Assistant.MaxRetries,
	})
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type chatRequest struct {
	Message string `json:"message"`
	Voice   bool   `json:"voice"`
}

type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// =============================================================================
// CHAT
// =============================================================================

// Send posts a message and returns the assistant's reply.
// Transient failures (connection refused, 5xx, timeout) are retried with
// exponential backoff up to MaxRetries times.
func (c *Client) Send(ctx context.Context, message string, voice bool) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message, Voice: voice})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	var lastErr error
	delay := c.config.RetryDelay

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		reply, err := c.sendOnce(ctx, body)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}

	return "", lastErr
}

// SendOrFallback is Send with the canned reply substituted when the backend
// is unreachable, so the chat view always has something to show.
func (c *Client) SendOrFallback(ctx context.Context, message string, voice bool) string {
	reply, err := c.Send(ctx, message, voice)
	if err != nil {
		return FallbackReply
	}
	return reply
}

func (c *Client) sendOnce(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", ErrTimeout
		}
		return "", ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", &ClientError{Type: ErrTypeServer, Message: "server error: " + resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "unexpected status: " + resp.Status}
	}

	var result chatResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	if err := dec.Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if result.Error != "" {
		return "", &ClientError{Type: ErrTypeServer, Message: result.Error}
	}

	return result.Response, nil
}

// retryable reports whether another attempt could plausibly succeed.
func retryable(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		switch ce.Type {
		case ErrTypeUnreachable, ErrTypeTimeout, ErrTypeServer:
			return true
		}
	}
	return false
}

// isTimeout catches net-level timeouts that surface as url.Error strings
// rather than context.DeadlineExceeded.
func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}
