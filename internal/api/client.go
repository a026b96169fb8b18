// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/megaschool/qachat/internal/model"
)

// RequestPath is the service endpoint every query is posted to.
const RequestPath = "/api/request"

// maxDrainBytes bounds how much of an error body is read before closing.
const maxDrainBytes = 64 * 1024

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the service client.
type ClientConfig struct {
	// BaseURL is the service base URL (default: http://localhost:8080)
	BaseURL string

	// Timeout bounds a whole request. Zero means no timeout.
	Timeout time.Duration

	// UserAgent is sent with every request when set.
	UserAgent string

	// HTTPClient overrides the underlying client (tests, proxies).
	HTTPClient *http.Client
}

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		UserAgent: "qachat",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client posts queries to the service. It holds no per-request state and is
// safe for concurrent use, so several queries may be in flight at once.
type Client struct {
	config     *ClientConfig
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for baseURL with default settings.
func NewClient(baseURL string) (*Client, error) {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	base, err := NormalizeBaseURL(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	config.BaseURL = base

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		endpoint:   base + RequestPath,
		httpClient: httpClient,
	}, nil
}

// NormalizeBaseURL adds a scheme when missing and strips trailing slashes.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("missing host")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Endpoint returns the full URL queries are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// =============================================================================
// ASK
// =============================================================================

// Ask posts one request and decodes the reply. Any non-2xx status returns an
// ErrTypeHTTPStatus error; everything else that goes wrong returns
// ErrTypeTransport. There is no retry.
func (c *Client) Ask(ctx context.Context, req model.PendingRequest) (*model.BotReply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, newTransportError("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, newTransportError("failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, newTransportError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		return nil, newStatusError(resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError("failed to read response", err)
	}

	var reply *model.BotReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, newTransportError("failed to decode response", err)
	}
	if reply == nil {
		return nil, newTransportError("failed to decode response", errors.New("response body is null"))
	}
	reply.Raw = raw

	return reply, nil
}
