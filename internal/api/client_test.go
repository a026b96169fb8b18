// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megaschool/qachat/internal/model"
)

// =============================================================================
// HELPERS
// =============================================================================

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestAsk_SendsRequestContract(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotType   string
		gotBody   map[string]any
	)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"answer":"42","reasoning":"because","sources":["docA","docB"]}`))
	})

	reply, err := client.Ask(context.Background(), model.PendingRequest{Query: "meaning?", ID: 3})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, RequestPath, gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "meaning?", gotBody["query"])
	assert.Equal(t, float64(3), gotBody["id"])

	assert.Equal(t, "42", reply.AnswerText())
	assert.Equal(t, "because", reply.ReasoningText())
	assert.Equal(t, []string{"docA", "docB"}, reply.Sources)
}

func TestAsk_StatusErrors(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"detail":"Internal server error"}`, code)
			})

			reply, err := client.Ask(context.Background(), model.PendingRequest{Query: "q", ID: 1})
			require.Error(t, err)
			assert.Nil(t, reply)
			assert.True(t, IsHTTPStatus(err))
			assert.False(t, IsTransport(err))
			assert.Equal(t, code, StatusCode(err))
			assert.Contains(t, err.Error(), strconv.Itoa(code))
		})
	}
}

func TestAsk_Status500Message(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Ask(context.Background(), model.PendingRequest{Query: "q", ID: 1})
	require.Error(t, err)
	assert.Equal(t, "Request error: 500", err.Error())
}

func TestAsk_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.Ask(context.Background(), model.PendingRequest{Query: "q", ID: 1})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestAsk_NullBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null\n"))
	})

	reply, err := client.Ask(context.Background(), model.PendingRequest{Query: "q", ID: 1})
	require.Error(t, err)
	assert.Nil(t, reply)
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestAsk_KeepsRawBody(t *testing.T) {
	body := `{"answer":"4","reasoning":"2+2"}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	reply, err := client.Ask(context.Background(), model.PendingRequest{Query: "q", ID: 1})
	require.NoError(t, err)
	assert.Equal(t, body, string(reply.Raw))
	assert.Nil(t, reply.Sources)
}

func TestAsk_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(url)
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), model.PendingRequest{Query: "q", ID: 1})
	require.Error(t, err)
	assert.True(t, IsTransport(err))

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.NotNil(t, ce.Unwrap())
}

func TestAsk_HonorsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client, err := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Ask(context.Background(), model.PendingRequest{Query: "q", ID: 1})
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:8080", "http://localhost:8080", false},
		{"http://localhost:8080/", "http://localhost:8080", false},
		{"localhost:8080", "http://localhost:8080", false},
		{"https://api.example.com/qa/", "https://api.example.com/qa", false},
		{"  http://10.0.0.1:8081  ", "http://10.0.0.1:8081", false},
		{"", "", true},
		{"ftp://example.com", "", true},
		{"http://", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeBaseURL(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client, err := NewClientWithConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultBaseURL+RequestPath, client.Endpoint())
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("ftp://example.com")
	assert.Error(t, err)
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "http_status", ErrTypeHTTPStatus.String())
	assert.Equal(t, "transport", ErrTypeTransport.String())
}
