package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ugcforge/credvault/internal/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	t.Run("empty key is unconfigured", func(t *testing.T) {
		client, err := NewClient("", Config{}, nil)
		require.NoError(t, err)
		assert.Equal(t, StateUnconfigured, client.State())
		assert.Equal(t, "unconfigured", client.State().String())
		assert.Equal(t, DefaultModel, client.Model())

		_, err = client.TestConnection(context.Background())
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnavailable))
	})

	t.Run("key makes it ready", func(t *testing.T) {
		client, err := NewClient("sk-test", Config{Model: "gpt-4o"}, nil)
		require.NoError(t, err)
		assert.Equal(t, StateReady, client.State())
		assert.Equal(t, "ready", client.State().String())
		assert.Equal(t, "gpt-4o", client.Model())
	})

	t.Run("explicit proxy", func(t *testing.T) {
		_, err := NewClient("sk-test", Config{Proxy: "http://proxy.internal:3128"}, nil)
		assert.NoError(t, err)

		_, err = NewClient("sk-test", Config{Proxy: "::not a url"}, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestClient_TestConnection(t *testing.T) {
	t.Run("sends the probe and returns the reply", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, DefaultModel, req.Model)
			assert.Equal(t, 10, req.MaxTokens)
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, "Say 'Connection successful!'", req.Messages[0].Content)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Connection successful!"}}]}`))
		})

		client, err := NewClient("sk-test", Config{BaseURL: server.URL + "/"}, nil)
		require.NoError(t, err)

		reply, err := client.TestConnection(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Connection successful!", reply)
	})

	t.Run("rejected key", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
		})

		client, err := NewClient("sk-bad", Config{BaseURL: server.URL}, nil)
		require.NoError(t, err)

		_, err = client.TestConnection(context.Background())
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("server error carries the provider message", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
		})

		client, err := NewClient("sk-test", Config{BaseURL: server.URL}, nil)
		require.NoError(t, err)

		_, err = client.TestConnection(context.Background())
		assert.ErrorIs(t, err, ErrUpstream)
		assert.Contains(t, err.Error(), "Rate limit reached")
	})

	t.Run("empty choices", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		client, err := NewClient("sk-test", Config{BaseURL: server.URL}, nil)
		require.NoError(t, err)

		_, err = client.TestConnection(context.Background())
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("timeout", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})

		client, err := NewClient("sk-test", Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil)
		require.NoError(t, err)

		_, err = client.TestConnection(context.Background())
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

type stubResolver struct {
	key string
	err error
}

func (s stubResolver) Retrieve(ctx context.Context, service, password string) (string, error) {
	if service != Service || password != "" {
		return "", errors.New("unexpected arguments")
	}
	return s.key, s.err
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	client, err := Bootstrap(ctx, stubResolver{key: "sk-live"}, Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, StateReady, client.State())

	client, err = Bootstrap(ctx, stubResolver{err: apperrors.ErrNotFound}, Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, StateUnconfigured, client.State())

	_, err = Bootstrap(ctx, stubResolver{key: "sk-live"}, Config{Proxy: "::bad"}, nil)
	assert.Error(t, err)
}
