package netx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "k", r.Header.Get("api-key"))

		var in map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]int{"sum": in["a"] + in["b"]})
	}))
	defer srv.Close()

	var out struct {
		Sum int `json:"sum"`
	}
	err := DoJSON(context.Background(), srv.Client(), http.MethodPost, srv.URL, map[string]string{"api-key": "k"},
		map[string]int{"a": 2, "b": 3}, &out)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Sum)
}

func TestDoJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	err := DoJSON(context.Background(), srv.Client(), http.MethodGet, srv.URL, nil, nil, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Len(t, se.Body, maxErrorBody)
	assert.True(t, se.Retryable())
	assert.False(t, (&StatusError{Code: http.StatusBadRequest}).Retryable())
}

func TestDoJSON_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	var out map[string]any
	err := DoJSON(context.Background(), srv.Client(), http.MethodGet, srv.URL, nil, nil, &out)
	assert.ErrorContains(t, err, "decode response")
}

func TestSleepCtx(t *testing.T) {
	require.NoError(t, SleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepCtx(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, SleepCtx(ctx, 0), context.Canceled)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, Backoff(0, 100*time.Millisecond, time.Second))
	assert.Equal(t, 400*time.Millisecond, Backoff(2, 100*time.Millisecond, time.Second))
	assert.Equal(t, time.Second, Backoff(10, 100*time.Millisecond, time.Second))
	assert.Equal(t, time.Second, Backoff(70, 100*time.Millisecond, time.Second))
	assert.Equal(t, 100*time.Millisecond, Backoff(-1, 100*time.Millisecond, time.Second))
}
