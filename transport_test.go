package wfs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportFetch(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		_, _ = w.Write([]byte("<ok/>"))
	}))
	defer server.Close()

	transport := NewHTTPTransport(TransportOptions{UserAgent: "wfs-ft-validator/test"})
	body, err := transport.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<ok/>", body)
	assert.Equal(t, "wfs-ft-validator/test", gotAgent)
}

func TestHTTPTransportStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	transport := NewHTTPTransport(TransportOptions{})
	_, err := transport.Fetch(context.Background(), server.URL+"/missing")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, server.URL+"/missing", statusErr.URL)
}

func TestHTTPTransportTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	transport := NewHTTPTransport(TransportOptions{Timeout: 50 * time.Millisecond})
	_, err := transport.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestHTTPTransportCancelled(t *testing.T) {
	transport := NewHTTPTransport(TransportOptions{RateLimit: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := transport.Fetch(ctx, "http://127.0.0.1:1/")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPTransportMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<ok/>"))
	}))
	defer server.Close()

	metrics := NewMetrics()
	transport := NewHTTPTransport(TransportOptions{Metrics: metrics})
	_, err := transport.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wfs.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `wfs_validator_request_duration_seconds_count{success="true"} 1`)
}

func TestFetcherFunc(t *testing.T) {
	f := FetcherFunc(func(_ context.Context, rawURL string) (string, error) {
		return "body of " + rawURL, nil
	})
	body, err := f.Fetch(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, "body of u", body)
}
