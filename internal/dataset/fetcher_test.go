package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "phones": [
    {"id": "apple_iphone_16", "brand": "Apple", "model": "iPhone 16", "price": {"start_price": 5999}},
    {"id": "xiaomi_15", "brand": "Xiaomi", "model": "15", "price": {"start_price": {"starting_price": "4499元"}}}
  ]
}`

func newTestHTTPFetcher(url string, retryAttempts uint) *HTTPFetcher {
	fetcher := NewHTTPFetcher(url, 5*time.Second, retryAttempts)
	fetcher.retryDelay = time.Millisecond
	return fetcher
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name          string
		statuses      []int
		body          string
		retryAttempts uint
		wantIDs       []string
		wantErr       bool
		wantRequests  int32
	}{
		{
			name:         "successful download",
			statuses:     []int{http.StatusOK},
			body:         sampleDocument,
			wantIDs:      []string{"apple_iphone_16", "xiaomi_15"},
			wantRequests: 1,
		},
		{
			name:         "document without phones",
			statuses:     []int{http.StatusOK},
			body:         `{"version": 2}`,
			wantIDs:      []string{},
			wantRequests: 1,
		},
		{
			name:          "retries server errors",
			statuses:      []int{http.StatusBadGateway, http.StatusTooManyRequests, http.StatusOK},
			body:          sampleDocument,
			retryAttempts: 2,
			wantIDs:       []string{"apple_iphone_16", "xiaomi_15"},
			wantRequests:  3,
		},
		{
			name:          "gives up after the configured attempts",
			statuses:      []int{http.StatusServiceUnavailable},
			retryAttempts: 1,
			wantErr:       true,
			wantRequests:  2,
		},
		{
			name:          "does not retry not found",
			statuses:      []int{http.StatusNotFound},
			retryAttempts: 3,
			wantErr:       true,
			wantRequests:  1,
		},
		{
			name:          "does not retry malformed documents",
			statuses:      []int{http.StatusOK},
			body:          `{"phones": [`,
			retryAttempts: 3,
			wantErr:       true,
			wantRequests:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := int(requests.Add(1)) - 1
				status := tt.statuses[len(tt.statuses)-1]
				if n < len(tt.statuses) {
					status = tt.statuses[n]
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(tt.body))
				}
			}))
			defer server.Close()

			fetcher := newTestHTTPFetcher(server.URL+"/data/all_phones_unified.json", tt.retryAttempts)
			defer func() {
				_ = fetcher.Close()
			}()

			got, err := fetcher.Fetch(context.Background())
			assert.Equal(t, tt.wantRequests, requests.Load())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDataUnavailable)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestHTTPFetcher_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	fetcher := newTestHTTPFetcher(url, 1)
	_, err := fetcher.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestHTTPFetcher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newTestHTTPFetcher("http://127.0.0.1:1/data.json", 3)
	_, err := fetcher.Fetch(ctx)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestFileFetcher_Fetch(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "phones.json")
	require.NoError(t, os.WriteFile(valid, []byte(sampleDocument), 0644))
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`not json`), 0644))
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	got, err := NewFileFetcher(valid).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	for _, path := range []string{broken, empty, filepath.Join(dir, "missing.json")} {
		_, err := NewFileFetcher(path).Fetch(context.Background())
		assert.ErrorIs(t, err, ErrDataUnavailable, path)
	}
}

func TestNewFetcher(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantHTTP bool
		wantPath string
		wantErr  bool
	}{
		{name: "https url", source: "https://example.com/data/all_phones_unified.json", wantHTTP: true},
		{name: "http url", source: "http://localhost:8000/data.json", wantHTTP: true},
		{name: "relative path", source: "data/all_phones_unified.json", wantPath: "data/all_phones_unified.json"},
		{name: "absolute path", source: "/srv/phones.json", wantPath: "/srv/phones.json"},
		{name: "file url", source: "file:///srv/phones.json", wantPath: "/srv/phones.json"},
		{name: "unsupported scheme", source: "ftp://example.com/data.json", wantErr: true},
		{name: "empty", source: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewFetcher(tt.source, time.Second, 1)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantHTTP {
				assert.IsType(t, &HTTPFetcher{}, got)
				return
			}
			fileFetcher, ok := got.(*FileFetcher)
			require.True(t, ok)
			assert.Equal(t, tt.wantPath, fileFetcher.path)
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.True(t, isRetryableError(errors.New("dial tcp: connection refused")))
	assert.True(t, isRetryableError(errors.New("response error 503: 503 Service Unavailable")))
	assert.True(t, isRetryableError(errors.New("response error 429: 429 Too Many Requests")))
	assert.False(t, isRetryableError(errors.New("response error 404: 404 Not Found")))
	assert.False(t, isRetryableError(errors.New("decode > json.Unmarshal > unexpected end of JSON input")))
}
