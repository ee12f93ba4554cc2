package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

// HTTPFetcher downloads the dataset document, retrying transient failures.
type HTTPFetcher struct {
	httpClient       *resty.Client
	url              string
	maxRetryAttempts uint
	retryDelay       time.Duration
}

func NewHTTPFetcher(url string, timeout time.Duration, retryAttempts uint) *HTTPFetcher {
	client := resty.New()
	client.SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPFetcher{
		httpClient:       client,
		url:              url,
		maxRetryAttempts: retryAttempts,
		retryDelay:       200 * time.Millisecond,
	}
}

func (fetcher *HTTPFetcher) Close() error {
	return fetcher.httpClient.Close()
}

// isRetryableError reports whether the failure looks transient
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// 5xx and rate limiting
	if strings.Contains(errStr, "response error 5") || strings.Contains(errStr, "response error 429") {
		return true
	}
	return false
}

func (fetcher *HTTPFetcher) Fetch(ctx context.Context) ([]phone.Record, error) {
	var records []phone.Record
	if err := retry.Do(
		func() error {
			result, err := fetcher.fetch(ctx)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			records = result
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(fetcher.maxRetryAttempts+1),
		retry.Delay(fetcher.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retrying dataset download", "url", fetcher.url, "attempt", n+1, "error", err)
		}),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	return records, nil
}

func (fetcher *HTTPFetcher) fetch(ctx context.Context) ([]phone.Record, error) {
	response, err := fetcher.httpClient.R().
		SetContext(ctx).
		Get(fetcher.url)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get(%s) > %w", fetcher.url, err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.Status())
	}

	records, err := decode([]byte(response.String()))
	if err != nil {
		return nil, fmt.Errorf("decode > %w", err)
	}
	slog.Debug("downloaded phone dataset", "url", fetcher.url, "phones", len(records))
	return records, nil
}
