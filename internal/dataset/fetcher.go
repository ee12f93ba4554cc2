// Package dataset reads the base phone dataset from a URL or a local file.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

// ErrDataUnavailable is returned when the base dataset cannot be fetched or read.
var ErrDataUnavailable = errors.New("phone dataset is unavailable")

//go:generate mockgen -source=fetcher.go -destination=../mocks/dataset/mock_fetcher.go -package=mock_dataset
type Fetcher interface {
	Fetch(ctx context.Context) ([]phone.Record, error)
}

type document struct {
	Phones []phone.Record `json:"phones"`
}

// decode parses a dataset document. A document without a phones list is an empty dataset.
func decode(contents []byte) ([]phone.Record, error) {
	contents = bytes.TrimSpace(contents)
	if len(contents) == 0 {
		return nil, errors.New("empty document")
	}

	var doc document
	if err := json.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if doc.Phones == nil {
		return []phone.Record{}, nil
	}
	return doc.Phones, nil
}

// NewFetcher picks an HTTP fetcher for http and https sources and a file fetcher otherwise.
func NewFetcher(source string, timeout time.Duration, retryAttempts uint) (Fetcher, error) {
	if source == "" {
		return nil, errors.New("dataset source is empty")
	}

	u, err := url.Parse(source)
	if err != nil {
		return NewFileFetcher(source), nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPFetcher(source, timeout, retryAttempts), nil
	case "file":
		return NewFileFetcher(u.Path), nil
	case "":
		return NewFileFetcher(source), nil
	}
	if len(u.Scheme) == 1 {
		// A Windows drive letter
		return NewFileFetcher(source), nil
	}
	return nil, fmt.Errorf("unsupported dataset source scheme %q", u.Scheme)
}
