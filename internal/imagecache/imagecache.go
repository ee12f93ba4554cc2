// Package imagecache keeps local copies of phone detail images so they can be viewed offline.
package imagecache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".avif": true,
}

type Cache struct {
	rootDir string
	client  *resty.Client
}

func New(rootDir string, timeout time.Duration) *Cache {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Cache{
		rootDir: rootDir,
		client:  client,
	}
}

// Entry is one detail image of a phone and where its copy lives.
type Entry struct {
	URL  string
	Path string
	// Downloaded is false when the copy already existed.
	Downloaded bool
}

// FilePath returns where the index-th image of the phone is kept.
func (c *Cache) FilePath(phoneID string, index int, imageURL string) (string, error) {
	if phoneID == "" || phoneID != filepath.Base(phoneID) || strings.HasPrefix(phoneID, ".") {
		return "", fmt.Errorf("invalid phone id for a cache directory: %q", phoneID)
	}
	return filepath.Join(c.rootDir, phoneID, fmt.Sprintf("%02d%s", index+1, extension(imageURL))), nil
}

// Download stores every detail image of the record that is not cached yet. A failing image does
// not stop the others; their errors are joined.
func (c *Cache) Download(ctx context.Context, record phone.Record) ([]Entry, error) {
	var entries []Entry
	var errs []error
	for i, imageURL := range record.DetailImages {
		imageURL = strings.TrimSpace(imageURL)
		if imageURL == "" {
			continue
		}
		localPath, err := c.FilePath(record.ID, i, imageURL)
		if err != nil {
			return nil, err
		}

		downloaded, err := c.cache(localPath, func() ([]byte, error) {
			return c.fetch(ctx, imageURL)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", imageURL, err))
			continue
		}
		entries = append(entries, Entry{URL: imageURL, Path: localPath, Downloaded: downloaded})
	}
	return entries, errors.Join(errs...)
}

func (c *Cache) cache(localPath string, f func() ([]byte, error)) (bool, error) {
	if _, err := os.Stat(localPath); err == nil {
		return false, nil
	}

	contents, err := f()
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return false, fmt.Errorf("os.MkdirAll > %w", err)
	}
	if err := os.WriteFile(localPath, contents, 0o644); err != nil {
		return false, fmt.Errorf("os.WriteFile > %w", err)
	}
	return true, nil
}

func (c *Cache) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	res, err := c.client.R().
		SetContext(ctx).
		Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", res.StatusCode())
	}
	return res.Body(), nil
}

func extension(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ".img"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if !imageExtensions[ext] {
		return ".img"
	}
	return ext
}
