package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

type FileFetcher struct {
	path string
}

func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

func (fetcher *FileFetcher) Fetch(ctx context.Context) ([]phone.Record, error) {
	contents, err := os.ReadFile(fetcher.path)
	if err != nil {
		return nil, fmt.Errorf("%w: os.ReadFile(%s) > %v", ErrDataUnavailable, fetcher.path, err)
	}

	records, err := decode(contents)
	if err != nil {
		return nil, fmt.Errorf("%w: decode(%s) > %v", ErrDataUnavailable, fetcher.path, err)
	}
	return records, nil
}
