// Package storage persists the user's phone additions and reads and writes exported snapshots.
package storage

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is a string-keyed blob store, the local analogue of a browser's key/value storage.
//
//go:generate mockgen -source=store.go -destination=../mocks/storage/mock_store.go -package=mock_storage
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
