package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

// UserExtensionKey is the key the user's own phone records are stored under.
const UserExtensionKey = "userAddedPhones"

// SaveUserExtension overwrites the stored user records.
func SaveUserExtension(ctx context.Context, store Store, records []phone.Record) error {
	if records == nil {
		records = []phone.Record{}
	}
	contents, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := store.Put(ctx, UserExtensionKey, contents); err != nil {
		return fmt.Errorf("store.Put(%s) > %w", UserExtensionKey, err)
	}
	return nil
}

// LoadUserExtension reads the stored user records. A missing, unreadable or corrupted entry
// yields an empty list; the problem is logged and never returned.
func LoadUserExtension(ctx context.Context, store Store) []phone.Record {
	contents, err := store.Get(ctx, UserExtensionKey)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			slog.Warn("failed to read user records, starting with none", "key", UserExtensionKey, "error", err)
		}
		return []phone.Record{}
	}

	var records []phone.Record
	if err := json.Unmarshal(contents, &records); err != nil {
		slog.Warn("stored user records are corrupted, starting with none", "key", UserExtensionKey, "error", err)
		return []phone.Record{}
	}
	if records == nil {
		return []phone.Record{}
	}
	return records
}
