// Package catalog holds the phone records of a session: the base dataset followed by the user's
// own additions, and the mutations that keep the stored additions in sync.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/at-ishikawa/phonecompare/internal/dataset"
	"github.com/at-ishikawa/phonecompare/internal/phone"
	"github.com/at-ishikawa/phonecompare/internal/storage"
)

var (
	ErrDataUnavailable = dataset.ErrDataUnavailable
	ErrNotFound        = errors.New("phone not found")
)

// DefaultCategory is used for added phones without a category.
const DefaultCategory = "中端"

// UserIDPrefix starts the id of every phone added by the user.
const UserIDPrefix = "user_"

// Catalog is not safe for concurrent use; callers serialize access.
type Catalog struct {
	records []phone.Record
	user    []phone.Record
	store   storage.Store

	defaultCategory string
	now             func() time.Time
	validator       *formValidator
}

type Option func(*Catalog)

func WithDefaultCategory(category string) Option {
	return func(c *Catalog) {
		if category != "" {
			c.defaultCategory = category
		}
	}
}

// WithClock replaces the clock used for ids and export timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// Change is the outcome of a mutation. PersistErr is set when the in-memory change succeeded but
// the user's additions could not be saved.
type Change struct {
	Record     phone.Record
	PersistErr error

	// SessionOnly is set for edits to base records, which are never saved.
	SessionOnly bool
}

// Load fetches the base dataset and appends the stored user additions. Records with the same id
// are all kept.
func Load(ctx context.Context, fetcher dataset.Fetcher, store storage.Store, opts ...Option) (*Catalog, error) {
	validator, err := newFormValidator()
	if err != nil {
		return nil, fmt.Errorf("newFormValidator > %w", err)
	}

	base, err := fetcher.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	c := &Catalog{
		store:           store,
		defaultCategory: DefaultCategory,
		now:             time.Now,
		validator:       validator,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.user = storage.LoadUserExtension(ctx, store)
	c.records = make([]phone.Record, 0, len(base)+len(c.user))
	c.records = append(c.records, base...)
	c.records = append(c.records, phone.CloneAll(c.user)...)
	slog.Debug("loaded catalog", "base", len(base), "user", len(c.user))
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// Phones returns a copy of every record in catalog order.
func (c *Catalog) Phones() []phone.Record {
	return phone.CloneAll(c.records)
}

// UserPhones returns a copy of the user's own records.
func (c *Catalog) UserPhones() []phone.Record {
	return phone.CloneAll(c.user)
}

// Find returns the first record with the id.
func (c *Catalog) Find(id string) (phone.Record, bool) {
	if i := indexOf(c.records, id); i >= 0 {
		return c.records[i].Clone(), true
	}
	return phone.Record{}, false
}

func (c *Catalog) Contains(id string) bool {
	return indexOf(c.records, id) >= 0
}

// Brands lists the distinct non-empty brands in first-seen order.
func (c *Catalog) Brands() []string {
	return distinct(c.records, func(r phone.Record) string { return r.Brand })
}

// Categories lists the distinct non-empty categories in first-seen order.
func (c *Catalog) Categories() []string {
	return distinct(c.records, func(r phone.Record) string { return r.Category })
}

// AddUserRecord validates the form, appends the new record and saves the user's additions.
func (c *Catalog) AddUserRecord(ctx context.Context, form Form) (Change, error) {
	form = form.trimmed()
	if err := c.validator.check(form); err != nil {
		return Change{}, err
	}

	id := UserIDPrefix + ulid.MustNew(ulid.Timestamp(c.now()), ulid.DefaultEntropy()).String()
	record := form.newRecord(id, c.defaultCategory)

	c.records = append(c.records, record)
	c.user = append(c.user, record.Clone())
	return Change{Record: record.Clone(), PersistErr: c.persist(ctx)}, nil
}

// UpdateRecord merges the form over the record with the id. Only the user's own records are
// saved; edits to base records last for the session.
func (c *Catalog) UpdateRecord(ctx context.Context, id string, form Form) (Change, error) {
	i := indexOf(c.records, id)
	if i < 0 {
		return Change{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	form = form.trimmed()
	if err := c.validator.check(form); err != nil {
		return Change{}, err
	}

	j := indexOf(c.user, id)
	if j < 0 {
		updated := form.mergeInto(c.records[i])
		c.records[i] = updated
		return Change{Record: updated.Clone(), SessionOnly: true}, nil
	}

	// A base record may share the id; user records come after every base record.
	updated := form.mergeInto(c.user[j])
	c.user[j] = updated
	c.records[lastIndexOf(c.records, id)] = updated.Clone()
	return Change{Record: updated.Clone(), PersistErr: c.persist(ctx)}, nil
}

// ExportSnapshot captures every record and the user's additions.
func (c *Catalog) ExportSnapshot(now time.Time) storage.Snapshot {
	return storage.Snapshot{
		Metadata: storage.Metadata{
			ExportTime:  storage.ExportTime(now),
			TotalPhones: len(c.records),
			UserAdded:   len(c.user),
		},
		Phones:          append([]phone.Record{}, phone.CloneAll(c.records)...),
		UserAddedPhones: append([]phone.Record{}, phone.CloneAll(c.user)...),
	}
}

// ImportResult tracks counts of an import.
type ImportResult struct {
	PhonesNew       int
	PhonesSkipped   int
	UserNew         int
	UserSkipped     int
	SkippedPhoneIDs []string
	PersistErr      error
}

// ImportSnapshot appends the snapshot's records whose ids are not in the catalog yet, and
// independently the user records whose ids are not among the user's additions. The first record
// with an id wins, including within the snapshot itself.
func (c *Catalog) ImportSnapshot(ctx context.Context, snapshot storage.Snapshot) ImportResult {
	var result ImportResult

	seen := ids(c.records)
	for _, r := range snapshot.Phones {
		if _, ok := seen[r.ID]; ok {
			result.PhonesSkipped++
			result.SkippedPhoneIDs = append(result.SkippedPhoneIDs, r.ID)
			continue
		}
		seen[r.ID] = struct{}{}
		c.records = append(c.records, r.Clone())
		result.PhonesNew++
	}

	seenUser := ids(c.user)
	for _, r := range snapshot.UserAddedPhones {
		if _, ok := seenUser[r.ID]; ok {
			result.UserSkipped++
			continue
		}
		seenUser[r.ID] = struct{}{}
		c.user = append(c.user, r.Clone())
		result.UserNew++
	}

	if result.UserNew > 0 {
		result.PersistErr = c.persist(ctx)
	}
	return result
}

func (c *Catalog) persist(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := storage.SaveUserExtension(ctx, c.store, c.user); err != nil {
		slog.Warn("failed to save user phones, changes are kept for this session only", "error", err)
		return fmt.Errorf("storage.SaveUserExtension > %w", err)
	}
	return nil
}

func indexOf(records []phone.Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func lastIndexOf(records []phone.Record, id string) int {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func ids(records []phone.Record) map[string]struct{} {
	result := make(map[string]struct{}, len(records))
	for _, r := range records {
		result[r.ID] = struct{}{}
	}
	return result
}

func distinct(records []phone.Record, key func(phone.Record) string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, r := range records {
		v := key(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
