// Package selection keeps the ordered set of phones chosen for comparison.
package selection

import (
	"errors"
	"fmt"
	"slices"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

// MaxSize is the most phones that can be compared at once.
const MaxSize = 6

var (
	ErrCapacityExceeded = fmt.Errorf("at most %d phones can be compared", MaxSize)
	ErrNotFound         = errors.New("phone not found")
)

type Outcome int

const (
	Rejected Outcome = iota
	Added
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return "rejected"
}

// Lookup resolves a phone id against the catalog.
type Lookup func(id string) (phone.Record, bool)

// Set is an ordered set of phone ids. The zero value is empty and ready to use.
type Set struct {
	ids []string
}

// Toggle removes the id when it is selected and adds it otherwise. Adding fails with
// ErrCapacityExceeded when the set is full and with ErrNotFound for ids the lookup does not know.
func (s *Set) Toggle(id string, lookup Lookup) (Outcome, error) {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return Removed, nil
	}
	if _, ok := lookup(id); !ok {
		return Rejected, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if len(s.ids) >= MaxSize {
		return Rejected, ErrCapacityExceeded
	}
	s.ids = append(s.ids, id)
	return Added, nil
}

func (s *Set) Clear() {
	s.ids = nil
}

func (s *Set) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns the selected ids in selection order.
func (s *Set) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Set) Len() int {
	return len(s.ids)
}

func (s *Set) IsFull() bool {
	return len(s.ids) >= MaxSize
}

// Records resolves the selected ids in selection order, skipping ids the lookup no longer knows.
func (s *Set) Records(lookup Lookup) []phone.Record {
	records := make([]phone.Record, 0, len(s.ids))
	for _, id := range s.ids {
		if r, ok := lookup(id); ok {
			records = append(records, r)
		}
	}
	return records
}
