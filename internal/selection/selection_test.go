package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/phonecompare/internal/phone"
)

func lookupOf(ids ...string) Lookup {
	known := make(map[string]phone.Record, len(ids))
	for _, id := range ids {
		known[id] = phone.Record{ID: id, Model: "model " + id}
	}
	return func(id string) (phone.Record, bool) {
		r, ok := known[id]
		return r, ok
	}
}

func TestSet_Toggle(t *testing.T) {
	lookup := lookupOf("a", "b", "c")
	var s Set

	outcome, err := s.Toggle("a", lookup)
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)

	outcome, err = s.Toggle("b", lookup)
	require.NoError(t, err)
	assert.Equal(t, Added, outcome)
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	outcome, err = s.Toggle("a", lookup)
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)
	assert.Equal(t, []string{"b"}, s.IDs())
	assert.False(t, s.Contains("a"))

	outcome, err = s.Toggle("missing", lookup)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, Rejected, outcome)
	assert.Equal(t, 1, s.Len())
}

func TestSet_Capacity(t *testing.T) {
	ids := make([]string, 0, MaxSize+1)
	for i := 0; i <= MaxSize; i++ {
		ids = append(ids, fmt.Sprintf("p%d", i))
	}
	lookup := lookupOf(ids...)

	var s Set
	for _, id := range ids[:MaxSize] {
		_, err := s.Toggle(id, lookup)
		require.NoError(t, err)
	}
	assert.True(t, s.IsFull())

	outcome, err := s.Toggle(ids[MaxSize], lookup)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, Rejected, outcome)
	assert.Equal(t, ids[:MaxSize], s.IDs())

	// removing is still allowed at capacity
	outcome, err = s.Toggle(ids[0], lookup)
	require.NoError(t, err)
	assert.Equal(t, Removed, outcome)
	assert.Equal(t, MaxSize-1, s.Len())
}

func TestSet_ClearAndRecords(t *testing.T) {
	lookup := lookupOf("a", "b", "c")
	var s Set
	for _, id := range []string{"c", "a"} {
		_, err := s.Toggle(id, lookup)
		require.NoError(t, err)
	}

	records := s.Records(lookup)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[1].ID)

	assert.Len(t, s.Records(lookupOf("a")), 1, "unknown ids are skipped")

	ids := s.IDs()
	ids[0] = "changed"
	assert.Equal(t, []string{"c", "a"}, s.IDs())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.IDs())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "rejected", Rejected.String())
}
