package reconcile

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexMergesBothQueries(t *testing.T) {
	// One document lives outside the batch's date range: it must still be
	// known (the primary key has no date component), but its combination key
	// must not be loaded.
	outside := candidate("OUT", day(25), "9.00", TypeCredit)
	inside := candidate("IN - 2", day(2), "5.00", TypeDebit)
	store := &fakeStore{rows: []Movement{outside, inside}}

	ix, err := BuildIndex(context.Background(), store, testScope, day(1), day(10), false)
	require.NoError(t, err)

	assert.True(t, ix.HasDocument("OUT"))
	assert.True(t, ix.HasDocument("IN - 2"))
	assert.False(t, ix.HasDocument("IN"))

	// Combination keys are built on the base number, suffix stripped.
	assert.True(t, ix.HasCombination(ix.Key(candidate("IN", day(2), "5.00", TypeDebit))))
	assert.False(t, ix.HasCombination(ix.Key(candidate("OUT", day(25), "9.00", TypeCredit))))
}

func TestBuildIndexWrapsStoreFailure(t *testing.T) {
	store := &fakeStore{unavailable: true}
	_, err := BuildIndex(context.Background(), store, testScope, day(1), day(2), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestNextDateCounter(t *testing.T) {
	seeded := candidate("X", day(3), "1.00", TypeCredit)
	seeded.DateCounter = 2
	store := &fakeStore{rows: []Movement{seeded}}

	ix, err := BuildIndex(context.Background(), store, testScope, day(1), day(10), false)
	require.NoError(t, err)

	assert.Equal(t, 3, ix.NextDateCounter(day(3)))
	assert.Equal(t, 4, ix.NextDateCounter(day(3)))
	assert.Equal(t, 1, ix.NextDateCounter(day(4)))
}

func TestKeyTruncatesConcept(t *testing.T) {
	ix := indexWith()
	ix.withConcept = true

	long := candidate("K", day(1), "2.00", TypeCredit)
	long.Concept = "AAAAAAAAAABBBBBBBBBBCCCCCCCCCCDDDDDDDDDDEEEEEEEEEE-IGNORED-TAIL"
	short := candidate("K", day(1), "2.00", TypeCredit)
	short.Concept = "AAAAAAAAAABBBBBBBBBBCCCCCCCCCCDDDDDDDDDDEEEEEEEEEE"

	assert.Equal(t, ix.Key(short), ix.Key(long))
}

func TestKeyTruncatesConceptOnRuneBoundary(t *testing.T) {
	ix := indexWith()
	ix.withConcept = true

	// 49 ASCII characters followed by a multibyte one: a byte cut at 50 would
	// split the ñ and corrupt the key.
	base := strings.Repeat("A", 49) + "ñ"

	long := candidate("K", day(1), "2.00", TypeCredit)
	long.Concept = base + "DEPÓSITO DE LA COMPAÑÍA"
	short := candidate("K", day(1), "2.00", TypeCredit)
	short.Concept = base

	assert.Equal(t, ix.Key(short), ix.Key(long))
	assert.True(t, utf8.ValidString(ix.Key(long)))
}

func TestIndexScopesAreIndependent(t *testing.T) {
	other := candidate("SHARED", day(1), "1.00", TypeCredit)
	other.Company = "OTHER-CO"
	store := &fakeStore{rows: []Movement{other}}

	ix, err := BuildIndex(context.Background(), store, testScope, day(1), day(10), false)
	require.NoError(t, err)

	// Same account and bank, so the document number is known (PK scope)...
	assert.True(t, ix.HasDocument("SHARED"))
	// ...but the other company's combination keys are not part of this scope.
	assert.False(t, ix.HasCombination(ix.Key(candidate("SHARED", day(1), "1.00", TypeCredit))))
}

func TestDateRange(t *testing.T) {
	from, to, ok := dateRange([]Movement{
		candidate("A", day(7), "1.00", TypeCredit),
		candidate("B", time.Time{}, "1.00", TypeCredit),
		candidate("C", day(2), "1.00", TypeCredit),
		candidate("D", day(9), "1.00", TypeCredit),
	})
	require.True(t, ok)
	assert.Equal(t, day(2), from)
	assert.Equal(t, day(9), to)

	_, _, ok = dateRange([]Movement{candidate("E", time.Time{}, "1.00", TypeCredit)})
	assert.False(t, ok)
}
