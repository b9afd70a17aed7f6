package reconcile

import (
	"context"
	"fmt"
	"time"
)

// Index is the in-memory view of what already exists for one scope: every
// known document number (persisted plus assigned during this run), every
// combination key persisted in the batch's date range, and the highest
// per-date counter seen. It grows append-only during a run and is discarded
// afterwards; it must not be reused for a different scope.
type Index struct {
	withConcept  bool
	documents    map[string]struct{}
	combinations map[string]struct{}
	dateCounters map[string]int
}

// BuildIndex loads the existing-record view for a scope: one unranged fetch
// of document numbers for (account, bank) and one date-ranged fetch of full
// rows for the scope. Any failure is wrapped in ErrStoreUnavailable.
func BuildIndex(ctx context.Context, store Store, scope Scope, from, to time.Time, conceptInKey bool) (*Index, error) {
	ix := &Index{
		withConcept:  conceptInKey,
		documents:    make(map[string]struct{}),
		combinations: make(map[string]struct{}),
		dateCounters: make(map[string]int),
	}

	docs, err := store.DocumentNumbers(ctx, scope.AccountNumber, scope.Bank)
	if err != nil {
		return nil, fmt.Errorf("%w: loading document numbers: %v", ErrStoreUnavailable, err)
	}
	for _, doc := range docs {
		ix.documents[doc] = struct{}{}
	}

	rows, err := store.MovementsInRange(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: loading movements %s..%s: %v",
			ErrStoreUnavailable, from.Format("2006-01-02"), to.Format("2006-01-02"), err)
	}
	for _, m := range rows {
		ix.documents[m.DocumentNumber] = struct{}{}
		ix.combinations[combinationKey(m.DocumentNumber, m.Date, m.Amount, m.Type, m.Concept, conceptInKey)] = struct{}{}
		day := m.Date.Format("2006-01-02")
		if m.DateCounter > ix.dateCounters[day] {
			ix.dateCounters[day] = m.DateCounter
		}
	}

	return ix, nil
}

// HasDocument reports whether a document number is already taken, either in
// the database or by an earlier assignment in this run.
func (ix *Index) HasDocument(doc string) bool {
	_, ok := ix.documents[doc]
	return ok
}

// HasCombination reports whether a combination key is already persisted.
func (ix *Index) HasCombination(key string) bool {
	_, ok := ix.combinations[key]
	return ok
}

// MarkDocument records a document number as taken. Called for every assigned
// number, including ones the store rejected, so the next resolution skips it.
func (ix *Index) MarkDocument(doc string) {
	ix.documents[doc] = struct{}{}
}

// NextDateCounter hands out the next per-date counter for the scope and
// advances it, so rows inserted later in the batch on the same day get
// increasing values.
func (ix *Index) NextDateCounter(date time.Time) int {
	day := date.Format("2006-01-02")
	ix.dateCounters[day]++
	return ix.dateCounters[day]
}

// Key builds the combination key of a movement under this index's key policy.
func (ix *Index) Key(m Movement) string {
	return combinationKey(m.DocumentNumber, m.Date, m.Amount, m.Type, m.Concept, ix.withConcept)
}
