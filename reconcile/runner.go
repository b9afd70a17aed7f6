package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// insertRetries bounds how many times one row is retried after the store
// reports a primary key violation. Each retry re-resolves the suffix against
// the updated index.
const insertRetries = 5

// Runner reconciles one batch of candidates against the store: builds the
// existing-record index for the scope, classifies every candidate, inserts
// the genuinely new ones, and returns the counts. A runner is cheap and
// single-use per batch; it holds no state between runs.
type Runner struct {
	Store Store
	Clock Clock
	Log   *logrus.Entry

	// ConceptInKey includes a 50-character concept prefix in the combination
	// key. Only some banks partition identity that finely.
	ConceptInKey bool
}

// decision is the classification of one candidate.
type decision int

const (
	skipExistingInDB decision = iota
	skipDuplicateInBatch
	insertNew
	insertWithSuffix
)

// Run reconciles candidates in file order against scope. Row-level problems
// are logged and counted, never fatal; the only hard failure is the inability
// to build the existing-record index. On context cancellation the partial
// summary is returned with the context error, leaving no partial row state
// behind (each row is a single insert).
func (r *Runner) Run(ctx context.Context, scope Scope, candidates []Movement) (Summary, error) {
	log := r.Log.WithFields(logrus.Fields{
		"batch_id": uuid.NewString(),
		"account":  scope.AccountNumber,
		"bank":     scope.Bank,
		"company":  scope.Company,
	})

	var summary Summary

	from, to, ok := dateRange(candidates)
	if !ok {
		log.Warn("batch has no rows with parseable dates, nothing to reconcile")
		return summary, nil
	}
	log.Infof("reconciling %d candidate rows, dates %s to %s",
		len(candidates), from.Format("2006-01-02"), to.Format("2006-01-02"))

	ix, err := BuildIndex(ctx, r.Store, scope, from, to, r.ConceptInKey)
	if err != nil {
		return summary, err
	}

	clock := r.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	resolver := &Resolver{Clock: clock, Log: log}
	batchKeys := make(map[string]struct{})

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			log.Warnf("deadline reached after %d rows, returning partial summary", summary.Processed)
			return summary, err
		}

		summary.Processed++

		if c.Date.IsZero() {
			log.Warnf("row %d skipped: missing or unparseable date (document %q)",
				summary.Processed, c.DocumentNumber)
			continue
		}

		key := ix.Key(c)
		switch r.classify(c, key, ix, batchKeys) {
		case skipExistingInDB:
			summary.Omitted++
			continue
		case skipDuplicateInBatch:
			summary.Omitted++
			log.Debugf("row %d omitted: duplicate within batch (%s)", summary.Processed, key)
			continue
		}

		final := resolver.Resolve(c.DocumentNumber, ix)
		if ok := r.insertWithRetry(ctx, log, ix, resolver, c, final); ok {
			batchKeys[key] = struct{}{}
			summary.Inserted++
		} else {
			summary.Omitted++
		}
	}

	log.Infof("batch done: %d inserted, %d omitted, %d rows processed",
		summary.Inserted, summary.Omitted, summary.Processed)
	return summary, nil
}

// classify applies the decision order: transaction identity (combination key,
// database first, then this batch) before document-number collisions. A
// re-exported transaction with a reformatted document number must be
// recognized as the same transaction, never re-inserted under a suffix.
func (r *Runner) classify(c Movement, key string, ix *Index, batchKeys map[string]struct{}) decision {
	if ix.HasCombination(key) {
		return skipExistingInDB
	}
	if _, ok := batchKeys[key]; ok {
		return skipDuplicateInBatch
	}
	if !ix.HasDocument(c.DocumentNumber) {
		return insertNew
	}
	return insertWithSuffix
}

// insertWithRetry persists one movement, re-resolving the document number on
// primary key violations. The index and the store can in principle disagree
// between check and insert, so the constraint error is handled rather than
// assumed impossible.
func (r *Runner) insertWithRetry(ctx context.Context, log *logrus.Entry, ix *Index, resolver *Resolver, c Movement, final string) bool {
	m := c
	m.DateCounter = ix.NextDateCounter(c.Date)

	for attempt := 0; attempt <= insertRetries; attempt++ {
		m.DocumentNumber = final
		err := r.Store.InsertMovement(ctx, m)
		if err == nil {
			ix.MarkDocument(final)
			log.Debugf("inserted %s (%s, %s)", final, m.Date.Format("2006-01-02"), m.Amount.StringFixed(2))
			return true
		}
		if !errors.Is(err, ErrDuplicateKey) {
			log.Errorf("insert failed for %s: %v", final, err)
			return false
		}
		// Stale index view: the number exists after all. Record it and try
		// the next free suffix.
		ix.MarkDocument(final)
		final = resolver.Resolve(BaseDocumentNumber(final), ix)
		log.Warnf("primary key collision on %s, retrying as %s", m.DocumentNumber, final)
	}

	log.Errorf("giving up on %s after %d duplicate-key retries", c.DocumentNumber, insertRetries)
	return false
}

// dateRange finds the min and max transaction dates among candidates with a
// parseable date. ok is false when no candidate has one.
func dateRange(candidates []Movement) (from, to time.Time, ok bool) {
	for _, c := range candidates {
		if c.Date.IsZero() {
			continue
		}
		if !ok || c.Date.Before(from) {
			from = c.Date
		}
		if !ok || c.Date.After(to) {
			to = c.Date
		}
		ok = true
	}
	return from, to, ok
}
