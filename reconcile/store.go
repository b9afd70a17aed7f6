package reconcile

import (
	"context"
	"errors"
	"time"
)

// Store errors the runner acts on. Implementations must return
// ErrDuplicateKey (possibly wrapped) when an insert hits the
// (account, bank, document number) primary key, so the runner can retry with
// a fresh suffix; any other insert error abandons the row.
var (
	// ErrDuplicateKey signals a primary key violation on insert.
	ErrDuplicateKey = errors.New("duplicate document number")

	// ErrStoreUnavailable wraps failures to read the existing records. It is
	// the only condition that fails a whole batch.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Store is the persistence collaborator of the reconciliation core. All
// queries are scoped; implementations use parameterized statements only.
type Store interface {
	// DocumentNumbers returns every distinct persisted document number for an
	// account and bank, unbounded by date. The primary key has no date
	// component, so a date-windowed view could miss a real collision.
	DocumentNumbers(ctx context.Context, accountNumber, bank string) ([]string, error)

	// MovementsInRange returns the persisted movements of a scope whose
	// transaction date falls within [from, to], inclusive.
	MovementsInRange(ctx context.Context, scope Scope, from, to time.Time) ([]Movement, error)

	// InsertMovement persists one movement. Returns ErrDuplicateKey when the
	// primary key already exists.
	InsertMovement(ctx context.Context, m Movement) error
}

// Clock supplies the current time for the timestamp fallback suffix. Injected
// so the safety valve is testable.
type Clock interface {
	Today() time.Time
}

// SystemClock is the Clock used outside of tests.
type SystemClock struct{}

func (SystemClock) Today() time.Time { return time.Now() }
