package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/autollantabi/conciliador/reconcile"
)

// pgUniqueViolation is the Postgres error code for unique constraint
// violations, including primary keys.
const pgUniqueViolation = "23505"

// DocumentNumbers returns every distinct document number persisted for an
// account and bank, unbounded by date.
func (db *DB) DocumentNumbers(ctx context.Context, accountNumber, bank string) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT document_number FROM movements
		WHERE account_number = $1 AND bank = $2
	`, accountNumber, bank)
	if err != nil {
		return nil, fmt.Errorf("failed to query document numbers: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan document number: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// MovementsInRange returns the persisted movements of a scope within the
// inclusive date range.
func (db *DB) MovementsInRange(ctx context.Context, scope reconcile.Scope, from, to time.Time) ([]reconcile.Movement, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT document_number, transaction_date, type, amount::text, balance_after::text,
		       office, concept, reference, date_counter, execution_id
		FROM movements
		WHERE account_number = $1 AND bank = $2 AND company = $3
		  AND transaction_date BETWEEN $4 AND $5
	`, scope.AccountNumber, scope.Bank, scope.Company, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	var result []reconcile.Movement
	for rows.Next() {
		m := reconcile.Movement{
			AccountNumber: scope.AccountNumber,
			Bank:          scope.Bank,
			Company:       scope.Company,
		}
		var amount, balance string
		if err := rows.Scan(&m.DocumentNumber, &m.Date, &m.Type, &amount, &balance,
			&m.Office, &m.Concept, &m.Reference, &m.DateCounter, &m.ExecutionID); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		if m.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for %s: %w", m.DocumentNumber, err)
		}
		if m.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("bad balance for %s: %w", m.DocumentNumber, err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// InsertMovement persists one movement, mapping primary key violations to
// reconcile.ErrDuplicateKey so the runner can retry with a new suffix.
func (db *DB) InsertMovement(ctx context.Context, m reconcile.Movement) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO movements (
			account_number, bank, company, document_number, execution_id,
			transaction_date, type, amount, balance_after, office, concept,
			reference, date_counter
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		m.AccountNumber, m.Bank, m.Company, m.DocumentNumber, m.ExecutionID,
		m.Date, m.Type, m.Amount, m.Balance, m.Office, m.Concept,
		m.Reference, m.DateCounter,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", reconcile.ErrDuplicateKey, m.DocumentNumber)
		}
		return fmt.Errorf("failed to insert movement %s: %w", m.DocumentNumber, err)
	}
	return nil
}
