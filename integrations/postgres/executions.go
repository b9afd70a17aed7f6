package postgres

import (
	"context"
	"fmt"
)

// Run statuses recorded in the executions table.
const (
	StatusRunning = "RUNNING"
	StatusSuccess = "SUCCESS"
	StatusPartial = "PARTIAL"
	StatusFailed  = "FAILED"
)

// StartExecution allocates the next execution id and opens a run. The MAX+1
// allocation happens inside a transaction so two concurrent starts cannot
// claim the same id.
func (db *DB) StartExecution(ctx context.Context, processName string) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(id), 0) + 1 FROM executions
	`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate execution id: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO executions (id, process_name, final_status)
		VALUES ($1, $2, $3)
	`, id, processName, StatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to create execution %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit execution %d: %w", id, err)
	}
	return id, nil
}

// FinishExecution closes a run with its final status.
func (db *DB) FinishExecution(ctx context.Context, id int64, status string) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE executions SET end_date = NOW(), final_status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to finish execution %d: %w", id, err)
	}
	return nil
}

// LogAction appends one status line to a run's log.
func (db *DB) LogAction(ctx context.Context, executionID int64, processName, status, action string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO execution_logs (execution_id, process_name, status, action)
		VALUES ($1, $2, $3, $4)
	`, executionID, processName, status, action)
	if err != nil {
		return fmt.Errorf("failed to log action for execution %d: %w", executionID, err)
	}
	return nil
}
