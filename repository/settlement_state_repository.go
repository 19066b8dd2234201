package repository

import (
	"context"
	"fmt"

	"lotto/database"
)

// SettlementStateRepository implements the SettlementStateRepository
// interface over a single-row table.
type SettlementStateRepository struct {
	q queryable
}

// NewSettlementStateRepository creates a new settlement state repository
func NewSettlementStateRepository(db *database.DB) *SettlementStateRepository {
	return &SettlementStateRepository{q: db.Pool}
}

// newSettlementStateRepositoryWithTx creates a new settlement state repository with a transaction
func newSettlementStateRepositoryWithTx(tx queryable) *SettlementStateRepository {
	return &SettlementStateRepository{q: tx}
}

// AddPendingInjection accumulates unwon funds earmarked for the next round
func (r *SettlementStateRepository) AddPendingInjection(ctx context.Context, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("pending injection amount must not be negative, got %d", amount)
	}

	query := `
		UPDATE settlement_state
		SET pending_injection_next = pending_injection_next + $1
		WHERE id = TRUE
	`

	result, err := r.q.Exec(ctx, query, amount)
	if err != nil {
		return fmt.Errorf("failed to add pending injection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("settlement state row missing")
	}
	return nil
}

// TakePendingInjection returns the accumulated amount and resets it to
// zero in the same statement
func (r *SettlementStateRepository) TakePendingInjection(ctx context.Context) (int64, error) {
	query := `
		UPDATE settlement_state
		SET pending_injection_next = 0
		WHERE id = TRUE
		RETURNING (SELECT pending_injection_next FROM settlement_state WHERE id = TRUE)
	`

	var amount int64
	if err := r.q.QueryRow(ctx, query).Scan(&amount); err != nil {
		return 0, fmt.Errorf("failed to take pending injection: %w", err)
	}
	return amount, nil
}

// GetPendingInjection reads the accumulated amount without resetting it
func (r *SettlementStateRepository) GetPendingInjection(ctx context.Context) (int64, error) {
	query := `SELECT pending_injection_next FROM settlement_state WHERE id = TRUE`

	var amount int64
	if err := r.q.QueryRow(ctx, query).Scan(&amount); err != nil {
		return 0, fmt.Errorf("failed to get pending injection: %w", err)
	}
	return amount, nil
}
