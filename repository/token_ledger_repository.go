package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lotto/database"
	"lotto/domain/entities"
)

// TokenLedgerRepository implements the TokenLedger interface over
// account balance and allowance tables. The engine address acts as the
// spender for every TransferFrom, mirroring a token approval flow.
type TokenLedgerRepository struct {
	q             queryable
	engineAddress string
}

// NewTokenLedgerRepository creates a new token ledger repository
func NewTokenLedgerRepository(db *database.DB, engineAddress string) *TokenLedgerRepository {
	return &TokenLedgerRepository{q: db.Pool, engineAddress: engineAddress}
}

// newTokenLedgerRepositoryWithTx creates a new token ledger repository with a transaction
func newTokenLedgerRepositoryWithTx(tx queryable, engineAddress string) *TokenLedgerRepository {
	return &TokenLedgerRepository{q: tx, engineAddress: engineAddress}
}

// TransferFrom moves tokens out of an account the engine holds an
// allowance on
func (r *TokenLedgerRepository) TransferFrom(ctx context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}

	allowanceQuery := `
		UPDATE token_allowances
		SET amount = amount - $1, updated_at = NOW()
		WHERE owner_address = $2 AND spender_address = $3 AND amount >= $1
	`
	result, err := r.q.Exec(ctx, allowanceQuery, amount, from, r.engineAddress)
	if err != nil {
		return fmt.Errorf("failed to spend allowance of %s: %w", from, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s, need %d", entities.ErrInsufficientAllowance, from, amount)
	}

	return r.move(ctx, from, to, amount)
}

// Transfer moves tokens out of the engine's own account
func (r *TokenLedgerRepository) Transfer(ctx context.Context, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transfer amount must not be negative, got %d", amount)
	}
	if amount == 0 {
		return nil
	}
	return r.move(ctx, r.engineAddress, to, amount)
}

func (r *TokenLedgerRepository) move(ctx context.Context, from, to string, amount int64) error {
	debitQuery := `
		UPDATE token_accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE address = $2 AND balance >= $1
	`
	result, err := r.q.Exec(ctx, debitQuery, amount, from)
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s, need %d", entities.ErrInsufficientBalance, from, amount)
	}

	creditQuery := `
		INSERT INTO token_accounts (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address)
		DO UPDATE SET balance = token_accounts.balance + EXCLUDED.balance, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, creditQuery, to, amount); err != nil {
		return fmt.Errorf("failed to credit %s: %w", to, err)
	}
	return nil
}

// Approve grants the engine an allowance over the owner's tokens,
// replacing any previous allowance
func (r *TokenLedgerRepository) Approve(ctx context.Context, owner string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("allowance must not be negative, got %d", amount)
	}

	query := `
		INSERT INTO token_allowances (owner_address, spender_address, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_address, spender_address)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, owner, r.engineAddress, amount); err != nil {
		return fmt.Errorf("failed to approve allowance for %s: %w", owner, err)
	}
	return nil
}

// Mint credits new tokens to an account
func (r *TokenLedgerRepository) Mint(ctx context.Context, address string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("mint amount must be positive, got %d", amount)
	}

	query := `
		INSERT INTO token_accounts (address, balance)
		VALUES ($1, $2)
		ON CONFLICT (address)
		DO UPDATE SET balance = token_accounts.balance + EXCLUDED.balance, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, address, amount); err != nil {
		return fmt.Errorf("failed to mint to %s: %w", address, err)
	}
	return nil
}

// BalanceOf returns an account's balance, zero for unknown accounts
func (r *TokenLedgerRepository) BalanceOf(ctx context.Context, address string) (int64, error) {
	query := `SELECT balance FROM token_accounts WHERE address = $1`

	var balance int64
	err := r.q.QueryRow(ctx, query, address).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance of %s: %w", address, err)
	}
	return balance, nil
}
