package repository

import (
	"context"
	"testing"

	"lotto/domain/entities"
	"lotto/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEngineAddress = "engine"

func TestTokenLedgerRepository_TransferFrom(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTokenLedgerRepository(testDB.DB, testEngineAddress)
	ctx := context.Background()

	require.NoError(t, repo.Mint(ctx, "alice", 10_000))
	require.NoError(t, repo.Approve(ctx, "alice", 6_000))

	t.Run("moves funds within the allowance", func(t *testing.T) {
		require.NoError(t, repo.TransferFrom(ctx, "alice", testEngineAddress, 4_000))

		balance, err := repo.BalanceOf(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(6_000), balance)

		balance, err = repo.BalanceOf(ctx, testEngineAddress)
		require.NoError(t, err)
		assert.Equal(t, int64(4_000), balance)
	})

	t.Run("allowance is consumed", func(t *testing.T) {
		err := repo.TransferFrom(ctx, "alice", testEngineAddress, 3_000)
		assert.ErrorIs(t, err, entities.ErrInsufficientAllowance)
	})

	t.Run("balance limits the transfer even with allowance", func(t *testing.T) {
		require.NoError(t, repo.Mint(ctx, "bob", 100))
		require.NoError(t, repo.Approve(ctx, "bob", 50_000))

		err := repo.TransferFrom(ctx, "bob", testEngineAddress, 500)
		assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
	})

	t.Run("unknown account has no allowance", func(t *testing.T) {
		err := repo.TransferFrom(ctx, "nobody", testEngineAddress, 1)
		assert.ErrorIs(t, err, entities.ErrInsufficientAllowance)
	})
}

func TestTokenLedgerRepository_Transfer(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTokenLedgerRepository(testDB.DB, testEngineAddress)
	ctx := context.Background()

	require.NoError(t, repo.Mint(ctx, testEngineAddress, 1_000))

	t.Run("pays out from the engine account", func(t *testing.T) {
		require.NoError(t, repo.Transfer(ctx, "treasury", 600))

		balance, err := repo.BalanceOf(ctx, "treasury")
		require.NoError(t, err)
		assert.Equal(t, int64(600), balance)
	})

	t.Run("cannot overdraw", func(t *testing.T) {
		err := repo.Transfer(ctx, "treasury", 500)
		assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
	})

	t.Run("zero amount is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Transfer(ctx, "treasury", 0))
	})
}

func TestTokenLedgerRepository_ApproveReplaces(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTokenLedgerRepository(testDB.DB, testEngineAddress)
	ctx := context.Background()

	require.NoError(t, repo.Mint(ctx, "carol", 100_000))
	require.NoError(t, repo.Approve(ctx, "carol", 1_000))
	require.NoError(t, repo.Approve(ctx, "carol", 10_000))

	// The second approval replaces the first rather than adding to it.
	require.NoError(t, repo.TransferFrom(ctx, "carol", testEngineAddress, 9_000))
	err := repo.TransferFrom(ctx, "carol", testEngineAddress, 2_000)
	assert.ErrorIs(t, err, entities.ErrInsufficientAllowance)
}

func TestTokenLedgerRepository_BalanceOfUnknownAccount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewTokenLedgerRepository(testDB.DB, testEngineAddress)

	balance, err := repo.BalanceOf(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}
