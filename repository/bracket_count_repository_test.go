package repository

import (
	"context"
	"testing"

	"lotto/domain/entities"
	"lotto/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBracketCountRepository_RecordAndCount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	lotteryRepo := NewLotteryRepository(testDB.DB)
	repo := NewBracketCountRepository(testDB.DB)
	ctx := context.Background()

	lottery := testutil.NewTestLottery()
	require.NoError(t, lotteryRepo.Create(ctx, lottery))

	t.Run("unseen suffix counts zero", func(t *testing.T) {
		count, err := repo.CountAt(ctx, lottery.ID, 0, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("tallies nest across levels", func(t *testing.T) {
		numbers := []entities.TicketNumber{
			1_327_419, // shares last digit and last two with the next one
			1_555_519,
			1_327_419, // exact duplicate in the same batch
			1_000_002,
		}
		require.NoError(t, repo.RecordNumbers(ctx, lottery.ID, numbers))

		count, err := repo.CountAt(ctx, lottery.ID, 0, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count, "three tickets end in 9")

		count, err = repo.CountAt(ctx, lottery.ID, 1, 19)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = repo.CountAt(ctx, lottery.ID, 2, 419)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.CountAt(ctx, lottery.ID, 5, 327_419)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.CountAt(ctx, lottery.ID, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("later batches accumulate", func(t *testing.T) {
		require.NoError(t, repo.RecordNumbers(ctx, lottery.ID, []entities.TicketNumber{1_999_999}))

		count, err := repo.CountAt(ctx, lottery.ID, 0, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.RecordNumbers(ctx, lottery.ID, nil))
	})
}
