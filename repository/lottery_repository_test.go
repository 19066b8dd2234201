package repository

import (
	"context"
	"testing"
	"time"

	"lotto/domain/entities"
	"lotto/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotteryRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		lottery, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, lottery)
	})

	t.Run("roundtrip", func(t *testing.T) {
		lottery := testutil.NewTestLottery()
		require.NoError(t, repo.Create(ctx, lottery))
		assert.NotZero(t, lottery.ID)
		assert.False(t, lottery.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, lottery.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, lottery.ID, got.ID)
		assert.Equal(t, entities.LotteryStatusOpen, got.Status)
		assert.Equal(t, lottery.TicketPrice, got.TicketPrice)
		assert.Equal(t, lottery.DiscountDivisor, got.DiscountDivisor)
		assert.Equal(t, []int64{200, 300, 500, 1500, 2500, 5000}, got.RewardsBreakdown)
		assert.Equal(t, lottery.TreasuryFeeBps, got.TreasuryFeeBps)
		assert.True(t, lottery.EndTime.Equal(got.EndTime))
		assert.Nil(t, got.FinalNumber)
		assert.Nil(t, got.CountWinnersPerBracket)
		assert.Nil(t, got.RewardPerBracket)
	})
}

func TestLotteryRepository_GetLatest(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		lottery, err := repo.GetLatest(ctx)
		require.NoError(t, err)
		assert.Nil(t, lottery)

		lottery, err = repo.GetLatestForUpdate(ctx)
		require.NoError(t, err)
		assert.Nil(t, lottery)
	})

	t.Run("returns newest round", func(t *testing.T) {
		first := testutil.NewTestLottery()
		first.Status = entities.LotteryStatusClaimable
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.NewTestLottery()
		require.NoError(t, repo.Create(ctx, second))

		latest, err := repo.GetLatest(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, second.ID, latest.ID)
	})
}

func TestLotteryRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()

	lottery := testutil.NewTestLottery()
	require.NoError(t, repo.Create(ctx, lottery))

	// Sell some tickets, then walk the round through its lifecycle.
	lottery.TicketsSold = 111
	lottery.AmountCollected = 485_000
	require.NoError(t, repo.Update(ctx, lottery))

	lottery.Close()
	require.NoError(t, repo.Update(ctx, lottery))

	final, err := entities.NewTicketNumber(1_327_419)
	require.NoError(t, err)
	lottery.MakeClaimable(final, []int64{12, 3, 1, 0, 0, 1}, []int64{1_333, 8_000, 40_000, 0, 0, 400_000})
	require.NoError(t, repo.Update(ctx, lottery))

	got, err := repo.GetByID(ctx, lottery.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, entities.LotteryStatusClaimable, got.Status)
	assert.Equal(t, int64(111), got.TicketsSold)
	assert.Equal(t, int64(111), got.FirstTicketIDNext)
	require.NotNil(t, got.FinalNumber)
	assert.Equal(t, int64(1_327_419), *got.FinalNumber)
	assert.Equal(t, []int64{12, 3, 1, 0, 0, 1}, got.CountWinnersPerBracket)
	assert.Equal(t, []int64{1_333, 8_000, 40_000, 0, 0, 400_000}, got.RewardPerBracket)
}

func TestLotteryRepository_Update_NotFound(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)

	missing := testutil.NewTestLottery()
	missing.ID = 424242
	err := repo.Update(context.Background(), missing)
	assert.Error(t, err)
}

func TestLotteryRepository_WorkerQueries(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLotteryRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now().UTC()

	expired := testutil.NewTestLottery()
	expired.StartTime = now.Add(-6 * time.Hour)
	expired.EndTime = now.Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, expired))

	running := testutil.NewTestLottery()
	require.NoError(t, repo.Create(ctx, running))

	closed := testutil.NewTestLottery()
	closed.Status = entities.LotteryStatusClosed
	require.NoError(t, repo.Create(ctx, closed))

	t.Run("open rounds past their end time", func(t *testing.T) {
		got, err := repo.GetOpenEndedBefore(ctx, now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, expired.ID, got[0].ID)
	})

	t.Run("closed rounds awaiting a draw", func(t *testing.T) {
		got, err := repo.GetClosed(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, closed.ID, got[0].ID)
	})
}
