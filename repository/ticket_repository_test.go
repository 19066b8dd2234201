package repository

import (
	"context"
	"testing"

	"lotto/domain/entities"
	"lotto/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_CreateBatchAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	lotteryRepo := NewLotteryRepository(testDB.DB)
	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	lottery := testutil.NewTestLottery()
	require.NoError(t, lotteryRepo.Create(ctx, lottery))

	tickets := []*entities.Ticket{
		testutil.NewTestTicket(0, lottery.ID, 1_234_561, "alice"),
		testutil.NewTestTicket(1, lottery.ID, 1_000_000, "alice"),
		testutil.NewTestTicket(2, lottery.ID, 1_999_999, "bob"),
	}
	require.NoError(t, repo.CreateBatch(ctx, tickets))
	for _, ticket := range tickets {
		assert.False(t, ticket.CreatedAt.IsZero())
	}

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "bob", got.Owner)
		assert.Equal(t, uint32(1_999_999), uint32(got.Number))
		assert.False(t, got.Claimed)
	})

	t.Run("get by id not found", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("get by ids skips missing", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []int64{0, 2, 999})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Contains(t, got, int64(0))
		assert.Contains(t, got, int64(2))
		assert.NotContains(t, got, int64(999))
	})

	t.Run("get by owner ordered by id", func(t *testing.T) {
		got, err := repo.GetByOwnerForLottery(ctx, lottery.ID, "alice")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(0), got[0].ID)
		assert.Equal(t, int64(1), got[1].ID)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.CreateBatch(ctx, nil))
	})
}

func TestTicketRepository_MarkClaimed(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	lotteryRepo := NewLotteryRepository(testDB.DB)
	repo := NewTicketRepository(testDB.DB)
	ctx := context.Background()

	lottery := testutil.NewTestLottery()
	require.NoError(t, lotteryRepo.Create(ctx, lottery))

	tickets := []*entities.Ticket{
		testutil.NewTestTicket(0, lottery.ID, 1_111_111, "alice"),
		testutil.NewTestTicket(1, lottery.ID, 1_222_222, "alice"),
	}
	require.NoError(t, repo.CreateBatch(ctx, tickets))

	require.NoError(t, repo.MarkClaimed(ctx, []int64{0, 1}))

	got, err := repo.GetByID(ctx, 0)
	require.NoError(t, err)
	assert.True(t, got.Claimed)

	// Claiming an already-claimed ticket is refused.
	err = repo.MarkClaimed(ctx, []int64{1})
	assert.ErrorIs(t, err, entities.ErrTicketAlreadyClaimed)
}
