package testutil

import (
	"time"

	"lotto/domain/entities"
)

// NewTestLottery builds an open lottery round with sane defaults for
// repository tests. Mutate the returned value before persisting when a
// test needs something specific.
func NewTestLottery() *entities.Lottery {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entities.Lottery{
		Status:           entities.LotteryStatusOpen,
		StartTime:        now,
		EndTime:          now.Add(4 * time.Hour),
		TicketPrice:      5000,
		DiscountDivisor:  2000,
		RewardsBreakdown: []int64{200, 300, 500, 1500, 2500, 5000},
		TreasuryFeeBps:   2000,
		FirstTicketID:    0,
	}
}

// NewTestTicket builds a ticket for the given round and id.
func NewTestTicket(id, lotteryID int64, number uint32, owner string) *entities.Ticket {
	return &entities.Ticket{
		ID:        id,
		LotteryID: lotteryID,
		Number:    entities.TicketNumber(number),
		Owner:     owner,
	}
}
