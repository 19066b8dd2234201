package entities

import (
	"fmt"
	"time"
)

// LotteryStatus represents the lifecycle state of a lottery round.
type LotteryStatus string

const (
	LotteryStatusOpen      LotteryStatus = "open"
	LotteryStatusClosed    LotteryStatus = "closed"
	LotteryStatusClaimable LotteryStatus = "claimable"
)

// Lottery is one round of the lottery. Rounds are strictly sequential:
// at most one round is ever open for sales.
type Lottery struct {
	ID              int64         `db:"id"`
	Status          LotteryStatus `db:"status"`
	StartTime       time.Time     `db:"start_time"`
	EndTime         time.Time     `db:"end_time"`
	TicketPrice     int64         `db:"ticket_price"`
	DiscountDivisor int64         `db:"discount_divisor"`

	// RewardsBreakdown holds six basis-point shares, one per bracket,
	// summing to TotalRewardsBasisPoints.
	RewardsBreakdown []int64 `db:"rewards_breakdown"`
	TreasuryFeeBps   int64   `db:"treasury_fee_bps"`

	// FirstTicketID is the global id of the first ticket sold in this
	// round. FirstTicketIDNext is frozen at close time to one past the
	// last ticket sold, bounding claimable ids for the round.
	FirstTicketID     int64 `db:"first_ticket_id"`
	FirstTicketIDNext int64 `db:"first_ticket_id_next"`

	TicketsSold     int64 `db:"tickets_sold"`
	AmountCollected int64 `db:"amount_collected"`

	// Settlement results, populated when the round becomes claimable.
	FinalNumber            *int64  `db:"final_number"`
	CountWinnersPerBracket []int64 `db:"count_winners_per_bracket"`
	RewardPerBracket       []int64 `db:"reward_per_bracket"`

	CreatedAt time.Time `db:"created_at"`
}

// StartParams carries the operator-supplied configuration for a new round.
type StartParams struct {
	EndTime          time.Time
	TicketPrice      int64
	DiscountDivisor  int64
	RewardsBreakdown []int64
	TreasuryFeeBps   int64
}

// Validate checks the static parameter constraints that do not depend on
// engine limits (price bounds and round length are checked by the engine).
func (p StartParams) Validate() error {
	if p.DiscountDivisor < MinDiscountDivisor {
		return fmt.Errorf("%w: %d", ErrDiscountDivisorTooLow, p.DiscountDivisor)
	}
	if p.TreasuryFeeBps < 0 || p.TreasuryFeeBps > MaxTreasuryFeeBasisPoints {
		return fmt.Errorf("%w: %d", ErrTreasuryFeeTooHigh, p.TreasuryFeeBps)
	}
	if len(p.RewardsBreakdown) != NumBrackets {
		return fmt.Errorf("%w: expected %d brackets, got %d", ErrRewardsBreakdownSum, NumBrackets, len(p.RewardsBreakdown))
	}
	var sum int64
	for _, share := range p.RewardsBreakdown {
		if share < 0 {
			return fmt.Errorf("%w: negative share %d", ErrRewardsBreakdownSum, share)
		}
		sum += share
	}
	if sum != TotalRewardsBasisPoints {
		return fmt.Errorf("%w: got %d", ErrRewardsBreakdownSum, sum)
	}
	return nil
}

// IsOpen returns true if tickets may still be sold into this round.
func (l *Lottery) IsOpen() bool {
	return l.Status == LotteryStatusOpen
}

// IsClaimable returns true if winners may claim prizes from this round.
func (l *Lottery) IsClaimable() bool {
	return l.Status == LotteryStatusClaimable
}

// IsOver returns true once the sales window has elapsed.
func (l *Lottery) IsOver(now time.Time) bool {
	return !now.Before(l.EndTime)
}

// CanSellTickets returns true while the round is open and inside its
// sales window.
func (l *Lottery) CanSellTickets(now time.Time) bool {
	return l.IsOpen() && !l.IsOver(now)
}

// NextTicketID is the global id the next sold ticket will receive.
func (l *Lottery) NextTicketID() int64 {
	return l.FirstTicketID + l.TicketsSold
}

// ContainsTicketID reports whether a global ticket id was sold in this
// round. Only meaningful once FirstTicketIDNext has been frozen at close.
func (l *Lottery) ContainsTicketID(id int64) bool {
	return id >= l.FirstTicketID && id < l.FirstTicketIDNext
}

// Close freezes the round for settlement. The ticket id ceiling is
// captured here so later sales in other rounds cannot shift it.
func (l *Lottery) Close() {
	l.Status = LotteryStatusClosed
	l.FirstTicketIDNext = l.FirstTicketID + l.TicketsSold
}

// MakeClaimable records the settlement outcome and opens claims.
func (l *Lottery) MakeClaimable(final TicketNumber, counts, rewards []int64) {
	f := int64(final)
	l.FinalNumber = &f
	l.CountWinnersPerBracket = counts
	l.RewardPerBracket = rewards
	l.Status = LotteryStatusClaimable
}
