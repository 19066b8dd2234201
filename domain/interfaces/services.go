package interfaces

import (
	"context"

	"lotto/domain/entities"
)

// PurchaseResult describes a completed bulk ticket purchase.
type PurchaseResult struct {
	LotteryID     int64
	FirstTicketID int64
	TicketCount   int
	TotalCost     int64
}

// DrawResult describes a settled round.
type DrawResult struct {
	LotteryID              int64
	FinalNumber            entities.TicketNumber
	CountWinnersPerBracket []int64
	RewardPerBracket       []int64
	TreasuryAmount         int64
	InjectedNextLottery    int64
}

// ClaimResult describes a completed batch claim.
type ClaimResult struct {
	LotteryID   int64
	TicketCount int
	TotalAmount int64
}

// SettlementService runs the lottery round lifecycle and settles
// purchases, draws, and claims. Callers are identified by account
// address; privileged operations check the caller against the
// configured operator and injector.
type SettlementService interface {
	// StartLottery opens a new round. Fails while the previous round is
	// still open.
	StartLottery(ctx context.Context, caller string, params entities.StartParams) (*entities.Lottery, error)

	// BuyTickets sells a batch of tickets into an open round, debiting
	// the buyer for the discounted total. All-or-nothing.
	BuyTickets(ctx context.Context, buyer string, lotteryID int64, rawNumbers []uint32) (*PurchaseResult, error)

	// InjectFunds tops up an open round's pot from the caller's account.
	InjectFunds(ctx context.Context, caller string, lotteryID int64, amount int64) error

	// CloseLottery ends a round's sales window and requests a random
	// seed for its draw.
	CloseLottery(ctx context.Context, caller string, lotteryID int64) error

	// DrawFinalNumber consumes the oracle seed, computes per-bracket
	// winner counts and rewards, pays the treasury, and makes the round
	// claimable. Unwon funds roll into the next round when autoInjection
	// is set, otherwise they go to the treasury.
	DrawFinalNumber(ctx context.Context, caller string, lotteryID int64, autoInjection bool) (*DrawResult, error)

	// ClaimTickets pays out a batch of winning tickets at the asserted
	// bracket levels. All-or-nothing.
	ClaimTickets(ctx context.Context, claimant string, lotteryID int64, ticketIDs []int64, brackets []int) (*ClaimResult, error)

	// ViewLottery returns a round by id
	ViewLottery(ctx context.Context, lotteryID int64) (*entities.Lottery, error)

	// ViewCurrentLottery returns the most recent round
	ViewCurrentLottery(ctx context.Context) (*entities.Lottery, error)

	// ViewUserTickets returns a buyer's tickets in a round
	ViewUserTickets(ctx context.Context, lotteryID int64, owner string) ([]*entities.Ticket, error)
}
