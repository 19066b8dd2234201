package interfaces

import (
	"context"

	"lotto/domain/events"
)

// TokenLedger moves prize-token balances between accounts. The engine
// pulls purchase funds from buyers and pays out prizes and treasury fees
// from its own account.
type TokenLedger interface {
	// TransferFrom moves tokens out of an account the engine holds an
	// allowance on. Fails with ErrInsufficientAllowance or
	// ErrInsufficientBalance.
	TransferFrom(ctx context.Context, from, to string, amount int64) error

	// Transfer moves tokens out of the engine's own account.
	Transfer(ctx context.Context, to string, amount int64) error
}

// RandomnessOracle supplies the random seed a draw is settled with.
// Requesting and consuming are decoupled: a request is made at close
// time and the result is consumed at draw time, only once the oracle
// reports it ready for that specific round.
type RandomnessOracle interface {
	// RequestRandomNumber asks the oracle to produce a seed for a round
	RequestRandomNumber(ctx context.Context, lotteryID int64) error

	// IsResultReadyFor reports whether a seed is available and was
	// produced for the given round
	IsResultReadyFor(ctx context.Context, lotteryID int64) (bool, error)

	// ResultFor returns the seed produced for the given round
	ResultFor(ctx context.Context, lotteryID int64) (uint64, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event)
}
