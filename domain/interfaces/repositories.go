package interfaces

import (
	"context"
	"time"

	"lotto/domain/entities"
)

// LotteryRepository manages lottery round persistence
type LotteryRepository interface {
	// Create saves a new round and assigns its sequential id
	Create(ctx context.Context, lottery *entities.Lottery) error

	// GetByID retrieves a round by id (nil if not found)
	GetByID(ctx context.Context, id int64) (*entities.Lottery, error)

	// GetByIDForUpdate retrieves a round with a row lock for the
	// duration of the transaction (nil if not found)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Lottery, error)

	// GetLatestForUpdate retrieves the most recent round with a row
	// lock, serializing round transitions (nil if no rounds exist)
	GetLatestForUpdate(ctx context.Context) (*entities.Lottery, error)

	// GetLatest retrieves the most recent round (nil if none exist)
	GetLatest(ctx context.Context) (*entities.Lottery, error)

	// Update persists round state changes
	Update(ctx context.Context, lottery *entities.Lottery) error

	// GetOpenEndedBefore returns open rounds whose sales window elapsed
	GetOpenEndedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Lottery, error)

	// GetClosed returns rounds awaiting a draw
	GetClosed(ctx context.Context) ([]*entities.Lottery, error)
}

// TicketRepository manages sold tickets
type TicketRepository interface {
	// CreateBatch inserts a batch of tickets with pre-assigned ids
	CreateBatch(ctx context.Context, tickets []*entities.Ticket) error

	// GetByID retrieves a ticket by its global id (nil if not found)
	GetByID(ctx context.Context, id int64) (*entities.Ticket, error)

	// GetByIDs retrieves tickets by id, keyed by id; missing ids are
	// simply absent from the result
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entities.Ticket, error)

	// GetByOwnerForLottery returns a buyer's tickets in a round,
	// ordered by id
	GetByOwnerForLottery(ctx context.Context, lotteryID int64, owner string) ([]*entities.Ticket, error)

	// MarkClaimed flags the given tickets as claimed
	MarkClaimed(ctx context.Context, ids []int64) error
}

// BracketCountRepository maintains per-round suffix tallies so draws
// read one row per bracket instead of scanning all tickets
type BracketCountRepository interface {
	// RecordNumbers bumps the tallies for every bracket suffix of the
	// given numbers
	RecordNumbers(ctx context.Context, lotteryID int64, numbers []entities.TicketNumber) error

	// CountAt returns how many sold tickets share the suffix at the
	// given bracket level
	CountAt(ctx context.Context, lotteryID int64, level int, suffix uint32) (int64, error)
}

// SettlementStateRepository persists engine state that spans rounds
type SettlementStateRepository interface {
	// AddPendingInjection accumulates unwon funds earmarked for the
	// next round
	AddPendingInjection(ctx context.Context, amount int64) error

	// TakePendingInjection returns the accumulated amount and resets it
	// to zero in the same transaction
	TakePendingInjection(ctx context.Context) (int64, error)

	// GetPendingInjection reads the accumulated amount without resetting
	GetPendingInjection(ctx context.Context) (int64, error)
}
