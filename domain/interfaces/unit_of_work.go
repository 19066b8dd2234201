package interfaces

import "context"

// UnitOfWork represents one atomic settlement operation. Every
// repository and ledger obtained from it shares a single database
// transaction; events published through its bus are held back until
// the transaction commits.
type UnitOfWork interface {
	// Begin starts the transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback aborts the transaction and discards pending events.
	// Safe to call after Commit.
	Rollback() error

	LotteryRepository() LotteryRepository
	TicketRepository() TicketRepository
	BracketCountRepository() BracketCountRepository
	SettlementStateRepository() SettlementStateRepository
	TokenLedger() TokenLedger
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
