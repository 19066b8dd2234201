package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lotto/database"
	"lotto/domain/events"
	"lotto/domain/interfaces"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	engineAddress    string
	transactionalBus *events.TransactionalBus
	lotteryRepo      interfaces.LotteryRepository
	ticketRepo       interfaces.TicketRepository
	bracketRepo      interfaces.BracketCountRepository
	stateRepo        interfaces.SettlementStateRepository
	tokenLedger      interfaces.TokenLedger
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus, engineAddress string) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:            db,
		eventBus:      eventBus,
		engineAddress: engineAddress,
	}
}

type unitOfWorkFactory struct {
	db            *database.DB
	eventBus      *events.Bus
	engineAddress string
}

func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		engineAddress:    f.engineAddress,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.lotteryRepo = newLotteryRepositoryWithTx(tx)
	u.ticketRepo = newTicketRepositoryWithTx(tx)
	u.bracketRepo = newBracketCountRepositoryWithTx(tx)
	u.stateRepo = newSettlementStateRepositoryWithTx(tx)
	u.tokenLedger = newTokenLedgerRepositoryWithTx(tx, u.engineAddress)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// LotteryRepository returns the lottery repository for this unit of work
func (u *unitOfWork) LotteryRepository() interfaces.LotteryRepository {
	if u.lotteryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lotteryRepo
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	if u.ticketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketRepo
}

// BracketCountRepository returns the bracket count repository for this unit of work
func (u *unitOfWork) BracketCountRepository() interfaces.BracketCountRepository {
	if u.bracketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.bracketRepo
}

// SettlementStateRepository returns the settlement state repository for this unit of work
func (u *unitOfWork) SettlementStateRepository() interfaces.SettlementStateRepository {
	if u.stateRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.stateRepo
}

// TokenLedger returns the token ledger for this unit of work
func (u *unitOfWork) TokenLedger() interfaces.TokenLedger {
	if u.tokenLedger == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tokenLedger
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
