package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLotteryStarted   EventType = "lottery_started"
	EventTypeTicketsPurchased EventType = "tickets_purchased"
	EventTypeFundsInjected    EventType = "funds_injected"
	EventTypeLotteryClosed    EventType = "lottery_closed"
	EventTypeFinalNumberDrawn EventType = "final_number_drawn"
	EventTypeTicketsClaimed   EventType = "tickets_claimed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LotteryStartedEvent records a new round opening for ticket sales.
type LotteryStartedEvent struct {
	LotteryID      int64
	EndTime        time.Time
	TicketPrice    int64
	TreasuryFeeBps int64
	InjectedAmount int64
}

func (e LotteryStartedEvent) Type() EventType {
	return EventTypeLotteryStarted
}

// TicketsPurchasedEvent records a completed bulk ticket purchase.
type TicketsPurchasedEvent struct {
	Buyer         string
	LotteryID     int64
	TicketCount   int
	FirstTicketID int64
	TotalCost     int64
}

func (e TicketsPurchasedEvent) Type() EventType {
	return EventTypeTicketsPurchased
}

// FundsInjectedEvent records an external top-up of an open round's pot.
type FundsInjectedEvent struct {
	LotteryID int64
	Injector  string
	Amount    int64
}

func (e FundsInjectedEvent) Type() EventType {
	return EventTypeFundsInjected
}

// LotteryClosedEvent records the end of a round's sales window.
type LotteryClosedEvent struct {
	LotteryID         int64
	FirstTicketIDNext int64
}

func (e LotteryClosedEvent) Type() EventType {
	return EventTypeLotteryClosed
}

// FinalNumberDrawnEvent records a settled round becoming claimable.
type FinalNumberDrawnEvent struct {
	LotteryID              int64
	FinalNumber            uint32
	CountWinnersPerBracket []int64
	TreasuryAmount         int64
	InjectedNextLottery    int64
}

func (e FinalNumberDrawnEvent) Type() EventType {
	return EventTypeFinalNumberDrawn
}

// TicketsClaimedEvent records a successful batch claim payout.
type TicketsClaimedEvent struct {
	Claimant    string
	LotteryID   int64
	TicketCount int
	TotalAmount int64
}

func (e TicketsClaimedEvent) Type() EventType {
	return EventTypeTicketsClaimed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Use background context for event emission so handlers outlive the
	// transaction context.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
