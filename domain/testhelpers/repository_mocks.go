package testhelpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"lotto/domain/entities"
	"lotto/domain/events"
	"lotto/domain/interfaces"
)

// MockLotteryRepository is a mock implementation of LotteryRepository
type MockLotteryRepository struct {
	mock.Mock
}

func (m *MockLotteryRepository) Create(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *MockLotteryRepository) GetByID(ctx context.Context, id int64) (*entities.Lottery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Lottery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetLatestForUpdate(ctx context.Context) (*entities.Lottery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetLatest(ctx context.Context) (*entities.Lottery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) Update(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *MockLotteryRepository) GetOpenEndedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Lottery, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotteryRepository) GetClosed(ctx context.Context) ([]*entities.Lottery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) CreateBatch(ctx context.Context, tickets []*entities.Ticket) error {
	args := m.Called(ctx, tickets)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entities.Ticket, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByOwnerForLottery(ctx context.Context, lotteryID int64, owner string) ([]*entities.Ticket, error) {
	args := m.Called(ctx, lotteryID, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) MarkClaimed(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// MockBracketCountRepository is a mock implementation of BracketCountRepository
type MockBracketCountRepository struct {
	mock.Mock
}

func (m *MockBracketCountRepository) RecordNumbers(ctx context.Context, lotteryID int64, numbers []entities.TicketNumber) error {
	args := m.Called(ctx, lotteryID, numbers)
	return args.Error(0)
}

func (m *MockBracketCountRepository) CountAt(ctx context.Context, lotteryID int64, level int, suffix uint32) (int64, error) {
	args := m.Called(ctx, lotteryID, level, suffix)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettlementStateRepository is a mock implementation of SettlementStateRepository
type MockSettlementStateRepository struct {
	mock.Mock
}

func (m *MockSettlementStateRepository) AddPendingInjection(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

func (m *MockSettlementStateRepository) TakePendingInjection(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSettlementStateRepository) GetPendingInjection(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenLedger is a mock implementation of TokenLedger
type MockTokenLedger struct {
	mock.Mock
}

func (m *MockTokenLedger) TransferFrom(ctx context.Context, from, to string, amount int64) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *MockTokenLedger) Transfer(ctx context.Context, to string, amount int64) error {
	args := m.Called(ctx, to, amount)
	return args.Error(0)
}

// MockRandomnessOracle is a mock implementation of RandomnessOracle
type MockRandomnessOracle struct {
	mock.Mock
}

func (m *MockRandomnessOracle) RequestRandomNumber(ctx context.Context, lotteryID int64) error {
	args := m.Called(ctx, lotteryID)
	return args.Error(0)
}

func (m *MockRandomnessOracle) IsResultReadyFor(ctx context.Context, lotteryID int64) (bool, error) {
	args := m.Called(ctx, lotteryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRandomnessOracle) ResultFor(ctx context.Context, lotteryID int64) (uint64, error) {
	args := m.Called(ctx, lotteryID)
	return args.Get(0).(uint64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// NoopEventPublisher swallows events for tests that do not assert on them
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories
// are wired in via SetRepositories rather than mock expectations.
type MockUnitOfWork struct {
	mock.Mock

	lotteryRepo  interfaces.LotteryRepository
	ticketRepo   interfaces.TicketRepository
	bracketRepo  interfaces.BracketCountRepository
	stateRepo    interfaces.SettlementStateRepository
	tokenLedger  interfaces.TokenLedger
	eventBus     interfaces.EventPublisher
}

// SetRepositories configures the repositories this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(
	lotteryRepo interfaces.LotteryRepository,
	ticketRepo interfaces.TicketRepository,
	bracketRepo interfaces.BracketCountRepository,
	stateRepo interfaces.SettlementStateRepository,
	tokenLedger interfaces.TokenLedger,
	eventBus interfaces.EventPublisher,
) {
	m.lotteryRepo = lotteryRepo
	m.ticketRepo = ticketRepo
	m.bracketRepo = bracketRepo
	m.stateRepo = stateRepo
	m.tokenLedger = tokenLedger
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) LotteryRepository() interfaces.LotteryRepository {
	return m.lotteryRepo
}

func (m *MockUnitOfWork) TicketRepository() interfaces.TicketRepository {
	return m.ticketRepo
}

func (m *MockUnitOfWork) BracketCountRepository() interfaces.BracketCountRepository {
	return m.bracketRepo
}

func (m *MockUnitOfWork) SettlementStateRepository() interfaces.SettlementStateRepository {
	return m.stateRepo
}

func (m *MockUnitOfWork) TokenLedger() interfaces.TokenLedger {
	return m.tokenLedger
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	args := m.Called()
	return args.Get(0).(interfaces.UnitOfWork)
}
