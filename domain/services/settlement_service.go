package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"lotto/domain/entities"
	"lotto/domain/events"
	"lotto/domain/interfaces"
)

// EngineConfig carries the operational limits and privileged addresses
// the settlement engine enforces.
type EngineConfig struct {
	// OperatorAddress may start, close, and draw rounds.
	OperatorAddress string
	// InjectorAddress may inject funds alongside the operator.
	InjectorAddress string
	// TreasuryAddress receives fees and unwon funds.
	TreasuryAddress string
	// EngineAddress is the ledger account holding collected funds.
	EngineAddress string

	MinLotteryLength time.Duration
	MaxLotteryLength time.Duration
	MinTicketPrice   int64
	MaxTicketPrice   int64

	// MaxTicketsPerBatch bounds both purchases and claims.
	MaxTicketsPerBatch int
}

type settlementService struct {
	uowFactory interfaces.UnitOfWorkFactory
	oracle     interfaces.RandomnessOracle
	cfg        EngineConfig
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory interfaces.UnitOfWorkFactory, oracle interfaces.RandomnessOracle, cfg EngineConfig) interfaces.SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		oracle:     oracle,
		cfg:        cfg,
	}
}

func (s *settlementService) StartLottery(ctx context.Context, caller string, params entities.StartParams) (*entities.Lottery, error) {
	if caller != s.cfg.OperatorAddress {
		return nil, entities.ErrNotOperator
	}

	now := time.Now()
	length := params.EndTime.Sub(now)
	if length < s.cfg.MinLotteryLength || length > s.cfg.MaxLotteryLength {
		return nil, fmt.Errorf("%w: %s", entities.ErrLotteryLengthOutsideRange, length)
	}
	if params.TicketPrice < s.cfg.MinTicketPrice || params.TicketPrice > s.cfg.MaxTicketPrice {
		return nil, fmt.Errorf("%w: %d", entities.ErrTicketPriceOutsideLimits, params.TicketPrice)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Lock the latest round so concurrent starts serialize on it.
	prev, err := uow.LotteryRepository().GetLatestForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest lottery: %w", err)
	}

	firstTicketID := int64(0)
	if prev != nil {
		if prev.IsOpen() {
			return nil, entities.ErrNotTimeToStart
		}
		firstTicketID = prev.FirstTicketIDNext
	}

	// Funds rolled over from earlier draws seed the new pot.
	pending, err := uow.SettlementStateRepository().TakePendingInjection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take pending injection: %w", err)
	}

	lottery := &entities.Lottery{
		Status:           entities.LotteryStatusOpen,
		StartTime:        now,
		EndTime:          params.EndTime,
		TicketPrice:      params.TicketPrice,
		DiscountDivisor:  params.DiscountDivisor,
		RewardsBreakdown: params.RewardsBreakdown,
		TreasuryFeeBps:   params.TreasuryFeeBps,
		FirstTicketID:    firstTicketID,
		AmountCollected:  pending,
	}
	if err := uow.LotteryRepository().Create(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to create lottery: %w", err)
	}

	uow.EventBus().Publish(events.LotteryStartedEvent{
		LotteryID:      lottery.ID,
		EndTime:        lottery.EndTime,
		TicketPrice:    lottery.TicketPrice,
		TreasuryFeeBps: lottery.TreasuryFeeBps,
		InjectedAmount: pending,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"lotteryID":      lottery.ID,
		"endTime":        lottery.EndTime,
		"ticketPrice":    lottery.TicketPrice,
		"injectedAmount": pending,
	}).Info("Lottery started")

	return lottery, nil
}

func (s *settlementService) BuyTickets(ctx context.Context, buyer string, lotteryID int64, rawNumbers []uint32) (*interfaces.PurchaseResult, error) {
	if len(rawNumbers) == 0 {
		return nil, entities.ErrNoTicketsSpecified
	}
	if len(rawNumbers) > s.cfg.MaxTicketsPerBatch {
		return nil, fmt.Errorf("%w: %d exceeds limit of %d", entities.ErrTooManyTickets, len(rawNumbers), s.cfg.MaxTicketsPerBatch)
	}

	// Validate every number before touching any state.
	numbers := make([]entities.TicketNumber, len(rawNumbers))
	for i, raw := range rawNumbers {
		n, err := entities.NewTicketNumber(raw)
		if err != nil {
			return nil, err
		}
		numbers[i] = n
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lottery, err := uow.LotteryRepository().GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}
	if !lottery.IsOpen() {
		return nil, entities.ErrLotteryNotOpen
	}
	if lottery.IsOver(time.Now()) {
		return nil, entities.ErrLotteryOver
	}

	totalCost, err := entities.TotalPriceForBulkTickets(lottery.TicketPrice, lottery.DiscountDivisor, len(numbers))
	if err != nil {
		return nil, err
	}

	if err := uow.TokenLedger().TransferFrom(ctx, buyer, s.cfg.EngineAddress, totalCost); err != nil {
		return nil, fmt.Errorf("failed to collect payment: %w", err)
	}

	firstID := lottery.NextTicketID()
	tickets := make([]*entities.Ticket, len(numbers))
	for i, n := range numbers {
		tickets[i] = &entities.Ticket{
			ID:        firstID + int64(i),
			LotteryID: lotteryID,
			Number:    n,
			Owner:     buyer,
		}
	}
	if err := uow.TicketRepository().CreateBatch(ctx, tickets); err != nil {
		return nil, fmt.Errorf("failed to create tickets: %w", err)
	}
	if err := uow.BracketCountRepository().RecordNumbers(ctx, lotteryID, numbers); err != nil {
		return nil, fmt.Errorf("failed to record bracket counts: %w", err)
	}

	lottery.TicketsSold += int64(len(numbers))
	lottery.AmountCollected += totalCost
	if err := uow.LotteryRepository().Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}

	uow.EventBus().Publish(events.TicketsPurchasedEvent{
		Buyer:         buyer,
		LotteryID:     lotteryID,
		TicketCount:   len(numbers),
		FirstTicketID: firstID,
		TotalCost:     totalCost,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"buyer":       buyer,
		"lotteryID":   lotteryID,
		"ticketCount": len(numbers),
		"totalCost":   totalCost,
	}).Info("Tickets purchased")

	return &interfaces.PurchaseResult{
		LotteryID:     lotteryID,
		FirstTicketID: firstID,
		TicketCount:   len(numbers),
		TotalCost:     totalCost,
	}, nil
}

func (s *settlementService) InjectFunds(ctx context.Context, caller string, lotteryID int64, amount int64) error {
	if caller != s.cfg.OperatorAddress && caller != s.cfg.InjectorAddress {
		return entities.ErrNotOperatorOrInjector
	}
	if amount <= 0 {
		return fmt.Errorf("injection amount must be positive, got %d", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lottery, err := uow.LotteryRepository().GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return entities.ErrLotteryNotFound
	}
	if !lottery.IsOpen() {
		return entities.ErrLotteryNotOpen
	}

	if err := uow.TokenLedger().TransferFrom(ctx, caller, s.cfg.EngineAddress, amount); err != nil {
		return fmt.Errorf("failed to collect injection: %w", err)
	}

	lottery.AmountCollected += amount
	if err := uow.LotteryRepository().Update(ctx, lottery); err != nil {
		return fmt.Errorf("failed to update lottery: %w", err)
	}

	uow.EventBus().Publish(events.FundsInjectedEvent{
		LotteryID: lotteryID,
		Injector:  caller,
		Amount:    amount,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"lotteryID": lotteryID,
		"injector":  caller,
		"amount":    amount,
	}).Info("Funds injected")

	return nil
}

func (s *settlementService) CloseLottery(ctx context.Context, caller string, lotteryID int64) error {
	if caller != s.cfg.OperatorAddress {
		return entities.ErrNotOperator
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lottery, err := uow.LotteryRepository().GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return entities.ErrLotteryNotFound
	}
	if !lottery.IsOpen() {
		return entities.ErrLotteryNotOpen
	}
	if !lottery.IsOver(time.Now()) {
		return entities.ErrLotteryNotOver
	}

	lottery.Close()
	if err := uow.LotteryRepository().Update(ctx, lottery); err != nil {
		return fmt.Errorf("failed to update lottery: %w", err)
	}

	// An oracle failure aborts the close so it can be retried.
	if err := s.oracle.RequestRandomNumber(ctx, lotteryID); err != nil {
		return fmt.Errorf("failed to request random number: %w", err)
	}

	uow.EventBus().Publish(events.LotteryClosedEvent{
		LotteryID:         lotteryID,
		FirstTicketIDNext: lottery.FirstTicketIDNext,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"lotteryID":         lotteryID,
		"ticketsSold":       lottery.TicketsSold,
		"firstTicketIDNext": lottery.FirstTicketIDNext,
	}).Info("Lottery closed")

	return nil
}

func (s *settlementService) DrawFinalNumber(ctx context.Context, caller string, lotteryID int64, autoInjection bool) (*interfaces.DrawResult, error) {
	if caller != s.cfg.OperatorAddress {
		return nil, entities.ErrNotOperator
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lottery, err := uow.LotteryRepository().GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}
	if lottery.Status != entities.LotteryStatusClosed {
		return nil, entities.ErrLotteryNotClose
	}

	ready, err := s.oracle.IsResultReadyFor(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check oracle result: %w", err)
	}
	if !ready {
		return nil, entities.ErrFinalNumberNotDrawn
	}
	seed, err := s.oracle.ResultFor(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle result: %w", err)
	}
	final := entities.FinalNumberFromSeed(seed)

	amountToShare := lottery.AmountCollected * (entities.TotalRewardsBasisPoints - lottery.TreasuryFeeBps) / entities.TotalRewardsBasisPoints
	treasuryAmount := lottery.AmountCollected - amountToShare

	counts := make([]int64, entities.NumBrackets)
	rewards := make([]int64, entities.NumBrackets)
	var unwon int64
	for level := 0; level < entities.NumBrackets; level++ {
		count, err := uow.BracketCountRepository().CountAt(ctx, lotteryID, level, final.BracketSuffix(level))
		if err != nil {
			return nil, fmt.Errorf("failed to count winners at bracket %d: %w", level, err)
		}
		counts[level] = count

		pool := amountToShare * lottery.RewardsBreakdown[level] / entities.TotalRewardsBasisPoints
		if count > 0 {
			rewards[level] = pool / count
		} else {
			unwon += pool
		}
	}

	var injected int64
	if autoInjection {
		injected = unwon
		if err := uow.SettlementStateRepository().AddPendingInjection(ctx, unwon); err != nil {
			return nil, fmt.Errorf("failed to add pending injection: %w", err)
		}
	} else {
		treasuryAmount += unwon
	}

	if treasuryAmount > 0 {
		if err := uow.TokenLedger().Transfer(ctx, s.cfg.TreasuryAddress, treasuryAmount); err != nil {
			return nil, fmt.Errorf("failed to pay treasury: %w", err)
		}
	}

	lottery.MakeClaimable(final, counts, rewards)
	if err := uow.LotteryRepository().Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}

	uow.EventBus().Publish(events.FinalNumberDrawnEvent{
		LotteryID:              lotteryID,
		FinalNumber:            uint32(final),
		CountWinnersPerBracket: counts,
		TreasuryAmount:         treasuryAmount,
		InjectedNextLottery:    injected,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"lotteryID":      lotteryID,
		"finalNumber":    uint32(final),
		"treasuryAmount": treasuryAmount,
		"injectedNext":   injected,
	}).Info("Final number drawn")

	return &interfaces.DrawResult{
		LotteryID:              lotteryID,
		FinalNumber:            final,
		CountWinnersPerBracket: counts,
		RewardPerBracket:       rewards,
		TreasuryAmount:         treasuryAmount,
		InjectedNextLottery:    injected,
	}, nil
}

func (s *settlementService) ClaimTickets(ctx context.Context, claimant string, lotteryID int64, ticketIDs []int64, brackets []int) (*interfaces.ClaimResult, error) {
	if len(ticketIDs) != len(brackets) {
		return nil, entities.ErrArrayLengthMismatch
	}
	if len(ticketIDs) == 0 {
		return nil, entities.ErrNoTicketsSpecified
	}
	if len(ticketIDs) > s.cfg.MaxTicketsPerBatch {
		return nil, fmt.Errorf("%w: %d exceeds limit of %d", entities.ErrTooManyTickets, len(ticketIDs), s.cfg.MaxTicketsPerBatch)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// The round row lock serializes claims against each other.
	lottery, err := uow.LotteryRepository().GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}
	if !lottery.IsClaimable() {
		return nil, entities.ErrLotteryNotClaimable
	}
	final := entities.TicketNumber(*lottery.FinalNumber)

	tickets, err := uow.TicketRepository().GetByIDs(ctx, ticketIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}

	var totalAmount int64
	claimedIDs := make([]int64, 0, len(ticketIDs))
	for i, id := range ticketIDs {
		if id >= lottery.FirstTicketIDNext {
			return nil, fmt.Errorf("%w: %d", entities.ErrTicketIDTooHigh, id)
		}
		if id < lottery.FirstTicketID {
			return nil, fmt.Errorf("%w: %d", entities.ErrTicketIDTooLow, id)
		}
		ticket, ok := tickets[id]
		if !ok {
			return nil, fmt.Errorf("ticket %d not found", id)
		}
		if ticket.Owner != claimant {
			return nil, fmt.Errorf("%w: ticket %d", entities.ErrNotTicketOwner, id)
		}
		if ticket.Claimed {
			return nil, fmt.Errorf("%w: ticket %d", entities.ErrTicketAlreadyClaimed, id)
		}

		prize, err := ticket.PrizeAt(brackets[i], final, lottery.RewardPerBracket)
		if err != nil {
			return nil, fmt.Errorf("ticket %d: %w", id, err)
		}
		totalAmount += prize

		// Catches the same id appearing twice in one batch.
		ticket.Claimed = true
		claimedIDs = append(claimedIDs, id)
	}

	if err := uow.TicketRepository().MarkClaimed(ctx, claimedIDs); err != nil {
		return nil, fmt.Errorf("failed to mark tickets claimed: %w", err)
	}
	if err := uow.TokenLedger().Transfer(ctx, claimant, totalAmount); err != nil {
		return nil, fmt.Errorf("failed to pay out claim: %w", err)
	}

	uow.EventBus().Publish(events.TicketsClaimedEvent{
		Claimant:    claimant,
		LotteryID:   lotteryID,
		TicketCount: len(claimedIDs),
		TotalAmount: totalAmount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"claimant":    claimant,
		"lotteryID":   lotteryID,
		"ticketCount": len(claimedIDs),
		"totalAmount": totalAmount,
	}).Info("Tickets claimed")

	return &interfaces.ClaimResult{
		LotteryID:   lotteryID,
		TicketCount: len(claimedIDs),
		TotalAmount: totalAmount,
	}, nil
}

func (s *settlementService) ViewLottery(ctx context.Context, lotteryID int64) (*entities.Lottery, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lottery, err := uow.LotteryRepository().GetByID(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery: %w", err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return lottery, nil
}

func (s *settlementService) ViewCurrentLottery(ctx context.Context) (*entities.Lottery, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	lottery, err := uow.LotteryRepository().GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest lottery: %w", err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return lottery, nil
}

func (s *settlementService) ViewUserTickets(ctx context.Context, lotteryID int64, owner string) ([]*entities.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tickets, err := uow.TicketRepository().GetByOwnerForLottery(ctx, lotteryID, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return tickets, nil
}
