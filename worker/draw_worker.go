package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lotto/domain/entities"
	"lotto/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// SettlementWorker periodically closes rounds whose sales window elapsed
// and draws closed rounds once their oracle seed is ready. It acts as the
// configured operator.
type SettlementWorker struct {
	uowFactory    interfaces.UnitOfWorkFactory
	svc           interfaces.SettlementService
	operator      string
	interval      time.Duration
	autoInjection bool
}

// NewSettlementWorker creates a new settlement worker
func NewSettlementWorker(
	uowFactory interfaces.UnitOfWorkFactory,
	svc interfaces.SettlementService,
	operator string,
	interval time.Duration,
	autoInjection bool,
) *SettlementWorker {
	return &SettlementWorker{
		uowFactory:    uowFactory,
		svc:           svc,
		operator:      operator,
		interval:      interval,
		autoInjection: autoInjection,
	}
}

// Start begins the settlement worker
// Returns a cleanup function to stop the worker gracefully
func (w *SettlementWorker) Start(ctx context.Context) func() {
	ticker := time.NewTicker(w.interval)
	stopChan := make(chan struct{})

	go func() {
		log.Info("Settlement worker started")

		// Run immediately on startup
		w.RunOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Settlement worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Settlement worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.RunOnce(ctx)
			}
		}
	}()

	// Return cleanup function
	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// RunOnce performs a single close-and-draw sweep
func (w *SettlementWorker) RunOnce(ctx context.Context) {
	if err := w.closeEndedLotteries(ctx); err != nil {
		log.Errorf("Error closing ended lotteries: %v", err)
	}
	if err := w.drawClosedLotteries(ctx); err != nil {
		log.Errorf("Error drawing closed lotteries: %v", err)
	}
}

// closeEndedLotteries closes every open round whose sales window elapsed
func (w *SettlementWorker) closeEndedLotteries(ctx context.Context) error {
	ended, err := w.findEndedLotteries(ctx)
	if err != nil {
		return err
	}

	for _, lottery := range ended {
		if err := w.svc.CloseLottery(ctx, w.operator, lottery.ID); err != nil {
			// Another caller may have closed it between the query and
			// the attempt.
			if errors.Is(err, entities.ErrLotteryNotOpen) {
				continue
			}
			log.Errorf("Error closing lottery %d: %v", lottery.ID, err)
			continue
		}
		log.WithField("lottery_id", lottery.ID).Info("Closed ended lottery")
	}

	return nil
}

// drawClosedLotteries draws every closed round whose seed is ready
func (w *SettlementWorker) drawClosedLotteries(ctx context.Context) error {
	closed, err := w.findClosedLotteries(ctx)
	if err != nil {
		return err
	}

	for _, lottery := range closed {
		result, err := w.svc.DrawFinalNumber(ctx, w.operator, lottery.ID, w.autoInjection)
		if err != nil {
			// Seed not ready yet; try again next sweep.
			if errors.Is(err, entities.ErrFinalNumberNotDrawn) {
				log.Debugf("Seed not ready for lottery %d, will retry", lottery.ID)
				continue
			}
			if errors.Is(err, entities.ErrLotteryNotClose) {
				continue
			}
			log.Errorf("Error drawing lottery %d: %v", lottery.ID, err)
			continue
		}

		log.WithFields(log.Fields{
			"lottery_id":      result.LotteryID,
			"final_number":    result.FinalNumber,
			"treasury_amount": result.TreasuryAmount,
			"injected_next":   result.InjectedNextLottery,
		}).Info("Lottery drawn")
	}

	return nil
}

func (w *SettlementWorker) findEndedLotteries(ctx context.Context) ([]*entities.Lottery, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.LotteryRepository().GetOpenEndedBefore(ctx, time.Now().UTC())
}

func (w *SettlementWorker) findClosedLotteries(ctx context.Context) ([]*entities.Lottery, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.LotteryRepository().GetClosed(ctx)
}
