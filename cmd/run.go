package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"lotto/config"
	"lotto/database"
	"lotto/domain/events"
	"lotto/domain/services"
	"lotto/infrastructure"
	"lotto/repository"
	"lotto/worker"
)

// Run initializes and starts the settlement engine
func Run(ctx context.Context, cfg *config.Config) error {
	configureLogging(cfg.Logging)

	log.Info("Starting lotto settlement engine...")

	// Initialize database connection
	db, err := database.NewConnection(ctx, cfg.Database.ConnectionURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	// Initialize event bus and unit of work factory
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus, cfg.Engine.EngineAddress)

	// Initialize the settlement service with the in-process oracle
	oracle := infrastructure.NewLocalRandomOracle()
	svc := services.NewSettlementService(uowFactory, oracle, services.EngineConfig{
		OperatorAddress:    cfg.Engine.OperatorAddress,
		InjectorAddress:    cfg.Engine.InjectorAddress,
		TreasuryAddress:    cfg.Engine.TreasuryAddress,
		EngineAddress:      cfg.Engine.EngineAddress,
		MinLotteryLength:   cfg.Engine.MinLotteryLength,
		MaxLotteryLength:   cfg.Engine.MaxLotteryLength,
		MinTicketPrice:     cfg.Engine.MinTicketPrice,
		MaxTicketPrice:     cfg.Engine.MaxTicketPrice,
		MaxTicketsPerBatch: cfg.Engine.MaxTicketsPerBatch,
	})

	// Start the close-and-draw worker
	var stopWorker func()
	if cfg.Worker.Enabled {
		w := worker.NewSettlementWorker(
			uowFactory,
			svc,
			cfg.Engine.OperatorAddress,
			cfg.Worker.PollInterval,
			cfg.Worker.AutoInjection,
		)
		stopWorker = w.Start(ctx)
		log.WithFields(log.Fields{
			"poll_interval":  cfg.Worker.PollInterval,
			"auto_injection": cfg.Worker.AutoInjection,
		}).Info("Settlement worker enabled")
	}

	log.Info("Settlement engine is running")
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down settlement engine...")
	if stopWorker != nil {
		stopWorker()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

func configureLogging(cfg config.LoggingConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
