package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"lotto/database"
	"lotto/domain/entities"
)

const lotteryColumns = `
	id, status, start_time, end_time, ticket_price, discount_divisor,
	rewards_breakdown, treasury_fee_bps, first_ticket_id, first_ticket_id_next,
	tickets_sold, amount_collected, final_number, count_winners_per_bracket,
	reward_per_bracket, created_at`

// LotteryRepository implements the LotteryRepository interface
type LotteryRepository struct {
	q queryable
}

// NewLotteryRepository creates a new lottery repository
func NewLotteryRepository(db *database.DB) *LotteryRepository {
	return &LotteryRepository{q: db.Pool}
}

// newLotteryRepositoryWithTx creates a new lottery repository with a transaction
func newLotteryRepositoryWithTx(tx queryable) *LotteryRepository {
	return &LotteryRepository{q: tx}
}

func scanLottery(row pgx.Row) (*entities.Lottery, error) {
	var lottery entities.Lottery
	err := row.Scan(
		&lottery.ID,
		&lottery.Status,
		&lottery.StartTime,
		&lottery.EndTime,
		&lottery.TicketPrice,
		&lottery.DiscountDivisor,
		&lottery.RewardsBreakdown,
		&lottery.TreasuryFeeBps,
		&lottery.FirstTicketID,
		&lottery.FirstTicketIDNext,
		&lottery.TicketsSold,
		&lottery.AmountCollected,
		&lottery.FinalNumber,
		&lottery.CountWinnersPerBracket,
		&lottery.RewardPerBracket,
		&lottery.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan lottery: %w", err)
	}
	return &lottery, nil
}

// Create saves a new lottery round and assigns its sequential id
func (r *LotteryRepository) Create(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		INSERT INTO lotteries (
			status, start_time, end_time, ticket_price, discount_divisor,
			rewards_breakdown, treasury_fee_bps, first_ticket_id,
			tickets_sold, amount_collected
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		lottery.Status,
		lottery.StartTime,
		lottery.EndTime,
		lottery.TicketPrice,
		lottery.DiscountDivisor,
		lottery.RewardsBreakdown,
		lottery.TreasuryFeeBps,
		lottery.FirstTicketID,
		lottery.TicketsSold,
		lottery.AmountCollected,
	).Scan(&lottery.ID, &lottery.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lottery: %w", err)
	}
	return nil
}

// GetByID retrieves a lottery round by id
func (r *LotteryRepository) GetByID(ctx context.Context, id int64) (*entities.Lottery, error) {
	query := `SELECT` + lotteryColumns + ` FROM lotteries WHERE id = $1`
	return scanLottery(r.q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a lottery round by id with a row lock held
// for the rest of the transaction
func (r *LotteryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Lottery, error) {
	query := `SELECT` + lotteryColumns + ` FROM lotteries WHERE id = $1 FOR UPDATE`
	return scanLottery(r.q.QueryRow(ctx, query, id))
}

// GetLatest retrieves the most recent lottery round
func (r *LotteryRepository) GetLatest(ctx context.Context) (*entities.Lottery, error) {
	query := `SELECT` + lotteryColumns + ` FROM lotteries ORDER BY id DESC LIMIT 1`
	return scanLottery(r.q.QueryRow(ctx, query))
}

// GetLatestForUpdate retrieves the most recent lottery round with a row
// lock, serializing round transitions against each other
func (r *LotteryRepository) GetLatestForUpdate(ctx context.Context) (*entities.Lottery, error) {
	query := `SELECT` + lotteryColumns + ` FROM lotteries ORDER BY id DESC LIMIT 1 FOR UPDATE`
	return scanLottery(r.q.QueryRow(ctx, query))
}

// Update persists lottery round state changes
func (r *LotteryRepository) Update(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		UPDATE lotteries
		SET status = $1,
			first_ticket_id_next = $2,
			tickets_sold = $3,
			amount_collected = $4,
			final_number = $5,
			count_winners_per_bracket = $6,
			reward_per_bracket = $7
		WHERE id = $8
	`

	result, err := r.q.Exec(ctx, query,
		lottery.Status,
		lottery.FirstTicketIDNext,
		lottery.TicketsSold,
		lottery.AmountCollected,
		lottery.FinalNumber,
		lottery.CountWinnersPerBracket,
		lottery.RewardPerBracket,
		lottery.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lottery %d: %w", lottery.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("lottery %d not found", lottery.ID)
	}
	return nil
}

// GetOpenEndedBefore returns open rounds whose sales window elapsed
func (r *LotteryRepository) GetOpenEndedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Lottery, error) {
	query := `SELECT` + lotteryColumns + ` FROM lotteries WHERE status = $1 AND end_time <= $2 ORDER BY id`
	return r.queryLotteries(ctx, query, entities.LotteryStatusOpen, cutoff)
}

// GetClosed returns rounds awaiting a draw
func (r *LotteryRepository) GetClosed(ctx context.Context) ([]*entities.Lottery, error) {
	query := `SELECT` + lotteryColumns + ` FROM lotteries WHERE status = $1 ORDER BY id`
	return r.queryLotteries(ctx, query, entities.LotteryStatusClosed)
}

func (r *LotteryRepository) queryLotteries(ctx context.Context, query string, args ...any) ([]*entities.Lottery, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lotteries: %w", err)
	}
	defer rows.Close()

	var lotteries []*entities.Lottery
	for rows.Next() {
		lottery, err := scanLottery(rows)
		if err != nil {
			return nil, err
		}
		lotteries = append(lotteries, lottery)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lotteries: %w", err)
	}
	return lotteries, nil
}
