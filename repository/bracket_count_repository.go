package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"lotto/database"
	"lotto/domain/entities"
)

// BracketCountRepository implements the BracketCountRepository interface.
// Every sold number bumps one tally per bracket level, so settling a
// draw reads six rows regardless of how many tickets were sold.
type BracketCountRepository struct {
	q queryable
}

// NewBracketCountRepository creates a new bracket count repository
func NewBracketCountRepository(db *database.DB) *BracketCountRepository {
	return &BracketCountRepository{q: db.Pool}
}

// newBracketCountRepositoryWithTx creates a new bracket count repository with a transaction
func newBracketCountRepositoryWithTx(tx queryable) *BracketCountRepository {
	return &BracketCountRepository{q: tx}
}

// RecordNumbers bumps the tallies for every bracket suffix of the given
// numbers
func (r *BracketCountRepository) RecordNumbers(ctx context.Context, lotteryID int64, numbers []entities.TicketNumber) error {
	if len(numbers) == 0 {
		return nil
	}

	// Collapse duplicate keys in memory first: ON CONFLICT cannot touch
	// the same row twice within one statement.
	increments := make(map[[2]int64]int64, len(numbers)*entities.NumBrackets)
	for _, n := range numbers {
		for level := 0; level < entities.NumBrackets; level++ {
			key := [2]int64{int64(level), int64(n.BracketSuffix(level))}
			increments[key]++
		}
	}

	valueClauses := make([]string, 0, len(increments))
	args := make([]any, 0, len(increments)*4)
	i := 0
	for key, count := range increments {
		base := i * 4
		valueClauses = append(valueClauses, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, lotteryID, key[0], key[1], count)
		i++
	}

	query := fmt.Sprintf(`
		INSERT INTO bracket_counts (lottery_id, level, suffix, count)
		VALUES %s
		ON CONFLICT (lottery_id, level, suffix)
		DO UPDATE SET count = bracket_counts.count + EXCLUDED.count
	`, strings.Join(valueClauses, ", "))

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record bracket counts for lottery %d: %w", lotteryID, err)
	}
	return nil
}

// CountAt returns how many sold tickets share the suffix at the given
// bracket level
func (r *BracketCountRepository) CountAt(ctx context.Context, lotteryID int64, level int, suffix uint32) (int64, error) {
	query := `
		SELECT count
		FROM bracket_counts
		WHERE lottery_id = $1 AND level = $2 AND suffix = $3
	`

	var count int64
	err := r.q.QueryRow(ctx, query, lotteryID, level, int64(suffix)).Scan(&count)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count bracket %d suffix %d for lottery %d: %w", level, suffix, lotteryID, err)
	}
	return count, nil
}
