package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"lotto/database"
	"lotto/domain/entities"
)

// TicketRepository implements the TicketRepository interface
type TicketRepository struct {
	q queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a new ticket repository with a transaction
func newTicketRepositoryWithTx(tx queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var ticket entities.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.LotteryID,
		&ticket.Number,
		&ticket.Owner,
		&ticket.Claimed,
		&ticket.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}
	return &ticket, nil
}

// CreateBatch inserts a batch of tickets with pre-assigned global ids
func (r *TicketRepository) CreateBatch(ctx context.Context, tickets []*entities.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	valueClauses := make([]string, len(tickets))
	args := make([]any, 0, len(tickets)*4)
	for i, ticket := range tickets {
		base := i * 4
		valueClauses[i] = fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
		args = append(args, ticket.ID, ticket.LotteryID, int64(ticket.Number), ticket.Owner)
	}

	query := fmt.Sprintf(`
		INSERT INTO tickets (id, lottery_id, number, owner_address)
		VALUES %s
		RETURNING created_at
	`, strings.Join(valueClauses, ", "))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create tickets: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if err := rows.Scan(&tickets[i].CreatedAt); err != nil {
			return fmt.Errorf("failed to scan ticket timestamp: %w", err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to insert tickets: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket by its global id
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := `
		SELECT id, lottery_id, number, owner_address, claimed, created_at
		FROM tickets
		WHERE id = $1
	`
	return scanTicket(r.q.QueryRow(ctx, query, id))
}

// GetByIDs retrieves tickets by id, keyed by id. Missing ids are absent
// from the result.
func (r *TicketRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*entities.Ticket, error) {
	query := `
		SELECT id, lottery_id, number, owner_address, claimed, created_at
		FROM tickets
		WHERE id = ANY($1)
	`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	defer rows.Close()

	tickets := make(map[int64]*entities.Ticket, len(ids))
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets[ticket.ID] = ticket
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}
	return tickets, nil
}

// GetByOwnerForLottery returns a buyer's tickets in a round, ordered by id
func (r *TicketRepository) GetByOwnerForLottery(ctx context.Context, lotteryID int64, owner string) ([]*entities.Ticket, error) {
	query := `
		SELECT id, lottery_id, number, owner_address, claimed, created_at
		FROM tickets
		WHERE lottery_id = $1 AND owner_address = $2
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, lotteryID, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for owner %s: %w", owner, err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}
	return tickets, nil
}

// MarkClaimed flags the given tickets as claimed
func (r *TicketRepository) MarkClaimed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE tickets
		SET claimed = TRUE
		WHERE id = ANY($1) AND claimed = FALSE
	`

	result, err := r.q.Exec(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to mark tickets claimed: %w", err)
	}
	if result.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("%w: expected to claim %d tickets, claimed %d",
			entities.ErrTicketAlreadyClaimed, len(ids), result.RowsAffected())
	}
	return nil
}
