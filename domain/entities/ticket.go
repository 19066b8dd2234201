package entities

import "time"

// Ticket is a single sold ticket. IDs are global and strictly
// sequential across rounds, assigned at purchase time.
type Ticket struct {
	ID        int64        `db:"id"`
	LotteryID int64        `db:"lottery_id"`
	Number    TicketNumber `db:"number"`
	Owner     string       `db:"owner_address"`
	Claimed   bool         `db:"claimed"`
	CreatedAt time.Time    `db:"created_at"`
}

// PrizeAt returns the prize this ticket collects at the given bracket
// level, or ErrNoPrizeForBracket when the suffix does not match or the
// bracket paid out nothing.
func (t *Ticket) PrizeAt(level int, final TicketNumber, rewardPerBracket []int64) (int64, error) {
	if level < 0 || level >= NumBrackets {
		return 0, ErrBracketOutOfRange
	}
	reward := rewardPerBracket[level]
	if reward == 0 || !t.Number.MatchesAt(level, final) {
		return 0, ErrNoPrizeForBracket
	}
	return reward, nil
}
