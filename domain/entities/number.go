package entities

import "fmt"

// Ticket numbers occupy a fixed one-million-value band so that every
// number has exactly six significant digits. The leading 1 is a guard
// digit, not part of the drawable combination.
const (
	MinTicketNumber uint32 = 1_000_000
	MaxTicketNumber uint32 = 1_999_999
)

// NumBrackets is the number of matching precision levels. Bracket 0
// compares the last digit, bracket 5 all six digits.
const NumBrackets = 6

var pow10 = [NumBrackets]uint32{10, 100, 1_000, 10_000, 100_000, 1_000_000}

// TicketNumber is a validated number within the ticket band.
type TicketNumber uint32

// NewTicketNumber validates a raw number against the ticket band.
func NewTicketNumber(raw uint32) (TicketNumber, error) {
	if raw < MinTicketNumber || raw > MaxTicketNumber {
		return 0, fmt.Errorf("%w: %d", ErrNumberOutsideRange, raw)
	}
	return TicketNumber(raw), nil
}

// FinalNumberFromSeed maps an arbitrary random seed into the ticket band.
func FinalNumberFromSeed(seed uint64) TicketNumber {
	return TicketNumber(MinTicketNumber + uint32(seed%1_000_000))
}

// Digits returns the six-digit combination without the guard digit.
func (n TicketNumber) Digits() uint32 {
	return uint32(n) - MinTicketNumber
}

// BracketSuffix returns the trailing digits compared at the given
// bracket level: level 0 is the last digit, level 5 all six digits.
func (n TicketNumber) BracketSuffix(level int) uint32 {
	return n.Digits() % pow10[level]
}

// MatchesAt reports whether the ticket wins at the given bracket level
// against the final number.
func (n TicketNumber) MatchesAt(level int, final TicketNumber) bool {
	return n.BracketSuffix(level) == final.BracketSuffix(level)
}
