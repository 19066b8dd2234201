package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketNumber(t *testing.T) {
	tests := []struct {
		name    string
		raw     uint32
		wantErr bool
	}{
		{name: "lower bound", raw: 1_000_000},
		{name: "upper bound", raw: 1_999_999},
		{name: "middle", raw: 1_234_561},
		{name: "below band", raw: 999_999, wantErr: true},
		{name: "above band", raw: 2_000_000, wantErr: true},
		{name: "zero", raw: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewTicketNumber(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNumberOutsideRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, uint32(n))
		})
	}
}

func TestTicketNumber_BracketSuffix(t *testing.T) {
	n, err := NewTicketNumber(1_234_561)
	require.NoError(t, err)

	assert.Equal(t, uint32(234_561), n.Digits())
	assert.Equal(t, uint32(1), n.BracketSuffix(0))
	assert.Equal(t, uint32(61), n.BracketSuffix(1))
	assert.Equal(t, uint32(561), n.BracketSuffix(2))
	assert.Equal(t, uint32(4_561), n.BracketSuffix(3))
	assert.Equal(t, uint32(34_561), n.BracketSuffix(4))
	assert.Equal(t, uint32(234_561), n.BracketSuffix(5))
}

func TestTicketNumber_MatchesAt_Nesting(t *testing.T) {
	final, err := NewTicketNumber(1_327_419)
	require.NoError(t, err)

	tests := []struct {
		name         string
		ticket       uint32
		highestMatch int // -1 when even the last digit differs
	}{
		{name: "exact match", ticket: 1_327_419, highestMatch: 5},
		{name: "five trailing digits", ticket: 1_927_419, highestMatch: 4},
		{name: "two trailing digits", ticket: 1_000_019, highestMatch: 1},
		{name: "last digit only", ticket: 1_555_559, highestMatch: 0},
		{name: "no match", ticket: 1_327_410, highestMatch: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewTicketNumber(tt.ticket)
			require.NoError(t, err)

			// A match at level L implies a match at every level below L.
			for level := 0; level < NumBrackets; level++ {
				assert.Equal(t, level <= tt.highestMatch, n.MatchesAt(level, final),
					"level %d", level)
			}
		})
	}
}

func TestFinalNumberFromSeed(t *testing.T) {
	tests := []struct {
		name string
		seed uint64
		want uint32
	}{
		{name: "zero seed", seed: 0, want: 1_000_000},
		{name: "band size wraps to floor", seed: 1_000_000, want: 1_000_000},
		{name: "max in band", seed: 999_999, want: 1_999_999},
		{name: "large seed", seed: 18_446_744_073_709_551_615, want: 1_000_000 + uint32(18_446_744_073_709_551_615%1_000_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FinalNumberFromSeed(tt.seed)
			assert.Equal(t, tt.want, uint32(got))
			assert.GreaterOrEqual(t, uint32(got), MinTicketNumber)
			assert.LessOrEqual(t, uint32(got), MaxTicketNumber)
		})
	}
}
