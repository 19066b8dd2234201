package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStartParams() StartParams {
	return StartParams{
		EndTime:          time.Now().Add(4 * time.Hour),
		TicketPrice:      5000,
		DiscountDivisor:  2000,
		RewardsBreakdown: []int64{200, 300, 500, 1500, 2500, 5000},
		TreasuryFeeBps:   2000,
	}
}

func TestStartParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StartParams)
		wantErr error
	}{
		{name: "valid", mutate: func(p *StartParams) {}},
		{name: "divisor too low", mutate: func(p *StartParams) { p.DiscountDivisor = 299 }, wantErr: ErrDiscountDivisorTooLow},
		{name: "divisor at minimum", mutate: func(p *StartParams) { p.DiscountDivisor = 300 }},
		{name: "treasury fee too high", mutate: func(p *StartParams) { p.TreasuryFeeBps = 3001 }, wantErr: ErrTreasuryFeeTooHigh},
		{name: "treasury fee at cap", mutate: func(p *StartParams) { p.TreasuryFeeBps = 3000 }},
		{name: "negative treasury fee", mutate: func(p *StartParams) { p.TreasuryFeeBps = -1 }, wantErr: ErrTreasuryFeeTooHigh},
		{name: "breakdown sum too low", mutate: func(p *StartParams) {
			p.RewardsBreakdown = []int64{200, 300, 500, 1500, 2500, 4999}
		}, wantErr: ErrRewardsBreakdownSum},
		{name: "breakdown sum too high", mutate: func(p *StartParams) {
			p.RewardsBreakdown = []int64{200, 300, 500, 1500, 2500, 5001}
		}, wantErr: ErrRewardsBreakdownSum},
		{name: "wrong bracket count", mutate: func(p *StartParams) {
			p.RewardsBreakdown = []int64{5000, 5000}
		}, wantErr: ErrRewardsBreakdownSum},
		{name: "negative share", mutate: func(p *StartParams) {
			p.RewardsBreakdown = []int64{-100, 300, 500, 1500, 2800, 5000}
		}, wantErr: ErrRewardsBreakdownSum},
		{name: "zero shares allowed", mutate: func(p *StartParams) {
			p.RewardsBreakdown = []int64{0, 0, 0, 0, 0, 10000}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validStartParams()
			tt.mutate(&params)
			err := params.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLottery_Lifecycle(t *testing.T) {
	now := time.Now()
	lottery := &Lottery{
		ID:            1,
		Status:        LotteryStatusOpen,
		StartTime:     now,
		EndTime:       now.Add(4 * time.Hour),
		FirstTicketID: 0,
		TicketsSold:   111,
	}

	assert.True(t, lottery.IsOpen())
	assert.True(t, lottery.CanSellTickets(now.Add(time.Hour)))
	assert.False(t, lottery.CanSellTickets(now.Add(5*time.Hour)))
	assert.False(t, lottery.IsOver(now.Add(time.Hour)))
	assert.True(t, lottery.IsOver(now.Add(4*time.Hour)), "end time itself counts as over")
	assert.Equal(t, int64(111), lottery.NextTicketID())

	lottery.Close()
	assert.Equal(t, LotteryStatusClosed, lottery.Status)
	assert.Equal(t, int64(111), lottery.FirstTicketIDNext)
	assert.False(t, lottery.CanSellTickets(now))

	assert.True(t, lottery.ContainsTicketID(0))
	assert.True(t, lottery.ContainsTicketID(110))
	assert.False(t, lottery.ContainsTicketID(111))
	assert.False(t, lottery.ContainsTicketID(-1))

	final, err := NewTicketNumber(1_999_999)
	require.NoError(t, err)
	counts := []int64{12, 3, 1, 0, 0, 1}
	rewards := []int64{100, 200, 500, 0, 0, 40000}
	lottery.MakeClaimable(final, counts, rewards)

	assert.True(t, lottery.IsClaimable())
	require.NotNil(t, lottery.FinalNumber)
	assert.Equal(t, int64(1_999_999), *lottery.FinalNumber)
	assert.Equal(t, counts, lottery.CountWinnersPerBracket)
	assert.Equal(t, rewards, lottery.RewardPerBracket)
}

func TestTicket_PrizeAt(t *testing.T) {
	final, err := NewTicketNumber(1_327_419)
	require.NoError(t, err)
	rewards := []int64{100, 0, 500, 1500, 2500, 40000}

	ticket := &Ticket{ID: 7, Number: 1_927_419, Owner: "alice"}

	tests := []struct {
		name    string
		level   int
		want    int64
		wantErr error
	}{
		{name: "matching bracket pays", level: 4, want: 2500},
		{name: "lower bracket pays its own reward", level: 0, want: 100},
		{name: "matching bracket with zero reward", level: 1, wantErr: ErrNoPrizeForBracket},
		{name: "non-matching bracket", level: 5, wantErr: ErrNoPrizeForBracket},
		{name: "bracket above range", level: 6, wantErr: ErrBracketOutOfRange},
		{name: "negative bracket", level: -1, wantErr: ErrBracketOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ticket.PrizeAt(tt.level, final, rewards)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
