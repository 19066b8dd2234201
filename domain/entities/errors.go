package entities

import "errors"

// Sentinel errors surfaced by the settlement engine. Callers classify
// failures with errors.Is rather than matching message text.
var (
	// Lifecycle guards
	ErrLotteryNotFound      = errors.New("lottery not found")
	ErrLotteryNotOpen       = errors.New("lottery is not open")
	ErrLotteryNotOver       = errors.New("lottery has not ended yet")
	ErrLotteryNotClose      = errors.New("lottery is not closed")
	ErrLotteryNotClaimable  = errors.New("lottery is not claimable")
	ErrLotteryOver          = errors.New("lottery is over")
	ErrNotTimeToStart       = errors.New("not time to start lottery")
	ErrFinalNumberNotDrawn  = errors.New("final number has not been drawn")

	// Start parameter validation
	ErrLotteryLengthOutsideRange = errors.New("lottery length outside allowed range")
	ErrTicketPriceOutsideLimits  = errors.New("ticket price outside limits")
	ErrDiscountDivisorTooLow     = errors.New("discount divisor too low")
	ErrRewardsBreakdownSum       = errors.New("rewards breakdown must total 10000")
	ErrTreasuryFeeTooHigh        = errors.New("treasury fee too high")

	// Purchase and claim input validation
	ErrNumberOutsideRange    = errors.New("ticket number outside range")
	ErrNoTicketsSpecified    = errors.New("no tickets specified")
	ErrTooManyTickets        = errors.New("too many tickets")
	ErrArrayLengthMismatch   = errors.New("ticket ids and brackets differ in length")
	ErrTicketIDTooLow        = errors.New("ticket id too low")
	ErrTicketIDTooHigh       = errors.New("ticket id too high")
	ErrBracketOutOfRange     = errors.New("bracket out of range")
	ErrNotTicketOwner        = errors.New("not the ticket owner")
	ErrTicketAlreadyClaimed  = errors.New("ticket already claimed")
	ErrNoPrizeForBracket     = errors.New("no prize for this bracket")

	// Authorization
	ErrNotOperator           = errors.New("caller is not the operator")
	ErrNotOperatorOrInjector = errors.New("caller is not the operator or injector")

	// Token ledger
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInsufficientBalance   = errors.New("insufficient balance")
)
