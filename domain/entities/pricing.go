package entities

import "fmt"

// MinDiscountDivisor is the lowest divisor a lottery may be configured
// with. Higher divisors mean smaller bulk discounts.
const MinDiscountDivisor int64 = 300

// TotalRewardsBasisPoints is the required sum of a rewards breakdown.
const TotalRewardsBasisPoints int64 = 10_000

// MaxTreasuryFeeBasisPoints caps the share of collected funds diverted
// to the treasury at draw time (30%).
const MaxTreasuryFeeBasisPoints int64 = 3_000

// TotalPriceForBulkTickets computes the discounted cost of buying count
// tickets at once. The discount grows linearly with the count; a single
// ticket always costs exactly the ticket price. Integer division
// truncates, so the result never exceeds price*count.
func TotalPriceForBulkTickets(price, discountDivisor int64, count int) (int64, error) {
	if discountDivisor < MinDiscountDivisor {
		return 0, fmt.Errorf("%w: %d", ErrDiscountDivisorTooLow, discountDivisor)
	}
	if count < 1 {
		return 0, ErrNoTicketsSpecified
	}
	n := int64(count)
	return price * n * (discountDivisor + 1 - n) / discountDivisor, nil
}
