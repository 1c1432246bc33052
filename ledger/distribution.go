package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mutuoclub/mutuo/types"
)

// Split maps reserve buckets to the deltas a distributed amount produces.
// Splits are lossless: the deltas always sum exactly to the input amount.
type Split map[types.ReserveBucket]decimal.Decimal

func (s Split) Total() decimal.Decimal {
	total := decimal.Zero

	for _, delta := range s {
		total = total.Add(delta)
	}

	return total
}

func (s Split) Merge(other Split) Split {
	merged := Split{}

	for bucket, delta := range s {
		merged[bucket] = delta
	}
	for bucket, delta := range other {
		merged[bucket] = merged[bucket].Add(delta)
	}

	return merged
}

var systemShareRatio = decimal.NewFromFloat(0.20)

// systemShareBuckets lists the five system-share buckets; the corporate
// bucket comes last and absorbs the rounding residual.
var systemShareBuckets = []types.ReserveBucket{
	types.BucketTaxReserve,
	types.BucketOperationalRes,
	types.BucketOwnerReserve,
	types.BucketInvestmentReserve,
	types.BucketCorporateReserve,
}

var (
	interestProfitRatio = decimal.NewFromFloat(0.80)
	penaltyProfitRatio  = decimal.NewFromFloat(0.20)
)

// SplitSystemShare distributes a fee amount evenly across the five system
// buckets. Each share is truncated to cents; the residual lands on the
// corporate bucket so the split stays exact.
func SplitSystemShare(amount decimal.Decimal) Split {
	split := Split{}
	allocated := decimal.Zero

	for _, bucket := range systemShareBuckets[:len(systemShareBuckets)-1] {
		share := amount.Mul(systemShareRatio).RoundDown(2)
		split[bucket] = share
		allocated = allocated.Add(share)
	}

	last := systemShareBuckets[len(systemShareBuckets)-1]
	split[last] = amount.Sub(allocated)

	return split
}

// SplitLoanInterest reserves 80% of collected interest for the member
// profit pool and routes the remaining system share through
// SplitSystemShare.
func SplitLoanInterest(amount decimal.Decimal) Split {
	profit := amount.Mul(interestProfitRatio).RoundDown(2)

	return Split{types.BucketProfitPool: profit}.
		Merge(SplitSystemShare(amount.Sub(profit)))
}

// SplitPenalty routes 20% of an early-exit penalty to the member profit
// pool and the remaining 80% through the system share split.
func SplitPenalty(amount decimal.Decimal) Split {
	profit := amount.Mul(penaltyProfitRatio).RoundDown(2)

	return Split{types.BucketProfitPool: profit}.
		Merge(SplitSystemShare(amount.Sub(profit)))
}
