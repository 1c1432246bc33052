package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mutuoclub/mutuo/config"
)

func TestRedemptionPenaltyBeforeCutoff(t *testing.T) {
	quota := &Quota{CurrentValue: decimal.NewFromFloat(50.00)}

	at := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	cutoff := config.ReleaseCutoff(at)

	penalty := quota.RedemptionPenalty(config.EarlyExitPenaltyRate, cutoff, at)

	assert.True(t, penalty.Equal(decimal.NewFromFloat(10.00)))
}

func TestRedemptionPenaltyWaivedFromCutoff(t *testing.T) {
	quota := &Quota{CurrentValue: decimal.NewFromFloat(50.00)}

	cutoff := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)

	on_cutoff := quota.RedemptionPenalty(config.EarlyExitPenaltyRate, cutoff, cutoff)
	after := quota.RedemptionPenalty(config.EarlyExitPenaltyRate, cutoff, cutoff.AddDate(0, 0, 10))

	assert.True(t, on_cutoff.IsZero())
	assert.True(t, after.IsZero())
}

func TestRedemptionPenaltyTruncatesToCents(t *testing.T) {
	quota := &Quota{CurrentValue: decimal.NewFromFloat(50.33)}

	at := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// 50.33 * 0.20 = 10.066
	penalty := quota.RedemptionPenalty(config.EarlyExitPenaltyRate, config.ReleaseCutoff(at), at)

	assert.True(t, penalty.Equal(decimal.NewFromFloat(10.06)))
}

func TestReleaseCutoffFallsInSameYear(t *testing.T) {
	at := time.Date(2026, time.February, 3, 9, 30, 0, 0, time.UTC)

	cutoff := config.ReleaseCutoff(at)

	assert.Equal(t, 2026, cutoff.Year())
	assert.Equal(t, time.December, cutoff.Month())
	assert.Equal(t, 1, cutoff.Day())
}
