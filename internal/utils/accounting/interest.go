// Package accounting holds the pure decimal math shared by instrument services and repositories.
package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	daysPerYearPct = decimal.NewFromInt(36500) // 365 days * 100 percent
	one            = decimal.NewFromInt(1)
)

// DefaultMinutesPerGameDay is how long one in-game day lasts on the wall clock.
const DefaultMinutesPerGameDay = 17

// MaxTermDays is the longest instrument term, in game days.
const MaxTermDays = 36500

// AccruedInterest is simple interest for the full term: amount * rate% * days / 365.
func AccruedInterest(amount, annualRatePct decimal.Decimal, days int) decimal.Decimal {
	return amount.Mul(annualRatePct).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYearPct)
}

// MaturityTime returns when an instrument created at createdAt with a term of days ends.
// gameDay is the wall-clock length of one in-game day.
func MaturityTime(createdAt time.Time, days int, gameDay time.Duration) time.Time {
	return createdAt.Add(time.Duration(days) * gameDay)
}

// ElapsedRatio is the share of [createdAt, endAt] that has passed at now, clamped to [0, 1].
// A zero-length term counts as fully elapsed.
func ElapsedRatio(createdAt, endAt, now time.Time) decimal.Decimal {
	total := endAt.Sub(createdAt)
	if total <= 0 {
		return one
	}
	elapsed := now.Sub(createdAt)
	if elapsed <= 0 {
		return decimal.Zero
	}
	if elapsed >= total {
		return one
	}
	return decimal.NewFromInt(int64(elapsed)).Div(decimal.NewFromInt(int64(total)))
}

// ProratedInterest scales the full-term interest by the elapsed share of the term.
func ProratedInterest(fullInterest decimal.Decimal, createdAt, endAt, now time.Time) decimal.Decimal {
	return fullInterest.Mul(ElapsedRatio(createdAt, endAt, now))
}
