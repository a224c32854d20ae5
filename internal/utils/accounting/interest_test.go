package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccruedInterest(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		days   int
		want   string
	}{
		{name: "ten day deposit", amount: "100", rate: "5", days: 10, want: "0.1369863013698630"},
		{name: "full year", amount: "1000", rate: "12", days: 365, want: "120"},
		{name: "zero rate", amount: "500", rate: "0", days: 30, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccruedInterest(decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.rate), tt.days)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestMaturityTime(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	got := MaturityTime(created, 10, DefaultMinutesPerGameDay*time.Minute)

	assert.Equal(t, created.Add(170*time.Minute), got)
}

func TestElapsedRatio(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := created.Add(100 * time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{name: "before creation", now: created.Add(-time.Minute), want: "0"},
		{name: "at creation", now: created, want: "0"},
		{name: "halfway", now: created.Add(50 * time.Minute), want: "0.5"},
		{name: "at end", now: end, want: "1"},
		{name: "after end", now: end.Add(time.Hour), want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ElapsedRatio(created, end, tt.now)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestElapsedRatio_ZeroLengthTerm(t *testing.T) {
	at := time.Now()
	assert.True(t, ElapsedRatio(at, at, at).Equal(decimal.NewFromInt(1)))
}

func TestProratedInterest(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := created.Add(10 * time.Hour)

	got := ProratedInterest(decimal.NewFromInt(8), created, end, created.Add(5*time.Hour))

	assert.True(t, decimal.NewFromInt(4).Equal(got), "got %s", got)
}
