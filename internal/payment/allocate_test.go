package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestSortFIFO(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	targets := []Target{
		{OrderID: 4, Date: day("2024-03-02"), CreatedAt: base},
		{OrderID: 3, Date: day("2024-03-01"), CreatedAt: base.Add(time.Hour)},
		{OrderID: 2, Date: day("2024-03-01"), CreatedAt: base},
		{OrderID: 1, Date: day("2024-03-01"), CreatedAt: base},
	}
	SortFIFO(targets)

	ids := []uint{}
	for _, t := range targets {
		ids = append(ids, t.OrderID)
	}
	assert.Equal(t, []uint{1, 2, 3, 4}, ids)
}

func TestAllocate(t *testing.T) {
	targets := []Target{
		{OrderID: 1, Date: day("2024-03-01"), Balance: d("30")},
		{OrderID: 2, Date: day("2024-03-05"), Balance: d("50")},
	}

	tests := []struct {
		name      string
		amount    string
		wantAlloc []string
		wantLeft  []string
		leftover  string
	}{
		{"cubre el más viejo y abona al siguiente", "40", []string{"30", "10"}, []string{"0", "40"}, "0"},
		{"no alcanza el primero", "12.5", []string{"12.5"}, []string{"17.5"}, "0"},
		{"exacto", "80", []string{"30", "50"}, []string{"0", "0"}, "0"},
		{"sobra", "100", []string{"30", "50"}, []string{"0", "0"}, "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocs, leftover := Allocate(d(tt.amount), targets)
			require.Len(t, allocs, len(tt.wantAlloc))
			for i, a := range allocs {
				assert.True(t, a.Amount.Equal(d(tt.wantAlloc[i])), "alloc %d = %s", i, a.Amount)
				assert.True(t, a.RemainingBalance.Equal(d(tt.wantLeft[i])), "remaining %d = %s", i, a.RemainingBalance)
			}
			assert.True(t, leftover.Equal(d(tt.leftover)), leftover.String())
		})
	}
}

func TestAllocate_SkipsSettled(t *testing.T) {
	allocs, leftover := Allocate(d("10"), []Target{
		{OrderID: 1, Balance: decimal.Zero},
		{OrderID: 2, Balance: d("5")},
	})
	require.Len(t, allocs, 1)
	assert.Equal(t, uint(2), allocs[0].OrderID)
	assert.True(t, leftover.Equal(d("5")))
}
