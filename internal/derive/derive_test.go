package derive

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/pocket/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func txn(id string, typ model.TransactionType, category, amount string, d time.Time) model.Transaction {
	return model.Transaction{ID: id, Type: typ, Category: category, Amount: dec(amount), Date: d}
}

func ids(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func TestParseRange(t *testing.T) {
	for _, s := range []string{"3m", "6m", "12m", "all"} {
		r, err := ParseRange(s)
		require.NoError(t, err)
		assert.Equal(t, Range(s), r)
	}

	_, err := ParseRange("1y")
	assert.ErrorIs(t, err, ErrUnknownRange)
}

func TestTotals(t *testing.T) {
	got := Totals([]model.Transaction{
		txn("a", model.TypeIncome, "Salary", "50000", date(2024, 1, 5)),
		txn("b", model.TypeExpense, "Rent", "15000", date(2024, 1, 10)),
		txn("c", model.TypeExpense, "Coffee", "0.1", date(2024, 1, 11)),
		txn("d", model.TypeExpense, "Coffee", "0.2", date(2024, 1, 12)),
	})
	assert.True(t, got.Income.Equal(dec("50000")))
	assert.True(t, got.Expense.Equal(dec("15000.3")), "no float drift: %s", got.Expense)
	assert.True(t, got.Balance.Equal(dec("34999.7")))
}

func TestTotals_Empty(t *testing.T) {
	got := Totals(nil)
	assert.True(t, got.Income.IsZero())
	assert.True(t, got.Expense.IsZero())
	assert.True(t, got.Balance.IsZero())
}

func TestDisplayOrder(t *testing.T) {
	in := []model.Transaction{
		txn("old", model.TypeIncome, "a", "1", date(2024, 1, 1)),
		txn("new", model.TypeIncome, "a", "1", date(2024, 3, 1)),
		txn("tie1", model.TypeIncome, "a", "1", date(2024, 2, 1)),
		txn("tie2", model.TypeIncome, "a", "1", date(2024, 2, 1)),
	}
	got := DisplayOrder(in)
	assert.Equal(t, []string{"new", "tie1", "tie2", "old"}, ids(got))

	// The input is untouched.
	assert.Equal(t, []string{"old", "new", "tie1", "tie2"}, ids(in))
}

func TestCutoff(t *testing.T) {
	tests := []struct {
		r     Range
		today time.Time
		want  time.Time
	}{
		{Range3M, date(2024, 6, 15), date(2024, 3, 15)},
		{Range6M, date(2024, 6, 15), date(2023, 12, 15)},
		{Range12M, date(2024, 2, 29), date(2023, 3, 1)},
		{Range3M, date(2024, 5, 31), date(2024, 3, 2)},
		{Range3M, time.Date(2024, 6, 15, 18, 45, 0, 0, time.UTC), date(2024, 3, 15)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Cutoff(tt.r, tt.today), "%s from %s", tt.r, tt.today)
	}
}

func TestFilter_InclusiveCutoff(t *testing.T) {
	today := date(2024, 6, 15)
	in := []model.Transaction{
		txn("before", model.TypeIncome, "a", "1", date(2024, 3, 14)),
		txn("at", model.TypeIncome, "a", "1", date(2024, 3, 15)),
		txn("today", model.TypeIncome, "a", "1", date(2024, 6, 15)),
	}

	assert.Equal(t, []string{"at", "today"}, ids(Filter(in, Range3M, today)))
	assert.Equal(t, []string{"before", "at", "today"}, ids(Filter(in, RangeAll, today)))
}

func TestFilter_TimeDependent(t *testing.T) {
	in := []model.Transaction{txn("a", model.TypeIncome, "a", "1", date(2024, 3, 15))}

	assert.Len(t, Filter(in, Range3M, date(2024, 6, 15)), 1)
	assert.Empty(t, Filter(in, Range3M, date(2024, 6, 16)))
}

func TestRunningBalance(t *testing.T) {
	in := []model.Transaction{
		txn("b", model.TypeExpense, "Rent", "15000", date(2024, 1, 10)),
		txn("a", model.TypeIncome, "Salary", "50000", date(2024, 1, 5)),
		txn("c", model.TypeExpense, "Snack", "0.333", date(2024, 1, 11)),
		txn("d", model.TypeExpense, "Snack", "0.333", date(2024, 1, 12)),
	}
	s := RunningBalance(in)

	assert.False(t, s.Empty())
	assert.Equal(t, []string{"2024-01-05", "2024-01-10", "2024-01-11", "2024-01-12"}, s.Labels())
	want := []string{"50000", "35000", "34999.67", "34999.33"}
	values := s.Values()
	require.Len(t, values, len(want))
	for i, w := range want {
		assert.True(t, values[i].Equal(dec(w)), "point %d: %s != %s", i, values[i], w)
	}
}

func TestRunningBalance_Empty(t *testing.T) {
	s := RunningBalance(nil)
	assert.True(t, s.Empty())
	assert.Empty(t, s.Labels())
	assert.Empty(t, s.Values())
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		min, max string
	}{
		{"empty", nil, "0", "100"},
		{"single zero", []string{"0"}, "-10", "10"},
		{"all zero", []string{"0", "0", "0"}, "-10", "10"},
		{"single positive", []string{"1000"}, "-150", "1150"},
		{"positive", []string{"50000", "35000"}, "-7500", "57500"},
		{"crosses zero", []string{"100", "-100"}, "-130", "130"},
		{"negative", []string{"-40"}, "-46", "6"},
	}
	for _, tt := range tests {
		values := make([]decimal.Decimal, len(tt.values))
		for i, v := range tt.values {
			values[i] = dec(v)
		}
		got := Bounds(values)
		assert.True(t, got.Min.Equal(dec(tt.min)), "%s: min %s != %s", tt.name, got.Min, tt.min)
		assert.True(t, got.Max.Equal(dec(tt.max)), "%s: max %s != %s", tt.name, got.Max, tt.max)
	}
}

func TestBalanceChart(t *testing.T) {
	in := []model.Transaction{
		txn("old", model.TypeIncome, "a", "10", date(2023, 1, 1)),
		txn("new", model.TypeIncome, "a", "20", date(2024, 6, 1)),
	}
	today := date(2024, 6, 15)

	c := BalanceChart(in, Range3M, today)
	assert.False(t, c.Empty())
	assert.Equal(t, date(2024, 3, 15), c.Cutoff)
	assert.Equal(t, []string{"2024-06-01"}, c.Series.Labels())
	assert.True(t, c.Series.Values()[0].Equal(dec("20")), "running sum starts inside the window")

	c = BalanceChart(in, RangeAll, today)
	assert.True(t, c.Cutoff.IsZero())
	assert.Len(t, c.Series.Points, 2)

	c = BalanceChart(in, Range3M, date(2025, 1, 1))
	assert.True(t, c.Empty())
	assert.True(t, c.Bounds.Max.Equal(dec("100")))
}
