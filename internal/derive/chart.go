package derive

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/model"
)

var (
	defaultMin  = decimal.Zero
	defaultMax  = decimal.NewFromInt(100)
	flatFloor   = decimal.NewFromInt(50)
	flatPadding = decimal.RequireFromString("0.2")
	spanPadding = decimal.RequireFromString("0.15")
)

// Series is the running balance in chronological order.
type Series struct {
	Points []model.Point
}

// Empty reports whether there is nothing to plot.
func (s Series) Empty() bool { return len(s.Points) == 0 }

// Labels returns the date label of every point.
func (s Series) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label()
	}
	return out
}

// Values returns the balance of every point.
func (s Series) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Balance
	}
	return out
}

// RunningBalance accumulates signed amounts in date order. Each point is
// rounded to two decimals; the running sum itself is exact.
func RunningBalance(txns []model.Transaction) Series {
	sorted := slices.Clone(txns)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	points := make([]model.Point, 0, len(sorted))
	running := decimal.Zero
	for _, t := range sorted {
		running = running.Add(t.Signed())
		points = append(points, model.Point{Date: t.Date, Balance: running.Round(2)})
	}
	return Series{Points: points}
}

// ChartBounds is the suggested value axis of the balance chart.
type ChartBounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Bounds pads values so the line never touches the chart edges. Zero is
// always inside the range. A flat series is padded by 20% of its magnitude
// (at least 50), anything else by 15% of its span. No values gives 0..100.
func Bounds(values []decimal.Decimal) ChartBounds {
	if len(values) == 0 {
		return ChartBounds{Min: defaultMin, Max: defaultMax}
	}

	lo := decimal.Min(decimal.Zero, values...)
	hi := decimal.Max(decimal.Zero, values...)
	span := hi.Sub(lo)

	var pad decimal.Decimal
	if span.IsZero() {
		pad = decimal.Max(hi.Abs(), flatFloor).Mul(flatPadding)
	} else {
		pad = span.Mul(spanPadding)
	}
	return ChartBounds{Min: lo.Sub(pad), Max: hi.Add(pad)}
}

// Chart is what a renderer needs to draw the balance trend.
type Chart struct {
	Range  Range
	Cutoff time.Time // zero for RangeAll
	Series Series
	Bounds ChartBounds
}

// Empty reports whether the chart has no data and should show a
// "no data" notice instead.
func (c Chart) Empty() bool { return c.Series.Empty() }

// BalanceChart filters txns to r and computes the series and its bounds.
func BalanceChart(txns []model.Transaction, r Range, today time.Time) Chart {
	series := RunningBalance(Filter(txns, r, today))
	c := Chart{
		Range:  r,
		Series: series,
		Bounds: Bounds(series.Values()),
	}
	if r != RangeAll {
		c.Cutoff = Cutoff(r, today)
	}
	return c
}
