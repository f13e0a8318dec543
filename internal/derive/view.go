package derive

import (
	"time"

	"github.com/cleared-dev/pocket/internal/model"
)

// View bundles everything a renderer draws for one snapshot.
type View struct {
	Summary  model.Summary
	Rows     []model.Transaction // most recent first
	Chart    Chart
	CanClear bool // bulk clear is offered only for a non-empty ledger
}

// Build derives the full View of a snapshot.
func Build(txns []model.Transaction, r Range, today time.Time) View {
	return View{
		Summary:  Totals(txns),
		Rows:     DisplayOrder(txns),
		Chart:    BalanceChart(txns, r, today),
		CanClear: len(txns) > 0,
	}
}
