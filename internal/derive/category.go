package derive

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/model"
)

// CategoryTotal sums the transactions of one type and category.
type CategoryTotal struct {
	Type     model.TransactionType
	Category string
	Total    decimal.Decimal
	Count    int
}

// ByCategory groups txns by type and exact category name. Income comes
// first; within a type larger totals come first, ties by name.
func ByCategory(txns []model.Transaction) []CategoryTotal {
	type key struct {
		typ      model.TransactionType
		category string
	}
	index := make(map[key]int)
	var out []CategoryTotal
	for _, t := range txns {
		k := key{t.Type, t.Category}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, CategoryTotal{Type: t.Type, Category: t.Category})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
		out[i].Count++
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Type != b.Type {
			return a.Type == model.TypeIncome
		}
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	return out
}
