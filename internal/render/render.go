// Package render draws derived ledger views as markdown.
package render

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/activity"
	"github.com/cleared-dev/pocket/internal/derive"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
)

const barWidth = 24

// Renderer formats views for one display currency.
type Renderer struct {
	currency *money.Currency
}

// New returns a Renderer for an ISO 4217 currency code.
func New(currency string) (*Renderer, error) {
	c := money.GetCurrency(currency)
	if c == nil {
		return nil, fmt.Errorf("unknown currency %q", currency)
	}
	return &Renderer{currency: c}, nil
}

// Money formats d in the display currency, e.g. "$1,234.50", using the
// currency's grapheme, template and separators. Formatting works on the
// decimal digits, so amounts of any size print exactly.
func (r *Renderer) Money(d decimal.Decimal) string {
	c := r.currency
	d = d.Round(int32(c.Fraction))

	digits := d.Abs().StringFixed(int32(c.Fraction))
	whole, frac, _ := strings.Cut(digits, ".")
	number := groupThousands(whole, c.Thousand)
	if c.Fraction > 0 {
		number += c.Decimal + frac
	}

	out := strings.Replace(c.Template, "1", number, 1)
	out = strings.Replace(out, "$", c.Grapheme, 1)
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

// groupThousands inserts sep between groups of three digits.
func groupThousands(digits, sep string) string {
	if len(digits) <= 3 || sep == "" {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Report renders summary, transaction table and balance chart.
func (r *Renderer) Report(v derive.View) string {
	var b strings.Builder
	b.WriteString(r.Summary(v.Summary))
	b.WriteString("\n")
	b.WriteString(r.Table(v.Rows))
	b.WriteString("\n")
	b.WriteString(r.Chart(v.Chart))
	return b.String()
}

// Summary renders the income, expense and balance figures.
func (r *Renderer) Summary(s model.Summary) string {
	var b strings.Builder
	b.WriteString("## Summary\n\n")
	b.WriteString("| Income | Expense | Balance |\n")
	b.WriteString("|---:|---:|---:|\n")
	balance := r.Money(s.Balance)
	if s.Negative() {
		balance = "**" + balance + "** ⚠"
	}
	fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Money(s.Income), r.Money(s.Expense), balance)
	return b.String()
}

// Table renders rows in the order given.
func (r *Renderer) Table(rows []model.Transaction) string {
	var b strings.Builder
	b.WriteString("## Transactions\n\n")
	if len(rows) == 0 {
		b.WriteString("_No transactions yet. Add your first one!_\n")
		return b.String()
	}
	b.WriteString("| Date | Category | Type | Amount | Note | ID |\n")
	b.WriteString("|---|---|---|---:|---|---|\n")
	for _, t := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` |\n",
			t.DateString(), cell(t.Category), typeLabel(t.Type), r.Money(t.Signed()), cell(t.Note), id.Short(t.ID))
	}
	return b.String()
}

// Chart renders the running balance as a table with proportional bars.
func (r *Renderer) Chart(c derive.Chart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Balance trend (%s)\n\n", rangeLabel(c))
	if c.Empty() {
		b.WriteString("_No data for this range._\n")
		return b.String()
	}
	b.WriteString("| Date | Balance | |\n")
	b.WriteString("|---|---:|---|\n")
	for _, p := range c.Series.Points {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Label(), r.Money(p.Balance), bar(p.Balance, c.Bounds))
	}
	fmt.Fprintf(&b, "\nScale: %s to %s\n", r.Money(c.Bounds.Min), r.Money(c.Bounds.Max))
	return b.String()
}

// Categories renders per-category totals in the order given.
func (r *Renderer) Categories(totals []derive.CategoryTotal) string {
	var b strings.Builder
	b.WriteString("## Categories\n\n")
	if len(totals) == 0 {
		b.WriteString("_No transactions yet. Add your first one!_\n")
		return b.String()
	}
	b.WriteString("| Type | Category | Count | Total |\n")
	b.WriteString("|---|---|---:|---:|\n")
	for _, c := range totals {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", typeLabel(c.Type), cell(c.Category), c.Count, r.Money(c.Total))
	}
	return b.String()
}

// Activity renders activity log entries, newest last.
func Activity(entries []activity.Entry) string {
	var b strings.Builder
	b.WriteString("## Activity\n\n")
	if len(entries) == 0 {
		b.WriteString("_No activity recorded._\n")
		return b.String()
	}
	b.WriteString("| Time | Action | ID | Details | Commit |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, cell(id.Short(e.TransactionID)), cell(e.Details), cell(e.Commit))
	}
	return b.String()
}

// Terminal styles markdown for a terminal. Plain output returns md as is.
func Terminal(md string, plain bool, width int) (string, error) {
	if plain {
		return md, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// bar draws v as a run of blocks proportional to its place between bounds.
func bar(v decimal.Decimal, bounds derive.ChartBounds) string {
	span := bounds.Max.Sub(bounds.Min)
	if !span.IsPositive() {
		return ""
	}
	n := int(v.Sub(bounds.Min).Div(span).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	n = max(0, min(barWidth, n))
	return strings.Repeat("█", n)
}

func rangeLabel(c derive.Chart) string {
	if c.Range == derive.RangeAll {
		return "all time"
	}
	return fmt.Sprintf("last %d months, since %s", c.Range.Months(), c.Cutoff.Format(model.DateFormat))
}

func typeLabel(t model.TransactionType) string {
	if t == model.TypeIncome {
		return "Income"
	}
	return "Expense"
}

// cell makes free text safe inside a markdown table cell.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
