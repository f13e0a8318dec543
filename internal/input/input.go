// Package input turns raw user input into transactions.
package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/model"
)

// ErrValidation wraps every rejection of a Candidate.
var ErrValidation = errors.New("please fill in every field and use an amount greater than 0")

// Candidate is an unvalidated transaction as typed by the user.
type Candidate struct {
	ID       string // kept when set, e.g. on re-import
	Type     string
	Category string
	Amount   string
	Date     string // YYYY-MM-DD
	Note     string
}

// Parse normalizes and validates c. newID is called only for accepted
// candidates without an ID. Nothing is returned on rejection.
func Parse(c Candidate, newID id.Generator) (model.Transaction, error) {
	category := strings.TrimSpace(c.Category)
	note := strings.TrimSpace(c.Note)
	dateStr := strings.TrimSpace(c.Date)

	typ, err := model.ParseType(strings.ToLower(strings.TrimSpace(c.Type)))
	if err != nil {
		return model.Transaction{}, reject(err)
	}
	if category == "" {
		return model.Transaction{}, reject(model.ErrEmptyCategory)
	}
	if dateStr == "" {
		return model.Transaction{}, reject(model.ErrEmptyDate)
	}
	date, err := model.ParseDate(dateStr)
	if err != nil {
		return model.Transaction{}, reject(fmt.Errorf("date %q is not YYYY-MM-DD", dateStr))
	}
	amount, err := model.ParseAmount(strings.TrimSpace(c.Amount))
	if err != nil {
		return model.Transaction{}, reject(err)
	}
	if !amount.IsPositive() {
		return model.Transaction{}, reject(model.ErrInvalidAmount)
	}

	txnID := id.Normalize(c.ID)
	if txnID == "" {
		txnID = newID()
	}

	return model.Transaction{
		ID:       txnID,
		Type:     typ,
		Category: category,
		Amount:   amount,
		Date:     date,
		Note:     note,
	}, nil
}

func reject(cause error) error {
	return fmt.Errorf("%w: %w", ErrValidation, cause)
}
