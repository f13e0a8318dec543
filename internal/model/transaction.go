package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// DateFormat is the wire and label format of a transaction date.
const DateFormat = "2006-01-02"

var (
	ErrEmptyID          = errors.New("empty id")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidAmount    = errors.New("amount must be greater than 0")
	ErrAmountOutOfRange = errors.New("amount is out of range")
	ErrEmptyDate        = errors.New("empty date")
)

// MaxAmount is the largest magnitude a single amount may have.
var MaxAmount = decimal.New(1, 15)

// maxExponent bounds the decimal exponent of parsed amounts so that
// comparisons and formatting stay cheap.
const maxExponent = 30

// ParseAmount parses a decimal amount of either sign, rejecting values
// whose magnitude exceeds MaxAmount or whose exponent is out of range.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrAmountOutOfRange, s)
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s exceeds %s", ErrAmountOutOfRange, d, MaxAmount)
	}
	return d, nil
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseType converts a string to a TransactionType.
func ParseType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// Transaction is a single recorded income or expense.
// Values are never mutated once created; the ledger hands out copies.
type Transaction struct {
	ID       string
	Type     TransactionType
	Category string
	Amount   decimal.Decimal // always > 0, direction is carried by Type
	Date     time.Time       // midnight UTC
	Note     string
}

// Validate returns the first invariant t violates, or nil.
func (t Transaction) Validate() error {
	switch {
	case t.ID == "":
		return ErrEmptyID
	case !t.Type.Valid():
		return ErrInvalidType
	case t.Category == "":
		return ErrEmptyCategory
	case !t.Amount.IsPositive():
		return ErrInvalidAmount
	case t.Amount.GreaterThan(MaxAmount):
		return ErrAmountOutOfRange
	case t.Date.IsZero():
		return ErrEmptyDate
	}
	return nil
}

// Signed returns the amount with the sign implied by the type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DateString formats the date as YYYY-MM-DD.
func (t Transaction) DateString() string {
	return t.Date.Format(DateFormat)
}

// Day returns the calendar day of tm as midnight UTC.
func Day(tm time.Time) time.Time {
	y, m, d := tm.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
