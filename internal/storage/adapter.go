package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/pocket/internal/logging"
	"github.com/cleared-dev/pocket/internal/model"
)

var (
	errMissingID     = errors.New("missing id")
	errMissingDate   = errors.New("missing date")
	errDuplicateID   = errors.New("duplicate id")
	errAmountNotANum = errors.New("amount is not a number")
)

// record is the persisted shape of a transaction. Amount stays raw so
// that a non-numeric value can be told apart from a missing one.
type record struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Date     string          `json:"date"`
	Note     string          `json:"note"`
}

// Adapter reads and writes the whole ledger under a single slot key.
type Adapter struct {
	slot Slot
	key  string
	log  zerolog.Logger
}

// NewAdapter creates an Adapter; an empty key means DefaultKey.
func NewAdapter(slot Slot, key string, logger zerolog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{
		slot: slot,
		key:  key,
		log:  logging.Component(logger, "storage").With().Str("key", key).Logger(),
	}
}

// Key returns the slot key.
func (a *Adapter) Key() string { return a.key }

// Save overwrites the slot with txns as a JSON array, preserving order.
func (a *Adapter) Save(txns []model.Transaction) error {
	data, err := Marshal(txns)
	if err != nil {
		return err
	}
	if err := a.slot.Set(a.key, data); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	a.log.Debug().Int("count", len(txns)).Msg("ledger saved")
	return nil
}

// Load reads the slot. A missing, unreadable or malformed value yields an
// empty ledger; individual invalid records are dropped and the rest kept.
func (a *Adapter) Load() []model.Transaction {
	data, ok, err := a.slot.Get(a.key)
	if err != nil {
		a.log.Error().Err(err).Msg("failed to load transactions")
		return []model.Transaction{}
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []model.Transaction{}
	}

	txns, dropped, err := Unmarshal(data)
	if err != nil {
		a.log.Error().Err(err).Msg("failed to load transactions")
		return []model.Transaction{}
	}
	for _, d := range dropped {
		a.log.Warn().Int("index", d.Index).Err(d.Err).Msg("dropping invalid record")
	}
	a.log.Debug().Int("count", len(txns)).Int("dropped", len(dropped)).Msg("ledger loaded")
	return txns
}

// Marshal encodes txns in the persisted JSON layout.
func Marshal(txns []model.Transaction) ([]byte, error) {
	recs := make([]record, len(txns))
	for i, t := range txns {
		recs[i] = record{
			ID:       t.ID,
			Type:     string(t.Type),
			Category: t.Category,
			Amount:   json.RawMessage(t.Amount.String()),
			Date:     t.DateString(),
			Note:     t.Note,
		}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("marshaling ledger: %w", err)
	}
	return data, nil
}

// Dropped describes a record that failed validation on load.
type Dropped struct {
	Index int
	Err   error
}

// Unmarshal decodes the persisted JSON layout. It fails only when data is
// not a JSON array; invalid elements are reported in dropped.
func Unmarshal(data []byte) (txns []model.Transaction, dropped []Dropped, err error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, nil, fmt.Errorf("parsing ledger: %w", err)
	}

	txns = make([]model.Transaction, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		t, err := decodeRecord(item)
		if err == nil && seen[t.ID] {
			err = errDuplicateID
		}
		if err != nil {
			dropped = append(dropped, Dropped{Index: i, Err: err})
			continue
		}
		seen[t.ID] = true
		txns = append(txns, t)
	}
	return txns, dropped, nil
}

func decodeRecord(raw json.RawMessage) (model.Transaction, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Transaction{}, fmt.Errorf("decoding record: %w", err)
	}
	if rec.ID == "" {
		return model.Transaction{}, errMissingID
	}
	if rec.Date == "" {
		return model.Transaction{}, errMissingDate
	}

	typ, err := model.ParseType(rec.Type)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("type %q: %w", rec.Type, err)
	}

	amount, err := parseAmount(rec.Amount)
	if err != nil {
		return model.Transaction{}, err
	}

	date, err := model.ParseDate(rec.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec.Date, err)
	}

	t := model.Transaction{
		ID:       rec.ID,
		Type:     typ,
		Category: rec.Category,
		Amount:   amount,
		Date:     date,
		Note:     rec.Note,
	}
	if err := t.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// parseAmount accepts only JSON numbers within model.ParseAmount's range;
// strings, null and booleans are rejected.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return decimal.Decimal{}, errAmountNotANum
	}
	d, err := model.ParseAmount(string(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount: %w", err)
	}
	return d, nil
}
