// Package ledger holds the authoritative in-memory list of transactions.
//
// Every mutation is persisted and then announced to listeners before the
// call returns, so readers never observe state that was not saved (or at
// least attempted to be saved). A Store is not safe for concurrent use;
// drive it from a single goroutine.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/pocket/internal/logging"
	"github.com/cleared-dev/pocket/internal/model"
)

// ErrDuplicateID is returned by Add when the ID is already in the ledger.
var ErrDuplicateID = errors.New("duplicate transaction id")

// ErrAmbiguousID is returned by Resolve when a prefix matches several IDs.
var ErrAmbiguousID = errors.New("ambiguous transaction id")

// Persister is the durable backing of a Store.
type Persister interface {
	Save(txns []model.Transaction) error
	Load() []model.Transaction
}

// Listener is called with a snapshot after every change.
type Listener func(snapshot []model.Transaction)

// Store is the ordered, insertion-ordered collection of transactions.
type Store struct {
	txns      []model.Transaction
	persist   Persister
	log       zerolog.Logger
	listeners map[int]Listener
	nextSub   int
}

// NewStore creates a Store initialised from p.
func NewStore(p Persister, logger zerolog.Logger) *Store {
	s := &Store{
		persist:   p,
		log:       logging.Component(logger, "ledger"),
		listeners: make(map[int]Listener),
	}
	s.txns = s.loadUnique()
	return s
}

// Add appends t. Invalid records and duplicate IDs are rejected.
func (s *Store) Add(t model.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}
	if s.index(t.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	s.txns = append(s.txns, t)
	s.commit("add")
	return nil
}

// Remove deletes the transaction with the given ID. It reports whether a
// transaction was removed; an unknown ID leaves the ledger untouched.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.txns = append(s.txns[:i:i], s.txns[i+1:]...)
	s.commit("remove")
	return true
}

// Clear removes every transaction.
func (s *Store) Clear() {
	if len(s.txns) == 0 {
		return
	}
	s.txns = nil
	s.commit("clear")
}

// Reload replaces the ledger with what the Persister holds, e.g. after
// another process changed it. The loaded state is not written back.
func (s *Store) Reload() {
	s.txns = s.loadUnique()
	s.log.Debug().Int("count", len(s.txns)).Msg("ledger reloaded")
	s.notify()
}

// List returns a copy of all transactions in insertion order.
func (s *Store) List() []model.Transaction {
	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// Get returns the transaction with the given ID.
func (s *Store) Get(id string) (model.Transaction, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.txns[i], true
}

// Resolve expands ref, a full ID or a unique ID prefix, to a full ID.
// ok is false when nothing matches.
func (s *Store) Resolve(ref string) (id string, ok bool, err error) {
	if ref == "" {
		return "", false, nil
	}
	if s.index(ref) >= 0 {
		return ref, true, nil
	}
	var matches []string
	for _, t := range s.txns {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", false, nil
	case 1:
		return matches[0], true, nil
	default:
		return "", false, fmt.Errorf("%w: %q matches %d transactions", ErrAmbiguousID, ref, len(matches))
	}
}

// Len returns the number of transactions.
func (s *Store) Len() int { return len(s.txns) }

// Subscribe registers l and returns a function that unregisters it.
func (s *Store) Subscribe(l Listener) (cancel func()) {
	key := s.nextSub
	s.nextSub++
	s.listeners[key] = l
	return func() { delete(s.listeners, key) }
}

func (s *Store) commit(op string) {
	if err := s.persist.Save(s.List()); err != nil {
		// The in-memory ledger stays authoritative for this session.
		s.log.Warn().Err(err).Str("op", op).Msg("failed to persist ledger")
	}
	s.log.Debug().Str("op", op).Int("count", len(s.txns)).Msg("ledger changed")
	s.notify()
}

func (s *Store) notify() {
	for i := 0; i < s.nextSub; i++ {
		if l, ok := s.listeners[i]; ok {
			l(s.List())
		}
	}
}

func (s *Store) index(id string) int {
	for i, t := range s.txns {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// loadUnique loads from the Persister, keeping only valid records with
// unseen IDs so the Store invariants hold whatever the Persister returns.
func (s *Store) loadUnique() []model.Transaction {
	loaded := s.persist.Load()
	out := make([]model.Transaction, 0, len(loaded))
	seen := make(map[string]bool, len(loaded))
	for _, t := range loaded {
		if seen[t.ID] || t.Validate() != nil {
			s.log.Warn().Str("id", t.ID).Msg("ignoring invalid loaded transaction")
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
