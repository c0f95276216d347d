// Package ledger implements the call-driven ledger engine: an account
// registry, a deferred-event scheduler, and the operations that tie them
// together. Time is a logical millisecond timestamp supplied by the caller
// on every operation — nothing here reads a wall clock.
package ledger

import (
	"sort"

	"github.com/ledgerkit/ledgerd/internal/domain"
)

// ─── Account Registry ───────────────────────────────────────────────────────

// Registry owns the mapping from account ID to account state. It is not
// safe for concurrent use on its own; the Engine serializes all access.
type Registry struct {
	accounts map[string]*domain.Account
}

// NewRegistry creates an empty account registry.
func NewRegistry() *Registry {
	return &Registry{accounts: make(map[string]*domain.Account)}
}

// Create inserts a zero-balance account. Returns false without mutation if
// the ID is already taken — a duplicate is a normal outcome, not an error.
func (r *Registry) Create(id string) bool {
	if _, ok := r.accounts[id]; ok {
		return false
	}
	r.accounts[id] = &domain.Account{ID: id}
	return true
}

// Get looks up an account by ID. Pure lookup, no side effects.
func (r *Registry) Get(id string) (*domain.Account, bool) {
	a, ok := r.accounts[id]
	return a, ok
}

// Credit adds amount to the account balance and returns the new balance.
func (r *Registry) Credit(id string, amount int64) (int64, bool) {
	a, ok := r.accounts[id]
	if !ok {
		return 0, false
	}
	a.Balance += amount
	return a.Balance, true
}

// Debit subtracts amount from the account balance. It refuses (without
// mutation) any debit that would drive the balance negative.
func (r *Registry) Debit(id string, amount int64) (int64, bool) {
	a, ok := r.accounts[id]
	if !ok || a.Balance < amount {
		return 0, false
	}
	a.Balance -= amount
	return a.Balance, true
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	return len(r.accounts)
}

// All returns every account, ordered by ID for deterministic iteration.
func (r *Registry) All() []*domain.Account {
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
