package core

import (
	"fmt"
	"sort"
)

// WorldState is the capability surface transaction execution runs against.
// Blockchain satisfies it with its authoritative account map; tests may
// substitute any other implementation without touching Transaction or Block
// logic.
type WorldState interface {
	// UserIDs returns the identifiers of all known accounts.
	UserIDs() []string

	// GetAccount returns the account stored under id, for reading.
	GetAccount(id string) (*Account, bool)

	// GetAccountMut returns the account stored under id, for mutation.
	GetAccountMut(id string) (*Account, bool)

	// CreateAccount inserts a fresh zero-balance account under id and fails
	// with ErrAccountExists when the id is already taken.
	CreateAccount(id string, accountType AccountType) error
}

// Accounts is the id to account mapping underlying a world state. It
// implements WorldState directly, which is what AppendBlock executes
// transactions against while holding the chain lock.
type Accounts map[string]*Account

// UserIDs returns all account ids in lexical order.
func (m Accounts) UserIDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetAccount returns the account stored under id, for reading.
func (m Accounts) GetAccount(id string) (*Account, bool) {
	acc, ok := m[id]
	return acc, ok
}

// GetAccountMut returns the account stored under id, for mutation.
func (m Accounts) GetAccountMut(id string) (*Account, bool) {
	acc, ok := m[id]
	return acc, ok
}

// CreateAccount inserts a fresh account under id.
func (m Accounts) CreateAccount(id string, accountType AccountType) error {
	if _, exists := m[id]; exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, id)
	}
	m[id] = NewAccount(accountType)
	return nil
}

// Clone deep-copies the mapping. AppendBlock snapshots the live accounts
// through Clone before executing a block, and restores the snapshot if any
// transaction fails.
func (m Accounts) Clone() Accounts {
	clone := make(Accounts, len(m))
	for id, acc := range m {
		clone[id] = acc.Clone()
	}
	return clone
}
