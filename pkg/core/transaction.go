package core

import (
	"time"

	"github.com/minichain/minichain/pkg/crypto"
)

// TransactionData is the operation payload of a transaction. The four types
// below form the closed set of built-in operations; anything else fails with
// ErrUnknownTransactionKind at execution time.
type TransactionData interface {
	// tag is a stable single-byte discriminator mixed into content hashes so
	// different kinds with identical field bytes cannot collide.
	tag() byte

	// writeTo folds the payload fields into a content hash.
	writeTo(h *crypto.Hasher)

	// apply validates and executes the operation against ws on behalf of the
	// origin account. Each implementation either fully applies its effect or
	// returns before mutating anything.
	apply(ws WorldState, from string, isGenesis bool) error
}

// CreateUserAccount registers a new user account under ID.
type CreateUserAccount struct {
	ID string
}

// ChangeStoreValue sets Key to Value in the origin account's store.
type ChangeStoreValue struct {
	Key   string
	Value string
}

// TransferTokens moves Amount tokens from the origin account to To.
type TransferTokens struct {
	To     string
	Amount uint64
}

// CreateTokens mints Amount new tokens onto Receiver's balance. Only valid
// inside the genesis block.
type CreateTokens struct {
	Receiver string
	Amount   uint64
}

func (d CreateUserAccount) tag() byte { return 1 }
func (d ChangeStoreValue) tag() byte  { return 2 }
func (d TransferTokens) tag() byte    { return 3 }
func (d CreateTokens) tag() byte      { return 4 }

func (d CreateUserAccount) writeTo(h *crypto.Hasher) {
	h.WriteString(d.ID)
}

func (d ChangeStoreValue) writeTo(h *crypto.Hasher) {
	h.WriteString(d.Key)
	h.WriteString(d.Value)
}

func (d TransferTokens) writeTo(h *crypto.Hasher) {
	h.WriteString(d.To)
	h.WriteUint64(d.Amount)
}

func (d CreateTokens) writeTo(h *crypto.Hasher) {
	h.WriteString(d.Receiver)
	h.WriteUint64(d.Amount)
}

func (d CreateUserAccount) apply(ws WorldState, _ string, _ bool) error {
	return ws.CreateAccount(d.ID, User)
}

func (d ChangeStoreValue) apply(ws WorldState, from string, _ bool) error {
	acc, ok := ws.GetAccountMut(from)
	if !ok {
		return ErrUnknownSenderAccount
	}
	acc.Store[d.Key] = d.Value
	return nil
}

func (d TransferTokens) apply(ws WorldState, from string, _ bool) error {
	receiver, ok := ws.GetAccountMut(d.To)
	if !ok {
		return ErrUnknownReceiverAccount
	}
	sender, ok := ws.GetAccountMut(from)
	if !ok {
		return ErrUnknownSenderAccount
	}

	newReceiverBalance, ok := checkedAdd(receiver.Tokens, d.Amount)
	if !ok {
		return ErrArithmeticOverspend
	}
	newSenderBalance, ok := checkedSub(sender.Tokens, d.Amount)
	if !ok {
		return ErrArithmeticOverspend
	}

	// Sender and receiver alias the same account on a self-transfer; the
	// balance is unchanged once feasibility has been checked.
	if from == d.To {
		return nil
	}

	receiver.Tokens = newReceiverBalance
	sender.Tokens = newSenderBalance
	return nil
}

func (d CreateTokens) apply(ws WorldState, _ string, isGenesis bool) error {
	if !isGenesis {
		return ErrTokenCreationNotAllowed
	}
	receiver, ok := ws.GetAccountMut(d.Receiver)
	if !ok {
		return ErrUnknownReceiverAccount
	}
	newBalance, ok := checkedAdd(receiver.Tokens, d.Amount)
	if !ok {
		return ErrArithmeticOverspend
	}
	receiver.Tokens = newBalance
	return nil
}

// Transaction is an immutable intent record: one operation payload plus the
// metadata identifying who issued it. Its hash is a pure function of
// (created at, record, from, nonce) and never changes after construction.
type Transaction struct {
	Nonce     uint64
	From      string
	CreatedAt time.Time
	Record    TransactionData
	Signature []byte // presence marker only; no signature scheme in this core
}

// NewTransaction builds a transaction from the origin account, stamped with
// the current time.
func NewTransaction(from string, record TransactionData, nonce uint64) *Transaction {
	return &Transaction{
		Nonce:     nonce,
		From:      from,
		CreatedAt: time.Now(),
		Record:    record,
	}
}

// CalculateHash returns the BLAKE3 content hash over the transaction's
// defining fields.
func (tx *Transaction) CalculateHash() []byte {
	h := crypto.NewHasher()
	h.WriteInt64(tx.CreatedAt.UnixNano())
	if tx.Record != nil {
		h.WriteTag(tx.Record.tag())
		tx.Record.writeTo(h)
	}
	h.WriteString(tx.From)
	h.WriteUint64(tx.Nonce)
	return h.Sum()
}

// IsSigned reports whether a signature marker is present.
func (tx *Transaction) IsSigned() bool {
	return len(tx.Signature) > 0
}

// Execute validates and applies the transaction's operation against ws.
// During the genesis pass a missing origin account is tolerated, which lets
// a genesis block bootstrap accounts and balances from nothing. On failure
// the world state is left untouched.
func (tx *Transaction) Execute(ws WorldState, isGenesis bool) error {
	if _, ok := ws.GetAccount(tx.From); !ok && !isGenesis {
		return ErrUnknownSenderAccount
	}
	if tx.Record == nil {
		return ErrUnknownTransactionKind
	}
	return tx.Record.apply(ws, tx.From, isGenesis)
}

func checkedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

func checkedSub(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
