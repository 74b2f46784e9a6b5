package core

import (
	"errors"
	"fmt"
)

// Every failure in the ledger core is one of the kinds below. Nothing is
// logged or swallowed internally; callers decide what to do with a rejected
// block or transaction.
var (
	// ErrInvalidBlockHash means a block's stored hash does not match a fresh
	// recomputation over its contents.
	ErrInvalidBlockHash = errors.New("block hash does not match its contents")

	// ErrBrokenChainLinkage means a block's prev hash does not point at the
	// current chain tip.
	ErrBrokenChainLinkage = errors.New("block does not link to the current chain tip")

	// ErrUnknownSenderAccount means the transaction's origin account does not
	// exist in the world state.
	ErrUnknownSenderAccount = errors.New("sender account does not exist")

	// ErrUnknownReceiverAccount means the account receiving tokens does not
	// exist in the world state.
	ErrUnknownReceiverAccount = errors.New("receiver account does not exist")

	// ErrAccountExists means an account id is already taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrTokenCreationNotAllowed means a CreateTokens transaction appeared
	// outside the genesis block.
	ErrTokenCreationNotAllowed = errors.New("token creation is only allowed in the genesis block")

	// ErrArithmeticOverspend means a balance update would underflow the
	// sender or overflow the receiver.
	ErrArithmeticOverspend = errors.New("balance update would overspend or overflow")

	// ErrUnknownTransactionKind means a transaction carries no recognized
	// operation payload.
	ErrUnknownTransactionKind = errors.New("unknown transaction kind")
)

// TransactionError reports which transaction inside a rejected block failed
// and why. Index is 1-based. It is the only error AppendBlock returns once a
// block has passed the hash and linkage checks.
type TransactionError struct {
	Index int
	Err   error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %d: %v", e.Index, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
