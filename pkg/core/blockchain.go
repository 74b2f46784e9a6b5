package core

import (
	"bytes"
	"sync"
)

// Blockchain owns the ordered sequence of committed blocks and the
// authoritative account map. The account map is never aliased outside the
// WorldState contract, and AppendBlock is the only way committed state
// changes.
//
// Appends are serialized behind a single write lock: the whole
// validate-then-commit-or-rollback sequence runs with no interleaved reader
// or writer, so a caller can never observe a half-applied block.
type Blockchain struct {
	mu                  sync.RWMutex
	blocks              []*Block
	accounts            Accounts
	pendingTransactions []*Transaction
}

// NewBlockchain returns an empty chain with no accounts. Multiple chains can
// coexist; there is no shared or global state.
func NewBlockchain() *Blockchain {
	return &Blockchain{
		accounts: make(Accounts),
	}
}

// AddTransaction stores tx in the pending buffer. The buffer is storage
// only: block assembly from pending transactions is left to the caller.
func (bc *Blockchain) AddTransaction(tx *Transaction) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.pendingTransactions = append(bc.pendingTransactions, tx)
}

// PendingTransactionCount returns the size of the pending buffer.
func (bc *Blockchain) PendingTransactionCount() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.pendingTransactions)
}

// AppendBlock validates block against the current tip and applies its
// transactions to the account map, atomically. Either every transaction in
// the block succeeds and the block becomes the new tip, or the account map
// is restored to its pre-block snapshot and the failure is returned as a
// TransactionError carrying the 1-based transaction index.
//
// The genesis pass: when the chain is empty, every transaction in the block
// executes with the genesis flag set, so a genesis block may both create
// accounts and mint their initial balances.
func (bc *Blockchain) AppendBlock(block *Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	isGenesis := len(bc.blocks) == 0

	if !block.VerifyOwnHash() {
		return ErrInvalidBlockHash
	}
	if !bytes.Equal(block.PrevHash, bc.lastBlockHash()) {
		return ErrBrokenChainLinkage
	}

	snapshot := bc.accounts.Clone()

	for i, tx := range block.Transactions {
		if err := tx.Execute(bc.accounts, isGenesis); err != nil {
			bc.accounts = snapshot
			return &TransactionError{Index: i + 1, Err: err}
		}
	}

	bc.blocks = append(bc.blocks, block)
	return nil
}

// Len returns the number of committed blocks.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.blocks)
}

// LastBlockHash returns the hash of the chain tip, or nil for an empty
// chain. A genesis block must declare a nil prev hash to match.
func (bc *Blockchain) LastBlockHash() []byte {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.lastBlockHash()
}

func (bc *Blockchain) lastBlockHash() []byte {
	if len(bc.blocks) == 0 {
		return nil
	}
	return bc.blocks[len(bc.blocks)-1].Hash
}

// GetBlockByHash returns the committed block with the given hash, or nil.
func (bc *Blockchain) GetBlockByHash(hash []byte) *Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	for _, block := range bc.blocks {
		if bytes.Equal(block.Hash, hash) {
			return block
		}
	}
	return nil
}

// GetTransactionByHash searches committed blocks, then the pending buffer,
// for a transaction with the given content hash.
func (bc *Blockchain) GetTransactionByHash(hash []byte) *Transaction {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	for _, block := range bc.blocks {
		for _, tx := range block.Transactions {
			if bytes.Equal(tx.CalculateHash(), hash) {
				return tx
			}
		}
	}
	for _, tx := range bc.pendingTransactions {
		if bytes.Equal(tx.CalculateHash(), hash) {
			return tx
		}
	}
	return nil
}

// Blockchain exposes its account map through the WorldState contract.

// UserIDs returns the identifiers of all committed accounts.
func (bc *Blockchain) UserIDs() []string {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.accounts.UserIDs()
}

// GetAccount returns the account stored under id, for reading.
func (bc *Blockchain) GetAccount(id string) (*Account, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.accounts.GetAccount(id)
}

// GetAccountMut returns the account stored under id, for mutation. Callers
// must not mutate the account concurrently with AppendBlock.
func (bc *Blockchain) GetAccountMut(id string) (*Account, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.accounts.GetAccountMut(id)
}

// CreateAccount inserts a fresh zero-balance account directly, outside any
// block. Fails with ErrAccountExists when id is taken.
func (bc *Blockchain) CreateAccount(id string, accountType AccountType) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.accounts.CreateAccount(id, accountType)
}
