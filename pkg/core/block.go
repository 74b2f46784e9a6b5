package core

import (
	"bytes"

	"github.com/minichain/minichain/pkg/crypto"
)

// Block is an ordered sequence of transactions plus the linkage metadata
// tying it to the previous block. Hash is recomputed on every structural
// mutation, so it is always either nil or exactly the digest over
// (transactions, prev hash, nonce). Any divergence means the block has been
// tampered with or corrupted.
type Block struct {
	Transactions []*Transaction
	PrevHash     []byte // nil only for the genesis block
	Nonce        uint64
	Hash         []byte
}

// NewBlock returns an empty block declaring prevHash as its parent. Pass nil
// for the genesis block.
func NewBlock(prevHash []byte) *Block {
	return &Block{PrevHash: prevHash}
}

// AddTransaction appends tx and recomputes the block hash.
func (b *Block) AddTransaction(tx *Transaction) {
	b.Transactions = append(b.Transactions, tx)
	b.updateHash()
}

// SetNonce sets the block nonce and recomputes the block hash.
func (b *Block) SetNonce(nonce uint64) {
	b.Nonce = nonce
	b.updateHash()
}

// TransactionCount returns the number of transactions in the block.
func (b *Block) TransactionCount() int {
	return len(b.Transactions)
}

// CalculateHash folds the content hash of every transaction, in order, then
// the structural encoding of (prev hash, nonce), into one BLAKE3 digest.
func (b *Block) CalculateHash() []byte {
	h := crypto.NewHasher()
	for _, tx := range b.Transactions {
		h.WriteBytes(tx.CalculateHash())
	}
	h.WriteBytes(b.PrevHash)
	h.WriteUint64(b.Nonce)
	return h.Sum()
}

// updateHash must be called by every method that changes transactions,
// prev hash, or nonce.
func (b *Block) updateHash() {
	b.Hash = b.CalculateHash()
}

// VerifyOwnHash reports whether the stored hash is present and matches a
// fresh recomputation. AppendBlock uses it as the tamper check before the
// block is considered at all.
func (b *Block) VerifyOwnHash() bool {
	return b.Hash != nil && bytes.Equal(b.Hash, b.CalculateHash())
}
