// Package core implements the ledger state machine: an append-only chain of
// blocks of account-affecting transactions over a mutable world state.
//
// A caller constructs Transactions, packs them into a Block, and submits the
// Block through Blockchain.AppendBlock. The chain verifies the block's own
// hash and its linkage to the current tip, then executes every transaction
// in order against the account map. A block either commits whole or is
// rejected whole: on the first failing transaction the pre-block snapshot is
// restored and the failure is returned with its transaction index.
//
// Token minting (CreateTokens) is permitted only in the genesis block, so
// the total supply is fixed at bootstrap and transfers merely conserve it.
package core
