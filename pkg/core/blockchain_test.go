package core

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

// bootstrapBlock is the genesis block used across these tests: it creates
// alice and bob and mints alice's opening balance.
func bootstrapBlock(t *testing.T) *Block {
	t.Helper()
	block := NewBlock(nil)
	block.AddTransaction(NewTransaction("alice", CreateUserAccount{ID: "alice"}, 0))
	block.AddTransaction(NewTransaction("bob", CreateUserAccount{ID: "bob"}, 1))
	block.AddTransaction(NewTransaction("alice", CreateTokens{Receiver: "alice", Amount: 100}, 2))
	return block
}

func mustTokens(t *testing.T, chain *Blockchain, id string) uint64 {
	t.Helper()
	acc, ok := chain.GetAccount(id)
	if !ok {
		t.Fatalf("account %s missing", id)
	}
	return acc.Tokens
}

func TestAppendBlockScenario(t *testing.T) {
	chain := NewBlockchain()

	// Genesis: create alice and bob, mint 100 onto alice.
	if err := chain.AppendBlock(bootstrapBlock(t)); err != nil {
		t.Fatalf("genesis append: %v", err)
	}
	if chain.Len() != 1 {
		t.Fatalf("chain length %d after genesis, expected 1", chain.Len())
	}
	if got := mustTokens(t, chain, "alice"); got != 100 {
		t.Errorf("alice has %d tokens, expected 100", got)
	}
	if got := mustTokens(t, chain, "bob"); got != 0 {
		t.Errorf("bob has %d tokens, expected 0", got)
	}

	// Second block: alice pays bob 40.
	transfer := NewBlock(chain.LastBlockHash())
	transfer.AddTransaction(NewTransaction("alice", TransferTokens{To: "bob", Amount: 40}, 3))
	if err := chain.AppendBlock(transfer); err != nil {
		t.Fatalf("transfer append: %v", err)
	}
	if got := mustTokens(t, chain, "alice"); got != 60 {
		t.Errorf("alice has %d tokens, expected 60", got)
	}
	if got := mustTokens(t, chain, "bob"); got != 40 {
		t.Errorf("bob has %d tokens, expected 40", got)
	}

	// Third block: alice tries to pay 1000 she does not have.
	overspend := NewBlock(chain.LastBlockHash())
	overspend.AddTransaction(NewTransaction("alice", TransferTokens{To: "bob", Amount: 1000}, 4))

	err := chain.AppendBlock(overspend)
	if err == nil {
		t.Fatal("overspending block was accepted")
	}
	var txErr *TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("expected a TransactionError, got %T: %v", err, err)
	}
	if txErr.Index != 1 {
		t.Errorf("failure reported at transaction %d, expected 1", txErr.Index)
	}
	if !errors.Is(err, ErrArithmeticOverspend) {
		t.Errorf("expected ErrArithmeticOverspend cause, got %v", txErr.Err)
	}

	if chain.Len() != 2 {
		t.Errorf("chain length %d after rejected block, expected 2", chain.Len())
	}
	if got := mustTokens(t, chain, "alice"); got != 60 {
		t.Errorf("alice has %d tokens after rejected block, expected 60", got)
	}
	if got := mustTokens(t, chain, "bob"); got != 40 {
		t.Errorf("bob has %d tokens after rejected block, expected 40", got)
	}
}

func TestAppendBlockRejectsInvalidHash(t *testing.T) {
	t.Run("missing hash", func(t *testing.T) {
		chain := NewBlockchain()
		if err := chain.AppendBlock(NewBlock(nil)); !errors.Is(err, ErrInvalidBlockHash) {
			t.Errorf("expected ErrInvalidBlockHash, got %v", err)
		}
	})

	t.Run("tampered after hashing", func(t *testing.T) {
		chain := NewBlockchain()
		block := bootstrapBlock(t)
		block.Transactions[2] = NewTransaction("alice", CreateTokens{Receiver: "alice", Amount: 1_000_000}, 2)

		if err := chain.AppendBlock(block); !errors.Is(err, ErrInvalidBlockHash) {
			t.Errorf("expected ErrInvalidBlockHash, got %v", err)
		}
		if chain.Len() != 0 {
			t.Errorf("tampered block was committed")
		}
	})
}

func TestAppendBlockRejectsBrokenLinkage(t *testing.T) {
	t.Run("genesis declaring a parent", func(t *testing.T) {
		chain := NewBlockchain()
		block := NewBlock([]byte("no such parent"))
		block.AddTransaction(NewTransaction("alice", CreateUserAccount{ID: "alice"}, 0))

		if err := chain.AppendBlock(block); !errors.Is(err, ErrBrokenChainLinkage) {
			t.Errorf("expected ErrBrokenChainLinkage, got %v", err)
		}
	})

	t.Run("stale parent", func(t *testing.T) {
		chain := NewBlockchain()
		if err := chain.AppendBlock(bootstrapBlock(t)); err != nil {
			t.Fatalf("genesis append: %v", err)
		}

		// Points at nothing instead of the tip; transactions are valid.
		block := NewBlock(nil)
		block.AddTransaction(NewTransaction("alice", TransferTokens{To: "bob", Amount: 1}, 3))

		if err := chain.AppendBlock(block); !errors.Is(err, ErrBrokenChainLinkage) {
			t.Errorf("expected ErrBrokenChainLinkage, got %v", err)
		}
		if chain.Len() != 1 {
			t.Errorf("unlinked block was committed")
		}
	})
}

func TestAppendBlockRollsBackAtomically(t *testing.T) {
	chain := NewBlockchain()
	if err := chain.AppendBlock(bootstrapBlock(t)); err != nil {
		t.Fatalf("genesis append: %v", err)
	}

	before := chain.accounts.Clone()

	// First two transactions would succeed; the third fails.
	block := NewBlock(chain.LastBlockHash())
	block.AddTransaction(NewTransaction("alice", CreateUserAccount{ID: "carol"}, 3))
	block.AddTransaction(NewTransaction("alice", TransferTokens{To: "bob", Amount: 30}, 4))
	block.AddTransaction(NewTransaction("alice", TransferTokens{To: "bob", Amount: 1000}, 5))

	err := chain.AppendBlock(block)
	var txErr *TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("expected a TransactionError, got %v", err)
	}
	if txErr.Index != 3 {
		t.Errorf("failure reported at transaction %d, expected 3", txErr.Index)
	}

	if !reflect.DeepEqual(chain.accounts, before) {
		t.Error("account state differs from the pre-block snapshot after rejection")
	}
	if _, ok := chain.GetAccount("carol"); ok {
		t.Error("effects of the rejected block's earlier transactions survived")
	}
}

func TestCreateTokensOnlyInGenesis(t *testing.T) {
	chain := NewBlockchain()
	if err := chain.AppendBlock(bootstrapBlock(t)); err != nil {
		t.Fatalf("genesis append: %v", err)
	}

	// The same mint that genesis allowed is rejected one block later.
	block := NewBlock(chain.LastBlockHash())
	block.AddTransaction(NewTransaction("alice", CreateTokens{Receiver: "alice", Amount: 100}, 3))

	if err := chain.AppendBlock(block); !errors.Is(err, ErrTokenCreationNotAllowed) {
		t.Errorf("expected ErrTokenCreationNotAllowed, got %v", err)
	}
	if got := mustTokens(t, chain, "alice"); got != 100 {
		t.Errorf("alice has %d tokens, expected 100", got)
	}
}

func TestWorldStateThroughChain(t *testing.T) {
	chain := NewBlockchain()

	if err := chain.CreateAccount("alice", User); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := chain.CreateAccount("validator-1", Validator); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := chain.CreateAccount("alice", User); !errors.Is(err, ErrAccountExists) {
		t.Errorf("expected ErrAccountExists, got %v", err)
	}

	ids := chain.UserIDs()
	if !reflect.DeepEqual(ids, []string{"alice", "validator-1"}) {
		t.Errorf("UserIDs = %v", ids)
	}

	validator, ok := chain.GetAccount("validator-1")
	if !ok {
		t.Fatal("validator account missing")
	}
	if validator.Type != Validator || validator.Validator == nil {
		t.Error("validator account is missing its validation record")
	}

	mut, ok := chain.GetAccountMut("alice")
	if !ok {
		t.Fatal("alice missing")
	}
	mut.Store["k"] = "v"
	if alice, _ := chain.GetAccount("alice"); alice.Store["k"] != "v" {
		t.Error("mutation through GetAccountMut not visible")
	}
}

func TestLookupsAndPendingBuffer(t *testing.T) {
	chain := NewBlockchain()
	genesis := bootstrapBlock(t)
	if err := chain.AppendBlock(genesis); err != nil {
		t.Fatalf("genesis append: %v", err)
	}

	if !bytes.Equal(chain.LastBlockHash(), genesis.Hash) {
		t.Error("tip hash does not match the committed block")
	}
	if got := chain.GetBlockByHash(genesis.Hash); got != genesis {
		t.Error("GetBlockByHash did not return the committed block")
	}
	if got := chain.GetBlockByHash([]byte("nope")); got != nil {
		t.Error("GetBlockByHash returned a block for an unknown hash")
	}

	committed := genesis.Transactions[0]
	if got := chain.GetTransactionByHash(committed.CalculateHash()); got != committed {
		t.Error("GetTransactionByHash did not find a committed transaction")
	}

	pending := NewTransaction("alice", TransferTokens{To: "bob", Amount: 1}, 3)
	chain.AddTransaction(pending)
	if chain.PendingTransactionCount() != 1 {
		t.Errorf("pending buffer holds %d transactions, expected 1", chain.PendingTransactionCount())
	}
	if got := chain.GetTransactionByHash(pending.CalculateHash()); got != pending {
		t.Error("GetTransactionByHash did not find a pending transaction")
	}
}

func TestIndependentChains(t *testing.T) {
	first := NewBlockchain()
	second := NewBlockchain()

	if err := first.AppendBlock(bootstrapBlock(t)); err != nil {
		t.Fatalf("genesis append: %v", err)
	}

	if second.Len() != 0 {
		t.Error("appending to one chain affected another")
	}
	if _, ok := second.GetAccount("alice"); ok {
		t.Error("account leaked across chain instances")
	}
}
