package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
)

// ErrChainInitialized means Commit was called on a chain that already has a
// genesis block.
var ErrChainInitialized = errors.New("chain already has a genesis block")

// GenesisAlloc maps account ids to their initial token balance.
type GenesisAlloc map[string]uint64

// Genesis specifies the bootstrap state of a new chain: the accounts to
// create and the tokens to mint onto them. Committing a Genesis builds the
// one block in which minting is permitted and appends it through the normal
// validation path.
type Genesis struct {
	ChainID   string       `json:"chainId"`
	Timestamp uint64       `json:"timestamp"`
	ExtraData string       `json:"extraData"`
	Nonce     uint64       `json:"nonce"`
	Accounts  []string     `json:"accounts"`
	Alloc     GenesisAlloc `json:"alloc"`
}

// DefaultGenesis returns the main net genesis configuration.
func DefaultGenesis() *Genesis {
	return &Genesis{
		ChainID:   "minichain-1",
		Timestamp: uint64(time.Now().Unix()),
		ExtraData: "MiniChain Genesis Block",
		Accounts:  []string{},
		Alloc:     make(GenesisAlloc),
	}
}

// TestnetGenesis returns the test net genesis configuration.
func TestnetGenesis() *Genesis {
	genesis := DefaultGenesis()
	genesis.ChainID = "minichain-testnet-1"
	return genesis
}

// DevGenesis returns a development genesis configuration with a pre-funded
// dev account.
func DevGenesis() *Genesis {
	genesis := DefaultGenesis()
	genesis.ChainID = "minichain-dev-1"
	genesis.Accounts = []string{"dev"}
	genesis.Alloc["dev"] = 1_000_000
	return genesis
}

// SetChainID overrides the chain id.
func (g *Genesis) SetChainID(id string) {
	g.ChainID = id
}

// AddAccount registers an account to be created in the genesis block.
func (g *Genesis) AddAccount(id string) error {
	for _, existing := range g.Accounts {
		if existing == id {
			return fmt.Errorf("%w: %s", ErrAccountExists, id)
		}
	}
	g.Accounts = append(g.Accounts, id)
	return nil
}

// AddAllocation sets the initial balance minted onto id, registering the
// account first if it is not listed yet.
func (g *Genesis) AddAllocation(id string, amount uint64) error {
	listed := false
	for _, existing := range g.Accounts {
		if existing == id {
			listed = true
			break
		}
	}
	if !listed {
		g.Accounts = append(g.Accounts, id)
	}
	g.Alloc[id] = amount
	return nil
}

// ToJSON writes the genesis configuration to a file.
func (g *Genesis) ToJSON(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FromJSON loads a genesis configuration from a file.
func FromJSON(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	genesis := new(Genesis)
	if err := json.Unmarshal(data, genesis); err != nil {
		return nil, fmt.Errorf("invalid genesis file %s: %w", path, err)
	}
	if genesis.Alloc == nil {
		genesis.Alloc = make(GenesisAlloc)
	}
	return genesis, nil
}

// Block assembles the genesis block: one CreateUserAccount transaction per
// listed account, in listing order, followed by one CreateTokens transaction
// per allocation, in lexical order of the receiver. Each transaction is
// issued from the account it concerns, which the genesis pass permits.
func (g *Genesis) Block() *Block {
	block := NewBlock(nil)

	var nonce uint64
	for _, id := range g.Accounts {
		block.AddTransaction(NewTransaction(id, CreateUserAccount{ID: id}, nonce))
		nonce++
	}

	receivers := make([]string, 0, len(g.Alloc))
	for id := range g.Alloc {
		receivers = append(receivers, id)
	}
	sort.Strings(receivers)

	for _, id := range receivers {
		record := CreateTokens{Receiver: id, Amount: g.Alloc[id]}
		block.AddTransaction(NewTransaction(id, record, nonce))
		nonce++
	}

	block.SetNonce(g.Nonce)
	return block
}

// Commit builds the genesis block and appends it to bc. Fails with
// ErrChainInitialized when the chain is not empty; any other failure comes
// from AppendBlock and leaves bc untouched.
func (g *Genesis) Commit(bc *Blockchain) error {
	if bc.Len() != 0 {
		return ErrChainInitialized
	}
	return bc.AppendBlock(g.Block())
}
