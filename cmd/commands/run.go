package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/minichain/minichain/pkg/core"
	"github.com/minichain/minichain/pkg/crypto"
)

var txsPath string

// txSpec is the on-disk shape of one transaction in a replay file: a JSON
// array of these builds one block on top of the genesis block.
type txSpec struct {
	Kind   string `json:"kind"`
	From   string `json:"from"`
	Nonce  uint64 `json:"nonce"`
	ID     string `json:"id,omitempty"`
	To     string `json:"to,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
	Amount uint64 `json:"amount,omitempty"`
}

func (s txSpec) record() (core.TransactionData, error) {
	switch s.Kind {
	case "create-account":
		return core.CreateUserAccount{ID: s.ID}, nil
	case "store":
		return core.ChangeStoreValue{Key: s.Key, Value: s.Value}, nil
	case "transfer":
		return core.TransferTokens{To: s.To, Amount: s.Amount}, nil
	case "mint":
		return core.CreateTokens{Receiver: s.To, Amount: s.Amount}, nil
	default:
		return nil, fmt.Errorf("unknown transaction kind %q", s.Kind)
	}
}

// runCmd builds a chain from the genesis configuration, optionally replays a
// transactions file on top of it, and prints the resulting account state.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Commit the genesis block and print the resulting ledger state",
	Long: `Load the genesis configuration from the data directory, commit the genesis
block, optionally replay a JSON transactions file as a second block, and
print the resulting account balances.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

		genesis, err := core.FromJSON(filepath.Join(dataDir, "genesis.json"))
		if err != nil {
			pterm.Error.Printfln("Error loading genesis configuration: %v", err)
			return
		}

		chain := core.NewBlockchain()
		if err := genesis.Commit(chain); err != nil {
			pterm.Error.Printfln("Error committing genesis block: %v", err)
			return
		}
		logger.Info("genesis committed",
			"chainId", genesis.ChainID,
			"accounts", len(genesis.Accounts),
			"tip", crypto.ToHex(chain.LastBlockHash()))

		if txsPath != "" {
			if err := replayTransactions(chain, txsPath); err != nil {
				pterm.Error.Printfln("Error replaying transactions: %v", err)
				return
			}
			logger.Info("transactions replayed",
				"file", txsPath,
				"blocks", chain.Len(),
				"tip", crypto.ToHex(chain.LastBlockHash()))
		}

		printState(chain)
	},
}

// replayTransactions packs every transaction in the file into one block and
// submits it to the chain.
func replayTransactions(chain *core.Blockchain, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var specs []txSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return fmt.Errorf("invalid transactions file %s: %w", path, err)
	}

	block := core.NewBlock(chain.LastBlockHash())
	for _, spec := range specs {
		record, err := spec.record()
		if err != nil {
			return err
		}
		block.AddTransaction(core.NewTransaction(spec.From, record, spec.Nonce))
	}
	block.SetNonce(uint64(chain.Len()))

	return chain.AppendBlock(block)
}

func printState(chain *core.Blockchain) {
	table := pterm.TableData{{"Account", "Type", "Tokens"}}
	for _, id := range chain.UserIDs() {
		acc, ok := chain.GetAccount(id)
		if !ok {
			continue
		}
		table = append(table, []string{id, acc.Type.String(), fmt.Sprintf("%d", acc.Tokens)})
	}

	pterm.Println()
	if err := pterm.DefaultTable.WithHasHeader().WithData(table).Render(); err != nil {
		fmt.Println(table)
	}
	pterm.Info.Printfln("Chain length: %d, tip: %s", chain.Len(), crypto.ToHex(chain.LastBlockHash()))
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&txsPath, "txs", "", "JSON transactions file to replay on top of genesis")
}
