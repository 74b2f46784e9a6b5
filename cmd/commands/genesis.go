package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/minichain/minichain/pkg/core"
)

var (
	genesisPath    string
	genesisNetwork string
	genesisAlloc   string
	genesisChainID string
)

// genesisCmd groups the genesis configuration subcommands.
var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Manage genesis configuration",
	Long:  `Create and manage the genesis configuration for a MiniChain ledger.`,
}

// genesisInitCmd writes a fresh genesis configuration.
var genesisInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new genesis configuration",
	Run: func(cmd *cobra.Command, args []string) {
		var genesis *core.Genesis

		switch genesisNetwork {
		case "mainnet":
			genesis = core.DefaultGenesis()
		case "testnet":
			genesis = core.TestnetGenesis()
		case "devnet":
			genesis = core.DevGenesis()
		default:
			pterm.Warning.Printfln("Invalid network type: %s. Using default.", genesisNetwork)
			genesis = core.DefaultGenesis()
		}

		if genesisChainID != "" {
			genesis.SetChainID(genesisChainID)
		}

		// Allocations come in as a comma-separated list of account:amount.
		if genesisAlloc != "" {
			for _, allocation := range strings.Split(genesisAlloc, ",") {
				parts := strings.Split(allocation, ":")
				if len(parts) != 2 {
					pterm.Warning.Printfln("Invalid allocation format: %s", allocation)
					continue
				}

				id := strings.TrimSpace(parts[0])
				amount, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
				if err != nil {
					pterm.Warning.Printfln("Invalid amount: %s", parts[1])
					continue
				}

				if err := genesis.AddAllocation(id, amount); err != nil {
					pterm.Warning.Printfln("Error adding allocation to %s: %v", id, err)
				}
			}
		}

		if err := os.MkdirAll(filepath.Dir(genesisPath), 0755); err != nil {
			pterm.Error.Printfln("Error creating genesis directory: %v", err)
			return
		}

		if err := genesis.ToJSON(genesisPath); err != nil {
			pterm.Error.Printfln("Error saving genesis configuration: %v", err)
			return
		}

		pterm.Success.Printfln("Genesis configuration saved to: %s", genesisPath)
	},
}

// genesisAddAccountCmd registers an account in the genesis configuration.
var genesisAddAccountCmd = &cobra.Command{
	Use:   "add-account <id>",
	Short: "Add an account to the genesis configuration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		genesis, err := core.FromJSON(genesisPath)
		if err != nil {
			pterm.Error.Printfln("Error loading genesis configuration: %v", err)
			return
		}

		if err := genesis.AddAccount(id); err != nil {
			pterm.Error.Printfln("Error adding account: %v", err)
			return
		}

		if err := genesis.ToJSON(genesisPath); err != nil {
			pterm.Error.Printfln("Error saving genesis configuration: %v", err)
			return
		}

		pterm.Success.Printfln("Account %s added to genesis configuration.", id)
	},
}

// genesisAddAllocationCmd sets an initial balance in the genesis configuration.
var genesisAddAllocationCmd = &cobra.Command{
	Use:   "add-allocation <id> <amount>",
	Short: "Add a token allocation to the genesis configuration",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		amount, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			pterm.Error.Printfln("Invalid amount: %s", args[1])
			return
		}

		genesis, err := core.FromJSON(genesisPath)
		if err != nil {
			pterm.Error.Printfln("Error loading genesis configuration: %v", err)
			return
		}

		if err := genesis.AddAllocation(id, amount); err != nil {
			pterm.Error.Printfln("Error adding allocation: %v", err)
			return
		}

		if err := genesis.ToJSON(genesisPath); err != nil {
			pterm.Error.Printfln("Error saving genesis configuration: %v", err)
			return
		}

		pterm.Success.Printfln("Allocation of %d to %s added to genesis configuration.", amount, id)
	},
}

// genesisShowCmd prints the genesis configuration.
var genesisShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the genesis configuration",
	Run: func(cmd *cobra.Command, args []string) {
		genesis, err := core.FromJSON(genesisPath)
		if err != nil {
			pterm.Error.Printfln("Error loading genesis configuration: %v", err)
			return
		}

		data, err := json.MarshalIndent(genesis, "", "  ")
		if err != nil {
			pterm.Error.Printfln("Error marshaling genesis configuration: %v", err)
			return
		}

		fmt.Println(string(data))
	},
}

func init() {
	RootCmd.AddCommand(genesisCmd)

	genesisCmd.AddCommand(genesisInitCmd)
	genesisCmd.AddCommand(genesisAddAccountCmd)
	genesisCmd.AddCommand(genesisAddAllocationCmd)
	genesisCmd.AddCommand(genesisShowCmd)

	genesisInitCmd.Flags().StringVar(&genesisPath, "output", "genesis.json", "Output file for genesis configuration")
	genesisInitCmd.Flags().StringVar(&genesisNetwork, "network", "mainnet", "Network type (mainnet, testnet, devnet)")
	genesisInitCmd.Flags().StringVar(&genesisAlloc, "alloc", "", "Comma-separated list of allocations in format account:amount")
	genesisInitCmd.Flags().StringVar(&genesisChainID, "chain-id", "", "Chain ID")

	genesisAddAccountCmd.Flags().StringVar(&genesisPath, "genesis", "genesis.json", "Genesis configuration file")
	genesisAddAllocationCmd.Flags().StringVar(&genesisPath, "genesis", "genesis.json", "Genesis configuration file")
	genesisShowCmd.Flags().StringVar(&genesisPath, "genesis", "genesis.json", "Genesis configuration file")
}
