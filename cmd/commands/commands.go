package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/minichain/minichain/pkg/core"
)

var (
	// Global flags
	chainID string
	dataDir string
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "minichain",
	Short: "MiniChain - minimal single-node account ledger",
	Long: `MiniChain is a minimal single-node ledger: an append-only chain of blocks
of account-affecting transactions, secured by a cryptographic hash chain.
Blocks are applied atomically: either every transaction in a block succeeds,
or the whole block is rejected and the account state is left unchanged.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&chainID, "chain-id", "minichain-1", "Chain ID")
	RootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Data directory")

	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(initCmd)
}

// defaultDataDir returns the default data directory.
func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.minichain"
	}
	return filepath.Join(homeDir, ".minichain")
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	viper.SetDefault("chain-id", "minichain-1")
	viper.SetDefault("data-dir", defaultDataDir())

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.minichain")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// versionCmd prints the version number.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("MiniChain v0.1.0")
	},
}

// initCmd creates the data directory and a fresh genesis configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new chain",
	Long:  `Initialize a new chain by writing a genesis configuration into the data directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := os.MkdirAll(dataDir, 0700); err != nil {
			pterm.Error.Printfln("Error creating data directory: %v", err)
			return
		}

		genesis := core.DefaultGenesis()
		genesis.SetChainID(chainID)

		genesisPath := filepath.Join(dataDir, "genesis.json")
		if err := genesis.ToJSON(genesisPath); err != nil {
			pterm.Error.Printfln("Error saving genesis configuration: %v", err)
			return
		}

		pterm.Success.Printfln("Genesis configuration saved to %s", genesisPath)
		pterm.Info.Println("Add accounts and allocations with: minichain genesis add-account / add-allocation")
	},
}
