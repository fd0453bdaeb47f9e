// Package cmd contains the pow tooling commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/merkle"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/policy"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/spf13/cobra"
)

var (
	txFile       string
	coinbaseFile string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&txFile, "tx-file", "t", "data/ex02_txid_list.txt", "Path to the newline separated txid list.")
	rootCmd.PersistentFlags().StringVar(&coinbaseFile, "coinbase-file", "data/coinbase_txid.txt", "Optional coinbase txid file prepended to the list when present.")
}

// loadLeafs reads the txid list and prepends the optional coinbase
// identifier when its file exists.
func loadLeafs() ([]txid.TxID, error) {
	leafs, err := storage.LoadTxIDsFile(txFile)
	if err != nil {
		return nil, err
	}

	coinbase, err := policy.CoinbaseFromFile(coinbaseFile)
	if err != nil {
		return nil, err
	}

	return policy.PrependCoinbase(leafs, coinbase), nil
}

var rootCmd = &cobra.Command{
	Use:           "pow",
	Short:         "Tooling for the proof of work exercises",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the selected command. Rejects and failures exit with
// status 1 after printing the structured reason; internal consistency
// errors are labeled as such since they indicate a bug in the checker,
// not in the submission.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ce *merkle.ConsistencyError
		if errors.As(err, &ce) {
			fmt.Fprintf(os.Stderr, "INTERNAL: %s\n", err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "FAIL: %s\n", err)
		os.Exit(1)
	}
}
