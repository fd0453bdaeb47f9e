package cmd

import (
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/mempool"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/policy"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/spf13/cobra"
)

var (
	checkMempool   string
	checkCandidate string
	checkPolicy    string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a candidate block against the mempool and the block policy.",
	RunE:  checkRun,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkMempool, "mempool", "m", "data/mempool.csv", "Mempool CSV file.")
	checkCmd.Flags().StringVarP(&checkCandidate, "candidate", "c", "", "Candidate file, one txid per line in block order.")
	checkCmd.Flags().StringVar(&checkPolicy, "policy", "data/policy.json", "Policy file with the weight limit and required txid source.")
	checkCmd.MarkFlagRequired("candidate")
}

func checkRun(cmd *cobra.Command, args []string) error {
	mp, err := mempool.LoadFile(checkMempool)
	if err != nil {
		return err
	}

	list, err := storage.LoadTxIDsFile(checkCandidate)
	if err != nil {
		return err
	}

	pol, err := policy.Load(checkPolicy)
	if err != nil {
		return err
	}

	required, err := pol.RequiredTx()
	if err != nil {
		return err
	}

	rules := mempool.Rules{
		WeightLimit: pol.WeightLimit,
		RequiredTx:  required,
	}

	report, err := mp.CheckCandidate(list, rules)
	if err != nil {
		return err
	}

	fmt.Println("ACCEPT")
	fmt.Printf("Transactions: %d\n", report.TxCount)
	fmt.Printf("Total weight: %d\n", report.TotalWeight)

	return nil
}
