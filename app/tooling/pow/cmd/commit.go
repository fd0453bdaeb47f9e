package cmd

import (
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/merkle"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/verify"
	"github.com/spf13/cobra"
)

var (
	commitTxID string
	commitOut  string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate the digest reference for a proof so it can be checked later without the tx list.",
	RunE:  commitRun,
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVar(&commitTxID, "txid", "", "The txid whose proof gets committed.")
	commitCmd.Flags().StringVarP(&commitOut, "out", "o", "data/proof_digests.txt", "Output digest file.")
	commitCmd.MarkFlagRequired("txid")
}

func commitRun(cmd *cobra.Command, args []string) error {
	target, err := txid.Parse(commitTxID)
	if err != nil {
		return err
	}

	leafs, err := loadLeafs()
	if err != nil {
		return err
	}

	tree, err := merkle.NewTree(leafs)
	if err != nil {
		return err
	}

	root, siblings, err := tree.Proof(target)
	if err != nil {
		return err
	}

	vrf, err := verify.NewVerifier(verify.ModeCommitted)
	if err != nil {
		return err
	}
	digests := vrf.Commitment(root, siblings)

	if err := storage.SaveDigestsFile(commitOut, digests); err != nil {
		return err
	}

	fmt.Println("OK")
	fmt.Printf("Digests: %d\n", len(digests))
	fmt.Printf("Wrote  : %s\n", commitOut)

	return nil
}
