package cmd

import (
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/merkle"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/spf13/cobra"
)

var (
	proveTxID string
	proveOut  string
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Build the tree root and the inclusion proof for a txid.",
	RunE:  proveRun,
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().StringVar(&proveTxID, "txid", "", "The txid to prove inclusion for.")
	proveCmd.Flags().StringVarP(&proveOut, "out", "o", "solutions/exercise02.txt", "Output proof file.")
	proveCmd.MarkFlagRequired("txid")
}

func proveRun(cmd *cobra.Command, args []string) error {
	target, err := txid.Parse(proveTxID)
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

	if err := storage.SaveProofFile(proveOut, root, siblings); err != nil {
		return err
	}

	fmt.Println("OK")
	fmt.Printf("Merkle root : %s\n", tree.RootHex())
	fmt.Printf("Proof length: %d\n", len(siblings))
	fmt.Printf("Wrote       : %s\n", proveOut)

	return nil
}
