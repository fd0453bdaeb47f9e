package cmd

import (
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/block"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/difficulty"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/merkle"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/policy"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/verify"
	"github.com/spf13/cobra"
)

var (
	blockHeader string
	blockPolicy string
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Grade a mined header record against the tx list and the policy target.",
	RunE:  blockRun,
}

func init() {
	rootCmd.AddCommand(blockCmd)
	blockCmd.Flags().StringVar(&blockHeader, "header", "solutions/exercise04.txt", "Header record file, one line of 160 hex characters.")
	blockCmd.Flags().StringVar(&blockPolicy, "policy", "data/policy.json", "Policy file with the compact target.")
}

func blockRun(cmd *cobra.Command, args []string) error {
	record, err := storage.LoadHeaderHexFile(blockHeader)
	if err != nil {
		return err
	}

	hdr, err := block.UnmarshalHex(record)
	if err != nil {
		return err
	}

	pol, err := policy.Load(blockPolicy)
	if err != nil {
		return err
	}

	target, err := difficulty.ParseHex(pol.Template.NBits)
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

	digest, err := verify.CheckHeader(hdr, tree.Root(), target)
	if err != nil {
		return err
	}

	fmt.Println("ACCEPT")
	fmt.Printf("Digest: %s\n", digest)
	fmt.Printf("Time  : %d\n", hdr.Time)
	fmt.Printf("Nonce : %d\n", hdr.Nonce)

	return nil
}
