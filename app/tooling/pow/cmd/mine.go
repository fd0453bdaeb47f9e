package cmd

import (
	"context"
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/difficulty"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/merkle"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/miner"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/policy"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/spf13/cobra"
)

var (
	minePolicy string
	mineOut    string
	mineQuiet  bool
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Search for a nonce that takes the block header under the target.",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVar(&minePolicy, "policy", "data/policy.json", "Policy file with the block template defaults.")
	mineCmd.Flags().StringVarP(&mineOut, "out", "o", "solutions/exercise04.txt", "Output header file.")
	mineCmd.Flags().BoolVarP(&mineQuiet, "quiet", "q", false, "Suppress search progress output.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	pol, err := policy.Load(minePolicy)
	if err != nil {
		return err
	}

	target, err := difficulty.ParseHex(pol.Template.NBits)
	if err != nil {
		return err
	}

	prevHash, err := pol.Template.PrevHashID()
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

	tpl := miner.Template{
		Version:        pol.Template.Version,
		PrevHash:       prevHash,
		MerkleRoot:     tree.Root(),
		Time:           pol.Template.Time,
		StartNonce:     pol.Template.StartNonce,
		MaxTries:       pol.Template.MaxTries,
		AllowTimeShift: pol.Template.AllowTimeShift,
	}

	ev := func(v string, args ...any) {
		fmt.Printf(v+"\n", args...)
	}
	if mineQuiet {
		ev = nil
	}

	result, err := miner.Search(context.Background(), tpl, target, ev)
	if err != nil {
		return err
	}

	hdrHex := result.Header.MarshalHex()
	if err := storage.SaveHeaderHexFile(mineOut, hdrHex); err != nil {
		return err
	}

	fmt.Println("OK")
	fmt.Printf("Header  : %s\n", hdrHex)
	fmt.Printf("Digest  : %s\n", result.Digest)
	fmt.Printf("Attempts: %d\n", result.Attempts)
	fmt.Printf("Wrote   : %s\n", mineOut)

	return nil
}
