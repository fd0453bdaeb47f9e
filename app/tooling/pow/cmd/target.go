package cmd

import (
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/difficulty"
	"github.com/spf13/cobra"
)

var targetNBits string

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Decode a compact difficulty encoding into the full 256-bit target.",
	RunE:  targetRun,
}

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.Flags().StringVar(&targetNBits, "nbits", "", "Compact encoding as 8 hex characters.")
	targetCmd.MarkFlagRequired("nbits")
}

func targetRun(cmd *cobra.Command, args []string) error {
	target, err := difficulty.ParseHex(targetNBits)
	if err != nil {
		return err
	}

	fmt.Println(difficulty.TargetHex(target))

	return nil
}
