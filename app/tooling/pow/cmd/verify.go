package cmd

import (
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/verify"
	"github.com/spf13/cobra"
)

var (
	verifyTxID      string
	verifyProof     string
	verifyCommitted string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an inclusion proof against the tx list or a committed digest list.",
	RunE:  verifyRun,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyTxID, "txid", "", "The txid the proof claims inclusion for.")
	verifyCmd.Flags().StringVarP(&verifyProof, "proof", "p", "", "Proof file: root on the first line, siblings after.")
	verifyCmd.Flags().StringVar(&verifyCommitted, "committed", "", "Digest reference file. When set, checks against committed digests instead of replaying the tree.")
	verifyCmd.MarkFlagRequired("proof")
}

func verifyRun(cmd *cobra.Command, args []string) error {
	root, siblings, err := storage.LoadProofFile(verifyProof)
	if err != nil {
		return err
	}

	sub := verify.Submission{
		Root:     root,
		Siblings: siblings,
	}

	var ref verify.Reference
	var mode int

	switch {
	case verifyCommitted != "":
		digests, err := storage.LoadDigestsFile(verifyCommitted)
		if err != nil {
			return err
		}
		ref.Digests = digests
		mode = verify.ModeCommitted

	default:
		if verifyTxID == "" {
			return fmt.Errorf("either --txid or --committed must be set")
		}
		target, err := txid.Parse(verifyTxID)
		if err != nil {
			return err
		}
		leafs, err := loadLeafs()
		if err != nil {
			return err
		}
		ref.Leafs = leafs
		ref.Target = target
		mode = verify.ModeReplay
	}

	vrf, err := verify.NewVerifier(mode)
	if err != nil {
		return err
	}

	if err := vrf.Check(ref, sub); err != nil {
		return err
	}

	fmt.Println("ACCEPT")

	return nil
}
