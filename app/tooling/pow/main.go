// This program provides the command line tooling for the proof of work
// exercises: building inclusion proofs, checking submissions, mining
// headers and validating candidate blocks.
package main

import "github.com/edilmedeiros/cde2025.3-proof-of-work/app/tooling/pow/cmd"

func main() {
	cmd.Execute()
}
