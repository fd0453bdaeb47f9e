// Package storage reads and writes the flat file artifacts exchanged
// between the tools: newline separated transaction identifier lists,
// proof files (root line then one sibling per line), committed digest
// reference files and single line header records. Loaders annotate
// failures with the line number; writers only ever emit a complete
// artifact.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

// LoadTxIDs consumes a newline separated list of 64 character hex
// identifiers. Blank lines are skipped; an empty list is an error.
func LoadTxIDs(r io.Reader) ([]txid.TxID, error) {
	var ids []txid.TxID

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			continue
		}

		id, err := txid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("no txids found")
	}

	return ids, nil
}

// LoadTxIDsFile consumes an identifier list from the specified file.
func LoadTxIDsFile(path string) ([]txid.TxID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening txid list: %w", err)
	}
	defer f.Close()

	ids, err := LoadTxIDs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ids, nil
}

// =============================================================================

// LoadProof consumes a proof file: the first non blank line is the
// root, each following line one sibling in leaf to root order. A proof
// of length zero is valid, the root alone.
func LoadProof(r io.Reader) (txid.TxID, []txid.TxID, error) {
	values, err := LoadTxIDs(r)
	if err != nil {
		return txid.TxID{}, nil, err
	}

	return values[0], values[1:], nil
}

// LoadProofFile consumes a proof file from the specified path.
func LoadProofFile(path string) (txid.TxID, []txid.TxID, error) {
	f, err := os.Open(path)
	if err != nil {
		return txid.TxID{}, nil, fmt.Errorf("opening proof file: %w", err)
	}
	defer f.Close()

	root, siblings, err := LoadProof(f)
	if err != nil {
		return txid.TxID{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	return root, siblings, nil
}

// SaveProof writes a proof artifact, root line first then the siblings
// leaf to root.
func SaveProof(w io.Writer, root txid.TxID, siblings []txid.TxID) error {
	var sb strings.Builder
	sb.WriteString(root.String())
	sb.WriteByte('\n')
	for _, sib := range siblings {
		sb.WriteString(sib.String())
		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing proof: %w", err)
	}

	return nil
}

// SaveProofFile writes a proof artifact to the specified path.
func SaveProofFile(path string, root txid.TxID, siblings []txid.TxID) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating proof file: %w", err)
	}
	defer f.Close()

	return SaveProof(f, root, siblings)
}

// =============================================================================

// LoadDigests consumes a committed digest reference file. It shares the
// identifier list shape: root digest first, one digest per proof level
// after it.
func LoadDigests(r io.Reader) ([]txid.TxID, error) {
	return LoadTxIDs(r)
}

// LoadDigestsFile consumes a committed digest reference file from the
// specified path.
func LoadDigestsFile(path string) ([]txid.TxID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening digest reference file: %w", err)
	}
	defer f.Close()

	digests, err := LoadDigests(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return digests, nil
}

// SaveDigests writes a committed digest reference artifact.
func SaveDigests(w io.Writer, digests []txid.TxID) error {
	var sb strings.Builder
	for _, d := range digests {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing digest reference: %w", err)
	}

	return nil
}

// SaveDigestsFile writes a committed digest reference artifact to the
// specified path.
func SaveDigestsFile(path string, digests []txid.TxID) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating digest reference file: %w", err)
	}
	defer f.Close()

	return SaveDigests(f, digests)
}

// =============================================================================

// LoadHeaderHex consumes a header record file: a single line of 160 hex
// characters. Surrounding blank lines are tolerated.
func LoadHeaderHex(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s != "" {
			return strings.ToLower(s), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("header record is empty")
}

// LoadHeaderHexFile consumes a header record from the specified path.
func LoadHeaderHexFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening header record: %w", err)
	}
	defer f.Close()

	s, err := LoadHeaderHex(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// SaveHeaderHexFile writes a header record to the specified path.
func SaveHeaderHexFile(path string, headerHex string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating header record: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, headerHex); err != nil {
		return fmt.Errorf("writing header record: %w", err)
	}

	return nil
}

// =============================================================================

// ErrEmptyFile is returned by FirstLine when the file holds no non
// blank line. Callers treating an empty source as absent test for it.
var ErrEmptyFile = errors.New("file is empty")

// FirstLine returns the first non blank line of the specified file,
// lowercased. Used for the required identifier and coinbase files.
func FirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s != "" {
			return strings.ToLower(s), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("%s: %w", path, ErrEmptyFile)
}
