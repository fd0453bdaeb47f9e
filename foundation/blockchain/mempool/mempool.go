// Package mempool maintains the table of transactions available for
// block construction and validates candidate transaction lists against
// the weight limit and the ancestor ordering rule.
package mempool

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

// DefaultWeightLimit is the block weight limit used when the policy
// does not override it.
const DefaultWeightLimit = 4_000_000

// =============================================================================

// Tx represents one mempool table row.
type Tx struct {
	ID      txid.TxID
	Fee     uint64
	Weight  uint64
	Parents []txid.TxID
}

// Mempool represents the set of transactions a candidate block may
// draw from. It is read once and never mutated.
type Mempool struct {
	txs map[txid.TxID]Tx
}

// Load consumes the mempool table from the reader. Rows are headerless
// CSV: txid,fee,weight[,parents] with parents semicolon separated.
// Failures carry the offending line number.
func Load(r io.Reader) (*Mempool, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	txs := make(map[txid.TxID]Tx)

	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mempool line %d: %w", line, err)
		}

		if len(row) < 3 {
			return nil, fmt.Errorf("mempool line %d: expected at least 3 columns (txid,fee,weight[,parents]), got %d", line, len(row))
		}

		id, err := txid.Parse(row[0])
		if err != nil {
			return nil, fmt.Errorf("mempool line %d: %w", line, err)
		}

		fee, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("mempool line %d: malformed fee %q", line, row[1])
		}

		weight, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("mempool line %d: malformed weight %q", line, row[2])
		}

		var parents []txid.TxID
		if len(row) >= 4 && strings.TrimSpace(row[3]) != "" {
			for _, p := range strings.Split(row[3], ";") {
				p = strings.TrimSpace(p)
				if p == "" {
					continue
				}

				parent, err := txid.Parse(p)
				if err != nil {
					return nil, fmt.Errorf("mempool line %d: parent: %w", line, err)
				}
				parents = append(parents, parent)
			}
		}

		txs[id] = Tx{ID: id, Fee: fee, Weight: weight, Parents: parents}
	}

	if len(txs) == 0 {
		return nil, fmt.Errorf("mempool table is empty")
	}

	return &Mempool{txs: txs}, nil
}

// LoadFile consumes the mempool table from the specified file.
func LoadFile(path string) (*Mempool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mempool table: %w", err)
	}
	defer f.Close()

	mp, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return mp, nil
}

// Count returns the number of transactions in the table.
func (mp *Mempool) Count() int {
	return len(mp.txs)
}

// Lookup returns the table row for the specified identifier.
func (mp *Mempool) Lookup(id txid.TxID) (Tx, bool) {
	tx, exists := mp.txs[id]
	return tx, exists
}
