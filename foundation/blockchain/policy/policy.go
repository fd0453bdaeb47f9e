// Package policy maintains access to the grading policy file: the
// block weight limit, the block template defaults and where the
// required transaction and coinbase identifiers come from. Values are
// read once and passed into the components as explicit parameters;
// nothing reads globals at check time.
package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/validate"
)

// RequiredTxEnv is the environment variable consulted first when
// resolving the required transaction identifier.
const RequiredTxEnv = "REQUIRED_TXID"

// Template represents the block template defaults for mining.
type Template struct {
	Version        int32  `json:"version"`
	PrevHash       string `json:"prev_hash" validate:"omitempty,hexadecimal,len=64"`
	NBits          string `json:"nbits" validate:"required,hexadecimal,len=8"`
	Time           uint32 `json:"time"`
	StartNonce     uint32 `json:"start_nonce"`
	MaxTries       uint64 `json:"max_tries" validate:"required,gt=0"`
	AllowTimeShift bool   `json:"allow_time_shift"`
}

// Policy represents the grading policy file.
type Policy struct {
	WeightLimit    uint64   `json:"weight_limit"`
	RequiredTxFile string   `json:"required_tx_file"`
	CoinbaseTxFile string   `json:"coinbase_tx_file"`
	Template       Template `json:"template"`
}

// Load opens and consumes the policy file.
func Load(path string) (Policy, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}

	var p Policy
	if err := json.Unmarshal(content, &p); err != nil {
		return Policy{}, fmt.Errorf("parsing policy file: %w", err)
	}

	if err := validate.Check(p.Template); err != nil {
		return Policy{}, fmt.Errorf("invalid policy template: %w", err)
	}

	return p, nil
}

// RequiredTx resolves the required transaction identifier with the
// priority order environment value, fallback file, absent. A nil
// return with a nil error means the check is skipped.
func (p Policy) RequiredTx() (*txid.TxID, error) {
	if s := os.Getenv(RequiredTxEnv); s != "" {
		id, err := txid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", RequiredTxEnv, err)
		}
		return &id, nil
	}

	if p.RequiredTxFile != "" {
		if _, err := os.Stat(p.RequiredTxFile); err == nil {
			s, err := storage.FirstLine(p.RequiredTxFile)
			if err != nil {
				return nil, err
			}

			id, err := txid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.RequiredTxFile, err)
			}
			return &id, nil
		}
	}

	return nil, nil
}

// Coinbase resolves the optional coinbase identifier from the policy
// file path. A nil return with a nil error means the leaf list is used
// as loaded.
func (p Policy) Coinbase() (*txid.TxID, error) {
	return CoinbaseFromFile(p.CoinbaseTxFile)
}

// CoinbaseFromFile reads the first non blank line of the specified file
// as the coinbase identifier. A missing or empty file means no
// coinbase; a malformed line is an error.
func CoinbaseFromFile(path string) (*txid.TxID, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	s, err := storage.FirstLine(path)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return nil, nil
		}
		return nil, err
	}

	id, err := txid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%s: coinbase: %w", path, err)
	}

	return &id, nil
}

// PrependCoinbase places the coinbase identifier in front of the leaf
// sequence. A nil coinbase returns the sequence untouched.
func PrependCoinbase(leafs []txid.TxID, coinbase *txid.TxID) []txid.TxID {
	if coinbase == nil {
		return leafs
	}

	out := make([]txid.TxID, 0, len(leafs)+1)
	out = append(out, *coinbase)
	out = append(out, leafs...)

	return out
}

// PrevHashID returns the template previous hash, a zero hash when the
// policy leaves it unset.
func (t Template) PrevHashID() (txid.TxID, error) {
	if t.PrevHash == "" {
		return txid.TxID{}, nil
	}

	return txid.Parse(t.PrevHash)
}
