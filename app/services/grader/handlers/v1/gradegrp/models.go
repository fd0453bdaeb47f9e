package gradegrp

import (
	"fmt"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

type rootResponse struct {
	Root   txid.TxID `json:"root"`
	Height int       `json:"height"`
	Leafs  int       `json:"leafs"`
}

type proofRequest struct {
	TxID  txid.TxID   `json:"txid" validate:"required"`
	Root  txid.TxID   `json:"root" validate:"required"`
	Proof []txid.TxID `json:"proof"`
}

type committedRequest struct {
	Root  txid.TxID   `json:"root" validate:"required"`
	Proof []txid.TxID `json:"proof"`
}

type blockRequest struct {
	Header string `json:"header" validate:"required,hexadecimal"`
}

type candidateRequest struct {
	TxIDs []txid.TxID `json:"txids" validate:"required,min=1"`
}

type acceptResponse struct {
	Accepted bool      `json:"accepted"`
	Root     txid.TxID `json:"root"`
	Depth    int       `json:"depth"`
}

type blockResponse struct {
	Accepted bool      `json:"accepted"`
	Hash     txid.TxID `json:"hash"`
	Time     uint32    `json:"time"`
	Nonce    uint64    `json:"nonce"`
}

type mempoolTxResponse struct {
	TxID    txid.TxID   `json:"txid"`
	Fee     uint64      `json:"fee"`
	Weight  uint64      `json:"weight"`
	Parents []txid.TxID `json:"parents,omitempty"`
}

type candidateResponse struct {
	Accepted    bool   `json:"accepted"`
	TxCount     int    `json:"tx_count"`
	TotalWeight uint64 `json:"total_weight"`
}

type mineResponse struct {
	Header   string    `json:"header"`
	Hash     txid.TxID `json:"hash"`
	Time     uint32    `json:"time"`
	Nonce    uint64    `json:"nonce"`
	Attempts uint64    `json:"attempts"`
}

// formatEvent renders an event message for the websocket stream.
func formatEvent(v string, args ...any) string {
	return fmt.Sprintf(v, args...)
}
