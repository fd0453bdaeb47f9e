// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"math/big"
	"net/http"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/app/services/grader/handlers/v1/gradegrp"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/mempool"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/policy"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/events"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log        *zap.SugaredLogger
	Leafs      []txid.TxID
	Policy     policy.Policy
	Target     *big.Int
	RequiredTx *txid.TxID
	Mempool    *mempool.Mempool
	Digests    []txid.TxID
	Evts       *events.Events
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	ggh := gradegrp.Handlers{
		Log:        cfg.Log,
		Leafs:      cfg.Leafs,
		Policy:     cfg.Policy,
		Target:     cfg.Target,
		RequiredTx: cfg.RequiredTx,
		Mempool:    cfg.Mempool,
		Digests:    cfg.Digests,
		WS:         websocket.Upgrader{},
		Evts:       cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", ggh.Events)
	app.Handle(http.MethodGet, version, "/tree/root", ggh.TreeRoot)
	app.Handle(http.MethodPost, version, "/proof/verify", ggh.VerifyProof)
	app.Handle(http.MethodPost, version, "/proof/committed", ggh.VerifyCommitted)
	app.Handle(http.MethodPost, version, "/block/verify", ggh.VerifyBlock)
	app.Handle(http.MethodGet, version, "/mempool/:txid", ggh.MempoolTx)
	app.Handle(http.MethodPost, version, "/candidate/check", ggh.CheckCandidate)
	app.Handle(http.MethodPost, version, "/mine", ggh.Mine)
}
