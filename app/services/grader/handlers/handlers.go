// Package handlers manages the different versions of the API.
package handlers

import (
	"expvar"
	"math/big"
	"net/http"
	"net/http/pprof"
	"os"

	v1 "github.com/edilmedeiros/cde2025.3-proof-of-work/app/services/grader/handlers/v1"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/business/web/mid"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/mempool"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/policy"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/events"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/web"
	"go.uber.org/zap"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown   chan os.Signal
	Log        *zap.SugaredLogger
	Leafs      []txid.TxID
	Policy     policy.Policy
	Target     *big.Int
	RequiredTx *txid.TxID
	Mempool    *mempool.Mempool
	Digests    []txid.TxID
	Evts       *events.Events
}

// PublicMux constructs a http.Handler with all application routes defined.
func PublicMux(cfg MuxConfig) http.Handler {

	// Construct the web.App which holds all routes as well as common Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Cors("*"),
		mid.Panics(),
	)

	// Load the v1 routes.
	v1.Routes(app, v1.Config{
		Log:        cfg.Log,
		Leafs:      cfg.Leafs,
		Policy:     cfg.Policy,
		Target:     cfg.Target,
		RequiredTx: cfg.RequiredTx,
		Mempool:    cfg.Mempool,
		Digests:    cfg.Digests,
		Evts:       cfg.Evts,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the standard
// library into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}
