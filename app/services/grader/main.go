// This program runs the grading service for the proof of work
// exercises: hash tree roots, inclusion proofs, candidate blocks and
// mined headers are checked over a local HTTP surface.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/app/services/grader/handlers"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/difficulty"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/mempool"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/merkle"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/policy"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/storage"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/events"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("GRADER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:120s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		Files struct {
			TxList  string `conf:"default:data/ex02_txid_list.txt"`
			Mempool string `conf:"default:data/mempool.csv"`
			Policy  string `conf:"default:data/policy.json"`
			Digests string `conf:"default:data/proof_digests.txt"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "grading service for the proof of work exercises",
		},
	}

	const prefix = "GRADER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Grading Inputs

	leafs, err := storage.LoadTxIDsFile(cfg.Files.TxList)
	if err != nil {
		return fmt.Errorf("loading txid list: %w", err)
	}
	log.Infow("startup", "status", "txid list loaded", "count", len(leafs))

	pol, err := policy.Load(cfg.Files.Policy)
	if err != nil {
		return fmt.Errorf("loading policy: %w", err)
	}

	coinbase, err := pol.Coinbase()
	if err != nil {
		return fmt.Errorf("resolving coinbase txid: %w", err)
	}
	if coinbase != nil {
		leafs = policy.PrependCoinbase(leafs, coinbase)
		log.Infow("startup", "status", "coinbase txid prepended", "txid", coinbase)
	}

	tree, err := merkle.NewTree(leafs)
	if err != nil {
		return fmt.Errorf("building tree: %w", err)
	}
	log.Infow("startup", "status", "tree root computed", "root", tree.RootHex())

	target, err := difficulty.ParseHex(pol.Template.NBits)
	if err != nil {
		return fmt.Errorf("decoding policy target: %w", err)
	}
	log.Infow("startup", "status", "target decoded", "target", difficulty.TargetHex(target))

	requiredTx, err := pol.RequiredTx()
	if err != nil {
		return fmt.Errorf("resolving required txid: %w", err)
	}
	if requiredTx != nil {
		log.Infow("startup", "status", "required txid configured", "txid", requiredTx)
	}

	// The mempool table and the committed digest reference are both
	// optional grading inputs.
	var pool *mempool.Mempool
	if _, err := os.Stat(cfg.Files.Mempool); err == nil {
		pool, err = mempool.LoadFile(cfg.Files.Mempool)
		if err != nil {
			return fmt.Errorf("loading mempool table: %w", err)
		}
		log.Infow("startup", "status", "mempool table loaded", "count", pool.Count())
	}

	var digests []txid.TxID
	if _, err := os.Stat(cfg.Files.Digests); err == nil {
		digests, err = storage.LoadDigestsFile(cfg.Files.Digests)
		if err != nil {
			return fmt.Errorf("loading digest reference: %w", err)
		}
		log.Infow("startup", "status", "digest reference loaded", "count", len(digests))
	}

	// Progress messages from checking and mining are sent to any
	// websocket client connected through the events package.
	evts := events.New()
	defer evts.Shutdown()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, handlers.DebugStandardLibraryMux()); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown:   shutdown,
		Log:        log,
		Leafs:      leafs,
		Policy:     pol,
		Target:     target,
		RequiredTx: requiredTx,
		Mempool:    pool,
		Digests:    digests,
		Evts:       evts,
	})

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop service gracefully: %w", err)
		}
	}

	return nil
}
