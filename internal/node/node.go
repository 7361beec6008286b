// Package node provides a fully-wired wrapd node that can be embedded in
// any binary.
package node

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/tessera-labs/tokenwrap/config"
	"github.com/tessera-labs/tokenwrap/internal/engine"
	"github.com/tessera-labs/tokenwrap/internal/ledger"
	klog "github.com/tessera-labs/tokenwrap/internal/log"
	"github.com/tessera-labs/tokenwrap/internal/rpc"
	"github.com/tessera-labs/tokenwrap/internal/storage"
	"github.com/tessera-labs/tokenwrap/internal/wrap"
)

// Node is a fully-initialized wrapd node: persistent account store,
// execution engine with all programs registered, and the RPC server.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	db        storage.DB
	engine    *engine.Engine
	rpcServer *rpc.Server
}

// New creates and initializes a new Node. It performs all setup steps
// (logger, storage, engine, programs, RPC server) but does not start
// serving. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = logsDir + "/wrapd.log"
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	logger.Info().
		Str("network", string(cfg.Network)).
		Str("wrap_program", wrap.ProgramID.Short()).
		Msg("Starting wrapd node")

	db, err := storage.NewBadger(cfg.AccountsDir())
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.AccountsDir(), err)
	}
	logger.Info().Str("path", cfg.AccountsDir()).Msg("Database opened")

	eng := engine.New(db)
	eng.Register(ledger.TokenProgramID, ledger.NewHandler(ledger.TokenProgramID))
	eng.Register(ledger.TokenExtProgramID, ledger.NewHandler(ledger.TokenExtProgramID))
	eng.Register(wrap.ProgramID, wrap.NewProcessor())

	n := &Node{
		cfg:    cfg,
		logger: logger,
		db:     db,
		engine: eng,
	}

	if cfg.RPC.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		n.rpcServer = rpc.New(addr, eng, string(cfg.Network), cfg.RPC)
	}

	return n, nil
}

// Start begins serving RPC. Returns after the listener is bound.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return err
		}
		n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server listening")
	}
	return nil
}

// Stop shuts down the RPC server and closes the database.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		if err := n.rpcServer.Stop(); err != nil {
			n.logger.Warn().Err(err).Msg("RPC shutdown error")
		}
	}
	if err := n.db.Close(); err != nil {
		n.logger.Warn().Err(err).Msg("Database close error")
	}
	n.logger.Info().Msg("Node stopped")
}

// Engine exposes the execution engine for embedders.
func (n *Node) Engine() *engine.Engine {
	return n.engine
}

// RPCAddr returns the bound RPC address, or "" when RPC is disabled.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}
