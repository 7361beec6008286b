package engine

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	klog "github.com/tessera-labs/tokenwrap/internal/log"
	"github.com/tessera-labs/tokenwrap/internal/storage"
	"github.com/tessera-labs/tokenwrap/pkg/crypto"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// accountPrefix namespaces account records within the shared database.
var accountPrefix = []byte("a/")

// Program executes instructions addressed to it. Implementations read and
// write accounts only through the view; the engine commits or discards the
// view as a whole.
type Program interface {
	Execute(view *View, tx *Tx) error
}

// Engine dispatches transactions to registered programs and enforces
// all-or-nothing effects: a program error discards every staged write.
type Engine struct {
	mu       sync.Mutex
	accounts storage.DB
	programs map[types.Address]Program
	logger   zerolog.Logger
}

// New creates an engine over the given database.
func New(db storage.DB) *Engine {
	return &Engine{
		accounts: storage.NewPrefixDB(db, accountPrefix),
		programs: make(map[types.Address]Program),
		logger:   klog.Engine,
	}
}

// Register installs a program under its address.
func (e *Engine) Register(id types.Address, p Program) {
	e.programs[id] = p
}

// Execute runs one transaction atomically. On success every staged account
// write is committed in a single batch; on any error nothing is written.
// Transactions execute serially.
func (e *Engine) Execute(tx *Tx) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	program, ok := e.programs[tx.Program]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, tx.Program)
	}

	// A signer must be a possible public key. Derived addresses are off the
	// curve, so no key for them can exist and no submission may claim one.
	// Programs extend their own derived authorities through the signer
	// slices they pass into ledger calls, never through tx.Signers.
	for _, signer := range tx.Signers {
		if !crypto.IsOnCurve(signer) {
			return fmt.Errorf("%w: %s", ErrInvalidSigner, signer)
		}
	}

	view := NewView(e.accounts)
	if err := program.Execute(view, tx); err != nil {
		e.logger.Debug().
			Str("program", tx.Program.Short()).
			Err(err).
			Msg("tx rejected")
		return err
	}
	if err := view.Commit(); err != nil {
		return err
	}

	e.logger.Debug().
		Str("program", tx.Program.Short()).
		Int("accounts", len(tx.Accounts)).
		Msg("tx committed")
	return nil
}

// ReadView returns a fresh view for queries. Staged writes on it are never
// committed by the engine.
func (e *Engine) ReadView() *View {
	return NewView(e.accounts)
}
