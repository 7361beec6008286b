package engine

import (
	"errors"
	"fmt"

	"github.com/tessera-labs/tokenwrap/internal/storage"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// Engine errors.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrUnknownProgram  = errors.New("unknown program")
	ErrMissingSigner   = errors.New("required signer not present")
	ErrInvalidSigner   = errors.New("signer is not a possible public key")
)

// View is a staged read/write overlay on the committed account store.
// Reads fall through to committed state; writes stay in the overlay until
// Commit applies them all in one atomic batch. Discarding the view
// discards every staged write.
type View struct {
	db     storage.DB
	staged map[types.Address]*Account
}

// NewView creates a view over the given account store.
func NewView(db storage.DB) *View {
	return &View{
		db:     db,
		staged: make(map[types.Address]*Account),
	}
}

// Account returns a copy of the account at addr, staged state first.
// Mutations must be written back with SetAccount to take effect.
func (v *View) Account(addr types.Address) (*Account, error) {
	if a, ok := v.staged[addr]; ok {
		return a.Clone(), nil
	}
	raw, err := v.db.Get(addr[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return decodeAccount(raw)
}

// HasAccount reports whether an account exists at addr.
func (v *View) HasAccount(addr types.Address) bool {
	if _, ok := v.staged[addr]; ok {
		return true
	}
	ok, err := v.db.Has(addr[:])
	return err == nil && ok
}

// SetAccount stages an account write.
func (v *View) SetAccount(addr types.Address, a *Account) {
	v.staged[addr] = a.Clone()
}

// Allocate creates a new zeroed account of the given size, owned by owner.
// Fails with ErrAccountExists if the address is already allocated.
func (v *View) Allocate(addr, owner types.Address, size int) error {
	if v.HasAccount(addr) {
		return fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	v.staged[addr] = &Account{
		Owner: owner,
		Data:  make([]byte, size),
	}
	return nil
}

// Commit applies every staged write in a single atomic batch.
func (v *View) Commit() error {
	if len(v.staged) == 0 {
		return nil
	}
	batcher, ok := v.db.(storage.Batcher)
	if !ok {
		return fmt.Errorf("account store does not support atomic batches")
	}
	batch := batcher.NewBatch()
	for addr, a := range v.staged {
		if err := batch.Put(addr.Bytes(), encodeAccount(a)); err != nil {
			return fmt.Errorf("stage account %s: %w", addr, err)
		}
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit view: %w", err)
	}
	v.staged = make(map[types.Address]*Account)
	return nil
}
