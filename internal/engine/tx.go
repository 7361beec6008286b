package engine

import (
	"fmt"

	"github.com/near/borsh-go"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// Tx is a single instruction addressed to one program. The engine receives
// an already-authenticated signer set; envelope signature verification
// happens at the transport boundary, not here.
type Tx struct {
	// Program is the address of the program that executes this instruction.
	Program types.Address
	// Accounts are positional account references; each program defines its
	// own required ordering.
	Accounts []types.Address
	// Data is the program-specific instruction payload.
	Data []byte
	// Signers are the addresses whose signatures authorized this tx.
	Signers []types.Address
}

// Account returns the account reference at index i.
func (tx *Tx) Account(i int) (types.Address, error) {
	if i < 0 || i >= len(tx.Accounts) {
		return types.Address{}, fmt.Errorf("missing account at index %d (have %d)", i, len(tx.Accounts))
	}
	return tx.Accounts[i], nil
}

// IsSigner reports whether addr is in the tx signer set.
func (tx *Tx) IsSigner(addr types.Address) bool {
	for _, s := range tx.Signers {
		if s == addr {
			return true
		}
	}
	return false
}

// AccountsFrom returns the account references from index i to the end.
// Used for variable-length tails such as multisig co-signer lists.
func (tx *Tx) AccountsFrom(i int) []types.Address {
	if i < 0 || i >= len(tx.Accounts) {
		return nil
	}
	return tx.Accounts[i:]
}

// Marshal encodes the transaction in its borsh wire form.
func (tx *Tx) Marshal() ([]byte, error) {
	data, err := borsh.Serialize(*tx)
	if err != nil {
		return nil, fmt.Errorf("encode tx: %w", err)
	}
	return data, nil
}

// UnmarshalTx decodes a transaction from its borsh wire form.
func UnmarshalTx(data []byte) (*Tx, error) {
	var tx Tx
	if err := borsh.Deserialize(&tx, data); err != nil {
		return nil, fmt.Errorf("decode tx: %w", err)
	}
	return &tx, nil
}
