// Package engine implements the atomic transaction engine and the account
// store it executes over.
//
// Every account is a record owned by exactly one program; only that program
// may mutate the account's data. A transaction is dispatched to one program
// and either commits all of its writes or none of them.
package engine

import (
	"fmt"

	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// Account is an on-ledger storage record. Owner is the program address that
// may mutate Data.
type Account struct {
	Owner types.Address
	Data  []byte
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Account{Owner: a.Owner, Data: data}
}

// encodeAccount serializes an account record: owner(32) | data.
func encodeAccount(a *Account) []byte {
	out := make([]byte, types.AddressSize+len(a.Data))
	copy(out, a.Owner[:])
	copy(out[types.AddressSize:], a.Data)
	return out
}

// decodeAccount deserializes an account record.
func decodeAccount(raw []byte) (*Account, error) {
	if len(raw) < types.AddressSize {
		return nil, fmt.Errorf("account record too short: %d bytes", len(raw))
	}
	var a Account
	copy(a.Owner[:], raw[:types.AddressSize])
	a.Data = make([]byte, len(raw)-types.AddressSize)
	copy(a.Data, raw[types.AddressSize:])
	return &a, nil
}
