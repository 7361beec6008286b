// Package crypto provides cryptographic primitives for the tokenwrap ledger.
package crypto

import (
	"github.com/tessera-labs/tokenwrap/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// HashAll hashes the concatenation of the given byte slices.
func HashAll(parts ...[]byte) types.Hash {
	h := blake3.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// ProgramAddress derives a well-known program address from a name string.
// Program addresses are BLAKE3 digests and carry no key material.
func ProgramAddress(name string) types.Address {
	h := HashAll([]byte("tokenwrap:program:"), []byte(name))
	return types.Address(h)
}
