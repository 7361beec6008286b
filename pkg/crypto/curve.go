package crypto

import (
	"filippo.io/edwards25519"

	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// IsOnCurve reports whether an address decodes as a valid ed25519 curve
// point. Addresses on the curve may have a known private key; derived
// addresses must be off the curve so that no key can ever exist for them.
func IsOnCurve(addr types.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}
