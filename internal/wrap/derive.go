// Package wrap implements the wrapped-token program: deterministic
// derivation of the accounts representing an (unwrapped mint, issuing
// program) pair, creation of the wrapped mint with its authenticity
// backpointer, and the two conserving transitions (wrap, unwrap) that move
// balance between the escrow holding and the wrapped supply.
package wrap

import (
	"fmt"

	"github.com/tessera-labs/tokenwrap/pkg/crypto"
	"github.com/tessera-labs/tokenwrap/pkg/types"
	"github.com/zeebo/blake3"
)

// ProgramID is the wrap program's address.
var ProgramID = crypto.ProgramAddress("wrap")

// Seed prefixes for domain separation between the derived account roles.
var (
	seedWrappedMint = []byte("wrapped-mint")
	seedBackpointer = []byte("backpointer")
	seedAuthority   = []byte("authority")
	seedEscrow      = []byte("escrow")
)

// pdaDomain separates derived addresses from every other use of the hash.
var pdaDomain = []byte("tokenwrap:pda:v1")

// deriveAddress computes the candidate address for the given seeds and bump
// under the deriving program. One-way: BLAKE3 over the domain tag, the
// seeds, the bump byte, and the program's own identity.
func deriveAddress(seeds [][]byte, bump uint8, programID types.Address) types.Address {
	h := blake3.New()
	h.Write(pdaDomain)
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(programID[:])
	var a types.Address
	copy(a[:], h.Sum(nil))
	return a
}

// FindDerivedAddress searches bump values from 255 downward for the first
// candidate that is not a valid curve point, guaranteeing no private key
// can exist for the returned address. The bump is public seed material:
// any party repeating the search from the same inputs lands on the same
// address and bump.
func FindDerivedAddress(programID types.Address, seeds ...[]byte) (types.Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		candidate := deriveAddress(seeds, uint8(bump), programID)
		if !crypto.IsOnCurve(candidate) {
			return candidate, uint8(bump), nil
		}
	}
	return types.Address{}, 0, ErrNoViableBump
}

// WrappedMintAddress derives the wrapped mint for an unwrapped mint under
// the given issuing token program.
func WrappedMintAddress(unwrappedMint, wrappedProgram types.Address) (types.Address, uint8, error) {
	return FindDerivedAddress(ProgramID, seedWrappedMint, unwrappedMint[:], wrappedProgram[:])
}

// BackpointerAddress derives the backpointer record address for a wrapped
// mint.
func BackpointerAddress(wrappedMint types.Address) (types.Address, uint8, error) {
	return FindDerivedAddress(ProgramID, seedBackpointer, wrappedMint[:])
}

// MintAuthorityAddress derives the escrow-signing authority for a wrapped
// mint. The address holds no key material; the wrap program alone exercises
// it by re-derivation.
func MintAuthorityAddress(wrappedMint types.Address) (types.Address, uint8, error) {
	return FindDerivedAddress(ProgramID, seedAuthority, wrappedMint[:])
}

// EscrowAddress derives the canonical escrow token account for a wrapped
// mint. Deriving it (rather than accepting any account owned by the
// authority) keeps exactly one escrow per pair.
func EscrowAddress(wrappedMint types.Address) (types.Address, uint8, error) {
	return FindDerivedAddress(ProgramID, seedEscrow, wrappedMint[:])
}

// PairAddresses bundles every derived address of one wrapped pair.
type PairAddresses struct {
	WrappedMint     types.Address `json:"wrapped_mint"`
	WrappedMintBump uint8         `json:"wrapped_mint_bump"`
	Backpointer     types.Address `json:"backpointer"`
	BackpointerBump uint8         `json:"backpointer_bump"`
	MintAuthority   types.Address `json:"mint_authority"`
	AuthorityBump   uint8         `json:"mint_authority_bump"`
	Escrow          types.Address `json:"escrow"`
	EscrowBump      uint8         `json:"escrow_bump"`
}

// DerivePair computes all derived addresses for an (unwrapped mint,
// issuing program) pair.
func DerivePair(unwrappedMint, wrappedProgram types.Address) (*PairAddresses, error) {
	mint, mintBump, err := WrappedMintAddress(unwrappedMint, wrappedProgram)
	if err != nil {
		return nil, fmt.Errorf("derive wrapped mint: %w", err)
	}
	backpointer, bpBump, err := BackpointerAddress(mint)
	if err != nil {
		return nil, fmt.Errorf("derive backpointer: %w", err)
	}
	authority, authBump, err := MintAuthorityAddress(mint)
	if err != nil {
		return nil, fmt.Errorf("derive mint authority: %w", err)
	}
	escrow, escrowBump, err := EscrowAddress(mint)
	if err != nil {
		return nil, fmt.Errorf("derive escrow: %w", err)
	}
	return &PairAddresses{
		WrappedMint:     mint,
		WrappedMintBump: mintBump,
		Backpointer:     backpointer,
		BackpointerBump: bpBump,
		MintAuthority:   authority,
		AuthorityBump:   authBump,
		Escrow:          escrow,
		EscrowBump:      escrowBump,
	}, nil
}
