// Package ledger implements the token program: mints, token accounts, and
// multisig authorities, with transfer/mint/burn operations over the engine's
// account store.
//
// The program can be deployed under more than one address; each deployment
// owns its own accounts and is a distinct token-issuing authority. A record
// is only ever interpreted by the deployment that owns its account.
package ledger

import (
	"fmt"

	"github.com/near/borsh-go"
	"github.com/tessera-labs/tokenwrap/pkg/crypto"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// Well-known deployments. A wrapped mint is issued under a different
// deployment than its unwrapped counterpart.
var (
	// TokenProgramID is the primary token program deployment.
	TokenProgramID = crypto.ProgramAddress("token")
	// TokenExtProgramID is the extended token program deployment.
	TokenExtProgramID = crypto.ProgramAddress("token-ext")
)

// Record kind tags, the first byte of every ledger account record.
const (
	KindUninitialized uint8 = iota
	KindMint
	KindTokenAccount
	KindMultisig
)

// Multisig signer count bounds.
const (
	MinMultisigSigners = 1
	MaxMultisigSigners = 11
)

// Record sizes (borsh layouts are fixed-width).
const (
	MintSize         = 1 + 8 + 1 + types.AddressSize                    // kind, supply, decimals, authority
	TokenAccountSize = 1 + types.AddressSize*2 + 8                      // kind, mint, owner, amount
	MultisigSize     = 1 + 1 + 1 + MaxMultisigSigners*types.AddressSize // kind, m, n, signers
)

// Mint is a token identity: total supply, decimals, and the minting
// authority.
type Mint struct {
	Kind          uint8
	Supply        uint64
	Decimals      uint8
	MintAuthority types.Address
}

// TokenAccount holds a balance of one mint for one owner.
type TokenAccount struct {
	Kind   uint8
	Mint   types.Address
	Owner  types.Address
	Amount uint64
}

// Multisig is an M-of-N threshold authority usable wherever a single
// owner or authority address is expected.
type Multisig struct {
	Kind    uint8
	M       uint8
	N       uint8
	Signers [MaxMultisigSigners]types.Address
}

func encodeMint(m *Mint) ([]byte, error) {
	m.Kind = KindMint
	data, err := borsh.Serialize(*m)
	if err != nil {
		return nil, fmt.Errorf("encode mint: %w", err)
	}
	return data, nil
}

func decodeMint(data []byte) (*Mint, error) {
	if len(data) < MintSize || data[0] != KindMint {
		return nil, ErrNotInitialized
	}
	var m Mint
	if err := borsh.Deserialize(&m, data); err != nil {
		return nil, fmt.Errorf("decode mint: %w", err)
	}
	return &m, nil
}

func encodeTokenAccount(a *TokenAccount) ([]byte, error) {
	a.Kind = KindTokenAccount
	data, err := borsh.Serialize(*a)
	if err != nil {
		return nil, fmt.Errorf("encode token account: %w", err)
	}
	return data, nil
}

func decodeTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < TokenAccountSize || data[0] != KindTokenAccount {
		return nil, ErrNotInitialized
	}
	var a TokenAccount
	if err := borsh.Deserialize(&a, data); err != nil {
		return nil, fmt.Errorf("decode token account: %w", err)
	}
	return &a, nil
}

func encodeMultisig(m *Multisig) ([]byte, error) {
	m.Kind = KindMultisig
	data, err := borsh.Serialize(*m)
	if err != nil {
		return nil, fmt.Errorf("encode multisig: %w", err)
	}
	return data, nil
}

func decodeMultisig(data []byte) (*Multisig, error) {
	if len(data) < MultisigSize || data[0] != KindMultisig {
		return nil, ErrNotInitialized
	}
	var m Multisig
	if err := borsh.Deserialize(&m, data); err != nil {
		return nil, fmt.Errorf("decode multisig: %w", err)
	}
	return &m, nil
}

// isZeroed reports whether an account's data holds no record yet.
func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
