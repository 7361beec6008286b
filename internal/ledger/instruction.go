package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/tessera-labs/tokenwrap/internal/engine"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// Instruction discriminants.
const (
	OpInitializeMint uint8 = iota
	OpInitializeAccount
	OpInitializeMultisig
	OpTransfer
	OpMintTo
	OpBurn
)

// EncodeInitializeMint builds the InitializeMint payload:
// [0]=op, [1]=decimals, [2:34]=mint authority.
// Accounts: 0=mint.
func EncodeInitializeMint(decimals uint8, mintAuthority types.Address) []byte {
	out := make([]byte, 2+types.AddressSize)
	out[0] = OpInitializeMint
	out[1] = decimals
	copy(out[2:], mintAuthority[:])
	return out
}

// EncodeInitializeAccount builds the InitializeAccount payload.
// Accounts: 0=token account, 1=mint, 2=owner.
func EncodeInitializeAccount() []byte {
	return []byte{OpInitializeAccount}
}

// EncodeInitializeMultisig builds the InitializeMultisig payload:
// [0]=op, [1]=threshold M. Accounts: 0=multisig, 1..=member signers.
func EncodeInitializeMultisig(m uint8) []byte {
	return []byte{OpInitializeMultisig, m}
}

// EncodeTransfer builds the Transfer payload: [0]=op, [1:9]=LE u64 amount.
// Accounts: 0=source, 1=destination, 2=authority, 3..=multisig co-signers.
func EncodeTransfer(amount uint64) []byte {
	return encodeAmountOp(OpTransfer, amount)
}

// EncodeMintTo builds the MintTo payload: [0]=op, [1:9]=LE u64 amount.
// Accounts: 0=mint, 1=destination, 2=authority, 3..=multisig co-signers.
func EncodeMintTo(amount uint64) []byte {
	return encodeAmountOp(OpMintTo, amount)
}

// EncodeBurn builds the Burn payload: [0]=op, [1:9]=LE u64 amount.
// Accounts: 0=source, 1=mint, 2=authority, 3..=multisig co-signers.
func EncodeBurn(amount uint64) []byte {
	return encodeAmountOp(OpBurn, amount)
}

func encodeAmountOp(op uint8, amount uint64) []byte {
	out := make([]byte, 9)
	out[0] = op
	binary.LittleEndian.PutUint64(out[1:], amount)
	return out
}

// Handler dispatches ledger instructions for one deployment. It implements
// engine.Program.
type Handler struct {
	programID types.Address
}

// NewHandler creates the instruction handler for a deployment.
func NewHandler(programID types.Address) *Handler {
	return &Handler{programID: programID}
}

// Execute decodes and runs one ledger instruction.
func (h *Handler) Execute(view *engine.View, tx *engine.Tx) error {
	if len(tx.Data) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidInstruction)
	}
	p := New(view, h.programID)

	switch tx.Data[0] {
	case OpInitializeMint:
		if len(tx.Data) != 2+types.AddressSize {
			return fmt.Errorf("%w: initialize-mint payload length %d", ErrInvalidInstruction, len(tx.Data))
		}
		mint, err := tx.Account(0)
		if err != nil {
			return err
		}
		var authority types.Address
		copy(authority[:], tx.Data[2:])
		return p.InitializeMint(mint, tx.Data[1], authority)

	case OpInitializeAccount:
		if len(tx.Data) != 1 {
			return fmt.Errorf("%w: initialize-account payload length %d", ErrInvalidInstruction, len(tx.Data))
		}
		acct, err := tx.Account(0)
		if err != nil {
			return err
		}
		mint, err := tx.Account(1)
		if err != nil {
			return err
		}
		owner, err := tx.Account(2)
		if err != nil {
			return err
		}
		return p.InitializeAccount(acct, mint, owner)

	case OpInitializeMultisig:
		if len(tx.Data) != 2 {
			return fmt.Errorf("%w: initialize-multisig payload length %d", ErrInvalidInstruction, len(tx.Data))
		}
		acct, err := tx.Account(0)
		if err != nil {
			return err
		}
		members := tx.AccountsFrom(1)
		return p.InitializeMultisig(acct, tx.Data[1], members)

	case OpTransfer:
		amount, err := decodeAmount(tx.Data)
		if err != nil {
			return err
		}
		src, err := tx.Account(0)
		if err != nil {
			return err
		}
		dst, err := tx.Account(1)
		if err != nil {
			return err
		}
		authority, err := tx.Account(2)
		if err != nil {
			return err
		}
		return p.Transfer(src, dst, authority, tx.Signers, amount)

	case OpMintTo:
		amount, err := decodeAmount(tx.Data)
		if err != nil {
			return err
		}
		mint, err := tx.Account(0)
		if err != nil {
			return err
		}
		dst, err := tx.Account(1)
		if err != nil {
			return err
		}
		authority, err := tx.Account(2)
		if err != nil {
			return err
		}
		return p.MintTo(mint, dst, authority, tx.Signers, amount)

	case OpBurn:
		amount, err := decodeAmount(tx.Data)
		if err != nil {
			return err
		}
		src, err := tx.Account(0)
		if err != nil {
			return err
		}
		mint, err := tx.Account(1)
		if err != nil {
			return err
		}
		authority, err := tx.Account(2)
		if err != nil {
			return err
		}
		return p.Burn(src, mint, authority, tx.Signers, amount)

	default:
		return fmt.Errorf("%w: discriminant %d", ErrInvalidInstruction, tx.Data[0])
	}
}

func decodeAmount(data []byte) (uint64, error) {
	if len(data) != 9 {
		return 0, fmt.Errorf("%w: amount payload length %d", ErrInvalidInstruction, len(data))
	}
	return binary.LittleEndian.Uint64(data[1:]), nil
}
