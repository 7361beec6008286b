package wrap

import (
	"encoding/binary"
	"fmt"

	"github.com/tessera-labs/tokenwrap/internal/engine"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// Instruction discriminants.
const (
	OpCreateMint uint8 = iota
	OpWrap
	OpUnwrap
)

// Payload sizes including the discriminant byte.
const (
	createMintLen = 2 // op, bool
	amountLen     = 9 // op, LE u64
)

// Account indices for CreateMint.
const (
	CreateMintFunding = iota
	CreateMintWrappedMint
	CreateMintBackpointer
	CreateMintUnwrappedMint
	CreateMintWrappedProgram
	createMintAccounts
)

// Account indices for Wrap. Additional multisig co-signers follow
// WrapTransferAuthority as a variable tail.
const (
	WrapUnwrappedSource = iota
	WrapEscrow
	WrapUnwrappedMint
	WrapWrappedMint
	WrapWrappedDestination
	WrapMintAuthority
	WrapUnwrappedProgram
	WrapWrappedProgram
	WrapTransferAuthority
	wrapAccounts
)

// Account indices for Unwrap. Additional multisig co-signers follow
// UnwrapTransferAuthority as a variable tail.
const (
	UnwrapWrappedSource = iota
	UnwrapWrappedMint
	UnwrapEscrow
	UnwrapUnwrappedDestination
	UnwrapUnwrappedMint
	UnwrapMintAuthority
	UnwrapWrappedProgram
	UnwrapUnwrappedProgram
	UnwrapTransferAuthority
	unwrapAccounts
)

// Instruction is a decoded wrap program request.
type Instruction struct {
	Op         uint8
	Idempotent bool   // CreateMint only.
	Amount     uint64 // Wrap and Unwrap only.
}

// Decode parses an instruction payload. Rejects wrong lengths,
// out-of-range discriminants, and non-canonical bool bytes with
// ErrInvalidInstructionData before any state is touched.
func Decode(data []byte) (*Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidInstructionData)
	}
	switch data[0] {
	case OpCreateMint:
		if len(data) != createMintLen {
			return nil, fmt.Errorf("%w: create-mint payload length %d", ErrInvalidInstructionData, len(data))
		}
		if data[1] > 1 {
			return nil, fmt.Errorf("%w: idempotent flag byte %d", ErrInvalidInstructionData, data[1])
		}
		return &Instruction{Op: OpCreateMint, Idempotent: data[1] == 1}, nil

	case OpWrap, OpUnwrap:
		if len(data) != amountLen {
			return nil, fmt.Errorf("%w: amount payload length %d", ErrInvalidInstructionData, len(data))
		}
		return &Instruction{
			Op:     data[0],
			Amount: binary.LittleEndian.Uint64(data[1:]),
		}, nil

	default:
		return nil, fmt.Errorf("%w: discriminant %d", ErrInvalidInstructionData, data[0])
	}
}

// Encode is the exact inverse of Decode.
func (in *Instruction) Encode() []byte {
	switch in.Op {
	case OpCreateMint:
		out := make([]byte, createMintLen)
		out[0] = OpCreateMint
		if in.Idempotent {
			out[1] = 1
		}
		return out
	default:
		out := make([]byte, amountLen)
		out[0] = in.Op
		binary.LittleEndian.PutUint64(out[1:], in.Amount)
		return out
	}
}

// EncodeCreateMint builds a CreateMint payload.
func EncodeCreateMint(idempotent bool) []byte {
	return (&Instruction{Op: OpCreateMint, Idempotent: idempotent}).Encode()
}

// EncodeWrap builds a Wrap payload.
func EncodeWrap(amount uint64) []byte {
	return (&Instruction{Op: OpWrap, Amount: amount}).Encode()
}

// EncodeUnwrap builds an Unwrap payload.
func EncodeUnwrap(amount uint64) []byte {
	return (&Instruction{Op: OpUnwrap, Amount: amount}).Encode()
}

// NewCreateMintTx assembles a CreateMint transaction in the required
// account order.
func NewCreateMintTx(funding, wrappedMint, backpointer, unwrappedMint, wrappedProgram types.Address, idempotent bool) *engine.Tx {
	return &engine.Tx{
		Program: ProgramID,
		Accounts: []types.Address{
			funding, wrappedMint, backpointer, unwrappedMint, wrappedProgram,
		},
		Data:    EncodeCreateMint(idempotent),
		Signers: []types.Address{funding},
	}
}

// NewWrapTx assembles a Wrap transaction in the required account order.
// Multisig co-signers, when present, extend both the account tail and the
// signer set.
func NewWrapTx(source, escrow, unwrappedMint, wrappedMint, destination, mintAuthority,
	unwrappedProgram, wrappedProgram, transferAuthority types.Address,
	amount uint64, multisigSigners []types.Address) *engine.Tx {

	accounts := []types.Address{
		source, escrow, unwrappedMint, wrappedMint, destination,
		mintAuthority, unwrappedProgram, wrappedProgram, transferAuthority,
	}
	signers := []types.Address{transferAuthority}
	if len(multisigSigners) > 0 {
		accounts = append(accounts, multisigSigners...)
		signers = multisigSigners
	}
	return &engine.Tx{
		Program:  ProgramID,
		Accounts: accounts,
		Data:     EncodeWrap(amount),
		Signers:  signers,
	}
}

// NewUnwrapTx assembles an Unwrap transaction in the required account order.
func NewUnwrapTx(source, wrappedMint, escrow, destination, unwrappedMint, mintAuthority,
	wrappedProgram, unwrappedProgram, transferAuthority types.Address,
	amount uint64, multisigSigners []types.Address) *engine.Tx {

	accounts := []types.Address{
		source, wrappedMint, escrow, destination, unwrappedMint,
		mintAuthority, wrappedProgram, unwrappedProgram, transferAuthority,
	}
	signers := []types.Address{transferAuthority}
	if len(multisigSigners) > 0 {
		accounts = append(accounts, multisigSigners...)
		signers = multisigSigners
	}
	return &engine.Tx{
		Program:  ProgramID,
		Accounts: accounts,
		Data:     EncodeUnwrap(amount),
		Signers:  signers,
	}
}
