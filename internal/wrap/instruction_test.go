package wrap

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tessera-labs/tokenwrap/pkg/types"
)

func TestInstructionCodec(t *testing.T) {
	cases := []struct {
		name string
		inst Instruction
	}{
		{"create-mint", Instruction{Op: OpCreateMint}},
		{"create-mint idempotent", Instruction{Op: OpCreateMint, Idempotent: true}},
		{"wrap", Instruction{Op: OpWrap, Amount: 1_000_000}},
		{"unwrap zero", Instruction{Op: OpUnwrap}},
		{"unwrap max", Instruction{Op: OpUnwrap, Amount: ^uint64(0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := Decode(tc.inst.Encode())
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if *decoded != tc.inst {
				t.Errorf("round trip = %+v, want %+v", *decoded, tc.inst)
			}
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unknown discriminant", []byte{3, 0}},
		{"create-mint short", []byte{0}},
		{"create-mint long", []byte{0, 1, 0}},
		{"non-canonical bool", []byte{0, 2}},
		{"wrap short", []byte{1, 1, 2, 3}},
		{"wrap trailing byte", append(EncodeWrap(5), 0)},
		{"unwrap short", []byte{2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.data); !errors.Is(err, ErrInvalidInstructionData) {
				t.Errorf("Decode(%v) error = %v, want ErrInvalidInstructionData", tc.data, err)
			}
		})
	}
}

func TestNewCreateMintTx(t *testing.T) {
	funding, mint, bp, unwrapped, program := addr(1), addr(2), addr(3), addr(4), addr(5)
	tx := NewCreateMintTx(funding, mint, bp, unwrapped, program, true)

	if tx.Program != ProgramID {
		t.Errorf("program = %s, want %s", tx.Program, ProgramID)
	}
	if got := len(tx.Accounts); got != createMintAccounts {
		t.Fatalf("accounts = %d, want %d", got, createMintAccounts)
	}
	if tx.Accounts[CreateMintFunding] != funding || tx.Accounts[CreateMintUnwrappedMint] != unwrapped {
		t.Error("accounts out of order")
	}
	if !tx.IsSigner(funding) {
		t.Error("funding account not a signer")
	}
	if !bytes.Equal(tx.Data, EncodeCreateMint(true)) {
		t.Errorf("payload = %v", tx.Data)
	}
}

func TestNewWrapTx_MultisigTail(t *testing.T) {
	base := make([]types.Address, wrapAccounts)
	for i := range base {
		base[i] = addr(byte(i + 1))
	}
	cosigners := []types.Address{addr(0xc1), addr(0xc2)}

	tx := NewWrapTx(base[0], base[1], base[2], base[3], base[4], base[5], base[6], base[7], base[8], 42, cosigners)
	if got := len(tx.Accounts); got != wrapAccounts+2 {
		t.Fatalf("accounts = %d, want %d", got, wrapAccounts+2)
	}
	if tx.Accounts[wrapAccounts] != cosigners[0] || tx.Accounts[wrapAccounts+1] != cosigners[1] {
		t.Error("co-signers not appended after the fixed accounts")
	}
	if len(tx.Signers) != 2 || !tx.IsSigner(cosigners[0]) || !tx.IsSigner(cosigners[1]) {
		t.Errorf("signers = %v, want the two co-signers", tx.Signers)
	}

	solo := NewWrapTx(base[0], base[1], base[2], base[3], base[4], base[5], base[6], base[7], base[8], 42, nil)
	if len(solo.Signers) != 1 || !solo.IsSigner(base[8]) {
		t.Errorf("signers = %v, want the transfer authority", solo.Signers)
	}
}
