package wrap

import (
	"testing"

	"github.com/tessera-labs/tokenwrap/internal/ledger"
	"github.com/tessera-labs/tokenwrap/pkg/crypto"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

func addr(b byte) types.Address {
	var a types.Address
	a[0] = b
	a[1] = 0x5c
	return a
}

func TestDerivePair_Deterministic(t *testing.T) {
	unwrapped := addr(1)

	first, err := DerivePair(unwrapped, ledger.TokenExtProgramID)
	if err != nil {
		t.Fatalf("DerivePair error: %v", err)
	}
	second, err := DerivePair(unwrapped, ledger.TokenExtProgramID)
	if err != nil {
		t.Fatalf("DerivePair error: %v", err)
	}
	if *first != *second {
		t.Errorf("same inputs derived different addresses:\n%+v\n%+v", first, second)
	}
}

func TestDerivePair_DistinctInputsDistinctAddresses(t *testing.T) {
	a, err := DerivePair(addr(1), ledger.TokenExtProgramID)
	if err != nil {
		t.Fatalf("DerivePair error: %v", err)
	}
	b, err := DerivePair(addr(2), ledger.TokenExtProgramID)
	if err != nil {
		t.Fatalf("DerivePair error: %v", err)
	}
	c, err := DerivePair(addr(1), ledger.TokenProgramID)
	if err != nil {
		t.Fatalf("DerivePair error: %v", err)
	}
	if a.WrappedMint == b.WrappedMint {
		t.Error("different unwrapped mints derived the same wrapped mint")
	}
	if a.WrappedMint == c.WrappedMint {
		t.Error("different issuing programs derived the same wrapped mint")
	}
}

func TestDerivePair_RolesAreDistinct(t *testing.T) {
	p, err := DerivePair(addr(7), ledger.TokenExtProgramID)
	if err != nil {
		t.Fatalf("DerivePair error: %v", err)
	}
	seen := map[types.Address]string{
		p.WrappedMint: "wrapped mint",
	}
	for _, role := range []struct {
		name string
		addr types.Address
	}{
		{"backpointer", p.Backpointer},
		{"mint authority", p.MintAuthority},
		{"escrow", p.Escrow},
	} {
		if prev, ok := seen[role.addr]; ok {
			t.Errorf("%s collides with %s at %s", role.name, prev, role.addr)
		}
		seen[role.addr] = role.name
	}
}

// Derived addresses must not be valid curve points, so no keypair can ever
// sign for them.
func TestDerivePair_OffCurve(t *testing.T) {
	for b := byte(0); b < 16; b++ {
		p, err := DerivePair(addr(b), ledger.TokenExtProgramID)
		if err != nil {
			t.Fatalf("DerivePair(%d) error: %v", b, err)
		}
		for _, a := range []types.Address{p.WrappedMint, p.Backpointer, p.MintAuthority, p.Escrow} {
			if crypto.IsOnCurve(a) {
				t.Errorf("derived address %s is on the curve", a)
			}
		}
	}
}

func TestFindDerivedAddress_BumpRoundTrip(t *testing.T) {
	seed := []byte("round-trip")
	got, bump, err := FindDerivedAddress(ProgramID, seed)
	if err != nil {
		t.Fatalf("FindDerivedAddress error: %v", err)
	}
	if rederived := deriveAddress([][]byte{seed}, bump, ProgramID); rederived != got {
		t.Errorf("deriveAddress with bump %d = %s, want %s", bump, rederived, got)
	}
}
