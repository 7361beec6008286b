package engine

import (
	"errors"
	"testing"

	"github.com/tessera-labs/tokenwrap/internal/storage"
	"github.com/tessera-labs/tokenwrap/pkg/crypto"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

var testProgramID = crypto.ProgramAddress("engine-test")

// scriptedProgram executes a caller-supplied function.
type scriptedProgram struct {
	fn func(view *View, tx *Tx) error
}

func (p *scriptedProgram) Execute(view *View, tx *Tx) error {
	return p.fn(view, tx)
}

func addr(b byte) types.Address {
	var a types.Address
	a[0] = b
	return a
}

func TestEngine_UnknownProgram(t *testing.T) {
	e := New(storage.NewMemory())
	err := e.Execute(&Tx{Program: testProgramID})
	if !errors.Is(err, ErrUnknownProgram) {
		t.Errorf("Execute() error = %v, want ErrUnknownProgram", err)
	}
}

func TestEngine_CommitOnSuccess(t *testing.T) {
	e := New(storage.NewMemory())
	target := addr(1)
	e.Register(testProgramID, &scriptedProgram{fn: func(view *View, tx *Tx) error {
		return view.Allocate(target, testProgramID, 8)
	}})

	if err := e.Execute(&Tx{Program: testProgramID}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	view := e.ReadView()
	a, err := view.Account(target)
	if err != nil {
		t.Fatalf("Account() after commit error: %v", err)
	}
	if a.Owner != testProgramID {
		t.Errorf("owner = %s, want program", a.Owner)
	}
	if len(a.Data) != 8 {
		t.Errorf("data size = %d, want 8", len(a.Data))
	}
}

func TestEngine_DiscardOnError(t *testing.T) {
	e := New(storage.NewMemory())
	target := addr(2)
	boom := errors.New("boom")
	e.Register(testProgramID, &scriptedProgram{fn: func(view *View, tx *Tx) error {
		if err := view.Allocate(target, testProgramID, 8); err != nil {
			return err
		}
		// Fail after staging a write: nothing may be observable.
		return boom
	}})

	if err := e.Execute(&Tx{Program: testProgramID}); !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want boom", err)
	}

	if e.ReadView().HasAccount(target) {
		t.Error("failed tx left a visible write")
	}
}

func TestEngine_RejectsOffCurveSigner(t *testing.T) {
	e := New(storage.NewMemory())
	called := false
	e.Register(testProgramID, &scriptedProgram{fn: func(view *View, tx *Tx) error {
		called = true
		return nil
	}})

	// All bits set is a non-canonical point encoding, so no private key
	// can exist for this address.
	var offCurve types.Address
	for i := range offCurve {
		offCurve[i] = 0xff
	}
	err := e.Execute(&Tx{Program: testProgramID, Signers: []types.Address{offCurve}})
	if !errors.Is(err, ErrInvalidSigner) {
		t.Fatalf("Execute() error = %v, want ErrInvalidSigner", err)
	}
	if called {
		t.Error("program ran despite an impossible signer")
	}

	kp, err := crypto.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair() error: %v", err)
	}
	if err := e.Execute(&Tx{Program: testProgramID, Signers: []types.Address{kp.Address()}}); err != nil {
		t.Errorf("Execute() with a real key as signer error: %v", err)
	}
}

func TestView_AllocateExisting(t *testing.T) {
	db := storage.NewMemory()
	view := NewView(db)
	target := addr(3)

	if err := view.Allocate(target, testProgramID, 4); err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if err := view.Allocate(target, testProgramID, 4); !errors.Is(err, ErrAccountExists) {
		t.Errorf("second Allocate() error = %v, want ErrAccountExists", err)
	}
}

func TestView_StagedReadsOwnWrites(t *testing.T) {
	view := NewView(storage.NewMemory())
	target := addr(4)

	view.SetAccount(target, &Account{Owner: testProgramID, Data: []byte{1, 2, 3}})
	a, err := view.Account(target)
	if err != nil {
		t.Fatalf("Account() error: %v", err)
	}
	if len(a.Data) != 3 || a.Data[2] != 3 {
		t.Errorf("staged read returned wrong data: %v", a.Data)
	}
}

func TestView_AccountReturnsCopy(t *testing.T) {
	view := NewView(storage.NewMemory())
	target := addr(5)
	view.SetAccount(target, &Account{Owner: testProgramID, Data: []byte{9}})

	a, _ := view.Account(target)
	a.Data[0] = 0 // Mutating the copy must not change staged state.

	again, _ := view.Account(target)
	if again.Data[0] != 9 {
		t.Error("Account() did not return an isolated copy")
	}
}

func TestView_CommitPersists(t *testing.T) {
	db := storage.NewMemory()
	view := NewView(db)
	target := addr(6)
	view.SetAccount(target, &Account{Owner: testProgramID, Data: []byte{7}})
	if err := view.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	fresh := NewView(db)
	a, err := fresh.Account(target)
	if err != nil {
		t.Fatalf("Account() after commit error: %v", err)
	}
	if a.Data[0] != 7 {
		t.Error("committed data not visible in fresh view")
	}
}

func TestTx_IsSigner(t *testing.T) {
	tx := &Tx{Signers: []types.Address{addr(1), addr(2)}}
	if !tx.IsSigner(addr(1)) {
		t.Error("addr(1) should be a signer")
	}
	if tx.IsSigner(addr(9)) {
		t.Error("addr(9) should not be a signer")
	}
}

func TestTx_Account(t *testing.T) {
	tx := &Tx{Accounts: []types.Address{addr(1)}}
	if _, err := tx.Account(0); err != nil {
		t.Errorf("Account(0) error: %v", err)
	}
	if _, err := tx.Account(1); err == nil {
		t.Error("Account(1) should fail for out-of-range index")
	}
}

func TestTx_AccountsFrom(t *testing.T) {
	tx := &Tx{Accounts: []types.Address{addr(1), addr(2), addr(3)}}
	tail := tx.AccountsFrom(1)
	if len(tail) != 2 {
		t.Errorf("AccountsFrom(1) length = %d, want 2", len(tail))
	}
	if tx.AccountsFrom(5) != nil {
		t.Error("AccountsFrom past end should be nil")
	}
}
