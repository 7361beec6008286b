package wrap

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tessera-labs/tokenwrap/internal/engine"
	"github.com/tessera-labs/tokenwrap/internal/ledger"
	klog "github.com/tessera-labs/tokenwrap/internal/log"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// Processor executes wrap program instructions. It implements
// engine.Program.
type Processor struct {
	logger zerolog.Logger
}

// NewProcessor creates the wrap program processor.
func NewProcessor() *Processor {
	return &Processor{logger: klog.Wrap}
}

// Execute decodes and runs one wrap instruction. Malformed payloads are
// rejected before any account is read.
func (p *Processor) Execute(view *engine.View, tx *engine.Tx) error {
	inst, err := Decode(tx.Data)
	if err != nil {
		return err
	}
	switch inst.Op {
	case OpCreateMint:
		return p.createMint(view, tx, inst.Idempotent)
	case OpWrap:
		return p.wrap(view, tx, inst.Amount)
	default:
		return p.unwrap(view, tx, inst.Amount)
	}
}

// creationOutcome classifies what CreateMint found at the target addresses.
// The caller's idempotent flag decides whether outcomeMatching is success.
type creationOutcome int

const (
	outcomeCreated creationOutcome = iota
	outcomeMatching
	outcomeConflict
)

func (p *Processor) createMint(view *engine.View, tx *engine.Tx, idempotent bool) error {
	if len(tx.Accounts) < createMintAccounts {
		return fmt.Errorf("create-mint needs %d accounts, got %d", createMintAccounts, len(tx.Accounts))
	}
	funding := tx.Accounts[CreateMintFunding]
	wrappedMint := tx.Accounts[CreateMintWrappedMint]
	backpointer := tx.Accounts[CreateMintBackpointer]
	unwrappedMint := tx.Accounts[CreateMintUnwrappedMint]
	wrappedProgram := tx.Accounts[CreateMintWrappedProgram]

	if !tx.IsSigner(funding) {
		return fmt.Errorf("%w: funding account %s", engine.ErrMissingSigner, funding.Short())
	}

	// Never trust the supplied addresses: recompute and compare.
	expectedMint, _, err := WrappedMintAddress(unwrappedMint, wrappedProgram)
	if err != nil {
		return err
	}
	if wrappedMint != expectedMint {
		return fmt.Errorf("%w: wrapped mint %s, expected %s", ErrAddressMismatch, wrappedMint.Short(), expectedMint.Short())
	}
	expectedBackpointer, _, err := BackpointerAddress(wrappedMint)
	if err != nil {
		return err
	}
	if backpointer != expectedBackpointer {
		return fmt.Errorf("%w: backpointer %s, expected %s", ErrAddressMismatch, backpointer.Short(), expectedBackpointer.Short())
	}
	mintAuthority, _, err := MintAuthorityAddress(wrappedMint)
	if err != nil {
		return err
	}

	// Decimals are copied from the unwrapped mint so 1:1 conversion never
	// rounds.
	unwrappedRec, _, err := ledger.ReadMint(view, unwrappedMint)
	if err != nil {
		return fmt.Errorf("unwrapped mint: %w", err)
	}

	outcome, err := p.classify(view, wrappedMint, backpointer, unwrappedMint, wrappedProgram, mintAuthority, unwrappedRec.Decimals)
	if err != nil {
		return err
	}
	switch outcome {
	case outcomeMatching:
		if idempotent {
			p.logger.Debug().
				Str("wrapped_mint", wrappedMint.Short()).
				Msg("create-mint no-op, pair already exists")
			return nil
		}
		return fmt.Errorf("%w: pair for %s under %s", ErrAlreadyInitialized, unwrappedMint.Short(), wrappedProgram.Short())
	case outcomeConflict:
		return fmt.Errorf("%w: existing state does not match this pair", ErrAlreadyInitialized)
	}

	// Fresh creation: initialize the mint with the derived authority, then
	// write the immutable backpointer.
	issuing := ledger.New(view, wrappedProgram)
	if err := issuing.InitializeMint(wrappedMint, unwrappedRec.Decimals, mintAuthority); err != nil {
		return err
	}

	if err := view.Allocate(backpointer, ProgramID, BackpointerSize); err != nil {
		return err
	}
	bpData, err := encodeBackpointer(&Backpointer{
		UnwrappedMint:  unwrappedMint,
		WrappedMint:    wrappedMint,
		WrappedProgram: wrappedProgram,
	})
	if err != nil {
		return err
	}
	view.SetAccount(backpointer, &engine.Account{Owner: ProgramID, Data: bpData})

	p.logger.Info().
		Str("unwrapped_mint", unwrappedMint.Short()).
		Str("wrapped_mint", wrappedMint.Short()).
		Str("issuing_program", wrappedProgram.Short()).
		Uint8("decimals", unwrappedRec.Decimals).
		Msg("wrapped mint created")
	return nil
}

// classify inspects the target accounts and reports whether they are
// absent, present with exactly the content this call would write, or
// present with conflicting content.
func (p *Processor) classify(view *engine.View, wrappedMint, backpointer, unwrappedMint,
	wrappedProgram, mintAuthority types.Address, decimals uint8) (creationOutcome, error) {

	hasMint := view.HasAccount(wrappedMint)
	hasBackpointer := view.HasAccount(backpointer)
	if !hasMint && !hasBackpointer {
		return outcomeCreated, nil
	}
	if hasMint != hasBackpointer {
		// Half-created pairs cannot occur through this program; whatever
		// produced this state is not ours.
		return outcomeConflict, nil
	}

	issuing := ledger.New(view, wrappedProgram)
	mintRec, err := issuing.Mint(wrappedMint)
	if err != nil {
		return outcomeConflict, nil
	}
	if mintRec.Decimals != decimals || mintRec.MintAuthority != mintAuthority {
		return outcomeConflict, nil
	}

	acct, err := view.Account(backpointer)
	if err != nil || acct.Owner != ProgramID {
		return outcomeConflict, nil
	}
	expected, err := encodeBackpointer(&Backpointer{
		UnwrappedMint:  unwrappedMint,
		WrappedMint:    wrappedMint,
		WrappedProgram: wrappedProgram,
	})
	if err != nil {
		return outcomeConflict, err
	}
	if !bytes.Equal(acct.Data, expected) {
		return outcomeConflict, nil
	}
	return outcomeMatching, nil
}

func (p *Processor) wrap(view *engine.View, tx *engine.Tx, amount uint64) error {
	if len(tx.Accounts) < wrapAccounts {
		return fmt.Errorf("wrap needs %d accounts, got %d", wrapAccounts, len(tx.Accounts))
	}
	source := tx.Accounts[WrapUnwrappedSource]
	escrow := tx.Accounts[WrapEscrow]
	unwrappedMint := tx.Accounts[WrapUnwrappedMint]
	wrappedMint := tx.Accounts[WrapWrappedMint]
	destination := tx.Accounts[WrapWrappedDestination]
	mintAuthority := tx.Accounts[WrapMintAuthority]
	unwrappedProgram := tx.Accounts[WrapUnwrappedProgram]
	wrappedProgram := tx.Accounts[WrapWrappedProgram]
	transferAuthority := tx.Accounts[WrapTransferAuthority]

	if err := p.verifyPair(view, wrappedMint, unwrappedMint, wrappedProgram, mintAuthority, escrow); err != nil {
		return err
	}
	// A deposit out of the escrow itself would mint against a self-transfer
	// that moves nothing.
	if source == escrow {
		return ErrEscrowCollision
	}

	unwrapped := ledger.New(view, unwrappedProgram)
	issuing := ledger.New(view, wrappedProgram)

	// The escrow holding is created on first use, owned by the derived
	// authority.
	if !view.HasAccount(escrow) {
		if err := unwrapped.InitializeAccount(escrow, unwrappedMint, mintAuthority); err != nil {
			return err
		}
	}

	// Move unwrapped tokens into escrow under the caller's authority, then
	// mint the same amount of wrapped tokens under the derived authority.
	// Ledger failures surface to the caller unchanged.
	if err := unwrapped.Transfer(source, escrow, transferAuthority, tx.Signers, amount); err != nil {
		return err
	}
	programSigned := append(append([]types.Address{}, tx.Signers...), mintAuthority)
	if err := issuing.MintTo(wrappedMint, destination, mintAuthority, programSigned, amount); err != nil {
		return err
	}

	p.logger.Debug().
		Str("wrapped_mint", wrappedMint.Short()).
		Uint64("amount", amount).
		Msg("wrapped")
	return nil
}

func (p *Processor) unwrap(view *engine.View, tx *engine.Tx, amount uint64) error {
	if len(tx.Accounts) < unwrapAccounts {
		return fmt.Errorf("unwrap needs %d accounts, got %d", unwrapAccounts, len(tx.Accounts))
	}
	source := tx.Accounts[UnwrapWrappedSource]
	wrappedMint := tx.Accounts[UnwrapWrappedMint]
	escrow := tx.Accounts[UnwrapEscrow]
	destination := tx.Accounts[UnwrapUnwrappedDestination]
	unwrappedMint := tx.Accounts[UnwrapUnwrappedMint]
	mintAuthority := tx.Accounts[UnwrapMintAuthority]
	wrappedProgram := tx.Accounts[UnwrapWrappedProgram]
	unwrappedProgram := tx.Accounts[UnwrapUnwrappedProgram]
	transferAuthority := tx.Accounts[UnwrapTransferAuthority]

	if err := p.verifyPair(view, wrappedMint, unwrappedMint, wrappedProgram, mintAuthority, escrow); err != nil {
		return err
	}
	// A withdrawal into the escrow itself would burn against a
	// self-transfer that moves nothing.
	if destination == escrow {
		return ErrEscrowCollision
	}

	issuing := ledger.New(view, wrappedProgram)
	unwrapped := ledger.New(view, unwrappedProgram)

	// Burn wrapped tokens under the caller's authority, then release the
	// same amount from escrow under the derived authority.
	if err := issuing.Burn(source, wrappedMint, transferAuthority, tx.Signers, amount); err != nil {
		return err
	}
	programSigned := append(append([]types.Address{}, tx.Signers...), mintAuthority)
	if err := unwrapped.Transfer(escrow, destination, mintAuthority, programSigned, amount); err != nil {
		return err
	}

	p.logger.Debug().
		Str("wrapped_mint", wrappedMint.Short()).
		Uint64("amount", amount).
		Msg("unwrapped")
	return nil
}

// verifyPair re-derives every address a wrap or unwrap depends on and
// checks the backpointer linkage. Caller-supplied values are never trusted.
func (p *Processor) verifyPair(view *engine.View, wrappedMint, unwrappedMint,
	wrappedProgram, mintAuthority, escrow types.Address) error {

	expectedMint, _, err := WrappedMintAddress(unwrappedMint, wrappedProgram)
	if err != nil {
		return err
	}
	if wrappedMint != expectedMint {
		return fmt.Errorf("%w: wrapped mint %s, expected %s", ErrAddressMismatch, wrappedMint.Short(), expectedMint.Short())
	}
	expectedAuthority, _, err := MintAuthorityAddress(wrappedMint)
	if err != nil {
		return err
	}
	if mintAuthority != expectedAuthority {
		return fmt.Errorf("%w: mint authority %s, expected %s", ErrAddressMismatch, mintAuthority.Short(), expectedAuthority.Short())
	}
	expectedEscrow, _, err := EscrowAddress(wrappedMint)
	if err != nil {
		return err
	}
	if escrow != expectedEscrow {
		return fmt.Errorf("%w: escrow %s, expected %s", ErrAddressMismatch, escrow.Short(), expectedEscrow.Short())
	}
	return readBackpointer(view, wrappedMint, unwrappedMint, wrappedProgram)
}
