package ledger

import (
	"fmt"
	"math"

	"github.com/tessera-labs/tokenwrap/internal/engine"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// Program is one token program deployment bound to a transaction view.
// All reads and writes go through the view, so they share the enclosing
// transaction's atomic commit.
type Program struct {
	view *engine.View
	id   types.Address
}

// New binds a deployment to a view.
func New(view *engine.View, programID types.Address) *Program {
	return &Program{view: view, id: programID}
}

// ID returns the deployment address.
func (p *Program) ID() types.Address {
	return p.id
}

// Mint reads an initialized mint owned by this deployment.
func (p *Program) Mint(addr types.Address) (*Mint, error) {
	acct, err := p.ownedAccount(addr)
	if err != nil {
		return nil, err
	}
	return decodeMint(acct.Data)
}

// TokenAccount reads an initialized token account owned by this deployment.
func (p *Program) TokenAccount(addr types.Address) (*TokenAccount, error) {
	acct, err := p.ownedAccount(addr)
	if err != nil {
		return nil, err
	}
	return decodeTokenAccount(acct.Data)
}

// InitializeMint writes a fresh mint record with zero supply. The account
// is allocated if it does not exist yet; an account that already holds a
// record fails with ErrAlreadyInUse.
func (p *Program) InitializeMint(addr types.Address, decimals uint8, mintAuthority types.Address) error {
	acct, err := p.freshAccount(addr, MintSize)
	if err != nil {
		return err
	}
	data, err := encodeMint(&Mint{
		Supply:        0,
		Decimals:      decimals,
		MintAuthority: mintAuthority,
	})
	if err != nil {
		return err
	}
	acct.Data = data
	p.view.SetAccount(addr, acct)
	return nil
}

// InitializeAccount writes a fresh token account record with zero balance.
func (p *Program) InitializeAccount(addr, mint, owner types.Address) error {
	// The mint must exist under this deployment.
	if _, err := p.Mint(mint); err != nil {
		return fmt.Errorf("initialize account: %w", err)
	}
	acct, err := p.freshAccount(addr, TokenAccountSize)
	if err != nil {
		return err
	}
	data, err := encodeTokenAccount(&TokenAccount{
		Mint:   mint,
		Owner:  owner,
		Amount: 0,
	})
	if err != nil {
		return err
	}
	acct.Data = data
	p.view.SetAccount(addr, acct)
	return nil
}

// InitializeMultisig writes a fresh M-of-N multisig record.
func (p *Program) InitializeMultisig(addr types.Address, m uint8, signers []types.Address) error {
	n := len(signers)
	if n < MinMultisigSigners || n > MaxMultisigSigners {
		return fmt.Errorf("multisig needs %d..%d signers, got %d", MinMultisigSigners, MaxMultisigSigners, n)
	}
	if int(m) < MinMultisigSigners || int(m) > n {
		return fmt.Errorf("multisig threshold %d out of range 1..%d", m, n)
	}
	acct, err := p.freshAccount(addr, MultisigSize)
	if err != nil {
		return err
	}
	rec := &Multisig{M: m, N: uint8(n)}
	copy(rec.Signers[:], signers)
	data, err := encodeMultisig(rec)
	if err != nil {
		return err
	}
	acct.Data = data
	p.view.SetAccount(addr, acct)
	return nil
}

// Transfer moves amount from src to dst. The src owner must authorize:
// either the owner address is in signers, or it is a multisig account with
// at least M of its signers present.
func (p *Program) Transfer(src, dst, authority types.Address, signers []types.Address, amount uint64) error {
	srcAcct, err := p.TokenAccount(src)
	if err != nil {
		return fmt.Errorf("transfer source: %w", err)
	}
	dstAcct, err := p.TokenAccount(dst)
	if err != nil {
		return fmt.Errorf("transfer destination: %w", err)
	}
	if srcAcct.Mint != dstAcct.Mint {
		return ErrMintMismatch
	}
	if srcAcct.Owner != authority {
		return fmt.Errorf("%w: authority %s does not own source", ErrMissingAuthority, authority.Short())
	}
	if err := p.checkAuthority(authority, signers); err != nil {
		return err
	}
	if srcAcct.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, srcAcct.Amount, amount)
	}
	if dstAcct.Amount > math.MaxUint64-amount {
		return ErrAmountOverflow
	}

	if src == dst {
		// Self-transfer: validated above, no balance change.
		return nil
	}
	srcAcct.Amount -= amount
	dstAcct.Amount += amount
	if err := p.writeTokenAccount(src, srcAcct); err != nil {
		return err
	}
	return p.writeTokenAccount(dst, dstAcct)
}

// MintTo creates amount new tokens in dst. Requires the mint authority.
func (p *Program) MintTo(mint, dst, authority types.Address, signers []types.Address, amount uint64) error {
	mintRec, err := p.Mint(mint)
	if err != nil {
		return fmt.Errorf("mint-to: %w", err)
	}
	dstAcct, err := p.TokenAccount(dst)
	if err != nil {
		return fmt.Errorf("mint-to destination: %w", err)
	}
	if dstAcct.Mint != mint {
		return ErrMintMismatch
	}
	if mintRec.MintAuthority != authority {
		return fmt.Errorf("%w: %s is not the mint authority", ErrMissingAuthority, authority.Short())
	}
	if err := p.checkAuthority(authority, signers); err != nil {
		return err
	}
	if mintRec.Supply > math.MaxUint64-amount || dstAcct.Amount > math.MaxUint64-amount {
		return ErrAmountOverflow
	}

	mintRec.Supply += amount
	dstAcct.Amount += amount
	if err := p.writeMint(mint, mintRec); err != nil {
		return err
	}
	return p.writeTokenAccount(dst, dstAcct)
}

// Burn destroys amount tokens held in src and decrements the mint supply.
// Requires the src owner's authority.
func (p *Program) Burn(src, mint, authority types.Address, signers []types.Address, amount uint64) error {
	srcAcct, err := p.TokenAccount(src)
	if err != nil {
		return fmt.Errorf("burn source: %w", err)
	}
	mintRec, err := p.Mint(mint)
	if err != nil {
		return fmt.Errorf("burn: %w", err)
	}
	if srcAcct.Mint != mint {
		return ErrMintMismatch
	}
	if srcAcct.Owner != authority {
		return fmt.Errorf("%w: authority %s does not own source", ErrMissingAuthority, authority.Short())
	}
	if err := p.checkAuthority(authority, signers); err != nil {
		return err
	}
	if srcAcct.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, srcAcct.Amount, amount)
	}
	if mintRec.Supply < amount {
		return fmt.Errorf("%w: supply %d, burn %d", ErrInsufficientSupply, mintRec.Supply, amount)
	}

	srcAcct.Amount -= amount
	mintRec.Supply -= amount
	if err := p.writeTokenAccount(src, srcAcct); err != nil {
		return err
	}
	return p.writeMint(mint, mintRec)
}

// checkAuthority verifies that authority authorized this operation: it is
// itself a signer, or it is a multisig account with >= M signers present.
func (p *Program) checkAuthority(authority types.Address, signers []types.Address) error {
	for _, s := range signers {
		if s == authority {
			return nil
		}
	}

	// Multisig authority: the account must exist under this deployment.
	acct, err := p.ownedAccount(authority)
	if err != nil {
		return fmt.Errorf("%w: %s did not sign", ErrMissingAuthority, authority.Short())
	}
	ms, err := decodeMultisig(acct.Data)
	if err != nil {
		return fmt.Errorf("%w: %s did not sign", ErrMissingAuthority, authority.Short())
	}

	matched := 0
	for i := 0; i < int(ms.N); i++ {
		for _, s := range signers {
			if s == ms.Signers[i] {
				matched++
				break
			}
		}
	}
	if matched < int(ms.M) {
		return fmt.Errorf("%w: %d of %d multisig signers present, need %d", ErrMissingAuthority, matched, ms.N, ms.M)
	}
	return nil
}

// ownedAccount reads an account and checks it belongs to this deployment.
func (p *Program) ownedAccount(addr types.Address) (*engine.Account, error) {
	acct, err := p.view.Account(addr)
	if err != nil {
		return nil, err
	}
	if acct.Owner != p.id {
		return nil, fmt.Errorf("%w: %s", ErrOwnerMismatch, addr.Short())
	}
	return acct, nil
}

// freshAccount returns an account ready to receive its first record:
// allocated here if missing, required zeroed if it already exists.
func (p *Program) freshAccount(addr types.Address, size int) (*engine.Account, error) {
	if !p.view.HasAccount(addr) {
		if err := p.view.Allocate(addr, p.id, size); err != nil {
			return nil, err
		}
	}
	acct, err := p.ownedAccount(addr)
	if err != nil {
		return nil, err
	}
	if len(acct.Data) != size {
		return nil, fmt.Errorf("account %s has size %d, want %d", addr.Short(), len(acct.Data), size)
	}
	if !isZeroed(acct.Data) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInUse, addr.Short())
	}
	return acct, nil
}

func (p *Program) writeMint(addr types.Address, m *Mint) error {
	acct, err := p.ownedAccount(addr)
	if err != nil {
		return err
	}
	data, err := encodeMint(m)
	if err != nil {
		return err
	}
	acct.Data = data
	p.view.SetAccount(addr, acct)
	return nil
}

func (p *Program) writeTokenAccount(addr types.Address, a *TokenAccount) error {
	acct, err := p.ownedAccount(addr)
	if err != nil {
		return err
	}
	data, err := encodeTokenAccount(a)
	if err != nil {
		return err
	}
	acct.Data = data
	p.view.SetAccount(addr, acct)
	return nil
}

// ReadMint reads a mint record at addr regardless of which deployment owns
// it, returning the owning deployment address alongside the record.
func ReadMint(view *engine.View, addr types.Address) (*Mint, types.Address, error) {
	acct, err := view.Account(addr)
	if err != nil {
		return nil, types.Address{}, err
	}
	m, err := decodeMint(acct.Data)
	if err != nil {
		return nil, types.Address{}, err
	}
	return m, acct.Owner, nil
}
