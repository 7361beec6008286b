package ledger

import "errors"

// Ledger errors. Callers surface these verbatim; nothing is retried.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientSupply = errors.New("insufficient supply")
	ErrMissingAuthority   = errors.New("authority signature or multisig threshold not met")
	ErrNotInitialized     = errors.New("account not initialized")
	ErrAlreadyInUse       = errors.New("account already in use")
	ErrMintMismatch       = errors.New("token account mint mismatch")
	ErrOwnerMismatch      = errors.New("account not owned by this program")
	ErrAmountOverflow     = errors.New("token amount overflow")
	ErrInvalidInstruction = errors.New("invalid ledger instruction")
)
