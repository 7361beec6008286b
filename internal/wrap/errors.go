package wrap

import "errors"

// Wrap program errors. Every failure aborts the whole transaction; nothing
// is retried.
var (
	// ErrAddressMismatch means a caller-supplied derived address does not
	// equal its recomputation from the seed inputs.
	ErrAddressMismatch = errors.New("derived address mismatch")
	// ErrAlreadyInitialized means a non-idempotent CreateMint hit an
	// existing pair, or an existing pair with conflicting content.
	ErrAlreadyInitialized = errors.New("wrapped mint already initialized")
	// ErrBackpointerInvalid means the backpointer record does not match the
	// claimed unwrapped mint and issuing program.
	ErrBackpointerInvalid = errors.New("backpointer does not match wrapped mint")
	// ErrInvalidInstructionData means a malformed payload, rejected before
	// any state is touched.
	ErrInvalidInstructionData = errors.New("invalid instruction data")
	// ErrEscrowCollision means the escrow itself was supplied as the
	// deposit source or the withdrawal destination. Moving between the
	// escrow and itself would change supply without moving any tokens.
	ErrEscrowCollision = errors.New("escrow cannot be the user token account")
	// ErrNoViableBump means no bump byte produced an off-curve address.
	// With a 256-value search space this is not expected to occur.
	ErrNoViableBump = errors.New("no viable bump seed found")
)
