package wrap

import (
	"fmt"

	"github.com/near/borsh-go"
	"github.com/tessera-labs/tokenwrap/internal/engine"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// BackpointerSize is the fixed borsh layout size of a backpointer record.
const BackpointerSize = 3 * types.AddressSize

// Backpointer is the immutable proof record linking a wrapped mint to its
// originating unwrapped mint and issuing program. Written once at pair
// creation; its existence and content are the sole evidence that a wrapped
// mint is genuine.
type Backpointer struct {
	UnwrappedMint  types.Address
	WrappedMint    types.Address
	WrappedProgram types.Address
}

func encodeBackpointer(bp *Backpointer) ([]byte, error) {
	data, err := borsh.Serialize(*bp)
	if err != nil {
		return nil, fmt.Errorf("encode backpointer: %w", err)
	}
	return data, nil
}

func decodeBackpointer(data []byte) (*Backpointer, error) {
	if len(data) != BackpointerSize {
		return nil, fmt.Errorf("backpointer record size %d, want %d", len(data), BackpointerSize)
	}
	var bp Backpointer
	if err := borsh.Deserialize(&bp, data); err != nil {
		return nil, fmt.Errorf("decode backpointer: %w", err)
	}
	return &bp, nil
}

// readBackpointer loads and verifies the backpointer for a wrapped mint:
// the record must live at the derived address, be owned by the wrap
// program, and name exactly the claimed pair.
func readBackpointer(view *engine.View, wrappedMint, unwrappedMint, wrappedProgram types.Address) error {
	bpAddr, _, err := BackpointerAddress(wrappedMint)
	if err != nil {
		return err
	}
	acct, err := view.Account(bpAddr)
	if err != nil {
		return fmt.Errorf("%w: no backpointer record", ErrBackpointerInvalid)
	}
	if acct.Owner != ProgramID {
		return fmt.Errorf("%w: record not owned by wrap program", ErrBackpointerInvalid)
	}
	bp, err := decodeBackpointer(acct.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackpointerInvalid, err)
	}
	if bp.UnwrappedMint != unwrappedMint || bp.WrappedMint != wrappedMint || bp.WrappedProgram != wrappedProgram {
		return fmt.Errorf("%w: record names a different pair", ErrBackpointerInvalid)
	}
	return nil
}
