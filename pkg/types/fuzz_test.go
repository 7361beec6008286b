package types

import (
	"strings"
	"testing"
)

// FuzzParseAddress tests that arbitrary strings do not panic the address
// parser, and that every accepted input names a stable address: rendering
// and re-parsing must return the same value.
func FuzzParseAddress(f *testing.F) {
	f.Add(Address{1, 2, 3}.String())
	f.Add(Address{}.Hex())
	f.Add("11111111111111111111111111111111")
	f.Add("")
	f.Add("not-an-address")
	f.Add(strings.Repeat("f", 64))
	f.Add(strings.Repeat("z", 100))

	f.Fuzz(func(t *testing.T, s string) {
		a, err := ParseAddress(s)
		if err != nil {
			return
		}
		back, err := ParseAddress(a.String())
		if err != nil {
			t.Fatalf("canonical form %q failed to parse: %v", a.String(), err)
		}
		if back != a {
			t.Errorf("round-trip of %q changed the address", s)
		}
	})
}
