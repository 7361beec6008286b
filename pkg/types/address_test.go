package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAddress_String(t *testing.T) {
	var a Address
	a[0] = 0x01
	a[31] = 0xff

	s := a.String()
	if s == "" {
		t.Fatal("String() returned empty")
	}

	parsed, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress(%q) error: %v", s, err)
	}
	if parsed != a {
		t.Errorf("round-trip mismatch: got %s, want %s", parsed, a)
	}
}

func TestAddress_StringZero(t *testing.T) {
	var a Address
	// 32 zero bytes encode as 32 '1' characters in base58.
	if got := a.String(); got != strings.Repeat("1", 32) {
		t.Errorf("zero address String() = %q", got)
	}
}

func TestAddress_IsZero(t *testing.T) {
	var a Address
	if !a.IsZero() {
		t.Error("zero address should report IsZero")
	}
	a[5] = 1
	if a.IsZero() {
		t.Error("non-zero address should not report IsZero")
	}
}

func TestParseAddress_Hex(t *testing.T) {
	hexStr := strings.Repeat("ab", 32)
	a, err := ParseAddress(hexStr)
	if err != nil {
		t.Fatalf("ParseAddress() error: %v", err)
	}
	if a.Hex() != hexStr {
		t.Errorf("Hex() = %q, want %q", a.Hex(), hexStr)
	}
}

func TestParseAddress_Empty(t *testing.T) {
	if _, err := ParseAddress(""); err == nil {
		t.Error("ParseAddress(\"\") should fail")
	}
}

func TestParseAddress_WrongLength(t *testing.T) {
	// Valid base58, wrong payload size.
	if _, err := ParseAddress("abc"); err == nil {
		t.Error("short base58 address should fail")
	}
}

func TestParseAddress_InvalidChars(t *testing.T) {
	// '0', 'O', 'I', 'l' are not in the base58 alphabet.
	if _, err := ParseAddress("0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl"); err == nil {
		t.Error("invalid base58 characters should fail")
	}
}

func TestAddress_JSONRoundTrip(t *testing.T) {
	var a Address
	copy(a[:], []byte("some deterministic address bytes"))

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var back Address
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if back != a {
		t.Errorf("JSON round-trip mismatch: got %s, want %s", back, a)
	}
}

func TestAddress_JSONEmptyString(t *testing.T) {
	var a Address
	if err := json.Unmarshal([]byte(`""`), &a); err != nil {
		t.Fatalf("Unmarshal(\"\") error: %v", err)
	}
	if !a.IsZero() {
		t.Error("empty string should decode to zero address")
	}
}

func TestAddressFromBytes(t *testing.T) {
	b := make([]byte, AddressSize)
	b[0] = 0x42
	a, err := AddressFromBytes(b)
	if err != nil {
		t.Fatalf("AddressFromBytes() error: %v", err)
	}
	if a[0] != 0x42 {
		t.Error("AddressFromBytes() lost content")
	}

	if _, err := AddressFromBytes(b[:31]); err == nil {
		t.Error("AddressFromBytes() should reject 31 bytes")
	}
}

func TestAddress_Short(t *testing.T) {
	var a Address
	a[0] = 0x99
	short := a.Short()
	if !strings.HasSuffix(short, "..") {
		t.Errorf("Short() = %q, want trailing ..", short)
	}
	if len(short) != 10 {
		t.Errorf("Short() length = %d, want 10", len(short))
	}
}
