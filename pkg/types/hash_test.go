package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_String(t *testing.T) {
	var h Hash
	h[0] = 0xab
	s := h.String()
	if len(s) != 64 {
		t.Errorf("String() length = %d, want 64", len(s))
	}
	if !strings.HasPrefix(s, "ab") {
		t.Errorf("String() = %q, want ab prefix", s)
	}
}

func TestHash_IsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Error("zero hash should report IsZero")
	}
	h[31] = 1
	if h.IsZero() {
		t.Error("non-zero hash should not report IsZero")
	}
}

func TestHexToHash(t *testing.T) {
	hexStr := strings.Repeat("0f", 32)
	h, err := HexToHash(hexStr)
	if err != nil {
		t.Fatalf("HexToHash() error: %v", err)
	}
	if h.String() != hexStr {
		t.Errorf("String() = %q, want %q", h.String(), hexStr)
	}
}

func TestHexToHash_Invalid(t *testing.T) {
	if _, err := HexToHash("zz"); err == nil {
		t.Error("invalid hex should fail")
	}
	if _, err := HexToHash("abcd"); err == nil {
		t.Error("short hex should fail")
	}
}

func TestHash_JSONRoundTrip(t *testing.T) {
	var h Hash
	copy(h[:], []byte("deterministic hash test content!"))

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var back Hash
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if back != h {
		t.Error("JSON round-trip mismatch")
	}
}
