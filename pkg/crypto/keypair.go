package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// SeedSize is the length of an ed25519 private key seed.
const SeedSize = ed25519.SeedSize

// Keypair wraps an ed25519 private key. The public key doubles as the
// account address.
type Keypair struct {
	priv ed25519.PrivateKey
}

// GenerateKeypair creates a new random ed25519 keypair.
func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{priv: priv}, nil
}

// KeypairFromSeed derives a keypair from a 32-byte seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return &Keypair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// KeypairFromBytes restores a keypair from a 64-byte expanded private key
// (seed followed by public key, the common keypair-file layout).
func KeypairFromBytes(b []byte) (*Keypair, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("keypair must be %d bytes, got %d", ed25519.PrivateKeySize, len(b))
	}
	priv := ed25519.PrivateKey(append([]byte(nil), b...))
	// Verify the embedded public key matches the seed half.
	derived := ed25519.NewKeyFromSeed(priv.Seed())
	if !derived.Public().(ed25519.PublicKey).Equal(priv.Public().(ed25519.PublicKey)) {
		return nil, fmt.Errorf("keypair bytes inconsistent")
	}
	return &Keypair{priv: priv}, nil
}

// Address returns the public key as an account address.
func (k *Keypair) Address() types.Address {
	var a types.Address
	copy(a[:], k.priv.Public().(ed25519.PublicKey))
	return a
}

// Sign produces an ed25519 signature over the message.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}

// Bytes returns the 64-byte expanded private key.
func (k *Keypair) Bytes() []byte {
	return append([]byte(nil), k.priv...)
}

// Seed returns the 32-byte private key seed.
func (k *Keypair) Seed() []byte {
	return k.priv.Seed()
}

// Zero overwrites the private key material.
func (k *Keypair) Zero() {
	for i := range k.priv {
		k.priv[i] = 0
	}
}

// VerifySignature checks an ed25519 signature against a message and an
// address (public key). Returns false on any error.
func VerifySignature(addr types.Address, message, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(addr[:]), message, signature)
}
