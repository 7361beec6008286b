// Package wallet implements keypair generation and encrypted key storage.
package wallet

import (
	"fmt"

	"github.com/tessera-labs/tokenwrap/pkg/crypto"
	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// KeypairFromMnemonic derives a signing keypair from a mnemonic and
// optional passphrase. The BIP-39 PBKDF2 seed is truncated to the ed25519
// seed size, so the same mnemonic always yields the same keypair.
func KeypairFromMnemonic(mnemonic, passphrase string) (*crypto.Keypair, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}
	kp, err := crypto.KeypairFromSeed(seed[:crypto.SeedSize])
	for i := range seed {
		seed[i] = 0
	}
	if err != nil {
		return nil, fmt.Errorf("derive keypair: %w", err)
	}
	return kp, nil
}
