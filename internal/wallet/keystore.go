package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tessera-labs/tokenwrap/pkg/crypto"
	"github.com/tessera-labs/tokenwrap/pkg/types"
)

// keystoreFile is the on-disk JSON format for an encrypted keypair.
type keystoreFile struct {
	Version          int       `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	Address          string    `json:"address"` // base58, informational
	EncryptedKeypair []byte    `json:"encrypted_keypair"`
}

// Keystore manages encrypted keypair storage on disk. Each named key is
// one file holding a single ed25519 keypair.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// keyPath returns the file path for a key by name.
func (ks *Keystore) keyPath(name string) string {
	return filepath.Join(ks.path, name+".key")
}

// Create writes a new encrypted key file for the keypair.
func (ks *Keystore) Create(name string, kp *crypto.Keypair, password []byte, params EncryptionParams) error {
	path := ks.keyPath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key %q already exists", name)
	}

	raw := kp.Bytes()
	encrypted, err := Encrypt(raw, password, params)
	zero(raw)
	if err != nil {
		return fmt.Errorf("encrypt keypair: %w", err)
	}

	kf := keystoreFile{
		Version:          1,
		CreatedAt:        time.Now().UTC(),
		Address:          kp.Address().String(),
		EncryptedKeypair: encrypted,
	}
	return ks.writeFile(path, &kf)
}

// Load decrypts a key file and returns the keypair.
func (ks *Keystore) Load(name string, password []byte) (*crypto.Keypair, error) {
	kf, err := ks.readFile(ks.keyPath(name))
	if err != nil {
		return nil, err
	}

	raw, err := Decrypt(kf.EncryptedKeypair, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt key: %w", err)
	}
	kp, err := crypto.KeypairFromBytes(raw)
	zero(raw)
	if err != nil {
		return nil, fmt.Errorf("restore keypair: %w", err)
	}
	return kp, nil
}

// Address returns the stored address of a key without decrypting it.
func (ks *Keystore) Address(name string) (types.Address, error) {
	kf, err := ks.readFile(ks.keyPath(name))
	if err != nil {
		return types.Address{}, err
	}
	return types.ParseAddress(kf.Address)
}

// List returns the names of all key files in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".key" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a key file.
func (ks *Keystore) Delete(name string) error {
	path := ks.keyPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("key %q not found", name)
	}
	return os.Remove(path)
}

func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key file: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(path string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	if kf.Version != 1 {
		return nil, fmt.Errorf("unsupported key file version: %d", kf.Version)
	}
	return &kf, nil
}

// ExportPlainJSON writes the keypair as an unencrypted JSON byte array,
// the format used by common wallet tooling. File mode 0600; handle with
// care.
func ExportPlainJSON(path string, kp *crypto.Keypair) error {
	raw := kp.Bytes()
	defer zero(raw)
	ints := make([]int, len(raw))
	for i, b := range raw {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		return fmt.Errorf("marshal keypair: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ImportPlainJSON reads a keypair from an unencrypted JSON byte array file.
func ImportPlainJSON(path string) (*crypto.Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("parse keypair file: %w", err)
	}
	raw := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair file byte %d out of range", i)
		}
		raw[i] = byte(v)
	}
	kp, err := crypto.KeypairFromBytes(raw)
	zero(raw)
	if err != nil {
		return nil, fmt.Errorf("restore keypair: %w", err)
	}
	return kp, nil
}
