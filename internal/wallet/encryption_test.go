package wallet

import (
	"bytes"
	"testing"
)

// testParams are deliberately weak to keep tests fast.
func testParams() EncryptionParams {
	return EncryptionParams{Memory: 1024, Iterations: 1, Parallelism: 1}
}

func TestEncryptDecrypt(t *testing.T) {
	data := []byte("sixty-four bytes of very secret keypair material goes right here")
	password := []byte("correct horse")

	encrypted, err := Encrypt(data, password, testParams())
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if bytes.Contains(encrypted, data) {
		t.Error("ciphertext contains plaintext")
	}

	decrypted, err := Decrypt(encrypted, password)
	if err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
	if !bytes.Equal(decrypted, data) {
		t.Error("round trip mismatch")
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), []byte("right"), testParams())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(encrypted, []byte("wrong")); err == nil {
		t.Error("expected error with wrong password")
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), []byte("pw"), testParams())
	if err != nil {
		t.Fatal(err)
	}
	encrypted[len(encrypted)-1] ^= 0xff
	if _, err := Decrypt(encrypted, []byte("pw")); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	if _, err := Decrypt([]byte{1, 2, 3}, []byte("pw")); err == nil {
		t.Error("expected error for truncated input")
	}
}

func TestEncrypt_FreshSaltAndNonce(t *testing.T) {
	data := []byte("secret")
	password := []byte("pw")

	a, err := Encrypt(data, password, testParams())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encrypt(data, password, testParams())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("two encryptions of the same data are identical")
	}
}
