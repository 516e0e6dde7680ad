package keybox

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNewSymmetric(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	if err != nil {
		t.Fatalf("unexpected error with valid key: %v", err)
	}
	if cipher == nil {
		t.Fatal("expected non-nil cipher")
	}

	// AES requires 16, 24, or 32 bytes
	_, err = NewSymmetric(make([]byte, 15))
	if err == nil {
		t.Error("expected error with invalid key size")
	}
}

func TestSymmetricEncryptDecrypt(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	tests := []struct {
		name      string
		aad       []byte
		plaintext []byte
	}{
		{name: "simple message", aad: []byte("item-1"), plaintext: []byte("hunter2")},
		{name: "empty plaintext", aad: []byte("item-1"), plaintext: []byte("")},
		{name: "long message", aad: []byte("item-2"), plaintext: bytes.Repeat([]byte("x"), 10000)},
		{name: "binary data", aad: []byte("item-3"), plaintext: []byte{0x00, 0x01, 0xff, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := cipher.Encrypt(tt.aad, tt.plaintext)
			if err != nil {
				t.Fatalf("encryption failed: %v", err)
			}

			if len(tt.plaintext) > 0 && bytes.Equal(ciphertext, tt.plaintext) {
				t.Error("ciphertext should differ from plaintext")
			}

			decrypted, err := cipher.Decrypt(tt.aad, ciphertext)
			if err != nil {
				t.Fatalf("decryption failed: %v", err)
			}
			if !bytes.Equal(decrypted, tt.plaintext) {
				t.Errorf("decrypted doesn't match original: got %v, want %v", decrypted, tt.plaintext)
			}
		})
	}
}

func TestSymmetricDecryptFailsClosed(t *testing.T) {
	cipher, _ := NewSymmetric(testKey())

	ciphertext, err := cipher.Encrypt([]byte("item-1"), []byte("secret"))
	if err != nil {
		t.Fatalf("encryption failed: %v", err)
	}

	// Every single-byte mutation must be rejected.
	for i := range ciphertext {
		mutated := make([]byte, len(ciphertext))
		copy(mutated, ciphertext)
		mutated[i] ^= 0x01

		if _, err := cipher.Decrypt([]byte("item-1"), mutated); err == nil {
			t.Fatalf("expected decryption error after mutating byte %d", i)
		}
	}

	// Wrong associated data is a tamper too.
	if _, err := cipher.Decrypt([]byte("item-2"), ciphertext); err == nil {
		t.Error("expected decryption error with wrong aad")
	}

	// Truncated input.
	if _, err := cipher.Decrypt([]byte("item-1"), ciphertext[:8]); err == nil {
		t.Error("expected decryption error with truncated input")
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := RandomToken(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("expected distinct tokens")
	}
}
