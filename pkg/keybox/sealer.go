package keybox

import "encoding/base64"

// Sealer wraps a SymmetricCipher with a string-token API. Stores hold only
// the tokens it produces; plaintext exists solely between Seal and Open.
type Sealer struct {
	cipher SymmetricCipher
}

func NewSealer(cipher SymmetricCipher) *Sealer {
	return &Sealer{cipher: cipher}
}

// NewSealerFromPassphrase derives the data key from a master passphrase and
// returns a ready Sealer.
func NewSealerFromPassphrase(passphrase string) (*Sealer, error) {
	cipher, err := NewSymmetric(DeriveKey(passphrase))
	if err != nil {
		return nil, err
	}
	return &Sealer{cipher: cipher}, nil
}

// Seal encrypts plaintext bound to aad and returns a base64 ciphertext token.
func (s *Sealer) Seal(aad, plaintext string) (string, error) {
	packed, err := s.cipher.Encrypt([]byte(aad), []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(packed), nil
}

// Open decrypts a token produced by Seal. Any malformed or tampered token
// returns ErrDecryption.
func (s *Sealer) Open(aad, token string) (string, error) {
	packed, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrDecryption
	}
	plaintext, err := s.cipher.Decrypt([]byte(aad), packed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
