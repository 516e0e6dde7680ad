package keybox

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	kdfIterations = 100000
	kdfKeyLen     = 32
)

// kdfSalt is a fixed application salt. The master passphrase is the secret;
// the salt only namespaces derived keys to this application.
var kdfSalt = []byte("keyhaven-master-salt")

// DeriveKey stretches a master passphrase into a 256-bit AES key.
func DeriveKey(passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), kdfSalt, kdfIterations, kdfKeyLen, sha256.New)
}
