// Package keybox is the encryption boundary for secret item fields.
//
// A single master passphrase is stretched with PBKDF2 (100,000 iterations,
// SHA-256) into a 256-bit key for AES-256-GCM. Ciphertexts are packed as
// magic || tag || iv || ctext and handed around as base64 tokens; the owning
// record id is bound in as associated data so a token cannot be replayed
// onto another record.
//
//	sealer, err := keybox.NewSealerFromPassphrase(passphrase)
//	token, err := sealer.Seal(itemID, password)
//	password, err := sealer.Open(itemID, token)
//
// Open fails closed: a tampered or truncated token yields ErrDecryption,
// never partial plaintext.
package keybox
