package secret

import "errors"

var (
	// Root-key lifecycle errors against the OS credential layer. All of
	// them are fatal for the affected field or database; there is no
	// fallback to plaintext.
	ErrKeyGeneration   = errors.New("root key generation failed")
	ErrKeyUnavailable  = errors.New("root key unavailable")
	ErrAlreadyPoisoned = errors.New("root key already poisoned")
	ErrDerivation      = errors.New("subkey derivation failed")

	// Cryptographic errors. A failed authenticated decryption means the
	// envelope was tampered with or keyed wrongly; the field's data is
	// unrecoverable, but the rest of the database stays usable.
	ErrEncryption       = errors.New("encryption failed")
	ErrDecryptionFailed = errors.New("decryption failed")
)
