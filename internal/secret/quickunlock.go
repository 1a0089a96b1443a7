package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/keepvault/keepvault/internal/common"
	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/argon2"
)

// shortPasswordLen is how many leading characters of the master password
// the quick-unlock key is derived from.
const shortPasswordLen = 5

const (
	quickUnlockSaltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// QuickUnlock seals the full master password under a key derived from its
// first few characters, parking the ciphertext in the OS credential store.
// The next session can then be opened by typing only the short prefix.
//
// Reveal is strictly one-shot: a successful reveal deletes the credential,
// so a stolen prefix cannot be replayed.
type QuickUnlock struct {
	service string
	id      string
	salt    []byte
	nonce   []byte

	mu   sync.Mutex
	used bool
}

// NewQuickUnlock encrypts password with AES-256-GCM under an argon2id key
// stretched from the password's first characters and stores the ciphertext
// in the OS keyring. The password buffer is wiped before returning.
func NewQuickUnlock(service string, password []byte) (*QuickUnlock, error) {
	defer common.WipeBytes(password)

	short := shortPrefix(password)
	defer common.WipeBytes(short)

	salt, err := common.RandBytes(quickUnlockSaltSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	aead, err := quickUnlockAEAD(short, salt)
	if err != nil {
		return nil, err
	}

	nonce, err := common.RandBytes(aead.NonceSize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	ciphertext := aead.Seal(nil, nonce, password, nil)

	id := uuid.NewString()
	if err := keyring.Set(service, id, hex.EncodeToString(ciphertext)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	return &QuickUnlock{service: service, id: id, salt: salt, nonce: nonce}, nil
}

// Reveal decrypts and returns the full master password given its short
// prefix. On success the stored credential is deleted first, so any
// further Reveal (or a second concurrent one) fails with
// ErrKeyUnavailable. A wrong prefix fails with ErrDecryptionFailed and
// also burns the credential.
func (q *QuickUnlock) Reveal(short []byte) (*Guard, error) {
	defer common.WipeBytes(short)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.used {
		return nil, ErrKeyUnavailable
	}
	q.used = true

	enc, err := keyring.Get(q.service, q.id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}
	if err := keyring.Delete(q.service, q.id); err != nil {
		return nil, fmt.Errorf("deleting quick-unlock credential: %w", err)
	}

	ciphertext, err := hex.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt credential: %w", ErrKeyUnavailable, err)
	}

	aead, err := quickUnlockAEAD(short, q.salt)
	if err != nil {
		return nil, err
	}

	password, err := aead.Open(nil, q.nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return newGuard(password), nil
}

// Destroy removes the stored credential without revealing it. Safe to call
// after a successful Reveal.
func (q *QuickUnlock) Destroy() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.used {
		return nil
	}
	q.used = true

	if err := keyring.Delete(q.service, q.id); err != nil {
		return fmt.Errorf("deleting quick-unlock credential: %w", err)
	}
	return nil
}

// shortPrefix copies the first shortPasswordLen runes of password. Shorter
// passwords are used whole.
func shortPrefix(password []byte) []byte {
	runes := []rune(string(password))
	if len(runes) > shortPasswordLen {
		runes = runes[:shortPasswordLen]
	}
	return []byte(string(runes))
}

func quickUnlockAEAD(short, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(short, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	defer common.WipeBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryption, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryption, err)
	}
	return aead, nil
}
