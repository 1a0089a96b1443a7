package secret

import (
	"fmt"
	"sync"

	"github.com/keepvault/keepvault/internal/common"
	"golang.org/x/crypto/chacha20poly1305"
)

// Envelope is one field's at-rest representation: XChaCha20-Poly1305
// ciphertext plus nonce under the subkey for its field id. The plaintext
// exists only inside the window of an Expose call.
//
// A mutex serializes Expose calls on the same envelope, so the stored
// ciphertext/nonce pair can never be corrupted by interleaved
// decrypt/re-encrypt cycles. Envelopes for distinct fields are fully
// independent.
type Envelope struct {
	fieldID uint64

	mu         sync.Mutex
	ciphertext []byte
	nonce      []byte
}

// NewEnvelope encrypts plaintext under the subkey for fieldID and a fresh
// random nonce. The plaintext buffer is wiped before returning, success or
// not. Returns ErrEncryption (or a key-lifecycle error) on failure.
func NewEnvelope(store *Store, fieldID uint64, plaintext []byte) (*Envelope, error) {
	defer common.WipeBytes(plaintext)

	ciphertext, nonce, err := seal(store, fieldID, plaintext)
	if err != nil {
		return nil, err
	}

	return &Envelope{fieldID: fieldID, ciphertext: ciphertext, nonce: nonce}, nil
}

// FieldID returns the immutable field id this envelope is keyed for.
func (e *Envelope) FieldID() uint64 {
	return e.fieldID
}

// Expose decrypts the envelope, immediately re-encrypts the plaintext
// under a newly generated nonce and re-derived subkey (replacing the
// stored ciphertext/nonce in place), and only then returns the plaintext
// wrapped in a self-wiping Guard.
//
// Re-keying on every read bounds how long any single (key, nonce) pair
// stays live and rotates the at-rest ciphertext, so later memory snapshots
// cannot be correlated with earlier ones.
//
// Returns ErrDecryptionFailed on tamper or wrong key (unrecoverable for
// this field) and ErrKeyUnavailable once the store is poisoned. If only
// the re-encryption step fails, the previous ciphertext/nonce pair is kept
// intact and no plaintext is returned.
func (e *Envelope) Expose(store *Store) (*Guard, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plaintext, err := e.open(store)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := seal(store, e.fieldID, copyBytes(plaintext))
	if err != nil {
		common.WipeBytes(plaintext)
		return nil, err
	}

	common.WipeBytes(e.ciphertext)
	e.ciphertext = ciphertext
	e.nonce = nonce

	return newGuard(plaintext), nil
}

// Rekey rotates the stored ciphertext/nonce without exposing the
// plaintext to the caller.
func (e *Envelope) Rekey(store *Store) error {
	guard, err := e.Expose(store)
	if err != nil {
		return err
	}
	return guard.Close()
}

// Wipe overwrites the stored ciphertext, invalidating the envelope. Used
// when the owning entity is being destroyed.
func (e *Envelope) Wipe() {
	e.mu.Lock()
	defer e.mu.Unlock()
	common.WipeBytes(e.ciphertext)
	common.WipeBytes(e.nonce)
	e.ciphertext = nil
	e.nonce = nil
}

// open decrypts with the current subkey/nonce. Caller holds e.mu and must
// wipe the returned plaintext.
func (e *Envelope) open(store *Store) ([]byte, error) {
	if len(e.nonce) != chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("%w: envelope wiped", ErrDecryptionFailed)
	}

	subkey, err := store.DeriveSubkey(e.fieldID)
	if err != nil {
		return nil, err
	}
	defer common.WipeBytes(subkey)

	aead, err := chacha20poly1305.NewX(subkey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	plaintext, err := aead.Open(nil, e.nonce, e.ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

// seal encrypts plaintext under the subkey for fieldID with a fresh
// nonce. The plaintext buffer is wiped before returning.
func seal(store *Store, fieldID uint64, plaintext []byte) (ciphertext, nonce []byte, err error) {
	defer common.WipeBytes(plaintext)

	subkey, err := store.DeriveSubkey(fieldID)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeBytes(subkey)

	aead, err := chacha20poly1305.NewX(subkey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	nonce, err = common.RandBytes(aead.NonceSize())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncryption, err)
	}

	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
