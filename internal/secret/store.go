// Package secret implements the in-memory secret-protection primitives:
// a root key parked in the OS credential store, per-field subkey
// derivation, authenticated per-field envelopes that re-encrypt themselves
// on every read, and the one-shot quick-unlock password envelope.
package secret

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/keepvault/keepvault/internal/common"
	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/hkdf"
)

// ServiceName identifies keepvault credentials in the OS keyring.
const ServiceName = "keepvault"

const (
	rootKeySize = 32

	// SubkeySize is the length of every derived per-field key.
	SubkeySize = 32
)

// kdfContext is the fixed 8-byte domain-separation tag mixed into every
// subkey derivation.
var kdfContext = []byte("kpvault1")

// Store owns the root key of one open database. The key itself lives in
// the OS credential store and is fetched only for the duration of a single
// derivation; the Store keeps just the credential id.
//
// A Store also allocates field ids: a per-store monotonically increasing
// counter starting at 1, never reused, so every protected value created
// against this store gets a unique subkey.
type Store struct {
	service string
	id      string

	mu       sync.Mutex
	poisoned bool

	fieldIDs atomic.Uint64
}

// NewStore generates a fresh random root key and registers it with the OS
// credential store under a unique id. Returns ErrKeyGeneration if random
// generation or registration fails.
func NewStore() (*Store, error) {
	return NewStoreWithService(ServiceName)
}

// NewStoreWithService is NewStore with an explicit keyring service name,
// so tests and embedders can namespace their credentials.
func NewStoreWithService(service string) (*Store, error) {
	key, err := common.RandBytes(rootKeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	defer common.WipeBytes(key)

	id := uuid.NewString()
	if err := keyring.Set(service, id, hex.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}

	return &Store{service: service, id: id}, nil
}

// NextFieldID allocates the next field id. The first call returns 1.
func (s *Store) NextFieldID() uint64 {
	return s.fieldIDs.Add(1)
}

// retrieve fetches the root key from the OS credential store. The caller
// must wipe the returned buffer.
func (s *Store) retrieve() ([]byte, error) {
	s.mu.Lock()
	poisoned := s.poisoned
	s.mu.Unlock()

	if poisoned {
		return nil, ErrKeyUnavailable
	}

	enc, err := keyring.Get(s.service, s.id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyUnavailable, err)
	}

	key, err := hex.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt credential: %w", ErrKeyUnavailable, err)
	}

	return key, nil
}

// DeriveSubkey derives the 32-byte subkey for the given field id using
// HKDF-SHA256 over the root key, with the fixed context tag as salt and
// the big-endian field id as info. Every call fetches the root key from
// the OS store and wipes it before returning.
//
// Returns ErrKeyUnavailable once the store is poisoned, ErrDerivation on
// KDF failure. The caller must wipe the returned subkey.
func (s *Store) DeriveSubkey(fieldID uint64) ([]byte, error) {
	root, err := s.retrieve()
	if err != nil {
		return nil, err
	}
	defer common.WipeBytes(root)

	info := binary.BigEndian.AppendUint64(nil, fieldID)
	r := hkdf.New(sha256.New, root, kdfContext, info)

	subkey := make([]byte, SubkeySize)
	if _, err := io.ReadFull(r, subkey); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivation, err)
	}

	return subkey, nil
}

// Poison deletes the root key from the OS credential store, permanently
// disabling every envelope keyed through this store. A second Poison call
// returns ErrAlreadyPoisoned.
func (s *Store) Poison() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poisoned {
		return ErrAlreadyPoisoned
	}
	s.poisoned = true

	if err := keyring.Delete(s.service, s.id); err != nil {
		return fmt.Errorf("deleting root key credential: %w", err)
	}
	return nil
}

// Poisoned reports whether the root key has been removed.
func (s *Store) Poisoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poisoned
}
