package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	keyring.MockInit()
	s, err := NewStore()
	require.NoError(t, err)
	return s
}

func TestStore_NextFieldID_MonotonicFromOne(t *testing.T) {
	s := newTestStore(t)

	require.Equal(t, uint64(1), s.NextFieldID())
	require.Equal(t, uint64(2), s.NextFieldID())
	require.Equal(t, uint64(3), s.NextFieldID())
}

func TestStore_DeriveSubkey_DistinctPerField(t *testing.T) {
	s := newTestStore(t)

	k1, err := s.DeriveSubkey(1)
	require.NoError(t, err)
	k2, err := s.DeriveSubkey(2)
	require.NoError(t, err)

	require.Len(t, k1, SubkeySize)
	require.Len(t, k2, SubkeySize)
	assert.NotEqual(t, k1, k2)
}

func TestStore_DeriveSubkey_Deterministic(t *testing.T) {
	s := newTestStore(t)

	k1, err := s.DeriveSubkey(7)
	require.NoError(t, err)
	k2, err := s.DeriveSubkey(7)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestStore_Poison_SecondCallFails(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Poison())
	require.True(t, s.Poisoned())

	err := s.Poison()
	require.ErrorIs(t, err, ErrAlreadyPoisoned)
}

func TestStore_DeriveSubkey_AfterPoison(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Poison())

	_, err := s.DeriveSubkey(1)
	require.ErrorIs(t, err, ErrKeyUnavailable)
}

func TestStore_IndependentStores_DifferentSubkeys(t *testing.T) {
	keyring.MockInit()

	s1, err := NewStore()
	require.NoError(t, err)
	s2, err := NewStore()
	require.NoError(t, err)

	k1, err := s1.DeriveSubkey(1)
	require.NoError(t, err)
	k2, err := s2.DeriveSubkey(1)
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}
