package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdMap_PreservesInsertionOrder(t *testing.T) {
	m := newOrdMap[string, int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	var keys []string
	for k, v := range m.All() {
		keys = append(keys, k)
		assert.Equal(t, m.values[k], v)
	}
	assert.Equal(t, []string{"c", "a", "b"}, keys)
	assert.Equal(t, 3, m.Len())
}

func TestOrdMap_OverwriteKeepsPosition(t *testing.T) {
	m := newOrdMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 10)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, m.Len())

	var values []int
	for v := range m.Values() {
		values = append(values, v)
	}
	assert.Equal(t, []int{10, 2}, values)
}

func TestOrdMap_MissingKey(t *testing.T) {
	m := newOrdMap[string, int]()
	_, ok := m.Get("nope")
	assert.False(t, ok)
}
