package vault

import "iter"

// ordMap is a map that remembers insertion order. Iteration yields values
// in the order their keys were first set, which keeps group children and
// custom fields in the order the source file declared them.
type ordMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrdMap[K comparable, V any]() *ordMap[K, V] {
	return &ordMap[K, V]{values: make(map[K]V)}
}

func (m *ordMap[K, V]) Set(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *ordMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *ordMap[K, V]) Len() int {
	return len(m.keys)
}

// All iterates entries in insertion order. The sequence is restartable:
// each range starts from the beginning.
func (m *ordMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Values iterates just the values in insertion order.
func (m *ordMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, k := range m.keys {
			if !yield(m.values[k]) {
				return
			}
		}
	}
}
