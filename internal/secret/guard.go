package secret

import "github.com/keepvault/keepvault/internal/common"

// Guard holds exposed plaintext and wipes it on Close. Callers must treat
// the buffer as borrowed: use it immediately, then Close the guard (defer
// is fine). Retaining the slice after Close reads zeros.
type Guard struct {
	buf []byte
}

func newGuard(buf []byte) *Guard {
	return &Guard{buf: buf}
}

// Bytes returns the plaintext. Valid until Close.
func (g *Guard) Bytes() []byte {
	return g.buf
}

// String returns the plaintext as a string. Note that the returned string
// is a copy the runtime owns; prefer Bytes where the value must not
// outlive the guard.
func (g *Guard) String() string {
	return string(g.buf)
}

// Close overwrites the plaintext. Safe to call more than once.
func (g *Guard) Close() error {
	common.WipeBytes(g.buf)
	g.buf = nil
	return nil
}
