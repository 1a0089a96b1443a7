package common

import (
	"crypto/rand"
	"encoding/hex"
)

// WipeBytes overwrites the buffer with zeros. Nil-safe.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// RandBytes returns size cryptographically random bytes.
func RandBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandHex returns a hex string encoding size random bytes (so the result is
// 2*size characters long).
func RandHex(size int) (string, error) {
	b, err := RandBytes(size)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
