// Package kdbx opens and decrypts KDBX files, handing the decoded tree to
// the vault loader.
package kdbx

import (
	"fmt"
	"io"
	"os"

	"github.com/tobischo/gokeepasslib/v3"
)

// Open decrypts the KDBX file at path with the given master password.
func Open(path string, password string) (*gokeepasslib.Database, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	db, err := OpenReader(file, password)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return db, nil
}

// OpenReader decrypts a KDBX stream with the given master password and
// unlocks the protected values so the loader can re-wrap them.
func OpenReader(r io.Reader, password string) (*gokeepasslib.Database, error) {
	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)

	if err := gokeepasslib.NewDecoder(r).Decode(db); err != nil {
		return nil, fmt.Errorf("decrypting database: %w", err)
	}

	if err := db.UnlockProtectedEntries(); err != nil {
		return nil, fmt.Errorf("unlocking protected values: %w", err)
	}

	return db, nil
}

// Save encodes the database back to a file, locking protected values for
// the on-disk form first.
func Save(db *gokeepasslib.Database, path string, password string) error {
	if db.Credentials == nil {
		db.Credentials = gokeepasslib.NewPasswordCredentials(password)
	}

	if err := db.LockProtectedEntries(); err != nil {
		return fmt.Errorf("locking protected values: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := gokeepasslib.NewEncoder(file).Encode(db); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return nil
}
