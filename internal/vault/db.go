// Package vault holds the decrypted-in-name-only view of a password
// database: entities are flattened into uuid-indexed maps and every
// protected field stays encrypted in memory, keyed through a per-database
// secret store.
package vault

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/keepvault/keepvault/internal/common"
	"github.com/keepvault/keepvault/internal/otp"
	"github.com/keepvault/keepvault/internal/secret"
	"golang.org/x/sync/errgroup"
)

// rekeyWorkers bounds concurrent envelope rotations in RekeyAll.
const rekeyWorkers = 4

// Database is the read-only query surface over one loaded vault. Maps are
// immutable after Load, so concurrent readers need no locking; the only
// mutations are envelope re-keying (serialized per envelope) and Close.
type Database struct {
	store    *secret.Store
	metadata Metadata
	root     uuid.UUID

	groups    *ordMap[uuid.UUID, *Group]
	entries   *ordMap[uuid.UUID, *Entry]
	templates map[uuid.UUID]*Template

	closeOnce sync.Once
}

// Entry looks up an entry by uuid.
func (db *Database) Entry(id uuid.UUID) (*Entry, bool) {
	return db.entries.Get(id)
}

// Group looks up a group by uuid.
func (db *Database) Group(id uuid.UUID) (*Group, bool) {
	return db.groups.Get(id)
}

// Template looks up a template by uuid.
func (db *Database) Template(id uuid.UUID) (*Template, bool) {
	t, ok := db.templates[id]
	return t, ok
}

// RootGroup returns the single group without a parent.
func (db *Database) RootGroup() *Group {
	g, _ := db.groups.Get(db.root)
	return g
}

// Entries iterates all entries in load order. Restartable: each range
// starts over.
func (db *Database) Entries() iter.Seq[*Entry] {
	return db.entries.Values()
}

// Groups iterates all groups in load order.
func (db *Database) Groups() iter.Seq[*Group] {
	return db.groups.Values()
}

// Templates iterates all synthesized templates.
func (db *Database) Templates() iter.Seq[*Template] {
	return func(yield func(*Template) bool) {
		for _, t := range db.templates {
			if !yield(t) {
				return
			}
		}
	}
}

// Metadata returns the database-level display properties.
func (db *Database) Metadata() Metadata {
	return db.metadata
}

// Store exposes the secret store the database's envelopes are keyed
// through.
func (db *Database) Store() *secret.Store {
	return db.store
}

// TOTP derives the current one-time code for the given entry. Fails with
// ErrNoOTPConfigured when the entry has no otp field, common.ErrorNotFound
// when the entry does not exist.
func (db *Database) TOTP(entryID uuid.UUID) (otp.Code, error) {
	entry, ok := db.entries.Get(entryID)
	if !ok {
		return otp.Code{}, fmt.Errorf("entry %s: %w", entryID, common.ErrorNotFound)
	}
	return entry.TOTP(time.Now())
}

// RekeyAll rotates every protected field's envelope through a bounded
// worker pool. Each rotation is atomic under its envelope mutex, so a
// cancelled context abandons remaining fields but never leaves a
// half-written one.
func (db *Database) RekeyAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rekeyWorkers)

	for entry := range db.entries.Values() {
		for _, env := range entry.protectedEnvelopes() {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return env.Rekey(db.store)
			})
		}
	}

	return g.Wait()
}

// Close poisons the secret store and wipes every entity's secret
// material. Safe to call more than once; only the first call does work.
func (db *Database) Close() error {
	db.closeOnce.Do(func() {
		_ = db.store.Poison()

		for entry := range db.entries.Values() {
			entry.wipe()
		}
	})
	return nil
}
