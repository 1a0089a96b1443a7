// Package common defines shared sentinel errors and small byte-buffer
// helpers used across the keepvault packages. Callers should use errors.Is
// to match the sentinel values.
package common

import "errors"

var (
	// Lookup errors. A missing entry/group/template at query time is an
	// ordinary result, surfaced with this sentinel rather than a panic.
	ErrorNotFound = errors.New("not found")

	// Structural load errors. These abort a load entirely; no partial
	// database is ever handed to the caller.
	ErrorNoRootGroup = errors.New("database has no root group")
)
