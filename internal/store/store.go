package store

import "errors"

// Sentinel errors shared by every store implementation. Services translate
// these into their own failure taxonomy.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
