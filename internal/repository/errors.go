// Package repository holds the MySQL-backed stores of the agenda service and
// the sentinel errors they share.
package repository

import "errors"

// ErrDuplicate is returned when a row with the same key was already stored.
// Redelivered broker messages hit it and are treated as processed.
var ErrDuplicate = errors.New("duplicate")

// ErrUnavailable is returned by a repository built without a database.
var ErrUnavailable = errors.New("repository unavailable")
