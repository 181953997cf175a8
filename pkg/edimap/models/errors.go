package models

import "errors"

// ErrNotFound is returned by lookups that find no matching record.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a record with the same identity already exists.
var ErrConflict = errors.New("already exists")
