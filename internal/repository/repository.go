package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. Services match
// on it with errors.Is so they never see driver-specific sentinel errors.
var ErrNotFound = errors.New("not found")
