package repository

import "errors"

// ErrNotFound is returned when the requested entity id does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateProtocol is returned when a warranty insert collides with an
// already-allocated protocol number.
var ErrDuplicateProtocol = errors.New("protocol number already allocated")
