package repository

import "errors"

// ErrNotFound is returned by every store implementation when a lookup
// matches no row, independent of the driver's own sentinel.
var ErrNotFound = errors.New("record not found")
