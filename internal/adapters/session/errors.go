package session

import "errors"

// ErrNotFound is returned for ids that were never created, were deleted or were evicted.
var ErrNotFound = errors.New("session not found")
