package repository

import "errors"

// Sentinel kinds for event log errors.
var (
	ErrInvalidLimit = errors.New("invalid recent limit")
	ErrAppend       = errors.New("event append failed")
	ErrQuery        = errors.New("event query failed")
	ErrClosed       = errors.New("store closed")
)
