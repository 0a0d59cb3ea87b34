package domain

import "errors"

// ErrInvalidReference is returned by repositories when a write points at a
// row that does not exist or belongs to another menu.
var ErrInvalidReference = errors.New("invalid reference")
