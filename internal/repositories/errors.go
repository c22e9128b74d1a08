package repositories

import "errors"

// ErrNotFound tags every missing-row error the repositories return, so callers
// can match it with errors.Is instead of inspecting the error text.
var ErrNotFound = errors.New("not found")
