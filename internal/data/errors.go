package data

import "errors"

// ErrNoDatabase is returned by constructors that require an open pool.
var ErrNoDatabase = errors.New("database not configured")
