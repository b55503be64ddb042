package ports

import "errors"

// ErrSessionNotFound is returned by session stores for unknown or expired ids.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists is returned by SessionCreator.Create when the id is already taken.
var ErrSessionExists = errors.New("session id already exists")

// ErrCheckSkipped marks a health check that does not apply to the current configuration.
// Checks wrap it to explain why, e.g. fmt.Errorf("%w: AUTH_MODE=mock", ErrCheckSkipped).
var ErrCheckSkipped = errors.New("skipped")
