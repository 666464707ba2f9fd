package usecase

import "errors"

// Sentinels returned by the services. Callers match them with errors.Is;
// the HTTP layer maps each to a status code.
var (
	// ErrInvalidInput covers malformed provider records, appearances, rating
	// profiles and recompute scopes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is an unknown player, competition, review item or conflict.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is a decision on a review item or field conflict that is no
	// longer open, or a link that would give a player a second identity on
	// one provider.
	ErrConflict = errors.New("conflicting state")

	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
