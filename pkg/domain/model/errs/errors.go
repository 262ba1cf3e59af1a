package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrSessionNotFound is returned by read operations for unknown session IDs.
	// Write/interaction paths deliberately do not use it (see usecase.SendMessage).
	ErrSessionNotFound = goerr.New("session not found", goerr.T(TagNotFound))

	// ErrSessionExists is returned when a generated session ID collides. Not
	// expected in practice with UUIDs, but must stay detectable.
	ErrSessionExists = goerr.New("session already exists", goerr.T(TagConflict))

	// ErrLLMNotConfigured is fatal to session creation, unlike cache failure.
	ErrLLMNotConfigured = goerr.New("language model client is not configured", goerr.T(TagConfiguration))
)
