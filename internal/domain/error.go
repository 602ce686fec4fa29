package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// Pipeline errors
	ErrQueueUnavailable     = errors.New("queue backend unavailable")
	ErrJobAlreadyQueued     = errors.New("job already queued for prediction")
	ErrProviderUnavailable  = errors.New("data provider unavailable")
	ErrInvalidModelResponse = errors.New("invalid model response")
	ErrPersistenceFailure   = errors.New("persistence failure")
	ErrInvalidTransition    = errors.New("invalid prediction state transition")

	// Infra errors
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context for query")
)
