package application

import "errors"

var (
	// ErrNoTasks is returned when a request carries an empty batch.
	ErrNoTasks = errors.New("no tasks provided")

	// ErrBatchTooLarge is returned when a batch exceeds the configured limit.
	ErrBatchTooLarge = errors.New("too many tasks in batch")

	// ErrInvalidRequest is returned for malformed requests.
	ErrInvalidRequest = errors.New("invalid request")
)
