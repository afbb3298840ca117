package records

import (
	"errors"

	"nursery-service/internal/repository"
	"nursery-service/internal/schema"
)

var (
	// ErrForbidden is returned when the actor's role does not allow the operation.
	ErrForbidden = errors.New("forbidden")

	ErrTableNotFound  = schema.ErrTableNotFound
	ErrColumnNotFound = schema.ErrColumnNotFound
	ErrRecordNotFound = repository.ErrRecordNotFound
)

// PersistenceError wraps a repository failure the service cannot
// interpret. Its message is deliberately generic; Unwrap exposes the cause
// for logging.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "failed to " + e.Op + " record" }

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrRecordNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
