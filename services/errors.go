package services

import "github.com/pkg/errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// PersistenceError wraps a storage failure. The unit of work it happened in
// has been rolled back by the time a caller sees it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// NotFound names the missing resource, keeping ErrNotFound as the cause.
func NotFound(what string) error {
	return errors.Wrap(ErrNotFound, what+" not found")
}

func Forbidden(reason string) error {
	return errors.Wrap(ErrForbidden, reason)
}

func Invalid(reason string) error {
	return errors.Wrap(ErrInvalidInput, reason)
}
