package errs

import (
	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark keeps err as the cause while making both errs.Is and the standard
// errors.Is report true for markErr.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return &markedError{err: cr.Mark(err, markErr)}
}

func Is(err, reference error) bool {
	return cr.Is(err, reference)
}

// markedError exposes cockroachdb marks to the standard library's errors.Is.
type markedError struct {
	err error
}

func (m *markedError) Error() string { return m.err.Error() }

func (m *markedError) Unwrap() error { return m.err }

func (m *markedError) Is(target error) bool { return cr.Is(m.err, target) }
