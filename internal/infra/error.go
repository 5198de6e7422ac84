package infra

import (
	"errors"
	"log/slog"

	"food-rescue-api/internal/pkg/errs"
	"food-rescue-api/internal/pkg/pgconv"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr tags err with kind. Only DB failures are logged; the other kinds are
// expected outcomes the use case turns into business errors.
func WrapRepoErr(kind RepositoryErrorKind, msg string, err error) error {
	if kind == KindDBFailure {
		attrs := []any{slog.String("kind", string(kind))}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		slog.Error("Repository error: "+msg, attrs...)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

// WrapPgErr picks the kind from the Postgres SQLSTATE carried by err.
func WrapPgErr(msg string, err error) error {
	if pgconv.IsNoRows(err) {
		return WrapRepoErr(KindNotFound, msg, err)
	}
	switch pgconv.SQLState(err) {
	case pgconv.CodeUniqueViolation:
		return WrapRepoErr(KindDuplicateKey, msg, err)
	case pgconv.CodeForeignKeyViolation:
		return WrapRepoErr(KindForeignKeyViolated, msg, err)
	case pgconv.CodeCheckViolation:
		return WrapRepoErr(KindCheckViolation, msg, err)
	default:
		return WrapRepoErr(KindDBFailure, msg, err)
	}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindCheckViolation     RepositoryErrorKind = "CHECK_VIOLATION"
)
