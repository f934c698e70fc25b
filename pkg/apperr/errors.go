// Package apperr defines the error taxonomy shared by every domain
// operation. All failures fall into one of three kinds, matched with
// errors.Is at the transport boundary:
//
//   - ErrInvalidArgument: malformed or semantically invalid input
//   - ErrNotFound: a referenced identifier does not resolve
//   - ErrIllegalState: the operation is forbidden in the current state
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrIllegalState    = errors.New("illegal state")
)

func InvalidArgumentf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func IllegalStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalState, fmt.Sprintf(format, args...))
}

// Outcome labels an error for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrIllegalState):
		return "illegal_state"
	default:
		return "error"
	}
}

// HTTPStatus maps an error to the response code the REST layer uses.
// Unclassified errors are treated as internal.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIllegalState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
