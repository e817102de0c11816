package errors

import (
	"errors"
	"fmt"
	"net/http"

	"moneytrack/internal/validation"
)

var (
	// ErrBadCredentials is returned on login when the email is unknown
	// or the password does not match. Callers cannot tell which.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrUnauthorized is returned for any failed token check.
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFoundError is returned when a resource is absent or owned by
// another user. The two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id = %s is not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError embedding the requested id.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// MessageResponse is the body of every non-validation failure.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse is the body of a 422, one entry per failing field.
type ValidationResponse struct {
	Errors  validation.Errors `json:"errors"`
	Message string            `json:"message"`
}

// MapErrorToHTTP maps a service error to an HTTP status and response
// body. Unknown errors collapse to a generic 500 with no internal
// detail leaked.
func MapErrorToHTTP(err error) (int, interface{}) {
	var verrs validation.Errors
	var nf *NotFoundError
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, ValidationResponse{Errors: verrs, Message: "Invalid input data"}
	case errors.As(err, &nf):
		return http.StatusNotFound, MessageResponse{Message: nf.Error()}
	case errors.Is(err, ErrBadCredentials):
		return http.StatusUnauthorized, MessageResponse{Message: "Bad credentials"}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, MessageResponse{Message: "Unauthorized"}
	default:
		return http.StatusInternalServerError, MessageResponse{Message: "Internal server error"}
	}
}
