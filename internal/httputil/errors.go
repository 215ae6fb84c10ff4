package httputil

import "errors"

// Errors the request parsing helpers return. Handlers pass them on to the
// client verbatim, so they are phrased for API consumers.
var (
	// ErrInvalidBody is returned when the request body cannot be parsed
	// into the target resource.
	ErrInvalidBody = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")

	// ErrRequestBodyEmpty is returned when a request that requires a body
	// does not have one.
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")

	// ErrInvalidUUID is returned when a path parameter is not a UUID.
	ErrInvalidUUID = errors.New("the specified resource ID is not a valid UUID")
)
