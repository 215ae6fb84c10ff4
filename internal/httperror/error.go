// Package httperror provides the error response body for endpoints that do
// not use a resource specific response envelope.
package httperror

type Error struct {
	Message string `json:"error" example:"there is no transaction matching your query"`
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}

func NewFromString(s string) Error {
	return Error{
		Message: s,
	}
}
