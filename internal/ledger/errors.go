package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for update and delete calls that reference an
	// id that is not in the store. Deleting an unknown id is never a silent
	// no-op so that callers can distinguish "already gone" from "succeeded".
	ErrNotFound = errors.New("there is no transaction with this id")

	// ErrKindImmutable is returned when an update tries to change the kind
	// of a record. Changing the kind is modeled as delete and recreate so
	// that categories can never be carried over to a kind they are not
	// allowed for.
	ErrKindImmutable = errors.New("the kind of a transaction cannot be changed, delete the record and create a new one")
)

// PersistenceError reports that the database write for an already applied
// in-memory mutation failed. The local state keeps the mutation, callers
// decide whether to retry or reload.
type PersistenceError struct {
	Op  string
	ID  uuid.UUID
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s of transaction %s failed: %v", e.Op, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
