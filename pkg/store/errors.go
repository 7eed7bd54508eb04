package store

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-sitegen/pkg/persistence"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = persistence.ErrNotFound
	// ErrStaleResponse is returned by a load whose response arrived after a
	// newer load had started; the session document is left unchanged.
	ErrStaleResponse = errors.New("store: stale load response discarded")
	// ErrNoProjects is returned by LoadMostRecent callers that need a document
	// but the collection is empty.
	ErrNoProjects = errors.New("store: no saved projects")
)

// NotFoundError reports a missing project.
type NotFoundError struct {
	ID  string
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: project %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// PersistenceError wraps a transport or storage fault from the collaborator.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func classify(op, id string, err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return &NotFoundError{ID: id, Err: err}
	}
	return &PersistenceError{Op: op, Err: err}
}
