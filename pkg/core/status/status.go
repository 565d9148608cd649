// Package status exports errors produced by the core package.
package status

import (
	"github.com/deeporigin/deeporigin/pkg/errors"
)

var (
	// ErrRoots indicates that the tree of managed data does not have exactly one root
	ErrRoots = errors.New("expected there to be exactly one root object")

	// ErrUnexpectedType indicates that an object is not of the expected type (e.g. a row where a database is expected)
	ErrUnexpectedType = errors.New("unexpected object type")

	// ErrUnknownColumn indicates that a column name does not exist in a database
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotImplemented indicates an operation that is not supported for this type of object
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidSource indicates that a local source to upload can't be used
	ErrInvalidSource = errors.New("invalid source")
)
