package ref

import "errors"

var (
	// ErrAllocation indicates the control block (or block plus value) could not be allocated.
	ErrAllocation = errors.New("ref: allocation failed")

	// ErrConstruction indicates the in-place initializer of a value failed.
	ErrConstruction = errors.New("ref: construction failed")

	// ErrEmptyHandle is the panic value for dereferencing an empty handle.
	ErrEmptyHandle = errors.New("ref: empty handle")

	// ErrOverRelease is the panic value for releasing more references than were acquired.
	ErrOverRelease = errors.New("ref: reference released too many times")
)
