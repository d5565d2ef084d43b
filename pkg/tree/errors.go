package tree

import "errors"

// Error represents a domain error from namespace projection operations.
//
// These are routine conditions (path missing, wrong node kind) rather
// than infrastructure faults. The filesystem adapter translates Code to
// the transport's error vocabulary (ENOENT, EISDIR, ...); nothing below
// the adapter ever sees transport error codes.
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the virtual path related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a projection error.
type ErrorCode int

const (
	// ErrNotFound indicates no key or value exists at the path
	ErrNotFound ErrorCode = iota

	// ErrIsDirectory indicates the operation expected a value but the
	// path resolved to a key
	ErrIsDirectory

	// ErrNotDirectory indicates the operation expected a key but the
	// path resolved to a value
	ErrNotDirectory

	// ErrAttrNotFound indicates the extended attribute does not exist
	// for the node (or the node kind carries no attributes at all)
	ErrAttrNotFound

	// ErrNotLoaded indicates an operation was attempted on a tree with
	// no backing store. This is a programming error, not a runtime
	// condition to recover from.
	ErrNotLoaded
)

func notFound(path string) *Error {
	return &Error{Code: ErrNotFound, Message: "no such key or value", Path: path}
}

func isDirectory(path string) *Error {
	return &Error{Code: ErrIsDirectory, Message: "path is a key", Path: path}
}

func notDirectory(path string) *Error {
	return &Error{Code: ErrNotDirectory, Message: "path is a value", Path: path}
}

func attrNotFound(path string) *Error {
	return &Error{Code: ErrAttrNotFound, Message: "no such attribute", Path: path}
}

func notLoaded() *Error {
	return &Error{Code: ErrNotLoaded, Message: "tree has no backing store"}
}

// CodeOf extracts the ErrorCode from err. The second return is false
// when err is not a projection error.
func CodeOf(err error) (ErrorCode, bool) {
	var terr *Error
	if !errors.As(err, &terr) {
		return 0, false
	}
	return terr.Code, true
}
