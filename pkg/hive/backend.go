// Package hive defines the read surface the namespace projection needs
// from a parsed registry hive, plus the hivekit-backed implementation
// used in production.
//
// A Backend is a read-only handle to one parsed hive. It is created once
// at startup and never mutated afterwards, so implementations must be
// safe for concurrent, independent calls.
package hive

import (
	"errors"
	"time"

	"github.com/joshuapare/hivekit/pkg/types"
)

// ErrNotFound indicates the requested key or value does not exist in the
// hive. Callers branch on this with errors.Is.
var ErrNotFound = errors.New("hive: not found")

// ErrWrongType indicates a typed accessor was called on a value of an
// incompatible registry type.
var ErrWrongType = errors.New("hive: value has different type")

// Backend is a read-only handle to a single parsed hive.
type Backend interface {
	// Open resolves a native, backslash-separated key path and returns
	// the key. The empty path resolves to the root key. Lookup is
	// case-insensitive, matching registry semantics.
	// Returns ErrNotFound if the path does not denote a key.
	Open(nativePath string) (Key, error)

	// Close releases the underlying resources. The backend and any Key
	// or Value obtained from it are invalid afterwards.
	Close() error
}

// Key is a directory-like hive node with named child keys and values.
type Key interface {
	// Name returns the key's own name ("" for the root key of some hives).
	Name() string

	// Timestamp returns the key's last-write time.
	Timestamp() time.Time

	// Subkeys returns the names of all direct child keys.
	Subkeys() ([]string, error)

	// Values returns all values stored directly in this key.
	Values() ([]Value, error)

	// Value looks up a single value by name (case-insensitive, "" for
	// the default value). Returns ErrNotFound if absent.
	Value(name string) (Value, error)
}

// Value is a leaf node holding a typed payload.
//
// Callers pick the typed accessor matching Type; calling a mismatched
// accessor returns ErrWrongType (or the backend's own type error).
type Value interface {
	Name() string
	Type() types.RegType

	// Data returns the raw, undecoded payload bytes.
	Data() ([]byte, error)

	// AsString decodes REG_SZ / REG_EXPAND_SZ data.
	AsString() (string, error)

	// AsStrings decodes REG_MULTI_SZ data.
	AsStrings() ([]string, error)

	// AsDWORD decodes REG_DWORD data.
	AsDWORD() (uint32, error)

	// AsQWORD decodes REG_QWORD data.
	AsQWORD() (uint64, error)
}

// Opener opens a Backend from a filesystem path. The registry uses this
// to load hives; tests substitute fakes.
type Opener func(path string) (Backend, error)
