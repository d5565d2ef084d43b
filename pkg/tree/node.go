package tree

import (
	"errors"

	"github.com/marmos91/hivefs/pkg/hive"
)

// NodeKind tags a resolved node as either a key or a value. A resolved
// path yields exactly one kind, never both.
type NodeKind int

const (
	// KindKey is a directory-like node with child keys and values
	KindKey NodeKind = iota

	// KindValue is a file-like node with typed content
	KindValue
)

// Node is the result of resolving a subpath inside a single backing
// store. Exactly one of Key or Value is set, according to Kind.
type Node struct {
	Kind  NodeKind
	Key   hive.Key
	Value hive.Value
}

// resolveNode classifies the residual subpath within a store.
//
// A path is a key if and only if the store structurally recognizes it as
// one. Otherwise the final segment is treated as a candidate value name:
// the type suffix is stripped (when extensions are active), the parent
// is opened as a key, and the value is looked up by native name. Any
// failure along the value route reports the whole path as missing.
func (t *Tree) resolveNode(store hive.Backend, residual, path string) (Node, error) {
	key, err := store.Open(toNative(residual))
	if err == nil {
		return Node{Kind: KindKey, Key: key}, nil
	}
	if !errors.Is(err, hive.ErrNotFound) {
		return Node{}, notFound(path)
	}

	parentPath, leaf := splitLeaf(residual)
	if leaf == "" {
		return Node{}, notFound(path)
	}
	name := nativeValueName(leaf, t.opts.AppendExtensions)

	parent, err := store.Open(toNative(parentPath))
	if err != nil {
		return Node{}, notFound(path)
	}
	value, err := parent.Value(name)
	if err != nil {
		return Node{}, notFound(path)
	}
	return Node{Kind: KindValue, Value: value}, nil
}
