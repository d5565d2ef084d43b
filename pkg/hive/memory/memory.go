// Package memory provides an in-memory hive.Backend.
//
// It is used as a fixture source in tests and wherever a synthetic hive
// is useful. Keys and values are stored decoded; lookup is
// case-insensitive and listings preserve insertion order, matching the
// behavior of parsed hive files.
package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/joshuapare/hivekit/pkg/types"

	"github.com/marmos91/hivefs/pkg/hive"
)

// Store is an in-memory hive. The zero value is not usable; create one
// with New. Build the tree with AddKey and SetValue before handing the
// store to readers; Store implements hive.Backend.
type Store struct {
	root   *keyNode
	closed bool
}

// New creates an empty store whose root key carries the given
// last-write timestamp.
func New(modified time.Time) *Store {
	return &Store{root: newKeyNode("", modified)}
}

type keyNode struct {
	name     string
	modified time.Time

	order    []string // child key names, insertion order
	children map[string]*keyNode

	valueOrder []string // value names, insertion order
	values     map[string]*valueNode
}

func newKeyNode(name string, modified time.Time) *keyNode {
	return &keyNode{
		name:     name,
		modified: modified,
		children: make(map[string]*keyNode),
		values:   make(map[string]*valueNode),
	}
}

type valueNode struct {
	name    string
	regType types.RegType

	str  string
	strs []string
	u32  uint32
	u64  uint64
	raw  []byte
}

// AddKey creates the key at the given backslash-separated path, creating
// missing intermediate keys with the same timestamp. Adding an existing
// key only updates its timestamp.
func (s *Store) AddKey(nativePath string, modified time.Time) {
	node := s.root
	for _, part := range splitNative(nativePath) {
		lower := strings.ToLower(part)
		child, ok := node.children[lower]
		if !ok {
			child = newKeyNode(part, modified)
			node.children[lower] = child
			node.order = append(node.order, part)
		}
		node = child
	}
	node.modified = modified
}

// SetValue stores a typed value in the key at nativePath, creating the
// key if needed. data must match the registry type:
// string (REG_SZ/REG_EXPAND_SZ), []string (REG_MULTI_SZ),
// uint32 (REG_DWORD), uint64 (REG_QWORD), []byte (anything else).
func (s *Store) SetValue(nativePath, name string, regType types.RegType, data any) {
	node, ok := s.find(nativePath)
	if !ok {
		s.AddKey(nativePath, time.Time{})
		node, _ = s.find(nativePath)
	}

	v := &valueNode{name: name, regType: regType}
	switch d := data.(type) {
	case string:
		v.str = d
		v.raw = []byte(d)
	case []string:
		v.strs = d
		v.raw = []byte(strings.Join(d, "\x00"))
	case uint32:
		v.u32 = d
	case uint64:
		v.u64 = d
	case []byte:
		v.raw = d
	default:
		panic(fmt.Sprintf("memory: unsupported value payload %T", data))
	}

	lower := strings.ToLower(name)
	if _, exists := node.values[lower]; !exists {
		node.valueOrder = append(node.valueOrder, name)
	}
	node.values[lower] = v
}

// Open implements hive.Backend.
func (s *Store) Open(nativePath string) (hive.Key, error) {
	if s.closed {
		return nil, fmt.Errorf("memory: store is closed")
	}
	node, ok := s.find(nativePath)
	if !ok {
		return nil, hive.ErrNotFound
	}
	return &memKey{node: node}, nil
}

// Close implements hive.Backend.
func (s *Store) Close() error {
	s.closed = true
	return nil
}

func (s *Store) find(nativePath string) (*keyNode, bool) {
	node := s.root
	for _, part := range splitNative(nativePath) {
		child, ok := node.children[strings.ToLower(part)]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

func splitNative(nativePath string) []string {
	parts := make([]string, 0, 8)
	for _, part := range strings.Split(nativePath, `\`) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

type memKey struct {
	node *keyNode
}

func (k *memKey) Name() string         { return k.node.name }
func (k *memKey) Timestamp() time.Time { return k.node.modified }

func (k *memKey) Subkeys() ([]string, error) {
	names := make([]string, len(k.node.order))
	copy(names, k.node.order)
	return names, nil
}

func (k *memKey) Values() ([]hive.Value, error) {
	values := make([]hive.Value, 0, len(k.node.valueOrder))
	for _, name := range k.node.valueOrder {
		values = append(values, &memValue{node: k.node.values[strings.ToLower(name)]})
	}
	return values, nil
}

func (k *memKey) Value(name string) (hive.Value, error) {
	v, ok := k.node.values[strings.ToLower(name)]
	if !ok {
		return nil, hive.ErrNotFound
	}
	return &memValue{node: v}, nil
}

type memValue struct {
	node *valueNode
}

func (v *memValue) Name() string          { return v.node.name }
func (v *memValue) Type() types.RegType   { return v.node.regType }
func (v *memValue) Data() ([]byte, error) { return v.node.raw, nil }

func (v *memValue) AsString() (string, error) {
	if t := v.node.regType; t != types.REG_SZ && t != types.REG_EXPAND_SZ {
		return "", hive.ErrWrongType
	}
	return v.node.str, nil
}

func (v *memValue) AsStrings() ([]string, error) {
	if v.node.regType != types.REG_MULTI_SZ {
		return nil, hive.ErrWrongType
	}
	return v.node.strs, nil
}

func (v *memValue) AsDWORD() (uint32, error) {
	if v.node.regType != types.REG_DWORD {
		return 0, hive.ErrWrongType
	}
	return v.node.u32, nil
}

func (v *memValue) AsQWORD() (uint64, error) {
	if v.node.regType != types.REG_QWORD {
		return 0, hive.ErrWrongType
	}
	return v.node.u64, nil
}
