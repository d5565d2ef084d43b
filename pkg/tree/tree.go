// Package tree is the namespace-projection engine: it resolves virtual
// filesystem paths to hive nodes, composes several backing stores into
// one hierarchy, and renders typed values into byte content.
//
// The tree holds no per-request state and nothing is cached: backing
// stores are immutable after load, so every operation is a pure
// function of (store state, path, options).
package tree

import (
	"strconv"
	"strings"

	"github.com/marmos91/hivefs/pkg/hive"
	"github.com/marmos91/hivefs/pkg/registry"
)

// Extended attribute names exposed for value nodes.
const (
	// XattrDatatype holds the value's type tag ("RegSZ", "RegDWord", ...)
	XattrDatatype = "user.registry.datatype"

	// XattrText holds "true" when the value renders as text
	XattrText = "user.registry.text"
)

// Options control the value-to-content projection.
type Options struct {
	// AppendNewline adds one trailing newline to non-empty text
	// renderings that do not already end with one.
	AppendNewline bool

	// AppendExtensions appends ".<TypeTag>" to value file names.
	AppendExtensions bool
}

// Tree projects one or more backing hives onto a virtual path
// namespace. Create one with NewSingle or NewComposed.
type Tree struct {
	store hive.Backend       // single-store mode
	reg   *registry.Registry // composed mode
	opts  Options
}

// NewSingle projects a single hive: the whole virtual path is resolved
// against it and the root-group layer does not exist.
func NewSingle(store hive.Backend, opts Options) *Tree {
	return &Tree{store: store, opts: opts}
}

// NewComposed projects the hives held by a registry. Paths need at
// least three segments (group, store, residual) to reach hive content;
// shorter paths denote synthetic composite directories.
func NewComposed(reg *registry.Registry, opts Options) *Tree {
	return &Tree{reg: reg, opts: opts}
}

// DirEntry is one name in a directory listing, tagged with its kind so
// transports can report entry types without a second resolution.
type DirEntry struct {
	Name string
	Type FileType
}

// targetKind classifies what part of the namespace a path points into.
type targetKind int

const (
	targetRoot  targetKind = iota // composed root: lists group names
	targetGroup                   // one root group: lists store names
	targetNode                    // inside a specific store
)

type target struct {
	kind     targetKind
	group    string
	store    hive.Backend
	residual string
}

// locate decomposes a virtual path into (store, residual) or recognizes
// it as a synthetic composite directory. In single-store mode the whole
// path is the residual.
func (t *Tree) locate(path string) (target, error) {
	if t.store != nil {
		return target{kind: targetNode, store: t.store, residual: path}, nil
	}
	if t.reg == nil {
		return target{}, notLoaded()
	}

	parts := splitPath(path)
	switch len(parts) {
	case 0:
		return target{kind: targetRoot}, nil
	case 1:
		if !t.reg.HasGroup(parts[0]) {
			return target{}, notFound(path)
		}
		return target{kind: targetGroup, group: parts[0]}, nil
	default:
		store, ok := t.reg.Lookup(parts[0], parts[1])
		if !ok {
			return target{}, notFound(path)
		}
		return target{kind: targetNode, store: store, residual: strings.Join(parts[2:], "/")}, nil
	}
}

// Stat returns the attribute record for the node at path.
func (t *Tree) Stat(path string) (Attr, error) {
	tg, err := t.locate(path)
	if err != nil {
		return Attr{}, err
	}
	if tg.kind != targetNode {
		return dirAttr(0), nil
	}

	node, err := t.resolveNode(tg.store, tg.residual, path)
	if err != nil {
		return Attr{}, err
	}
	if node.Kind == KindKey {
		mtime := int64(0)
		if ts := node.Key.Timestamp(); !ts.IsZero() {
			mtime = ts.Unix()
		}
		return dirAttr(mtime), nil
	}

	data, err := Render(node.Value, t.opts.AppendNewline)
	if err != nil {
		return Attr{}, notFound(path)
	}
	return fileAttr(uint64(len(data))), nil
}

// Entries lists the directory at path: group names at the composed
// root, store names inside a group, and child keys plus value leaf
// names inside a key. Fails with ErrNotDirectory when path resolves to
// a value.
func (t *Tree) Entries(path string) ([]DirEntry, error) {
	tg, err := t.locate(path)
	if err != nil {
		return nil, err
	}

	switch tg.kind {
	case targetRoot:
		return dirEntries(t.reg.Groups()), nil
	case targetGroup:
		names, _ := t.reg.Stores(tg.group)
		return dirEntries(names), nil
	}

	node, err := t.resolveNode(tg.store, tg.residual, path)
	if err != nil {
		return nil, err
	}
	if node.Kind == KindValue {
		return nil, notDirectory(path)
	}

	subkeys, err := node.Key.Subkeys()
	if err != nil {
		return nil, notFound(path)
	}
	values, err := node.Key.Values()
	if err != nil {
		return nil, notFound(path)
	}

	entries := make([]DirEntry, 0, len(subkeys)+len(values))
	for _, name := range subkeys {
		entries = append(entries, DirEntry{Name: name, Type: FileTypeDirectory})
	}
	for _, v := range values {
		entries = append(entries, DirEntry{Name: LeafName(v, t.opts.AppendExtensions), Type: FileTypeRegular})
	}
	return entries, nil
}

// List returns the names in the directory at path.
func (t *Tree) List(path string) ([]string, error) {
	entries, err := t.Entries(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// ReadAt renders the value at path and returns the byte window
// [offset, offset+size), clamped to the content length. An offset at or
// past the end yields an empty result, never an error. Fails with
// ErrIsDirectory when path resolves to a key or composite directory.
func (t *Tree) ReadAt(path string, offset int64, size int) ([]byte, error) {
	node, err := t.resolveValue(path)
	if err != nil {
		return nil, err
	}
	data, err := Render(node.Value, t.opts.AppendNewline)
	if err != nil {
		return nil, notFound(path)
	}

	if offset < 0 || offset >= int64(len(data)) {
		return nil, nil
	}
	end := offset + int64(size)
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return data[offset:end], nil
}

// Xattr returns the named extended attribute of the value at path.
// Only value nodes carry attributes; any lookup on a key or composite
// directory fails with ErrAttrNotFound regardless of the name.
func (t *Tree) Xattr(path, name string) ([]byte, error) {
	tg, err := t.locate(path)
	if err != nil {
		return nil, err
	}
	if tg.kind != targetNode {
		return nil, attrNotFound(path)
	}
	node, err := t.resolveNode(tg.store, tg.residual, path)
	if err != nil {
		return nil, err
	}
	if node.Kind != KindValue {
		return nil, attrNotFound(path)
	}

	switch name {
	case XattrDatatype:
		return []byte(TypeTag(node.Value.Type())), nil
	case XattrText:
		return []byte(strconv.FormatBool(IsTextType(node.Value.Type()))), nil
	}
	return nil, attrNotFound(path)
}

// Xattrs returns the extended attribute names available at path: the
// two registry attributes for values, nothing for keys and composite
// directories.
func (t *Tree) Xattrs(path string) ([]string, error) {
	tg, err := t.locate(path)
	if err != nil {
		return nil, err
	}
	if tg.kind != targetNode {
		return nil, nil
	}
	node, err := t.resolveNode(tg.store, tg.residual, path)
	if err != nil {
		return nil, err
	}
	if node.Kind != KindValue {
		return nil, nil
	}
	return []string{XattrDatatype, XattrText}, nil
}

// resolveValue resolves path and requires a value node.
func (t *Tree) resolveValue(path string) (Node, error) {
	tg, err := t.locate(path)
	if err != nil {
		return Node{}, err
	}
	if tg.kind != targetNode {
		return Node{}, isDirectory(path)
	}
	node, err := t.resolveNode(tg.store, tg.residual, path)
	if err != nil {
		return Node{}, err
	}
	if node.Kind == KindKey {
		return Node{}, isDirectory(path)
	}
	return node, nil
}

func dirEntries(names []string) []DirEntry {
	entries := make([]DirEntry, len(names))
	for i, name := range names {
		entries[i] = DirEntry{Name: name, Type: FileTypeDirectory}
	}
	return entries
}
