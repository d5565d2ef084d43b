package fusefs

import (
	"context"
	"path"
	"syscall"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/marmos91/hivefs/pkg/tree"
)

// regNode serves one virtual path. Nodes carry no state beyond the
// path: every operation re-resolves against the immutable tree.
type regNode struct {
	gofuse.Inode
	tree  *tree.Tree
	path  string
	owner fuse.Owner
}

var _ gofuse.InodeEmbedder = (*regNode)(nil)
var _ gofuse.NodeLookuper = (*regNode)(nil)
var _ gofuse.NodeReaddirer = (*regNode)(nil)
var _ gofuse.NodeGetattrer = (*regNode)(nil)
var _ gofuse.NodeOpener = (*regNode)(nil)
var _ gofuse.NodeReader = (*regNode)(nil)
var _ gofuse.NodeGetxattrer = (*regNode)(nil)
var _ gofuse.NodeListxattrer = (*regNode)(nil)

func (n *regNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	childPath := path.Join(n.path, name)
	attr, err := n.tree.Stat(childPath)
	if err != nil {
		return nil, errno(err)
	}

	child := &regNode{tree: n.tree, path: childPath, owner: n.owner}
	mode := uint32(syscall.S_IFREG)
	if attr.Type == tree.FileTypeDirectory {
		mode = syscall.S_IFDIR
	}
	fillAttr(&out.Attr, attr, n.owner)
	return n.NewInode(ctx, child, gofuse.StableAttr{Mode: mode}), 0
}

func (n *regNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	entries, err := n.tree.Entries(n.path)
	if err != nil {
		return nil, errno(err)
	}

	dirents := make([]fuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		mode := uint32(syscall.S_IFREG)
		if e.Type == tree.FileTypeDirectory {
			mode = syscall.S_IFDIR
		}
		dirents = append(dirents, fuse.DirEntry{Name: e.Name, Mode: mode})
	}
	return gofuse.NewListDirStream(dirents), 0
}

func (n *regNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	attr, err := n.tree.Stat(n.path)
	if err != nil {
		return errno(err)
	}
	fillAttr(&out.Attr, attr, n.owner)
	return 0
}

func (n *regNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	// Content is immutable, so the kernel page cache stays valid.
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (n *regNode) Read(ctx context.Context, f gofuse.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data, err := n.tree.ReadAt(n.path, off, len(dest))
	if err != nil {
		return nil, errno(err)
	}
	return fuse.ReadResultData(data), 0
}

func (n *regNode) Getxattr(ctx context.Context, attr string, dest []byte) (uint32, syscall.Errno) {
	data, err := n.tree.Xattr(n.path, attr)
	if err != nil {
		return 0, errno(err)
	}
	if len(dest) < len(data) {
		return uint32(len(data)), syscall.ERANGE
	}
	copy(dest, data)
	return uint32(len(data)), 0
}

func (n *regNode) Listxattr(ctx context.Context, dest []byte) (uint32, syscall.Errno) {
	names, err := n.tree.Xattrs(n.path)
	if err != nil {
		return 0, errno(err)
	}

	var buf []byte
	for _, name := range names {
		buf = append(buf, name...)
		buf = append(buf, 0)
	}
	if len(dest) < len(buf) {
		return uint32(len(buf)), syscall.ERANGE
	}
	copy(dest, buf)
	return uint32(len(buf)), 0
}

func fillAttr(out *fuse.Attr, attr tree.Attr, owner fuse.Owner) {
	mode := uint32(syscall.S_IFREG)
	if attr.Type == tree.FileTypeDirectory {
		mode = syscall.S_IFDIR
	}
	out.Mode = mode | attr.Mode
	out.Size = attr.Size
	out.Nlink = attr.Nlink
	out.Mtime = uint64(attr.Mtime)
	out.Atime = uint64(attr.Atime)
	out.Ctime = uint64(attr.Ctime)
	out.Owner = owner
}

// errno maps projection errors onto the transport's error vocabulary.
// Routine errors all translate; anything unclassified is an I/O fault.
func errno(err error) syscall.Errno {
	code, ok := tree.CodeOf(err)
	if !ok {
		return syscall.EIO
	}
	switch code {
	case tree.ErrNotFound:
		return syscall.ENOENT
	case tree.ErrIsDirectory:
		return syscall.EISDIR
	case tree.ErrNotDirectory:
		return syscall.ENOTDIR
	case tree.ErrAttrNotFound:
		return syscall.ENODATA
	default:
		return syscall.EIO
	}
}
