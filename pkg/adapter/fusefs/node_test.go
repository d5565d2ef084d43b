package fusefs

import (
	"errors"
	"syscall"
	"testing"

	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"

	"github.com/marmos91/hivefs/pkg/hive/hivetest"
	"github.com/marmos91/hivefs/pkg/tree"
)

func TestErrno(t *testing.T) {
	tr := tree.NewSingle(hivetest.NewSoftwareHive(), tree.Options{AppendExtensions: true})

	_, err := tr.Stat("/DoesNotExist")
	assert.Equal(t, syscall.ENOENT, errno(err))

	_, err = tr.ReadAt("/AppEvents", 0, 10)
	assert.Equal(t, syscall.EISDIR, errno(err))

	_, err = tr.Entries("/AppEvents/Schemes/Apps/Explorer/(default).RegSZ")
	assert.Equal(t, syscall.ENOTDIR, errno(err))

	_, err = tr.Xattr("/AppEvents", tree.XattrDatatype)
	assert.Equal(t, syscall.ENODATA, errno(err))

	assert.Equal(t, syscall.EIO, errno(errors.New("disk on fire")))
}

func TestFillAttr(t *testing.T) {
	owner := fuse.Owner{Uid: 1000, Gid: 1000}

	var out fuse.Attr
	fillAttr(&out, tree.Attr{
		Type:  tree.FileTypeRegular,
		Mode:  0o644,
		Nlink: 1,
		Size:  17,
	}, owner)

	assert.Equal(t, uint32(syscall.S_IFREG|0o644), out.Mode)
	assert.Equal(t, uint64(17), out.Size)
	assert.Equal(t, uint32(1), out.Nlink)
	assert.Equal(t, owner, out.Owner)

	fillAttr(&out, tree.Attr{
		Type:  tree.FileTypeDirectory,
		Mode:  0o755,
		Nlink: 2,
		Mtime: hivetest.ExplorerModified.Unix(),
	}, owner)

	assert.Equal(t, uint32(syscall.S_IFDIR|0o755), out.Mode)
	assert.Equal(t, uint64(hivetest.ExplorerModified.Unix()), out.Mtime)
}

func TestIsMounted(t *testing.T) {
	mounted, err := IsMounted("no-such-source", "/no/such/mountpoint")
	if err != nil {
		t.Skipf("mount table not readable: %v", err)
	}
	assert.False(t, mounted)
}

func TestMountOptionsValidate(t *testing.T) {
	tr := tree.NewSingle(hivetest.NewSoftwareHive(), tree.Options{})

	opts := Options{Tree: tr}
	assert.Error(t, opts.validate(), "missing mountpoint must be rejected")

	opts = Options{Mountpoint: "/nonexistent/mountpoint", Tree: tr}
	assert.Error(t, opts.validate(), "nonexistent mountpoint must be rejected")

	opts = Options{Mountpoint: t.TempDir(), Tree: tr}
	assert.NoError(t, opts.validate())
}
