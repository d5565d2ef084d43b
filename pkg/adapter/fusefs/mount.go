// Package fusefs bridges the projection engine to the kernel through
// FUSE. It translates the transport's operation contract (attribute
// lookup, directory listing, byte reads, extended attributes) into tree
// operations and maps projection errors onto errno values.
package fusefs

import (
	"fmt"
	"os"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/marmos91/hivefs/internal/logger"
	"github.com/marmos91/hivefs/pkg/tree"
)

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted. It
	// must already exist and be writable by the mounting user.
	Mountpoint string

	// Tree is the namespace projection to serve.
	Tree *tree.Tree

	// FSName is the filesystem source name shown in /proc/mounts.
	// Conventionally the hive file path.
	FSName string

	// AllowOther permits other users to access the mount. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Debug enables FUSE request tracing on stderr.
	Debug bool
}

func (o Options) validate() error {
	if o.Mountpoint == "" {
		return fmt.Errorf("mountpoint is required")
	}
	if o.Tree == nil {
		return fmt.Errorf("tree is required")
	}
	info, err := os.Stat(o.Mountpoint)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q must be a directory to be used as a mountpoint", o.Mountpoint)
	}
	return nil
}

// Mount mounts the projection at the configured mountpoint and returns
// the running server. The mount is always read-only; the caller
// unmounts it with server.Unmount.
func Mount(options Options) (*fuse.Server, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}

	owner := fuse.Owner{Uid: uint32(os.Getuid()), Gid: uint32(os.Getgid())}
	root := &regNode{tree: options.Tree, path: "/", owner: owner}

	// Attribute answers never change while mounted (stores are
	// immutable), so generous kernel caching is safe.
	entryTimeout := 1 * time.Second
	attrTimeout := 1 * time.Second

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout: &entryTimeout,
		AttrTimeout:  &attrTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     options.FSName,
			Name:       "hivefs",
			AllowOther: options.AllowOther,
			Debug:      options.Debug,
			Options:    []string{"ro"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	logger.Info("Mounted %s at %s", options.FSName, options.Mountpoint)
	return server, nil
}

// Serve runs the request loop. In foreground mode it blocks the calling
// goroutine until the filesystem is unmounted; otherwise the loop runs
// on its own goroutine and Serve returns immediately. The returned
// channel closes when serving ends, whichever mode was chosen.
func Serve(server *fuse.Server, foreground bool) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		server.Wait()
		close(done)
	}()
	if foreground {
		<-done
	}
	return done
}
