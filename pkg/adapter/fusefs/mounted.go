package fusefs

import (
	"bufio"
	"os"
	"strings"
)

// IsMounted reports whether a filesystem with the given source name is
// currently mounted at mountpoint, by scanning the mount table. This is
// checked live rather than tracked in a flag, since the filesystem can
// be unmounted externally (fusermount -u) at any time.
func IsMounted(fsname, mountpoint string) (bool, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return false, err
	}
	defer f.Close()

	// Spaces in mount entries are escaped as \040.
	escaped := strings.ReplaceAll(mountpoint, " ", `\040`)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if fields[0] == fsname && fields[1] == escaped {
			return true, nil
		}
	}
	return false, scanner.Err()
}
