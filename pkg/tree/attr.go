package tree

// FileType distinguishes directory-like from file-like nodes in the
// projected namespace.
type FileType int

const (
	// FileTypeRegular is a file-like node (a registry value)
	FileTypeRegular FileType = iota

	// FileTypeDirectory is a directory-like node (a registry key or a
	// synthetic composite directory)
	FileTypeDirectory
)

// Attr is the stat-like attribute record for a resolved node. All
// fields are fixed and typed; times are seconds since the Unix epoch.
//
// Access and change times are always zero: the source format does not
// record them and the projection tracks nothing per request.
type Attr struct {
	Type  FileType
	Mode  uint32
	Nlink uint32
	UID   uint32
	GID   uint32
	Size  uint64
	Atime int64
	Mtime int64
	Ctime int64
}

// dirAttr builds attributes for a key or synthetic directory. Keys pass
// their stored timestamp; synthetic directories pass zero.
func dirAttr(mtime int64) Attr {
	return Attr{
		Type:  FileTypeDirectory,
		Mode:  0o755,
		Nlink: 2,
		Mtime: mtime,
	}
}

// fileAttr builds attributes for a value. Size is the byte length of
// the rendered content; values carry no timestamp in the source format.
func fileAttr(size uint64) Attr {
	return Attr{
		Type:  FileTypeRegular,
		Mode:  0o644,
		Nlink: 1,
		Size:  size,
	}
}
