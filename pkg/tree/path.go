package tree

import "strings"

// splitPath normalizes a slash-separated virtual path into its non-empty
// segments. Leading, trailing, and repeated slashes carry no meaning.
func splitPath(path string) []string {
	parts := make([]string, 0, 8)
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// toNative converts a slash-separated subpath into the hive's native
// backslash-separated form.
func toNative(path string) string {
	return strings.Join(splitPath(path), `\`)
}

// splitLeaf splits a subpath into its parent path and final segment.
// The leaf is empty when the path has no segments.
func splitLeaf(path string) (parent, leaf string) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return "", ""
	}
	return strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1]
}
