package hierarchy

import (
	"fmt"
	"strings"

	"github.com/codenest/codenest/internal/domain"
)

const maxNameLength = 255

const forbiddenNameCharacters = `<>:"/\|?*`

// ValidateName rejects empty names, names over the length limit and names
// containing filesystem-hostile characters. The returned name is trimmed.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return "", fmt.Errorf("%w: name is empty", domain.ErrInvalidName)
	}

	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", domain.ErrInvalidName, maxNameLength)
	}

	if strings.ContainsAny(trimmed, forbiddenNameCharacters) {
		return "", fmt.Errorf("%w: name contains one of %s", domain.ErrInvalidName, forbiddenNameCharacters)
	}

	return trimmed, nil
}

// ChildPath builds the materialized path of a child under parentPath. An
// empty parentPath means the child sits at the workspace root.
func ChildPath(parentPath, name string) string {
	if parentPath == "" || parentPath == "/" {
		return "/" + name
	}

	return parentPath + "/" + name
}

// ReplacePathPrefix rewrites a descendant path after its ancestor moved from
// oldPrefix to newPrefix. The path must actually live under oldPrefix.
func ReplacePathPrefix(path, oldPrefix, newPrefix string) (string, bool) {
	if path == oldPrefix {
		return newPrefix, true
	}

	if !strings.HasPrefix(path, oldPrefix+"/") {
		return path, false
	}

	return newPrefix + strings.TrimPrefix(path, oldPrefix), true
}

// ParentPath returns the path of the node's parent, "/" for direct children
// of the root.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}

	return path[:idx]
}

// BaseName returns the final path element.
func BaseName(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}

	return path[idx+1:]
}

// SplitFileName separates a file name into its stem and extension. The
// extension comes back lowercased and without the dot.
func SplitFileName(fileName string) (name, extension string) {
	idx := strings.LastIndex(fileName, ".")
	if idx <= 0 || idx == len(fileName)-1 {
		return fileName, ""
	}

	return fileName[:idx], strings.ToLower(fileName[idx+1:])
}
