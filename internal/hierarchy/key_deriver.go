package hierarchy

import (
	"fmt"
	"regexp"
	"strings"
)

var repeatedSeparators = regexp.MustCompile(`/+`)

// DeriveBlobKey computes the blob-store object key for a file. It is a pure
// function of its inputs: folder paths are unique per workspace and file
// names unique per folder, so distinct (folder, file) pairs can never derive
// the same key.
//
// Key format: workspaces/{workspaceID}/{folderPath}/{fileName} with repeated
// separators collapsed.
func DeriveBlobKey(workspaceID, folderPath, fileName string) string {
	trimmedPath := strings.TrimPrefix(folderPath, "/")

	key := fmt.Sprintf("workspaces/%s/%s/%s", workspaceID, trimmedPath, fileName)

	return repeatedSeparators.ReplaceAllString(key, "/")
}

// WorkspaceBlobPrefix returns the prefix all of a workspace's objects live
// under. It ends with a separator so prefix listings cannot leak into a
// workspace whose id shares a prefix.
func WorkspaceBlobPrefix(workspaceID string) string {
	return fmt.Sprintf("workspaces/%s/", workspaceID)
}

// WorkspaceMarkerKey is the init object written when a workspace is created;
// it pins the workspace prefix in the blob store.
func WorkspaceMarkerKey(workspaceID string) string {
	return WorkspaceBlobPrefix(workspaceID) + ".workspace"
}

// FolderMarkerKey is the marker object written when a folder is created.
func FolderMarkerKey(workspaceID, folderPath string) string {
	key := WorkspaceBlobPrefix(workspaceID) + strings.TrimPrefix(folderPath, "/") + "/.folder"

	return repeatedSeparators.ReplaceAllString(key, "/")
}

// IsMarkerKey reports whether a key belongs to a marker object rather than
// file content. Marker objects are exempt from orphan collection.
func IsMarkerKey(key string) bool {
	return strings.HasSuffix(key, "/.workspace") || strings.HasSuffix(key, "/.folder")
}
