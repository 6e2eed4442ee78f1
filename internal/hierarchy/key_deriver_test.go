package hierarchy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveBlobKey(t *testing.T) {
	tests := []struct {
		name        string
		workspaceID string
		folderPath  string
		fileName    string
		expected    string
	}{
		{
			name:        "nested folder",
			workspaceID: "W1",
			folderPath:  "/src",
			fileName:    "app.js",
			expected:    "workspaces/W1/src/app.js",
		},
		{
			name:        "deep folder",
			workspaceID: "W1",
			folderPath:  "/src/components",
			fileName:    "Button.tsx",
			expected:    "workspaces/W1/src/components/Button.tsx",
		},
		{
			name:        "root folder path",
			workspaceID: "W1",
			folderPath:  "/",
			fileName:    "readme.md",
			expected:    "workspaces/W1/readme.md",
		},
		{
			name:        "empty folder path",
			workspaceID: "W1",
			folderPath:  "",
			fileName:    "readme.md",
			expected:    "workspaces/W1/readme.md",
		},
		{
			name:        "repeated separators collapsed",
			workspaceID: "W1",
			folderPath:  "//src//lib/",
			fileName:    "util.go",
			expected:    "workspaces/W1/src/lib/util.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveBlobKey(tt.workspaceID, tt.folderPath, tt.fileName))
		})
	}
}

func TestDeriveBlobKey_Deterministic(t *testing.T) {
	first := DeriveBlobKey("W1", "/src", "app.js")
	second := DeriveBlobKey("W1", "/src", "app.js")

	assert.Equal(t, first, second)
}

// Folder paths are unique per workspace and file names unique per folder, so
// any two triples differing in folder path or file name must derive distinct
// keys. This is the safety argument for key uniqueness.
func TestDeriveBlobKey_DistinctInputsDistinctKeys(t *testing.T) {
	type triple struct {
		workspaceID string
		folderPath  string
		fileName    string
	}

	triples := []triple{
		{"W1", "/src", "app.js"},
		{"W1", "/src", "app.ts"},
		{"W1", "/src/lib", "app.js"},
		{"W1", "/docs", "app.js"},
		{"W1", "/", "app.js"},
		{"W2", "/src", "app.js"},
		{"W1", "/src", "index.js"},
	}

	seen := map[string]triple{}

	for _, tr := range triples {
		key := DeriveBlobKey(tr.workspaceID, tr.folderPath, tr.fileName)

		prev, dup := seen[key]
		assert.False(t, dup, "key %q derived from both %+v and %+v", key, prev, tr)

		seen[key] = tr
	}

	assert.Len(t, seen, len(triples))
}

func TestWorkspaceBlobPrefix(t *testing.T) {
	prefix := WorkspaceBlobPrefix("W1")

	assert.Equal(t, "workspaces/W1/", prefix)

	// W1 and W10 share a string prefix; the trailing separator keeps their
	// listings apart.
	other := WorkspaceBlobPrefix("W10")
	assert.NotEqual(t, prefix, other[:len(prefix)])
}

func TestMarkerKeys(t *testing.T) {
	assert.Equal(t, "workspaces/W1/.workspace", WorkspaceMarkerKey("W1"))
	assert.Equal(t, "workspaces/W1/src/.folder", FolderMarkerKey("W1", "/src"))
	assert.Equal(t, "workspaces/W1/src/lib/.folder", FolderMarkerKey("W1", "/src/lib"))

	assert.True(t, IsMarkerKey(WorkspaceMarkerKey("W1")))
	assert.True(t, IsMarkerKey(FolderMarkerKey("W1", "/src")))
	assert.False(t, IsMarkerKey("workspaces/W1/src/app.js"))
	assert.False(t, IsMarkerKey(fmt.Sprintf("workspaces/W1/src/%s", "folder.txt")))
}
