package domain

import "context"

// FolderManager orchestrates folder lifecycle, including the descendant
// path rewrite on rename and move.
type FolderManager interface {
	CreateFolder(ctx context.Context, params CreateFolderParams) (*Folder, error)
	GetFolder(ctx context.Context, workspaceID, folderID string) (*Folder, error)
	ListFolders(ctx context.Context, workspaceID string, parentFolderID *string) ([]Folder, error)
	// RenameFolder rewrites the materialized path of the folder and every
	// descendant folder and file, moving blob objects to their new keys.
	RenameFolder(ctx context.Context, params RenameFolderParams) (*Folder, error)
	// MoveFolder reparents the folder, with the same descendant rewrite.
	MoveFolder(ctx context.Context, params MoveFolderParams) (*Folder, error)
	// SoftDeleteFolder flags the folder and its whole subtree, then makes a
	// best-effort delete of the affected blobs.
	SoftDeleteFolder(ctx context.Context, workspaceID, folderID, actorID string) error
	RestoreFolder(ctx context.Context, workspaceID, folderID, actorID string) error
	// RepairFolderPaths scans for folders whose stored path does not equal
	// parent path + "/" + name, which a crash mid-rename can leave behind,
	// and rewrites them. Returns the number of repaired entries.
	RepairFolderPaths(ctx context.Context, workspaceID, actorID string) (int, error)
}

type CreateFolderParams struct {
	WorkspaceID    string
	ParentFolderID *string
	Name           string
	ActorID        string
}

type RenameFolderParams struct {
	WorkspaceID string
	FolderID    string
	NewName     string
	ActorID     string
}

type MoveFolderParams struct {
	WorkspaceID       string
	FolderID          string
	NewParentFolderID *string
	ActorID           string
}
