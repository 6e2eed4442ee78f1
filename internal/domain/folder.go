package domain

import (
	"context"
	"time"
)

// Folder is a node in the workspace hierarchy. Path is materialized: it is
// always the concatenation of ancestor names, so prefix queries can resolve
// whole subtrees without traversal.
type Folder struct {
	ID             string        `bson:"_id" json:"id"`
	WorkspaceID    string        `bson:"workspace_id" json:"workspace_id"`
	ParentFolderID *string       `bson:"parent_folder_id,omitempty" json:"parent_folder_id,omitempty"`
	Name           string        `bson:"name" json:"name"`
	Path           string        `bson:"path" json:"path"`
	IsDeleted      bool          `bson:"is_deleted" json:"is_deleted"`
	LastModifiedBy string        `bson:"last_modified_by" json:"last_modified_by"`
	Permissions    PermissionSet `bson:"permissions" json:"permissions"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

type PermissionSet struct {
	Read  []string `bson:"read" json:"read"`
	Write []string `bson:"write" json:"write"`
}

// IsRoot reports whether the folder sits directly under the workspace.
func (f *Folder) IsRoot() bool {
	return f.ParentFolderID == nil
}

type FolderRepository interface {
	Insert(ctx context.Context, folder *Folder) error
	GetLive(ctx context.Context, workspaceID, id string) (*Folder, error)
	Get(ctx context.Context, id string) (*Folder, error)
	ListChildren(ctx context.Context, workspaceID string, parentFolderID *string) ([]Folder, error)
	// ListByPathPrefix returns every live folder in the subtree rooted at
	// prefix, the folder at prefix itself excluded.
	ListByPathPrefix(ctx context.Context, workspaceID, prefix string) ([]Folder, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]Folder, error)
	UpdatePath(ctx context.Context, id, name, path string, actorID string) error
	// Relocate additionally rewrites the parent pointer; used when a folder
	// moves to a different parent.
	Relocate(ctx context.Context, id, name, path string, parentFolderID *string, actorID string) error
	SetDeleted(ctx context.Context, id string, deleted bool, actorID string) error
	SetDeletedByPathPrefix(ctx context.Context, workspaceID, prefix string, deleted bool, actorID string) error
	SetDeletedByWorkspace(ctx context.Context, workspaceID string, deleted bool, actorID string) error
}
