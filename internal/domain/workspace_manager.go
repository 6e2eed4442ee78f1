package domain

import (
	"context"
	"time"
)

// WorkspaceManager orchestrates workspace lifecycle across the metadata
// store and the blob store.
type WorkspaceManager interface {
	CreateWorkspace(ctx context.Context, params CreateWorkspaceParams) (*Workspace, error)
	GetWorkspace(ctx context.Context, workspaceID string) (*Workspace, error)
	ListWorkspaces(ctx context.Context, ownerID string) ([]Workspace, error)
	// SoftDeleteWorkspace flags the workspace and every folder and file in
	// it, then makes a best-effort sweep of the workspace's blob prefix.
	SoftDeleteWorkspace(ctx context.Context, workspaceID, actorID string) error
	// RestoreWorkspace clears the delete flags. Blobs already reclaimed by
	// the orphan sweep are not restored.
	RestoreWorkspace(ctx context.Context, workspaceID, actorID string) error
	// SweepOrphanedBlobs removes blobs under the workspace prefix that have
	// no live file record and are older than the grace period.
	SweepOrphanedBlobs(ctx context.Context, params SweepOrphanedBlobsParams) (SweepResult, error)
}

type CreateWorkspaceParams struct {
	Name        string
	Description string
	OwnerID     string
	IsPublic    bool
}

type SweepOrphanedBlobsParams struct {
	WorkspaceID string
	GracePeriod time.Duration
}

type SweepResult struct {
	Scanned int
	Deleted int
	Failed  int
}
