package managers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codenest/codenest/internal/domain"
	"github.com/codenest/codenest/internal/hierarchy"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxWorkspaceNameLength = 100

type workspaceManager struct {
	workspaces domain.WorkspaceRepository
	folders    domain.FolderRepository
	files      domain.FileRepository
	blobs      domain.BlobStore
}

type WorkspaceManagerDependencies struct {
	WorkspaceRepository domain.WorkspaceRepository
	FolderRepository    domain.FolderRepository
	FileRepository      domain.FileRepository
	BlobStore           domain.BlobStore
}

func NewWorkspaceManager(deps WorkspaceManagerDependencies) domain.WorkspaceManager {
	return &workspaceManager{
		workspaces: deps.WorkspaceRepository,
		folders:    deps.FolderRepository,
		files:      deps.FileRepository,
		blobs:      deps.BlobStore,
	}
}

func (m *workspaceManager) CreateWorkspace(ctx context.Context, params domain.CreateWorkspaceParams) (*domain.Workspace, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: workspace name is empty", domain.ErrInvalidName)
	}

	if len(name) > maxWorkspaceNameLength {
		return nil, fmt.Errorf("%w: workspace name exceeds %d characters", domain.ErrInvalidName, maxWorkspaceNameLength)
	}

	workspaceID := uuid.NewString()

	// The init marker pins the workspace prefix in the blob store before
	// any metadata exists; same blob-first ordering as file uploads.
	markerKey := hierarchy.WorkspaceMarkerKey(workspaceID)
	marker := fmt.Sprintf(`{"workspace_id":%q,"name":%q,"created_at":%q}`, workspaceID, name, time.Now().UTC().Format(time.RFC3339))

	if err := m.blobs.Put(ctx, markerKey, []byte(marker), "application/json"); err != nil {
		return nil, err
	}

	workspace := &domain.Workspace{
		ID:            workspaceID,
		Name:          name,
		Description:   strings.TrimSpace(params.Description),
		OwnerID:       params.OwnerID,
		BlobPrefix:    hierarchy.WorkspaceBlobPrefix(workspaceID),
		IsPublic:      params.IsPublic,
		Collaborators: []string{params.OwnerID},
		Settings: domain.WorkspaceSettings{
			DefaultLanguage: "javascript",
			Theme:           "dark",
		},
	}

	if err := m.workspaces.Insert(ctx, workspace); err != nil {
		log.Warn().
			Str("workspace_id", workspaceID).
			Str("blob_key", markerKey).
			Msg("Workspace metadata insert failed after marker upload, marker orphaned")

		return nil, err
	}

	return workspace, nil
}

func (m *workspaceManager) GetWorkspace(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	return m.workspaces.GetLive(ctx, workspaceID)
}

func (m *workspaceManager) ListWorkspaces(ctx context.Context, ownerID string) ([]domain.Workspace, error) {
	return m.workspaces.ListByOwner(ctx, ownerID)
}

func (m *workspaceManager) SoftDeleteWorkspace(ctx context.Context, workspaceID, actorID string) error {
	workspace, err := m.workspaces.GetLive(ctx, workspaceID)
	if err != nil {
		return err
	}

	if workspace.OwnerID != actorID {
		return fmt.Errorf("%w: only the owner can delete a workspace", domain.ErrUnauthorized)
	}

	// Metadata flags are the step of record. Blob removal afterwards is
	// best effort and never rolled back.
	if err := m.workspaces.SetDeleted(ctx, workspaceID, true); err != nil {
		return err
	}

	if err := m.folders.SetDeletedByWorkspace(ctx, workspaceID, true, actorID); err != nil {
		return err
	}

	if err := m.files.SetDeletedByWorkspace(ctx, workspaceID, true, actorID); err != nil {
		return err
	}

	m.deleteBlobsUnderPrefix(ctx, workspace.BlobPrefix)

	return nil
}

func (m *workspaceManager) RestoreWorkspace(ctx context.Context, workspaceID, actorID string) error {
	workspace, err := m.workspaces.Get(ctx, workspaceID)
	if err != nil {
		return err
	}

	if workspace.OwnerID != actorID {
		return fmt.Errorf("%w: only the owner can restore a workspace", domain.ErrUnauthorized)
	}

	if err := m.workspaces.SetDeleted(ctx, workspaceID, false); err != nil {
		return err
	}

	if err := m.folders.SetDeletedByWorkspace(ctx, workspaceID, false, actorID); err != nil {
		return err
	}

	// Blobs already swept are gone; restored file records whose content was
	// reclaimed surface NotFound on read.
	return m.files.SetDeletedByWorkspace(ctx, workspaceID, false, actorID)
}

func (m *workspaceManager) SweepOrphanedBlobs(ctx context.Context, params domain.SweepOrphanedBlobsParams) (domain.SweepResult, error) {
	workspace, err := m.workspaces.Get(ctx, params.WorkspaceID)
	if err != nil {
		return domain.SweepResult{}, err
	}

	objects, err := m.blobs.ListByPrefix(ctx, workspace.BlobPrefix)
	if err != nil {
		return domain.SweepResult{}, err
	}

	cutoff := time.Now().Add(-params.GracePeriod)

	result := domain.SweepResult{Scanned: len(objects)}

	for _, object := range objects {
		if hierarchy.IsMarkerKey(object.Key) {
			continue
		}

		if object.LastModified.After(cutoff) {
			continue
		}

		exists, err := m.files.ExistsLiveByBlobKey(ctx, object.Key)
		if err != nil {
			return result, err
		}

		if exists {
			continue
		}

		if err := m.blobs.Delete(ctx, object.Key); err != nil {
			log.Error().Err(err).Str("blob_key", object.Key).Msg("Failed to delete orphaned blob")
			result.Failed++

			continue
		}

		result.Deleted++
	}

	log.Info().
		Str("workspace_id", params.WorkspaceID).
		Int("scanned", result.Scanned).
		Int("deleted", result.Deleted).
		Int("failed", result.Failed).
		Msg("Orphaned blob sweep finished")

	return result, nil
}

func (m *workspaceManager) deleteBlobsUnderPrefix(ctx context.Context, prefix string) {
	objects, err := m.blobs.ListByPrefix(ctx, prefix)
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("Failed to list blobs for cleanup")

		return
	}

	for _, object := range objects {
		if err := m.blobs.Delete(ctx, object.Key); err != nil {
			log.Error().Err(err).Str("blob_key", object.Key).Msg("Failed to delete blob during cleanup")
		}
	}
}
