package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/codenest/codenest/internal/domain"
	"github.com/codenest/codenest/internal/hierarchy"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

type folderManager struct {
	workspaces domain.WorkspaceRepository
	folders    domain.FolderRepository
	files      domain.FileRepository
	blobs      domain.BlobStore
}

type FolderManagerDependencies struct {
	WorkspaceRepository domain.WorkspaceRepository
	FolderRepository    domain.FolderRepository
	FileRepository      domain.FileRepository
	BlobStore           domain.BlobStore
}

func NewFolderManager(deps FolderManagerDependencies) domain.FolderManager {
	return &folderManager{
		workspaces: deps.WorkspaceRepository,
		folders:    deps.FolderRepository,
		files:      deps.FileRepository,
		blobs:      deps.BlobStore,
	}
}

func (m *folderManager) CreateFolder(ctx context.Context, params domain.CreateFolderParams) (*domain.Folder, error) {
	name, err := hierarchy.ValidateName(params.Name)
	if err != nil {
		return nil, err
	}

	workspace, err := m.workspaces.GetLive(ctx, params.WorkspaceID)
	if err != nil {
		return nil, err
	}

	parentPath := ""

	if params.ParentFolderID != nil {
		parent, err := m.folders.GetLive(ctx, params.WorkspaceID, *params.ParentFolderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrParentNotFound, *params.ParentFolderID)
		}

		parentPath = parent.Path
	}

	path := hierarchy.ChildPath(parentPath, name)

	// Marker blob first, metadata second; a failed insert leaves only an
	// invisible marker behind.
	markerKey := hierarchy.FolderMarkerKey(workspace.ID, path)
	marker := fmt.Sprintf(`{"name":%q,"workspace_id":%q,"created_at":%q}`, name, workspace.ID, time.Now().UTC().Format(time.RFC3339))

	if err := m.blobs.Put(ctx, markerKey, []byte(marker), "application/json"); err != nil {
		return nil, err
	}

	folder := &domain.Folder{
		ID:             xid.New().String(),
		WorkspaceID:    workspace.ID,
		ParentFolderID: params.ParentFolderID,
		Name:           name,
		Path:           path,
		LastModifiedBy: params.ActorID,
		Permissions: domain.PermissionSet{
			Read:  []string{params.ActorID},
			Write: []string{params.ActorID},
		},
	}

	if err := m.folders.Insert(ctx, folder); err != nil {
		return nil, err
	}

	return folder, nil
}

func (m *folderManager) GetFolder(ctx context.Context, workspaceID, folderID string) (*domain.Folder, error) {
	return m.folders.GetLive(ctx, workspaceID, folderID)
}

func (m *folderManager) ListFolders(ctx context.Context, workspaceID string, parentFolderID *string) ([]domain.Folder, error) {
	return m.folders.ListChildren(ctx, workspaceID, parentFolderID)
}

func (m *folderManager) RenameFolder(ctx context.Context, params domain.RenameFolderParams) (*domain.Folder, error) {
	newName, err := hierarchy.ValidateName(params.NewName)
	if err != nil {
		return nil, err
	}

	folder, err := m.folders.GetLive(ctx, params.WorkspaceID, params.FolderID)
	if err != nil {
		return nil, err
	}

	if folder.Name == newName {
		return folder, nil
	}

	newPath := hierarchy.ChildPath(hierarchy.ParentPath(folder.Path), newName)

	if err := m.checkSiblingFolderName(ctx, folder.WorkspaceID, folder.ParentFolderID, folder.ID, newName); err != nil {
		return nil, err
	}

	return m.relocateFolder(ctx, folder, newName, newPath, folder.ParentFolderID, params.ActorID)
}

func (m *folderManager) MoveFolder(ctx context.Context, params domain.MoveFolderParams) (*domain.Folder, error) {
	folder, err := m.folders.GetLive(ctx, params.WorkspaceID, params.FolderID)
	if err != nil {
		return nil, err
	}

	parentPath := ""

	if params.NewParentFolderID != nil {
		parent, err := m.folders.GetLive(ctx, params.WorkspaceID, *params.NewParentFolderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrParentNotFound, *params.NewParentFolderID)
		}

		if parent.ID == folder.ID || parent.Path == folder.Path || isDescendantPath(parent.Path, folder.Path) {
			return nil, fmt.Errorf("%w: cannot move a folder into its own subtree", domain.ErrInvalidName)
		}

		parentPath = parent.Path
	}

	newPath := hierarchy.ChildPath(parentPath, folder.Name)

	if newPath == folder.Path {
		return folder, nil
	}

	if err := m.checkSiblingFolderName(ctx, folder.WorkspaceID, params.NewParentFolderID, folder.ID, folder.Name); err != nil {
		return nil, err
	}

	return m.relocateFolder(ctx, folder, folder.Name, newPath, params.NewParentFolderID, params.ActorID)
}

// relocateFolder performs the bulk path-prefix rewrite. Descendants are
// written first and the node is flipped last; a crash in between is caught
// by RepairFolderPaths, which rolls stragglers back to the path implied by
// their parent chain.
func (m *folderManager) relocateFolder(ctx context.Context, folder *domain.Folder, newName, newPath string, newParentID *string, actorID string) (*domain.Folder, error) {
	oldPath := folder.Path

	descendants, err := m.folders.ListByPathPrefix(ctx, folder.WorkspaceID, oldPath)
	if err != nil {
		return nil, err
	}

	for _, descendant := range descendants {
		rewritten, ok := hierarchy.ReplacePathPrefix(descendant.Path, oldPath, newPath)
		if !ok {
			continue
		}

		if err := m.folders.UpdatePath(ctx, descendant.ID, descendant.Name, rewritten, actorID); err != nil {
			return nil, fmt.Errorf("failed to rewrite descendant folder %s: %w", descendant.ID, err)
		}
	}

	files, err := m.files.ListByPathPrefix(ctx, folder.WorkspaceID, oldPath)
	if err != nil {
		return nil, err
	}

	for i := range files {
		if err := m.relocateFileBlob(ctx, &files[i], oldPath, newPath, actorID); err != nil {
			return nil, err
		}
	}

	if err := m.folders.Relocate(ctx, folder.ID, newName, newPath, newParentID, actorID); err != nil {
		return nil, err
	}

	m.moveFolderMarkers(ctx, folder.WorkspaceID, append(descendants, *folder), oldPath, newPath)

	folder.Name = newName
	folder.Path = newPath
	folder.ParentFolderID = newParentID
	folder.LastModifiedBy = actorID

	return folder, nil
}

// relocateFileBlob moves one file's blob and metadata to the paths implied
// by its ancestor's rename: copy to the new key, update metadata, then a
// best-effort delete of the old key.
func (m *folderManager) relocateFileBlob(ctx context.Context, file *domain.File, oldPrefix, newPrefix, actorID string) error {
	newFilePath, ok := hierarchy.ReplacePathPrefix(file.Path, oldPrefix, newPrefix)
	if !ok {
		return nil
	}

	newKey := hierarchy.DeriveBlobKey(file.WorkspaceID, hierarchy.ParentPath(newFilePath), file.FullName())

	if err := m.blobs.Copy(ctx, file.BlobKey, newKey); err != nil {
		return err
	}

	err := m.files.UpdateLocation(ctx, file.ID, domain.FileLocationUpdate{
		Name:      file.Name,
		Extension: file.Extension,
		Category:  file.Category,
		MimeType:  file.MimeType,
		Path:      newFilePath,
		BlobKey:   newKey,
		FolderID:  file.FolderID,
		ActorID:   actorID,
	})
	if err != nil {
		return err
	}

	if err := m.blobs.Delete(ctx, file.BlobKey); err != nil {
		log.Error().Err(err).Str("blob_key", file.BlobKey).Msg("Failed to delete old blob after move")
	}

	return nil
}

func (m *folderManager) SoftDeleteFolder(ctx context.Context, workspaceID, folderID, actorID string) error {
	folder, err := m.folders.GetLive(ctx, workspaceID, folderID)
	if err != nil {
		return err
	}

	workspace, err := m.workspaces.GetLive(ctx, workspaceID)
	if err != nil {
		return err
	}

	if !workspace.CanWrite(actorID) {
		return fmt.Errorf("%w: no write access to workspace %s", domain.ErrUnauthorized, workspaceID)
	}

	// Snapshot the affected files and folders before flagging; live
	// queries will not see them afterwards.
	files, err := m.files.ListByPathPrefix(ctx, workspaceID, folder.Path)
	if err != nil {
		return err
	}

	descendants, err := m.folders.ListByPathPrefix(ctx, workspaceID, folder.Path)
	if err != nil {
		return err
	}

	if err := m.folders.SetDeleted(ctx, folderID, true, actorID); err != nil {
		return err
	}

	if err := m.folders.SetDeletedByPathPrefix(ctx, workspaceID, folder.Path, true, actorID); err != nil {
		return err
	}

	if err := m.files.SetDeletedByPathPrefix(ctx, workspaceID, folder.Path, true, actorID); err != nil {
		return err
	}

	for _, file := range files {
		if err := m.blobs.Delete(ctx, file.BlobKey); err != nil {
			log.Error().Err(err).Str("blob_key", file.BlobKey).Msg("Failed to delete blob after folder soft delete")
		}
	}

	// Marker objects of the flagged subtree go with it; the orphan sweep
	// exempts markers, so nothing else would ever reclaim them.
	for _, flagged := range append(descendants, *folder) {
		markerKey := hierarchy.FolderMarkerKey(workspaceID, flagged.Path)

		if err := m.blobs.Delete(ctx, markerKey); err != nil {
			log.Error().Err(err).Str("blob_key", markerKey).Msg("Failed to delete folder marker after soft delete")
		}
	}

	return nil
}

func (m *folderManager) RestoreFolder(ctx context.Context, workspaceID, folderID, actorID string) error {
	folder, err := m.folders.Get(ctx, folderID)
	if err != nil {
		return err
	}

	if folder.WorkspaceID != workspaceID {
		return fmt.Errorf("%w: folder", domain.ErrNotFound)
	}

	if err := m.folders.SetDeleted(ctx, folderID, false, actorID); err != nil {
		return err
	}

	if err := m.folders.SetDeletedByPathPrefix(ctx, workspaceID, folder.Path, false, actorID); err != nil {
		return err
	}

	return m.files.SetDeletedByPathPrefix(ctx, workspaceID, folder.Path, false, actorID)
}

func (m *folderManager) RepairFolderPaths(ctx context.Context, workspaceID, actorID string) (int, error) {
	folders, err := m.folders.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return 0, err
	}

	byID := make(map[string]*domain.Folder, len(folders))
	for i := range folders {
		byID[folders[i].ID] = &folders[i]
	}

	canonical := make(map[string]string, len(folders))

	var canonicalPath func(folder *domain.Folder) (string, bool)
	canonicalPath = func(folder *domain.Folder) (string, bool) {
		if path, ok := canonical[folder.ID]; ok {
			return path, true
		}

		if folder.ParentFolderID == nil {
			path := hierarchy.ChildPath("", folder.Name)
			canonical[folder.ID] = path

			return path, true
		}

		parent, ok := byID[*folder.ParentFolderID]
		if !ok {
			log.Warn().
				Str("folder_id", folder.ID).
				Str("parent_folder_id", *folder.ParentFolderID).
				Msg("Folder parent missing from live set, skipping repair")

			return "", false
		}

		parentPath, ok := canonicalPath(parent)
		if !ok {
			return "", false
		}

		path := hierarchy.ChildPath(parentPath, folder.Name)
		canonical[folder.ID] = path

		return path, true
	}

	repaired := 0

	for i := range folders {
		folder := &folders[i]

		expected, ok := canonicalPath(folder)
		if !ok || expected == folder.Path {
			continue
		}

		log.Warn().
			Str("folder_id", folder.ID).
			Str("stored_path", folder.Path).
			Str("canonical_path", expected).
			Msg("Repairing folder path")

		if err := m.folders.UpdatePath(ctx, folder.ID, folder.Name, expected, actorID); err != nil {
			return repaired, err
		}

		folder.Path = expected
		repaired++
	}

	files, err := m.files.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return repaired, err
	}

	for i := range files {
		file := &files[i]

		parent, ok := byID[file.FolderID]
		if !ok {
			continue
		}

		expected := hierarchy.ChildPath(parent.Path, file.FullName())
		if expected == file.Path {
			continue
		}

		newKey := hierarchy.DeriveBlobKey(workspaceID, parent.Path, file.FullName())

		if newKey != file.BlobKey {
			if err := m.blobs.Copy(ctx, file.BlobKey, newKey); err != nil {
				// A crash after the old key was already deleted leaves the
				// content at the new key only; that repair can proceed. Any
				// other copy failure leaves this file untouched: metadata
				// must never point at a key the content never reached.
				if _, getErr := m.blobs.Get(ctx, newKey); getErr != nil {
					log.Error().Err(err).
						Str("blob_key", file.BlobKey).
						Str("new_blob_key", newKey).
						Msg("Failed to copy blob during path repair, skipping file")

					continue
				}
			}
		}

		err := m.files.UpdateLocation(ctx, file.ID, domain.FileLocationUpdate{
			Name:      file.Name,
			Extension: file.Extension,
			Category:  file.Category,
			MimeType:  file.MimeType,
			Path:      expected,
			BlobKey:   newKey,
			FolderID:  file.FolderID,
			ActorID:   actorID,
		})
		if err != nil {
			return repaired, err
		}

		if newKey != file.BlobKey {
			if err := m.blobs.Delete(ctx, file.BlobKey); err != nil {
				log.Error().Err(err).Str("blob_key", file.BlobKey).Msg("Failed to delete old blob during path repair")
			}
		}

		repaired++
	}

	return repaired, nil
}

func (m *folderManager) checkSiblingFolderName(ctx context.Context, workspaceID string, parentFolderID *string, selfID, name string) error {
	siblings, err := m.folders.ListChildren(ctx, workspaceID, parentFolderID)
	if err != nil {
		return err
	}

	for _, sibling := range siblings {
		if sibling.ID != selfID && sibling.Name == name {
			return fmt.Errorf("%w: folder %s", domain.ErrConflict, name)
		}
	}

	return nil
}

// moveFolderMarkers relocates marker objects after a rename. Entries carry
// their pre-rewrite paths. Marker moves are best effort, a missing marker
// never fails the operation.
func (m *folderManager) moveFolderMarkers(ctx context.Context, workspaceID string, folders []domain.Folder, oldPrefix, newPrefix string) {
	for _, folder := range folders {
		newFolderPath, ok := hierarchy.ReplacePathPrefix(folder.Path, oldPrefix, newPrefix)
		if !ok {
			continue
		}

		oldKey := hierarchy.FolderMarkerKey(workspaceID, folder.Path)
		newKey := hierarchy.FolderMarkerKey(workspaceID, newFolderPath)

		if err := m.blobs.Copy(ctx, oldKey, newKey); err != nil {
			log.Debug().Err(err).Str("blob_key", oldKey).Msg("Failed to copy folder marker")

			continue
		}

		if err := m.blobs.Delete(ctx, oldKey); err != nil {
			log.Debug().Err(err).Str("blob_key", oldKey).Msg("Failed to delete old folder marker")
		}
	}
}

func isDescendantPath(path, ancestorPath string) bool {
	_, ok := hierarchy.ReplacePathPrefix(path, ancestorPath, ancestorPath)

	return ok && path != ancestorPath
}
