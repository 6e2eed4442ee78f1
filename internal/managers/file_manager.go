package managers

import (
	"context"
	"fmt"

	"github.com/codenest/codenest/internal/domain"
	"github.com/codenest/codenest/internal/hierarchy"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

type fileManager struct {
	workspaces domain.WorkspaceRepository
	folders    domain.FolderRepository
	files      domain.FileRepository
	blobs      domain.BlobStore
}

type FileManagerDependencies struct {
	WorkspaceRepository domain.WorkspaceRepository
	FolderRepository    domain.FolderRepository
	FileRepository      domain.FileRepository
	BlobStore           domain.BlobStore
}

func NewFileManager(deps FileManagerDependencies) domain.FileManager {
	return &fileManager{
		workspaces: deps.WorkspaceRepository,
		folders:    deps.FolderRepository,
		files:      deps.FileRepository,
		blobs:      deps.BlobStore,
	}
}

func (m *fileManager) UploadFile(ctx context.Context, params domain.UploadFileParams) (*domain.File, error) {
	fullName, err := hierarchy.ValidateName(params.FileName)
	if err != nil {
		return nil, err
	}

	workspace, err := m.workspaces.GetLive(ctx, params.WorkspaceID)
	if err != nil {
		return nil, err
	}

	folder, err := m.folders.GetLive(ctx, params.WorkspaceID, params.FolderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrParentNotFound, params.FolderID)
	}

	name, extension := hierarchy.SplitFileName(fullName)

	taken, err := m.files.ExistsLiveSibling(ctx, folder.ID, name, extension)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, fmt.Errorf("%w: file %s", domain.ErrConflict, fullName)
	}

	category := domain.CategoryForExtension(extension)
	mimeType := domain.MimeTypeForExtension(extension)
	blobKey := hierarchy.DeriveBlobKey(workspace.ID, folder.Path, fullName)

	// Blob first. If this fails there is nothing to clean up; if the
	// metadata insert below fails the blob is orphaned, which is invisible
	// and reclaimable, unlike metadata pointing at a missing blob.
	if err := m.blobs.Put(ctx, blobKey, params.Content, mimeType); err != nil {
		return nil, err
	}

	var lineCount int64
	if domain.IsTextCategory(category, mimeType) {
		lineCount = hierarchy.CountLines(params.Content)
	}

	file := &domain.File{
		ID:             xid.New().String(),
		WorkspaceID:    workspace.ID,
		FolderID:       folder.ID,
		Name:           name,
		Extension:      extension,
		Category:       category,
		MimeType:       mimeType,
		Path:           hierarchy.ChildPath(folder.Path, fullName),
		BlobKey:        blobKey,
		Size:           int64(len(params.Content)),
		Checksum:       hierarchy.Digest(params.Content),
		LastModifiedBy: params.ActorID,
		Version:        1,
		Permissions: domain.PermissionSet{
			Read:  []string{params.ActorID},
			Write: []string{params.ActorID},
		},
		Metadata: domain.FileMetadata{
			Language:  string(category),
			Encoding:  "utf-8",
			LineCount: lineCount,
		},
	}

	if err := m.files.Insert(ctx, file); err != nil {
		log.Warn().
			Str("blob_key", blobKey).
			Str("workspace_id", workspace.ID).
			Msg("File metadata insert failed after blob upload, blob orphaned until next sweep")

		return nil, err
	}

	return file, nil
}

func (m *fileManager) GetFileContent(ctx context.Context, fileID string) (*domain.FileContent, error) {
	file, err := m.files.GetLive(ctx, fileID)
	if err != nil {
		return nil, err
	}

	content, err := m.blobs.Get(ctx, file.BlobKey)
	if err != nil {
		return nil, err
	}

	if err := hierarchy.VerifyChecksum(file, content); err != nil {
		log.Error().
			Str("file_id", file.ID).
			Str("blob_key", file.BlobKey).
			Msg("Stored blob does not match file checksum")

		return nil, err
	}

	return &domain.FileContent{File: file, Content: content}, nil
}

func (m *fileManager) UpdateFileContent(ctx context.Context, params domain.UpdateFileContentParams) (*domain.File, error) {
	file, err := m.files.GetLive(ctx, params.FileID)
	if err != nil {
		return nil, err
	}

	if err := m.blobs.Put(ctx, file.BlobKey, params.Content, file.MimeType); err != nil {
		return nil, err
	}

	var lineCount int64
	if domain.IsTextCategory(file.Category, file.MimeType) {
		lineCount = hierarchy.CountLines(params.Content)
	}

	update := domain.FileContentUpdate{
		Size:      int64(len(params.Content)),
		Checksum:  hierarchy.Digest(params.Content),
		LineCount: lineCount,
		ActorID:   params.ActorID,
	}

	if err := m.files.UpdateContent(ctx, file.ID, update); err != nil {
		log.Error().
			Str("file_id", file.ID).
			Str("blob_key", file.BlobKey).
			Msg("Metadata update failed after content overwrite, reads will report a checksum mismatch until retried")

		return nil, err
	}

	file.Size = update.Size
	file.Checksum = update.Checksum
	file.Metadata.LineCount = lineCount
	file.Version++
	file.LastModifiedBy = params.ActorID

	return file, nil
}

func (m *fileManager) RenameFile(ctx context.Context, params domain.RenameFileParams) (*domain.File, error) {
	fullName, err := hierarchy.ValidateName(params.NewName)
	if err != nil {
		return nil, err
	}

	file, err := m.files.GetLive(ctx, params.FileID)
	if err != nil {
		return nil, err
	}

	if fullName == file.FullName() {
		return file, nil
	}

	folder, err := m.folders.GetLive(ctx, file.WorkspaceID, file.FolderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrParentNotFound, file.FolderID)
	}

	return m.relocate(ctx, file, folder, fullName, params.ActorID)
}

func (m *fileManager) MoveFile(ctx context.Context, params domain.MoveFileParams) (*domain.File, error) {
	file, err := m.files.GetLive(ctx, params.FileID)
	if err != nil {
		return nil, err
	}

	if params.NewFolderID == file.FolderID {
		return file, nil
	}

	folder, err := m.folders.GetLive(ctx, file.WorkspaceID, params.NewFolderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrParentNotFound, params.NewFolderID)
	}

	return m.relocate(ctx, file, folder, file.FullName(), params.ActorID)
}

// relocate moves a file to a new name or folder with the create-before-
// delete bias: copy the blob to the new key, update metadata, then delete
// the old key best effort.
func (m *fileManager) relocate(ctx context.Context, file *domain.File, folder *domain.Folder, fullName, actorID string) (*domain.File, error) {
	name, extension := hierarchy.SplitFileName(fullName)

	taken, err := m.files.ExistsLiveSibling(ctx, folder.ID, name, extension)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, fmt.Errorf("%w: file %s", domain.ErrConflict, fullName)
	}

	oldKey := file.BlobKey
	newKey := hierarchy.DeriveBlobKey(file.WorkspaceID, folder.Path, fullName)
	newPath := hierarchy.ChildPath(folder.Path, fullName)

	if newKey != oldKey {
		if err := m.blobs.Copy(ctx, oldKey, newKey); err != nil {
			return nil, err
		}
	}

	update := domain.FileLocationUpdate{
		Name:      name,
		Extension: extension,
		Category:  domain.CategoryForExtension(extension),
		MimeType:  domain.MimeTypeForExtension(extension),
		Path:      newPath,
		BlobKey:   newKey,
		FolderID:  folder.ID,
		ActorID:   actorID,
	}

	if err := m.files.UpdateLocation(ctx, file.ID, update); err != nil {
		return nil, err
	}

	if newKey != oldKey {
		if err := m.blobs.Delete(ctx, oldKey); err != nil {
			log.Error().Err(err).Str("blob_key", oldKey).Msg("Failed to delete old blob after relocate")
		}
	}

	file.Name = update.Name
	file.Extension = update.Extension
	file.Category = update.Category
	file.MimeType = update.MimeType
	file.Path = update.Path
	file.BlobKey = update.BlobKey
	file.FolderID = update.FolderID
	file.LastModifiedBy = actorID

	return file, nil
}

func (m *fileManager) ListFiles(ctx context.Context, folderID string) ([]domain.File, error) {
	return m.files.ListByFolder(ctx, folderID)
}

func (m *fileManager) SoftDeleteFile(ctx context.Context, fileID, actorID string) error {
	file, err := m.files.GetLive(ctx, fileID)
	if err != nil {
		return err
	}

	workspace, err := m.workspaces.GetLive(ctx, file.WorkspaceID)
	if err != nil {
		return err
	}

	if !workspace.CanWrite(actorID) {
		return fmt.Errorf("%w: no write access to workspace %s", domain.ErrUnauthorized, file.WorkspaceID)
	}

	if err := m.files.SetDeleted(ctx, fileID, true, actorID); err != nil {
		return err
	}

	// Best effort only. The file is already gone from the namespace; a
	// lingering blob is collected by the next sweep.
	if err := m.blobs.Delete(ctx, file.BlobKey); err != nil {
		log.Error().Err(err).Str("blob_key", file.BlobKey).Msg("Failed to delete blob after file soft delete")
	}

	return nil
}

func (m *fileManager) RestoreFile(ctx context.Context, fileID, actorID string) error {
	if _, err := m.files.Get(ctx, fileID); err != nil {
		return err
	}

	return m.files.SetDeleted(ctx, fileID, false, actorID)
}
