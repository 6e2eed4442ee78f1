package domain

import "context"

// FileManager orchestrates file lifecycle across both stores. Every
// multi-step operation is orphan biased: the blob write happens before the
// metadata write, and a failure in between leaves an invisible orphaned
// blob rather than metadata pointing at nothing.
type FileManager interface {
	// UploadFile creates a new file. A live sibling with the same full name
	// is a Conflict, never an overwrite.
	UploadFile(ctx context.Context, params UploadFileParams) (*File, error)
	// GetFileContent fetches the blob and verifies it against the stored
	// checksum before returning it.
	GetFileContent(ctx context.Context, fileID string) (*FileContent, error)
	// UpdateFileContent is the explicit overwrite path: same key, new
	// checksum and size, version bumped.
	UpdateFileContent(ctx context.Context, params UpdateFileContentParams) (*File, error)
	RenameFile(ctx context.Context, params RenameFileParams) (*File, error)
	MoveFile(ctx context.Context, params MoveFileParams) (*File, error)
	ListFiles(ctx context.Context, folderID string) ([]File, error)
	SoftDeleteFile(ctx context.Context, fileID, actorID string) error
	RestoreFile(ctx context.Context, fileID, actorID string) error
}

type UploadFileParams struct {
	WorkspaceID string
	FolderID    string
	FileName    string
	Content     []byte
	ActorID     string
}

type FileContent struct {
	File    *File
	Content []byte
}

type UpdateFileContentParams struct {
	FileID  string
	Content []byte
	ActorID string
}

type RenameFileParams struct {
	FileID  string
	NewName string
	ActorID string
}

type MoveFileParams struct {
	FileID      string
	NewFolderID string
	ActorID     string
}
