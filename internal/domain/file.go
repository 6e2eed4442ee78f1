package domain

import (
	"context"
	"time"
)

// File is the metadata record for a blob-store object. BlobKey is a pure
// function of (workspace id, folder path, file name) and is unique across
// all files; no two records may point at the same object.
type File struct {
	ID             string        `bson:"_id" json:"id"`
	WorkspaceID    string        `bson:"workspace_id" json:"workspace_id"`
	FolderID       string        `bson:"folder_id" json:"folder_id"`
	Name           string        `bson:"name" json:"name"`
	Extension      string        `bson:"extension" json:"extension"`
	Category       FileCategory  `bson:"category" json:"category"`
	MimeType       string        `bson:"mime_type" json:"mime_type"`
	Path           string        `bson:"path" json:"path"`
	BlobKey        string        `bson:"blob_key" json:"blob_key"`
	Size           int64         `bson:"size" json:"size"`
	Checksum       string        `bson:"checksum" json:"checksum"`
	IsDeleted      bool          `bson:"is_deleted" json:"is_deleted"`
	LastModifiedBy string        `bson:"last_modified_by" json:"last_modified_by"`
	Version        int64         `bson:"version" json:"version"`
	Permissions    PermissionSet `bson:"permissions" json:"permissions"`
	Metadata       FileMetadata  `bson:"metadata" json:"metadata"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

type FileMetadata struct {
	Language  string `bson:"language,omitempty" json:"language,omitempty"`
	Encoding  string `bson:"encoding" json:"encoding"`
	LineCount int64  `bson:"line_count,omitempty" json:"line_count,omitempty"`
}

// FullName returns the file name with its extension restored.
func (f *File) FullName() string {
	if f.Extension == "" {
		return f.Name
	}

	return f.Name + "." + f.Extension
}

type FileContentUpdate struct {
	Size      int64
	Checksum  string
	LineCount int64
	ActorID   string
}

type FileLocationUpdate struct {
	Name      string
	Extension string
	Category  FileCategory
	MimeType  string
	Path      string
	BlobKey   string
	FolderID  string
	ActorID   string
}

type FileRepository interface {
	Insert(ctx context.Context, file *File) error
	GetLive(ctx context.Context, id string) (*File, error)
	Get(ctx context.Context, id string) (*File, error)
	ListByFolder(ctx context.Context, folderID string) ([]File, error)
	ListByPathPrefix(ctx context.Context, workspaceID, prefix string) ([]File, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]File, error)
	// UpdateContent bumps the version counter alongside the new size and
	// checksum; it is the only overwrite path.
	UpdateContent(ctx context.Context, id string, update FileContentUpdate) error
	UpdateLocation(ctx context.Context, id string, update FileLocationUpdate) error
	SetDeleted(ctx context.Context, id string, deleted bool, actorID string) error
	SetDeletedByPathPrefix(ctx context.Context, workspaceID, prefix string, deleted bool, actorID string) error
	SetDeletedByWorkspace(ctx context.Context, workspaceID string, deleted bool, actorID string) error
	ExistsLiveByBlobKey(ctx context.Context, blobKey string) (bool, error)
	ExistsLiveSibling(ctx context.Context, folderID, name, extension string) (bool, error)
}
