package domain

import (
	"context"
	"time"
)

// Workspace is the root of a file hierarchy. Its id feeds the blob store
// prefix, so it is immutable after creation.
type Workspace struct {
	ID            string            `bson:"_id" json:"id"`
	Name          string            `bson:"name" json:"name"`
	Description   string            `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID       string            `bson:"owner_id" json:"owner_id"`
	BlobPrefix    string            `bson:"blob_prefix" json:"blob_prefix"`
	IsPublic      bool              `bson:"is_public" json:"is_public"`
	IsDeleted     bool              `bson:"is_deleted" json:"is_deleted"`
	Collaborators []string          `bson:"collaborators" json:"collaborators"`
	Settings      WorkspaceSettings `bson:"settings" json:"settings"`
	CreatedAt     time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `bson:"updated_at" json:"updated_at"`
}

type WorkspaceSettings struct {
	DefaultLanguage string `bson:"default_language" json:"default_language"`
	Theme           string `bson:"theme" json:"theme"`
}

// CanWrite reports whether the user owns or collaborates on the workspace.
func (w *Workspace) CanWrite(userID string) bool {
	if w.OwnerID == userID {
		return true
	}

	for _, id := range w.Collaborators {
		if id == userID {
			return true
		}
	}

	return false
}

type WorkspaceRepository interface {
	Insert(ctx context.Context, workspace *Workspace) error
	GetLive(ctx context.Context, id string) (*Workspace, error)
	Get(ctx context.Context, id string) (*Workspace, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Workspace, error)
	SetDeleted(ctx context.Context, id string, deleted bool) error
}
