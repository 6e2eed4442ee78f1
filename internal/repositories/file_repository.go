package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/codenest/codenest/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fileRepository struct {
	collection *mongo.Collection
}

type FileRepositoryDependencies struct {
	Database *mongo.Database
}

func NewFileRepository(ctx context.Context, deps FileRepositoryDependencies) (domain.FileRepository, error) {
	collection := deps.Database.Collection("files")

	indexes := []mongo.IndexModel{
		{
			// Sibling-name uniqueness among live files. A second create of
			// the same name is a Conflict, never an overwrite.
			Keys: bson.D{
				{Key: "folder_id", Value: 1},
				{Key: "name", Value: 1},
				{Key: "extension", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_deleted": false}),
		},
		{
			// No two live file records may share a blob object.
			Keys: bson.D{{Key: "blob_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_deleted": false}),
		},
		{
			Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "path", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "workspace_id", Value: 1},
				{Key: "folder_id", Value: 1},
				{Key: "is_deleted", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create file indexes: %w", err)
	}

	return &fileRepository{collection: collection}, nil
}

func (r *fileRepository) Insert(ctx context.Context, file *domain.File) error {
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, file); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: file %s", domain.ErrConflict, file.FullName())
		}

		return fmt.Errorf("failed to insert file: %w", err)
	}

	return nil
}

func (r *fileRepository) GetLive(ctx context.Context, id string) (*domain.File, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_deleted": false})
}

func (r *fileRepository) Get(ctx context.Context, id string) (*domain.File, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *fileRepository) findOne(ctx context.Context, filter bson.M) (*domain.File, error) {
	var file domain.File

	err := r.collection.FindOne(ctx, filter).Decode(&file)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: file", domain.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

func (r *fileRepository) ListByFolder(ctx context.Context, folderID string) ([]domain.File, error) {
	filter := bson.M{"folder_id": folderID, "is_deleted": false}

	return r.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *fileRepository) ListByPathPrefix(ctx context.Context, workspaceID, prefix string) ([]domain.File, error) {
	filter := bson.M{
		"workspace_id": workspaceID,
		"is_deleted":   false,
		"path":         bson.M{"$regex": "^" + regexp.QuoteMeta(prefix+"/")},
	}

	return r.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "path", Value: 1}}))
}

func (r *fileRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.File, error) {
	filter := bson.M{"workspace_id": workspaceID, "is_deleted": false}

	return r.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "path", Value: 1}}))
}

func (r *fileRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.File, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []domain.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}

	return files, nil
}

func (r *fileRepository) UpdateContent(ctx context.Context, id string, update domain.FileContentUpdate) error {
	change := bson.M{
		"$set": bson.M{
			"size":                update.Size,
			"checksum":            update.Checksum,
			"metadata.line_count": update.LineCount,
			"last_modified_by":    update.ActorID,
			"updated_at":          time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "is_deleted": false}, change)
	if err != nil {
		return fmt.Errorf("failed to update file content metadata: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}

	return nil
}

func (r *fileRepository) UpdateLocation(ctx context.Context, id string, update domain.FileLocationUpdate) error {
	change := bson.M{"$set": bson.M{
		"name":             update.Name,
		"extension":        update.Extension,
		"category":         update.Category,
		"mime_type":        update.MimeType,
		"path":             update.Path,
		"blob_key":         update.BlobKey,
		"folder_id":        update.FolderID,
		"last_modified_by": update.ActorID,
		"updated_at":       time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "is_deleted": false}, change)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: file %s", domain.ErrConflict, update.Name)
		}

		return fmt.Errorf("failed to update file location: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}

	return nil
}

func (r *fileRepository) SetDeleted(ctx context.Context, id string, deleted bool, actorID string) error {
	update := bson.M{"$set": bson.M{
		"is_deleted":       deleted,
		"last_modified_by": actorID,
		"updated_at":       time.Now(),
	}}

	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		// Clearing the flag re-enters the partial unique indexes; a live
		// sibling that took the name in the meantime makes this a Conflict.
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: file %s", domain.ErrConflict, id)
		}

		return fmt.Errorf("failed to update file delete flag: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: file %s", domain.ErrNotFound, id)
	}

	return nil
}

func (r *fileRepository) SetDeletedByPathPrefix(ctx context.Context, workspaceID, prefix string, deleted bool, actorID string) error {
	filter := bson.M{
		"workspace_id": workspaceID,
		"path":         bson.M{"$regex": "^" + regexp.QuoteMeta(prefix+"/")},
	}

	return r.setDeletedMany(ctx, filter, deleted, actorID)
}

func (r *fileRepository) SetDeletedByWorkspace(ctx context.Context, workspaceID string, deleted bool, actorID string) error {
	return r.setDeletedMany(ctx, bson.M{"workspace_id": workspaceID}, deleted, actorID)
}

func (r *fileRepository) setDeletedMany(ctx context.Context, filter bson.M, deleted bool, actorID string) error {
	update := bson.M{"$set": bson.M{
		"is_deleted":       deleted,
		"last_modified_by": actorID,
		"updated_at":       time.Now(),
	}}

	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to cascade file delete flag: %w", err)
	}

	return nil
}

func (r *fileRepository) ExistsLiveByBlobKey(ctx context.Context, blobKey string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"blob_key": blobKey, "is_deleted": false}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count files by blob key: %w", err)
	}

	return count > 0, nil
}

func (r *fileRepository) ExistsLiveSibling(ctx context.Context, folderID, name, extension string) (bool, error) {
	filter := bson.M{
		"folder_id":  folderID,
		"name":       name,
		"extension":  extension,
		"is_deleted": false,
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count sibling files: %w", err)
	}

	return count > 0, nil
}
