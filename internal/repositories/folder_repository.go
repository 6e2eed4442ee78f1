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

type folderRepository struct {
	collection *mongo.Collection
}

type FolderRepositoryDependencies struct {
	Database *mongo.Database
}

func NewFolderRepository(ctx context.Context, deps FolderRepositoryDependencies) (domain.FolderRepository, error) {
	collection := deps.Database.Collection("folders")

	indexes := []mongo.IndexModel{
		{
			// Sibling-name uniqueness among live folders. Racing creates of
			// the same name resolve here: one insert wins, the loser gets a
			// duplicate-key error surfaced as ErrConflict.
			Keys: bson.D{
				{Key: "workspace_id", Value: 1},
				{Key: "parent_folder_id", Value: 1},
				{Key: "name", Value: 1},
			},
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
				{Key: "parent_folder_id", Value: 1},
				{Key: "is_deleted", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create folder indexes: %w", err)
	}

	return &folderRepository{collection: collection}, nil
}

func (r *folderRepository) Insert(ctx context.Context, folder *domain.Folder) error {
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, folder); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: folder %s", domain.ErrConflict, folder.Name)
		}

		return fmt.Errorf("failed to insert folder: %w", err)
	}

	return nil
}

func (r *folderRepository) GetLive(ctx context.Context, workspaceID, id string) (*domain.Folder, error) {
	return r.findOne(ctx, bson.M{"_id": id, "workspace_id": workspaceID, "is_deleted": false})
}

func (r *folderRepository) Get(ctx context.Context, id string) (*domain.Folder, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *folderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Folder, error) {
	var folder domain.Folder

	err := r.collection.FindOne(ctx, filter).Decode(&folder)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: folder", domain.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	return &folder, nil
}

func (r *folderRepository) ListChildren(ctx context.Context, workspaceID string, parentFolderID *string) ([]domain.Folder, error) {
	filter := bson.M{
		"workspace_id": workspaceID,
		"is_deleted":   false,
	}

	if parentFolderID != nil {
		filter["parent_folder_id"] = *parentFolderID
	} else {
		filter["parent_folder_id"] = nil
	}

	return r.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *folderRepository) ListByPathPrefix(ctx context.Context, workspaceID, prefix string) ([]domain.Folder, error) {
	filter := bson.M{
		"workspace_id": workspaceID,
		"is_deleted":   false,
		"path":         bson.M{"$regex": "^" + regexp.QuoteMeta(prefix+"/")},
	}

	return r.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "path", Value: 1}}))
}

func (r *folderRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Folder, error) {
	filter := bson.M{"workspace_id": workspaceID, "is_deleted": false}

	return r.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "path", Value: 1}}))
}

func (r *folderRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Folder, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	var folders []domain.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders: %w", err)
	}

	return folders, nil
}

func (r *folderRepository) UpdatePath(ctx context.Context, id, name, path string, actorID string) error {
	update := bson.M{"$set": bson.M{
		"name":             name,
		"path":             path,
		"last_modified_by": actorID,
		"updated_at":       time.Now(),
	}}

	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: folder %s", domain.ErrConflict, name)
		}

		return fmt.Errorf("failed to update folder path: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: folder %s", domain.ErrNotFound, id)
	}

	return nil
}

func (r *folderRepository) Relocate(ctx context.Context, id, name, path string, parentFolderID *string, actorID string) error {
	update := bson.M{"$set": bson.M{
		"name":             name,
		"path":             path,
		"parent_folder_id": parentFolderID,
		"last_modified_by": actorID,
		"updated_at":       time.Now(),
	}}

	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: folder %s", domain.ErrConflict, name)
		}

		return fmt.Errorf("failed to relocate folder: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: folder %s", domain.ErrNotFound, id)
	}

	return nil
}

func (r *folderRepository) SetDeleted(ctx context.Context, id string, deleted bool, actorID string) error {
	update := bson.M{"$set": bson.M{
		"is_deleted":       deleted,
		"last_modified_by": actorID,
		"updated_at":       time.Now(),
	}}

	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		// Clearing the flag re-enters the partial unique index; a live
		// sibling that took the name in the meantime makes this a Conflict.
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: folder %s", domain.ErrConflict, id)
		}

		return fmt.Errorf("failed to update folder delete flag: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: folder %s", domain.ErrNotFound, id)
	}

	return nil
}

func (r *folderRepository) SetDeletedByPathPrefix(ctx context.Context, workspaceID, prefix string, deleted bool, actorID string) error {
	filter := bson.M{
		"workspace_id": workspaceID,
		"path":         bson.M{"$regex": "^" + regexp.QuoteMeta(prefix+"/")},
	}

	return r.setDeletedMany(ctx, filter, deleted, actorID)
}

func (r *folderRepository) SetDeletedByWorkspace(ctx context.Context, workspaceID string, deleted bool, actorID string) error {
	return r.setDeletedMany(ctx, bson.M{"workspace_id": workspaceID}, deleted, actorID)
}

func (r *folderRepository) setDeletedMany(ctx context.Context, filter bson.M, deleted bool, actorID string) error {
	update := bson.M{"$set": bson.M{
		"is_deleted":       deleted,
		"last_modified_by": actorID,
		"updated_at":       time.Now(),
	}}

	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to cascade folder delete flag: %w", err)
	}

	return nil
}
