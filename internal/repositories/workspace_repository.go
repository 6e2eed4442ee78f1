package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codenest/codenest/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type workspaceRepository struct {
	collection *mongo.Collection
}

type WorkspaceRepositoryDependencies struct {
	Database *mongo.Database
}

func NewWorkspaceRepository(ctx context.Context, deps WorkspaceRepositoryDependencies) (domain.WorkspaceRepository, error) {
	collection := deps.Database.Collection("workspaces")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "is_deleted", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "collaborators", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create workspace indexes: %w", err)
	}

	return &workspaceRepository{collection: collection}, nil
}

func (r *workspaceRepository) Insert(ctx context.Context, workspace *domain.Workspace) error {
	now := time.Now()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workspace); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: workspace %s", domain.ErrConflict, workspace.ID)
		}

		return fmt.Errorf("failed to insert workspace: %w", err)
	}

	return nil
}

func (r *workspaceRepository) GetLive(ctx context.Context, id string) (*domain.Workspace, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_deleted": false})
}

func (r *workspaceRepository) Get(ctx context.Context, id string) (*domain.Workspace, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *workspaceRepository) findOne(ctx context.Context, filter bson.M) (*domain.Workspace, error) {
	var workspace domain.Workspace

	err := r.collection.FindOne(ctx, filter).Decode(&workspace)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: workspace", domain.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return &workspace, nil
}

func (r *workspaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Workspace, error) {
	filter := bson.M{"owner_id": ownerID, "is_deleted": false}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	var workspaces []domain.Workspace
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to decode workspaces: %w", err)
	}

	return workspaces, nil
}

func (r *workspaceRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	update := bson.M{"$set": bson.M{"is_deleted": deleted, "updated_at": time.Now()}}

	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update workspace delete flag: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: workspace %s", domain.ErrNotFound, id)
	}

	return nil
}
