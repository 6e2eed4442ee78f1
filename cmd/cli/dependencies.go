package cli

import (
	"context"

	"github.com/codenest/codenest/internal/blob"
	"github.com/codenest/codenest/internal/controllers"
	"github.com/codenest/codenest/internal/domain"
	"github.com/codenest/codenest/internal/managers"
	"github.com/codenest/codenest/internal/repositories"

	"github.com/rs/zerolog/log"
)

// ServiceDependencies contains the wired-up service graph.
type ServiceDependencies struct {
	WorkspaceManager domain.WorkspaceManager
	FolderManager    domain.FolderManager
	FileManager      domain.FileManager

	WorkspaceController *controllers.WorkspaceController
	FolderController    *controllers.FolderController
	FileController      *controllers.FileController
}

// BuildServiceDependencies connects the two stores and wires repositories,
// managers and controllers.
func BuildServiceDependencies(ctx context.Context, config *Config) (*ServiceDependencies, error) {
	log.Info().Msg("Building service dependencies")

	mongoClient, err := repositories.ConnectMongo(ctx, config.MongoURI)
	if err != nil {
		return nil, err
	}

	database := mongoClient.Database(config.MongoDatabase)

	workspaceRepository, err := repositories.NewWorkspaceRepository(ctx, repositories.WorkspaceRepositoryDependencies{
		Database: database,
	})
	if err != nil {
		return nil, err
	}

	folderRepository, err := repositories.NewFolderRepository(ctx, repositories.FolderRepositoryDependencies{
		Database: database,
	})
	if err != nil {
		return nil, err
	}

	fileRepository, err := repositories.NewFileRepository(ctx, repositories.FileRepositoryDependencies{
		Database: database,
	})
	if err != nil {
		return nil, err
	}

	blobStore, err := blob.NewS3Store(blob.S3StoreDependencies{
		Endpoint:        config.BlobEndpoint,
		Region:          config.BlobRegion,
		AccessKeyID:     config.BlobAccessKey,
		SecretAccessKey: config.BlobSecretKey,
		Bucket:          config.BlobBucket,
	})
	if err != nil {
		return nil, err
	}

	workspaceManager := managers.NewWorkspaceManager(managers.WorkspaceManagerDependencies{
		WorkspaceRepository: workspaceRepository,
		FolderRepository:    folderRepository,
		FileRepository:      fileRepository,
		BlobStore:           blobStore,
	})

	folderManager := managers.NewFolderManager(managers.FolderManagerDependencies{
		WorkspaceRepository: workspaceRepository,
		FolderRepository:    folderRepository,
		FileRepository:      fileRepository,
		BlobStore:           blobStore,
	})

	fileManager := managers.NewFileManager(managers.FileManagerDependencies{
		WorkspaceRepository: workspaceRepository,
		FolderRepository:    folderRepository,
		FileRepository:      fileRepository,
		BlobStore:           blobStore,
	})

	return &ServiceDependencies{
		WorkspaceManager: workspaceManager,
		FolderManager:    folderManager,
		FileManager:      fileManager,
		WorkspaceController: controllers.NewWorkspaceController(controllers.WorkspaceControllerDependencies{
			WorkspaceManager: workspaceManager,
		}),
		FolderController: controllers.NewFolderController(controllers.FolderControllerDependencies{
			FolderManager: folderManager,
		}),
		FileController: controllers.NewFileController(controllers.FileControllerDependencies{
			FileManager: fileManager,
		}),
	}, nil
}
