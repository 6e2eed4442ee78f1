package server

import (
	"context"
	"time"

	"github.com/codenest/codenest/internal/controllers"
	"github.com/codenest/codenest/internal/middlewares"
	"github.com/codenest/codenest/internal/version"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type HTTPServerDependencies struct {
	WorkspaceController *controllers.WorkspaceController
	FolderController    *controllers.FolderController
	FileController      *controllers.FileController
}

func NewHTTPServer(ctx context.Context, deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName: "codenest",
	})

	router.Use(cors.New())
	router.Use(logger.New())

	// Health check endpoint (no actor identity required)
	router.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"service":   "codenest",
			"version":   version.GetVersion(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	workspaces := router.Group("/workspaces")
	workspaces.Use(middlewares.ActorIdentityMiddleware())

	workspaces.Post("/", deps.WorkspaceController.CreateWorkspace)
	workspaces.Get("/", deps.WorkspaceController.ListWorkspaces)
	workspaces.Get("/:workspaceID", deps.WorkspaceController.GetWorkspace)
	workspaces.Delete("/:workspaceID", deps.WorkspaceController.DeleteWorkspace)
	workspaces.Post("/:workspaceID/restore", deps.WorkspaceController.RestoreWorkspace)
	workspaces.Post("/:workspaceID/sweep", deps.WorkspaceController.SweepOrphanedBlobs)

	workspaces.Post("/:workspaceID/folders", deps.FolderController.CreateFolder)
	workspaces.Get("/:workspaceID/folders", deps.FolderController.ListFolders)
	workspaces.Get("/:workspaceID/folders/:folderID", deps.FolderController.GetFolder)
	workspaces.Patch("/:workspaceID/folders/:folderID/rename", deps.FolderController.RenameFolder)
	workspaces.Patch("/:workspaceID/folders/:folderID/move", deps.FolderController.MoveFolder)
	workspaces.Delete("/:workspaceID/folders/:folderID", deps.FolderController.DeleteFolder)
	workspaces.Post("/:workspaceID/folders/:folderID/restore", deps.FolderController.RestoreFolder)
	workspaces.Post("/:workspaceID/repair-paths", deps.FolderController.RepairFolderPaths)

	workspaces.Post("/:workspaceID/folders/:folderID/files", deps.FileController.UploadFile)
	workspaces.Get("/:workspaceID/folders/:folderID/files", deps.FileController.ListFiles)

	files := router.Group("/files")
	files.Use(middlewares.ActorIdentityMiddleware())

	files.Get("/:fileID/content", deps.FileController.GetFileContent)
	files.Put("/:fileID/content", deps.FileController.UpdateFileContent)
	files.Patch("/:fileID/rename", deps.FileController.RenameFile)
	files.Patch("/:fileID/move", deps.FileController.MoveFile)
	files.Delete("/:fileID", deps.FileController.DeleteFile)
	files.Post("/:fileID/restore", deps.FileController.RestoreFile)

	return router
}
