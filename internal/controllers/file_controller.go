package controllers

import (
	"github.com/codenest/codenest/internal/domain"
	"github.com/codenest/codenest/internal/middlewares"

	"github.com/gofiber/fiber/v3"
)

// FileController handles file content and placement requests.
type FileController struct {
	fileManager domain.FileManager
}

type FileControllerDependencies struct {
	FileManager domain.FileManager
}

func NewFileController(deps FileControllerDependencies) *FileController {
	return &FileController{
		fileManager: deps.FileManager,
	}
}

type UploadFileRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (c *FileController) UploadFile(ctx fiber.Ctx) error {
	var req UploadFileRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	file, err := c.fileManager.UploadFile(ctx.RequestCtx(), domain.UploadFileParams{
		WorkspaceID: ctx.Params("workspaceID"),
		FolderID:    ctx.Params("folderID"),
		FileName:    req.Name,
		Content:     []byte(req.Content),
		ActorID:     middlewares.ActorID(ctx),
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(file)
}

func (c *FileController) ListFiles(ctx fiber.Ctx) error {
	files, err := c.fileManager.ListFiles(ctx.RequestCtx(), ctx.Params("folderID"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"files": files,
	})
}

func (c *FileController) GetFileContent(ctx fiber.Ctx) error {
	result, err := c.fileManager.GetFileContent(ctx.RequestCtx(), ctx.Params("fileID"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"file":    result.File,
		"content": string(result.Content),
	})
}

type UpdateFileContentRequest struct {
	Content string `json:"content"`
}

func (c *FileController) UpdateFileContent(ctx fiber.Ctx) error {
	var req UpdateFileContentRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	file, err := c.fileManager.UpdateFileContent(ctx.RequestCtx(), domain.UpdateFileContentParams{
		FileID:  ctx.Params("fileID"),
		Content: []byte(req.Content),
		ActorID: middlewares.ActorID(ctx),
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(file)
}

type RenameFileRequest struct {
	Name string `json:"name"`
}

func (c *FileController) RenameFile(ctx fiber.Ctx) error {
	var req RenameFileRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	file, err := c.fileManager.RenameFile(ctx.RequestCtx(), domain.RenameFileParams{
		FileID:  ctx.Params("fileID"),
		NewName: req.Name,
		ActorID: middlewares.ActorID(ctx),
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(file)
}

type MoveFileRequest struct {
	FolderID string `json:"folder_id"`
}

func (c *FileController) MoveFile(ctx fiber.Ctx) error {
	var req MoveFileRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	file, err := c.fileManager.MoveFile(ctx.RequestCtx(), domain.MoveFileParams{
		FileID:      ctx.Params("fileID"),
		NewFolderID: req.FolderID,
		ActorID:     middlewares.ActorID(ctx),
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(file)
}

func (c *FileController) DeleteFile(ctx fiber.Ctx) error {
	err := c.fileManager.SoftDeleteFile(ctx.RequestCtx(), ctx.Params("fileID"), middlewares.ActorID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *FileController) RestoreFile(ctx fiber.Ctx) error {
	if err := c.fileManager.RestoreFile(ctx.RequestCtx(), ctx.Params("fileID"), middlewares.ActorID(ctx)); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
