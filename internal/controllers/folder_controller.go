package controllers

import (
	"github.com/codenest/codenest/internal/domain"
	"github.com/codenest/codenest/internal/middlewares"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// FolderController handles folder hierarchy requests.
type FolderController struct {
	folderManager domain.FolderManager
}

type FolderControllerDependencies struct {
	FolderManager domain.FolderManager
}

func NewFolderController(deps FolderControllerDependencies) *FolderController {
	return &FolderController{
		folderManager: deps.FolderManager,
	}
}

type CreateFolderRequest struct {
	Name           string  `json:"name"`
	ParentFolderID *string `json:"parent_folder_id"`
}

func (c *FolderController) CreateFolder(ctx fiber.Ctx) error {
	var req CreateFolderRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	folder, err := c.folderManager.CreateFolder(ctx.RequestCtx(), domain.CreateFolderParams{
		WorkspaceID:    ctx.Params("workspaceID"),
		ParentFolderID: req.ParentFolderID,
		Name:           req.Name,
		ActorID:        middlewares.ActorID(ctx),
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(folder)
}

func (c *FolderController) ListFolders(ctx fiber.Ctx) error {
	var parentFolderID *string

	if parent := ctx.Query("parent_folder_id"); parent != "" {
		parentFolderID = &parent
	}

	folders, err := c.folderManager.ListFolders(ctx.RequestCtx(), ctx.Params("workspaceID"), parentFolderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"folders": folders,
	})
}

func (c *FolderController) GetFolder(ctx fiber.Ctx) error {
	folder, err := c.folderManager.GetFolder(ctx.RequestCtx(), ctx.Params("workspaceID"), ctx.Params("folderID"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(folder)
}

type RenameFolderRequest struct {
	Name string `json:"name"`
}

func (c *FolderController) RenameFolder(ctx fiber.Ctx) error {
	var req RenameFolderRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	folder, err := c.folderManager.RenameFolder(ctx.RequestCtx(), domain.RenameFolderParams{
		WorkspaceID: ctx.Params("workspaceID"),
		FolderID:    ctx.Params("folderID"),
		NewName:     req.Name,
		ActorID:     middlewares.ActorID(ctx),
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(folder)
}

type MoveFolderRequest struct {
	ParentFolderID *string `json:"parent_folder_id"`
}

func (c *FolderController) MoveFolder(ctx fiber.Ctx) error {
	var req MoveFolderRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	folder, err := c.folderManager.MoveFolder(ctx.RequestCtx(), domain.MoveFolderParams{
		WorkspaceID:       ctx.Params("workspaceID"),
		FolderID:          ctx.Params("folderID"),
		NewParentFolderID: req.ParentFolderID,
		ActorID:           middlewares.ActorID(ctx),
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(folder)
}

func (c *FolderController) DeleteFolder(ctx fiber.Ctx) error {
	err := c.folderManager.SoftDeleteFolder(ctx.RequestCtx(), ctx.Params("workspaceID"), ctx.Params("folderID"), middlewares.ActorID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *FolderController) RestoreFolder(ctx fiber.Ctx) error {
	workspaceID := ctx.Params("workspaceID")
	folderID := ctx.Params("folderID")

	if err := c.folderManager.RestoreFolder(ctx.RequestCtx(), workspaceID, folderID, middlewares.ActorID(ctx)); err != nil {
		return errorResponse(ctx, err)
	}

	folder, err := c.folderManager.GetFolder(ctx.RequestCtx(), workspaceID, folderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(folder)
}

func (c *FolderController) RepairFolderPaths(ctx fiber.Ctx) error {
	workspaceID := ctx.Params("workspaceID")

	repaired, err := c.folderManager.RepairFolderPaths(ctx.RequestCtx(), workspaceID, middlewares.ActorID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if repaired > 0 {
		log.Info().Msgf("Repaired %d hierarchy paths in workspace %s", repaired, workspaceID)
	}

	return ctx.JSON(fiber.Map{
		"repaired": repaired,
	})
}
