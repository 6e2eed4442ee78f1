package controllers

import (
	"time"

	"github.com/codenest/codenest/internal/domain"
	"github.com/codenest/codenest/internal/middlewares"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// WorkspaceController handles workspace lifecycle requests.
type WorkspaceController struct {
	workspaceManager domain.WorkspaceManager
}

type WorkspaceControllerDependencies struct {
	WorkspaceManager domain.WorkspaceManager
}

func NewWorkspaceController(deps WorkspaceControllerDependencies) *WorkspaceController {
	return &WorkspaceController{
		workspaceManager: deps.WorkspaceManager,
	}
}

type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

func (c *WorkspaceController) CreateWorkspace(ctx fiber.Ctx) error {
	var req CreateWorkspaceRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	actorID := middlewares.ActorID(ctx)

	workspace, err := c.workspaceManager.CreateWorkspace(ctx.RequestCtx(), domain.CreateWorkspaceParams{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     actorID,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	log.Info().Msgf("Created workspace %s for %s", workspace.ID, actorID)

	return ctx.Status(fiber.StatusCreated).JSON(workspace)
}

func (c *WorkspaceController) ListWorkspaces(ctx fiber.Ctx) error {
	workspaces, err := c.workspaceManager.ListWorkspaces(ctx.RequestCtx(), middlewares.ActorID(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"workspaces": workspaces,
	})
}

func (c *WorkspaceController) GetWorkspace(ctx fiber.Ctx) error {
	workspace, err := c.workspaceManager.GetWorkspace(ctx.RequestCtx(), ctx.Params("workspaceID"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(workspace)
}

func (c *WorkspaceController) DeleteWorkspace(ctx fiber.Ctx) error {
	workspaceID := ctx.Params("workspaceID")
	actorID := middlewares.ActorID(ctx)

	if err := c.workspaceManager.SoftDeleteWorkspace(ctx.RequestCtx(), workspaceID, actorID); err != nil {
		return errorResponse(ctx, err)
	}

	log.Info().Msgf("Workspace %s deleted by %s", workspaceID, actorID)

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *WorkspaceController) RestoreWorkspace(ctx fiber.Ctx) error {
	workspaceID := ctx.Params("workspaceID")

	if err := c.workspaceManager.RestoreWorkspace(ctx.RequestCtx(), workspaceID, middlewares.ActorID(ctx)); err != nil {
		return errorResponse(ctx, err)
	}

	workspace, err := c.workspaceManager.GetWorkspace(ctx.RequestCtx(), workspaceID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(workspace)
}

type SweepRequest struct {
	GracePeriodSeconds int `json:"grace_period_seconds"`
}

func (c *WorkspaceController) SweepOrphanedBlobs(ctx fiber.Ctx) error {
	var req SweepRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := c.workspaceManager.SweepOrphanedBlobs(ctx.RequestCtx(), domain.SweepOrphanedBlobsParams{
		WorkspaceID: ctx.Params("workspaceID"),
		GracePeriod: time.Duration(req.GracePeriodSeconds) * time.Second,
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"scanned": result.Scanned,
		"deleted": result.Deleted,
		"failed":  result.Failed,
	})
}
