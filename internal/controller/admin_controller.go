package controller

import (
	"github.com/gofiber/fiber/v2"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/internal/pkg/serverutils"
	"report-bot-be/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
	GetEmployees(ctx *fiber.Ctx) error
	GetApprover(ctx *fiber.Ctx) error
	LinkSelection(ctx *fiber.Ctx) error
}

type adminController struct {
	directory service.IDirectoryService
	jwtSecret string
	logger    logger.ILogger
}

func NewAdminController(directory service.IDirectoryService, jwtSecret string, log logger.ILogger) IAdminController {
	return &adminController{
		directory: directory,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("/logs", c.GetLogs)
	h.Get("/employees", c.GetEmployees)
	h.Get("/approvers/:user_id", c.GetApprover)
	h.Post("/link-selection", c.LinkSelection)
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level", "")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	entries, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Logs retrieved", entries))
}

func (c *adminController) GetEmployees(ctx *fiber.Ctx) error {
	employees, err := c.directory.ListEmployees(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Employees retrieved", employees))
}

func (c *adminController) GetApprover(ctx *fiber.Ctx) error {
	userID := ctx.Params("user_id")
	if userID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id is required")
	}

	approver, err := c.directory.GetApprover(ctx.Context(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Approver retrieved", approver))
}

func (c *adminController) LinkSelection(ctx *fiber.Ctx) error {
	var req dto.LinkSelectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.directory.LinkSelection(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Selection linked", nil))
}
