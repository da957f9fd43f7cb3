package controller

import (
	"ai-videotutor-be/internal/dto"
	"ai-videotutor-be/internal/pkg/serverutils"
	"ai-videotutor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITutorController interface {
	RegisterRoutes(r fiber.Router)
	CreateConversation(ctx *fiber.Ctx) error
	GetAllConversations(ctx *fiber.Ctx) error
	GetExchangeHistory(ctx *fiber.Ctx) error
	AppendChunk(ctx *fiber.Ctx) error
	CompleteTurn(ctx *fiber.Ctx) error
	GetDrawer(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
}

type tutorController struct {
	conversationService service.IConversationService
}

func NewTutorController(conversationService service.IConversationService) ITutorController {
	return &tutorController{
		conversationService: conversationService,
	}
}

func (c *tutorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tutor/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/conversations", c.CreateConversation)
	h.Get("/conversations", c.GetAllConversations)
	h.Get("/conversations/:id/history", c.GetExchangeHistory)
	h.Get("/conversations/:id/drawer", c.GetDrawer)
	h.Delete("/conversations/:id/history", c.ClearHistory)
	h.Delete("/conversations/:id", c.DeleteConversation)
	h.Post("/stream/chunk", c.AppendChunk)
	h.Post("/stream/complete", c.CompleteTurn)
}

func (c *tutorController) CreateConversation(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.CreateConversation(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create conversation", res))
}

func (c *tutorController) GetAllConversations(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.conversationService.GetAllConversations(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *tutorController) GetExchangeHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	res, err := c.conversationService.GetExchangeHistory(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *tutorController) AppendChunk(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.AppendChunkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.AppendChunk(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success append chunk", res))
}

func (c *tutorController) CompleteTurn(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CompleteTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.CompleteTurn(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success complete turn", res))
}

func (c *tutorController) GetDrawer(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	res, err := c.conversationService.GetDrawer(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get drawer", res))
}

func (c *tutorController) ClearHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	if err := c.conversationService.ClearHistory(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear history", nil))
}

func (c *tutorController) DeleteConversation(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid conversation id")
	}

	req := dto.DeleteConversationRequest{ConversationId: id}
	if err := c.conversationService.DeleteConversation(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete conversation", nil))
}
