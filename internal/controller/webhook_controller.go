package controller

import (
	"github.com/gofiber/fiber/v2"

	"report-bot-be/internal/dto"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/internal/pkg/serverutils"
	"report-bot-be/internal/service"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Receive(ctx *fiber.Ctx) error
}

type webhookController struct {
	bot           service.IBotService
	channelSecret string
	logger        logger.ILogger
}

func NewWebhookController(bot service.IBotService, channelSecret string, log logger.ILogger) IWebhookController {
	return &webhookController{
		bot:           bot,
		channelSecret: channelSecret,
		logger:        log,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/webhook", serverutils.SignatureMiddleware(c.channelSecret), c.Receive)
}

// Receive processes every event in the batch and always answers 200, the
// platform retries on anything else and the bot replies in-band anyway.
func (c *webhookController) Receive(ctx *fiber.Ctx) error {
	var req dto.WebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		c.logger.Warn("WebhookController", "Malformed webhook body", map[string]interface{}{
			"error": err.Error(),
		})
		return ctx.SendStatus(fiber.StatusOK)
	}

	for _, ev := range req.Events {
		c.bot.HandleEvent(ctx.Context(), ev)
	}
	return ctx.SendStatus(fiber.StatusOK)
}
