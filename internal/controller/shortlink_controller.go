package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"report-bot-be/pkg/shortlink"
)

type IShortlinkController interface {
	RegisterRoutes(r fiber.Router)
	View(ctx *fiber.Ctx) error
}

type shortlinkController struct {
	links *shortlink.Store
}

func NewShortlinkController(links *shortlink.Store) IShortlinkController {
	return &shortlinkController{links: links}
}

func (c *shortlinkController) RegisterRoutes(r fiber.Router) {
	r.Get("/view", c.View)
}

// View serves a meta-refresh page so chat apps show a stable short URL
// instead of the signed storage link.
func (c *shortlinkController) View(ctx *fiber.Ctx) error {
	key := ctx.Query("key")
	if key == "" {
		return fiber.NewError(fiber.StatusBadRequest, "key is required")
	}

	target, err := c.links.Resolve(ctx.Context(), key)
	if err != nil {
		return err
	}
	if target == "" {
		return fiber.NewError(fiber.StatusNotFound, "link expired or not found")
	}

	ctx.Set("Content-Type", fiber.MIMETextHTMLCharsetUTF8)
	return ctx.SendString(fmt.Sprintf(
		`<!DOCTYPE html><html><head><meta http-equiv="refresh" content="0;url=%s"></head><body>移動しています...</body></html>`,
		target,
	))
}
