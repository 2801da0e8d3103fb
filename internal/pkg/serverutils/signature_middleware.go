package serverutils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
)

// SignatureMiddleware validates the chat platform webhook signature: the
// request body HMAC-SHA256 signed with the channel secret, base64 encoded,
// must match the X-Line-Signature header.
func SignatureMiddleware(channelSecret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get("X-Line-Signature")
		if header == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing signature"})
		}

		mac := hmac.New(sha256.New, []byte(channelSecret))
		mac.Write(ctx.Body())
		expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(expected), []byte(header)) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid signature"})
		}
		return ctx.Next()
	}
}
