package serverutils

import "github.com/gofiber/fiber/v2"

type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{Message: message, Data: data}
}

// ErrorHandlerMiddleware converts any error escaping a controller into a
// JSON 500 so a failure never drops the HTTP response.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
			}
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
		}
		return nil
	}
}
