package utils

import (
	httpError "kolibra-order-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

// Result is the envelope every usecase returns to its controller.
type Result struct {
	Data  interface{}
	Error error
}

type responseBody struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
	Type    string `json:"type,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(responseBody{
		Message: message,
		Data:    data,
	})
}

func ResponseError(err error, ctx *fiber.Ctx) error {
	if commonErr, ok := err.(*httpError.CommonError); ok {
		return ctx.Status(commonErr.Code).JSON(errorBody{
			Error:   commonErr.Message,
			Details: commonErr.Details,
			Code:    commonErr.CodeName,
			Type:    commonErr.Type,
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody{
		Error: err.Error(),
		Type:  "internal_server_error",
	})
}
