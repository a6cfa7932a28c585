package http

import (
	"kolibra-order-service/src/internal/delivery/http/middleware"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/internal/usecase"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	Log     log.Log
	UseCase *usecase.PaymentUseCase
}

func NewPaymentController(useCase *usecase.PaymentUseCase, logger log.Log) *PaymentController {
	return &PaymentController{
		Log:     logger,
		UseCase: useCase,
	}
}

// CreateIntent returns the processor client secret the browser uses to
// collect the payment for the order's current phase.
func (c *PaymentController) CreateIntent(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateIntentRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("PaymentController.CreateIntent", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.Metadata.UserID

	result := c.UseCase.CreateIntent(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payment Intent", fiber.StatusOK, ctx)
}
