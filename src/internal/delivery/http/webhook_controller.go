package http

import (
	"kolibra-order-service/src/internal/usecase"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type WebhookController struct {
	Log     log.Log
	UseCase *usecase.WebhookUseCase
}

func NewWebhookController(useCase *usecase.WebhookUseCase, logger log.Log) *WebhookController {
	return &WebhookController{
		Log:     logger,
		UseCase: useCase,
	}
}

// HandleStripe receives the processor's signed payment-result callback. The
// raw body goes to the usecase untouched; signature verification needs the
// exact bytes.
func (c *WebhookController) HandleStripe(ctx *fiber.Ctx) error {
	signature := ctx.Get("Stripe-Signature")
	payload := ctx.Body()

	result := c.UseCase.HandleProcessorEvent(ctx.Context(), payload, signature)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Webhook Processed", fiber.StatusOK, ctx)
}
