package http

import (
	"strconv"

	"kolibra-order-service/src/internal/delivery/http/middleware"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/internal/usecase"
	httpError "kolibra-order-service/src/pkg/http-error"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderController struct {
	Log     log.Log
	UseCase *usecase.OrderUseCase
	Catalog *usecase.CatalogUseCase
}

func NewOrderController(useCase *usecase.OrderUseCase, catalog *usecase.CatalogUseCase, logger log.Log) *OrderController {
	return &OrderController{
		Log:     logger,
		UseCase: useCase,
		Catalog: catalog,
	}
}

func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.CreateOrder", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.Metadata.UserID

	result := c.UseCase.CreateOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Created", fiber.StatusCreated, ctx)
}

func (c *OrderController) GetOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	orderID, err := parseOrderID(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := &model.GetOrderRequest{
		UserID:  auth.Metadata.UserID,
		OrderID: orderID,
	}
	result := c.UseCase.GetOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Detail", fiber.StatusOK, ctx)
}

func (c *OrderController) ListOrders(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.ListOrdersRequest{
		UserID: auth.Metadata.UserID,
	}
	result := c.UseCase.ListOrders(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Orders", fiber.StatusOK, ctx)
}

func (c *OrderController) ApproveQuote(ctx *fiber.Ctx) error {
	return c.decideQuote(ctx, true)
}

func (c *OrderController) RejectQuote(ctx *fiber.Ctx) error {
	return c.decideQuote(ctx, false)
}

func (c *OrderController) decideQuote(ctx *fiber.Ctx, approve bool) error {
	auth := middleware.GetUser(ctx)

	orderID, err := parseOrderID(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := &model.QuoteDecisionRequest{
		UserID:  auth.Metadata.UserID,
		OrderID: orderID,
		Approve: approve,
	}
	result := c.UseCase.DecideQuote(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Quote Decision", fiber.StatusOK, ctx)
}

func (c *OrderController) RateOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	orderID, err := parseOrderID(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := new(model.RateOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.RateOrder", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.Metadata.UserID
	request.OrderID = orderID

	result := c.UseCase.RateOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Rated", fiber.StatusCreated, ctx)
}

func (c *OrderController) ListServices(ctx *fiber.Ctx) error {
	result := c.Catalog.ListServices(ctx.Context())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Services", fiber.StatusOK, ctx)
}

func parseOrderID(ctx *fiber.Ctx) (uint64, error) {
	orderID, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = "order id must be a positive integer"
		return 0, errObj
	}
	return orderID, nil
}
