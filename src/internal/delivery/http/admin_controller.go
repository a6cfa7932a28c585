package http

import (
	"strconv"

	"kolibra-order-service/src/internal/delivery/http/middleware"
	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/internal/usecase"
	"kolibra-order-service/src/pkg/log"
	"kolibra-order-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminController struct {
	Log      log.Log
	UseCase  *usecase.AdminUseCase
	Payments *usecase.PaymentUseCase
	Catalog  *usecase.CatalogUseCase
}

func NewAdminController(useCase *usecase.AdminUseCase, payments *usecase.PaymentUseCase, catalog *usecase.CatalogUseCase, logger log.Log) *AdminController {
	return &AdminController{
		Log:      logger,
		UseCase:  useCase,
		Payments: payments,
		Catalog:  catalog,
	}
}

func (c *AdminController) ListOrders(ctx *fiber.Ctx) error {
	request := &model.ListAllOrdersRequest{
		Status: ctx.Query("status"),
	}
	result := c.UseCase.ListOrders(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Orders", fiber.StatusOK, ctx)
}

func (c *AdminController) QuoteOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	orderID, err := parseOrderID(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := new(model.QuoteOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.QuoteOrder", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.OrderID = orderID
	request.Actor = auth.Metadata.UserID

	result := c.UseCase.QuoteOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Quoted", fiber.StatusOK, ctx)
}

func (c *AdminController) AcceptOrder(ctx *fiber.Ctx) error {
	return c.transition(ctx, entity.EventAccept)
}

func (c *AdminController) FinalizeOrder(ctx *fiber.Ctx) error {
	return c.transition(ctx, entity.EventFinalize)
}

func (c *AdminController) CancelOrder(ctx *fiber.Ctx) error {
	return c.transition(ctx, entity.EventCancel)
}

func (c *AdminController) transition(ctx *fiber.Ctx, event entity.OrderEvent) error {
	auth := middleware.GetUser(ctx)

	orderID, err := parseOrderID(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := &model.TransitionOrderRequest{
		OrderID: orderID,
		Actor:   auth.Metadata.UserID,
		Event:   event,
	}
	result := c.UseCase.TransitionOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Transitioned", fiber.StatusOK, ctx)
}

func (c *AdminController) UpdateBudget(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	orderID, err := parseOrderID(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := new(model.UpdateBudgetRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.UpdateBudget", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.OrderID = orderID
	request.Actor = auth.Metadata.UserID

	result := c.UseCase.UpdateBudget(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Budget Updated", fiber.StatusOK, ctx)
}

func (c *AdminController) RecordManualPayment(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	orderID, err := parseOrderID(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := new(model.ManualPaymentRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.RecordManualPayment", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.OrderID = orderID
	request.Actor = auth.Metadata.UserID

	result := c.Payments.RecordManualPayment(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Manual Payment Recorded", fiber.StatusCreated, ctx)
}

func (c *AdminController) DeleteOrder(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	orderID, err := parseOrderID(ctx)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := &model.DeleteOrderRequest{
		OrderID: orderID,
		Actor:   auth.Metadata.UserID,
	}
	result := c.UseCase.DeleteOrder(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order Deleted", fiber.StatusOK, ctx)
}

func (c *AdminController) SweepInstallments(ctx *fiber.Ctx) error {
	result := c.UseCase.SweepInstallments(ctx.Context())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Sweep Enqueued", fiber.StatusAccepted, ctx)
}

func (c *AdminController) CreateService(ctx *fiber.Ctx) error {
	request := new(model.UpsertServiceRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.CreateService", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}

	result := c.Catalog.UpsertService(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Service Created", fiber.StatusCreated, ctx)
}

func (c *AdminController) UpdateService(ctx *fiber.Ctx) error {
	serviceID, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	request := new(model.UpsertServiceRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("AdminController.UpdateService", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.ID = serviceID

	result := c.Catalog.UpsertService(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Service Updated", fiber.StatusOK, ctx)
}
