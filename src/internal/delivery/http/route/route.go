package route

import (
	"kolibra-order-service/src/internal/delivery/http"
	"kolibra-order-service/src/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App               *fiber.App
	OrderController   *http.OrderController
	PaymentController *http.PaymentController
	WebhookController *http.WebhookController
	AdminController   *http.AdminController
	AuthMiddleware    fiber.Handler
	AdminMiddleware   fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupPublicRoute()
	c.SetupAuthRoute()
	c.SetupAdminRoute()
}

func (c *RouteConfig) SetupPublicRoute() {
	c.App.Get("/services/v1", c.OrderController.ListServices)
	c.App.Post("/webhooks/v1/stripe", c.WebhookController.HandleStripe)
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)
	c.App.Post("/orders/v1", c.OrderController.CreateOrder)
	c.App.Get("/orders/v1", c.OrderController.ListOrders)
	c.App.Get("/orders/v1/:id", c.OrderController.GetOrder)
	c.App.Post("/orders/v1/:id/quote/approve", c.OrderController.ApproveQuote)
	c.App.Post("/orders/v1/:id/quote/reject", c.OrderController.RejectQuote)
	c.App.Post("/orders/v1/:id/rating", c.OrderController.RateOrder)
	c.App.Post("/payments/v1/intent", c.PaymentController.CreateIntent)
}

func (c *RouteConfig) SetupAdminRoute() {
	admin := c.App.Group("/admin/v1", c.AdminMiddleware)
	admin.Get("/orders", c.AdminController.ListOrders)
	admin.Post("/orders/:id/quote", c.AdminController.QuoteOrder)
	admin.Post("/orders/:id/accept", c.AdminController.AcceptOrder)
	admin.Post("/orders/:id/finalize", c.AdminController.FinalizeOrder)
	admin.Post("/orders/:id/cancel", c.AdminController.CancelOrder)
	admin.Post("/orders/:id/budget", c.AdminController.UpdateBudget)
	admin.Post("/orders/:id/payments/manual", c.AdminController.RecordManualPayment)
	admin.Delete("/orders/:id", c.AdminController.DeleteOrder)
	admin.Post("/installments/sweep", c.AdminController.SweepInstallments)
	admin.Post("/services", c.AdminController.CreateService)
	admin.Put("/services/:id", c.AdminController.UpdateService)
}
