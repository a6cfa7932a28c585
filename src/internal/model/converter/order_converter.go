package converter

import (
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"

	"github.com/google/uuid"
)

func OrderToResponse(order *entity.Order, payments []entity.Payment) *model.OrderResponse {
	resp := &model.OrderResponse{
		ID:                   order.ID,
		UserID:               order.UserID,
		Status:               string(order.Status),
		TotalPrice:           order.TotalPrice,
		InitialPaymentAmount: order.InitialPaymentAmount,
		FinalPaymentAmount:   order.FinalPaymentAmount,
		BudgetStatus:         order.BudgetStatus,
		AdminNotes:           order.AdminNotes,
		DiscountAmount:       order.DiscountAmount,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}

	// a corrupt plan blob should not make the whole order unreadable
	if plan, err := order.Plan(); err == nil {
		resp.PaymentPlan = plan
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, model.OrderItemResponse{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, *PaymentToResponse(&p))
	}
	return resp
}

func PaymentToResponse(payment *entity.Payment) *model.PaymentResponse {
	return &model.PaymentResponse{
		ID:          payment.ID,
		OrderID:     payment.OrderID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		PaymentType: payment.PaymentType,
		Status:      payment.Status,
		Reference:   payment.StripePaymentIntentID,
		CreatedAt:   payment.CreatedAt,
	}
}

func ServiceToResponse(svc *entity.ServiceOffering) *model.ServiceResponse {
	return &model.ServiceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		BasePrice:   svc.BasePrice,
		Active:      svc.Active,
	}
}

func StatusChangeToEvent(ev *entity.OrderStatusEvent) *model.OrderStatusChanged {
	return &model.OrderStatusChanged{
		EventID:    uuid.NewString(),
		OrderID:    ev.OrderID,
		FromStatus: string(ev.FromStatus),
		ToStatus:   string(ev.ToStatus),
		Actor:      ev.Actor,
		OccurredAt: time.Now(),
	}
}
