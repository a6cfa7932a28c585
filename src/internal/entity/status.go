package entity

import "fmt"

// OrderStatus is the single status vocabulary for an order. The service grew a
// quote-based entry path on top of the original request flow; legacy rows may
// still carry the old values, which Normalize maps into this table before any
// transition is evaluated.
type OrderStatus string

const (
	StatusSolicitado          OrderStatus = "Solicitado"
	StatusOrcamentoEnviado    OrderStatus = "Orçamento Enviado"
	StatusOrcamentoAprovado   OrderStatus = "Orçamento Aprovado"
	StatusRejeitado           OrderStatus = "Rejeitado"
	StatusAguardandoPagamento OrderStatus = "Aguardando Pagamento"
	StatusAceito              OrderStatus = "Aceito"
	StatusPagamentoInicial    OrderStatus = "Pagamento Inicial Realizado"
	StatusEmAndamento         OrderStatus = "Em Andamento"
	StatusAguardandoAprovacao OrderStatus = "Aguardando Aprovação"
	StatusFinalizado          OrderStatus = "Finalizado"
	StatusCancelado           OrderStatus = "Cancelado"

	// legacy value kept for rows written before the quote flow existed
	StatusPendente OrderStatus = "Pendente"
)

// OrderEvent is something that happens to an order and may move its status.
type OrderEvent string

const (
	EventQuoteSent         OrderEvent = "quote-sent"
	EventQuoteApprove      OrderEvent = "quote-approve"
	EventQuoteReject       OrderEvent = "quote-reject"
	EventRequestPayment    OrderEvent = "request-payment"
	EventAccept            OrderEvent = "accept"
	EventInitialPaid       OrderEvent = "initial-paid"
	EventStartProgress     OrderEvent = "start-progress"
	EventAwaitStepApproval OrderEvent = "await-step-approval"
	EventApproveStep       OrderEvent = "approve-step"
	EventFinalize          OrderEvent = "finalize"
	EventFinalPaid         OrderEvent = "final-paid"
	EventCancel            OrderEvent = "cancel"
)

// transitions is the exhaustive from-status × event table. Anything not listed
// here is rejected; cancel is handled separately because it is valid from every
// non-terminal status.
var transitions = map[OrderStatus]map[OrderEvent]OrderStatus{
	StatusSolicitado: {
		EventQuoteSent: StatusOrcamentoEnviado,
		EventAccept:    StatusAceito,
	},
	StatusOrcamentoEnviado: {
		EventQuoteApprove: StatusOrcamentoAprovado,
		EventQuoteReject:  StatusRejeitado,
	},
	StatusOrcamentoAprovado: {
		EventAccept:         StatusAceito,
		EventRequestPayment: StatusAguardandoPagamento,
	},
	StatusAguardandoPagamento: {
		EventAccept: StatusAceito,
	},
	StatusAceito: {
		EventInitialPaid: StatusPagamentoInicial,
		EventFinalize:    StatusFinalizado,
	},
	StatusPagamentoInicial: {
		EventStartProgress: StatusEmAndamento,
	},
	StatusEmAndamento: {
		EventAwaitStepApproval: StatusAguardandoAprovacao,
		EventFinalize:          StatusFinalizado,
	},
	StatusAguardandoAprovacao: {
		EventApproveStep: StatusEmAndamento,
	},
	StatusFinalizado: {
		EventFinalPaid: StatusFinalizado,
	},
}

// Normalize maps legacy status values onto the unified table.
func (s OrderStatus) Normalize() OrderStatus {
	if s == StatusPendente {
		return StatusSolicitado
	}
	return s
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	n := s.Normalize()
	return n == StatusCancelado || n == StatusRejeitado
}

// InvalidTransitionError carries the order's actual status so the caller can
// explain exactly which state blocked the event.
type InvalidTransitionError struct {
	From  OrderStatus
	Event OrderEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %q is not allowed while order status is %q", e.Event, e.From)
}

// NextStatus resolves the status an event leads to from the given status.
func NextStatus(from OrderStatus, event OrderEvent) (OrderStatus, error) {
	current := from.Normalize()

	if event == EventCancel {
		if current.Terminal() || current == StatusFinalizado {
			return "", &InvalidTransitionError{From: from, Event: event}
		}
		return StatusCancelado, nil
	}

	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return "", &InvalidTransitionError{From: from, Event: event}
}
