package processor

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Error kinds the orchestrator distinguishes when talking to the processor.
const (
	KindAuthentication = "authentication"
	KindInvalidRequest = "invalid_request"
	KindUnknown        = "unknown"
)

type ProcessorError struct {
	Kind    string
	Message string
}

func (e *ProcessorError) Error() string {
	return e.Message
}

type IntentResult struct {
	ID           string
	ClientSecret string
	Status       string
}

// WebhookEvent is the normalized payment-intent event the reconciler consumes.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string
	Amount   int64
	Status   string
}

type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*IntentResult, error)
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(apiKey, webhookSecret string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*IntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, classify(err)
	}

	return &IntentResult{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
	}, nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, &ProcessorError{Kind: KindInvalidRequest, Message: "webhook signature verification failed"}
	}

	normalized := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err == nil {
		normalized.IntentID = intent.ID
		normalized.Amount = intent.Amount
		normalized.Status = string(intent.Status)
	}
	return normalized, nil
}

func classify(err error) error {
	if stripeErr, ok := err.(*stripe.Error); ok {
		switch stripeErr.Type {
		// stripe-go v76 no longer declares ErrorTypeAuthentication; spell out
		// its value ("authentication_error") to keep the same classification.
		case stripe.ErrorType("authentication_error"):
			return &ProcessorError{Kind: KindAuthentication, Message: stripeErr.Msg}
		case stripe.ErrorTypeInvalidRequest:
			return &ProcessorError{Kind: KindInvalidRequest, Message: stripeErr.Msg}
		}
		return &ProcessorError{Kind: KindUnknown, Message: stripeErr.Msg}
	}
	return &ProcessorError{Kind: KindUnknown, Message: err.Error()}
}
