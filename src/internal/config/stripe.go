package config

import (
	"kolibra-order-service/src/internal/gateway/processor"

	"github.com/spf13/viper"
)

func NewStripeGateway(viper *viper.Viper) *processor.StripeGateway {
	return processor.NewStripeGateway(
		viper.GetString("stripe.api_key"),
		viper.GetString("stripe.webhook_secret"),
	)
}
