package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatusHappyPath(t *testing.T) {
	cases := []struct {
		name  string
		from  OrderStatus
		event OrderEvent
		want  OrderStatus
	}{
		{"quote sent", StatusSolicitado, EventQuoteSent, StatusOrcamentoEnviado},
		{"direct accept", StatusSolicitado, EventAccept, StatusAceito},
		{"quote approved", StatusOrcamentoEnviado, EventQuoteApprove, StatusOrcamentoAprovado},
		{"quote rejected", StatusOrcamentoEnviado, EventQuoteReject, StatusRejeitado},
		{"approved then accepted", StatusOrcamentoAprovado, EventAccept, StatusAceito},
		{"payment requested", StatusOrcamentoAprovado, EventRequestPayment, StatusAguardandoPagamento},
		{"awaiting payment accepted", StatusAguardandoPagamento, EventAccept, StatusAceito},
		{"initial paid", StatusAceito, EventInitialPaid, StatusPagamentoInicial},
		{"progress starts", StatusPagamentoInicial, EventStartProgress, StatusEmAndamento},
		{"step submitted", StatusEmAndamento, EventAwaitStepApproval, StatusAguardandoAprovacao},
		{"step approved", StatusAguardandoAprovacao, EventApproveStep, StatusEmAndamento},
		{"finalized from progress", StatusEmAndamento, EventFinalize, StatusFinalizado},
		{"finalized from accepted", StatusAceito, EventFinalize, StatusFinalizado},
		{"final paid stays finalized", StatusFinalizado, EventFinalPaid, StatusFinalizado},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextStatus(tc.from, tc.event)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextStatusRejected(t *testing.T) {
	cases := []struct {
		name  string
		from  OrderStatus
		event OrderEvent
	}{
		{"quote approve before quote", StatusSolicitado, EventQuoteApprove},
		{"initial paid before accept", StatusSolicitado, EventInitialPaid},
		{"start progress before payment", StatusAceito, EventStartProgress},
		{"finalize while awaiting step", StatusAguardandoAprovacao, EventFinalize},
		{"anything after cancel", StatusCancelado, EventAccept},
		{"anything after reject", StatusRejeitado, EventQuoteSent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NextStatus(tc.from, tc.event)
			require.Error(t, err)

			invalid, ok := err.(*InvalidTransitionError)
			require.True(t, ok)
			assert.Equal(t, tc.from, invalid.From)
			assert.Equal(t, tc.event, invalid.Event)
			assert.Contains(t, invalid.Error(), string(tc.from))
		})
	}
}

func TestNextStatusCancel(t *testing.T) {
	cancellable := []OrderStatus{
		StatusSolicitado,
		StatusOrcamentoEnviado,
		StatusOrcamentoAprovado,
		StatusAguardandoPagamento,
		StatusAceito,
		StatusPagamentoInicial,
		StatusEmAndamento,
		StatusAguardandoAprovacao,
	}
	for _, from := range cancellable {
		got, err := NextStatus(from, EventCancel)
		require.NoError(t, err, "cancel from %s", from)
		assert.Equal(t, StatusCancelado, got)
	}

	for _, from := range []OrderStatus{StatusFinalizado, StatusCancelado, StatusRejeitado} {
		_, err := NextStatus(from, EventCancel)
		assert.Error(t, err, "cancel from %s", from)
	}
}

func TestNormalizeLegacyStatus(t *testing.T) {
	assert.Equal(t, StatusSolicitado, StatusPendente.Normalize())
	assert.Equal(t, StatusAceito, StatusAceito.Normalize())

	// legacy rows participate in transitions through Normalize
	got, err := NextStatus(StatusPendente, EventQuoteSent)
	require.NoError(t, err)
	assert.Equal(t, StatusOrcamentoEnviado, got)
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCancelado.Terminal())
	assert.True(t, StatusRejeitado.Terminal())
	assert.False(t, StatusFinalizado.Terminal())
	assert.False(t, StatusSolicitado.Terminal())
}
