package usecase

import (
	"context"
	"encoding/json"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/gateway/processor"
	"kolibra-order-service/src/internal/model"
	"kolibra-order-service/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func testLogger() log.Log {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return log.Log{AppName: "test", LogLevel: 3, Logger: l}
}

func newTestValidator() *validator.Validate {
	return validator.New()
}

// fakeTxManager runs the callback with a nil tx so store mocks see the same
// nil the pool path uses.
type fakeTxManager struct {
	err error
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

type mockOrderStore struct {
	mock.Mock
}

func (m *mockOrderStore) Insert(ctx context.Context, tx *sqlx.Tx, order *entity.Order) (uint64, error) {
	args := m.Called(ctx, tx, order)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockOrderStore) InsertItem(ctx context.Context, tx *sqlx.Tx, item *entity.OrderItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *mockOrderStore) FindByID(ctx context.Context, id uint64) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *mockOrderStore) FindItems(ctx context.Context, orderID uint64) ([]entity.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderItem), args.Error(1)
}

func (m *mockOrderStore) FindByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *mockOrderStore) FindAll(ctx context.Context, status string) ([]entity.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *mockOrderStore) FindWithPlans(ctx context.Context) ([]entity.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *mockOrderStore) UpdateQuote(ctx context.Context, tx *sqlx.Tx, orderID uint64, total float64, initial, final *float64, plan json.RawMessage) error {
	args := m.Called(ctx, tx, orderID, total, initial, final, plan)
	return args.Error(0)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, tx *sqlx.Tx, orderID uint64, status entity.OrderStatus) error {
	args := m.Called(ctx, tx, orderID, status)
	return args.Error(0)
}

func (m *mockOrderStore) UpdateBudget(ctx context.Context, orderID uint64, budgetStatus string, notes *string, approvedAt *time.Time) error {
	args := m.Called(ctx, orderID, budgetStatus, notes, approvedAt)
	return args.Error(0)
}

func (m *mockOrderStore) SetPhaseAmount(ctx context.Context, tx *sqlx.Tx, orderID uint64, paymentType string, amount float64) error {
	args := m.Called(ctx, tx, orderID, paymentType, amount)
	return args.Error(0)
}

func (m *mockOrderStore) UpdatePlan(ctx context.Context, tx *sqlx.Tx, orderID uint64, plan json.RawMessage) error {
	args := m.Called(ctx, tx, orderID, plan)
	return args.Error(0)
}

func (m *mockOrderStore) DeleteItems(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	args := m.Called(ctx, tx, orderID)
	return args.Error(0)
}

func (m *mockOrderStore) Delete(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	args := m.Called(ctx, tx, orderID)
	return args.Error(0)
}

type mockPaymentStore struct {
	mock.Mock
}

func (m *mockPaymentStore) Insert(ctx context.Context, tx *sqlx.Tx, payment *entity.Payment) (uint64, error) {
	args := m.Called(ctx, tx, payment)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockPaymentStore) FindByIntentID(ctx context.Context, intentID string) (*entity.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *mockPaymentStore) FindByOrder(ctx context.Context, orderID uint64) ([]entity.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Payment), args.Error(1)
}

func (m *mockPaymentStore) UpdateStatusByIntentID(ctx context.Context, tx *sqlx.Tx, intentID, status string) error {
	args := m.Called(ctx, tx, intentID, status)
	return args.Error(0)
}

func (m *mockPaymentStore) ExistsSucceeded(ctx context.Context, tx *sqlx.Tx, orderID uint64, paymentType string) (bool, error) {
	args := m.Called(ctx, tx, orderID, paymentType)
	return args.Bool(0), args.Error(1)
}

func (m *mockPaymentStore) DeleteByOrder(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	args := m.Called(ctx, tx, orderID)
	return args.Error(0)
}

type mockRatingStore struct {
	mock.Mock
}

func (m *mockRatingStore) Insert(ctx context.Context, rating *entity.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *mockRatingStore) DeleteByOrder(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	args := m.Called(ctx, tx, orderID)
	return args.Error(0)
}

type mockServiceStore struct {
	mock.Mock
}

func (m *mockServiceStore) FindByID(ctx context.Context, id uint64) (*entity.ServiceOffering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ServiceOffering), args.Error(1)
}

func (m *mockServiceStore) FindActive(ctx context.Context) ([]entity.ServiceOffering, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ServiceOffering), args.Error(1)
}

func (m *mockServiceStore) Upsert(ctx context.Context, svc *entity.ServiceOffering) (uint64, error) {
	args := m.Called(ctx, svc)
	return args.Get(0).(uint64), args.Error(1)
}

type mockStatusEventStore struct {
	mock.Mock
}

func (m *mockStatusEventStore) Insert(ctx context.Context, tx *sqlx.Tx, event *entity.OrderStatusEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *mockStatusEventStore) FindByOrder(ctx context.Context, orderID uint64) ([]entity.OrderStatusEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderStatusEvent), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) SendStatusChanged(event *model.OrderStatusChanged) error {
	args := m.Called(event)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*processor.IntentResult, error) {
	args := m.Called(ctx, amountCents, currency, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.IntentResult), args.Error(1)
}

func (m *mockGateway) VerifyWebhook(payload []byte, signature string) (*processor.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processor.WebhookEvent), args.Error(1)
}
