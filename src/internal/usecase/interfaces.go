package usecase

import (
	"context"
	"encoding/json"
	"time"

	"kolibra-order-service/src/internal/entity"
	"kolibra-order-service/src/internal/model"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
)

// Store interfaces consumed by the usecases; the concrete sqlx repositories
// satisfy them, tests substitute mocks.

type OrderStore interface {
	Insert(ctx context.Context, tx *sqlx.Tx, order *entity.Order) (uint64, error)
	InsertItem(ctx context.Context, tx *sqlx.Tx, item *entity.OrderItem) error
	FindByID(ctx context.Context, id uint64) (*entity.Order, error)
	FindItems(ctx context.Context, orderID uint64) ([]entity.OrderItem, error)
	FindByUser(ctx context.Context, userID string) ([]entity.Order, error)
	FindAll(ctx context.Context, status string) ([]entity.Order, error)
	FindWithPlans(ctx context.Context) ([]entity.Order, error)
	UpdateQuote(ctx context.Context, tx *sqlx.Tx, orderID uint64, total float64, initial, final *float64, plan json.RawMessage) error
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, orderID uint64, status entity.OrderStatus) error
	UpdateBudget(ctx context.Context, orderID uint64, budgetStatus string, notes *string, approvedAt *time.Time) error
	SetPhaseAmount(ctx context.Context, tx *sqlx.Tx, orderID uint64, paymentType string, amount float64) error
	UpdatePlan(ctx context.Context, tx *sqlx.Tx, orderID uint64, plan json.RawMessage) error
	DeleteItems(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
	Delete(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
}

type PaymentStore interface {
	Insert(ctx context.Context, tx *sqlx.Tx, payment *entity.Payment) (uint64, error)
	FindByIntentID(ctx context.Context, intentID string) (*entity.Payment, error)
	FindByOrder(ctx context.Context, orderID uint64) ([]entity.Payment, error)
	UpdateStatusByIntentID(ctx context.Context, tx *sqlx.Tx, intentID, status string) error
	ExistsSucceeded(ctx context.Context, tx *sqlx.Tx, orderID uint64, paymentType string) (bool, error)
	DeleteByOrder(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
}

type RatingStore interface {
	Insert(ctx context.Context, rating *entity.Rating) error
	DeleteByOrder(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
}

type ServiceStore interface {
	FindByID(ctx context.Context, id uint64) (*entity.ServiceOffering, error)
	FindActive(ctx context.Context) ([]entity.ServiceOffering, error)
	Upsert(ctx context.Context, svc *entity.ServiceOffering) (uint64, error)
}

type StatusEventStore interface {
	Insert(ctx context.Context, tx *sqlx.Tx, event *entity.OrderStatusEvent) error
	FindByOrder(ctx context.Context, orderID uint64) ([]entity.OrderStatusEvent, error)
}

// StatusPublisher externalizes status transitions to the message broker.
type StatusPublisher interface {
	SendStatusChanged(event *model.OrderStatusChanged) error
}

// TaskEnqueuer pushes background tasks onto the queue; *asynq.Client
// satisfies it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
