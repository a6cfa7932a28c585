package config

import (
	"kolibra-order-service/src/internal/delivery/http"
	"kolibra-order-service/src/internal/delivery/http/middleware"
	"kolibra-order-service/src/internal/delivery/http/route"
	"kolibra-order-service/src/internal/gateway/messaging"
	"kolibra-order-service/src/internal/gateway/processor"
	"kolibra-order-service/src/internal/repository"
	"kolibra-order-service/src/internal/tasks"
	"kolibra-order-service/src/internal/usecase"
	"kolibra-order-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "kolibra-order-service/src/pkg/kafka/confluent"
	"kolibra-order-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Redis       redis.UniversalClient
	Processor   processor.Gateway
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	orderRepository := repository.NewOrderRepository(config.DB)
	paymentRepository := repository.NewPaymentRepository(config.DB)
	ratingRepository := repository.NewRatingRepository(config.DB)
	serviceRepository := repository.NewServiceRepository(config.DB)
	statusEventRepository := repository.NewStatusEventRepository(config.DB)
	txManager := repository.NewTxManager(config.DB)

	transitioner := &usecase.Transitioner{
		Orders: orderRepository,
		Events: statusEventRepository,
		Log:    config.Log,
	}
	if config.Producer != nil {
		transitioner.Publisher = messaging.NewOrderProducer(config.Producer, config.Log)
	}

	// setup use cases
	orderUseCase := usecase.NewOrderUseCase(
		config.Log,
		config.Validate,
		orderRepository,
		paymentRepository,
		serviceRepository,
		ratingRepository,
		txManager,
		transitioner,
	)
	var enqueuer usecase.TaskEnqueuer
	if config.AsynqClient != nil {
		enqueuer = config.AsynqClient
	}
	adminUseCase := usecase.NewAdminUseCase(
		config.Log,
		config.Validate,
		config.Config,
		orderRepository,
		paymentRepository,
		ratingRepository,
		txManager,
		transitioner,
		enqueuer,
	)
	paymentUseCase := usecase.NewPaymentUseCase(
		config.Log,
		config.Validate,
		config.Config,
		orderRepository,
		paymentRepository,
		config.Processor,
		txManager,
		transitioner,
	)
	var deduper usecase.EventDeduper
	if config.Redis != nil {
		deduper = &usecase.RedisEventDeduper{Client: config.Redis}
	}
	webhookUseCase := usecase.NewWebhookUseCase(
		config.Log,
		orderRepository,
		paymentRepository,
		config.Processor,
		deduper,
		txManager,
		transitioner,
	)
	catalogUseCase := usecase.NewCatalogUseCase(config.Log, config.Validate, serviceRepository, config.Redis)

	// setup controller
	orderController := http.NewOrderController(orderUseCase, catalogUseCase, config.Log)
	paymentController := http.NewPaymentController(paymentUseCase, config.Log)
	webhookController := http.NewWebhookController(webhookUseCase, config.Log)
	adminController := http.NewAdminController(adminUseCase, paymentUseCase, catalogUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)
	adminMiddleware := middleware.RequireAdmin()

	if config.Async != nil {
		sweeper := tasks.NewInstallmentSweeper(config.Log, orderRepository)
		config.Async.HandleFunc(tasks.TypeInstallmentsOverdue, sweeper.HandleInstallmentsOverdue)
	}

	routeConfig := route.RouteConfig{
		App:               config.App,
		OrderController:   orderController,
		PaymentController: paymentController,
		WebhookController: webhookController,
		AdminController:   adminController,
		AuthMiddleware:    authMiddleware,
		AdminMiddleware:   adminMiddleware,
	}
	routeConfig.Setup()
}
