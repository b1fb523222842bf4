package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	kafkain "fulfillment/internal/adapters/in/kafka"
	kafkaout "fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/rabbitmq"
	redisout "fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/adapters/out/zoneconfig"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/IBM/sarama"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived dependency of the service.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	zones         ports.ZoneConfigProvider
	redisClient   *redis.Client
	locationCache *redisout.LocationCache
	producer      sarama.SyncProducer
	rabbit        *rabbitmq.Connection
	consumerGroup sarama.ConsumerGroup
}

// NewCompositionRoot connects to Redis, Kafka and RabbitMQ. Whatever was
// opened before a failure is closed again.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (_ *CompositionRoot, err error) {
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if c.zones, err = zoneconfig.NewStaticProvider(cfg.Zone); err != nil {
		return nil, fmt.Errorf("zone config: %w", err)
	}

	c.redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if c.locationCache, err = redisout.NewLocationCache(c.redisClient, redisout.DefaultTTL); err != nil {
		return nil, err
	}

	if c.producer, err = kafkaout.NewSyncProducer(cfg.KafkaBrokers()); err != nil {
		return nil, err
	}
	if c.consumerGroup, err = kafkain.NewConsumerGroup(cfg.KafkaBrokers(), cfg.KafkaConsumerGroup); err != nil {
		return nil, err
	}

	if c.rabbit, err = rabbitmq.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange); err != nil {
		return nil, err
	}

	return c, nil
}

// Close releases the broker and cache connections. The database handle is
// owned by the caller.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.consumerGroup != nil {
		errs = append(errs, c.consumerGroup.Close())
	}
	if c.producer != nil {
		errs = append(errs, c.producer.Close())
	}
	if c.rabbit != nil {
		errs = append(errs, c.rabbit.Close())
	}
	if c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
	}
	return errors.Join(errs...)
}

// Commands

func (c *CompositionRoot) CreateRegisterOrderCommandHandler() commands.RegisterOrderCommandHandler {
	return commands.NewRegisterOrderCommandHandler(c.orderUoWFactory(), c.zones)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	return commands.NewRegisterDriverCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateSetDriverAvailabilityCommandHandler() commands.SetDriverAvailabilityCommandHandler {
	return commands.NewSetDriverAvailabilityCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateRecordDriverLocationCommandHandler() (commands.RecordDriverLocationCommandHandler, error) {
	publisher, err := kafkaout.NewLocationPublisher(c.producer, c.cfg.KafkaDriverLocationTopic)
	if err != nil {
		return commands.RecordDriverLocationCommandHandler{}, err
	}
	var f commands.LocationUoWFactory = FuncLocationUoWFactory(func() commands.LocationUoW {
		return c.uowFactory.CreateGorm()
	})
	return commands.NewRecordDriverLocationCommandHandler(f, c.locationCache, publisher, c.logger), nil
}

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.fulfillmentUoWFactory(), c.zones)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreatePickupOrderCommandHandler() commands.PickupOrderCommandHandler {
	return commands.NewPickupOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(c.fulfillmentUoWFactory(), c.zones)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRequestPayoutCommandHandler() commands.RequestPayoutCommandHandler {
	return commands.NewRequestPayoutCommandHandler(c.payoutUoWFactory())
}

func (c *CompositionRoot) CreateApprovePayoutCommandHandler() commands.ApprovePayoutCommandHandler {
	return commands.NewApprovePayoutCommandHandler(c.payoutUoWFactory())
}

// Queries

func (c *CompositionRoot) CreateGetDriverByUserQueryHandler() queries.GetDriverByUserQueryHandler {
	return queries.NewGetDriverByUserQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB, c.locationCache, c.zones)
}

func (c *CompositionRoot) CreateGetEarningsSummaryQueryHandler() queries.GetEarningsSummaryQueryHandler {
	return queries.NewGetEarningsSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetEarningsHistoryQueryHandler() queries.GetEarningsHistoryQueryHandler {
	return queries.NewGetEarningsHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListPayoutsQueryHandler() queries.ListPayoutsQueryHandler {
	return queries.NewListPayoutsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateReconcileQueryHandler() queries.ReconcileQueryHandler {
	return queries.NewReconcileQueryHandler(c.gormDB)
}

// Inbound adapters

func (c *CompositionRoot) CreateHTTPServer(reg *prometheus.Registry) (*httpin.Server, error) {
	recordLocation, err := c.CreateRecordDriverLocationCommandHandler()
	if err != nil {
		return nil, err
	}

	handlers := httpin.Handlers{
		RegisterDriver:  c.CreateRegisterDriverCommandHandler(),
		SetAvailability: c.CreateSetDriverAvailabilityCommandHandler(),
		RecordLocation:  recordLocation,
		AcceptOrder:     c.CreateAcceptOrderCommandHandler(),
		RejectOrder:     c.CreateRejectOrderCommandHandler(),
		PickupOrder:     c.CreatePickupOrderCommandHandler(),
		StartDelivery:   c.CreateStartDeliveryCommandHandler(),
		DeliverOrder:    c.CreateDeliverOrderCommandHandler(),
		CancelOrder:     c.CreateCancelOrderCommandHandler(),
		RequestPayout:   c.CreateRequestPayoutCommandHandler(),
		ApprovePayout:   c.CreateApprovePayoutCommandHandler(),

		DriverByUser:    c.CreateGetDriverByUserQueryHandler(),
		AvailableOrders: c.CreateGetAvailableOrdersQueryHandler(),
		EarningsSummary: c.CreateGetEarningsSummaryQueryHandler(),
		EarningsHistory: c.CreateGetEarningsHistoryQueryHandler(),
		ListPayouts:     c.CreateListPayoutsQueryHandler(),
		Reconcile:       c.CreateReconcileQueryHandler(),
	}

	checks := map[string]httpin.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := c.gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return c.redisClient.Ping(ctx).Err()
		},
		"rabbitmq": func(context.Context) error {
			if !c.rabbit.IsAlive() {
				return errors.New("connection closed")
			}
			return nil
		},
	}

	return httpin.NewServer(handlers, httpin.NewMetrics(reg), checks), nil
}

func (c *CompositionRoot) CreateBasketConfirmedConsumer() *kafkain.BasketConfirmedConsumer {
	return kafkain.NewBasketConfirmedConsumer(
		c.consumerGroup,
		c.cfg.KafkaBasketConfirmedTopic,
		c.CreateRegisterOrderCommandHandler(),
		c.logger,
	)
}

// Jobs

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	orderEvents, err := kafkaout.NewEventPublisher(c.producer, c.cfg.KafkaOrderChangedTopic)
	if err != nil {
		return nil, err
	}
	notifications, err := rabbitmq.NewNotificationPublisher(c.rabbit.Channel(), c.cfg.RabbitMQExchange)
	if err != nil {
		return nil, err
	}

	relay := jobs.NewOutboxRelayJob(
		outboxrepo.NewGormOutboxRepository(c.gormDB),
		[]ports.EventPublisher{orderEvents, notifications},
		c.cfg.OutboxRelaySchedule,
		jobs.DefaultRelayBatchSize,
		c.logger,
	)
	reconciliation := jobs.NewReconciliationJob(c.CreateReconcileQueryHandler(), c.cfg.ReconciliationSchedule, c.logger)

	return jobs.NewJobManager(relay, reconciliation), nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) payoutUoWFactory() commands.PayoutUoWFactory {
	return FuncPayoutUoWFactory(func() commands.PayoutUoW {
		return c.uowFactory.CreateGorm()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncLocationUoWFactory func() commands.LocationUoW

func (f FuncLocationUoWFactory) Create() commands.LocationUoW {
	return f()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncPayoutUoWFactory func() commands.PayoutUoW

func (f FuncPayoutUoWFactory) Create() commands.PayoutUoW {
	return f()
}
