package cmd

import (
	"log/slog"

	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/memory"
	"orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/adapters/out/postgres/outboxrepo"
	"orders/internal/core/application/pricing"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/ports"
	"orders/internal/jobs"
	"orders/internal/pkg/clock"
	"orders/internal/pkg/metrics"

	"gorm.io/gorm"
)

// Storage is the order store backend the handlers share.
type Storage struct {
	UoWFactory ports.UnitOfWorkFactory
	Reader     ports.OrderReader
	Outbox     ports.InventoryOutbox
}

// NewMemoryStorage keeps orders and the inventory outbox in process memory.
func NewMemoryStorage() Storage {
	store := memory.NewStore()
	return Storage{
		UoWFactory: memory.NewUnitOfWorkFactory(store),
		Reader:     memory.NewOrderRepository(store),
		Outbox:     memory.NewInventoryOutbox(),
	}
}

// NewPostgresStorage expects a migrated database.
func NewPostgresStorage(db *gorm.DB, clk clock.Clock) Storage {
	return Storage{
		UoWFactory: postgres.NewGormUnitOfWorkFactory(db),
		Reader:     orderrepo.NewGormOrderRepository(db),
		Outbox:     outboxrepo.NewGormInventoryOutbox(db, clk),
	}
}

// Broker groups the outbound message adapters.
type Broker struct {
	Pricing   ports.PricingGateway
	Notifier  ports.OrderNotifier
	Inventory ports.InventoryPublisher
}

type CompositionRoot struct {
	cfg     Config
	storage Storage
	broker  Broker
	metrics *metrics.Metrics
	clock   clock.Clock
	logger  *slog.Logger

	uowFactory commands.OrderUoWFactory
	dispatcher *commands.InventoryDispatcher
}

func NewCompositionRoot(
	cfg Config,
	storage Storage,
	broker Broker,
	m *metrics.Metrics,
	clk clock.Clock,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:     cfg,
		storage: storage,
		broker:  broker,
		metrics: m,
		clock:   clk,
		logger:  logger,
		uowFactory: FuncOrderUoWFactory(func() commands.OrderUoW {
			return storage.UoWFactory.Create()
		}),
		dispatcher: commands.NewInventoryDispatcher(broker.Inventory, storage.Outbox, m, logger).
			WithPublishTimeout(cfg.PublishTimeout),
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	calculator := pricing.NewCalculator(c.broker.Pricing, c.cfg.PricingConcurrency, c.logger)
	return commands.NewCreateOrderCommandHandler(
		c.uowFactory, calculator, c.broker.Notifier, c.dispatcher, c.clock, c.metrics, c.logger,
	).WithPublishTimeout(c.cfg.PublishTimeout)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.uowFactory, c.dispatcher, c.clock, c.logger)
}

func (c *CompositionRoot) CreateRelayInventoryOutboxCommandHandler() commands.RelayInventoryOutboxCommandHandler {
	return commands.NewRelayInventoryOutboxCommandHandler(c.storage.Outbox, c.broker.Inventory, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.storage.Reader, c.logger)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.storage.Reader, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.cfg.AdminRole,
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	relay := c.CreateRelayInventoryOutboxCommandHandler()
	return jobs.NewJobManager(c.logger,
		jobs.NewInventoryOutboxJob(&relay, c.cfg.OutboxSchedule, c.cfg.OutboxBatchSize, c.logger),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
