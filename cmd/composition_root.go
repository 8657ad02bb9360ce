package cmd

import (
	"log/slog"

	httpadapter "hawker/internal/adapters/in/http"
	"hawker/internal/adapters/in/ws"
	"hawker/internal/adapters/out/rabbitmq"
	"hawker/internal/adapters/out/rest"
	"hawker/internal/core/application/coordinator"
	"hawker/internal/core/application/pending"
	"hawker/internal/core/application/saga"
	"hawker/internal/core/application/usecases/commands"
	"hawker/internal/core/application/usecases/queries"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/jobs"
)

// CompositionRoot wires the adapters and the application layer together.
// The pending cache, the websocket hub, the bus publisher and the saga
// orchestrator are process-wide singletons shared by everything built here.
type CompositionRoot struct {
	config Config
	logger *slog.Logger

	pendingCache *pending.Cache
	orders       *rest.OrderStoreClient
	publisher    *rabbitmq.Publisher
	hub          *ws.Hub
	orchestrator *saga.Orchestrator
	coordinator  *coordinator.Coordinator
}

// NewCompositionRoot builds the object graph from the configuration.
func NewCompositionRoot(config Config, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pendingCache := pending.NewCache()

	orders, err := rest.NewOrderStoreClient(
		config.OrderStoreURL, config.CollaboratorTimeout, config.CollaboratorRetries)
	if err != nil {
		return nil, err
	}
	customers, err := rest.NewCustomerStoreClient(
		config.CustomerStoreURL, config.CollaboratorTimeout, config.CollaboratorRetries)
	if err != nil {
		return nil, err
	}
	pickers, err := rest.NewPickerStoreClient(
		config.PickerStoreURL, config.CollaboratorTimeout, config.CollaboratorRetries)
	if err != nil {
		return nil, err
	}
	ledger, err := rest.NewPaymentLedgerClient(
		config.PaymentLedgerURL, config.CollaboratorTimeout, config.CollaboratorRetries)
	if err != nil {
		return nil, err
	}

	publisher, err := rabbitmq.NewPublisher(config.RabbitMQURL, config.RabbitMQExchange, logger)
	if err != nil {
		return nil, err
	}

	hub, err := ws.NewHub(pendingCache, orders, logger)
	if err != nil {
		return nil, err
	}

	pickerFee, err := kernel.MoneyFromString(config.PickerFlatFee)
	if err != nil {
		return nil, err
	}
	orchestrator, err := saga.NewOrchestrator(customers, pickers, ledger, orders, pickerFee, logger)
	if err != nil {
		return nil, err
	}

	coord, err := coordinator.NewCoordinator(pendingCache, orders, hub, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:       config,
		logger:       logger,
		pendingCache: pendingCache,
		orders:       orders,
		publisher:    publisher,
		hub:          hub,
		orchestrator: orchestrator,
		coordinator:  coord,
	}, nil
}

// Hub returns the websocket hub.
func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

// Publisher returns the bus publisher for shutdown handling.
func (c *CompositionRoot) Publisher() *rabbitmq.Publisher {
	return c.publisher
}

// CreateBusConsumer builds the supervised consumer feeding the coordinator.
// The resync callback reloads the pending set after every resubscribe.
func (c *CompositionRoot) CreateBusConsumer() (*rabbitmq.Consumer, error) {
	return rabbitmq.NewConsumer(
		c.config.RabbitMQURL,
		c.config.RabbitMQExchange,
		c.coordinator,
		c.coordinator.Resync,
		c.logger,
	)
}

// CreateJobManager builds the background job scheduler.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	rebroadcast, err := jobs.NewRebroadcastJob(
		c.pendingCache,
		c.publisher,
		c.config.RebroadcastInterval,
		c.config.RebroadcastMinAge,
		c.logger,
	)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(rebroadcast), nil
}

// CreateHTTPServer builds the REST surface over the command and query
// handlers.
func (c *CompositionRoot) CreateHTTPServer() (*httpadapter.Server, error) {
	submit, err := commands.NewSubmitOrderCommandHandler(
		c.orders, c.orchestrator, c.publisher, c.pendingCache)
	if err != nil {
		return nil, err
	}
	claim, err := commands.NewClaimOrderCommandHandler(c.orders, c.publisher)
	if err != nil {
		return nil, err
	}
	release, err := commands.NewReleaseClaimCommandHandler(c.orders, c.publisher)
	if err != nil {
		return nil, err
	}
	cancel, err := commands.NewCancelOrderCommandHandler(c.orders, c.orchestrator, c.publisher)
	if err != nil {
		return nil, err
	}
	complete, err := commands.NewCompleteOrderCommandHandler(c.orders, c.orchestrator, c.publisher)
	if err != nil {
		return nil, err
	}
	updateLocation, err := commands.NewUpdateLocationCommandHandler(c.orders, c.publisher)
	if err != nil {
		return nil, err
	}
	topUp, err := commands.NewTopUpCreditsCommandHandler(c.orchestrator)
	if err != nil {
		return nil, err
	}
	refund, err := commands.NewRefundPaymentCommandHandler(c.orchestrator)
	if err != nil {
		return nil, err
	}

	pendingOrders, err := queries.NewGetPendingOrdersQueryHandler(c.pendingCache)
	if err != nil {
		return nil, err
	}
	activePickers, err := queries.NewGetActivePickersQueryHandler(c.hub)
	if err != nil {
		return nil, err
	}

	return httpadapter.NewServer(submit, claim, release, cancel, complete,
		updateLocation, topUp, refund, pendingOrders, activePickers, c.hub)
}
