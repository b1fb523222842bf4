package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handler is a use case that returns a result.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// CommandHandler is a use case that only reports failure.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// Handlers groups the use cases the API exposes.
type Handlers struct {
	// Command handlers
	RegisterDriver  Handler[commands.RegisterDriverCommand, kernel.UUID]
	SetAvailability CommandHandler[commands.SetDriverAvailabilityCommand]
	RecordLocation  CommandHandler[commands.RecordDriverLocationCommand]
	AcceptOrder     CommandHandler[commands.AcceptOrderCommand]
	RejectOrder     CommandHandler[commands.RejectOrderCommand]
	PickupOrder     CommandHandler[commands.PickupOrderCommand]
	StartDelivery   CommandHandler[commands.StartDeliveryCommand]
	DeliverOrder    CommandHandler[commands.DeliverOrderCommand]
	CancelOrder     CommandHandler[commands.CancelOrderCommand]
	RequestPayout   Handler[commands.RequestPayoutCommand, commands.PayoutResult]
	ApprovePayout   Handler[commands.ApprovePayoutCommand, commands.PayoutResult]

	// Query handlers
	DriverByUser    Handler[queries.GetDriverByUserQuery, queries.GetDriverByUserResponse]
	AvailableOrders Handler[queries.GetAvailableOrdersQuery, queries.GetAvailableOrdersResponse]
	EarningsSummary Handler[queries.GetEarningsSummaryQuery, queries.GetEarningsSummaryResponse]
	EarningsHistory Handler[queries.GetEarningsHistoryQuery, queries.GetEarningsHistoryResponse]
	ListPayouts     Handler[queries.ListPayoutsQuery, queries.ListPayoutsResponse]
	Reconcile       Handler[queries.ReconcileQuery, queries.ReconcileResponse]
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Server serves the driver and admin APIs on top of the use cases.
type Server struct {
	handlers Handlers
	metrics  *Metrics
	checks   map[string]HealthCheck
}

func NewServer(handlers Handlers, metrics *Metrics, checks map[string]HealthCheck) *Server {
	return &Server{handlers: handlers, metrics: metrics, checks: checks}
}

// NewEcho builds the router with every route mounted. API requests are
// checked against the embedded OpenAPI document once authorized.
func NewEcho(s *Server, jwtSecret []byte, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := APIDoc()
	if err != nil {
		return nil, err
	}
	validate, err := ValidateRequest(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(s.metrics.Middleware())

	e.GET("/health", s.Health)
	e.GET("/metrics", s.metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", Authenticate(jwtSecret))

	admin := api.Group("/admin", RequireRole(RoleAdmin), validate)
	admin.POST("/drivers", s.RegisterDriver)
	admin.POST("/drivers/:id/payouts/approve", s.ApprovePayout)
	admin.GET("/payouts", s.ListPayouts)
	admin.GET("/reconciliation", s.Reconcile)

	drv := api.Group("/driver", RequireRole(RoleDriver), ResolveDriver(s.handlers.DriverByUser), validate)
	drv.PUT("/availability", s.SetAvailability)
	drv.POST("/locations", s.RecordLocation)
	drv.GET("/orders/available", s.AvailableOrders)
	drv.POST("/orders/:id/accept", s.AcceptOrder)
	drv.POST("/orders/:id/reject", s.RejectOrder)
	drv.POST("/orders/:id/pickup", s.PickupOrder)
	drv.POST("/orders/:id/start-delivery", s.StartDelivery)
	drv.POST("/orders/:id/deliver", s.DeliverOrder)
	drv.POST("/orders/:id/cancel", s.CancelOrder)
	drv.GET("/earnings/summary", s.EarningsSummary)
	drv.GET("/earnings", s.EarningsHistory)
	drv.POST("/payouts", s.RequestPayout)

	return e, nil
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	failed := map[string]string{}
	for name, check := range s.checks {
		if err := check(c.Request().Context()); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		return c.JSON(http.StatusServiceUnavailable, envelope{Success: false, Message: "Unhealthy", Data: failed})
	}
	return respond(c, http.StatusOK, "Healthy", nil)
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}
	return nil
}

func pathID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name).SetInternal(err)
	}
	return id, nil
}
