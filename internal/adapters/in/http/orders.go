package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// AvailableOrders handles GET /api/v1/driver/orders/available.
func (s *Server) AvailableOrders(c echo.Context) error {
	p, err := pageParams(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetAvailableOrdersQuery(driverID(c), p.cursor, p.limit)
	if err != nil {
		return err
	}
	res, err := s.handlers.AvailableOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Available orders", toAvailableOrders(res))
}

// AcceptOrder handles POST /api/v1/driver/orders/:id/accept.
func (s *Server) AcceptOrder(c echo.Context) error {
	return s.transition(c, "accept", "Order accepted", func(ctx context.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewAcceptOrderCommand(orderID, driverID(c))
		if err != nil {
			return err
		}
		return s.handlers.AcceptOrder.Handle(ctx, cmd)
	})
}

// RejectOrder handles POST /api/v1/driver/orders/:id/reject.
func (s *Server) RejectOrder(c echo.Context) error {
	var req reasonRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return s.transition(c, "reject", "Order handed back", func(ctx context.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewRejectOrderCommand(orderID, driverID(c), req.Reason)
		if err != nil {
			return err
		}
		return s.handlers.RejectOrder.Handle(ctx, cmd)
	})
}

// PickupOrder handles POST /api/v1/driver/orders/:id/pickup.
func (s *Server) PickupOrder(c echo.Context) error {
	return s.transition(c, "pickup", "Order picked up", func(ctx context.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewPickupOrderCommand(orderID, driverID(c))
		if err != nil {
			return err
		}
		return s.handlers.PickupOrder.Handle(ctx, cmd)
	})
}

// StartDelivery handles POST /api/v1/driver/orders/:id/start-delivery.
func (s *Server) StartDelivery(c echo.Context) error {
	return s.transition(c, "start_delivery", "Order out for delivery", func(ctx context.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewStartDeliveryCommand(orderID, driverID(c))
		if err != nil {
			return err
		}
		return s.handlers.StartDelivery.Handle(ctx, cmd)
	})
}

// DeliverOrder handles POST /api/v1/driver/orders/:id/deliver.
func (s *Server) DeliverOrder(c echo.Context) error {
	var req deliverRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return s.transition(c, "deliver", "Order delivered", func(ctx context.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewDeliverOrderCommand(orderID, driverID(c), req.DeliveryCode)
		if err != nil {
			return err
		}
		return s.handlers.DeliverOrder.Handle(ctx, cmd)
	})
}

// CancelOrder handles POST /api/v1/driver/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	var req reasonRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return s.transition(c, "cancel", "Order cancelled", func(ctx context.Context, orderID kernel.UUID) error {
		cmd, err := commands.NewCancelOrderCommand(orderID, driverID(c), req.Reason)
		if err != nil {
			return err
		}
		return s.handlers.CancelOrder.Handle(ctx, cmd)
	})
}

// transition runs one state machine call and counts its outcome.
func (s *Server) transition(
	c echo.Context,
	action, message string,
	run func(ctx context.Context, orderID kernel.UUID) error,
) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	err = run(c.Request().Context(), orderID)
	s.metrics.observeTransition(action, err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, message, idResponse{ID: orderID.String()})
}
