package http

import (
	"net/http"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"

	"github.com/labstack/echo/v4"
)

// ListPayouts handles GET /api/v1/admin/payouts.
//
// Filters: driver_id, status (PENDING or PAID), created_from and created_to
// as RFC 3339 timestamps over [from, to).
func (s *Server) ListPayouts(c echo.Context) error {
	filter, err := payoutFilter(c)
	if err != nil {
		return err
	}
	p, err := pageParams(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListPayoutsQuery(filter, p.cursor, p.limit)
	if err != nil {
		return err
	}
	res, err := s.handlers.ListPayouts.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Payouts", toPayouts(res))
}

// ApprovePayout handles POST /api/v1/admin/drivers/:id/payouts/approve.
func (s *Server) ApprovePayout(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req approvePayoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewApprovePayoutCommand(id, req.Reference)
	if err != nil {
		return err
	}
	res, err := s.handlers.ApprovePayout.Handle(c.Request().Context(), cmd)
	s.metrics.observePayout("approve", err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Payout approved", toPayoutResult(res))
}

// Reconcile handles GET /api/v1/admin/reconciliation.
func (s *Server) Reconcile(c echo.Context) error {
	res, err := s.handlers.Reconcile.Handle(c.Request().Context(), queries.NewReconcileQuery())
	if err != nil {
		return err
	}

	message := "Ledger balanced"
	if !res.Balanced() {
		message = "Ledger out of balance"
	}
	return respond(c, http.StatusOK, message, toReconciliation(res))
}

func payoutFilter(c echo.Context) (queries.PayoutFilter, error) {
	var (
		f        queries.PayoutFilter
		driverID *string
		status   *string
	)
	if err := queryParam(c, "driver_id", &driverID); err != nil {
		return f, err
	}
	if err := queryParam(c, "status", &status); err != nil {
		return f, err
	}
	if err := queryParam(c, "created_from", &f.CreatedFrom); err != nil {
		return f, err
	}
	if err := queryParam(c, "created_to", &f.CreatedTo); err != nil {
		return f, err
	}

	if driverID != nil {
		id, err := kernel.UUIDFromString(*driverID)
		if err != nil {
			return f, err
		}
		f.DriverID = &id
	}
	if status != nil {
		st, err := payout.ParseStatus(strings.ToUpper(*status))
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	return f, nil
}
