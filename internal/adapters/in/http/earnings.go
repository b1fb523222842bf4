package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// EarningsSummary handles GET /api/v1/driver/earnings/summary.
func (s *Server) EarningsSummary(c echo.Context) error {
	query, err := queries.NewGetEarningsSummaryQuery(driverID(c))
	if err != nil {
		return err
	}
	res, err := s.handlers.EarningsSummary.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Earnings summary", toEarningsSummary(res))
}

// EarningsHistory handles GET /api/v1/driver/earnings.
func (s *Server) EarningsHistory(c echo.Context) error {
	p, err := pageParams(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetEarningsHistoryQuery(driverID(c), p.cursor, p.limit)
	if err != nil {
		return err
	}
	res, err := s.handlers.EarningsHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Earnings history", toEarningsHistory(res))
}

// RequestPayout handles POST /api/v1/driver/payouts.
func (s *Server) RequestPayout(c echo.Context) error {
	cmd, err := commands.NewRequestPayoutCommand(driverID(c))
	if err != nil {
		return err
	}

	res, err := s.handlers.RequestPayout.Handle(c.Request().Context(), cmd)
	s.metrics.observePayout("request", err)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Payout requested", toPayoutResult(res))
}

type pageQuery struct {
	cursor string
	limit  int
}

// pageParams reads ?cursor and ?limit; absent values fall back to the
// query's first page and default size.
func pageParams(c echo.Context) (pageQuery, error) {
	var (
		cursor *string
		limit  *int
	)
	if err := queryParam(c, "cursor", &cursor); err != nil {
		return pageQuery{}, err
	}
	if err := queryParam(c, "limit", &limit); err != nil {
		return pageQuery{}, err
	}

	var p pageQuery
	if cursor != nil {
		p.cursor = *cursor
	}
	if limit != nil {
		if *limit <= 0 {
			return pageQuery{}, errs.NewValueIsOutOfRangeError("limit", *limit, 1, queries.MaxPageLimit)
		}
		p.limit = *limit
	}
	return p, nil
}

// queryParam binds an optional form-style query parameter into dst, which
// must point to a nil pointer of the target type.
func queryParam(c echo.Context, name string, dst any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}
