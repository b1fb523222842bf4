package http

import (
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// RegisterDriver handles POST /api/v1/admin/drivers.
func (s *Server) RegisterDriver(c echo.Context) error {
	var req registerDriverRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRegisterDriverCommand(userID, req.Name, req.VehicleRef, req.Verified)
	if err != nil {
		return err
	}

	id, err := s.handlers.RegisterDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Driver registered", idResponse{ID: id.String()})
}

// SetAvailability handles PUT /api/v1/driver/availability.
func (s *Server) SetAvailability(c echo.Context) error {
	var req availabilityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Online == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "online is required")
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(driverID(c), *req.Online)
	if err != nil {
		return err
	}
	if err := s.handlers.SetAvailability.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	message := "Driver is offline"
	if *req.Online {
		message = "Driver is online"
	}
	return respond(c, http.StatusOK, message, nil)
}

// RecordLocation handles POST /api/v1/driver/locations.
func (s *Server) RecordLocation(c echo.Context) error {
	var req locationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Lat == nil || req.Lng == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lat and lng are required")
	}

	point, err := kernel.NewGeoPoint(*req.Lat, *req.Lng)
	if err != nil {
		return err
	}
	var recordedAt time.Time
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	cmd, err := commands.NewRecordDriverLocationCommand(driverID(c), point, req.Bearing, recordedAt)
	if err != nil {
		return err
	}
	if err := s.handlers.RecordLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return respond(c, http.StatusAccepted, "Location recorded", nil)
}
