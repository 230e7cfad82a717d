// Package http serves the admin API: user counts, order lookup and manual driver
// approval, plus health, metrics and the API document.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// apiAdminName signs approvals made through the API.
const apiAdminName = "admin API"

// Server implements ServerInterface on top of the application handlers.
type Server struct {
	// Command handlers
	approveReceiptHandler commands.ApproveReceiptCommandHandler

	// Query handlers
	getUserCountsHandler queries.GetUserCountsQueryHandler
	getOrderHandler      queries.GetOrderQueryHandler
}

// NewServer creates the API server from its command and query handlers.
func NewServer(
	approveReceiptHandler commands.ApproveReceiptCommandHandler,
	getUserCountsHandler queries.GetUserCountsQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
) *Server {
	return &Server{
		approveReceiptHandler: approveReceiptHandler,
		getUserCountsHandler:  getUserCountsHandler,
		getOrderHandler:       getOrderHandler,
	}
}

// GetUserCounts handles GET /api/v1/users/count.
func (s *Server) GetUserCounts(ctx echo.Context) error {
	counts, err := s.getUserCountsHandler.Handle(ctx.Request().Context(), queries.NewGetUserCountsQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to count users",
		})
	}
	return ctx.JSON(http.StatusOK, UserCounts{Total: counts.Total, WithPhone: counts.WithPhone})
}

// GetOrder handles GET /api/v1/orders/{customerId}.
func (s *Server) GetOrder(ctx echo.Context, customerID int64) error {
	query, err := queries.NewGetOrderQuery(kernel.UserID(customerID))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer id: " + err.Error(),
		})
	}

	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Customer has no live order",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	response := Order{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Region:     o.Region,
		Vehicle:    o.Vehicle,
		Pickup:     o.Pickup,
		Dropoff:    o.Dropoff,
		When:       o.When,
	}
	if o.DriverID != 0 {
		response.DriverID = &o.DriverID
	}
	if o.Rating != 0 {
		response.Rating = &o.Rating
	}
	return ctx.JSON(http.StatusOK, response)
}

// ApproveDriver handles POST /api/v1/drivers/{driverId}/approval.
func (s *Server) ApproveDriver(ctx echo.Context, driverID int64, params ApproveDriverParams) error {
	cmd, err := commands.NewApproveReceiptCommand(
		kernel.UserID(params.XAdminID), apiAdminName, kernel.UserID(driverID), kernel.MessageRef{}, "")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid approval: " + err.Error(),
		})
	}

	regions, err := s.approveReceiptHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusOK, Approval{DriverID: driverID, Regions: regions})
	case errors.Is(err, commands.ErrAdminOnly):
		return ctx.JSON(http.StatusForbidden, Error{Code: http.StatusForbidden, Message: "Only an admin can approve drivers"})
	case errors.Is(err, commands.ErrDriverRegionsUnknown):
		return ctx.JSON(http.StatusConflict, Error{Code: http.StatusConflict, Message: "Driver regions are unknown"})
	case errors.Is(err, commands.ErrNoInviteSent):
		return ctx.JSON(http.StatusBadGateway, Error{Code: http.StatusBadGateway, Message: "No invite link could be delivered"})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to approve driver",
		})
	}
}

// NewEcho builds the HTTP application: the validated admin API under /api, the
// swagger UI, Prometheus metrics and a health probe. API calls must carry token as
// a bearer credential.
func NewEcho(ctx context.Context, si ServerInterface, token string, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadDocument(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerSwagger(doc); err != nil {
		return nil, err
	}
	validate, err := validateRequests(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(countRequests)
	e.Use(logRequests(logger))
	e.Use(requireToken(token))
	e.Use(validate)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	RegisterHandlers(e, si)

	return e, nil
}
