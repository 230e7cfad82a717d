package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// BearerAuthScopes is the context key holding the scopes of the bearerAuth scheme.
const BearerAuthScopes = "bearerAuth.Scopes"

// Wire types of the admin API, one per schema in openapi.yaml.

type UserCounts struct {
	Total     int `json:"total"`
	WithPhone int `json:"withPhone"`
}

type Order struct {
	ID         string `json:"id"`
	CustomerID int64  `json:"customerId"`
	Status     string `json:"status"`
	Region     string `json:"region"`
	Vehicle    string `json:"vehicle"`
	Pickup     string `json:"pickup"`
	Dropoff    string `json:"dropoff"`
	When       string `json:"when"`
	DriverID   *int64 `json:"driverId,omitempty"`
	Rating     *int   `json:"rating,omitempty"`
}

type Approval struct {
	DriverID int64    `json:"driverId"`
	Regions  []string `json:"regions"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ApproveDriverParams are the non-path parameters of approveDriver.
type ApproveDriverParams struct {
	XAdminID int64
}

// ServerInterface is implemented by the admin API server.
type ServerInterface interface {
	// GET /api/v1/users/count
	GetUserCounts(ctx echo.Context) error
	// GET /api/v1/orders/{customerId}
	GetOrder(ctx echo.Context, customerID int64) error
	// POST /api/v1/drivers/{driverId}/approval
	ApproveDriver(ctx echo.Context, driverID int64, params ApproveDriverParams) error
}

// ServerInterfaceWrapper binds path and header parameters before calling the server.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetUserCounts(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetUserCounts(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	var customerID int64
	err := runtime.BindStyledParameterWithOptions("simple", "customerId", ctx.Param("customerId"), &customerID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter customerId: %s", err))
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetOrder(ctx, customerID)
}

func (w *ServerInterfaceWrapper) ApproveDriver(ctx echo.Context) error {
	var driverID int64
	err := runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}
	ctx.Set(BearerAuthScopes, []string{})

	var params ApproveDriverParams
	values := ctx.Request().Header.Values("X-Admin-Id")
	if len(values) != 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "Expected exactly one value for header parameter X-Admin-Id")
	}
	err = runtime.BindStyledParameterWithOptions("simple", "X-Admin-Id", values[0], &params.XAdminID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter X-Admin-Id: %s", err))
	}

	return w.Handler.ApproveDriver(ctx, driverID, params)
}

// EchoRouter is the part of *echo.Echo and *echo.Group routes are registered on.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds the admin API routes to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET("/api/v1/users/count", w.GetUserCounts)
	router.GET("/api/v1/orders/:customerId", w.GetOrder)
	router.POST("/api/v1/drivers/:driverId/approval", w.ApproveDriver)
}
