// Package http is the thin REST surface of the order engine. Authentication
// happens upstream: the gateway forwards the user id in X-User-Id and the
// role claim in X-User-Role.
package http

import (
	"log/slog"
	"net/http"

	"orders/internal/core/application/access"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/clock"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler commands.CreateOrderCommandHandler
	deleteOrderHandler commands.DeleteOrderCommandHandler

	// Query handlers
	getOrderHandler   queries.GetOrderQueryHandler
	listOrdersHandler queries.ListOrdersQueryHandler

	adminRole string
	clock     clock.Clock
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	adminRole string,
	clk clock.Clock,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler: createOrderHandler,
		deleteOrderHandler: deleteOrderHandler,
		getOrderHandler:    getOrderHandler,
		listOrdersHandler:  listOrdersHandler,
		adminRole:          adminRole,
		clock:              clk,
		logger:             logger.With("component", "http"),
	}
}

// Register mounts the order routes under /api/v1.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/:orderId", s.GetOrder)

	management := api.Group("/management")
	management.GET("/orders", s.GetAllOrders)
	management.GET("/orders/:orderId", s.GetAnyOrder)
	management.DELETE("/orders/:orderId", s.DeleteOrder)
}

func (s *Server) ownerPolicy(c echo.Context) (access.OwnerPolicy, error) {
	raw := c.Request().Header.Get(HeaderUserID)
	if raw == "" {
		return access.OwnerPolicy{}, errs.NewValueIsRequiredError(HeaderUserID)
	}

	userID, err := kernel.UUIDFromString(raw)
	if err != nil {
		return access.OwnerPolicy{}, errs.NewValueIsInvalidErrorWithCause(HeaderUserID, err)
	}

	return access.NewOwnerPolicy(userID)
}

func (s *Server) adminPolicy(c echo.Context) access.AdminPolicy {
	return access.NewAdminPolicy(c.Request().Header.Get(HeaderUserRole), s.adminRole)
}

func orderIDParam(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return id, nil
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	policy, err := s.ownerPolicy(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var body []orderItemDTO
	if err = (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	items, err := toItems(body)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewCreateOrderCommand(policy.UserID(), items)
	if err != nil {
		return s.writeError(c, err)
	}

	view, err := s.createOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, fromView(view))
}

// GetOrders handles GET /api/v1/orders: the caller's own orders.
func (s *Server) GetOrders(c echo.Context) error {
	policy, err := s.ownerPolicy(c)
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewListUserOrdersQuery(policy.UserID(), policy)
	if err != nil {
		return s.writeError(c, err)
	}

	views, err := s.listOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, fromViews(views))
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(c echo.Context) error {
	policy, err := s.ownerPolicy(c)
	if err != nil {
		return s.writeError(c, err)
	}
	return s.getOrder(c, policy)
}

// GetAnyOrder handles GET /api/v1/management/orders/:orderId.
func (s *Server) GetAnyOrder(c echo.Context) error {
	return s.getOrder(c, s.adminPolicy(c))
}

func (s *Server) getOrder(c echo.Context, policy access.Policy) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, policy)
	if err != nil {
		return s.writeError(c, err)
	}

	view, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, fromView(view))
}

// GetAllOrders handles GET /api/v1/management/orders[?user=<id>].
func (s *Server) GetAllOrders(c echo.Context) error {
	policy := s.adminPolicy(c)

	var (
		query queries.ListOrdersQuery
		err   error
	)
	if raw := c.QueryParam("user"); raw != "" {
		userID, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return s.writeError(c, errs.NewValueIsInvalidErrorWithCause("user", parseErr))
		}
		query, err = queries.NewListUserOrdersQuery(userID, policy)
	} else {
		query, err = queries.NewListAllOrdersQuery(policy)
	}
	if err != nil {
		return s.writeError(c, err)
	}

	views, err := s.listOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, fromViews(views))
}

// DeleteOrder handles DELETE /api/v1/management/orders/:orderId.
func (s *Server) DeleteOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, s.adminPolicy(c))
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.deleteOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
