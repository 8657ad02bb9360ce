// Package http exposes the coordinator's REST surface: order submission and
// lifecycle endpoints for customers and pickers, credit top-up, refunds, the
// websocket upgrade and the debug views over the in-memory state.
package http

import (
	"errors"
	"net/http"

	"hawker/internal/core/application/usecases/commands"
	"hawker/internal/core/application/usecases/queries"
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
	"hawker/internal/core/events"
	"hawker/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Upgrader switches a request to a websocket connection.
type Upgrader interface {
	Upgrade(w http.ResponseWriter, r *http.Request) error
}

// Server routes HTTP requests to the command and query handlers.
type Server struct {
	submitOrderHandler    commands.SubmitOrderCommandHandler
	claimOrderHandler     commands.ClaimOrderCommandHandler
	releaseClaimHandler   commands.ReleaseClaimCommandHandler
	cancelOrderHandler    commands.CancelOrderCommandHandler
	completeOrderHandler  commands.CompleteOrderCommandHandler
	updateLocationHandler commands.UpdateLocationCommandHandler
	topUpHandler          commands.TopUpCreditsCommandHandler
	refundHandler         commands.RefundPaymentCommandHandler

	pendingOrdersHandler queries.GetPendingOrdersQueryHandler
	activePickersHandler queries.GetActivePickersQueryHandler

	ws Upgrader
}

// NewServer wires the HTTP surface to the application layer.
func NewServer(
	submitOrderHandler commands.SubmitOrderCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	releaseClaimHandler commands.ReleaseClaimCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	completeOrderHandler commands.CompleteOrderCommandHandler,
	updateLocationHandler commands.UpdateLocationCommandHandler,
	topUpHandler commands.TopUpCreditsCommandHandler,
	refundHandler commands.RefundPaymentCommandHandler,
	pendingOrdersHandler queries.GetPendingOrdersQueryHandler,
	activePickersHandler queries.GetActivePickersQueryHandler,
	ws Upgrader,
) (*Server, error) {
	if ws == nil {
		return nil, errs.NewValueIsRequiredError("ws")
	}

	return &Server{
		submitOrderHandler:    submitOrderHandler,
		claimOrderHandler:     claimOrderHandler,
		releaseClaimHandler:   releaseClaimHandler,
		cancelOrderHandler:    cancelOrderHandler,
		completeOrderHandler:  completeOrderHandler,
		updateLocationHandler: updateLocationHandler,
		topUpHandler:          topUpHandler,
		refundHandler:         refundHandler,
		pendingOrdersHandler:  pendingOrdersHandler,
		activePickersHandler:  activePickersHandler,
		ws:                    ws,
	}, nil
}

// RegisterRoutes attaches every endpoint to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/ws", s.WebSocket)

	e.POST("/orders", s.SubmitOrder)
	e.POST("/orders/:id/claim", s.ClaimOrder)
	e.POST("/orders/:id/release", s.ReleaseClaim)
	e.POST("/orders/:id/cancel", s.CancelOrder)
	e.POST("/orders/:id/complete", s.CompleteOrder)
	e.PATCH("/orders/:id/location", s.UpdateLocation)

	e.POST("/customers/:id/credits/topup", s.TopUpCredits)
	e.POST("/payments/:log_id/refund", s.RefundPayment)

	e.GET("/debug/pending_orders", s.PendingOrders)
	e.GET("/debug/active_pickers", s.ActivePickers)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type submitOrderRequest struct {
	CustomerID string                 `json:"customer_id"`
	StallID    string                 `json:"stall_id"`
	Items      []events.ItemPayload   `json:"items"`
	Location   events.LocationPayload `json:"location"`
}

type pickerRequest struct {
	PickerID string `json:"picker_id"`
}

type topUpRequest struct {
	Amount float64 `json:"amount"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// WebSocket handles GET /ws - upgrades the connection and hands it to the hub.
func (s *Server) WebSocket(ctx echo.Context) error {
	return s.ws.Upgrade(ctx.Response(), ctx.Request())
}

// SubmitOrder handles POST /orders - creates the order, charges the customer
// and broadcasts it to connected pickers.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	var req submitOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return respondError(ctx, err)
	}
	stallID, err := kernel.UUIDFromString(req.StallID)
	if err != nil {
		return respondError(ctx, err)
	}
	items, err := itemsFromPayload(req.Items)
	if err != nil {
		return respondError(ctx, err)
	}
	location, err := req.Location.ToDomain()
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewSubmitOrderCommand(customerID, stallID, items, location)
	if err != nil {
		return respondError(ctx, err)
	}

	ord, err := s.submitOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return respondOrder(ctx, http.StatusCreated, ord)
}

// ClaimOrder handles POST /orders/:id/claim - a picker's claim attempt. The
// losing side of a claim race gets 409.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	orderID, pickerID, err := orderAndPickerIDs(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, pickerID)
	if err != nil {
		return respondError(ctx, err)
	}

	ord, err := s.claimOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return respondOrder(ctx, http.StatusOK, ord)
}

// ReleaseClaim handles POST /orders/:id/release - returns a claimed order to
// the pending pool.
func (s *Server) ReleaseClaim(ctx echo.Context) error {
	orderID, pickerID, err := orderAndPickerIDs(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewReleaseClaimCommand(orderID, pickerID)
	if err != nil {
		return respondError(ctx, err)
	}

	ord, err := s.releaseClaimHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return respondOrder(ctx, http.StatusOK, ord)
}

// CancelOrder handles POST /orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	ord, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return respondOrder(ctx, http.StatusOK, ord)
}

// CompleteOrder handles POST /orders/:id/complete - marks delivery done and
// pays the picker fee.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	ord, err := s.completeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return respondOrder(ctx, http.StatusOK, ord)
}

// UpdateLocation handles PATCH /orders/:id/location.
func (s *Server) UpdateLocation(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var payload events.LocationPayload
	if err = ctx.Bind(&payload); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	location, err := payload.ToDomain()
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateLocationCommand(orderID, location)
	if err != nil {
		return respondError(ctx, err)
	}

	ord, err := s.updateLocationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return respondOrder(ctx, http.StatusOK, ord)
}

// TopUpCredits handles POST /customers/:id/credits/topup.
func (s *Server) TopUpCredits(ctx echo.Context) error {
	customerID, err := pathUUID(ctx, "id")
	if err != nil {
		return respondError(ctx, err)
	}

	var req topUpRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	amount, err := kernel.MoneyFromFloat(req.Amount)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewTopUpCreditsCommand(customerID, amount)
	if err != nil {
		return respondError(ctx, err)
	}

	entry, err := s.topUpHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, transactionResponseFrom(entry))
}

// RefundPayment handles POST /payments/:log_id/refund.
func (s *Server) RefundPayment(ctx echo.Context) error {
	logID, err := pathUUID(ctx, "log_id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRefundPaymentCommand(logID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.refundHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PendingOrders handles GET /debug/pending_orders.
func (s *Server) PendingOrders(ctx echo.Context) error {
	snapshots, err := s.pendingOrdersHandler.Handle(
		ctx.Request().Context(), queries.NewGetPendingOrdersQuery())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshots)
}

// ActivePickers handles GET /debug/active_pickers.
func (s *Server) ActivePickers(ctx echo.Context) error {
	pickers, err := s.activePickersHandler.Handle(
		ctx.Request().Context(), queries.NewGetActivePickersQuery())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, pickers)
}

func orderAndPickerIDs(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	var req pickerRequest
	if err = ctx.Bind(&req); err != nil {
		return kernel.UUID{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	pickerID, err := kernel.UUIDFromString(req.PickerID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	return orderID, pickerID, nil
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func itemsFromPayload(payloads []events.ItemPayload) ([]order.Item, error) {
	items := make([]order.Item, 0, len(payloads))
	for _, p := range payloads {
		price, err := kernel.MoneyFromFloat(p.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(p.Name, p.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func respondOrder(ctx echo.Context, status int, ord *order.Order) error {
	snapshot, err := events.SnapshotFromOrder(ord)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(status, snapshot)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// respondError maps the application error taxonomy onto HTTP statuses.
func respondError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrCollaboratorUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrInsufficientFunds):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, errorResponse{
		Code:    status,
		Message: err.Error(),
	})
}
