package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dipanshukale/CraftCrazy/services"
	"github.com/dipanshukale/CraftCrazy/validation"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type completeOrderRequest struct {
	OrderDBID         string `json:"orderDBId" validate:"required"`
	PaymentID         string `json:"paymentId"`
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpaySignature string `json:"razorpaySignature" validate:"required"`
}

type failOrderRequest struct {
	OrderDBID string `json:"orderDBId" validate:"required"`
	Reason    string `json:"reason"`
}

type retryPaymentRequest struct {
	OrderDBID string `json:"orderDBId" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type getOrdersResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type updateStatusResponse struct {
	Message string `json:"message"`
	Order   any    `json:"order"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req validation.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}

	result, err := h.orders.CreateOrder(c.Request().Context(), req)
	if err != nil {
		if result == nil {
			return err
		}
		// The order exists; the client can retry the payment with its id.
		code, msg := statusFor(err)
		return c.JSON(code, map[string]any{
			"success":   false,
			"error":     msg,
			"orderDBId": result.OrderDBID,
		})
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) CompleteOrder(c echo.Context) error {
	var req completeOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(validation.Describe(err))
	}
	paymentID := req.PaymentID
	if paymentID == "" {
		paymentID = req.RazorpayPaymentID
	}

	order, err := h.orders.CompleteOrder(c.Request().Context(), services.CompleteOrderInput{
		OrderDBID:      req.OrderDBID,
		PaymentID:      paymentID,
		GatewayOrderID: req.RazorpayOrderID,
		Signature:      req.RazorpaySignature,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) FailOrder(c echo.Context) error {
	var req failOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(validation.Describe(err))
	}

	order, err := h.orders.FailOrder(c.Request().Context(), req.OrderDBID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) RetryPayment(c echo.Context) error {
	var req retryPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(validation.Describe(err))
	}

	result, err := h.orders.RetryPayment(c.Request().Context(), req.OrderDBID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.orders.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	msg := "No orders found"
	if len(orders) > 0 {
		msg = "Orders fetched successfully"
	}
	return c.JSON(http.StatusOK, getOrdersResponse{Success: true, Message: msg, Data: orders})
}

func (h *OrderHandler) GetOrderedProducts(c echo.Context) error {
	items, err := h.orders.ListLineItems(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(items), Data: items})
}

func (h *OrderHandler) GetCustomers(c echo.Context) error {
	customers, err := h.orders.ListCustomers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(customers), Data: customers})
}

func (h *OrderHandler) GetOrdersByStatus(c echo.Context) error {
	orders, err := h.orders.ListByOrderStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(orders), Data: orders})
}

func (h *OrderHandler) GetOrdersByTransaction(c echo.Context) error {
	orders, err := h.orders.ListByTransactionStatus(c.Request().Context(), c.Param("transactionStatus"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(orders), Data: orders})
}

func (h *OrderHandler) GetActiveOrders(c echo.Context) error {
	orders, err := h.orders.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(orders), Data: orders})
}

// UpdateOrderStatus accepts an optional If-Match header carrying the order's __v.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request format"})
	}

	expected := services.AnyVersion
	if raw := strings.Trim(c.Request().Header.Get("If-Match"), `" `); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "If-Match must be an order version"})
		}
		expected = v
	}

	order, err := h.orders.UpdateOrderStatus(c.Request().Context(), c.Param("orderId"), req.Status, expected)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, updateStatusResponse{Message: "Order status updated Successfully", Order: order})
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrConflict):
		code, msg := statusFor(err)
		return c.JSON(code, messageResponse{Message: msg})
	default:
		return err
	}
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	deleted, err := h.orders.DeleteOrder(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return err
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Order not found"})
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Order deleted successfully"})
}
