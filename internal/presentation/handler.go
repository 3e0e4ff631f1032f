package presentation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medigo/orders-service/internal/application"
	"github.com/medigo/orders-service/internal/domain"
	"github.com/medigo/orders-service/internal/presentation/helpers"
)

type OrdersHandler struct {
	svc *application.OrdersService
}

func NewOrdersHandler(svc *application.OrdersService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/api/payments/create-order", h.CreateOrder)
	r.Post("/api/payments/verify", h.VerifyPayment)
	r.Get("/api/order-status/{id}", h.OrderStatus)
}

type createOrderRequest struct {
	// Amount stays untyped: legacy clients send numbers and strings alike,
	// and both get coerced rather than rejected.
	Amount   any    `json:"amount"`
	Currency string `json:"currency"`
}

func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	res, err := h.svc.CreateOrder(r.Context(), req.Amount, req.Currency)
	if err != nil {
		// Upstream detail stays in the logs; the caller gets a generic
		// failure without gateway internals.
		helpers.HttpError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, res)
}

type verifyPaymentRequest struct {
	OrderID      string `json:"orderId"`
	RzpOrderID   string `json:"razorpay_order_id"`
	RzpPaymentID string `json:"razorpay_payment_id"`
	RzpSignature string `json:"razorpay_signature"`
}

func (h *OrdersHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.OrderID) == "" {
		helpers.HttpError(w, http.StatusBadRequest, "Missing orderId")
		return
	}

	err := h.svc.VerifyPayment(r.Context(), req.OrderID, req.RzpOrderID, req.RzpPaymentID, req.RzpSignature)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		helpers.HttpError(w, http.StatusNotFound, "Order not found")
		return
	case errors.Is(err, domain.ErrInvalidSignature):
		helpers.HttpError(w, http.StatusBadRequest, "Invalid signature")
		return
	case err != nil:
		helpers.HttpError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"orderId": req.OrderID,
	})
}

func (h *OrdersHandler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		helpers.HttpError(w, http.StatusBadRequest, "id is empty")
		return
	}

	o, err := h.svc.OrderStatus(id)
	if err != nil {
		helpers.HttpError(w, http.StatusNotFound, "Order not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, o)
}
