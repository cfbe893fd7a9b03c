package handler

import (
	"net/http"

	"eshop/internal/model"
	"eshop/internal/response"
	"eshop/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// GetAll handles GET /orders.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAll(r.Context())
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Order")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// GetByUser handles GET /orders/get/userorders/{userId}.
func (h *OrderHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId", "User")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	orders, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PUT /orders/{id}; only the status is changed.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Order")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	var req model.OrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Order")
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeMessage(w, "The order is deleted!")
}

// TotalSales handles GET /orders/get/totalsales.
func (h *OrderHandler) TotalSales(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalSales(r.Context())
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, model.TotalSales{TotalSales: total})
}

// Count handles GET /orders/get/count.
func (h *OrderHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Count(r.Context())
	if err != nil {
		response.Error(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{"orderCount": n})
}
