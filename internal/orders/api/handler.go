package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/auth"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/logger"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/orders/db"
	"github.com/Ahmadvoltic/hyperscaleinboxes123-sub001/internal/utils"
)

type Handler struct {
	OrderService *orders.OrderService
	Guard        *auth.Guard
	Logger       *logger.Logger
}

func NewHandler(orderService *orders.OrderService, guard *auth.Guard, log *logger.Logger) *Handler {
	return &Handler{OrderService: orderService, Guard: guard, Logger: log}
}

// requireAdmin re-verifies the session token. The admission gate already
// redirects browsers, but these routes are reachable directly.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if _, err := h.Guard.FromRequest(r); err != nil {
		h.Logger.LogAuth("TOKEN_REJECTED", fmt.Sprintf("%s %s", r.Method, r.URL.Path))
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	orderList, err := h.OrderService.ListOrders()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to retrieve orders")
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, map[string][]db.Order{"orders": orderList}); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: failed to encode response: %v", err))
	}
}

type updateOrderRequest struct {
	OrderID string `json:"orderId"`
	db.OrderPatch
}

type updateOrderResponse struct {
	Success bool      `json:"success"`
	Order   *db.Order `json:"order"`
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateOrder: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OrderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	order, err := h.OrderService.UpdateOrder(req.OrderID, req.OrderPatch)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			utils.WriteError(w, http.StatusNotFound, "order not found")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("UpdateOrder: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, updateOrderResponse{Success: true, Order: order}); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateOrder: failed to encode response: %v", err))
	}
}

func (h *Handler) ExportAccountsCSV(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	csvBytes, err := h.OrderService.ExportAccountsCSV(orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			utils.WriteError(w, http.StatusNotFound, "order not found")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("ExportAccountsCSV: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to export accounts")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
	if _, err := w.Write(csvBytes); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ExportAccountsCSV: failed to write response: %v", err))
	}
}
