package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/checkout"
)

func (h *Handler) ProcessCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.checkout.Checkout(r.Context(), mapCheckoutRequest(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Order processed successfully", map[string]any{
		"order": mapOrderToSummary(order),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Order retrieved successfully", map[string]any{
		"order": mapOrderToResponse(order),
	})
}

func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}

	orders, pg, err := h.checkout.ListUserOrders(r.Context(), chi.URLParam(r, "userId"), page, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User orders retrieved successfully", map[string]any{
		"orders":     mapOrdersToResponse(orders),
		"pagination": pg,
	})
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.checkout.UpdateOrderStatus(r.Context(), chi.URLParam(r, "orderId"), entity.OrderStatus(req.Status))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Order status updated successfully", map[string]any{
		"order": OrderStatusResponse{
			ID:        order.ID,
			Status:    string(order.Status),
			UpdatedAt: order.UpdatedAt,
		},
	})
}

func (h *Handler) ShippingCost(w http.ResponseWriter, r *http.Request) {
	var req ShippingCostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q := checkout.ShippingQuote(len(req.Items))
	writeOK(w, http.StatusOK, "Shipping cost calculated successfully", map[string]any{
		"shippingCost": q.Total.InexactFloat64(),
		"breakdown": ShippingBreakdown{
			BaseCost:       q.Base.InexactFloat64(),
			AdditionalCost: q.Additional.InexactFloat64(),
			Total:          q.Total.InexactFloat64(),
		},
	})
}

func (h *Handler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	var req ValidateAddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := checkout.ValidateAddress(req.Address); err != nil {
		_, code := mapErrorToStatus(err)
		writeError(w, http.StatusBadRequest, code, capitalize(publicMessage(err)))
		return
	}
	writeOK(w, http.StatusOK, "Address is valid", map[string]any{
		"address": req.Address,
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
