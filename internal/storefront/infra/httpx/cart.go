package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

type cartData struct {
	Cart CartResponse `json:"cart"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	view, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Cart retrieved successfully", cartData{Cart: mapCartToResponse(view)})
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.carts.AddItem(r.Context(), userID, string(req.ProductID), quantity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Item added to cart successfully", cartData{Cart: mapCartToResponse(view)})
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.carts.UpdateItem(r.Context(), userID, chi.URLParam(r, "itemId"), req.Quantity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Cart item updated successfully", cartData{Cart: mapCartToResponse(view)})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	view, err := h.carts.RemoveItem(r.Context(), userID, chi.URLParam(r, "itemId"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Item removed from cart successfully", cartData{Cart: mapCartToResponse(view)})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	view, err := h.carts.Clear(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Cart cleared", cartData{Cart: mapCartToResponse(view)})
}

// requireUser is a guard for cart routes mounted without the auth middleware.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	}
	return userID, ok
}
