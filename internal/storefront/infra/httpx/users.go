package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Email)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user": mapUserToResponse(u),
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User retrieved successfully", map[string]any{
		"user": mapUserToResponse(u),
	})
}
