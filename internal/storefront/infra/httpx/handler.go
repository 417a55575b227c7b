// Package httpx is the JSON HTTP API of the storefront.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/cart"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/checkout"
	"github.com/jcmexdev/storefront/internal/storefront/core/services/user"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 10 << 20

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves every route of the API.
type Handler struct {
	catalog  *catalog.Gateway
	carts    *cart.Service
	checkout *checkout.Service
	users    *user.Service
	db       Pinger
	started  time.Time
}

func NewHandler(
	catalog *catalog.Gateway,
	carts *cart.Service,
	checkout *checkout.Service,
	users *user.Service,
	db Pinger,
) *Handler {
	return &Handler{
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		users:    users,
		db:       db,
		started:  time.Now(),
	}
}

type healthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	res := healthResponse{
		Success:   true,
		Message:   "Server is running",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Seconds(),
	}
	if err := h.db.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "health check failed", "error", err)
		res.Success = false
		res.Message = "Database unavailable"
		writeJSON(w, http.StatusServiceUnavailable, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "Route "+r.URL.RequestURI()+" not found")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{entity.ErrValidation, http.StatusBadRequest, "validation_error"},
	{entity.ErrNotFound, http.StatusNotFound, "not_found"},
	{entity.ErrConflict, http.StatusConflict, "conflict"},
	{entity.ErrUpstreamUnavailable, http.StatusBadGateway, "upstream_unavailable"},
}

func mapErrorToStatus(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// handleError writes err as a JSON error. Known kinds expose the detail that
// follows the kind in the message; anything else is logged and hidden.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, status, code, "Internal server error")
		return
	}
	writeError(w, status, code, publicMessage(err))
}

func publicMessage(err error) string {
	msg := err.Error()
	for _, k := range errorKinds {
		prefix := k.err.Error() + ": "
		if i := strings.Index(msg, prefix); i >= 0 {
			return msg[i+len(prefix):]
		}
	}
	return msg
}
