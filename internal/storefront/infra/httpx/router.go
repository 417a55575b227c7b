package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

// NewRouter mounts the API. auth guards the cart routes.
func NewRouter(handler *Handler, auth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(handler.NotFound)
	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", handler.ListProducts)
			r.Get("/category/{category}", handler.ProductsByCategory)
			r.Get("/gender/{gender}", handler.ProductsByGender)
			r.Get("/search/{query}", handler.SearchProducts)
			r.Get("/categories/all", handler.Categories)
			r.Get("/{id}", handler.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", handler.GetCart)
			r.Post("/add", handler.AddCartItem)
			r.Put("/update/{itemId}", handler.UpdateCartItem)
			r.Delete("/remove/{itemId}", handler.RemoveCartItem)
			r.Delete("/clear", handler.ClearCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/process", handler.ProcessCheckout)
			r.Get("/order/{orderId}", handler.GetOrder)
			r.Get("/orders/{userId}", handler.ListUserOrders)
			r.Put("/order/{orderId}/status", handler.UpdateOrderStatus)
			r.Post("/shipping-cost", handler.ShippingCost)
			r.Post("/validate-address", handler.ValidateAddress)
		})

		r.Post("/users", handler.RegisterUser)
		r.Get("/users/{id}", handler.GetUser)
	})
	return r
}
