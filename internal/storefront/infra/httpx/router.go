package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/salad-storefront/internal/storefront/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)
	r.Get("/checkout/log/{key}", handler.CheckoutLog)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/salads", handler.ListSalads)
		r.Get("/ingredients", handler.ListIngredients)
	})

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Session)

		r.Get("/cart", handler.GetCart)
		r.Delete("/cart", handler.ClearCart)
		r.Get("/cart/count", handler.CartCount)
		r.Post("/cart/items", handler.AddItem)
		r.Patch("/cart/items/{index}", handler.UpdateItem)
		r.Delete("/cart/items/{index}", handler.RemoveItem)

		r.Post("/checkout", handler.Checkout)
	})

	return otelhttp.NewHandler(r, "storefront")
}
