package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/shoepoint/shoepoint/internal/analytics/http"
	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/orders"
	"github.com/shoepoint/shoepoint/internal/returns"
	"github.com/shoepoint/shoepoint/internal/sales"
	"github.com/shoepoint/shoepoint/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CatalogHandler   *catalog.Handler
	SalesHandler     *sales.Handler
	ReturnsHandler   *returns.Handler
	OrdersHandler    *orders.Handler
	AnalyticsHandler *analytichttp.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with ShoePoint defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		if params.CatalogHandler != nil {
			api.Route("/products", params.CatalogHandler.MountRoutes)
		}
		if params.SalesHandler != nil {
			api.Route("/sales", params.SalesHandler.MountRoutes)
		}
		if params.ReturnsHandler != nil {
			api.Route("/returns", params.ReturnsHandler.MountRoutes)
		}
		if params.OrdersHandler != nil {
			api.Route("/orders", params.OrdersHandler.MountRoutes)
		}
		if params.AnalyticsHandler != nil {
			api.Route("/analytics", params.AnalyticsHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
