package analytichttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers analytics endpoints onto the router. CSV export gets
// its own tighter rate limit since it bypasses the JSON cache encoding.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/overview", h.handleOverview)
	r.Get("/revenue", h.handleRevenue)
	r.Get("/trend", h.handleTrend)
	r.Get("/products", h.handleProducts)
	r.Get("/categories", h.handleCategories)
	r.Get("/customers", h.handleCustomers)
	r.Get("/geography", h.handleGeography)
	r.Get("/dashboard", h.handleDashboard)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/export.csv", h.handleCSV)
	})
}
