package orders

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shoepoint/shoepoint/internal/platform/httpx"
	"github.com/shoepoint/shoepoint/internal/platform/store"
)

// Handler wires HTTP endpoints for the order aggregator.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the orders handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/customers", h.handleCustomers)
	r.Get("/stats", h.handleStats)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Orders(r.Context())
	if err != nil {
		h.serverError(w, "list orders", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "order not found")
			return
		}
		h.serverError(w, "delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.Customers(r.Context())
	if err != nil {
		h.serverError(w, "list customers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customers)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ComputeStats(r.Context())
	if err != nil {
		h.serverError(w, "compute stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) serverError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, store.ErrUnavailable) {
		h.logger.Error("orders store unavailable", slog.String("action", action), slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "the document store is unreachable")
		return
	}
	h.logger.Error("orders request failed", slog.String("action", action), slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
}
