package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/platform/httpx"
	"github.com/shoepoint/shoepoint/internal/platform/store"
)

// Handler wires HTTP endpoints for the sales ledger.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the sales handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleRecord)
	r.Get("/summary", h.handleSummary)
	r.Get("/export", h.handleExport)
	r.Delete("/", h.handleClear)
	r.Get("/{id}", h.handleGet)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fromRaw, toRaw := q.Get("from"), q.Get("to")
	if fromRaw == "" && toRaw == "" {
		log, err := h.service.SalesLog(r.Context())
		if err != nil {
			h.serverError(w, "list sales", err)
			return
		}
		httpx.JSON(w, http.StatusOK, log)
		return
	}

	from, to, err := parseDateRange(fromRaw, toRaw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", err.Error())
		return
	}
	log, err := h.service.FilterByDate(r.Context(), from, to)
	if err != nil {
		h.serverError(w, "filter sales", err)
		return
	}
	httpx.JSON(w, http.StatusOK, log)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var input RecordSaleInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	sale, err := h.service.RecordSale(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
		case errors.Is(err, catalog.ErrInsufficientStock):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Insufficient Stock", err.Error())
		case errors.Is(err, ErrInvalidQuantity):
			httpx.Problem(w, http.StatusBadRequest, "Invalid Quantity", err.Error())
		default:
			h.serverError(w, "record sale", err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.Sale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "sale not found")
			return
		}
		h.serverError(w, "get sale", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "sale not found")
			return
		}
		h.serverError(w, "delete sale", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.serverError(w, "clear sales", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summarize(r.Context())
	if err != nil {
		h.serverError(w, "summarize sales", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Export(r.Context())
	if err != nil {
		h.serverError(w, "export sales", err)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=sales-export.json")
	httpx.JSON(w, http.StatusOK, bundle)
}

func (h *Handler) serverError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, store.ErrUnavailable) {
		h.logger.Error("sales store unavailable", slog.String("action", action), slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "the document store is unreachable")
		return
	}
	h.logger.Error("sales request failed", slog.String("action", action), slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
}

func parseDateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromRaw != "" {
		if from, err = time.Parse("2006-01-02", fromRaw); err != nil {
			return time.Time{}, time.Time{}, errors.New("from must be formatted YYYY-MM-DD")
		}
	}
	if toRaw != "" {
		if to, err = time.Parse("2006-01-02", toRaw); err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be formatted YYYY-MM-DD")
		}
		// Make the upper bound inclusive of the whole day.
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}
