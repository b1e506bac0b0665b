package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shoepoint/shoepoint/internal/platform/httpx"
	"github.com/shoepoint/shoepoint/internal/platform/store"
)

// Handler wires HTTP endpoints for the product catalog.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/summary", h.handleSummary)
	r.Post("/reset", h.handleReset)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := q.Get("q")
	category := q.Get("category")

	products, err := h.service.Search(r.Context(), term, category)
	if err != nil {
		h.serverError(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be an integer")
		return
	}
	product, err := h.service.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.serverError(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.Add(r.Context(), input)
	if err != nil {
		h.serverError(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be an integer")
		return
	}
	var input ProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.serverError(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "product id must be an integer")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		h.serverError(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Reset(r.Context())
	if err != nil {
		h.serverError(w, "reset catalog", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summarize(r.Context())
	if err != nil {
		h.serverError(w, "summarize catalog", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) serverError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, store.ErrUnavailable) {
		h.logger.Error("catalog store unavailable", slog.String("action", action), slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "the document store is unreachable")
		return
	}
	h.logger.Error("catalog request failed", slog.String("action", action), slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
