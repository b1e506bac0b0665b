package returns

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shoepoint/shoepoint/internal/platform/httpx"
	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/sales"
)

// Handler wires HTTP endpoints for return processing.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the returns handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers return routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleHistory)
	r.Post("/", h.handleProcess)
	r.Get("/eligible", h.handleEligible)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	var input ProcessReturnInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	record, err := h.service.ProcessReturn(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrSaleNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "sale not found")
		case errors.Is(err, ErrOverReturn):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Return Rejected", err.Error())
		case errors.Is(err, ErrInvalidQuantity):
			httpx.Problem(w, http.StatusBadRequest, "Invalid Quantity", err.Error())
		default:
			h.serverError(w, "process return", err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.ReturnHistory(r.Context())
	if err != nil {
		h.serverError(w, "list returns", err)
		return
	}
	httpx.JSON(w, http.StatusOK, history)
}

func (h *Handler) handleEligible(w http.ResponseWriter, r *http.Request) {
	eligible, err := h.service.ReturnableSales(r.Context())
	if err != nil {
		h.serverError(w, "list returnable sales", err)
		return
	}
	httpx.JSON(w, http.StatusOK, eligible)
}

func (h *Handler) serverError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, store.ErrUnavailable) {
		h.logger.Error("returns store unavailable", slog.String("action", action), slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "the document store is unreachable")
		return
	}
	h.logger.Error("returns request failed", slog.String("action", action), slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
}
