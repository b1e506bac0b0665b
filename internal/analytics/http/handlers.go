// Package analytichttp exposes the analytics views over HTTP. Dashboard
// assembly fans out across the cached views so a cold cache fills in one
// round trip.
package analytichttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shoepoint/shoepoint/internal/analytics"
	"github.com/shoepoint/shoepoint/internal/analytics/export"
	"github.com/shoepoint/shoepoint/internal/platform/httpx"
	"github.com/shoepoint/shoepoint/internal/platform/store"
)

const requestTimeout = 5 * time.Second

// Handler coordinates HTTP requests for the analytics dashboard.
type Handler struct {
	logger  *slog.Logger
	service *analytics.Service
	csvPool sync.Pool
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service *analytics.Service) *Handler {
	h := &Handler{logger: logger, service: service}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.service.Overview(r.Context())
	if err != nil {
		h.serverError(w, "load overview", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ov)
}

func (h *Handler) handleRevenue(w http.ResponseWriter, r *http.Request) {
	rev, err := h.service.Revenue(r.Context())
	if err != nil {
		h.serverError(w, "load revenue", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rev)
}

func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Trend(r.Context())
	if err != nil {
		h.serverError(w, "load trend", err)
		return
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Limit", err.Error())
		return
	}
	ranked, err := h.service.Products(r.Context(), limit)
	if err != nil {
		h.serverError(w, "load top products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ranked)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Limit", err.Error())
		return
	}
	ranked, err := h.service.Categories(r.Context(), limit)
	if err != nil {
		h.serverError(w, "load top categories", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ranked)
}

func (h *Handler) handleCustomers(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Limit", err.Error())
		return
	}
	ranked, err := h.service.Customers(r.Context(), limit)
	if err != nil {
		h.serverError(w, "load top customers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ranked)
}

func (h *Handler) handleGeography(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Limit", err.Error())
		return
	}
	geo, err := h.service.Geography(r.Context(), limit)
	if err != nil {
		h.serverError(w, "load geography", err)
		return
	}
	httpx.JSON(w, http.StatusOK, geo)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var dash analytics.Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ov, err := h.service.Overview(ctx)
		if err != nil {
			return err
		}
		dash.Overview = ov
		return nil
	})

	g.Go(func() error {
		rev, err := h.service.Revenue(ctx)
		if err != nil {
			return err
		}
		dash.Revenue = rev
		return nil
	})

	g.Go(func() error {
		points, err := h.service.Trend(ctx)
		if err != nil {
			return err
		}
		dash.DailyTrend = points
		return nil
	})

	g.Go(func() error {
		ranked, err := h.service.Products(ctx, analytics.DefaultRankLimit)
		if err != nil {
			return err
		}
		dash.TopProducts = ranked
		return nil
	})

	g.Go(func() error {
		ranked, err := h.service.Categories(ctx, analytics.DefaultRankLimit)
		if err != nil {
			return err
		}
		dash.TopCategories = ranked
		return nil
	})

	g.Go(func() error {
		ranked, err := h.service.Customers(ctx, analytics.DefaultRankLimit)
		if err != nil {
			return err
		}
		dash.TopCustomers = ranked
		return nil
	})

	g.Go(func() error {
		geo, err := h.service.Geography(ctx, analytics.DefaultRankLimit)
		if err != nil {
			return err
		}
		dash.Geographic = geo
		return nil
	})

	g.Go(func() error {
		payments, segments, err := h.service.Segments(ctx)
		if err != nil {
			return err
		}
		dash.PaymentMethods = payments
		dash.SegmentCounts = segments
		return nil
	})

	if err := g.Wait(); err != nil {
		h.serverError(w, "load dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = "overview"
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer h.csvPool.Put(buf)

	var err error
	switch view {
	case "overview":
		var ov analytics.Overview
		if ov, err = h.service.Overview(r.Context()); err == nil {
			err = export.WriteOverviewCSV(buf, ov)
		}
	case "trend":
		var points []analytics.TrendPoint
		if points, err = h.service.Trend(r.Context()); err == nil {
			err = export.WriteTrendCSV(buf, points)
		}
	case "products":
		var ranked []analytics.RankedItem
		if ranked, err = h.service.Products(r.Context(), analytics.DefaultRankLimit); err == nil {
			err = export.WriteRankedItemsCSV(buf, ranked)
		}
	case "customers":
		var ranked []analytics.RankedCustomer
		if ranked, err = h.service.Customers(r.Context(), analytics.DefaultRankLimit); err == nil {
			err = export.WriteCustomersCSV(buf, ranked)
		}
	default:
		httpx.Problem(w, http.StatusBadRequest, "Invalid View", fmt.Sprintf("unknown export view %q", view))
		return
	}
	if err != nil {
		h.serverError(w, "export "+view, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=analytics-%s.csv", view))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) serverError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, store.ErrUnavailable) {
		h.logger.Error("analytics store unavailable", slog.String("action", action), slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Store Unavailable", "the document store is unreachable")
		return
	}
	h.logger.Error("analytics request failed", slog.String("action", action), slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return analytics.DefaultRankLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return limit, nil
}
