package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-allocation/internal/cache"
	"github.com/iliyamo/office-seat-allocation/internal/chart"
	"github.com/iliyamo/office-seat-allocation/internal/repository"
)

// PublicHandler exposes the unauthenticated browse endpoints: office and
// seat listings, occupancy summaries and the occupancy chart. Reads go
// through the cache store when one is configured.
type PublicHandler struct {
	OfficeRepo OfficeStore
	SeatRepo   SeatStore
	Cache      *cache.Store
}

// NewPublicHandler constructs a PublicHandler and panics if any dependency is nil.
func NewPublicHandler(officeRepo OfficeStore, seatRepo SeatStore, cacheStore *cache.Store) *PublicHandler {
	if officeRepo == nil || seatRepo == nil || cacheStore == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{OfficeRepo: officeRepo, SeatRepo: seatRepo, Cache: cacheStore}
}

// ListOffices handles GET /v1/offices and returns all offices in id order.
func (h *PublicHandler) ListOffices(c echo.Context) error {
	ctx := c.Request().Context()
	var items []repository.Office
	if !h.Cache.GetJSON(ctx, cacheKeyOffices, &items) {
		var err error
		items, err = h.OfficeRepo.ListOrdered(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		h.Cache.SetJSON(ctx, cacheKeyOffices, items)
	}
	if items == nil {
		items = []repository.Office{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListSeats handles GET /v1/offices/:id/seats and returns the office's seats
// ordered by seat number, including occupant metadata for occupied seats.
func (h *PublicHandler) ListSeats(c echo.Context) error {
	officeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.OfficeRepo.GetByID(ctx, officeID); err != nil {
		if errors.Is(err, repository.ErrOfficeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "office not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var items []repository.Seat
	if !h.Cache.GetJSON(ctx, seatsCacheKey(officeID), &items) {
		items, err = h.SeatRepo.GetByOffice(ctx, officeID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		h.Cache.SetJSON(ctx, seatsCacheKey(officeID), items)
	}
	if items == nil {
		items = []repository.Seat{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Occupancy handles GET /v1/occupancy and returns per-office seat totals.
func (h *PublicHandler) Occupancy(c echo.Context) error {
	items, err := h.occupancy(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []repository.OfficeOccupancy{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// OccupancyChart handles GET /v1/occupancy.png and renders the per-office
// occupancy bar chart. The rendered PNG is cached alongside the JSON data.
func (h *PublicHandler) OccupancyChart(c echo.Context) error {
	ctx := c.Request().Context()
	if png, ok := h.Cache.GetBytes(ctx, cacheKeyChart); ok {
		return c.Blob(http.StatusOK, "image/png", png)
	}
	items, err := h.occupancy(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	png, err := chart.OccupancyPNG(items)
	if err != nil {
		if errors.Is(err, chart.ErrNoOffices) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no offices to chart"})
		}
		c.Logger().Errorf("chart rendering failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chart rendering failed"})
	}
	h.Cache.SetBytes(ctx, cacheKeyChart, png)
	return c.Blob(http.StatusOK, "image/png", png)
}

// occupancy loads the per-office summary through the cache.
func (h *PublicHandler) occupancy(c echo.Context) ([]repository.OfficeOccupancy, error) {
	ctx := c.Request().Context()
	var items []repository.OfficeOccupancy
	if h.Cache.GetJSON(ctx, cacheKeyOccupancy, &items) {
		return items, nil
	}
	items, err := h.OfficeRepo.Occupancy(ctx)
	if err != nil {
		return nil, err
	}
	h.Cache.SetJSON(ctx, cacheKeyOccupancy, items)
	return items, nil
}
