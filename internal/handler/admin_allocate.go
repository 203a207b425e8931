package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/office-seat-allocation/internal/allocator"
	"github.com/iliyamo/office-seat-allocation/internal/export"
	"github.com/iliyamo/office-seat-allocation/internal/metrics"
	"github.com/iliyamo/office-seat-allocation/internal/queue"
	"github.com/iliyamo/office-seat-allocation/internal/utility"
)

// notificationStatus records the outcome of one department's SMS dispatch.
// Dispatch is best-effort: a failure is reported here but never fails the
// allocation itself.
type notificationStatus struct {
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Status     string `json:"status"` // "sent" or "failed: <reason>"
}

type allocateReq struct {
	Requests []allocator.Request `json:"requests"`
}

type allocateResp struct {
	Report        *allocator.Report    `json:"report"`
	UtilityCosts  utility.Breakdown    `json:"utility_costs"`
	Notifications []notificationStatus `json:"notifications"`
}

// Allocate handles POST /v1/allocate. It runs the allocation batch, derives
// the utility cost breakdown, dispatches one SMS event per department and
// responds with all three. Pass ?format=csv to receive the report and costs
// as a CSV download instead of JSON.
func (h *AdminHandler) Allocate(c echo.Context) error {
	var body allocateReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Requests) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "requests must not be empty"})
	}

	ctx := c.Request().Context()
	report, err := h.Allocator.Allocate(ctx, body.Requests)
	if err != nil {
		var capErr *allocator.CapacityError
		switch {
		case errors.As(err, &capErr):
			metrics.AllocationFailuresTotal.WithLabelValues("capacity").Inc()
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":     "not enough seats available",
				"required":  capErr.Required,
				"available": capErr.Available,
			})
		case errors.Is(err, allocator.ErrClaimConflict):
			metrics.AllocationFailuresTotal.WithLabelValues("conflict").Inc()
			return c.JSON(http.StatusConflict, echo.Map{"error": "allocation conflicted with a concurrent change, retry"})
		default:
			metrics.AllocationFailuresTotal.WithLabelValues("store").Inc()
			c.Logger().Errorf("allocation failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "allocation failed"})
		}
	}

	metrics.AllocationsTotal.Inc()
	metrics.SeatsAllocatedTotal.Add(float64(report.TotalAllocated))
	if available, err := h.SeatRepo.CountAvailable(ctx); err == nil {
		metrics.SeatsAvailable.Set(float64(available))
	}

	costs := utility.ForReport(h.Rates, report)
	notifications := h.dispatchNotifications(c, report, costs)

	// Every office in the report changed state; drop all cached reads.
	invalidate := []string{cacheKeyOffices, cacheKeyOccupancy, cacheKeyChart}
	seen := make(map[uint64]bool)
	for _, dept := range report.Departments {
		for _, grant := range dept.Offices {
			if !seen[grant.OfficeID] {
				seen[grant.OfficeID] = true
				invalidate = append(invalidate, seatsCacheKey(grant.OfficeID))
			}
		}
	}
	h.Cache.Invalidate(ctx, invalidate...)

	if c.QueryParam("format") == "csv" {
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="allocation-report.csv"`)
		return c.Blob(http.StatusOK, "text/csv", []byte(export.ReportCSV(report, costs)))
	}
	return c.JSON(http.StatusOK, allocateResp{
		Report:        report,
		UtilityCosts:  costs,
		Notifications: notifications,
	})
}

// dispatchNotifications publishes one event per department. Each dispatch is
// independent; failures are recorded in the returned statuses and counted,
// nothing more.
func (h *AdminHandler) dispatchNotifications(c echo.Context, report *allocator.Report, costs utility.Breakdown) []notificationStatus {
	costByDept := make(map[string]utility.Cost, len(costs.Departments))
	for _, dc := range costs.Departments {
		costByDept[dc.Department] = dc.Cost
	}

	now := time.Now().UTC().Format(time.RFC3339)
	statuses := make([]notificationStatus, 0, len(report.Departments))
	for _, dept := range report.Departments {
		seatsByOffice := make(map[string]int, len(dept.Offices))
		for _, grant := range dept.Offices {
			seatsByOffice[grant.OfficeName] = grant.Seats
		}
		cost := costByDept[dept.Department]
		ev := queue.SeatsAllocatedEvent{
			Department:     dept.Department,
			Phone:          dept.Phone,
			Requested:      dept.Requested,
			Allocated:      dept.Allocated,
			SeatsByOffice:  seatsByOffice,
			WaterBillCents: cost.WaterBillCents,
			PowerBillCents: cost.PowerBillCents,
			AllocatedAt:    now,
		}
		status := notificationStatus{Department: dept.Department, Phone: dept.Phone, Status: "sent"}
		if err := h.Notify(c.Request().Context(), ev); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			c.Logger().Warnf("notification for %s failed: %v", dept.Department, err)
			status.Status = "failed: " + err.Error()
		}
		statuses = append(statuses, status)
	}
	return statuses
}
