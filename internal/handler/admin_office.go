package handler // handler package contains administrative office and seat handlers

import (
    "errors"   // errors package for comparing sentinels
    "net/http" // http defines status code constants
    "strconv"  // strconv parses URL parameters to numbers
    "strings"  // strings manipulates and trims text

    "github.com/iliyamo/office-seat-allocation/internal/repository" // repository exposes database models
    "github.com/labstack/echo/v4"                                   // echo framework supplies request context
)

// CreateOffice handles POST /v1/offices and creates an office along with its
// initial seat pool. Seats are numbered from 1 and provisioned available.
func (h *AdminHandler) CreateOffice(c echo.Context) error {
    var body struct { // anonymous struct to bind JSON payload
        Name      string  `json:"name"`       // required office name
        Location  string  `json:"location"`   // free-form location text
        Capacity  *uint32 `json:"capacity"`   // required intended capacity
        SeatCount *int    `json:"seat_count"` // optional override of the provisioned pool size
    }
    if err := c.Bind(&body); err != nil { // bind the incoming JSON
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" || body.Capacity == nil || *body.Capacity == 0 { // validate required fields
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "name and capacity are required and capacity must be greater than zero",
        })
    }
    seatCount := h.SeatsPerOffice // default pool size per new office
    if body.SeatCount != nil {
        if *body.SeatCount < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_count must not be negative"})
        }
        seatCount = *body.SeatCount
    }

    office := &repository.Office{
        Name:     name,
        Location: strings.TrimSpace(body.Location),
        Capacity: *body.Capacity,
    }
    if err := h.OfficeRepo.Create(c.Request().Context(), office); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create office"})
    }

    seats := make([]repository.Seat, 0, seatCount)
    for i := 1; i <= seatCount; i++ {
        seats = append(seats, repository.Seat{
            OfficeID:   office.ID,
            SeatNumber: uint32(i),
            Status:     repository.SeatAvailable,
        })
    }
    if err := h.SeatRepo.CreateBulk(c.Request().Context(), seats); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create seats"})
    }

    h.Cache.Invalidate(c.Request().Context(), cacheKeyOffices, cacheKeyOccupancy, cacheKeyChart)
    return c.JSON(http.StatusCreated, office)
}

// CreateSeat handles POST /v1/offices/:id/seats and adds a single seat to an
// existing office. When seat_number is omitted the next free number is used.
func (h *AdminHandler) CreateSeat(c echo.Context) error {
    officeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.OfficeRepo.GetByID(c.Request().Context(), officeID); err != nil {
        if errors.Is(err, repository.ErrOfficeNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "office not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    var body struct {
        SeatNumber *uint32 `json:"seat_number"` // optional explicit seat number
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    var seatNumber uint32
    if body.SeatNumber != nil {
        if *body.SeatNumber == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number must be greater than zero"})
        }
        seatNumber = *body.SeatNumber
    } else {
        next, err := h.SeatRepo.NextSeatNumber(c.Request().Context(), officeID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
        }
        seatNumber = next
    }
    seat := &repository.Seat{
        OfficeID:   officeID,
        SeatNumber: seatNumber,
        Status:     repository.SeatAvailable,
    }
    if err := h.SeatRepo.Create(c.Request().Context(), seat); err != nil {
        // The unique (office_id, seat_number) key turns duplicates into errors.
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat number already exists in this office"})
    }

    h.Cache.Invalidate(c.Request().Context(), seatsCacheKey(officeID), cacheKeyOccupancy, cacheKeyChart)
    return c.JSON(http.StatusCreated, seat)
}

// ReleaseSeat handles POST /v1/seats/:id/release and resets an occupied seat
// to available, clearing its department and contact phone. Releasing an
// already available seat succeeds without changes.
func (h *AdminHandler) ReleaseSeat(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.SeatRepo.Release(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrSeatNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    seat, err := h.SeatRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    h.Cache.Invalidate(c.Request().Context(), seatsCacheKey(seat.OfficeID), cacheKeyOccupancy, cacheKeyChart)
    return c.JSON(http.StatusOK, seat)
}
