package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-allocation/internal/allocator"
	"github.com/iliyamo/office-seat-allocation/internal/cache"
	"github.com/iliyamo/office-seat-allocation/internal/config"
	"github.com/iliyamo/office-seat-allocation/internal/handler"
	"github.com/iliyamo/office-seat-allocation/internal/repository"
)

func adminFixture() (*handler.AdminHandler, *fakeOffices, *fakeSeats) {
	offices := &fakeOffices{}
	seats := &fakeSeats{}
	h := handler.NewAdminHandler(offices, seats, allocator.New(newFakeAllocStore()), cache.New(nil, config.CacheConfig{}), standardRates(), 3)
	return h, offices, seats
}

func postJSON(e *echo.Echo, target, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestCreateOfficeProvisionsSeatPool(t *testing.T) {
	h, offices, seats := adminFixture()
	e := echo.New()

	rec, c := postJSON(e, "/v1/offices", `{"name":"HQ","location":"Berlin","capacity":3}`)
	require.NoError(t, h.CreateOffice(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, offices.offices, 1)
	assert.Equal(t, "HQ", offices.offices[0].Name)

	// Default pool size of the fixture is 3, numbered from 1.
	require.Len(t, seats.seats, 3)
	for i, s := range seats.seats {
		assert.Equal(t, uint32(i+1), s.SeatNumber)
		assert.Equal(t, repository.SeatAvailable, s.Status)
	}
}

func TestCreateOfficeSeatCountOverride(t *testing.T) {
	h, _, seats := adminFixture()
	e := echo.New()

	rec, c := postJSON(e, "/v1/offices", `{"name":"Annex","capacity":10,"seat_count":5}`)
	require.NoError(t, h.CreateOffice(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, seats.seats, 5)
}

func TestCreateOfficeValidation(t *testing.T) {
	h, _, _ := adminFixture()
	e := echo.New()

	for _, body := range []string{
		`{"name":"","capacity":3}`,
		`{"name":"HQ"}`,
		`{"name":"HQ","capacity":0}`,
		`{"name":"HQ","capacity":3,"seat_count":-1}`,
	} {
		rec, c := postJSON(e, "/v1/offices", body)
		require.NoError(t, h.CreateOffice(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestCreateSeatUsesNextNumber(t *testing.T) {
	h, offices, seats := adminFixture()
	offices.offices = []repository.Office{{ID: 1, Name: "HQ", Capacity: 10}}
	seats.seats = []repository.Seat{{ID: 1, OfficeID: 1, SeatNumber: 4, Status: repository.SeatAvailable}}

	e := echo.New()
	rec, c := postJSON(e, "/v1/offices/1/seats", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.CreateSeat(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created repository.Seat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, uint32(5), created.SeatNumber)
}

func TestCreateSeatUnknownOffice(t *testing.T) {
	h, _, _ := adminFixture()
	e := echo.New()

	rec, c := postJSON(e, "/v1/offices/99/seats", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.CreateSeat(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReleaseSeat(t *testing.T) {
	h, _, seats := adminFixture()
	dept, phone := "Eng", "+1"
	seats.seats = []repository.Seat{{
		ID: 7, OfficeID: 1, SeatNumber: 2,
		Status: repository.SeatOccupied, Department: &dept, Phone: &phone,
	}}

	e := echo.New()
	rec, c := postJSON(e, "/v1/seats/7/release", ``)
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.ReleaseSeat(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var released repository.Seat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &released))
	assert.Equal(t, repository.SeatAvailable, released.Status)
	assert.Nil(t, released.Department)
	assert.Nil(t, released.Phone)
}

func TestReleaseSeatNotFound(t *testing.T) {
	h, _, _ := adminFixture()
	e := echo.New()

	rec, c := postJSON(e, "/v1/seats/42/release", ``)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.ReleaseSeat(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
