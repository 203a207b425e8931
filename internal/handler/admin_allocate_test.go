package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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
	"github.com/iliyamo/office-seat-allocation/internal/queue"
	"github.com/iliyamo/office-seat-allocation/internal/repository"
)

// fakeAllocStore backs the allocator with a fixed pool of available seats
// spread across offices.
type fakeAllocStore struct {
	offices []allocator.Office
	seats   []fakeSeat
}

type fakeSeat struct {
	id       uint64
	officeID uint64
	number   uint32
	occupied bool
}

func newFakeAllocStore(seatCounts ...int) *fakeAllocStore {
	s := &fakeAllocStore{}
	var next uint64
	for i, count := range seatCounts {
		id := uint64(i + 1)
		s.offices = append(s.offices, allocator.Office{ID: id, Name: fmt.Sprintf("O%d", id)})
		for n := 1; n <= count; n++ {
			next++
			s.seats = append(s.seats, fakeSeat{id: next, officeID: id, number: uint32(n)})
		}
	}
	return s
}

func (s *fakeAllocStore) WithinTx(ctx context.Context, fn func(ops allocator.SeatOps) error) error {
	snapshot := make([]fakeSeat, len(s.seats))
	copy(snapshot, s.seats)
	if err := fn(s); err != nil {
		s.seats = snapshot
		return err
	}
	return nil
}

func (s *fakeAllocStore) ListOfficesOrdered(ctx context.Context) ([]allocator.Office, error) {
	return s.offices, nil
}

func (s *fakeAllocStore) CountAvailable(ctx context.Context) (int, error) {
	n := 0
	for _, seat := range s.seats {
		if !seat.occupied {
			n++
		}
	}
	return n, nil
}

func (s *fakeAllocStore) FetchAvailable(ctx context.Context, officeID uint64, limit int) ([]allocator.Seat, error) {
	var out []allocator.Seat
	for _, seat := range s.seats {
		if len(out) == limit {
			break
		}
		if seat.officeID == officeID && !seat.occupied {
			out = append(out, allocator.Seat{ID: seat.id, OfficeID: seat.officeID, SeatNumber: seat.number})
		}
	}
	return out, nil
}

func (s *fakeAllocStore) MarkOccupied(ctx context.Context, seatIDs []uint64, department, phone string) (int64, error) {
	var claimed int64
	for _, id := range seatIDs {
		for i := range s.seats {
			if s.seats[i].id == id && !s.seats[i].occupied {
				s.seats[i].occupied = true
				claimed++
			}
		}
	}
	return claimed, nil
}

// fakeOffices and fakeSeats satisfy the handler store interfaces with just
// enough behavior for the endpoints under test.
type fakeOffices struct {
	offices   []repository.Office
	occupancy []repository.OfficeOccupancy
}

func (f *fakeOffices) Create(ctx context.Context, o *repository.Office) error {
	o.ID = uint64(len(f.offices) + 1)
	f.offices = append(f.offices, *o)
	return nil
}

func (f *fakeOffices) GetByID(ctx context.Context, id uint64) (*repository.Office, error) {
	for i := range f.offices {
		if f.offices[i].ID == id {
			return &f.offices[i], nil
		}
	}
	return nil, repository.ErrOfficeNotFound
}

func (f *fakeOffices) ListOrdered(ctx context.Context) ([]repository.Office, error) {
	return f.offices, nil
}

func (f *fakeOffices) Occupancy(ctx context.Context) ([]repository.OfficeOccupancy, error) {
	return f.occupancy, nil
}

type fakeSeats struct {
	seats     []repository.Seat
	available int
}

func (f *fakeSeats) Create(ctx context.Context, s *repository.Seat) error {
	s.ID = uint64(len(f.seats) + 1)
	f.seats = append(f.seats, *s)
	return nil
}

func (f *fakeSeats) CreateBulk(ctx context.Context, seats []repository.Seat) error {
	f.seats = append(f.seats, seats...)
	return nil
}

func (f *fakeSeats) GetByOffice(ctx context.Context, officeID uint64) ([]repository.Seat, error) {
	var out []repository.Seat
	for _, s := range f.seats {
		if s.OfficeID == officeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSeats) GetByID(ctx context.Context, id uint64) (*repository.Seat, error) {
	for i := range f.seats {
		if f.seats[i].ID == id {
			return &f.seats[i], nil
		}
	}
	return nil, repository.ErrSeatNotFound
}

func (f *fakeSeats) NextSeatNumber(ctx context.Context, officeID uint64) (uint32, error) {
	var max uint32
	for _, s := range f.seats {
		if s.OfficeID == officeID && s.SeatNumber > max {
			max = s.SeatNumber
		}
	}
	return max + 1, nil
}

func (f *fakeSeats) CountAvailable(ctx context.Context) (int, error) { return f.available, nil }

func (f *fakeSeats) Release(ctx context.Context, id uint64) error {
	for i := range f.seats {
		if f.seats[i].ID == id {
			f.seats[i].Status = repository.SeatAvailable
			f.seats[i].Department = nil
			f.seats[i].Phone = nil
			return nil
		}
	}
	return repository.ErrSeatNotFound
}

func standardRates() config.RatesConfig {
	return config.RatesConfig{WaterLitersPerSeat: 5, WaterRateCents: 200, PowerKWhPerSeat: 2.5, PowerRateCents: 500}
}

func newAdminHandler(store *fakeAllocStore) (*handler.AdminHandler, *[]queue.SeatsAllocatedEvent) {
	h := handler.NewAdminHandler(&fakeOffices{}, &fakeSeats{}, allocator.New(store), cache.New(nil, config.CacheConfig{}), standardRates(), 50)
	var published []queue.SeatsAllocatedEvent
	h.Notify = func(ctx context.Context, event queue.SeatsAllocatedEvent) error {
		published = append(published, event)
		return nil
	}
	return h, &published
}

func doAllocate(t *testing.T, h *handler.AdminHandler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.Allocate(c))
	return rec
}

func TestAllocateEndpoint(t *testing.T) {
	h, published := newAdminHandler(newFakeAllocStore(3, 2))

	body := `{"requests":[{"department":"Eng","count":4,"phone":"+4915201"}]}`
	rec := doAllocate(t, h, "/v1/allocate", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Report struct {
			TotalRequested int `json:"total_requested"`
			TotalAllocated int `json:"total_allocated"`
			Departments    []struct {
				Department string `json:"department"`
				Offices    []struct {
					OfficeName string `json:"office_name"`
					Seats      int    `json:"seats"`
				} `json:"offices"`
			} `json:"departments"`
		} `json:"report"`
		UtilityCosts struct {
			Total struct {
				WaterBillCents uint64 `json:"water_bill_cents"`
				PowerBillCents uint64 `json:"power_bill_cents"`
			} `json:"total"`
		} `json:"utility_costs"`
		Notifications []struct {
			Department string `json:"department"`
			Status     string `json:"status"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 4, resp.Report.TotalRequested)
	assert.Equal(t, 4, resp.Report.TotalAllocated)
	require.Len(t, resp.Report.Departments, 1)
	require.Len(t, resp.Report.Departments[0].Offices, 2)
	assert.Equal(t, "O1", resp.Report.Departments[0].Offices[0].OfficeName)
	assert.Equal(t, 3, resp.Report.Departments[0].Offices[0].Seats)
	assert.Equal(t, uint64(800), resp.UtilityCosts.Total.WaterBillCents)
	assert.Equal(t, uint64(2000), resp.UtilityCosts.Total.PowerBillCents)

	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "sent", resp.Notifications[0].Status)
	require.Len(t, *published, 1)
	assert.Equal(t, "Eng", (*published)[0].Department)
	assert.Equal(t, map[string]int{"O1": 3, "O2": 1}, (*published)[0].SeatsByOffice)
}

func TestAllocateEndpointInsufficientCapacity(t *testing.T) {
	h, published := newAdminHandler(newFakeAllocStore(3, 2))

	body := `{"requests":[{"department":"Eng","count":6,"phone":"+1"}]}`
	rec := doAllocate(t, h, "/v1/allocate", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error     string `json:"error"`
		Required  int    `json:"required"`
		Available int    `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Required)
	assert.Equal(t, 5, resp.Available)
	assert.Empty(t, *published, "rejected batches must not notify anyone")
}

func TestAllocateEndpointCSV(t *testing.T) {
	h, _ := newAdminHandler(newFakeAllocStore(3, 2))

	body := `{"requests":[{"department":"Eng","count":4,"phone":"+1"}]}`
	rec := doAllocate(t, h, "/v1/allocate?format=csv", body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	assert.Equal(t, "department,office,seats,water_liters,water_bill,power_kwh,power_bill", lines[0])
	assert.Contains(t, lines, "Eng,O1,3,,,,")
	assert.Contains(t, lines, "Eng,O2,1,,,,")
}

func TestAllocateEndpointNotificationFailureIsIsolated(t *testing.T) {
	h, _ := newAdminHandler(newFakeAllocStore(5))
	h.Notify = func(ctx context.Context, event queue.SeatsAllocatedEvent) error {
		if event.Department == "Eng" {
			return errors.New("broker down")
		}
		return nil
	}

	body := `{"requests":[{"department":"Eng","count":2,"phone":"+1"},{"department":"Sales","count":2,"phone":"+2"}]}`
	rec := doAllocate(t, h, "/v1/allocate", body)
	assert.Equal(t, http.StatusOK, rec.Code, "notification failures must not fail the allocation")

	var resp struct {
		Notifications []struct {
			Department string `json:"department"`
			Status     string `json:"status"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 2)
	assert.Equal(t, "failed: broker down", resp.Notifications[0].Status)
	assert.Equal(t, "sent", resp.Notifications[1].Status)
}

func TestAllocateEndpointEmptyBatch(t *testing.T) {
	h, _ := newAdminHandler(newFakeAllocStore(5))
	rec := doAllocate(t, h, "/v1/allocate", `{"requests":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
