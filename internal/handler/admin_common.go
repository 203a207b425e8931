package handler // handler defines http handlers

import (
    "context"
    "strconv"

    "github.com/iliyamo/office-seat-allocation/internal/allocator"  // allocation core
    "github.com/iliyamo/office-seat-allocation/internal/cache"      // redis read cache
    "github.com/iliyamo/office-seat-allocation/internal/config"     // utility rates
    "github.com/iliyamo/office-seat-allocation/internal/queue"      // broker event payloads
    "github.com/iliyamo/office-seat-allocation/internal/repository" // repository holds data access layer
    queue_publisher "github.com/iliyamo/office-seat-allocation/internal/service"
)

// Cache keys invalidated by writes. Seat listings additionally use a
// per-office key, see seatsCacheKey.
const (
    cacheKeyOffices   = "offices"
    cacheKeyOccupancy = "occupancy"
    cacheKeyChart     = "chart"
)

func seatsCacheKey(officeID uint64) string {
    return "seats:" + strconv.FormatUint(officeID, 10)
}

// NotifyFunc publishes one department's allocation event. It is a field so
// tests can substitute the RabbitMQ publisher.
type NotifyFunc func(ctx context.Context, event queue.SeatsAllocatedEvent) error

// OfficeStore is the slice of the office repository the handlers consume.
// *repository.OfficeRepo satisfies it; tests provide in-memory fakes.
type OfficeStore interface {
    Create(ctx context.Context, o *repository.Office) error
    GetByID(ctx context.Context, id uint64) (*repository.Office, error)
    ListOrdered(ctx context.Context) ([]repository.Office, error)
    Occupancy(ctx context.Context) ([]repository.OfficeOccupancy, error)
}

// SeatStore is the slice of the seat repository the handlers consume.
// *repository.SeatRepo satisfies it.
type SeatStore interface {
    Create(ctx context.Context, s *repository.Seat) error
    CreateBulk(ctx context.Context, seats []repository.Seat) error
    GetByOffice(ctx context.Context, officeID uint64) ([]repository.Seat, error)
    GetByID(ctx context.Context, id uint64) (*repository.Seat, error)
    NextSeatNumber(ctx context.Context, officeID uint64) (uint32, error)
    CountAvailable(ctx context.Context) (int, error)
    Release(ctx context.Context, id uint64) error
}

// AdminHandler bundles the dependencies of the administrative endpoints:
// office and seat provisioning, seat release, and allocation batches.
type AdminHandler struct {
    OfficeRepo     OfficeStore          // office persistence
    SeatRepo       SeatStore            // seat persistence
    Allocator      *allocator.Allocator // the allocation core
    Cache          *cache.Store         // read cache to invalidate on writes
    Rates          config.RatesConfig   // utility billing rates
    SeatsPerOffice int                  // seats provisioned per new office
    Notify         NotifyFunc           // per-department SMS event publisher
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(officeRepo OfficeStore, seatRepo SeatStore, alloc *allocator.Allocator, cacheStore *cache.Store, rates config.RatesConfig, seatsPerOffice int) *AdminHandler {
    if officeRepo == nil || seatRepo == nil || alloc == nil || cacheStore == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{
        OfficeRepo:     officeRepo,
        SeatRepo:       seatRepo,
        Allocator:      alloc,
        Cache:          cacheStore,
        Rates:          rates,
        SeatsPerOffice: seatsPerOffice,
        Notify:         queue_publisher.PublishSeatsAllocated,
    }
}
