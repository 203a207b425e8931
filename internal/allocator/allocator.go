// Package allocator implements the batch seat allocation procedure.  A batch
// of department requests is matched against the pool of available seats
// across all offices using a greedy first-fit scan in office creation order.
// The whole batch runs inside one store transaction and concurrent batches
// are serialized, so seats are claimed at most once and a failed batch leaves
// no partial state behind.
package allocator

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Office is the allocator's view of an office: just enough to drive the scan
// order and label the report.
type Office struct {
	ID   uint64
	Name string
}

// Seat is the allocator's view of a seat eligible for claiming.
type Seat struct {
	ID         uint64
	OfficeID   uint64
	SeatNumber uint32
}

// SeatOps is the set of store operations the allocation loop needs.  Within
// a batch every call runs against the same transaction.  FetchAvailable must
// return seats in ascending seat number so repeated runs over identical state
// produce identical reports.
type SeatOps interface {
	ListOfficesOrdered(ctx context.Context) ([]Office, error)
	CountAvailable(ctx context.Context) (int, error)
	FetchAvailable(ctx context.Context, officeID uint64, limit int) ([]Seat, error)
	MarkOccupied(ctx context.Context, seatIDs []uint64, department, phone string) (int64, error)
}

// SeatStore hands the allocator a transactional scope over SeatOps.  The
// implementation must roll back every change made inside fn when fn returns
// an error.
type SeatStore interface {
	WithinTx(ctx context.Context, fn func(ops SeatOps) error) error
}

// Request is one department's row in an allocation batch.  Requests are
// transient; they are never persisted.
type Request struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
	Phone      string `json:"phone"`
}

// OfficeGrant records how many seats one office contributed to a department.
type OfficeGrant struct {
	OfficeID   uint64 `json:"office_id"`
	OfficeName string `json:"office_name"`
	Seats      int    `json:"seats"`
}

// DepartmentReport is the per-department slice of an allocation report,
// listing the offices that contributed seats in scan order.
type DepartmentReport struct {
	Department string        `json:"department"`
	Phone      string        `json:"phone"`
	Requested  int           `json:"requested"`
	Allocated  int           `json:"allocated"`
	Offices    []OfficeGrant `json:"offices"`
}

// Report is the outcome of one allocation batch.  Departments appear in
// submission order.
type Report struct {
	Departments    []DepartmentReport `json:"departments"`
	TotalRequested int                `json:"total_requested"`
	TotalAllocated int                `json:"total_allocated"`
}

// Grants flattens the report into the department -> office -> seats mapping
// consumed by exports.
func (r *Report) Grants() map[string]map[string]int {
	out := make(map[string]map[string]int, len(r.Departments))
	for _, d := range r.Departments {
		m := make(map[string]int, len(d.Offices))
		for _, g := range d.Offices {
			m[g.OfficeName] = g.Seats
		}
		out[d.Department] = m
	}
	return out
}

// CapacityError rejects a batch whose aggregate demand exceeds the aggregate
// number of available seats.  It is raised before any seat is touched.
type CapacityError struct {
	Required  int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough seats available: required %d, available %d", e.Required, e.Available)
}

// Allocator assigns available seats to departments.  The mutex serializes
// allocation batches within the process; the store transaction plus the
// conditional occupancy update guard against writers outside it.
type Allocator struct {
	mu    sync.Mutex
	store SeatStore
}

// New constructs an Allocator over the given store.
func New(store SeatStore) *Allocator {
	if store == nil {
		panic("nil store passed to allocator.New")
	}
	return &Allocator{store: store}
}

// Sanitize drops malformed request rows: empty department name, non-positive
// seat count, or missing contact phone. Malformed rows are discarded
// silently and do not count toward the batch total. Department names and
// phones are trimmed.
func Sanitize(reqs []Request) []Request {
	valid := make([]Request, 0, len(reqs))
	for _, r := range reqs {
		dept := strings.TrimSpace(r.Department)
		phone := strings.TrimSpace(r.Phone)
		if dept == "" || phone == "" || r.Count <= 0 {
			continue
		}
		valid = append(valid, Request{Department: dept, Count: r.Count, Phone: phone})
	}
	return valid
}

// Allocate runs one allocation batch and returns the per-office breakdown.
//
// Requests are processed in submission order. For each department the
// offices are scanned in ascending id order and every office contributes up
// to its remaining available seats (ascending seat number) until the
// department's count is met. The aggregate capacity check and the greedy
// loop share one transaction: a batch either commits in full or leaves every
// seat untouched.
//
// A *CapacityError is returned when the valid rows request more seats than
// are available anywhere; any other error means the store failed mid-batch
// and the transaction was rolled back.
func (a *Allocator) Allocate(ctx context.Context, reqs []Request) (*Report, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	valid := Sanitize(reqs)
	totalRequested := 0
	for _, r := range valid {
		totalRequested += r.Count
	}

	report := &Report{
		Departments:    make([]DepartmentReport, 0, len(valid)),
		TotalRequested: totalRequested,
	}

	err := a.store.WithinTx(ctx, func(ops SeatOps) error {
		available, err := ops.CountAvailable(ctx)
		if err != nil {
			return fmt.Errorf("count available seats: %w", err)
		}
		if available < totalRequested {
			return &CapacityError{Required: totalRequested, Available: available}
		}

		offices, err := ops.ListOfficesOrdered(ctx)
		if err != nil {
			return fmt.Errorf("list offices: %w", err)
		}

		for _, req := range valid {
			dept := DepartmentReport{
				Department: req.Department,
				Phone:      req.Phone,
				Requested:  req.Count,
				Offices:    []OfficeGrant{},
			}
			for _, office := range offices {
				if dept.Allocated >= req.Count {
					break
				}
				seats, err := ops.FetchAvailable(ctx, office.ID, req.Count-dept.Allocated)
				if err != nil {
					return fmt.Errorf("fetch available seats in office %d: %w", office.ID, err)
				}
				if len(seats) == 0 {
					continue
				}
				ids := make([]uint64, len(seats))
				for i, s := range seats {
					ids[i] = s.ID
				}
				claimed, err := ops.MarkOccupied(ctx, ids, req.Department, req.Phone)
				if err != nil {
					return fmt.Errorf("mark seats occupied in office %d: %w", office.ID, err)
				}
				if claimed != int64(len(ids)) {
					// Someone else grabbed a seat between fetch and update.
					return ErrClaimConflict
				}
				dept.Offices = append(dept.Offices, OfficeGrant{
					OfficeID:   office.ID,
					OfficeName: office.Name,
					Seats:      len(seats),
				})
				dept.Allocated += len(seats)
			}
			report.Departments = append(report.Departments, dept)
			report.TotalAllocated += dept.Allocated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
