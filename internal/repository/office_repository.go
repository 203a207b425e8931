package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Office represents a physical office location holding a pool of seats.
// Capacity records the intended headroom of the site; the actual seat pool
// lives in the seats table.
type Office struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Capacity  uint32    `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OfficeOccupancy aggregates seat counts for one office.  It feeds the
// occupancy endpoint and the chart rendering.
type OfficeOccupancy struct {
	OfficeID   uint64 `json:"office_id"`
	OfficeName string `json:"office_name"`
	TotalSeats int    `json:"total_seats"`
	Occupied   int    `json:"occupied"`
	Available  int    `json:"available"`
}

// OfficeRepo provides methods to work with offices in the database.
type OfficeRepo struct {
	db *sql.DB
}

// NewOfficeRepo constructs an OfficeRepo with the given DB handle.
func NewOfficeRepo(db *sql.DB) *OfficeRepo {
	return &OfficeRepo{db: db}
}

// Create inserts a single office record. On success the office's ID is populated.
func (r *OfficeRepo) Create(ctx context.Context, o *Office) error {
	const q = `INSERT INTO offices (name, location, capacity) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, o.Name, o.Location, o.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM offices WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt, &o.UpdatedAt)
}

// GetByID retrieves an office by its id.
func (r *OfficeRepo) GetByID(ctx context.Context, id uint64) (*Office, error) {
	const q = `SELECT id, name, location, capacity, created_at, updated_at
	           FROM offices WHERE id = ?`
	var o Office
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&o.ID, &o.Name, &o.Location, &o.Capacity, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfficeNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListOrdered returns all offices in ascending id order. The allocation scan
// relies on this ordering being stable across calls.
func (r *OfficeRepo) ListOrdered(ctx context.Context) ([]Office, error) {
	const q = `SELECT id, name, location, capacity, created_at, updated_at
	           FROM offices ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Office
	for rows.Next() {
		var o Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Location, &o.Capacity, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Occupancy returns per-office seat totals grouped by status, in ascending
// office id order. Offices without seats are included with zero counts.
func (r *OfficeRepo) Occupancy(ctx context.Context) ([]OfficeOccupancy, error) {
	const q = `SELECT o.id, o.name,
	                  COUNT(s.id),
	                  COALESCE(SUM(s.status = 'occupied'), 0)
	           FROM offices o
	           LEFT JOIN seats s ON s.office_id = o.id
	           GROUP BY o.id, o.name
	           ORDER BY o.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OfficeOccupancy
	for rows.Next() {
		var oc OfficeOccupancy
		if err := rows.Scan(&oc.OfficeID, &oc.OfficeName, &oc.TotalSeats, &oc.Occupied); err != nil {
			return nil, err
		}
		oc.Available = oc.TotalSeats - oc.Occupied
		result = append(result, oc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
