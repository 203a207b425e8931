package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Seat statuses. A seat is either free for allocation or claimed by a
// department; there is no third state.
const (
	SeatAvailable = "available"
	SeatOccupied  = "occupied"
)

// Seat represents a single seat within an office. Department and Phone are
// set while the seat is occupied and cleared on release.
type Seat struct {
	ID         uint64    `json:"id"`
	OfficeID   uint64    `json:"office_id"`
	SeatNumber uint32    `json:"seat_number"`
	Status     string    `json:"status"`
	Department *string   `json:"department"`
	Phone      *string   `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// Create inserts a single seat record. On success the seat's ID is populated.
func (r *SeatRepo) Create(ctx context.Context, s *Seat) error {
	if s.Status == "" {
		s.Status = SeatAvailable
	}
	const q = `INSERT INTO seats (office_id, seat_number, status)
	           VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.OfficeID, s.SeatNumber, s.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple seats in a single statement. It is used when a
// new office is provisioned with its initial seat pool.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (office_id, seat_number, status) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		status := seat.Status
		if status == "" {
			status = SeatAvailable
		}
		args = append(args, seat.OfficeID, seat.SeatNumber, status)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByOffice retrieves all seats of an office ordered by seat_number.
func (r *SeatRepo) GetByOffice(ctx context.Context, officeID uint64) ([]Seat, error) {
	const q = `SELECT id, office_id, seat_number, status, department, phone, created_at, updated_at
	           FROM seats
	           WHERE office_id = ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*Seat, error) {
	const q = `SELECT id, office_id, seat_number, status, department, phone, created_at, updated_at
	           FROM seats WHERE id = ?`
	var s Seat
	var dept, phone sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.OfficeID, &s.SeatNumber, &s.Status, &dept, &phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	if dept.Valid {
		d := dept.String
		s.Department = &d
	}
	if phone.Valid {
		p := phone.String
		s.Phone = &p
	}
	return &s, nil
}

// CountAvailable returns the number of available seats across all offices.
func (r *SeatRepo) CountAvailable(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE status = 'available'`
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// NextSeatNumber returns the lowest unused seat number for an office,
// starting at 1.
func (r *SeatRepo) NextSeatNumber(ctx context.Context, officeID uint64) (uint32, error) {
	const q = `SELECT COALESCE(MAX(seat_number), 0) + 1 FROM seats WHERE office_id = ?`
	var n uint32
	if err := r.db.QueryRowContext(ctx, q, officeID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Release resets an occupied seat to available and clears its occupant
// metadata. Releasing a seat that is already available is a no-op; a missing
// seat yields ErrSeatNotFound.
func (r *SeatRepo) Release(ctx context.Context, id uint64) error {
	const q = `UPDATE seats
	           SET status = 'available', department = NULL, phone = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'occupied'`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "already available" from "does not exist".
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// scanSeat reads one seat row from a multi-row result set.
func scanSeat(rows *sql.Rows) (Seat, error) {
	var s Seat
	var dept, phone sql.NullString
	if err := rows.Scan(&s.ID, &s.OfficeID, &s.SeatNumber, &s.Status, &dept, &phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return Seat{}, err
	}
	if dept.Valid {
		d := dept.String
		s.Department = &d
	}
	if phone.Valid {
		p := phone.String
		s.Phone = &p
	}
	return s, nil
}
