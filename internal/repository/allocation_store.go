package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/office-seat-allocation/internal/allocator"
)

// AllocationStore adapts the seats and offices tables to the allocator's
// store contract. Every batch runs inside one transaction; available seats
// are fetched with FOR UPDATE and claimed with a conditional update so a
// concurrent writer can never occupy the same seat twice.
type AllocationStore struct {
	db *sql.DB
}

// NewAllocationStore constructs an AllocationStore with the given DB handle.
func NewAllocationStore(db *sql.DB) *AllocationStore {
	return &AllocationStore{db: db}
}

// WithinTx runs fn inside a single transaction and rolls back every change
// when fn returns an error.
func (s *AllocationStore) WithinTx(ctx context.Context, fn func(ops allocator.SeatOps) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin allocation tx: %w", err)
	}
	if err := fn(&allocationTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit allocation tx: %w", err)
	}
	return nil
}

// allocationTx is the transaction-scoped implementation of allocator.SeatOps.
type allocationTx struct {
	tx *sql.Tx
}

// ListOfficesOrdered returns all offices in ascending id order, the fixed
// scan order of the allocation loop.
func (t *allocationTx) ListOfficesOrdered(ctx context.Context) ([]allocator.Office, error) {
	const q = `SELECT id, name FROM offices ORDER BY id`
	rows, err := t.tx.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []allocator.Office
	for rows.Next() {
		var o allocator.Office
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountAvailable returns the number of available seats across all offices.
func (t *allocationTx) CountAvailable(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM seats WHERE status = 'available'`
	var n int
	if err := t.tx.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// FetchAvailable returns up to limit available seats of one office in
// ascending seat number order. Rows are locked for the remainder of the
// transaction.
func (t *allocationTx) FetchAvailable(ctx context.Context, officeID uint64, limit int) ([]allocator.Seat, error) {
	if limit <= 0 {
		return nil, nil
	}
	const q = `SELECT id, office_id, seat_number
	           FROM seats
	           WHERE office_id = ? AND status = 'available'
	           ORDER BY seat_number
	           LIMIT ?
	           FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, q, officeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []allocator.Seat
	for rows.Next() {
		var s allocator.Seat
		if err := rows.Scan(&s.ID, &s.OfficeID, &s.SeatNumber); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkOccupied stamps the given seats with the department and contact phone.
// The status predicate makes the claim conditional: rows that stopped being
// available are left alone and the affected-row count exposes the mismatch.
func (t *allocationTx) MarkOccupied(ctx context.Context, seatIDs []uint64, department, phone string) (int64, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seatIDs)), ",")
	query := `UPDATE seats
	          SET status = 'occupied', department = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE id IN (` + placeholders + `) AND status = 'available'`
	args := make([]interface{}, 0, len(seatIDs)+2)
	args = append(args, department, phone)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
