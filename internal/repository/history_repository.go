package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// HistoryRepo appends and reads booking audit entries plus the
// booking-less activity log.
type HistoryRepo struct {
    db *sql.DB
}

// NewHistoryRepo returns a new HistoryRepo bound to the given database.
func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

// AppendTx inserts a booking history entry within the mutation's own
// transaction, so the audit row commits or rolls back together with the
// change it describes.
func (r *HistoryRepo) AppendTx(ctx context.Context, tx *sql.Tx, h *model.BookingHistory) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO booking_histories (booking_id, employee_id, action, changes) VALUES (?, ?, ?, ?)`,
        h.BookingID, h.EmployeeID, h.Action, h.Changes)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    h.ID = uint64(id)
    return nil
}

// ListByBooking returns a booking's audit entries, newest first,
// limited to the requested count.
func (r *HistoryRepo) ListByBooking(ctx context.Context, bookingID uint64, limit int) ([]model.BookingHistory, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, booking_id, employee_id, action, changes, created_at
         FROM booking_histories
         WHERE booking_id = ?
         ORDER BY created_at DESC, id DESC
         LIMIT ?`, bookingID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.BookingHistory, 0)
    for rows.Next() {
        var h model.BookingHistory
        var emp sql.NullInt64
        if err := rows.Scan(&h.ID, &h.BookingID, &emp, &h.Action, &h.Changes, &h.CreatedAt); err != nil {
            return nil, err
        }
        if emp.Valid {
            v := uint64(emp.Int64)
            h.EmployeeID = &v
        }
        out = append(out, h)
    }
    return out, rows.Err()
}

// CreateActivityTx inserts an activity entry for actions without a
// booking, such as guest service payments.
func (r *HistoryRepo) CreateActivityTx(ctx context.Context, tx *sql.Tx, a *model.Activity) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO activities (employee_id, action, ref_type, ref_id, details) VALUES (?, ?, ?, ?, ?)`,
        a.EmployeeID, a.Action, a.RefType, a.RefID, a.Details)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    return nil
}
