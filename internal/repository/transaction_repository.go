package repository

import (
    "context"
    "database/sql"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// TransactionRepo provides data access to the append-only ledger:
// transactions and their allocation details.  Rows are never updated
// after insertion.
type TransactionRepo struct {
    db *sql.DB
}

// NewTransactionRepo returns a new TransactionRepo bound to the given
// database.
func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *TransactionRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a ledger entry within an existing transaction and
// populates the generated ID.
func (r *TransactionRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO transactions (booking_id, type, base_amount, discount_amount, amount,
            method, status, processed_by_id, transaction_ref, description, occurred_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        t.BookingID, t.Type, t.BaseAmount, t.DiscountAmount, t.Amount,
        t.Method, t.Status, t.ProcessedByID, t.TransactionRef, t.Description, t.OccurredAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// CreateDetailTx inserts one allocation line and populates its
// generated ID.  Details are inserted one at a time because callers
// need each row's ID to link funded promotions back to it.
func (r *TransactionRepo) CreateDetailTx(ctx context.Context, tx *sql.Tx, d *model.TransactionDetail) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO transaction_details (transaction_id, booking_room_id, service_usage_id,
            base_amount, discount_amount, amount)
         VALUES (?, ?, ?, ?, ?, ?)`,
        d.TransactionID, d.BookingRoomID, d.ServiceUsageID,
        d.BaseAmount, d.DiscountAmount, d.Amount)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    d.ID = uint64(id)
    return nil
}

// SumCompletedDepositsTx returns the sum of a booking's COMPLETED
// DEPOSIT entries, used to cap cumulative deposits at the booking
// total.
func (r *TransactionRepo) SumCompletedDepositsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (decimal.Decimal, error) {
    var sum decimal.Decimal
    err := tx.QueryRowContext(ctx,
        `SELECT COALESCE(SUM(amount), 0) FROM transactions
         WHERE booking_id = ? AND type = ? AND status = ?`,
        bookingID, "DEPOSIT", model.TransactionCompleted).Scan(&sum)
    if err != nil {
        return decimal.Zero, err
    }
    return sum, nil
}

const transactionColumns = `id, booking_id, type, base_amount, discount_amount, amount,
    method, status, processed_by_id, transaction_ref, description, occurred_at, created_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (model.Transaction, error) {
    var t model.Transaction
    var bookingID sql.NullInt64
    var ref sql.NullString
    err := row.Scan(&t.ID, &bookingID, &t.Type, &t.BaseAmount, &t.DiscountAmount, &t.Amount,
        &t.Method, &t.Status, &t.ProcessedByID, &ref, &t.Description, &t.OccurredAt, &t.CreatedAt)
    if err != nil {
        return model.Transaction{}, err
    }
    if bookingID.Valid {
        b := uint64(bookingID.Int64)
        t.BookingID = &b
    }
    if ref.Valid {
        s := ref.String
        t.TransactionRef = &s
    }
    return t, nil
}

// GetByID returns one ledger entry.  It returns sql.ErrNoRows when the
// transaction does not exist.
func (r *TransactionRepo) GetByID(ctx context.Context, id uint64) (model.Transaction, error) {
    return scanTransaction(r.db.QueryRowContext(ctx,
        `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id))
}

// ListByBooking returns a booking's ledger entries, newest first.
func (r *TransactionRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Transaction, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+transactionColumns+` FROM transactions
         WHERE booking_id = ? ORDER BY occurred_at DESC, id DESC`, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Transaction, 0)
    for rows.Next() {
        t, err := scanTransaction(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// DetailsByTransaction returns a transaction's allocation lines in
// insertion order.
func (r *TransactionRepo) DetailsByTransaction(ctx context.Context, transactionID uint64) ([]model.TransactionDetail, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, transaction_id, booking_room_id, service_usage_id,
                base_amount, discount_amount, amount, created_at
         FROM transaction_details WHERE transaction_id = ? ORDER BY id`, transactionID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.TransactionDetail, 0)
    for rows.Next() {
        var d model.TransactionDetail
        var txID, roomID, usageID sql.NullInt64
        if err := rows.Scan(&d.ID, &txID, &roomID, &usageID,
            &d.BaseAmount, &d.DiscountAmount, &d.Amount, &d.CreatedAt); err != nil {
            return nil, err
        }
        if txID.Valid {
            v := uint64(txID.Int64)
            d.TransactionID = &v
        }
        if roomID.Valid {
            v := uint64(roomID.Int64)
            d.BookingRoomID = &v
        }
        if usageID.Valid {
            v := uint64(usageID.Int64)
            d.ServiceUsageID = &v
        }
        out = append(out, d)
    }
    return out, rows.Err()
}
