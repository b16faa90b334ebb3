package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// ServiceRepo provides data access to the service catalog and to
// service usage records.
type ServiceRepo struct {
    db *sql.DB
}

// NewServiceRepo returns a new ServiceRepo bound to the given database.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ServiceRepo) DB() *sql.DB { return r.db }

// Create inserts a catalog service and populates the generated ID.  A
// duplicate name yields ErrConflict.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO services (name, price, unit, is_active) VALUES (?, ?, ?, ?)`,
        s.Name, s.Price, s.Unit, s.IsActive)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// GetByID returns one catalog service.  It returns sql.ErrNoRows when
// the service does not exist.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
    var s model.Service
    err := r.db.QueryRowContext(ctx,
        `SELECT id, name, price, unit, is_active, created_at, updated_at
         FROM services WHERE id = ?`, id).
        Scan(&s.ID, &s.Name, &s.Price, &s.Unit, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
    return s, err
}

// List returns catalog services.  When activeOnly is true, inactive
// services are filtered out.
func (r *ServiceRepo) List(ctx context.Context, activeOnly bool) ([]model.Service, error) {
    query := `SELECT id, name, price, unit, is_active, created_at, updated_at FROM services`
    if activeOnly {
        query += ` WHERE is_active = TRUE`
    }
    query += ` ORDER BY name`
    rows, err := r.db.QueryContext(ctx, query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Service, 0)
    for rows.Next() {
        var s model.Service
        if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Unit, &s.IsActive,
            &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// Update rewrites a service's mutable fields.  It returns sql.ErrNoRows
// when the service does not exist.
func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE services SET name = ?, price = ?, unit = ?, is_active = ? WHERE id = ?`,
        s.Name, s.Price, s.Unit, s.IsActive, s.ID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a service that has never been used.  A service with
// usage records yields ErrConflict so billing history stays intact.
func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
    var usages int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM service_usages WHERE service_id = ?`, id).Scan(&usages); err != nil {
        return err
    }
    if usages > 0 {
        return ErrConflict
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// CreateUsage records a service consumption and populates the generated
// ID.
func (r *ServiceRepo) CreateUsage(ctx context.Context, u *model.ServiceUsage) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO service_usages (service_id, booking_room_id, customer_id, quantity,
            unit_price, total_price, total_paid, balance, used_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        u.ServiceID, u.BookingRoomID, u.CustomerID, u.Quantity,
        u.UnitPrice, u.TotalPrice, u.TotalPaid, u.Balance, u.UsedAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    u.ID = uint64(id)
    return nil
}

// CreateUsageTx records a service consumption within an existing
// transaction, so callers can grow the owning booking's bill in the
// same atomic unit.  It populates the generated ID.
func (r *ServiceRepo) CreateUsageTx(ctx context.Context, tx *sql.Tx, u *model.ServiceUsage) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO service_usages (service_id, booking_room_id, customer_id, quantity,
            unit_price, total_price, total_paid, balance, used_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        u.ServiceID, u.BookingRoomID, u.CustomerID, u.Quantity,
        u.UnitPrice, u.TotalPrice, u.TotalPaid, u.Balance, u.UsedAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    u.ID = uint64(id)
    return nil
}

const usageColumns = `id, service_id, booking_room_id, customer_id, quantity,
    unit_price, total_price, total_paid, balance, used_at, created_at, updated_at`

func scanUsage(row interface{ Scan(...interface{}) error }) (model.ServiceUsage, error) {
    var u model.ServiceUsage
    var roomID, custID sql.NullInt64
    err := row.Scan(&u.ID, &u.ServiceID, &roomID, &custID, &u.Quantity,
        &u.UnitPrice, &u.TotalPrice, &u.TotalPaid, &u.Balance,
        &u.UsedAt, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        return model.ServiceUsage{}, err
    }
    if roomID.Valid {
        v := uint64(roomID.Int64)
        u.BookingRoomID = &v
    }
    if custID.Valid {
        v := uint64(custID.Int64)
        u.CustomerID = &v
    }
    return u, nil
}

// GetUsageTx loads one usage record with a row lock so concurrent
// settlements against the same usage serialize.  It returns
// sql.ErrNoRows when the usage does not exist.
func (r *ServiceRepo) GetUsageTx(ctx context.Context, tx *sql.Tx, id uint64) (model.ServiceUsage, error) {
    return scanUsage(tx.QueryRowContext(ctx,
        `SELECT `+usageColumns+` FROM service_usages WHERE id = ? FOR UPDATE`, id))
}

// ApplyUsagePaymentTx settles a payment against one usage: the paid
// amount grows total_paid and the balance is recomputed from the
// usage's own total.
func (r *ServiceRepo) ApplyUsagePaymentTx(ctx context.Context, tx *sql.Tx, usageID uint64, paid decimal.Decimal) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE service_usages
         SET total_paid = total_paid + ?, balance = total_price - (total_paid + ?)
         WHERE id = ?`,
        paid, paid, usageID)
    return err
}

// ListUsagesByBookingRoom returns a booking room's usages outside of
// any transaction, newest first.
func (r *ServiceRepo) ListUsagesByBookingRoom(ctx context.Context, bookingRoomID uint64) ([]model.ServiceUsage, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+usageColumns+` FROM service_usages
         WHERE booking_room_id = ? ORDER BY used_at DESC, id DESC`, bookingRoomID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.ServiceUsage, 0)
    for rows.Next() {
        u, err := scanUsage(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, u)
    }
    return out, rows.Err()
}
