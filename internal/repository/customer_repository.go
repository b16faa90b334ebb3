package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// CustomerRepo provides data access to the guest directory.
type CustomerRepo struct {
    db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given
// database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *CustomerRepo) DB() *sql.DB { return r.db }

const customerColumns = `id, full_name, phone, email, id_number, address, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (model.Customer, error) {
    var c model.Customer
    var email, idNumber, address sql.NullString
    err := row.Scan(&c.ID, &c.FullName, &c.Phone, &email, &idNumber, &address,
        &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return model.Customer{}, err
    }
    if email.Valid {
        v := email.String
        c.Email = &v
    }
    if idNumber.Valid {
        v := idNumber.String
        c.IDNumber = &v
    }
    if address.Valid {
        v := address.String
        c.Address = &v
    }
    return c, nil
}

// Create inserts a customer and populates the generated ID.  A
// duplicate phone number yields ErrConflict.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO customers (full_name, phone, email, id_number, address) VALUES (?, ?, ?, ?, ?)`,
        c.FullName, c.Phone, c.Email, c.IDNumber, c.Address)
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
    c.ID = uint64(id)
    return nil
}

// GetByID returns one customer.  It returns sql.ErrNoRows when the
// customer does not exist.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
    return scanCustomer(r.db.QueryRowContext(ctx,
        `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
}

// GetByPhone returns one customer by phone number, used by the desk to
// look up returning guests.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (model.Customer, error) {
    return scanCustomer(r.db.QueryRowContext(ctx,
        `SELECT `+customerColumns+` FROM customers WHERE phone = ?`, strings.TrimSpace(phone)))
}

// Update rewrites a customer's mutable fields.  It returns
// sql.ErrNoRows when the customer does not exist.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE customers SET full_name = ?, phone = ?, email = ?, id_number = ?, address = ?
         WHERE id = ?`,
        c.FullName, c.Phone, c.Email, c.IDNumber, c.Address, c.ID)
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

// CountByIDsTx returns how many of the given customer IDs exist.
// Callers compare the result against the deduplicated request size to
// detect unknown guests before linking them to a room.
func (r *CustomerRepo) CountByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (int, error) {
    if len(ids) == 0 {
        return 0, nil
    }
    placeholders := make([]string, 0, len(ids))
    args := make([]interface{}, 0, len(ids))
    for _, id := range ids {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    var n int
    err := tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM customers WHERE id IN (`+strings.Join(placeholders, ",")+`)`,
        args...).Scan(&n)
    return n, err
}
