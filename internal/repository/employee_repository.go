package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
    "github.com/iliyamo/hotel-operations-backend/internal/utils"
)

// EmployeeRepo provides data access to staff accounts.
type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts an employee and returns its ID.  The password is
// hashed with bcrypt before it touches the database.
func (r *EmployeeRepo) Create(ctx context.Context, email, fullName, password, role string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO employees (email, full_name, password_hash, role) VALUES (?,?,?,?)",
        email, fullName, hash, role)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches an employee by normalized email.
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (model.Employee, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    var e model.Employee
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,full_name,password_hash,role,is_active,created_at,updated_at FROM employees WHERE email=? LIMIT 1",
        email).Scan(&e.ID, &e.Email, &e.FullName, &e.PasswordHash, &e.Role, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
    return e, err
}

// GetByID fetches an employee by id.
func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (model.Employee, error) {
    var e model.Employee
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,email,full_name,password_hash,role,is_active,created_at,updated_at FROM employees WHERE id=? LIMIT 1",
        id).Scan(&e.ID, &e.Email, &e.FullName, &e.PasswordHash, &e.Role, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
    return e, err
}
