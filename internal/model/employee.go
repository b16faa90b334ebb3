package model

import "time"

// Employee roles.  Receptionists run the desk; managers additionally
// manage the service catalog and promotions.
const (
    RoleReceptionist = "RECEPTIONIST"
    RoleManager      = "MANAGER"
)

// Employee represents a staff account as stored in the `employees`
// table.  Employees authenticate with email and password and are the
// `processed_by` actor on every ledger entry and audit record.  The
// json tags are omitted because these structs are used internally by
// the repository layer; handlers define separate response types.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  FullName     – display name.
//  PasswordHash – bcrypt hashed password.
//  Role         – RECEPTIONIST or MANAGER.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Employee struct {
    ID           uint64    // employees.id
    Email        string    // employees.email
    FullName     string    // employees.full_name
    PasswordHash string    // employees.password_hash
    Role         string    // employees.role
    IsActive     bool      // employees.is_active
    CreatedAt    time.Time // employees.created_at
    UpdatedAt    time.Time // employees.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to an employee and contains metadata for expiry
// and revocation.  The plain token is not stored; only its SHA-256
// hash.
//
// Fields:
//  ID         – primary key identifier.
//  EmployeeID – owner of the token.
//  TokenHash  – SHA-256 hex digest of the token value.
//  ExpiresAt  – expiration timestamp of the token.
//  RevokedAt  – when the token was revoked (null if still active).
//  CreatedAt  – timestamp of creation.
type RefreshToken struct {
    ID         uint64     // refresh_tokens.id
    EmployeeID uint64     // refresh_tokens.employee_id
    TokenHash  string     // refresh_tokens.token_hash
    ExpiresAt  time.Time  // refresh_tokens.expires_at
    RevokedAt  *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt  time.Time  // refresh_tokens.created_at
}
