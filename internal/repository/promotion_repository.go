package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// PromotionRepo provides data access to promotions, customer grants and
// the used-promotion audit trail.
type PromotionRepo struct {
    db *sql.DB
}

// NewPromotionRepo returns a new PromotionRepo bound to the given
// database.
func NewPromotionRepo(db *sql.DB) *PromotionRepo { return &PromotionRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *PromotionRepo) DB() *sql.DB { return r.db }

// Create inserts a promotion definition and populates the generated ID.
// A duplicate code yields ErrConflict.
func (r *PromotionRepo) Create(ctx context.Context, p *model.Promotion) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO promotions (code, name, discount_type, discount_value, valid_until)
         VALUES (?, ?, ?, ?, ?)`,
        p.Code, p.Name, p.DiscountType, p.DiscountValue, p.ValidUntil)
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
    p.ID = uint64(id)
    return nil
}

// GetByID returns one promotion.  It returns sql.ErrNoRows when the
// promotion does not exist.
func (r *PromotionRepo) GetByID(ctx context.Context, id uint64) (model.Promotion, error) {
    var p model.Promotion
    var validUntil sql.NullTime
    err := r.db.QueryRowContext(ctx,
        `SELECT id, code, name, discount_type, discount_value, valid_until, created_at, updated_at
         FROM promotions WHERE id = ?`, id).
        Scan(&p.ID, &p.Code, &p.Name, &p.DiscountType, &p.DiscountValue, &validUntil,
            &p.CreatedAt, &p.UpdatedAt)
    if err != nil {
        return model.Promotion{}, err
    }
    if validUntil.Valid {
        t := validUntil.Time
        p.ValidUntil = &t
    }
    return p, nil
}

// Grant assigns a promotion to a customer in AVAILABLE status and
// populates the generated ID.
func (r *PromotionRepo) Grant(ctx context.Context, cp *model.CustomerPromotion) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO customer_promotions (customer_id, promotion_id, status)
         VALUES (?, ?, ?)`,
        cp.CustomerID, cp.PromotionID, model.PromotionAvailable)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    cp.ID = uint64(id)
    cp.Status = model.PromotionAvailable
    return nil
}

// CustomerGrant is a customer promotion joined with its promotion
// definition for listing.
type CustomerGrant struct {
    Grant     model.CustomerPromotion
    Promotion model.Promotion
}

const grantJoinColumns = `cp.id, cp.customer_id, cp.promotion_id, cp.status, cp.used_at,
    cp.transaction_detail_id, cp.created_at,
    p.id, p.code, p.name, p.discount_type, p.discount_value, p.valid_until, p.created_at, p.updated_at`

func scanGrant(row interface{ Scan(...interface{}) error }) (CustomerGrant, error) {
    var g CustomerGrant
    var usedAt, validUntil sql.NullTime
    var detailID sql.NullInt64
    err := row.Scan(&g.Grant.ID, &g.Grant.CustomerID, &g.Grant.PromotionID, &g.Grant.Status,
        &usedAt, &detailID, &g.Grant.CreatedAt,
        &g.Promotion.ID, &g.Promotion.Code, &g.Promotion.Name, &g.Promotion.DiscountType,
        &g.Promotion.DiscountValue, &validUntil, &g.Promotion.CreatedAt, &g.Promotion.UpdatedAt)
    if err != nil {
        return CustomerGrant{}, err
    }
    if usedAt.Valid {
        t := usedAt.Time
        g.Grant.UsedAt = &t
    }
    if detailID.Valid {
        v := uint64(detailID.Int64)
        g.Grant.TransactionDetailID = &v
    }
    if validUntil.Valid {
        t := validUntil.Time
        g.Promotion.ValidUntil = &t
    }
    return g, nil
}

// ListByCustomer returns a customer's grants with their promotion
// definitions, newest first.
func (r *PromotionRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]CustomerGrant, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+grantJoinColumns+`
         FROM customer_promotions cp
         JOIN promotions p ON p.id = cp.promotion_id
         WHERE cp.customer_id = ?
         ORDER BY cp.created_at DESC, cp.id DESC`, customerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]CustomerGrant, 0)
    for rows.Next() {
        g, err := scanGrant(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, g)
    }
    return out, rows.Err()
}

// GetGrantTx loads a customer promotion and its promotion with a row
// lock on the grant, so two concurrent payments cannot consume the same
// grant.  It returns ErrPromotionNotFound when the grant does not
// exist.
func (r *PromotionRepo) GetGrantTx(ctx context.Context, tx *sql.Tx, grantID uint64) (CustomerGrant, error) {
    g, err := scanGrant(tx.QueryRowContext(ctx,
        `SELECT `+grantJoinColumns+`
         FROM customer_promotions cp
         JOIN promotions p ON p.id = cp.promotion_id
         WHERE cp.id = ?
         FOR UPDATE OF cp`, grantID))
    if err == sql.ErrNoRows {
        return CustomerGrant{}, ErrPromotionNotFound
    }
    return g, err
}

// MarkUsedTx consumes a grant: status flips to USED and the funded
// transaction detail is recorded for traceability.
func (r *PromotionRepo) MarkUsedTx(ctx context.Context, tx *sql.Tx, grantID, detailID uint64, usedAt time.Time) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE customer_promotions SET status = ?, used_at = ?, transaction_detail_id = ?
         WHERE id = ?`,
        model.PromotionUsed, usedAt, detailID, grantID)
    return err
}

// CreateUsedTx appends a used-promotion audit row and populates the
// generated ID.
func (r *PromotionRepo) CreateUsedTx(ctx context.Context, tx *sql.Tx, up *model.UsedPromotion) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO used_promotions (promotion_id, transaction_id, transaction_detail_id, discount_amount)
         VALUES (?, ?, ?, ?)`,
        up.PromotionID, up.TransactionID, up.TransactionDetailID, up.DiscountAmount)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    up.ID = uint64(id)
    return nil
}
