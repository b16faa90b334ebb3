package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Promotion discount kinds.  PERCENT discounts take a percentage of the
// targeted line item's base amount; FIXED discounts subtract a flat
// amount.  Both are capped at the line item's base amount.
const (
    DiscountPercent = "PERCENT"
    DiscountFixed   = "FIXED"
)

// Customer promotion statuses.  A grant is AVAILABLE until it funds a
// transaction detail, then USED.  EXPIRED grants are skipped by
// eligibility checks.
const (
    PromotionAvailable = "AVAILABLE"
    PromotionUsed      = "USED"
    PromotionExpired   = "EXPIRED"
)

// Promotion is a discount definition that can be granted to customers.
//
// Fields:
//  ID            – primary key identifier.
//  Code          – unique promotion code.
//  Name          – display name.
//  DiscountType  – PERCENT or FIXED.
//  DiscountValue – percentage (0-100) or flat amount.
//  ValidUntil    – grants are not applicable past this instant
//                  (nullable for open-ended promotions).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Promotion struct {
    ID            uint64          // promotions.id
    Code          string          // promotions.code
    Name          string          // promotions.name
    DiscountType  string          // promotions.discount_type
    DiscountValue decimal.Decimal // promotions.discount_value
    ValidUntil    *time.Time      // promotions.valid_until (nullable)
    CreatedAt     time.Time       // promotions.created_at
    UpdatedAt     time.Time       // promotions.updated_at
}

// CustomerPromotion is a promotion instance owned by one customer.  It
// is consumable at most once: applying it flips the status to USED and
// records the transaction detail it funded.
//
// Fields:
//  ID                  – primary key identifier.
//  CustomerID          – owning customer.
//  PromotionID         – granted promotion.
//  Status              – AVAILABLE, USED or EXPIRED.
//  UsedAt              – when the grant was consumed (nullable).
//  TransactionDetailID – detail the grant funded (nullable).
//  CreatedAt           – creation timestamp.
type CustomerPromotion struct {
    ID                  uint64     // customer_promotions.id
    CustomerID          uint64     // customer_promotions.customer_id
    PromotionID         uint64     // customer_promotions.promotion_id
    Status              string     // customer_promotions.status
    UsedAt              *time.Time // customer_promotions.used_at (nullable)
    TransactionDetailID *uint64    // customer_promotions.transaction_detail_id (nullable)
    CreatedAt           time.Time  // customer_promotions.created_at
}

// UsedPromotion is the audit record linking a promotion to the
// transaction detail it discounted.  Rows are append-only.
//
// Fields:
//  ID                  – primary key identifier.
//  PromotionID         – promotion that produced the discount.
//  TransactionID       – owning transaction (nullable for guest service
//                        payments).
//  TransactionDetailID – detail that received the discount.
//  DiscountAmount      – discount actually applied.
//  CreatedAt           – creation timestamp.
type UsedPromotion struct {
    ID                  uint64          // used_promotions.id
    PromotionID         uint64          // used_promotions.promotion_id
    TransactionID       *uint64         // used_promotions.transaction_id (nullable)
    TransactionDetailID uint64          // used_promotions.transaction_detail_id
    DiscountAmount      decimal.Decimal // used_promotions.discount_amount
    CreatedAt           time.Time       // used_promotions.created_at
}
