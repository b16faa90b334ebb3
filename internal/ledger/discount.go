package ledger

import (
    "fmt"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

var oneHundred = decimal.NewFromInt(100)

// CheckEligible verifies that a customer promotion may still fund a
// discount: the grant must be AVAILABLE and its promotion must not have
// expired.  Any failure aborts the whole payment; there is no partial
// promotion application.
func CheckEligible(grant model.CustomerPromotion, promo model.Promotion, now time.Time) error {
    if grant.Status != model.PromotionAvailable {
        return fmt.Errorf("customer promotion %d is not available (status: %s)", grant.ID, grant.Status)
    }
    if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
        return fmt.Errorf("promotion %s expired at %s", promo.Code, promo.ValidUntil.Format(time.RFC3339))
    }
    return nil
}

// Discount computes the raw discount a promotion yields against a line
// item's base amount, before the line-level cap in Line.AddDiscount.
// PERCENT promotions take a percentage of the base rounded to 2 decimal
// places; FIXED promotions take a flat amount, capped at the base so a
// promotion never discounts more than the item costs.
func Discount(promo model.Promotion, base decimal.Decimal) decimal.Decimal {
    var d decimal.Decimal
    switch promo.DiscountType {
    case model.DiscountPercent:
        d = base.Mul(promo.DiscountValue).Div(oneHundred).Round(2)
    case model.DiscountFixed:
        d = promo.DiscountValue
    default:
        return decimal.Zero
    }
    if d.GreaterThan(base) {
        d = base
    }
    if d.IsNegative() {
        return decimal.Zero
    }
    return d
}
