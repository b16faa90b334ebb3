package ledger

import (
    "fmt"

    "github.com/shopspring/decimal"
)

// Line is one allocation line of a payment before persistence.  Exactly
// one of BookingRoomID and ServiceUsageID is set.  Base starts as the
// target's outstanding balance; Amount is Base minus the promotion
// discounts attributed to this line.
type Line struct {
    BookingRoomID  *uint64
    ServiceUsageID *uint64
    Base           decimal.Decimal
    Discount       decimal.Decimal
    Amount         decimal.Decimal
}

// RoomLine builds a line item for a booking room's outstanding balance.
// A target that owes nothing cannot be paid again.
func RoomLine(bookingRoomID uint64, outstanding decimal.Decimal) (Line, error) {
    if outstanding.LessThanOrEqual(decimal.Zero) {
        return Line{}, fmt.Errorf("booking room %d is already fully paid", bookingRoomID)
    }
    id := bookingRoomID
    return Line{BookingRoomID: &id, Base: outstanding, Amount: outstanding}, nil
}

// ServiceLine builds a line item for a service usage's outstanding
// balance.
func ServiceLine(serviceUsageID uint64, outstanding decimal.Decimal) (Line, error) {
    if outstanding.LessThanOrEqual(decimal.Zero) {
        return Line{}, fmt.Errorf("service usage %d is already fully paid", serviceUsageID)
    }
    id := serviceUsageID
    return Line{ServiceUsageID: &id, Base: outstanding, Amount: outstanding}, nil
}

// AddDiscount attributes a promotion discount to the line and recomputes
// its final amount.  The discount is capped so the line never goes
// negative; the capped value actually applied is returned so the caller
// records the same figure in the used-promotion audit row.
func (l *Line) AddDiscount(discount decimal.Decimal) decimal.Decimal {
    remaining := l.Base.Sub(l.Discount)
    if discount.GreaterThan(remaining) {
        discount = remaining
    }
    if discount.IsNegative() {
        discount = decimal.Zero
    }
    l.Discount = l.Discount.Add(discount)
    l.Amount = l.Base.Sub(l.Discount)
    return discount
}

// Amounts is the base/discount/final triple carried by both transactions
// and their details.
type Amounts struct {
    Base     decimal.Decimal
    Discount decimal.Decimal
    Amount   decimal.Decimal
}

// Aggregate sums all line amounts into the single transaction-level
// triple.  The invariant "sum of detail amounts equals the transaction
// amount" holds by construction.
func Aggregate(lines []Line) Amounts {
    out := Amounts{Base: decimal.Zero, Discount: decimal.Zero, Amount: decimal.Zero}
    for _, l := range lines {
        out.Base = out.Base.Add(l.Base)
        out.Discount = out.Discount.Add(l.Discount)
        out.Amount = out.Amount.Add(l.Amount)
    }
    return out
}
