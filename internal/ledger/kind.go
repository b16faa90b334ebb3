// Package ledger contains the pure business rules of the booking and
// transaction engine: transaction-kind validation and balance deltas,
// payment scenario classification, line item building, discount
// calculation and aggregation.  Nothing in this package performs I/O;
// callers feed it snapshots read inside their database transaction and
// persist the results themselves.
package ledger

import (
    "fmt"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// Kind is the closed set of transaction types.  Each kind carries one
// validation rule and one balance-delta rule, applied via Validate and
// Apply rather than behaviour spread across call sites.
type Kind string

const (
    Deposit       Kind = "DEPOSIT"
    RoomCharge    Kind = "ROOM_CHARGE"
    ServiceCharge Kind = "SERVICE_CHARGE"
    Refund        Kind = "REFUND"
    Adjustment    Kind = "ADJUSTMENT"
)

// ParseKind validates a raw transaction type string.
func ParseKind(s string) (Kind, error) {
    switch Kind(s) {
    case Deposit, RoomCharge, ServiceCharge, Refund, Adjustment:
        return Kind(s), nil
    }
    return "", fmt.Errorf("unsupported transaction type: %q", s)
}

// Totals is a snapshot of a booking's financial aggregates and status.
// Apply returns a new snapshot; the input is never mutated.
type Totals struct {
    Status          string
    TotalAmount     decimal.Decimal
    DepositRequired decimal.Decimal
    TotalDeposit    decimal.Decimal
    TotalPaid       decimal.Decimal
    Balance         decimal.Decimal
}

// Validate checks whether a transaction of this kind with the given
// amount is admissible against the booking snapshot.  completedDeposits
// is the sum of all COMPLETED deposit transactions already recorded for
// the booking; it is only consulted for deposits.  A nil return means
// the transaction may proceed.
func (k Kind) Validate(t Totals, amount, completedDeposits decimal.Decimal) error {
    switch k {
    case Deposit:
        // Deposits are accepted while PENDING (to confirm) and while
        // CONFIRMED (additional deposits remain permitted; only the
        // totalAmount caps apply).
        if t.Status != model.BookingPending && t.Status != model.BookingConfirmed {
            return fmt.Errorf("cannot create deposit for booking with status: %s", t.Status)
        }
        if amount.LessThanOrEqual(decimal.Zero) {
            return fmt.Errorf("deposit amount must be positive")
        }
        if amount.GreaterThan(t.TotalAmount) {
            return fmt.Errorf("deposit amount (%s) cannot exceed total booking amount (%s)",
                amount, t.TotalAmount)
        }
        if completedDeposits.Add(amount).GreaterThan(t.TotalAmount) {
            return fmt.Errorf("total deposits (%s) would exceed booking amount (%s)",
                completedDeposits.Add(amount), t.TotalAmount)
        }
    case RoomCharge, ServiceCharge:
        if t.Status != model.BookingConfirmed && t.Status != model.BookingCheckedIn {
            return fmt.Errorf("cannot create charges for booking with status: %s", t.Status)
        }
        if amount.LessThanOrEqual(decimal.Zero) {
            return fmt.Errorf("charge amount must be positive")
        }
    case Refund:
        if t.TotalPaid.LessThanOrEqual(decimal.Zero) {
            return fmt.Errorf("no payments to refund")
        }
        if amount.LessThanOrEqual(decimal.Zero) {
            return fmt.Errorf("refund amount must be positive")
        }
        if amount.GreaterThan(t.TotalPaid) {
            return fmt.Errorf("refund amount (%s) cannot exceed total paid (%s)", amount, t.TotalPaid)
        }
    case Adjustment:
        // Adjustments may move the balance in either direction.
        if amount.IsZero() {
            return fmt.Errorf("adjustment amount must be non-zero")
        }
    default:
        return fmt.Errorf("unsupported transaction type: %q", string(k))
    }
    return nil
}

// Apply computes the booking totals after a transaction of this kind.
// The returned confirmed flag is true exactly when the transaction
// promoted the booking from PENDING to CONFIRMED; callers then flip the
// pending booking rooms and distribute the deposit shares.  Apply
// assumes Validate has already passed.
func (k Kind) Apply(t Totals, amount decimal.Decimal) (Totals, bool) {
    confirmed := false
    switch k {
    case Deposit:
        t.TotalDeposit = t.TotalDeposit.Add(amount)
        t.TotalPaid = t.TotalPaid.Add(amount)
        t.Balance = t.TotalAmount.Sub(t.TotalPaid)
        if t.TotalDeposit.GreaterThanOrEqual(t.DepositRequired) && t.Status == model.BookingPending {
            t.Status = model.BookingConfirmed
            confirmed = true
        }
    case RoomCharge, ServiceCharge:
        // Additional cost, not yet paid: grows the bill and the balance.
        t.TotalAmount = t.TotalAmount.Add(amount)
        t.Balance = t.Balance.Add(amount)
    case Refund:
        t.TotalPaid = t.TotalPaid.Sub(amount)
        t.Balance = t.TotalAmount.Sub(t.TotalPaid)
        t.TotalDeposit = t.TotalDeposit.Sub(amount)
        if t.TotalDeposit.IsNegative() {
            t.TotalDeposit = decimal.Zero
        }
    case Adjustment:
        // Positive = credit, negative = debit; no status transition.
        t.TotalAmount = t.TotalAmount.Add(amount)
        t.Balance = t.Balance.Add(amount)
    }
    return t, confirmed
}

// SettlePayment applies a scenario-pipeline settlement to the totals:
// the paid amount grows TotalPaid and the balance is recomputed.
// Settlements never touch TotalAmount; charges do that through Apply.
func SettlePayment(t Totals, paid decimal.Decimal) Totals {
    t.TotalPaid = t.TotalPaid.Add(paid)
    t.Balance = t.TotalAmount.Sub(t.TotalPaid)
    return t
}

// DepositShares splits a confirming deposit evenly across n rooms,
// rounded to 2 decimal places.  The last share absorbs the rounding
// remainder so the shares always sum exactly to the deposit.
func DepositShares(deposit decimal.Decimal, n int) []decimal.Decimal {
    if n <= 0 {
        return nil
    }
    even := deposit.Div(decimal.NewFromInt(int64(n))).Round(2)
    shares := make([]decimal.Decimal, n)
    running := decimal.Zero
    for i := 0; i < n-1; i++ {
        shares[i] = even
        running = running.Add(even)
    }
    shares[n-1] = deposit.Sub(running)
    return shares
}
