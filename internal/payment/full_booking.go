package payment

import (
    "context"
    "fmt"
    "time"

    "github.com/iliyamo/hotel-operations-backend/internal/ledger"
    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// fullBooking settles every still-owed room of a booking in one
// payment.  Rooms that are already fully paid are skipped; if nothing
// is owed the payment is rejected.
func (p *Processor) fullBooking(ctx context.Context, req Request) (*Result, error) {
    now := time.Now().UTC()
    tx, err := p.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booking, err := p.bookings.GetForUpdateTx(ctx, tx, *req.BookingID)
    if err != nil {
        return nil, err
    }
    rooms, err := p.bookings.RoomsTx(ctx, tx, booking.ID)
    if err != nil {
        return nil, err
    }

    lines := make([]ledger.Line, 0, len(rooms))
    for _, room := range rooms {
        if room.Balance.IsPositive() {
            line, err := ledger.RoomLine(room.ID, room.Balance)
            if err != nil {
                return nil, err
            }
            lines = append(lines, line)
        }
    }
    if len(lines) == 0 {
        return nil, fmt.Errorf("booking %s is already fully paid", booking.BookingCode)
    }

    applied, err := p.applyPromotions(ctx, tx, lines, req.Promotions, booking.PrimaryCustomerID, now)
    if err != nil {
        return nil, err
    }
    agg := ledger.Aggregate(lines)

    t := newTransaction(req, booking.ID, agg,
        fmt.Sprintf("%s payment for booking %s", req.Type, booking.BookingCode), now)
    if err := p.txns.CreateTx(ctx, tx, &t); err != nil {
        return nil, err
    }
    details, err := p.persistDetails(ctx, tx, &t.ID, lines, applied, now)
    if err != nil {
        return nil, err
    }

    for _, l := range lines {
        if err := p.bookings.ApplyRoomPaymentTx(ctx, tx, *l.BookingRoomID, l.Amount); err != nil {
            return nil, err
        }
    }
    totals := ledger.SettlePayment(bookingTotals(booking), agg.Amount)
    if err := p.bookings.UpdateTotalsTx(ctx, tx, booking.ID, totals); err != nil {
        return nil, err
    }
    if err := p.appendTransactionHistory(ctx, tx, booking.ID, req.EmployeeID, &t); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    applyTotals(&booking, totals)
    return &Result{Scenario: ledger.FullBooking, Transaction: &t, Details: details, Booking: &booking}, nil
}

// bookingTotals snapshots the booking aggregates for the pure ledger
// functions.
func bookingTotals(b model.Booking) ledger.Totals {
    return ledger.Totals{
        Status:          b.Status,
        TotalAmount:     b.TotalAmount,
        DepositRequired: b.DepositRequired,
        TotalDeposit:    b.TotalDeposit,
        TotalPaid:       b.TotalPaid,
        Balance:         b.Balance,
    }
}

// applyTotals copies computed aggregates back onto the in-memory
// booking after commit, so responses reflect the persisted state.
func applyTotals(b *model.Booking, t ledger.Totals) {
    b.Status = t.Status
    b.TotalAmount = t.TotalAmount
    b.TotalDeposit = t.TotalDeposit
    b.TotalPaid = t.TotalPaid
    b.Balance = t.Balance
    if b.Status != model.BookingPending {
        b.ExpiresAt = nil
    }
}
