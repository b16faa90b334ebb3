package payment

import (
    "context"
    "fmt"
    "time"

    "github.com/iliyamo/hotel-operations-backend/internal/ledger"
)

// bookingService settles exactly one service usage billed to a room of
// the given booking.  A usage billed to another booking, or to no
// booking at all, rejects the payment.
func (p *Processor) bookingService(ctx context.Context, req Request) (*Result, error) {
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
    usage, err := p.services.GetUsageTx(ctx, tx, *req.ServiceUsageID)
    if err != nil {
        return nil, err
    }
    if usage.BookingRoomID == nil {
        return nil, fmt.Errorf("service usage %d has no booking context", usage.ID)
    }
    room, err := p.bookings.RoomTx(ctx, tx, *usage.BookingRoomID)
    if err != nil {
        return nil, err
    }
    if room.BookingID != booking.ID {
        return nil, fmt.Errorf("service usage %d does not belong to booking %s", usage.ID, booking.BookingCode)
    }

    line, err := ledger.ServiceLine(usage.ID, usage.Balance)
    if err != nil {
        return nil, err
    }
    lines := []ledger.Line{line}

    applied, err := p.applyPromotions(ctx, tx, lines, req.Promotions, booking.PrimaryCustomerID, now)
    if err != nil {
        return nil, err
    }
    agg := ledger.Aggregate(lines)

    t := newTransaction(req, booking.ID, agg,
        fmt.Sprintf("%s payment for service usage %d of booking %s", req.Type, usage.ID, booking.BookingCode), now)
    if err := p.txns.CreateTx(ctx, tx, &t); err != nil {
        return nil, err
    }
    details, err := p.persistDetails(ctx, tx, &t.ID, lines, applied, now)
    if err != nil {
        return nil, err
    }

    if err := p.services.ApplyUsagePaymentTx(ctx, tx, usage.ID, lines[0].Amount); err != nil {
        return nil, err
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
    return &Result{Scenario: ledger.BookingService, Transaction: &t, Details: details, Booking: &booking}, nil
}
