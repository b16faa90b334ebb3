package payment

import (
    "context"
    "fmt"
    "time"

    "github.com/iliyamo/hotel-operations-backend/internal/ledger"
)

// splitRoom settles only an explicitly requested subset of a booking's
// rooms.  Every requested room must belong to the booking and must
// still owe something; any mismatch rejects the whole payment.
func (p *Processor) splitRoom(ctx context.Context, req Request) (*Result, error) {
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
    byID := make(map[uint64]int, len(rooms))
    for i, room := range rooms {
        byID[room.ID] = i
    }

    lines := make([]ledger.Line, 0, len(req.BookingRoomIDs))
    seen := make(map[uint64]bool, len(req.BookingRoomIDs))
    for _, id := range req.BookingRoomIDs {
        if seen[id] {
            continue
        }
        seen[id] = true
        idx, ok := byID[id]
        if !ok {
            return nil, fmt.Errorf("booking room %d does not belong to booking %s", id, booking.BookingCode)
        }
        line, err := ledger.RoomLine(id, rooms[idx].Balance)
        if err != nil {
            return nil, err
        }
        lines = append(lines, line)
    }

    applied, err := p.applyPromotions(ctx, tx, lines, req.Promotions, booking.PrimaryCustomerID, now)
    if err != nil {
        return nil, err
    }
    agg := ledger.Aggregate(lines)

    t := newTransaction(req, booking.ID, agg,
        fmt.Sprintf("%s payment for %d room(s) of booking %s", req.Type, len(lines), booking.BookingCode), now)
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
    return &Result{Scenario: ledger.SplitRoom, Transaction: &t, Details: details, Booking: &booking}, nil
}
