package payment

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/iliyamo/hotel-operations-backend/internal/ledger"
    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// guestService settles one walk-in service usage with no booking
// context.  This is the only scenario that creates transaction details
// without a parent transaction row; only the usage's own paid and
// balance fields move, and no booking lifecycle transition can happen.
func (p *Processor) guestService(ctx context.Context, req Request) (*Result, error) {
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

    usage, err := p.services.GetUsageTx(ctx, tx, *req.ServiceUsageID)
    if err != nil {
        return nil, err
    }
    if usage.BookingRoomID != nil {
        return nil, fmt.Errorf("service usage %d belongs to a booking; pay it through the booking", usage.ID)
    }
    if usage.CustomerID == nil {
        return nil, fmt.Errorf("service usage %d has no customer to bill", usage.ID)
    }

    line, err := ledger.ServiceLine(usage.ID, usage.Balance)
    if err != nil {
        return nil, err
    }
    lines := []ledger.Line{line}

    applied, err := p.applyPromotions(ctx, tx, lines, req.Promotions, *usage.CustomerID, now)
    if err != nil {
        return nil, err
    }
    agg := ledger.Aggregate(lines)

    details, err := p.persistDetails(ctx, tx, nil, lines, applied, now)
    if err != nil {
        return nil, err
    }
    if err := p.services.ApplyUsagePaymentTx(ctx, tx, usage.ID, lines[0].Amount); err != nil {
        return nil, err
    }

    payload, err := json.Marshal(map[string]interface{}{
        "service_usage_id": usage.ID,
        "customer_id":      *usage.CustomerID,
        "base_amount":      agg.Base,
        "discount_amount":  agg.Discount,
        "amount":           agg.Amount,
        "method":           req.Method,
    })
    if err != nil {
        return nil, err
    }
    if err := p.histories.CreateActivityTx(ctx, tx, &model.Activity{
        EmployeeID: req.EmployeeID,
        Action:     model.ActionTransaction,
        RefType:    "transaction_detail",
        RefID:      details[0].ID,
        Details:    string(payload),
    }); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    return &Result{Scenario: ledger.GuestService, Details: details}, nil
}
