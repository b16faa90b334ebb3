// Package payment implements the four-scenario transaction pipeline:
// full booking payment, split room payment, booking service payment and
// guest service payment.  Every scenario runs its eight pipeline steps
// inside a single database transaction, so a failure at any step leaves
// no partial ledger writes behind.
package payment

import (
    "context"
    "database/sql"
    "encoding/json"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/ledger"
    "github.com/iliyamo/hotel-operations-backend/internal/model"
    "github.com/iliyamo/hotel-operations-backend/internal/repository"
)

// PromotionApplication asks for one customer promotion to fund a
// discount.  The optional target pins the discount to a specific line
// item; when both targets are empty the application binds to the
// payment's only line item and fails if there is more than one.
type PromotionApplication struct {
    CustomerPromotionID uint64  `json:"customer_promotion_id"`
    BookingRoomID       *uint64 `json:"booking_room_id,omitempty"`
    ServiceUsageID      *uint64 `json:"service_usage_id,omitempty"`
}

// Request is one inbound payment.  The identifier combination decides
// the scenario; amounts are never supplied by the caller, they are
// derived from the targets' outstanding balances.
type Request struct {
    BookingID      *uint64
    BookingRoomIDs []uint64
    ServiceUsageID *uint64

    Type           ledger.Kind
    Method         string
    TransactionRef *string
    Description    string
    Promotions     []PromotionApplication
    EmployeeID     uint64
}

// Result is what a completed pipeline run hands back to the HTTP layer.
type Result struct {
    Scenario    ledger.Scenario
    Transaction *model.Transaction
    Details     []model.TransactionDetail
    Booking     *model.Booking
}

// Processor wires the pipeline to its repositories.  One Processor is
// shared by all requests; all per-request state lives on the stack.
type Processor struct {
    db        *sql.DB
    bookings  *repository.BookingRepo
    services  *repository.ServiceRepo
    txns      *repository.TransactionRepo
    promos    *repository.PromotionRepo
    histories *repository.HistoryRepo
}

// NewProcessor builds a Processor from its repositories.
func NewProcessor(db *sql.DB, bookings *repository.BookingRepo, services *repository.ServiceRepo,
    txns *repository.TransactionRepo, promos *repository.PromotionRepo,
    histories *repository.HistoryRepo) *Processor {
    return &Processor{
        db:        db,
        bookings:  bookings,
        services:  services,
        txns:      txns,
        promos:    promos,
        histories: histories,
    }
}

// Process classifies the request and runs the matching scenario
// pipeline.  Each pipeline is one atomic database transaction.
func (p *Processor) Process(ctx context.Context, req Request) (*Result, error) {
    scenario, err := ledger.Classify(ledger.ScenarioIDs{
        BookingID:      req.BookingID,
        BookingRoomIDs: req.BookingRoomIDs,
        ServiceUsageID: req.ServiceUsageID,
    })
    if err != nil {
        return nil, err
    }
    switch scenario {
    case ledger.FullBooking:
        return p.fullBooking(ctx, req)
    case ledger.SplitRoom:
        return p.splitRoom(ctx, req)
    case ledger.BookingService:
        return p.bookingService(ctx, req)
    case ledger.GuestService:
        return p.guestService(ctx, req)
    }
    return nil, ledger.ErrInvalidScenario
}

// appliedPromotion tracks one grant consumed during discount
// calculation, so persistence can link the audit rows to the detail the
// grant funded.
type appliedPromotion struct {
    Grant     model.CustomerPromotion
    Promotion model.Promotion
    LineIndex int
    Discount  decimal.Decimal
}

// applyPromotions runs pipeline steps 2 to 4: each requested grant is
// locked, checked for ownership and eligibility, resolved to a line
// item and applied as a discount.  Any invalid application fails the
// whole payment; there is no partial promotion application.
func (p *Processor) applyPromotions(ctx context.Context, tx *sql.Tx, lines []ledger.Line,
    apps []PromotionApplication, customerID uint64, now time.Time) ([]appliedPromotion, error) {
    applied := make([]appliedPromotion, 0, len(apps))
    for _, app := range apps {
        grant, err := p.promos.GetGrantTx(ctx, tx, app.CustomerPromotionID)
        if err != nil {
            return nil, err
        }
        if grant.Grant.CustomerID != customerID {
            return nil, fmt.Errorf("customer promotion %d does not belong to the paying customer",
                app.CustomerPromotionID)
        }
        if err := ledger.CheckEligible(grant.Grant, grant.Promotion, now); err != nil {
            return nil, err
        }
        idx, err := resolveLine(lines, app)
        if err != nil {
            return nil, err
        }
        raw := ledger.Discount(grant.Promotion, lines[idx].Base)
        got := lines[idx].AddDiscount(raw)
        if got.IsZero() {
            continue
        }
        applied = append(applied, appliedPromotion{
            Grant:     grant.Grant,
            Promotion: grant.Promotion,
            LineIndex: idx,
            Discount:  got,
        })
    }
    return applied, nil
}

// resolveLine finds the line item a promotion application targets.  An
// untargeted application is only valid for single-line payments.
func resolveLine(lines []ledger.Line, app PromotionApplication) (int, error) {
    if app.BookingRoomID == nil && app.ServiceUsageID == nil {
        if len(lines) == 1 {
            return 0, nil
        }
        return 0, fmt.Errorf("promotion application %d must target a specific room or service",
            app.CustomerPromotionID)
    }
    for i, l := range lines {
        if app.BookingRoomID != nil && l.BookingRoomID != nil && *l.BookingRoomID == *app.BookingRoomID {
            return i, nil
        }
        if app.ServiceUsageID != nil && l.ServiceUsageID != nil && *l.ServiceUsageID == *app.ServiceUsageID {
            return i, nil
        }
    }
    return 0, fmt.Errorf("promotion application %d targets a line item outside this payment",
        app.CustomerPromotionID)
}

// persistDetails runs pipeline step 6 after the optional transaction
// row exists: details are inserted in line order, then every applied
// grant is marked USED and audited against the detail it funded.
// transactionID is nil for guest service payments.
func (p *Processor) persistDetails(ctx context.Context, tx *sql.Tx, transactionID *uint64,
    lines []ledger.Line, applied []appliedPromotion, now time.Time) ([]model.TransactionDetail, error) {
    details := make([]model.TransactionDetail, len(lines))
    for i, l := range lines {
        d := model.TransactionDetail{
            TransactionID:  transactionID,
            BookingRoomID:  l.BookingRoomID,
            ServiceUsageID: l.ServiceUsageID,
            BaseAmount:     l.Base,
            DiscountAmount: l.Discount,
            Amount:         l.Amount,
        }
        if err := p.txns.CreateDetailTx(ctx, tx, &d); err != nil {
            return nil, err
        }
        details[i] = d
    }
    for _, ap := range applied {
        detailID := details[ap.LineIndex].ID
        up := model.UsedPromotion{
            PromotionID:         ap.Promotion.ID,
            TransactionID:       transactionID,
            TransactionDetailID: detailID,
            DiscountAmount:      ap.Discount,
        }
        if err := p.promos.CreateUsedTx(ctx, tx, &up); err != nil {
            return nil, err
        }
        if err := p.promos.MarkUsedTx(ctx, tx, ap.Grant.ID, detailID, now); err != nil {
            return nil, err
        }
    }
    return details, nil
}

// newTransaction assembles the ledger entry for scenarios that create
// one.  A missing transaction reference gets a generated UUID so every
// entry is externally addressable.
func newTransaction(req Request, bookingID uint64, agg ledger.Amounts, defaultDesc string, now time.Time) model.Transaction {
    ref := req.TransactionRef
    if ref == nil {
        generated := uuid.NewString()
        ref = &generated
    }
    desc := req.Description
    if desc == "" {
        desc = defaultDesc
    }
    id := bookingID
    return model.Transaction{
        BookingID:      &id,
        Type:           string(req.Type),
        BaseAmount:     agg.Base,
        DiscountAmount: agg.Discount,
        Amount:         agg.Amount,
        Method:         req.Method,
        Status:         model.TransactionCompleted,
        ProcessedByID:  req.EmployeeID,
        TransactionRef: ref,
        Description:    desc,
        OccurredAt:     now,
    }
}

// appendTransactionHistory writes the step 8 audit entry for
// booking-bound scenarios inside the same database transaction.
func (p *Processor) appendTransactionHistory(ctx context.Context, tx *sql.Tx, bookingID, employeeID uint64,
    t *model.Transaction) error {
    changes, err := json.Marshal(map[string]interface{}{
        "transaction_id": t.ID,
        "type":           t.Type,
        "amount":         t.Amount,
        "method":         t.Method,
    })
    if err != nil {
        return err
    }
    emp := employeeID
    return p.histories.AppendTx(ctx, tx, &model.BookingHistory{
        BookingID:  bookingID,
        EmployeeID: &emp,
        Action:     model.ActionTransaction,
        Changes:    string(changes),
    })
}
