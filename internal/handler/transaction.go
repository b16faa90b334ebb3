package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-operations-backend/internal/ledger"
    "github.com/iliyamo/hotel-operations-backend/internal/model"
    "github.com/iliyamo/hotel-operations-backend/internal/payment"
    "github.com/iliyamo/hotel-operations-backend/internal/repository"
)

// TransactionHandler exposes the scenario payment pipeline.  The
// request's identifier combination decides which of the four scenarios
// runs; amounts are always derived from outstanding balances, never
// supplied by the caller.
type TransactionHandler struct {
    Processor    *payment.Processor
    Transactions *repository.TransactionRepo
}

// NewTransactionHandler constructs a TransactionHandler.
func NewTransactionHandler(p *payment.Processor, t *repository.TransactionRepo) *TransactionHandler {
    if p == nil || t == nil {
        panic("nil dependency passed to NewTransactionHandler")
    }
    return &TransactionHandler{Processor: p, Transactions: t}
}

// Create handles POST /v1/transactions.  It settles outstanding
// balances for a whole booking, a room subset, a booking's service
// usage or a walk-in guest's service usage, optionally discounted by
// customer promotions.  The whole pipeline is atomic: any validation
// failure leaves zero rows changed.
func (h *TransactionHandler) Create(c echo.Context) error {
    employeeID, err := getEmployeeID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        BookingID      *uint64                        `json:"booking_id"`
        BookingRoomIDs []uint64                       `json:"booking_room_ids"`
        ServiceUsageID *uint64                        `json:"service_usage_id"`
        Type           string                         `json:"type"`
        Method         string                         `json:"method"`
        TransactionRef *string                        `json:"transaction_ref"`
        Description    string                         `json:"description"`
        Promotions     []payment.PromotionApplication `json:"promotions"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    kind, err := ledger.ParseKind(body.Type)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    switch body.Method {
    case model.PaymentCash, model.PaymentCard, model.PaymentBankTransfer:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
    }

    result, err := h.Processor.Process(c.Request().Context(), payment.Request{
        BookingID:      body.BookingID,
        BookingRoomIDs: body.BookingRoomIDs,
        ServiceUsageID: body.ServiceUsageID,
        Type:           kind,
        Method:         body.Method,
        TransactionRef: body.TransactionRef,
        Description:    strings.TrimSpace(body.Description),
        Promotions:     body.Promotions,
        EmployeeID:     employeeID,
    })
    if err != nil {
        if errors.Is(err, ledger.ErrInvalidScenario) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrPromotionNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "payment target not found"})
        }
        // Pipeline validation failures (already paid, cross-booking
        // mismatch, ineligible promotion, over-limit amounts) are all
        // rejected operations, not server faults.
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    details := make([]echo.Map, 0, len(result.Details))
    for _, d := range result.Details {
        details = append(details, echo.Map{
            "id":               d.ID,
            "booking_room_id":  d.BookingRoomID,
            "service_usage_id": d.ServiceUsageID,
            "base_amount":      d.BaseAmount,
            "discount_amount":  d.DiscountAmount,
            "amount":           d.Amount,
        })
    }
    resp := echo.Map{
        "scenario": scenarioName(result.Scenario),
        "details":  details,
    }
    if result.Transaction != nil {
        t := result.Transaction
        resp["transaction"] = echo.Map{
            "id":              t.ID,
            "booking_id":      t.BookingID,
            "type":            t.Type,
            "base_amount":     t.BaseAmount,
            "discount_amount": t.DiscountAmount,
            "amount":          t.Amount,
            "method":          t.Method,
            "status":          t.Status,
            "transaction_ref": t.TransactionRef,
            "description":     t.Description,
            "occurred_at":     t.OccurredAt.Format(time.RFC3339),
        }
    }
    if result.Booking != nil {
        b := result.Booking
        resp["booking"] = echo.Map{
            "id":            b.ID,
            "booking_code":  b.BookingCode,
            "status":        b.Status,
            "total_amount":  b.TotalAmount,
            "total_deposit": b.TotalDeposit,
            "total_paid":    b.TotalPaid,
            "balance":       b.Balance,
        }
    }
    return c.JSON(http.StatusCreated, resp)
}

// Get handles GET /v1/transactions/:id.  It returns one ledger entry
// with its allocation details.
func (h *TransactionHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    ctx := c.Request().Context()
    t, err := h.Transactions.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load transaction"})
    }
    details, err := h.Transactions.DetailsByTransaction(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load transaction details"})
    }
    items := make([]echo.Map, 0, len(details))
    for _, d := range details {
        items = append(items, echo.Map{
            "id":               d.ID,
            "booking_room_id":  d.BookingRoomID,
            "service_usage_id": d.ServiceUsageID,
            "base_amount":      d.BaseAmount,
            "discount_amount":  d.DiscountAmount,
            "amount":           d.Amount,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "transaction": echo.Map{
            "id":              t.ID,
            "booking_id":      t.BookingID,
            "type":            t.Type,
            "base_amount":     t.BaseAmount,
            "discount_amount": t.DiscountAmount,
            "amount":          t.Amount,
            "method":          t.Method,
            "status":          t.Status,
            "transaction_ref": t.TransactionRef,
            "description":     t.Description,
            "occurred_at":     t.OccurredAt.Format(time.RFC3339),
        },
        "details": items,
    })
}

func scenarioName(s ledger.Scenario) string {
    switch s {
    case ledger.FullBooking:
        return "FULL_BOOKING"
    case ledger.SplitRoom:
        return "SPLIT_ROOM"
    case ledger.BookingService:
        return "BOOKING_SERVICE"
    case ledger.GuestService:
        return "GUEST_SERVICE"
    }
    return "UNKNOWN"
}
