package handler

import (
    "context"      // detached context for fire-and-forget event publishing
    "database/sql" // for sentinel errors returned from repository
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/config"
    "github.com/iliyamo/hotel-operations-backend/internal/ledger"
    "github.com/iliyamo/hotel-operations-backend/internal/model"
    "github.com/iliyamo/hotel-operations-backend/internal/queue"
    "github.com/iliyamo/hotel-operations-backend/internal/repository"
    queue_publisher "github.com/iliyamo/hotel-operations-backend/internal/service"
    "github.com/iliyamo/hotel-operations-backend/internal/utils"
)

// dateLayout is the wire format for stay dates.  Dates carry no time
// component; nights are whole calendar days.
const dateLayout = "2006-01-02"

// BookingHandler groups the repositories needed for the booking
// lifecycle: creation with automatic room allocation, check-in and the
// booking-level transaction ledger.  All methods assume JWT
// authentication and role validation has already been performed by
// middleware.  Each multi-step mutation runs inside a database
// transaction so partial writes are never observable.
type BookingHandler struct {
    Cfg          config.Config
    Rooms        *repository.RoomRepo        // availability queries and room status flips
    Bookings     *repository.BookingRepo     // bookings, booking rooms, guests
    Customers    *repository.CustomerRepo    // guest directory lookups
    Transactions *repository.TransactionRepo // the append-only ledger
    Histories    *repository.HistoryRepo     // booking audit trail
}

// NewBookingHandler constructs a BookingHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewBookingHandler(cfg config.Config, rooms *repository.RoomRepo, bookings *repository.BookingRepo,
    customers *repository.CustomerRepo, transactions *repository.TransactionRepo,
    histories *repository.HistoryRepo) *BookingHandler {
    if rooms == nil || bookings == nil || customers == nil || transactions == nil || histories == nil {
        panic("nil repository passed to NewBookingHandler")
    }
    return &BookingHandler{
        Cfg:          cfg,
        Rooms:        rooms,
        Bookings:     bookings,
        Customers:    customers,
        Transactions: transactions,
        Histories:    histories,
    }
}

// roomRequest is one room-type line of a booking request.
type roomRequest struct {
    RoomTypeID uint64 `json:"room_type_id"`
    Count      int    `json:"count"`
}

// CreateBooking handles POST /v1/bookings.  It allocates available
// rooms for each requested room type, snapshots nightly prices, and
// creates a PENDING booking that holds its rooms for a limited window.
// Allocation and creation run in one transaction: the availability
// query locks candidate rows FOR UPDATE, so two concurrent requests
// can never be allocated the same room for overlapping dates.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var body struct {
        Rooms        []roomRequest `json:"rooms"`
        CheckInDate  string        `json:"check_in_date"`
        CheckOutDate string        `json:"check_out_date"`
        TotalGuests  uint32        `json:"total_guests"`
        CustomerID   uint64        `json:"customer_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if len(body.Rooms) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rooms is required"})
    }
    for _, r := range body.Rooms {
        if r.RoomTypeID == 0 || r.Count <= 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "each room request needs a room_type_id and a positive count"})
        }
    }
    if body.CustomerID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id is required"})
    }
    checkIn, err := time.Parse(dateLayout, body.CheckInDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_date"})
    }
    checkOut, err := time.Parse(dateLayout, body.CheckOutDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out_date"})
    }
    nights := int(checkOut.Sub(checkIn).Hours() / 24)
    if nights <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "check-out date must be after check-in date"})
    }

    ctx := c.Request().Context()
    if _, err := h.Customers.GetByID(ctx, body.CustomerID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    // Validate all room types exist before touching inventory.
    typeIDs := make([]uint64, 0, len(body.Rooms))
    for _, r := range body.Rooms {
        typeIDs = append(typeIDs, r.RoomTypeID)
    }
    types, err := h.Rooms.RoomTypesByIDs(ctx, typeIDs)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    for _, r := range body.Rooms {
        if _, ok := types[r.RoomTypeID]; !ok {
            return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrRoomTypeNotFound.Error()})
        }
    }

    tx, err := h.Bookings.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Release stale holds first so expired PENDING bookings never block
    // fresh demand.
    if _, err := h.Rooms.ReleaseExpiredHoldsTx(ctx, tx); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
    }

    type allocated struct {
        room     model.Room
        roomType model.RoomType
    }
    allocations := make([]allocated, 0)
    for _, r := range body.Rooms {
        rt := types[r.RoomTypeID]
        available, err := h.Rooms.FindAvailableTx(ctx, tx, r.RoomTypeID, r.Count, checkIn, checkOut)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check room availability"})
        }
        if len(available) < r.Count {
            shortfall := &repository.NotEnoughRoomsError{
                RoomType:  rt.Name,
                Requested: r.Count,
                Available: len(available),
            }
            return c.JSON(http.StatusConflict, echo.Map{"error": shortfall.Error()})
        }
        for _, room := range available {
            allocations = append(allocations, allocated{room: room, roomType: rt})
        }
    }

    code, err := utils.NewBookingCode()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate booking code"})
    }
    expiresAt := time.Now().UTC().Add(time.Duration(h.Cfg.HoldTTLMin) * time.Minute)

    // Price snapshot: subtotal per room, one night's price per room as
    // the deposit requirement.
    nightsDec := decimal.NewFromInt(int64(nights))
    totalAmount := decimal.Zero
    depositRequired := decimal.Zero
    for _, a := range allocations {
        totalAmount = totalAmount.Add(a.roomType.PricePerNight.Mul(nightsDec))
        depositRequired = depositRequired.Add(a.roomType.PricePerNight)
    }

    booking := model.Booking{
        BookingCode:       code,
        Status:            model.BookingPending,
        PrimaryCustomerID: body.CustomerID,
        CheckInDate:       checkIn,
        CheckOutDate:      checkOut,
        TotalGuests:       body.TotalGuests,
        TotalAmount:       totalAmount,
        DepositRequired:   depositRequired,
        TotalDeposit:      decimal.Zero,
        TotalPaid:         decimal.Zero,
        Balance:           totalAmount,
        ExpiresAt:         &expiresAt,
    }
    if err := h.Bookings.CreateTx(ctx, tx, &booking); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
    }

    bookingRooms := make([]model.BookingRoom, 0, len(allocations))
    roomIDs := make([]uint64, 0, len(allocations))
    for _, a := range allocations {
        subtotal := a.roomType.PricePerNight.Mul(nightsDec)
        bookingRooms = append(bookingRooms, model.BookingRoom{
            BookingID:     booking.ID,
            RoomID:        a.room.ID,
            RoomTypeID:    a.roomType.ID,
            CheckInDate:   checkIn,
            CheckOutDate:  checkOut,
            PricePerNight: a.roomType.PricePerNight,
            Subtotal:      subtotal,
            TotalAmount:   subtotal,
            TotalPaid:     decimal.Zero,
            Balance:       subtotal,
            DepositAmount: decimal.Zero,
            Status:        model.BookingPending,
        })
        roomIDs = append(roomIDs, a.room.ID)
    }
    if err := h.Bookings.CreateRoomsBulkTx(ctx, tx, bookingRooms); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking rooms"})
    }
    if err := h.Rooms.BulkUpdateStatusTx(ctx, tx, roomIDs, model.RoomReserved); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve rooms"})
    }

    changes, _ := json.Marshal(map[string]interface{}{
        "booking_code": code,
        "rooms":        len(bookingRooms),
        "total_amount": totalAmount,
        "expires_at":   expiresAt.Format(time.RFC3339),
    })
    if err := h.Histories.AppendTx(ctx, tx, &model.BookingHistory{
        BookingID: booking.ID,
        Action:    model.ActionBookingCreated,
        Changes:   string(changes),
    }); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record history"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    return c.JSON(http.StatusCreated, echo.Map{
        "booking_id":       booking.ID,
        "booking_code":     booking.BookingCode,
        "status":           booking.Status,
        "expires_at":       expiresAt.Format(time.RFC3339),
        "total_amount":     booking.TotalAmount,
        "deposit_required": booking.DepositRequired,
    })
}

// GetBooking handles GET /v1/bookings/:id.  It returns the booking with
// its rooms, registered guests and the 10 most recent history entries.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    detail, err := h.Bookings.GetDetail(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
    }
    b := detail.Booking
    return c.JSON(http.StatusOK, echo.Map{
        "booking": echo.Map{
            "id":               b.ID,
            "booking_code":     b.BookingCode,
            "status":           b.Status,
            "customer_id":      b.PrimaryCustomerID,
            "check_in_date":    b.CheckInDate.Format(dateLayout),
            "check_out_date":   b.CheckOutDate.Format(dateLayout),
            "total_guests":     b.TotalGuests,
            "total_amount":     b.TotalAmount,
            "deposit_required": b.DepositRequired,
            "total_deposit":    b.TotalDeposit,
            "total_paid":       b.TotalPaid,
            "balance":          b.Balance,
        },
        "rooms":     detail.Rooms,
        "guests":    detail.Guests,
        "histories": detail.Histories,
    })
}

// CheckIn handles POST /v1/bookings/:id/check-in.  It records the
// actual check-in for one booking room of a CONFIRMED booking, flips
// the physical room to OCCUPIED, promotes the booking to CHECKED_IN and
// registers the guests staying in the room.  At least one guest must be
// primary and every guest must exist in the customer directory.
func (h *BookingHandler) CheckIn(c echo.Context) error {
    employeeID, err := getEmployeeID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    var body struct {
        BookingRoomID uint64 `json:"booking_room_id"`
        Guests        []struct {
            CustomerID uint64 `json:"customer_id"`
            IsPrimary  bool   `json:"is_primary"`
        } `json:"guests"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.BookingRoomID == 0 || len(body.Guests) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_room_id and guests are required"})
    }
    hasPrimary := false
    for _, g := range body.Guests {
        if g.IsPrimary {
            hasPrimary = true
            break
        }
    }
    if !hasPrimary {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one guest must be designated as primary"})
    }

    ctx := c.Request().Context()
    tx, err := h.Bookings.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booking, err := h.Bookings.GetForUpdateTx(ctx, tx, bookingID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
    }
    if booking.Status != model.BookingConfirmed {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "cannot check in. booking status must be CONFIRMED, current status: " + booking.Status,
        })
    }
    bookingRoom, err := h.Bookings.RoomTx(ctx, tx, body.BookingRoomID)
    if err != nil || bookingRoom.BookingID != booking.ID {
        if err != nil && !errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking room"})
        }
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking room not found"})
    }

    // Deduplicate guest ids before existence check and linking.
    unique := make([]uint64, 0, len(body.Guests))
    seen := make(map[uint64]struct{}, len(body.Guests))
    for _, g := range body.Guests {
        if g.CustomerID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest customer_id is required"})
        }
        if _, ok := seen[g.CustomerID]; !ok {
            seen[g.CustomerID] = struct{}{}
            unique = append(unique, g.CustomerID)
        }
    }
    found, err := h.Customers.CountByIDsTx(ctx, tx, unique)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify guests"})
    }
    if found != len(unique) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": repository.ErrCustomerNotFound.Error()})
    }

    now := time.Now().UTC()
    if err := h.Bookings.SetRoomCheckedInTx(ctx, tx, bookingRoom.ID, now); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking room"})
    }
    if err := h.Rooms.UpdateStatusTx(ctx, tx, bookingRoom.RoomID, model.RoomOccupied); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room status"})
    }
    if err := h.Bookings.UpdateStatusTx(ctx, tx, booking.ID, model.BookingCheckedIn); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking status"})
    }

    guests := make([]model.BookingGuest, 0, len(body.Guests))
    guestChanges := make([]map[string]interface{}, 0, len(body.Guests))
    for _, g := range body.Guests {
        guests = append(guests, model.BookingGuest{
            BookingID:     booking.ID,
            BookingRoomID: bookingRoom.ID,
            CustomerID:    g.CustomerID,
            IsPrimary:     g.IsPrimary,
        })
        guestChanges = append(guestChanges, map[string]interface{}{
            "customer_id": g.CustomerID,
            "is_primary":  g.IsPrimary,
        })
    }
    if err := h.Bookings.LinkGuestsTx(ctx, tx, guests); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register guests"})
    }

    changes, _ := json.Marshal(map[string]interface{}{
        "booking_room_id": bookingRoom.ID,
        "actual_check_in": now.Format(time.RFC3339),
        "room_status":     model.RoomOccupied,
        "guests":          guestChanges,
    })
    if err := h.Histories.AppendTx(ctx, tx, &model.BookingHistory{
        BookingID:  booking.ID,
        EmployeeID: &employeeID,
        Action:     model.ActionCheckIn,
        Changes:    string(changes),
    }); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record history"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    return c.JSON(http.StatusOK, echo.Map{
        "booking_id":      booking.ID,
        "booking_status":  model.BookingCheckedIn,
        "booking_room_id": bookingRoom.ID,
        "actual_check_in": now.Format(time.RFC3339),
    })
}

// CreateTransaction handles POST /v1/bookings/:id/transactions.  This
// is the booking-level ledger endpoint: the caller names a transaction
// type and an explicit amount, and the type's own rules decide whether
// the entry is admissible and how the booking totals move.  A deposit
// that reaches the required minimum promotes the booking to CONFIRMED,
// distributes the deposit across its rooms and publishes a
// booking.confirmed event.
func (h *BookingHandler) CreateTransaction(c echo.Context) error {
    employeeID, err := getEmployeeID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    var body struct {
        Type           string          `json:"type"`
        Amount         decimal.Decimal `json:"amount"`
        Method         string          `json:"method"`
        TransactionRef *string         `json:"transaction_ref"`
        Description    string          `json:"description"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    kind, err := ledger.ParseKind(body.Type)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    method := body.Method
    switch method {
    case model.PaymentCash, model.PaymentCard, model.PaymentBankTransfer:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
    }

    ctx := c.Request().Context()
    tx, err := h.Bookings.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booking, err := h.Bookings.GetForUpdateTx(ctx, tx, bookingID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
    }

    completedDeposits := decimal.Zero
    if kind == ledger.Deposit {
        completedDeposits, err = h.Transactions.SumCompletedDepositsTx(ctx, tx, booking.ID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sum deposits"})
        }
    }

    totals := ledger.Totals{
        Status:          booking.Status,
        TotalAmount:     booking.TotalAmount,
        DepositRequired: booking.DepositRequired,
        TotalDeposit:    booking.TotalDeposit,
        TotalPaid:       booking.TotalPaid,
        Balance:         booking.Balance,
    }
    if err := kind.Validate(totals, body.Amount, completedDeposits); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    now := time.Now().UTC()
    desc := body.Description
    if desc == "" {
        desc = defaultDescription(kind, booking.BookingCode)
    }
    entry := model.Transaction{
        BookingID:      &booking.ID,
        Type:           string(kind),
        BaseAmount:     body.Amount,
        DiscountAmount: decimal.Zero,
        Amount:         body.Amount,
        Method:         method,
        Status:         model.TransactionCompleted,
        ProcessedByID:  employeeID,
        TransactionRef: body.TransactionRef,
        Description:    desc,
        OccurredAt:     now,
    }
    if err := h.Transactions.CreateTx(ctx, tx, &entry); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create transaction"})
    }

    updated, confirmed := kind.Apply(totals, body.Amount)

    var confirmedRooms []string
    if confirmed {
        rooms, err := h.Bookings.RoomsTx(ctx, tx, booking.ID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking rooms"})
        }
        pending := make([]model.BookingRoom, 0, len(rooms))
        for _, r := range rooms {
            if r.Status == model.BookingPending {
                pending = append(pending, r)
            }
        }
        shares := ledger.DepositShares(body.Amount, len(pending))
        shareRows := make([]repository.RoomDepositShare, 0, len(pending))
        for i, r := range pending {
            shareRows = append(shareRows, repository.RoomDepositShare{BookingRoomID: r.ID, Share: shares[i]})
            confirmedRooms = append(confirmedRooms, strconv.FormatUint(r.RoomID, 10))
        }
        // Physical rooms stay RESERVED; they flip to OCCUPIED at check-in.
        if err := h.Bookings.ConfirmPendingRoomsTx(ctx, tx, shareRows); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking rooms"})
        }
    }

    if err := h.Bookings.UpdateTotalsTx(ctx, tx, booking.ID, updated); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking totals"})
    }

    action := model.ActionTransaction
    if confirmed {
        action = model.ActionConfirmed
    }
    changes, _ := json.Marshal(map[string]interface{}{
        "transaction_id": entry.ID,
        "type":           entry.Type,
        "amount":         entry.Amount,
        "method":         entry.Method,
        "status_after":   updated.Status,
    })
    if err := h.Histories.AppendTx(ctx, tx, &model.BookingHistory{
        BookingID:  booking.ID,
        EmployeeID: &employeeID,
        Action:     action,
        Changes:    string(changes),
    }); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record history"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    if confirmed {
        // Fire-and-forget: publishing failures are logged inside the
        // publisher and never fail the request.
        evt := queue.BookingConfirmedEvent{
            BookingID:    booking.ID,
            BookingCode:  booking.BookingCode,
            CustomerID:   booking.PrimaryCustomerID,
            CheckInDate:  booking.CheckInDate.Format(dateLayout),
            CheckOutDate: booking.CheckOutDate.Format(dateLayout),
            RoomNumbers:  confirmedRooms,
            TotalGuests:  booking.TotalGuests,
            TotalAmount:  updated.TotalAmount.String(),
            TotalDeposit: updated.TotalDeposit.String(),
            ConfirmedAt:  now.Format(time.RFC3339),
        }
        go func() {
            _ = queue_publisher.PublishBookingConfirmed(context.Background(), evt)
        }()
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "transaction": echo.Map{
            "id":              entry.ID,
            "type":            entry.Type,
            "amount":          entry.Amount,
            "method":          entry.Method,
            "status":          entry.Status,
            "transaction_ref": entry.TransactionRef,
            "description":     entry.Description,
            "occurred_at":     entry.OccurredAt.Format(time.RFC3339),
        },
        "booking": echo.Map{
            "id":            booking.ID,
            "status":        updated.Status,
            "total_amount":  updated.TotalAmount,
            "total_deposit": updated.TotalDeposit,
            "total_paid":    updated.TotalPaid,
            "balance":       updated.Balance,
        },
    })
}

// ListTransactions handles GET /v1/bookings/:id/transactions.  It
// returns the booking's ledger entries, newest first.
func (h *BookingHandler) ListTransactions(c echo.Context) error {
    bookingID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    ctx := c.Request().Context()
    if _, err := h.Bookings.GetByID(ctx, bookingID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
    }
    entries, err := h.Transactions.ListByBooking(ctx, bookingID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load transactions"})
    }
    items := make([]echo.Map, 0, len(entries))
    for _, t := range entries {
        items = append(items, echo.Map{
            "id":              t.ID,
            "type":            t.Type,
            "base_amount":     t.BaseAmount,
            "discount_amount": t.DiscountAmount,
            "amount":          t.Amount,
            "method":          t.Method,
            "status":          t.Status,
            "transaction_ref": t.TransactionRef,
            "description":     t.Description,
            "occurred_at":     t.OccurredAt.Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListHistories handles GET /v1/bookings/:id/histories.  Unlike the
// booking detail, which shows only the 10 most recent entries, this
// endpoint pages through the full audit trail via the limit query
// parameter.
func (h *BookingHandler) ListHistories(c echo.Context) error {
    bookingID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    limit := 50
    if raw := c.QueryParam("limit"); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n <= 0 || n > 500 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
        }
        limit = n
    }
    ctx := c.Request().Context()
    if _, err := h.Bookings.GetByID(ctx, bookingID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
    }
    entries, err := h.Histories.ListByBooking(ctx, bookingID, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load histories"})
    }
    items := make([]echo.Map, 0, len(entries))
    for _, e := range entries {
        items = append(items, echo.Map{
            "id":          e.ID,
            "employee_id": e.EmployeeID,
            "action":      e.Action,
            "changes":     json.RawMessage(e.Changes),
            "created_at":  e.CreatedAt.Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// defaultDescription mirrors the ledger entry descriptions shown on
// printed receipts when the caller supplies none.
func defaultDescription(kind ledger.Kind, bookingCode string) string {
    switch kind {
    case ledger.Deposit:
        return "Deposit for booking " + bookingCode
    case ledger.RoomCharge:
        return "Room charge for booking " + bookingCode
    case ledger.ServiceCharge:
        return "Service charge for booking " + bookingCode
    case ledger.Refund:
        return "Refund for booking " + bookingCode
    case ledger.Adjustment:
        return "Adjustment for booking " + bookingCode
    }
    return "Transaction for booking " + bookingCode
}
