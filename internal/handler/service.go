package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
    "github.com/iliyamo/hotel-operations-backend/internal/repository"
)

// ServiceHandler manages the purchasable service catalog and records
// service consumption against booking rooms or walk-in guests.
// Catalog mutations are manager-only; usage recording is open to every
// authenticated employee.
type ServiceHandler struct {
    Services  *repository.ServiceRepo
    Bookings  *repository.BookingRepo
    Customers *repository.CustomerRepo
}

// NewServiceHandler constructs a ServiceHandler.
func NewServiceHandler(services *repository.ServiceRepo, bookings *repository.BookingRepo,
    customers *repository.CustomerRepo) *ServiceHandler {
    if services == nil || bookings == nil || customers == nil {
        panic("nil repository passed to NewServiceHandler")
    }
    return &ServiceHandler{Services: services, Bookings: bookings, Customers: customers}
}

type serviceBody struct {
    Name     string          `json:"name"`
    Price    decimal.Decimal `json:"price"`
    Unit     string          `json:"unit"`
    IsActive *bool           `json:"is_active"`
}

func (b *serviceBody) validate() error {
    b.Name = strings.TrimSpace(b.Name)
    b.Unit = strings.TrimSpace(b.Unit)
    if b.Name == "" || b.Unit == "" {
        return errors.New("name and unit are required")
    }
    if b.Price.LessThanOrEqual(decimal.Zero) {
        return errors.New("price must be positive")
    }
    return nil
}

// Create handles POST /v1/services.
func (h *ServiceHandler) Create(c echo.Context) error {
    var body serviceBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := body.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    active := true
    if body.IsActive != nil {
        active = *body.IsActive
    }
    s := model.Service{Name: body.Name, Price: body.Price, Unit: body.Unit, IsActive: active}
    if err := h.Services.Create(c.Request().Context(), &s); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "service name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create service"})
    }
    return c.JSON(http.StatusCreated, serviceResponse(s))
}

// List handles GET /v1/services.  Pass active=true to hide inactive
// services.
func (h *ServiceHandler) List(c echo.Context) error {
    activeOnly := c.QueryParam("active") == "true"
    services, err := h.Services.List(c.Request().Context(), activeOnly)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load services"})
    }
    items := make([]echo.Map, 0, len(services))
    for _, s := range services {
        items = append(items, serviceResponse(s))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/services/:id.
func (h *ServiceHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    var body serviceBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := body.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    ctx := c.Request().Context()
    s, err := h.Services.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load service"})
    }
    s.Name = body.Name
    s.Price = body.Price
    s.Unit = body.Unit
    if body.IsActive != nil {
        s.IsActive = *body.IsActive
    }
    if err := h.Services.Update(ctx, &s); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "service name already exists"})
        }
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update service"})
    }
    return c.JSON(http.StatusOK, serviceResponse(s))
}

// Delete handles DELETE /v1/services/:id.  Services with usage history
// cannot be removed; deactivate them instead.
func (h *ServiceHandler) Delete(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    if err := h.Services.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "service has usage records; deactivate it instead"})
        }
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete service"})
    }
    return c.NoContent(http.StatusNoContent)
}

// RecordUsage handles POST /v1/service-usages.  It snapshots the
// service price and bills the usage either to a booking room (stay
// guests) or directly to a customer (walk-ins). Exactly one of the
// two targets must be provided.
func (h *ServiceHandler) RecordUsage(c echo.Context) error {
    var body struct {
        ServiceID     uint64  `json:"service_id"`
        BookingRoomID *uint64 `json:"booking_room_id"`
        CustomerID    *uint64 `json:"customer_id"`
        Quantity      uint32  `json:"quantity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.ServiceID == 0 || body.Quantity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_id and a positive quantity are required"})
    }
    if (body.BookingRoomID == nil) == (body.CustomerID == nil) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "exactly one of booking_room_id and customer_id is required"})
    }

    ctx := c.Request().Context()
    s, err := h.Services.GetByID(ctx, body.ServiceID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load service"})
    }
    if !s.IsActive {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "service is inactive"})
    }

    if body.CustomerID != nil {
        if _, err := h.Customers.GetByID(ctx, *body.CustomerID); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customer"})
        }
    }

    total := s.Price.Mul(decimal.NewFromInt(int64(body.Quantity)))
    usage := model.ServiceUsage{
        ServiceID:     s.ID,
        BookingRoomID: body.BookingRoomID,
        CustomerID:    body.CustomerID,
        Quantity:      body.Quantity,
        UnitPrice:     s.Price,
        TotalPrice:    total,
        TotalPaid:     decimal.Zero,
        Balance:       total,
        UsedAt:        time.Now().UTC(),
    }

    if body.BookingRoomID != nil {
        // Stay usages grow the owning booking's bill in the same
        // transaction, like a service charge would.
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
        room, err := h.Bookings.RoomTx(ctx, tx, *body.BookingRoomID)
        if err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "booking room not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking room"})
        }
        booking, err := h.Bookings.GetForUpdateTx(ctx, tx, room.BookingID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
        }
        if booking.Status != model.BookingConfirmed && booking.Status != model.BookingCheckedIn {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "cannot record service usage for booking with status: " + booking.Status,
            })
        }
        if err := h.Services.CreateUsageTx(ctx, tx, &usage); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record usage"})
        }
        if err := h.Bookings.AddChargeTx(ctx, tx, booking.ID, total); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking totals"})
        }
        if err := h.Bookings.AddRoomChargeTx(ctx, tx, room.ID, total); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room totals"})
        }
        if err := tx.Commit(); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
        }
        committed = true
    } else {
        if err := h.Services.CreateUsage(ctx, &usage); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record usage"})
        }
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "id":               usage.ID,
        "service_id":       usage.ServiceID,
        "booking_room_id":  usage.BookingRoomID,
        "customer_id":      usage.CustomerID,
        "quantity":         usage.Quantity,
        "unit_price":       usage.UnitPrice,
        "total_price":      usage.TotalPrice,
        "balance":          usage.Balance,
        "used_at":          usage.UsedAt.Format(time.RFC3339),
    })
}

// ListUsages handles GET /v1/booking-rooms/:id/service-usages.  The
// desk uses it to review a room's consumption before settling its bill.
func (h *ServiceHandler) ListUsages(c echo.Context) error {
    bookingRoomID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    usages, err := h.Services.ListUsagesByBookingRoom(c.Request().Context(), bookingRoomID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load service usages"})
    }
    items := make([]echo.Map, 0, len(usages))
    for _, u := range usages {
        items = append(items, echo.Map{
            "id":          u.ID,
            "service_id":  u.ServiceID,
            "quantity":    u.Quantity,
            "unit_price":  u.UnitPrice,
            "total_price": u.TotalPrice,
            "total_paid":  u.TotalPaid,
            "balance":     u.Balance,
            "used_at":     u.UsedAt.Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func serviceResponse(s model.Service) echo.Map {
    return echo.Map{
        "id":        s.ID,
        "name":      s.Name,
        "price":     s.Price,
        "unit":      s.Unit,
        "is_active": s.IsActive,
    }
}
