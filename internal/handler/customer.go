package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
    "github.com/iliyamo/hotel-operations-backend/internal/repository"
)

// CustomerHandler manages the guest directory.  Customers are hotel
// guests, not login accounts; the desk registers them by phone number.
type CustomerHandler struct {
    Customers *repository.CustomerRepo
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(customers *repository.CustomerRepo) *CustomerHandler {
    if customers == nil {
        panic("nil repository passed to NewCustomerHandler")
    }
    return &CustomerHandler{Customers: customers}
}

type customerBody struct {
    FullName string  `json:"full_name"`
    Phone    string  `json:"phone"`
    Email    *string `json:"email"`
    IDNumber *string `json:"id_number"`
    Address  *string `json:"address"`
}

func (b *customerBody) validate() error {
    b.FullName = strings.TrimSpace(b.FullName)
    b.Phone = strings.TrimSpace(b.Phone)
    if b.FullName == "" || b.Phone == "" {
        return errors.New("full_name and phone are required")
    }
    return nil
}

// Create handles POST /v1/customers.
func (h *CustomerHandler) Create(c echo.Context) error {
    var body customerBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := body.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    cust := model.Customer{
        FullName: body.FullName,
        Phone:    body.Phone,
        Email:    body.Email,
        IDNumber: body.IDNumber,
        Address:  body.Address,
    }
    if err := h.Customers.Create(c.Request().Context(), &cust); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create customer"})
    }
    return c.JSON(http.StatusCreated, customerResponse(cust))
}

// Get handles GET /v1/customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    cust, err := h.Customers.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customer"})
    }
    return c.JSON(http.StatusOK, customerResponse(cust))
}

// Lookup handles GET /v1/customers/lookup?phone=...  The desk uses it
// to find returning guests before creating a booking.
func (h *CustomerHandler) Lookup(c echo.Context) error {
    phone := strings.TrimSpace(c.QueryParam("phone"))
    if phone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone query parameter is required"})
    }
    cust, err := h.Customers.GetByPhone(c.Request().Context(), phone)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customer"})
    }
    return c.JSON(http.StatusOK, customerResponse(cust))
}

// Update handles PUT /v1/customers/:id.
func (h *CustomerHandler) Update(c echo.Context) error {
    id, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    var body customerBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := body.validate(); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    cust := model.Customer{
        ID:       id,
        FullName: body.FullName,
        Phone:    body.Phone,
        Email:    body.Email,
        IDNumber: body.IDNumber,
        Address:  body.Address,
    }
    if err := h.Customers.Update(c.Request().Context(), &cust); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "phone number already registered"})
        }
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update customer"})
    }
    return c.JSON(http.StatusOK, customerResponse(cust))
}

func customerResponse(cust model.Customer) echo.Map {
    return echo.Map{
        "id":        cust.ID,
        "full_name": cust.FullName,
        "phone":     cust.Phone,
        "email":     cust.Email,
        "id_number": cust.IDNumber,
        "address":   cust.Address,
    }
}
