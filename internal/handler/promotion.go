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

// PromotionHandler manages promotion definitions and per-customer
// grants.  Definitions are manager-only; granting and listing are open
// to every authenticated employee.
type PromotionHandler struct {
    Promotions *repository.PromotionRepo
    Customers  *repository.CustomerRepo
}

// NewPromotionHandler constructs a PromotionHandler.
func NewPromotionHandler(promotions *repository.PromotionRepo, customers *repository.CustomerRepo) *PromotionHandler {
    if promotions == nil || customers == nil {
        panic("nil repository passed to NewPromotionHandler")
    }
    return &PromotionHandler{Promotions: promotions, Customers: customers}
}

// Create handles POST /v1/promotions.
func (h *PromotionHandler) Create(c echo.Context) error {
    var body struct {
        Code          string          `json:"code"`
        Name          string          `json:"name"`
        DiscountType  string          `json:"discount_type"`
        DiscountValue decimal.Decimal `json:"discount_value"`
        ValidUntil    *string         `json:"valid_until"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
    body.Name = strings.TrimSpace(body.Name)
    if body.Code == "" || body.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name are required"})
    }
    switch body.DiscountType {
    case model.DiscountPercent:
        if body.DiscountValue.LessThanOrEqual(decimal.Zero) ||
            body.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "percent discount must be between 0 and 100"})
        }
    case model.DiscountFixed:
        if body.DiscountValue.LessThanOrEqual(decimal.Zero) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "fixed discount must be positive"})
        }
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount_type must be PERCENT or FIXED"})
    }
    var validUntil *time.Time
    if body.ValidUntil != nil {
        t, err := time.Parse(time.RFC3339, *body.ValidUntil)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_until must be RFC 3339"})
        }
        validUntil = &t
    }
    p := model.Promotion{
        Code:          body.Code,
        Name:          body.Name,
        DiscountType:  body.DiscountType,
        DiscountValue: body.DiscountValue,
        ValidUntil:    validUntil,
    }
    if err := h.Promotions.Create(c.Request().Context(), &p); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "promotion code already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create promotion"})
    }
    return c.JSON(http.StatusCreated, promotionResponse(p))
}

// Grant handles POST /v1/promotions/:id/grants.  It assigns one
// consumable instance of the promotion to a customer.
func (h *PromotionHandler) Grant(c echo.Context) error {
    promotionID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    var body struct {
        CustomerID uint64 `json:"customer_id"`
    }
    if err := c.Bind(&body); err != nil || body.CustomerID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id is required"})
    }
    ctx := c.Request().Context()
    p, err := h.Promotions.GetByID(ctx, promotionID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load promotion"})
    }
    if p.ValidUntil != nil && p.ValidUntil.Before(time.Now()) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "promotion has expired"})
    }
    if _, err := h.Customers.GetByID(ctx, body.CustomerID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customer"})
    }
    cp := model.CustomerPromotion{CustomerID: body.CustomerID, PromotionID: p.ID}
    if err := h.Promotions.Grant(ctx, &cp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to grant promotion"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":           cp.ID,
        "customer_id":  cp.CustomerID,
        "promotion_id": cp.PromotionID,
        "status":       cp.Status,
    })
}

// ListByCustomer handles GET /v1/customers/:id/promotions.
func (h *PromotionHandler) ListByCustomer(c echo.Context) error {
    customerID, err := parseID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    grants, err := h.Promotions.ListByCustomer(c.Request().Context(), customerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load promotions"})
    }
    items := make([]echo.Map, 0, len(grants))
    for _, g := range grants {
        items = append(items, echo.Map{
            "id":        g.Grant.ID,
            "status":    g.Grant.Status,
            "used_at":   g.Grant.UsedAt,
            "promotion": promotionResponse(g.Promotion),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func promotionResponse(p model.Promotion) echo.Map {
    return echo.Map{
        "id":             p.ID,
        "code":           p.Code,
        "name":           p.Name,
        "discount_type":  p.DiscountType,
        "discount_value": p.DiscountValue,
        "valid_until":    p.ValidUntil,
    }
}
