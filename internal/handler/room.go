package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
    "github.com/iliyamo/hotel-operations-backend/internal/repository"
)

// RoomHandler manages the room type catalog and the physical room
// inventory.  Mutations are manager-only; listing is open to every
// authenticated employee.
type RoomHandler struct {
    Rooms *repository.RoomRepo
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
    if rooms == nil {
        panic("nil repository passed to NewRoomHandler")
    }
    return &RoomHandler{Rooms: rooms}
}

// CreateRoomType handles POST /v1/room-types.
func (h *RoomHandler) CreateRoomType(c echo.Context) error {
    var body struct {
        Name          string          `json:"name"`
        Description   *string         `json:"description"`
        PricePerNight decimal.Decimal `json:"price_per_night"`
        Capacity      uint32          `json:"capacity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Name = strings.TrimSpace(body.Name)
    if body.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if body.PricePerNight.LessThanOrEqual(decimal.Zero) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_night must be positive"})
    }
    if body.Capacity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
    }
    rt := model.RoomType{
        Name:          body.Name,
        Description:   body.Description,
        PricePerNight: body.PricePerNight,
        Capacity:      body.Capacity,
    }
    if err := h.Rooms.CreateRoomType(c.Request().Context(), &rt); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room type name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room type"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":              rt.ID,
        "name":            rt.Name,
        "price_per_night": rt.PricePerNight,
        "capacity":        rt.Capacity,
    })
}

// ListRoomTypes handles GET /v1/room-types.
func (h *RoomHandler) ListRoomTypes(c echo.Context) error {
    types, err := h.Rooms.ListRoomTypes(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room types"})
    }
    items := make([]echo.Map, 0, len(types))
    for _, rt := range types {
        items = append(items, echo.Map{
            "id":              rt.ID,
            "name":            rt.Name,
            "description":     rt.Description,
            "price_per_night": rt.PricePerNight,
            "capacity":        rt.Capacity,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateRoom handles POST /v1/rooms.  New rooms start AVAILABLE.
func (h *RoomHandler) CreateRoom(c echo.Context) error {
    var body struct {
        RoomTypeID uint64 `json:"room_type_id"`
        RoomNumber string `json:"room_number"`
        Floor      uint32 `json:"floor"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.RoomNumber = strings.TrimSpace(body.RoomNumber)
    if body.RoomTypeID == 0 || body.RoomNumber == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id and room_number are required"})
    }
    room := model.Room{
        RoomTypeID: body.RoomTypeID,
        RoomNumber: body.RoomNumber,
        Floor:      body.Floor,
    }
    if err := h.Rooms.CreateRoom(c.Request().Context(), &room); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":          room.ID,
        "room_number": room.RoomNumber,
        "status":      room.Status,
    })
}

// ListRooms handles GET /v1/rooms with an optional room_type_id query
// filter.
func (h *RoomHandler) ListRooms(c echo.Context) error {
    var roomTypeID uint64
    if raw := c.QueryParam("room_type_id"); raw != "" {
        parsed, err := strconv.ParseUint(raw, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_type_id"})
        }
        roomTypeID = parsed
    }
    rooms, err := h.Rooms.ListRooms(c.Request().Context(), roomTypeID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
    }
    items := make([]echo.Map, 0, len(rooms))
    for _, r := range rooms {
        items = append(items, echo.Map{
            "id":           r.ID,
            "room_type_id": r.RoomTypeID,
            "room_number":  r.RoomNumber,
            "floor":        r.Floor,
            "status":       r.Status,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
