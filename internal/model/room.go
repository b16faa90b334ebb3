package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Room status values.  A room is AVAILABLE until a booking reserves it,
// RESERVED while a booking holds it, OCCUPIED after check-in and
// MAINTENANCE when taken out of inventory by housekeeping.
const (
    RoomAvailable   = "AVAILABLE"
    RoomReserved    = "RESERVED"
    RoomOccupied    = "OCCUPIED"
    RoomMaintenance = "MAINTENANCE"
)

// RoomType describes a sellable category of rooms (e.g. Standard Twin).
// The price per night recorded here is snapshotted onto booking rooms at
// allocation time so later price changes do not affect open bookings.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – unique room type name.
//  Description   – optional free-text description.
//  PricePerNight – nightly rate for rooms of this type.
//  Capacity      – maximum number of guests per room.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type RoomType struct {
    ID            uint64          // room_types.id
    Name          string          // room_types.name
    Description   *string         // room_types.description (nullable)
    PricePerNight decimal.Decimal // room_types.price_per_night
    Capacity      uint32          // room_types.capacity
    CreatedAt     time.Time       // room_types.created_at
    UpdatedAt     time.Time       // room_types.updated_at
}

// Room represents one physical unit of inventory.  Exactly one active
// booking room (PENDING, CONFIRMED or CHECKED_IN) may hold a room for
// any overlapping date range.
//
// Fields:
//  ID         – primary key identifier.
//  RoomTypeID – room type this unit belongs to.
//  RoomNumber – human readable door number, unique per hotel.
//  Floor      – floor the room is on.
//  Status     – current status (see Room* constants).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
    ID         uint64    // rooms.id
    RoomTypeID uint64    // rooms.room_type_id
    RoomNumber string    // rooms.room_number
    Floor      uint32    // rooms.floor
    Status     string    // rooms.status
    CreatedAt  time.Time // rooms.created_at
    UpdatedAt  time.Time // rooms.updated_at
}
