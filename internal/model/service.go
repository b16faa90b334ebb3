package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Service is a purchasable hotel service (laundry, minibar, spa...).
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique service name.
//  Price     – unit price.
//  Unit      – billing unit (e.g. "item", "hour").
//  IsActive  – inactive services cannot be used.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Service struct {
    ID        uint64          // services.id
    Name      string          // services.name
    Price     decimal.Decimal // services.price
    Unit      string          // services.unit
    IsActive  bool            // services.is_active
    CreatedAt time.Time       // services.created_at
    UpdatedAt time.Time       // services.updated_at
}

// ServiceUsage is one consumption instance of a service.  Usages tied to
// a stay reference a booking room; walk-in guest usages reference a
// customer instead and carry no booking context at all.
//
// Fields:
//  ID            – primary key identifier.
//  ServiceID     – consumed service.
//  BookingRoomID – booking room the usage is billed to (nullable).
//  CustomerID    – walk-in guest the usage is billed to (nullable).
//  Quantity      – number of units consumed.
//  UnitPrice     – price snapshot at usage time.
//  TotalPrice    – UnitPrice × Quantity.
//  TotalPaid     – cumulative payments allocated to this usage.
//  Balance       – TotalPrice - TotalPaid.
//  UsedAt        – when the service was consumed.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type ServiceUsage struct {
    ID            uint64          // service_usages.id
    ServiceID     uint64          // service_usages.service_id
    BookingRoomID *uint64         // service_usages.booking_room_id (nullable)
    CustomerID    *uint64         // service_usages.customer_id (nullable)
    Quantity      uint32          // service_usages.quantity
    UnitPrice     decimal.Decimal // service_usages.unit_price
    TotalPrice    decimal.Decimal // service_usages.total_price
    TotalPaid     decimal.Decimal // service_usages.total_paid
    Balance       decimal.Decimal // service_usages.balance
    UsedAt        time.Time       // service_usages.used_at
    CreatedAt     time.Time       // service_usages.created_at
    UpdatedAt     time.Time       // service_usages.updated_at
}
