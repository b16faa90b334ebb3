package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Booking status values.  PENDING bookings hold their rooms for a short
// window; a sufficient deposit promotes them to CONFIRMED and check-in
// promotes them to CHECKED_IN.  CHECKED_OUT and CANCELLED are terminal.
const (
    BookingPending    = "PENDING"
    BookingConfirmed  = "CONFIRMED"
    BookingCheckedIn  = "CHECKED_IN"
    BookingCheckedOut = "CHECKED_OUT"
    BookingCancelled  = "CANCELLED"
)

// Booking is the aggregate root for a stay.  It owns its booking rooms
// and history entries and references the primary customer.  Bookings are
// never hard-deleted; their lifecycle is driven entirely by status.
// The balance must equal TotalAmount minus TotalPaid after every
// mutation.
//
// Fields:
//  ID                – primary key identifier.
//  BookingCode       – human readable code (BK...), unique.
//  Status            – lifecycle status (see Booking* constants).
//  PrimaryCustomerID – customer who made the booking.
//  CheckInDate       – requested check-in date.
//  CheckOutDate      – requested check-out date.
//  TotalGuests       – number of guests across all rooms.
//  TotalAmount       – sum of room subtotals plus later charges.
//  DepositRequired   – deposit needed to confirm (one night per room).
//  TotalDeposit      – cumulative deposits received.
//  TotalPaid         – cumulative payments received.
//  Balance           – TotalAmount - TotalPaid.
//  ExpiresAt         – end of the 15 minute inventory hold (nullable
//                      once the booking leaves PENDING).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Booking struct {
    ID                uint64          // bookings.id
    BookingCode       string          // bookings.booking_code
    Status            string          // bookings.status
    PrimaryCustomerID uint64          // bookings.primary_customer_id
    CheckInDate       time.Time       // bookings.check_in_date
    CheckOutDate      time.Time       // bookings.check_out_date
    TotalGuests       uint32          // bookings.total_guests
    TotalAmount       decimal.Decimal // bookings.total_amount
    DepositRequired   decimal.Decimal // bookings.deposit_required
    TotalDeposit      decimal.Decimal // bookings.total_deposit
    TotalPaid         decimal.Decimal // bookings.total_paid
    Balance           decimal.Decimal // bookings.balance
    ExpiresAt         *time.Time      // bookings.expires_at (nullable)
    CreatedAt         time.Time       // bookings.created_at
    UpdatedAt         time.Time       // bookings.updated_at
}

// BookingRoom is one allocated room for one stay segment.  The nightly
// price is snapshotted from the room type at allocation time.  The sum
// of all booking room subtotals equals the booking's initial total
// amount.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – owning booking.
//  RoomID        – allocated physical room.
//  RoomTypeID    – room type at allocation time.
//  CheckInDate   – stay segment start.
//  CheckOutDate  – stay segment end.
//  PricePerNight – nightly rate snapshot.
//  Subtotal      – PricePerNight × nights.
//  TotalAmount   – Subtotal plus room-level charges.
//  TotalPaid     – cumulative payments allocated to this room.
//  Balance       – TotalAmount - TotalPaid.
//  DepositAmount – this room's share of the confirming deposit.
//  Status        – mirrors a subset of booking statuses.
//  ActualCheckIn – recorded at check-in (nullable before).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type BookingRoom struct {
    ID            uint64          // booking_rooms.id
    BookingID     uint64          // booking_rooms.booking_id
    RoomID        uint64          // booking_rooms.room_id
    RoomTypeID    uint64          // booking_rooms.room_type_id
    CheckInDate   time.Time       // booking_rooms.check_in_date
    CheckOutDate  time.Time       // booking_rooms.check_out_date
    PricePerNight decimal.Decimal // booking_rooms.price_per_night
    Subtotal      decimal.Decimal // booking_rooms.subtotal
    TotalAmount   decimal.Decimal // booking_rooms.total_amount
    TotalPaid     decimal.Decimal // booking_rooms.total_paid
    Balance       decimal.Decimal // booking_rooms.balance
    DepositAmount decimal.Decimal // booking_rooms.deposit_amount
    Status        string          // booking_rooms.status
    ActualCheckIn *time.Time      // booking_rooms.actual_check_in (nullable)
    CreatedAt     time.Time       // booking_rooms.created_at
    UpdatedAt     time.Time       // booking_rooms.updated_at
}

// BookingGuest links a customer to a booking room at check-in.  The
// combination of booking, room and customer is unique; duplicate links
// are silently ignored when guests are registered.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – owning booking.
//  BookingRoomID – room the guest stays in.
//  CustomerID    – the guest.
//  IsPrimary     – whether this guest is the room's primary contact.
//  CreatedAt     – creation timestamp.
type BookingGuest struct {
    ID            uint64    // booking_guests.id
    BookingID     uint64    // booking_guests.booking_id
    BookingRoomID uint64    // booking_guests.booking_room_id
    CustomerID    uint64    // booking_guests.customer_id
    IsPrimary     bool      // booking_guests.is_primary
    CreatedAt     time.Time // booking_guests.created_at
}
