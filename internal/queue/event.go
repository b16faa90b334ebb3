// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking's deposit promotes
// it to CONFIRMED.  It contains enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type BookingConfirmedEvent struct {
    BookingID    uint64   `json:"booking_id"`
    BookingCode  string   `json:"booking_code"`
    CustomerID   uint64   `json:"customer_id"`
    CheckInDate  string   `json:"check_in_date"`
    CheckOutDate string   `json:"check_out_date"`
    RoomNumbers  []string `json:"rooms"`
    TotalGuests  uint32   `json:"total_guests"`
    TotalAmount  string   `json:"total_amount"`
    TotalDeposit string   `json:"total_deposit"`
    ConfirmedAt  string   `json:"confirmed_at"`
}
