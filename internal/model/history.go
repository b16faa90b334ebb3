package model

import "time"

// Audit action tags recorded in booking histories and activities.
const (
    ActionBookingCreated = "BOOKING_CREATED"
    ActionConfirmed      = "CONFIRMED"
    ActionCheckIn        = "CHECK_IN"
    ActionTransaction    = "TRANSACTION"
)

// BookingHistory is an append-only audit trail entry for one booking.
// The Changes payload is a free-form JSON document describing what the
// action touched.  Entries are never mutated or deleted.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – booking the entry belongs to.
//  EmployeeID – employee who performed the action (nullable for
//               system actions such as hold expiry).
//  Action     – action tag (see Action* constants).
//  Changes    – JSON change payload.
//  CreatedAt  – creation timestamp.
type BookingHistory struct {
    ID         uint64    // booking_histories.id
    BookingID  uint64    // booking_histories.booking_id
    EmployeeID *uint64   // booking_histories.employee_id (nullable)
    Action     string    // booking_histories.action
    Changes    string    // booking_histories.changes (JSON)
    CreatedAt  time.Time // booking_histories.created_at
}

// Activity is an append-only action log entry not tied to a booking.
// Guest service payments have no booking context, so their audit rows
// land here instead of in booking_histories.
//
// Fields:
//  ID         – primary key identifier.
//  EmployeeID – employee who performed the action.
//  Action     – action tag.
//  RefType    – kind of record the entry refers to (e.g. "transaction",
//               "transaction_detail").
//  RefID      – identifier of the referred record.
//  Details    – JSON payload describing the action.
//  CreatedAt  – creation timestamp.
type Activity struct {
    ID         uint64    // activities.id
    EmployeeID uint64    // activities.employee_id
    Action     string    // activities.action
    RefType    string    // activities.ref_type
    RefID      uint64    // activities.ref_id
    Details    string    // activities.details (JSON)
    CreatedAt  time.Time // activities.created_at
}
