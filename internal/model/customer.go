package model

import "time"

// Customer represents a guest known to the hotel.  Customers are
// referenced by bookings (primary customer), by booking guests at
// check-in and by promotion grants.
//
// Fields:
//  ID        – primary key identifier.
//  FullName  – guest's full name.
//  Phone     – unique phone number.
//  Email     – optional email address.
//  IDNumber  – optional identity document number.
//  Address   – optional postal address.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Customer struct {
    ID        uint64    // customers.id
    FullName  string    // customers.full_name
    Phone     string    // customers.phone
    Email     *string   // customers.email (nullable)
    IDNumber  *string   // customers.id_number (nullable)
    Address   *string   // customers.address (nullable)
    CreatedAt time.Time // customers.created_at
    UpdatedAt time.Time // customers.updated_at
}
