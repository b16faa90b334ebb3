// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers such
// as handlers to distinguish between different failure scenarios. For
// example, ErrConflict indicates a state conflict such as a duplicate
// key, while NotEnoughRoomsError signals that room allocation cannot
// satisfy a request for a room type.
package repository

import (
    "errors"
    "fmt"
)

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as deleting a service that still has usage
// records. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrRoomTypeNotFound is returned when an allocation request references
// a room type id that does not exist.
var ErrRoomTypeNotFound = errors.New("one or more room types not found")

// ErrCustomerNotFound is returned when a referenced customer id does
// not exist.
var ErrCustomerNotFound = errors.New("one or more customers not found")

// ErrPromotionNotFound is returned when a customer promotion referenced
// by a payment does not exist.
var ErrPromotionNotFound = errors.New("customer promotion not found")

// NotEnoughRoomsError reports an allocation shortfall for one room
// type. Handlers translate it into an HTTP 409 response; the message
// names the room type and both counts so the desk can renegotiate the
// request.
type NotEnoughRoomsError struct {
    RoomType  string
    Requested int
    Available int
}

func (e *NotEnoughRoomsError) Error() string {
    return fmt.Sprintf("not enough available rooms for room type: %s. Requested: %d, Available: %d",
        e.RoomType, e.Requested, e.Available)
}
