package ledger

import "errors"

// Scenario identifies which of the four payment pipelines a request
// belongs to.  Classification is driven purely by which identifiers are
// populated on the payload.
type Scenario int

const (
    // FullBooking pays every still-owed booking room of a booking.
    FullBooking Scenario = iota + 1
    // SplitRoom pays only an explicitly requested subset of booking rooms.
    SplitRoom
    // BookingService pays one service usage belonging to a booking.
    BookingService
    // GuestService pays one service usage with no booking context; it
    // produces transaction details only, never a transaction row.
    GuestService
)

// ErrInvalidScenario is returned when the identifier combination on a
// payment request matches none of the four supported scenarios.
var ErrInvalidScenario = errors.New("invalid payment scenario")

// ScenarioIDs carries the identifier fields relevant to classification.
type ScenarioIDs struct {
    BookingID      *uint64
    BookingRoomIDs []uint64
    ServiceUsageID *uint64
}

// Classify maps an identifier combination to exactly one scenario:
//
//	booking | room subset | service usage | scenario
//	  yes   |     no      |      no       | FullBooking
//	  yes   |     yes     |      no       | SplitRoom
//	  yes   |      –      |      yes      | BookingService
//	  no    |      –      |      yes      | GuestService
//
// Any other combination fails with ErrInvalidScenario.
func Classify(ids ScenarioIDs) (Scenario, error) {
    hasBooking := ids.BookingID != nil
    hasRooms := len(ids.BookingRoomIDs) > 0
    hasService := ids.ServiceUsageID != nil

    switch {
    case hasService && !hasBooking:
        return GuestService, nil
    case hasService && hasBooking:
        return BookingService, nil
    case hasBooking && hasRooms:
        return SplitRoom, nil
    case hasBooking:
        return FullBooking, nil
    }
    return 0, ErrInvalidScenario
}
