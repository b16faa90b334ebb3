package repository

import (
    "errors"
    "testing"

    "github.com/stretchr/testify/require"
)

func TestNotEnoughRoomsErrorMessage(t *testing.T) {
    err := &NotEnoughRoomsError{RoomType: "Deluxe", Requested: 3, Available: 1}
    require.Equal(t,
        "not enough available rooms for room type: Deluxe. Requested: 3, Available: 1",
        err.Error())
}

func TestSentinelIdentity(t *testing.T) {
    require.True(t, errors.Is(ErrConflict, ErrConflict))
    require.False(t, errors.Is(ErrConflict, ErrRoomTypeNotFound))

    wrapped := &NotEnoughRoomsError{RoomType: "Suite", Requested: 2, Available: 0}
    var target *NotEnoughRoomsError
    require.True(t, errors.As(error(wrapped), &target))
    require.Equal(t, "Suite", target.RoomType)
}
