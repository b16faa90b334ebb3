package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		ids  ScenarioIDs
		want Scenario
		err  bool
	}{
		{name: "booking only", ids: ScenarioIDs{BookingID: u64(1)}, want: FullBooking},
		{name: "booking with rooms", ids: ScenarioIDs{BookingID: u64(1), BookingRoomIDs: []uint64{2, 3}}, want: SplitRoom},
		{name: "booking with service", ids: ScenarioIDs{BookingID: u64(1), ServiceUsageID: u64(4)}, want: BookingService},
		{name: "service only", ids: ScenarioIDs{ServiceUsageID: u64(4)}, want: GuestService},
		{name: "service wins over rooms", ids: ScenarioIDs{BookingID: u64(1), BookingRoomIDs: []uint64{2}, ServiceUsageID: u64(4)}, want: BookingService},
		{name: "empty payload", ids: ScenarioIDs{}, err: true},
		{name: "rooms without booking", ids: ScenarioIDs{BookingRoomIDs: []uint64{2}}, err: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(tc.ids)
			if tc.err {
				require.ErrorIs(t, err, ErrInvalidScenario)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
