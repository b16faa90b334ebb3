package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-operations-backend/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func requireDecEqual(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	require.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"DEPOSIT", "ROOM_CHARGE", "SERVICE_CHARGE", "REFUND", "ADJUSTMENT"} {
		k, err := ParseKind(s)
		require.NoError(t, err)
		require.Equal(t, Kind(s), k)
	}
	_, err := ParseKind("PAYMENT")
	require.Error(t, err)
	_, err = ParseKind("deposit")
	require.Error(t, err)
}

func TestDepositValidate(t *testing.T) {
	totals := Totals{
		Status:          model.BookingPending,
		TotalAmount:     dec("600"),
		DepositRequired: dec("200"),
		Balance:         dec("600"),
	}

	require.NoError(t, Deposit.Validate(totals, dec("200"), decimal.Zero))

	// Deposits must be positive and within the booking amount.
	require.Error(t, Deposit.Validate(totals, decimal.Zero, decimal.Zero))
	require.Error(t, Deposit.Validate(totals, dec("-50"), decimal.Zero))
	require.Error(t, Deposit.Validate(totals, dec("601"), decimal.Zero))

	// Sum of completed deposits caps further deposits.
	require.NoError(t, Deposit.Validate(totals, dec("100"), dec("500")))
	require.Error(t, Deposit.Validate(totals, dec("101"), dec("500")))

	// Only PENDING and CONFIRMED bookings accept deposits.
	totals.Status = model.BookingConfirmed
	require.NoError(t, Deposit.Validate(totals, dec("100"), dec("200")))
	totals.Status = model.BookingCheckedIn
	require.Error(t, Deposit.Validate(totals, dec("100"), dec("200")))
}

func TestChargeValidate(t *testing.T) {
	totals := Totals{Status: model.BookingConfirmed, TotalAmount: dec("600")}
	require.NoError(t, RoomCharge.Validate(totals, dec("50"), decimal.Zero))
	require.NoError(t, ServiceCharge.Validate(totals, dec("50"), decimal.Zero))
	require.Error(t, RoomCharge.Validate(totals, decimal.Zero, decimal.Zero))

	totals.Status = model.BookingPending
	require.Error(t, RoomCharge.Validate(totals, dec("50"), decimal.Zero))
	require.Error(t, ServiceCharge.Validate(totals, dec("50"), decimal.Zero))

	totals.Status = model.BookingCheckedIn
	require.NoError(t, ServiceCharge.Validate(totals, dec("50"), decimal.Zero))
}

func TestRefundValidate(t *testing.T) {
	totals := Totals{Status: model.BookingConfirmed, TotalAmount: dec("600"), TotalPaid: dec("200")}
	require.NoError(t, Refund.Validate(totals, dec("200"), decimal.Zero))
	require.Error(t, Refund.Validate(totals, dec("201"), decimal.Zero))
	require.Error(t, Refund.Validate(totals, decimal.Zero, decimal.Zero))

	totals.TotalPaid = decimal.Zero
	require.Error(t, Refund.Validate(totals, dec("10"), decimal.Zero))
}

func TestAdjustmentValidate(t *testing.T) {
	totals := Totals{Status: model.BookingConfirmed, TotalAmount: dec("600")}
	require.NoError(t, Adjustment.Validate(totals, dec("25"), decimal.Zero))
	require.NoError(t, Adjustment.Validate(totals, dec("-25"), decimal.Zero))
	require.Error(t, Adjustment.Validate(totals, decimal.Zero, decimal.Zero))
}

// TestBookingLifecycleTotals walks a booking through deposit
// confirmation, an extra charge and a refund, checking the running
// aggregates at each step.
func TestBookingLifecycleTotals(t *testing.T) {
	totals := Totals{
		Status:          model.BookingPending,
		TotalAmount:     dec("600"),
		DepositRequired: dec("200"),
		TotalDeposit:    decimal.Zero,
		TotalPaid:       decimal.Zero,
		Balance:         dec("600"),
	}

	// Deposit of 200 meets the requirement and confirms the booking.
	totals, confirmed := Deposit.Apply(totals, dec("200"))
	require.True(t, confirmed)
	require.Equal(t, model.BookingConfirmed, totals.Status)
	requireDecEqual(t, dec("200"), totals.TotalDeposit)
	requireDecEqual(t, dec("200"), totals.TotalPaid)
	requireDecEqual(t, dec("400"), totals.Balance)

	// A room charge grows the bill without moving the paid amount.
	totals, confirmed = RoomCharge.Apply(totals, dec("50"))
	require.False(t, confirmed)
	requireDecEqual(t, dec("650"), totals.TotalAmount)
	requireDecEqual(t, dec("450"), totals.Balance)
	requireDecEqual(t, dec("200"), totals.TotalPaid)

	// A refund of 100 returns half the deposit.
	totals, confirmed = Refund.Apply(totals, dec("100"))
	require.False(t, confirmed)
	requireDecEqual(t, dec("100"), totals.TotalPaid)
	requireDecEqual(t, dec("100"), totals.TotalDeposit)
	requireDecEqual(t, dec("550"), totals.Balance)
}

func TestDepositBelowRequirementStaysPending(t *testing.T) {
	totals := Totals{
		Status:          model.BookingPending,
		TotalAmount:     dec("600"),
		DepositRequired: dec("200"),
		Balance:         dec("600"),
	}
	totals, confirmed := Deposit.Apply(totals, dec("150"))
	require.False(t, confirmed)
	require.Equal(t, model.BookingPending, totals.Status)
	requireDecEqual(t, dec("150"), totals.TotalDeposit)

	// The second deposit tops up past the requirement and confirms.
	totals, confirmed = Deposit.Apply(totals, dec("50"))
	require.True(t, confirmed)
	require.Equal(t, model.BookingConfirmed, totals.Status)
}

func TestDepositOnConfirmedDoesNotReconfirm(t *testing.T) {
	totals := Totals{
		Status:          model.BookingConfirmed,
		TotalAmount:     dec("600"),
		DepositRequired: dec("200"),
		TotalDeposit:    dec("200"),
		TotalPaid:       dec("200"),
		Balance:         dec("400"),
	}
	totals, confirmed := Deposit.Apply(totals, dec("100"))
	require.False(t, confirmed)
	requireDecEqual(t, dec("300"), totals.TotalDeposit)
	requireDecEqual(t, dec("300"), totals.TotalPaid)
	requireDecEqual(t, dec("300"), totals.Balance)
}

func TestAdjustmentMovesBalanceBothWays(t *testing.T) {
	totals := Totals{Status: model.BookingConfirmed, TotalAmount: dec("600"), Balance: dec("400")}

	up, confirmed := Adjustment.Apply(totals, dec("30"))
	require.False(t, confirmed)
	requireDecEqual(t, dec("630"), up.TotalAmount)
	requireDecEqual(t, dec("430"), up.Balance)

	down, _ := Adjustment.Apply(totals, dec("-30"))
	requireDecEqual(t, dec("570"), down.TotalAmount)
	requireDecEqual(t, dec("370"), down.Balance)
}

func TestSettlePayment(t *testing.T) {
	totals := Totals{
		Status:      model.BookingConfirmed,
		TotalAmount: dec("650"),
		TotalPaid:   dec("200"),
		Balance:     dec("450"),
	}
	settled := SettlePayment(totals, dec("450"))
	requireDecEqual(t, dec("650"), settled.TotalPaid)
	requireDecEqual(t, decimal.Zero, settled.Balance)
	// TotalAmount never moves on settlement.
	requireDecEqual(t, dec("650"), settled.TotalAmount)
}

func TestDepositShares(t *testing.T) {
	shares := DepositShares(dec("100"), 3)
	require.Len(t, shares, 3)
	requireDecEqual(t, dec("33.33"), shares[0])
	requireDecEqual(t, dec("33.33"), shares[1])
	// Last share absorbs the rounding remainder.
	requireDecEqual(t, dec("33.34"), shares[2])

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	requireDecEqual(t, dec("100"), sum)

	single := DepositShares(dec("200"), 1)
	require.Len(t, single, 1)
	requireDecEqual(t, dec("200"), single[0])

	require.Nil(t, DepositShares(dec("100"), 0))
}
