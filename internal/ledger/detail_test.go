package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-operations-backend/internal/model"
)

func TestRoomLine(t *testing.T) {
	l, err := RoomLine(7, dec("150"))
	require.NoError(t, err)
	require.Equal(t, uint64(7), *l.BookingRoomID)
	require.Nil(t, l.ServiceUsageID)
	requireDecEqual(t, dec("150"), l.Base)
	requireDecEqual(t, dec("150"), l.Amount)
	requireDecEqual(t, decimal.Zero, l.Discount)

	_, err = RoomLine(7, decimal.Zero)
	require.Error(t, err)
	_, err = RoomLine(7, dec("-10"))
	require.Error(t, err)
}

func TestServiceLine(t *testing.T) {
	l, err := ServiceLine(9, dec("80"))
	require.NoError(t, err)
	require.Equal(t, uint64(9), *l.ServiceUsageID)
	require.Nil(t, l.BookingRoomID)

	_, err = ServiceLine(9, decimal.Zero)
	require.Error(t, err)
}

func TestAddDiscountCapsAtBase(t *testing.T) {
	l, err := ServiceLine(9, dec("80"))
	require.NoError(t, err)

	applied := l.AddDiscount(dec("20"))
	requireDecEqual(t, dec("20"), applied)
	requireDecEqual(t, dec("60"), l.Amount)

	// A second discount larger than what remains is trimmed to it.
	applied = l.AddDiscount(dec("100"))
	requireDecEqual(t, dec("60"), applied)
	requireDecEqual(t, decimal.Zero, l.Amount)
	requireDecEqual(t, dec("80"), l.Discount)

	// Nothing left to discount.
	applied = l.AddDiscount(dec("5"))
	requireDecEqual(t, decimal.Zero, applied)
}

func TestAggregateMatchesLineSums(t *testing.T) {
	a, err := RoomLine(1, dec("300"))
	require.NoError(t, err)
	b, err := RoomLine(2, dec("300"))
	require.NoError(t, err)
	b.AddDiscount(dec("45"))

	agg := Aggregate([]Line{a, b})
	requireDecEqual(t, dec("600"), agg.Base)
	requireDecEqual(t, dec("45"), agg.Discount)
	requireDecEqual(t, dec("555"), agg.Amount)

	// Transaction amount equals the sum of its detail amounts.
	requireDecEqual(t, a.Amount.Add(b.Amount), agg.Amount)
}

func TestCheckEligible(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	grant := model.CustomerPromotion{ID: 3, Status: model.PromotionAvailable}
	promo := model.Promotion{Code: "SUMMER10"}

	require.NoError(t, CheckEligible(grant, promo, now))

	used := grant
	used.Status = model.PromotionUsed
	require.Error(t, CheckEligible(used, promo, now))

	expired := promo
	past := now.Add(-time.Hour)
	expired.ValidUntil = &past
	require.Error(t, CheckEligible(grant, expired, now))

	future := now.Add(time.Hour)
	promo.ValidUntil = &future
	require.NoError(t, CheckEligible(grant, promo, now))
}

func TestDiscount(t *testing.T) {
	percent := model.Promotion{DiscountType: model.DiscountPercent, DiscountValue: dec("25")}
	requireDecEqual(t, dec("20"), Discount(percent, dec("80")))

	// Percent discounts round to 2 decimal places.
	third := model.Promotion{DiscountType: model.DiscountPercent, DiscountValue: dec("33.33")}
	requireDecEqual(t, dec("33.33"), Discount(third, dec("100")))

	fixed := model.Promotion{DiscountType: model.DiscountFixed, DiscountValue: dec("20")}
	requireDecEqual(t, dec("20"), Discount(fixed, dec("80")))

	// A fixed discount larger than the base is capped at the base.
	requireDecEqual(t, dec("15"), Discount(fixed, dec("15")))

	unknown := model.Promotion{DiscountType: "BOGOF", DiscountValue: dec("20")}
	requireDecEqual(t, decimal.Zero, Discount(unknown, dec("80")))
}
