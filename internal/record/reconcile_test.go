package record

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/tradescan/constants"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestReconcileDerivesUnitPrice(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)
	rec := rc.Reconcile(map[string]string{
		"item_name":    "Iron Ore",
		"quantity":     "5",
		"fee":          "1",
		"total_amount": "100",
	}, constants.StockOut)

	// unitPrice = (total + fee) / quantity = 101/5
	require.True(t, rec.UnitPrice.Equal(decimal.RequireFromString("20.2")), "got %s", rec.UnitPrice)
	require.EqualValues(t, 5, rec.Quantity)
	require.True(t, rec.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func TestReconcileDerivesTotalAmount(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)
	rec := rc.Reconcile(map[string]string{
		"item_name":  "Iron Ore",
		"quantity":   "8",
		"unit_price": "12.5",
		"fee":        "3",
	}, constants.StockOut)

	// total = quantity*unitPrice - fee = 100 - 3
	require.True(t, rec.TotalAmount.Equal(decimal.NewFromInt(97)), "got %s", rec.TotalAmount)
}

func TestReconcileIdempotent(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)
	rec := rc.Reconcile(map[string]string{
		"item_name":    "Iron Ore",
		"quantity":     "8",
		"unit_price":   "12.5",
		"fee":          "3",
		"total_amount": "97",
	}, constants.StockOut)

	before := *rec
	rc.ReconcileRecord(rec)
	require.Equal(t, before.Quantity, rec.Quantity)
	require.True(t, before.UnitPrice.Equal(rec.UnitPrice))
	require.True(t, before.Fee.Equal(rec.Fee))
	require.True(t, before.TotalAmount.Equal(rec.TotalAmount))
}

func TestReconcileMalformedNumbersCoerceToZero(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)
	rec := rc.Reconcile(map[string]string{
		"item_name":    "Iron Ore",
		"quantity":     "5O",  // OCR letter O
		"unit_price":   "~12", // garbage
		"fee":          "",
		"total_amount": "abc",
	}, constants.StockOut)

	require.EqualValues(t, 0, rec.Quantity)
	require.True(t, rec.UnitPrice.IsZero())
	require.True(t, rec.Fee.IsZero())
	require.True(t, rec.TotalAmount.IsZero())
}

func TestReconcileThousandsSeparators(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)
	rec := rc.Reconcile(map[string]string{
		"item_name":    "Iron Ore",
		"quantity":     "1,200",
		"total_amount": "12,000",
	}, constants.StockOut)

	require.EqualValues(t, 1200, rec.Quantity)
	require.True(t, rec.TotalAmount.Equal(decimal.NewFromInt(12000)))
	require.True(t, rec.UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestReconcileLegacyPriceAlias(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)

	rec := rc.Reconcile(map[string]string{
		"item_name": "Iron Ore",
		"quantity":  "2",
		"price":     "7",
	}, constants.StockOut)
	require.True(t, rec.UnitPrice.Equal(decimal.NewFromInt(7)))

	// unit_price wins when present and non-zero
	rec = rc.Reconcile(map[string]string{
		"item_name":  "Iron Ore",
		"quantity":   "2",
		"unit_price": "9",
		"price":      "7",
	}, constants.StockOut)
	require.True(t, rec.UnitPrice.Equal(decimal.NewFromInt(9)))

	// a zero unit_price falls back to the alias
	rec = rc.Reconcile(map[string]string{
		"item_name":  "Iron Ore",
		"quantity":   "2",
		"unit_price": "0",
		"price":      "7",
	}, constants.StockOut)
	require.True(t, rec.UnitPrice.Equal(decimal.NewFromInt(7)))
}

func TestReconcilePlaceholderName(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)
	a := rc.Reconcile(map[string]string{"quantity": "1"}, constants.StockIn)
	b := rc.Reconcile(map[string]string{"quantity": "1"}, constants.StockIn)

	require.True(t, strings.HasPrefix(a.ItemName, "unnamed_"), "got %q", a.ItemName)
	require.NotEqual(t, a.ItemName, b.ItemName, "placeholder suffixes are random")
}

func TestReconcileTimeDefaultsToClock(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)

	rec := rc.Reconcile(map[string]string{"item_name": "Iron Ore"}, constants.StockOut)
	require.Equal(t, fixedClock(), rec.TxTime)

	rec = rc.Reconcile(map[string]string{
		"item_name": "Iron Ore",
		"tx_time":   "2026-02-14 09:30:00",
	}, constants.StockOut)
	require.Equal(t, time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC), rec.TxTime)
}

func TestReconcileMonitorTargetPrice(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)
	rec := rc.Reconcile(map[string]string{
		"item_name":    "Iron Ore",
		"quantity":     "10",
		"unit_price":   "4",
		"target_price": "3.5",
	}, constants.Monitor)

	require.Equal(t, constants.Monitor, rec.Kind)
	require.True(t, rec.TargetPrice.Equal(decimal.RequireFromString("3.5")))
	require.True(t, rec.TotalAmount.Equal(decimal.NewFromInt(40)))
}

func TestReconcileNoDerivationWithoutQuantity(t *testing.T) {
	t.Parallel()

	rc := NewReconciler(fixedClock, nil)
	rec := rc.Reconcile(map[string]string{
		"item_name":    "Iron Ore",
		"total_amount": "100",
	}, constants.StockOut)

	require.True(t, rec.UnitPrice.IsZero())
	require.True(t, rec.TotalAmount.Equal(decimal.NewFromInt(100)))
}
