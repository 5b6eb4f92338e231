package importer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/record"
)

func TestLocalStoreImport(t *testing.T) {
	t.Parallel()

	store, err := OpenLocalStore(filepath.Join(t.TempDir(), "trades.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recs := []*record.TransactionRecord{
		{
			ItemName:    "Iron Ore",
			Quantity:    5,
			UnitPrice:   decimal.RequireFromString("20.2"),
			Fee:         decimal.NewFromInt(1),
			TotalAmount: decimal.NewFromInt(100),
			TxTime:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Kind:        constants.StockOut,
		},
		{
			ItemName:    "Copper Ore",
			Quantity:    2,
			UnitPrice:   decimal.NewFromInt(15),
			TotalAmount: decimal.NewFromInt(30),
			TxTime:      time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC),
			Kind:        constants.StockOut,
		},
	}

	out, err := store.Import(ctx, constants.StockOut, recs, "req-1")
	require.NoError(t, err)
	require.Equal(t, 2, out.Success)
	require.Equal(t, 0, out.Failed)

	// Re-importing the same logical transactions is idempotent.
	out, err = store.Import(ctx, constants.StockOut, recs, "req-2")
	require.NoError(t, err)
	require.Equal(t, 0, out.Success)
	require.Equal(t, 2, out.Failed)
	require.Contains(t, out.Errors[0], "already imported")

	// The same key under a different kind is a distinct row.
	out, err = store.Import(ctx, constants.StockIn, recs[:1], "req-3")
	require.NoError(t, err)
	require.Equal(t, 1, out.Success)
}
