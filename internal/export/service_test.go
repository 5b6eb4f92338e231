package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/record"
)

func TestRecordsXLSX(t *testing.T) {
	t.Parallel()

	recs := []*record.TransactionRecord{
		{
			ItemName:    "Iron Ore",
			Quantity:    5,
			UnitPrice:   decimal.RequireFromString("20.2"),
			Fee:         decimal.NewFromInt(1),
			TotalAmount: decimal.NewFromInt(100),
			TxTime:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Kind:        constants.StockOut,
			SourceImage: "a.png",
		},
	}

	data, err := NewService(nil).RecordsXLSX(recs)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	item, err := f.GetCellValue("Records", "B2")
	require.NoError(t, err)
	require.Equal(t, "Iron Ore", item)

	total, err := f.GetCellValue("Records", "F2")
	require.NoError(t, err)
	require.Equal(t, "100.00", total)
}
