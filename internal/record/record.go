// Package record defines the transaction record produced from recognized
// trade-dialog text, plus the numeric reconciliation and deduplication that
// make records safe to import.
package record

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/junwei-lu/tradescan/constants"
)

// TransactionRecord is one validated trade row: stock-in, stock-out, or a
// market-monitor entry. Created by the reconciler per recognized image,
// edited in place by the caller's UI, consumed by the import submitter.
type TransactionRecord struct {
	// ID is the persistence identifier, set only on rows echoed back from a
	// successful import. Deduplication drops such rows before keying.
	ID string `json:"id,omitempty"`

	ItemName    string               `json:"item_name"`
	Quantity    int64                `json:"quantity"`
	UnitPrice   decimal.Decimal      `json:"unit_price"`
	Fee         decimal.Decimal      `json:"fee"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	TargetPrice decimal.Decimal      `json:"target_price,omitempty"` // monitor records only
	TxTime      time.Time            `json:"tx_time"`
	Note        string               `json:"note,omitempty"`
	Kind        constants.RecordKind `json:"kind"`

	// SourceImage is an opaque reference to the screenshot this record came
	// from; RawText is the OCR text it was extracted from. Neither is sent
	// to the persistence service.
	SourceImage string `json:"-"`
	RawText     string `json:"-"`
}

// Valid reports whether the record may be submitted. Item names are never
// empty after reconciliation, so zero quantity is the only filter here.
func (r *TransactionRecord) Valid() bool {
	return r.ItemName != "" && r.Quantity > 0
}

// FilterInvalid splits out records that fail Valid. The filtered count is
// surfaced to the caller; invalid records are never an error.
func FilterInvalid(records []*TransactionRecord) (valid []*TransactionRecord, filtered int) {
	valid = make([]*TransactionRecord, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			valid = append(valid, r)
		} else {
			filtered++
		}
	}
	return valid, filtered
}
