package record

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// DedupeResult carries the surviving records plus advisory warnings. A high
// filter ratio is reported, never an error.
type DedupeResult struct {
	Records  []*TransactionRecord
	Warnings []string
}

// Dedupe collapses records representing the same logical transaction before
// submission. Key = (item name, quantity, total amount); fee is deliberately
// excluded because OCR frequently mis-reads the fee while the other fields
// are stable. On collision the record with the higher fee survives, ties
// keeping the first seen. Records already carrying a persistence ID were
// echoed back from a prior import and are dropped before keying.
func Dedupe(records []*TransactionRecord) DedupeResult {
	var res DedupeResult
	res.Records = make([]*TransactionRecord, 0, len(records))

	index := make(map[string]int, len(records))
	for _, r := range records {
		if r.ID != "" {
			continue
		}
		key := r.Key()
		if at, seen := index[key]; seen {
			if r.Fee.GreaterThan(res.Records[at].Fee) {
				res.Records[at] = r
			}
			continue
		}
		index[key] = len(res.Records)
		res.Records = append(res.Records, r)
	}

	if removed := len(records) - len(res.Records); len(records) > 0 && removed*2 > len(records) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("deduplication removed %d of %d records; check for repeated screenshots", removed, len(records)))
	}
	res.Warnings = append(res.Warnings, nearMissWarnings(res.Records)...)
	return res
}

// nearMissWarnings flags kept records whose item names are within edit
// distance 1 of each other while quantity and total agree. These are almost
// always the same item with one mis-read character; the records are kept,
// the caller decides whether to merge by hand.
func nearMissWarnings(records []*TransactionRecord) []string {
	var warnings []string
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			a, b := records[i], records[j]
			if a.ItemName == b.ItemName {
				continue
			}
			if a.Quantity != b.Quantity || !a.TotalAmount.Equal(b.TotalAmount) {
				continue
			}
			if levenshtein.ComputeDistance(a.ItemName, b.ItemName) <= 1 {
				warnings = append(warnings,
					fmt.Sprintf("possible OCR misread: %q vs %q (qty=%d total=%s)",
						a.ItemName, b.ItemName, a.Quantity, a.TotalAmount.StringFixed(2)))
			}
		}
	}
	return warnings
}

// Key identifies the logical transaction for deduplication and for the
// persistence boundary's own duplicate check. Fee is excluded on purpose.
func (r *TransactionRecord) Key() string {
	return fmt.Sprintf("%s|%d|%s", r.ItemName, r.Quantity, r.TotalAmount.StringFixed(2))
}
