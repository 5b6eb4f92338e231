package constants

import "strings"

// RecordKind selects which derived numeric fields apply to a record.
type RecordKind string

// Stable values (sent over the wire to the persistence service).
const (
	StockIn  RecordKind = "STOCK_IN"  // purchases; derives cost / average cost
	StockOut RecordKind = "STOCK_OUT" // sales; total = quantity*price - fee
	Monitor  RecordKind = "MONITOR"   // market watch; carries target price instead of fee
)

var allKinds = []RecordKind{StockIn, StockOut, Monitor}

func AllKinds() []RecordKind {
	out := make([]RecordKind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind maps user or wire input to a canonical RecordKind.
func ParseKind(input string) (RecordKind, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "stock_in", "stockin", "in", "buy":
		return StockIn, true
	case "stock_out", "stockout", "out", "sell":
		return StockOut, true
	case "monitor", "watch":
		return Monitor, true
	}
	return "", false
}

func (k RecordKind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}
