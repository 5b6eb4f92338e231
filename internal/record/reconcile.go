package record

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junwei-lu/tradescan/constants"
)

// Reconciler coerces extracted strings into typed fields and derives
// whichever of unit price / total amount is missing from the others.
// Malformed numerics always coerce to 0 and flow through the derivation
// rules; reconciliation never fails.
type Reconciler struct {
	Now    func() time.Time
	Logger *slog.Logger
}

func NewReconciler(now func() time.Time, logger *slog.Logger) *Reconciler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{Now: now, Logger: logger}
}

// Reconcile builds a TransactionRecord from the extraction's raw strings.
// Unit price is read from unit_price, falling back to the legacy price alias
// when unit_price is absent or zero.
func (rc *Reconciler) Reconcile(fields map[string]string, kind constants.RecordKind) *TransactionRecord {
	rec := &TransactionRecord{
		ItemName:    strings.TrimSpace(fields[constants.FieldItemName]),
		Quantity:    parseQuantity(fields[constants.FieldQuantity]),
		UnitPrice:   parseAmount(fields[constants.FieldUnitPrice]),
		Fee:         parseAmount(fields[constants.FieldFee]),
		TotalAmount: parseAmount(fields[constants.FieldTotalAmount]),
		Note:        strings.TrimSpace(fields[constants.FieldNote]),
		Kind:        kind,
	}
	if rec.UnitPrice.IsZero() {
		rec.UnitPrice = parseAmount(fields[constants.FieldPrice])
	}
	if kind == constants.Monitor {
		rec.TargetPrice = parseAmount(fields[constants.FieldTargetPrice])
	}
	if t, ok := parseTime(fields[constants.FieldTxTime]); ok {
		rec.TxTime = t
	} else {
		rec.TxTime = rc.Now()
	}
	if rec.ItemName == "" {
		// Never drop a record for a missing name; dropping is a
		// dedup/validation concern, not a reconciliation one.
		rec.ItemName = "unnamed_" + uuid.NewString()[:8]
	}

	rc.ReconcileRecord(rec)
	return rec
}

// ReconcileRecord applies the derivation identities in place. Safe to call
// again after an interactive edit; a record with all four numeric fields
// already non-zero passes through unchanged.
func (rc *Reconciler) ReconcileRecord(rec *TransactionRecord) {
	qty := decimal.NewFromInt(rec.Quantity)
	switch {
	case rec.UnitPrice.IsZero() && rec.TotalAmount.IsPositive() && rec.Quantity > 0:
		rec.UnitPrice = rec.TotalAmount.Add(rec.Fee).Div(qty)
	case rec.TotalAmount.IsZero() && rec.UnitPrice.IsPositive() && rec.Quantity > 0:
		rec.TotalAmount = qty.Mul(rec.UnitPrice).Sub(rec.Fee)
	}
}

// parseQuantity coerces a raw OCR string to a count. OCR output is noisy:
// thousands separators and stray whitespace are stripped before parsing.
// Anything unparseable is 0, never an error.
func parseQuantity(raw string) int64 {
	s := cleanNumeric(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
		return n
	}
	// OCR sometimes reads a count with a decimal tail; truncate it.
	if d, err := decimal.NewFromString(s); err == nil && d.Sign() >= 0 {
		return d.IntPart()
	}
	return 0
}

func parseAmount(raw string) decimal.Decimal {
	s := cleanNumeric(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}

func cleanNumeric(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

func parseTime(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
