package constants

// Canonical extraction field names. Rule sets refer to these in their
// "field" attribute; the reconciler reads them back out of the extraction.
const (
	FieldItemName    = "item_name"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unit_price"
	FieldPrice       = "price" // legacy alias for unit_price, still emitted by older rule sets
	FieldFee         = "fee"
	FieldTotalAmount = "total_amount"
	FieldTargetPrice = "target_price" // monitor records only
	FieldTxTime      = "tx_time"
	FieldNote        = "note"
)
