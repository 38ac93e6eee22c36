package ledger

import "time"

// ExpenseRecord is a single normalized bank transaction. Amount is always
// positive: only debits make it into a ledger, and their sign is stripped
// during normalization. Month is Date truncated to the first day of its
// calendar month and is the grouping key for monthly aggregation.
type ExpenseRecord struct {
	Amount   float64
	Date     time.Time
	Month    time.Time
	Category string
}

// Uncategorized reports whether the record carries no category label.
func (r ExpenseRecord) Uncategorized() bool {
	return r.Category == ""
}

// Ledger is the normalized expense history for one session, in residual
// source order. It is replaced wholesale on every transactions upload.
type Ledger []ExpenseRecord
