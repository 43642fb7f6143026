package ledger

import "time"

// Criteria narrows the log for reports. Zero-valued fields are ignored;
// the rest are combined with AND.
type Criteria struct {
	StartDate *time.Time
	EndDate   *time.Time
	StaffID   StaffID
	Type      TransactionType
	SubType   SubType
}

// Filter returns the transactions matching c, in log order. Date bounds are
// inclusive and compared by calendar day (UTC), so an end date of
// 2024-12-31 keeps everything dated that day.
func Filter(txs []Transaction, c Criteria) []Transaction {
	var start, end time.Time
	if c.StartDate != nil {
		start = day(*c.StartDate)
	}
	if c.EndDate != nil {
		end = day(*c.EndDate)
	}

	out := []Transaction{}
	for _, tx := range txs {
		d := day(tx.Date)
		if c.StartDate != nil && d.Before(start) {
			continue
		}
		if c.EndDate != nil && d.After(end) {
			continue
		}
		if c.StaffID != "" && tx.StaffID != c.StaffID {
			continue
		}
		if c.Type != "" && tx.Type() != c.Type {
			continue
		}
		if c.SubType != "" && tx.SubType() != c.SubType {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// ActiveLoans returns the unsettled loans of one staff member, in log order.
func ActiveLoans(txs []Transaction, staffID StaffID) []Transaction {
	out := []Transaction{}
	for _, tx := range txs {
		if tx.StaffID == staffID && IsActiveLoan(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
