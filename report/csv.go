package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/btels/scheme-ledger/ledger"
)

// CSVFilename is the download name of the transactions report.
const CSVFilename = "transactions_report.csv"

// CSVHeader returns the report columns for the given currency label.
func CSVHeader(currency string) []string {
	return []string{
		"Receipt ID", "Date", "Staff Name", "Staff ID", "Transaction Type",
		"Sub-Type", fmt.Sprintf("Amount (%s)", currency), "Payment Method", "Status",
	}
}

// WriteCSV writes one row per transaction, in the order given. Staff ids
// missing from names print as "Unknown"; Status is the loan status for
// Give Loan rows and "N/A" otherwise. Fields containing commas or quotes
// are quoted.
func WriteCSV(w io.Writer, txs []ledger.Transaction, names map[ledger.StaffID]string, currency string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader(currency)); err != nil {
		return err
	}
	for _, tx := range txs {
		name, ok := names[tx.StaffID]
		if !ok {
			name = "Unknown"
		}
		status := "N/A"
		if loan, ok := tx.Loan(); ok {
			status = string(loan.Status)
		}
		row := []string{
			string(tx.ReceiptID),
			FormatDate(tx.Date),
			name,
			string(tx.StaffID),
			string(tx.Type()),
			string(tx.SubType()),
			tx.Amount.String(),
			string(tx.PaymentMethod()),
			status,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BackupFilename names an exported state document, e.g.
// btels_backup_2024-06-30.json.
func BackupFilename(now time.Time) string {
	return fmt.Sprintf("btels_backup_%s.json", FormatDate(now))
}
