/*
Package report renders ledger data into documents people keep: the printed
receipt for every transaction, the CSV export of a filtered report, and the
names of backup files.

RECEIPT LAYOUT (A4, portrait):
  <SCHEME NAME>
  <School name>
  ---------------------------------------------
  Official Receipt

  Receipt ID / Date / Staff Name / Staff ID

  Description        | Details
  Transaction Type   | Deposit - Saving
  Amount             | LKR 1500.00
  Amount in Words    | Rupees One Thousand Only
  Payment Method     | Cash

  ....................        ....................
  Authorized Signature        Recipient Signature

SEE ALSO:
  - csv.go: Report export
  - words package: Amount in words
*/
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/btels/scheme-ledger/ledger"
	"github.com/btels/scheme-ledger/words"
)

// Branding is the letterhead printed on receipts and used for currency labels.
type Branding struct {
	SchemeName string
	SchoolName string
	Currency   string
}

// DefaultBranding is the scheme the ledger was built for.
func DefaultBranding() Branding {
	return Branding{
		SchemeName: "BADURIYA TEACHERS EMERGENCY LOAN SCHEME",
		SchoolName: "Baduriya Central College – Mawanella",
		Currency:   "LKR",
	}
}

// Receipt is everything printed on one receipt.
type Receipt struct {
	Branding      Branding
	ReceiptID     ledger.ReceiptID
	Date          time.Time
	StaffName     string
	StaffID       ledger.StaffID
	Type          ledger.TransactionType
	SubType       ledger.SubType
	Amount        decimal.Decimal
	PaymentMethod ledger.PaymentMethod
}

// Row is one label/value line of the receipt body.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func NewReceipt(tx ledger.Transaction, staff ledger.Staff, b Branding) Receipt {
	return Receipt{
		Branding:      b,
		ReceiptID:     tx.ReceiptID,
		Date:          tx.Date,
		StaffName:     staff.Name,
		StaffID:       staff.ID,
		Type:          tx.Type(),
		SubType:       tx.SubType(),
		Amount:        tx.Amount,
		PaymentMethod: tx.PaymentMethod(),
	}
}

// Filename is the download name of the receipt document.
func (r Receipt) Filename() string {
	return fmt.Sprintf("receipt-%s.pdf", r.ReceiptID)
}

// FormatDate renders dates the way every document in the scheme shows them.
// The day is the UTC day, the same one reports filter on.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormattedAmount is the amount with currency and two decimals, no grouping.
func (r Receipt) FormattedAmount() string {
	return fmt.Sprintf("%s %s", r.Branding.Currency, r.Amount.StringFixed(2))
}

func (r Receipt) AmountInWords() string {
	return words.Convert(r.Amount)
}

// Header returns the identification block.
func (r Receipt) Header() []Row {
	return []Row{
		{"Receipt ID:", string(r.ReceiptID)},
		{"Date:", FormatDate(r.Date)},
		{"Staff Name:", r.StaffName},
		{"Staff ID:", string(r.StaffID)},
	}
}

// Details returns the description/details table.
func (r Receipt) Details() []Row {
	return []Row{
		{"Transaction Type", fmt.Sprintf("%s - %s", r.Type, r.SubType)},
		{"Amount", r.FormattedAmount()},
		{"Amount in Words", r.AmountInWords()},
		{"Payment Method", string(r.PaymentMethod)},
	}
}

// =============================================================================
// PDF RENDERING
// =============================================================================

const (
	pageWidth   = 210.0
	leftMargin  = 20.0
	rightMargin = 190.0
	labelWidth  = 50.0
	rowHeight   = 8.0
)

// WritePDF renders the receipt and writes the PDF document to w.
func (r Receipt) WritePDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %s", r.ReceiptID), true)
	pdf.SetCreator(r.Branding.SchemeName, true)
	pdf.SetCreationDate(r.Date)
	pdf.SetMargins(leftMargin, 15, pageWidth-rightMargin)
	pdf.AddPage()

	// Core fonts are cp1252; the translator maps characters like the en dash.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	contentWidth := rightMargin - leftMargin

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentWidth, 10, tr(r.Branding.SchemeName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(contentWidth, 7, tr(r.Branding.SchoolName), "", 1, "C", false, 0, "")
	pdf.Line(leftMargin, 32, rightMargin, 32)

	pdf.SetY(35)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentWidth, 8, "Official Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range r.Header() {
		pdf.CellFormat(labelWidth, rowHeight, tr(row.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth-labelWidth, rowHeight, tr(row.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(22, 160, 133)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(labelWidth, rowHeight, "Description", "", 0, "L", true, 0, "")
	pdf.CellFormat(contentWidth-labelWidth, rowHeight, "Details", "", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range r.Details() {
		striped := i%2 == 1
		if striped {
			pdf.SetFillColor(240, 240, 240)
		}
		pdf.CellFormat(labelWidth, rowHeight, tr(row.Label), "", 0, "L", striped, 0, "")
		pdf.CellFormat(contentWidth-labelWidth, rowHeight, tr(row.Value), "", 1, "L", striped, 0, "")
	}

	y := pdf.GetY() + 30
	pdf.Text(30, y, "........................................")
	pdf.Text(140, y, "........................................")
	pdf.Text(35, y+7, "Authorized Signature")
	pdf.Text(145, y+7, "Recipient Signature")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render receipt %s: %w", r.ReceiptID, err)
	}
	return nil
}
