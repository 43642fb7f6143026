package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSACTION - One entry of the append-only log
// =============================================================================

// Transaction is a single money movement. The common fields live here; the
// subtype-specific fields live in Detail, which is always one of the variant
// structs below.
type Transaction struct {
	ReceiptID ReceiptID
	StaffID   StaffID
	Date      time.Time // always UTC
	Amount    decimal.Decimal
	Detail    Detail
}

// Detail is the closed set of transaction variants. The unexported method
// keeps other packages from adding variants.
type Detail interface {
	SubType() SubType
	Method() PaymentMethod
	validate() error
}

func (t Transaction) Type() TransactionType        { return t.Detail.SubType().Type() }
func (t Transaction) SubType() SubType             { return t.Detail.SubType() }
func (t Transaction) PaymentMethod() PaymentMethod { return t.Detail.Method() }

// Loan returns the GiveLoan detail if this transaction disburses a loan.
func (t Transaction) Loan() (GiveLoan, bool) {
	l, ok := t.Detail.(GiveLoan)
	return l, ok
}

// Settlement returns the LoanSettlement detail if this transaction repays a loan.
func (t Transaction) Settlement() (LoanSettlement, bool) {
	s, ok := t.Detail.(LoanSettlement)
	return s, ok
}

// IsActiveLoan reports whether t is a loan disbursement that is not yet settled.
func IsActiveLoan(t Transaction) bool {
	l, ok := t.Loan()
	return ok && l.Status == LoanActive
}

// =============================================================================
// DEPOSIT VARIANTS
// =============================================================================

type Saving struct {
	SavingType    SavingType
	PaymentMethod PaymentMethod
}

func (Saving) SubType() SubType        { return SubSaving }
func (d Saving) Method() PaymentMethod { return d.PaymentMethod }
func (d Saving) validate() error {
	if !d.SavingType.Valid() {
		return &ValidationError{Field: "savingType", Reason: fmt.Sprintf("unknown saving type %q", d.SavingType)}
	}
	return depositMethod(d.PaymentMethod)
}

type LoanSettlement struct {
	LinkedLoanID  LoanID
	PaymentMethod PaymentMethod
}

func (LoanSettlement) SubType() SubType        { return SubLoanSettlement }
func (d LoanSettlement) Method() PaymentMethod { return d.PaymentMethod }
func (d LoanSettlement) validate() error {
	if d.LinkedLoanID == "" {
		return &ValidationError{Field: "linkedLoanId", Reason: "a loan must be selected"}
	}
	return depositMethod(d.PaymentMethod)
}

type Donation struct {
	PaymentMethod PaymentMethod
}

func (Donation) SubType() SubType        { return SubDonation }
func (d Donation) Method() PaymentMethod { return d.PaymentMethod }
func (d Donation) validate() error       { return depositMethod(d.PaymentMethod) }

// Membership dues are always paid in cash.
type Membership struct{}

func (Membership) SubType() SubType      { return SubMembership }
func (Membership) Method() PaymentMethod { return Cash }
func (Membership) validate() error       { return nil }

// =============================================================================
// WITHDRAWAL VARIANTS
// =============================================================================

// GiveLoan disburses a loan. InterestRate and RepaymentSchedule are recorded
// for the paperwork only; settlement compares payments to principal.
type GiveLoan struct {
	InterestRate      decimal.Decimal
	RepaymentSchedule string
	LoanID            LoanID
	Status            LoanStatus
	PaymentMethod     PaymentMethod
}

func (GiveLoan) SubType() SubType        { return SubGiveLoan }
func (d GiveLoan) Method() PaymentMethod { return d.PaymentMethod }
func (d GiveLoan) validate() error {
	if d.InterestRate.IsNegative() {
		return &ValidationError{Field: "interestRate", Reason: "must not be negative"}
	}
	if d.Status != LoanActive && d.Status != LoanSettled {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown loan status %q", d.Status)}
	}
	return withdrawalMethod(d.PaymentMethod)
}

type SavingWithdrawal struct {
	SavingType    SavingType
	PaymentMethod PaymentMethod
}

func (SavingWithdrawal) SubType() SubType        { return SubSavingWithdrawal }
func (d SavingWithdrawal) Method() PaymentMethod { return d.PaymentMethod }
func (d SavingWithdrawal) validate() error {
	if !d.SavingType.Valid() {
		return &ValidationError{Field: "savingType", Reason: fmt.Sprintf("unknown saving type %q", d.SavingType)}
	}
	return withdrawalMethod(d.PaymentMethod)
}

func depositMethod(m PaymentMethod) error {
	if m != Cash && m != BankDeposit {
		return &ValidationError{Field: "paymentMethod", Reason: fmt.Sprintf("deposits accept Cash or Bank Deposit, got %q", m)}
	}
	return nil
}

func withdrawalMethod(m PaymentMethod) error {
	if m != Cash && m != Cheque {
		return &ValidationError{Field: "paymentMethod", Reason: fmt.Sprintf("withdrawals accept Cash or Cheque, got %q", m)}
	}
	return nil
}

// =============================================================================
// WIRE FORMAT - Flat JSON record, one shape for every variant
// =============================================================================

type wireTransaction struct {
	ReceiptID         ReceiptID       `json:"receiptId"`
	StaffID           StaffID         `json:"staffId"`
	Date              time.Time       `json:"date"`
	Amount            json.Number     `json:"amount"`
	Type              TransactionType `json:"type"`
	SubType           SubType         `json:"subType"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	SavingType        SavingType      `json:"savingType,omitempty"`
	LinkedLoanID      LoanID          `json:"linkedLoanId,omitempty"`
	InterestRate      json.Number     `json:"interestRate,omitempty"`
	RepaymentSchedule string          `json:"repaymentSchedule,omitempty"`
	LoanID            LoanID          `json:"loanId,omitempty"`
	Status            LoanStatus      `json:"status,omitempty"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	if t.Detail == nil {
		return nil, fmt.Errorf("transaction %s has no detail", t.ReceiptID)
	}
	w := wireTransaction{
		ReceiptID:     t.ReceiptID,
		StaffID:       t.StaffID,
		Date:          t.Date,
		Amount:        json.Number(t.Amount.String()),
		Type:          t.Type(),
		SubType:       t.SubType(),
		PaymentMethod: t.PaymentMethod(),
	}
	switch d := t.Detail.(type) {
	case Saving:
		w.SavingType = d.SavingType
	case SavingWithdrawal:
		w.SavingType = d.SavingType
	case LoanSettlement:
		w.LinkedLoanID = d.LinkedLoanID
	case GiveLoan:
		w.InterestRate = json.Number(d.InterestRate.String())
		w.RepaymentSchedule = d.RepaymentSchedule
		w.LoanID = d.LoanID
		w.Status = d.Status
	}
	return json.Marshal(w)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w wireTransaction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(w.Amount.String())
	if err != nil {
		return fmt.Errorf("receipt %s: invalid amount %q", w.ReceiptID, w.Amount)
	}
	if w.SubType.Type() != w.Type {
		return fmt.Errorf("receipt %s: subtype %q does not belong to %q", w.ReceiptID, w.SubType, w.Type)
	}

	var detail Detail
	switch w.SubType {
	case SubSaving:
		detail = Saving{SavingType: w.SavingType, PaymentMethod: w.PaymentMethod}
	case SubLoanSettlement:
		detail = LoanSettlement{LinkedLoanID: w.LinkedLoanID, PaymentMethod: w.PaymentMethod}
	case SubDonation:
		detail = Donation{PaymentMethod: w.PaymentMethod}
	case SubMembership:
		if w.PaymentMethod != "" && w.PaymentMethod != Cash {
			return fmt.Errorf("receipt %s: membership must be paid in cash", w.ReceiptID)
		}
		detail = Membership{}
	case SubGiveLoan:
		rate := decimal.Zero
		if w.InterestRate != "" {
			if rate, err = decimal.NewFromString(w.InterestRate.String()); err != nil {
				return fmt.Errorf("receipt %s: invalid interest rate %q", w.ReceiptID, w.InterestRate)
			}
		}
		if w.LoanID == "" {
			return fmt.Errorf("receipt %s: loan has no loanId", w.ReceiptID)
		}
		detail = GiveLoan{
			InterestRate:      rate,
			RepaymentSchedule: w.RepaymentSchedule,
			LoanID:            w.LoanID,
			Status:            w.Status,
			PaymentMethod:     w.PaymentMethod,
		}
	case SubSavingWithdrawal:
		detail = SavingWithdrawal{SavingType: w.SavingType, PaymentMethod: w.PaymentMethod}
	default:
		return fmt.Errorf("receipt %s: unknown subtype %q", w.ReceiptID, w.SubType)
	}
	if err := detail.validate(); err != nil {
		return fmt.Errorf("receipt %s: %w", w.ReceiptID, err)
	}

	*t = Transaction{
		ReceiptID: w.ReceiptID,
		StaffID:   w.StaffID,
		Date:      w.Date.UTC(),
		Amount:    amount,
		Detail:    detail,
	}
	return nil
}
