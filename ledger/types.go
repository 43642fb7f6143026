/*
Package ledger provides the scheme ledger and its derived-balance engine.

PURPOSE:
  Tracks staff members of the loan/savings scheme and the append-only log of
  money movements made on their behalf. Every balance shown anywhere in the
  system (savings, outstanding loans, cash in hand, bank balance) is derived
  by scanning this log. Nothing stores a running total.

KEY CONCEPTS IN THIS FILE (types.go):
  - Identifiers: StaffID, ReceiptID, LoanID (disjoint id spaces)
  - Enums: TransactionType, SubType, PaymentMethod, SavingType, LoanStatus
  - Designation: closed set of staff roles

DESIGN PRINCIPLES:
  1. Append-only: transactions are never edited; the only mutation is the
     Active -> Settled flip of a loan, driven by a new settlement
  2. Precision: all money is decimal.Decimal
  3. Closed variants: each subtype is its own struct (see transaction.go),
     so a Membership paid by cheque cannot be built

SEE ALSO:
  - transaction.go: Transaction and its variants
  - engine.go: Commands and queries over roster + log
  - derive.go: Pure aggregation rules
*/
package ledger

import (
	"fmt"
	"strings"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type StaffID string
type ReceiptID string
type LoanID string

// ID prefixes keep the three id spaces disjoint even if two generators were
// ever to produce the same random part.
const (
	staffIDPrefix   = "ST-"
	receiptIDPrefix = "RCPT-"
	loanIDPrefix    = "LOAN-"
)

// =============================================================================
// TRANSACTION CLASSIFICATION
// =============================================================================

type TransactionType string

const (
	Deposit    TransactionType = "Deposit"
	Withdrawal TransactionType = "Withdrawal"
)

func (t TransactionType) Valid() bool {
	return t == Deposit || t == Withdrawal
}

// SubType refines a TransactionType. Every SubType belongs to exactly one type.
type SubType string

const (
	SubSaving           SubType = "Saving"
	SubLoanSettlement   SubType = "Loan Settlement"
	SubDonation         SubType = "Donation"
	SubMembership       SubType = "Membership"
	SubGiveLoan         SubType = "Give Loan"
	SubSavingWithdrawal SubType = "Saving Withdrawal"
)

// Type returns the transaction type a subtype belongs to.
func (s SubType) Type() TransactionType {
	switch s {
	case SubGiveLoan, SubSavingWithdrawal:
		return Withdrawal
	default:
		return Deposit
	}
}

type PaymentMethod string

const (
	Cash        PaymentMethod = "Cash"
	BankDeposit PaymentMethod = "Bank Deposit"
	Cheque      PaymentMethod = "Cheque"
)

type SavingType string

const (
	FixedDeposit  SavingType = "Fix Deposit"
	NormalDeposit SavingType = "Normal Deposit"
)

func (s SavingType) Valid() bool {
	return s == FixedDeposit || s == NormalDeposit
}

type LoanStatus string

const (
	LoanActive  LoanStatus = "Active"
	LoanSettled LoanStatus = "Settled"
)

type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "Active"
	MembershipInactive MembershipStatus = "Inactive"
)

// =============================================================================
// DESIGNATION
// =============================================================================

type Designation string

const (
	Teacher            Designation = "Teacher"
	DeputyPrincipal    Designation = "Deputy Principal"
	VicePrincipal      Designation = "Vice Principal"
	SectionalHead      Designation = "Sectional Head"
	DevelopmentOfficer Designation = "Development Officer"
	ManagementAssist   Designation = "Management Assistant"
	OfficeAssistant    Designation = "Office Assistant"
	SportsCoach        Designation = "Sports Coach"
	Watcher            Designation = "Watcher"
	OtherDesignation   Designation = "Other"
)

// Designations lists every designation in display order.
var Designations = []Designation{
	Teacher, DeputyPrincipal, VicePrincipal, SectionalHead, DevelopmentOfficer,
	ManagementAssist, OfficeAssistant, SportsCoach, Watcher, OtherDesignation,
}

func (d Designation) Valid() bool {
	for _, known := range Designations {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDesignation accepts a designation in any letter case.
func ParseDesignation(s string) (Designation, error) {
	for _, known := range Designations {
		if strings.EqualFold(string(known), strings.TrimSpace(s)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown designation %q", s)
}
