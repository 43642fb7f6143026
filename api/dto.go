/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the ledger's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Staff:
    CreateStaffRequest (responses use ledger.Staff as-is)

  Transactions:
    CreateTransactionRequest, CreateTransactionResponse, ReceiptDTO
    (transaction records use ledger.Transaction's flat JSON form)

  Derived views:
    ProfileDTO, FinancialSummaryDTO, TrendPointDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

MONEY:
  Money in derived views is rendered as a JSON number with float64
  precision. Transaction amounts keep the exact decimal text.

VALIDATION:
  Request types carry go-playground/validator tags for presence and enum
  checks. Cross-field rules that depend on the ledger (staff exists, loan
  exists) are enforced by the engine.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/transaction.go: Transaction wire format
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/btels/scheme-ledger/ledger"
	"github.com/btels/scheme-ledger/report"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateStaffRequest is the body of POST /api/staff.
type CreateStaffRequest struct {
	Name             string `json:"name" validate:"required"`
	Address          string `json:"address" validate:"required"`
	Designation      string `json:"designation" validate:"required"`
	OtherDesignation string `json:"otherDesignation" validate:"required_if=Designation Other"`
	JoinDate         string `json:"joinDate" validate:"required"`
	ContactNo        string `json:"contactNo" validate:"required"`
}

// CreateTransactionRequest is the body of POST /api/transactions. Which of
// the optional fields are required depends on subType.
type CreateTransactionRequest struct {
	StaffID       string      `json:"staffId" validate:"required"`
	Date          string      `json:"date" validate:"required"`
	Amount        json.Number `json:"amount" validate:"required"`
	Type          string      `json:"type" validate:"required,oneof=Deposit Withdrawal"`
	SubType       string      `json:"subType" validate:"required,oneof='Saving' 'Loan Settlement' 'Donation' 'Membership' 'Give Loan' 'Saving Withdrawal'"`
	PaymentMethod string      `json:"paymentMethod" validate:"omitempty,oneof='Cash' 'Bank Deposit' 'Cheque'"`

	SavingType        string      `json:"savingType" validate:"required_if=SubType Saving,required_if=SubType 'Saving Withdrawal'"`
	LinkedLoanID      string      `json:"linkedLoanId" validate:"required_if=SubType 'Loan Settlement'"`
	InterestRate      json.Number `json:"interestRate"`
	RepaymentSchedule string      `json:"repaymentSchedule"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ReceiptDTO is the printable content of a receipt, for on-screen preview.
type ReceiptDTO struct {
	Filename      string       `json:"filename"`
	URL           string       `json:"url"`
	SchemeName    string       `json:"schemeName"`
	SchoolName    string       `json:"schoolName"`
	Header        []report.Row `json:"header"`
	Details       []report.Row `json:"details"`
	AmountInWords string       `json:"amountInWords"`
}

// CreateTransactionResponse is returned by POST /api/transactions.
type CreateTransactionResponse struct {
	Transaction ledger.Transaction `json:"transaction"`
	Receipt     ReceiptDTO         `json:"receipt"`
}

type SavingsDTO struct {
	Deposited          float64 `json:"deposited"`
	Withdrawn          float64 `json:"withdrawn"`
	Balance            float64 `json:"balance"`
	LastDepositDate    *string `json:"lastDepositDate"`
	LastWithdrawalDate *string `json:"lastWithdrawalDate"`
}

type LoansDTO struct {
	Outstanding     float64 `json:"outstanding"`
	ActiveLoanCount int     `json:"activeLoanCount"`
	LastPaymentDate *string `json:"lastPaymentDate"`
}

type DonationsDTO struct {
	Total            float64 `json:"total"`
	LastDonationDate *string `json:"lastDonationDate"`
}

type MembershipDTO struct {
	Status          ledger.MembershipStatus `json:"status"`
	LastPaymentDate *string                 `json:"lastPaymentDate"`
	NextDueDate     *string                 `json:"nextDueDate"`
}

// ProfileDTO is the staff profile page: summaries plus per-category history.
type ProfileDTO struct {
	Staff      ledger.Staff          `json:"staff"`
	Savings    SavingsDTO            `json:"savings"`
	Loans      LoansDTO              `json:"loans"`
	Donations  DonationsDTO          `json:"donations"`
	Membership MembershipDTO         `json:"membership"`
	History    ledger.ProfileHistory `json:"history"`
}

// FinancialSummaryDTO is the scheme-wide dashboard.
type FinancialSummaryDTO struct {
	TotalLoanDisbursed      float64 `json:"totalLoanDisbursed"`
	TotalLoanRepayments     float64 `json:"totalLoanRepayments"`
	TotalSavingsDeposits    float64 `json:"totalSavingsDeposits"`
	TotalSavingsWithdrawals float64 `json:"totalSavingsWithdrawals"`
	TotalDonations          float64 `json:"totalDonations"`
	TotalMembership         float64 `json:"totalMembership"`
	CashBalance             float64 `json:"cashBalance"`
	BankBalance             float64 `json:"bankBalance"`
	TotalSchemeFunds        float64 `json:"totalSchemeFunds"`
	Currency                string  `json:"currency"`
}

// TrendPointDTO is one month of the loans vs savings chart.
type TrendPointDTO struct {
	Name    string  `json:"name"`
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Loans   float64 `json:"loans"`
	Savings float64 `json:"savings"`
}

// ScenarioDTO describes a demo data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func dateStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := report.FormatDate(*t)
	return &s
}

func toProfileDTO(p ledger.Profile) ProfileDTO {
	return ProfileDTO{
		Staff: p.Staff,
		Savings: SavingsDTO{
			Deposited:          money(p.Savings.Deposited),
			Withdrawn:          money(p.Savings.Withdrawn),
			Balance:            money(p.Savings.Balance),
			LastDepositDate:    dateStr(p.Savings.LastDeposit),
			LastWithdrawalDate: dateStr(p.Savings.LastWithdrawal),
		},
		Loans: LoansDTO{
			Outstanding:     money(p.Loans.Outstanding),
			ActiveLoanCount: p.Loans.ActiveCount,
			LastPaymentDate: dateStr(p.Loans.LastPayment),
		},
		Donations: DonationsDTO{
			Total:            money(p.Donations.Total),
			LastDonationDate: dateStr(p.Donations.LastDonation),
		},
		Membership: MembershipDTO{
			Status:          p.Membership.Status,
			LastPaymentDate: dateStr(p.Membership.LastPayment),
			NextDueDate:     dateStr(p.Membership.NextDue),
		},
		History: p.History,
	}
}

func toSummaryDTO(s ledger.FinancialSummary, currency string) FinancialSummaryDTO {
	return FinancialSummaryDTO{
		TotalLoanDisbursed:      money(s.LoansDisbursed),
		TotalLoanRepayments:     money(s.LoanRepayments),
		TotalSavingsDeposits:    money(s.SavingsDeposits),
		TotalSavingsWithdrawals: money(s.SavingsWithdrawals),
		TotalDonations:          money(s.Donations),
		TotalMembership:         money(s.Membership),
		CashBalance:             money(s.CashBalance),
		BankBalance:             money(s.BankBalance),
		TotalSchemeFunds:        money(s.TotalSchemeFunds),
		Currency:                currency,
	}
}

func toTrendDTOs(points []ledger.TrendPoint) []TrendPointDTO {
	out := make([]TrendPointDTO, len(points))
	for i, p := range points {
		out[i] = TrendPointDTO{
			Name:    p.Label,
			Year:    p.Year,
			Month:   int(p.Month),
			Loans:   money(p.LoansDisbursed),
			Savings: money(p.SavingsDeposited),
		}
	}
	return out
}

func toReceiptDTO(r report.Receipt) ReceiptDTO {
	return ReceiptDTO{
		Filename:      r.Filename(),
		URL:           "/api/transactions/" + string(r.ReceiptID) + "/receipt",
		SchemeName:    r.Branding.SchemeName,
		SchoolName:    r.Branding.SchoolName,
		Header:        r.Header(),
		Details:       r.Details(),
		AmountInWords: r.AmountInWords(),
	}
}
