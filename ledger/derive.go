/*
derive.go - Derived views computed from the log

PURPOSE:
  Everything a user sees as a "balance" is computed here by scanning the
  log. There are no stored running totals, so a derived view can never
  drift from the transactions it summarizes.

KEY INSIGHT:
  Every function in this file is pure: same log in, same answer out. The
  engine only adds locking and roster lookups around them. Reads recompute
  from the full log every time; at the scale of one school's staff that is
  cheaper than keeping incremental aggregates correct.

VIEWS:
  PaidToward:       Sum of settlements linked to a loan
  SummarizeStaff:   Savings, loans, donations, membership for one member
  Summarize:        Scheme-wide totals, cash and bank position
  MonthlyTrend:     Loans disbursed vs savings deposited per calendar month

LOAN SETTLEMENT:
  A loan is Settled once the settlements linked to it add up to at least
  its amount. Interest is recorded on the loan but never added to what is
  owed.

CASH vs BANK:
  Cash balance  = Cash deposits        - Cash withdrawals
  Bank balance  = Bank Deposit deposits - Cheque withdrawals
  The asymmetry mirrors the real accounts: deposits reach the bank by
  deposit slip, withdrawals leave it by cheque.

SEE ALSO:
  - engine.go: Calls these under the read lock
  - filter.go: Report queries
*/
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LOAN SETTLEMENT
// =============================================================================

// PaidToward sums every settlement in txs linked to loanID.
func PaidToward(txs []Transaction, loanID LoanID) decimal.Decimal {
	paid := decimal.Zero
	for _, tx := range txs {
		if s, ok := tx.Settlement(); ok && s.LinkedLoanID == loanID {
			paid = paid.Add(tx.Amount)
		}
	}
	return paid
}

// findLoan returns the index of the Give Loan transaction carrying loanID.
func findLoan(txs []Transaction, loanID LoanID) int {
	for i, tx := range txs {
		if l, ok := tx.Loan(); ok && l.LoanID == loanID {
			return i
		}
	}
	return -1
}

// settleLoan flips the loan to Settled in place when the linked settlements
// cover its amount. It never moves a loan back to Active. Returns whether
// the status changed.
func settleLoan(txs []Transaction, loanID LoanID) bool {
	i := findLoan(txs, loanID)
	if i < 0 {
		return false
	}
	loan, _ := txs[i].Loan()
	if loan.Status == LoanSettled {
		return false
	}
	if PaidToward(txs, loanID).LessThan(txs[i].Amount) {
		return false
	}
	loan.Status = LoanSettled
	txs[i].Detail = loan
	return true
}

// =============================================================================
// STAFF PROFILE
// =============================================================================

type SavingsSummary struct {
	Deposited      decimal.Decimal `json:"deposited"`
	Withdrawn      decimal.Decimal `json:"withdrawn"`
	Balance        decimal.Decimal `json:"balance"`
	LastDeposit    *time.Time      `json:"lastDepositDate,omitempty"`
	LastWithdrawal *time.Time      `json:"lastWithdrawalDate,omitempty"`
}

type LoanSummary struct {
	Outstanding decimal.Decimal `json:"outstanding"`
	ActiveCount int             `json:"activeLoanCount"`
	LastPayment *time.Time      `json:"lastPaymentDate,omitempty"`
}

type DonationSummary struct {
	Total        decimal.Decimal `json:"total"`
	LastDonation *time.Time      `json:"lastDonationDate,omitempty"`
}

type MembershipSummary struct {
	Status      MembershipStatus `json:"status"`
	LastPayment *time.Time       `json:"lastPaymentDate,omitempty"`
	// NextDue is one calendar month after LastPayment. Month overflow rolls
	// forward (Jan 31 -> Mar 3), there is no day-of-month clamping.
	NextDue *time.Time `json:"nextDueDate,omitempty"`
}

// ProfileHistory groups a member's transactions the way the profile page
// lists them. Each slice keeps log order.
type ProfileHistory struct {
	Savings    []Transaction `json:"savings"`
	Loans      []Transaction `json:"loans"`
	Donations  []Transaction `json:"donations"`
	Membership []Transaction `json:"membership"`
}

// Profile is everything derived for one staff member.
type Profile struct {
	Staff      Staff             `json:"staff"`
	Savings    SavingsSummary    `json:"savings"`
	Loans      LoanSummary       `json:"loans"`
	Donations  DonationSummary   `json:"donations"`
	Membership MembershipSummary `json:"membership"`
	History    ProfileHistory    `json:"history"`
}

// SummarizeStaff derives the profile of staff from the full log.
func SummarizeStaff(txs []Transaction, staff Staff) Profile {
	p := Profile{
		Staff: staff,
		Savings: SavingsSummary{
			Deposited: decimal.Zero,
			Withdrawn: decimal.Zero,
		},
		Loans:      LoanSummary{Outstanding: decimal.Zero},
		Donations:  DonationSummary{Total: decimal.Zero},
		Membership: MembershipSummary{Status: MembershipInactive},
		History: ProfileHistory{
			Savings:    []Transaction{},
			Loans:      []Transaction{},
			Donations:  []Transaction{},
			Membership: []Transaction{},
		},
	}

	for _, tx := range txs {
		if tx.StaffID != staff.ID {
			continue
		}
		switch d := tx.Detail.(type) {
		case Saving:
			p.Savings.Deposited = p.Savings.Deposited.Add(tx.Amount)
			p.Savings.LastDeposit = latest(p.Savings.LastDeposit, tx.Date)
			p.History.Savings = append(p.History.Savings, tx)
		case SavingWithdrawal:
			p.Savings.Withdrawn = p.Savings.Withdrawn.Add(tx.Amount)
			p.Savings.LastWithdrawal = latest(p.Savings.LastWithdrawal, tx.Date)
			p.History.Savings = append(p.History.Savings, tx)
		case GiveLoan:
			if d.Status == LoanActive {
				p.Loans.ActiveCount++
				// An imported Active loan may already be overpaid.
				owed := decimal.Max(tx.Amount.Sub(PaidToward(txs, d.LoanID)), decimal.Zero)
				p.Loans.Outstanding = p.Loans.Outstanding.Add(owed)
			}
			p.History.Loans = append(p.History.Loans, tx)
		case LoanSettlement:
			p.Loans.LastPayment = latest(p.Loans.LastPayment, tx.Date)
			p.History.Loans = append(p.History.Loans, tx)
		case Donation:
			p.Donations.Total = p.Donations.Total.Add(tx.Amount)
			p.Donations.LastDonation = latest(p.Donations.LastDonation, tx.Date)
			p.History.Donations = append(p.History.Donations, tx)
		case Membership:
			p.Membership.LastPayment = latest(p.Membership.LastPayment, tx.Date)
			p.History.Membership = append(p.History.Membership, tx)
		}
	}

	p.Savings.Balance = p.Savings.Deposited.Sub(p.Savings.Withdrawn)
	if p.Membership.LastPayment != nil {
		p.Membership.Status = MembershipActive
		due := p.Membership.LastPayment.AddDate(0, 1, 0)
		p.Membership.NextDue = &due
	}
	return p
}

func latest(current *time.Time, candidate time.Time) *time.Time {
	if current == nil || candidate.After(*current) {
		c := candidate
		return &c
	}
	return current
}

// =============================================================================
// SCHEME-WIDE SUMMARY
// =============================================================================

// FinancialSummary holds the scheme-wide totals.
type FinancialSummary struct {
	LoansDisbursed     decimal.Decimal `json:"totalLoanDisbursed"`
	LoanRepayments     decimal.Decimal `json:"totalLoanRepayments"`
	SavingsDeposits    decimal.Decimal `json:"totalSavingsDeposits"`
	SavingsWithdrawals decimal.Decimal `json:"totalSavingsWithdrawals"`
	Donations          decimal.Decimal `json:"totalDonations"`
	Membership         decimal.Decimal `json:"totalMembership"`
	CashBalance        decimal.Decimal `json:"cashBalance"`
	BankBalance        decimal.Decimal `json:"bankBalance"`
	TotalSchemeFunds   decimal.Decimal `json:"totalSchemeFunds"`
}

// Summarize computes scheme-wide totals in a single pass over the log.
func Summarize(txs []Transaction) FinancialSummary {
	s := FinancialSummary{
		LoansDisbursed:     decimal.Zero,
		LoanRepayments:     decimal.Zero,
		SavingsDeposits:    decimal.Zero,
		SavingsWithdrawals: decimal.Zero,
		Donations:          decimal.Zero,
		Membership:         decimal.Zero,
		CashBalance:        decimal.Zero,
		BankBalance:        decimal.Zero,
	}

	for _, tx := range txs {
		method := tx.PaymentMethod()
		if tx.Type() == Deposit {
			switch method {
			case Cash:
				s.CashBalance = s.CashBalance.Add(tx.Amount)
			case BankDeposit:
				s.BankBalance = s.BankBalance.Add(tx.Amount)
			}
		} else {
			switch method {
			case Cash:
				s.CashBalance = s.CashBalance.Sub(tx.Amount)
			case Cheque:
				s.BankBalance = s.BankBalance.Sub(tx.Amount)
			}
		}

		switch tx.SubType() {
		case SubLoanSettlement:
			s.LoanRepayments = s.LoanRepayments.Add(tx.Amount)
		case SubSaving:
			s.SavingsDeposits = s.SavingsDeposits.Add(tx.Amount)
		case SubDonation:
			s.Donations = s.Donations.Add(tx.Amount)
		case SubMembership:
			s.Membership = s.Membership.Add(tx.Amount)
		case SubGiveLoan:
			s.LoansDisbursed = s.LoansDisbursed.Add(tx.Amount)
		case SubSavingWithdrawal:
			s.SavingsWithdrawals = s.SavingsWithdrawals.Add(tx.Amount)
		}
	}

	s.TotalSchemeFunds = s.CashBalance.Add(s.BankBalance)
	return s
}

// =============================================================================
// MONTHLY TREND
// =============================================================================

// TrendPoint is one calendar month of the loans-vs-savings chart.
type TrendPoint struct {
	Label            string          `json:"name"`
	Year             int             `json:"year"`
	Month            time.Month      `json:"month"`
	LoansDisbursed   decimal.Decimal `json:"loans"`
	SavingsDeposited decimal.Decimal `json:"savings"`
}

// MonthlyTrend buckets loans disbursed and savings deposited by the calendar
// month (UTC) of each transaction's date. Points are in calendar order,
// oldest first; months with no transactions are absent.
func MonthlyTrend(txs []Transaction) []TrendPoint {
	type monthKey struct {
		year  int
		month time.Month
	}
	buckets := make(map[monthKey]*TrendPoint)

	for _, tx := range txs {
		d := tx.Date.UTC()
		k := monthKey{d.Year(), d.Month()}
		p, ok := buckets[k]
		if !ok {
			p = &TrendPoint{
				Label:            d.Format("Jan 06"),
				Year:             k.year,
				Month:            k.month,
				LoansDisbursed:   decimal.Zero,
				SavingsDeposited: decimal.Zero,
			}
			buckets[k] = p
		}
		switch tx.SubType() {
		case SubGiveLoan:
			p.LoansDisbursed = p.LoansDisbursed.Add(tx.Amount)
		case SubSaving:
			p.SavingsDeposited = p.SavingsDeposited.Add(tx.Amount)
		}
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}
