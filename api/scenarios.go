/*
scenarios.go - Demo data loaders for testing and demonstrations

PURPOSE:

	Provides pre-built data sets that populate the ledger with realistic
	staff and transactions. Each scenario goes through the engine's own
	commands, so loans settle and ids are generated exactly as in real use.

AVAILABLE SCENARIOS:

	empty:          Fresh installation, no staff
	loan-lifecycle: One teacher, a loan repaid in two installments
	school-year:    Several staff with a year of savings, dues, donations,
	                loans and a withdrawal across cash, bank and cheque

HOW SCENARIOS WORK:
 1. Open a scratch engine over an in-memory store
 2. Register staff and record transactions in date order
 3. Replace the live ledger with the scratch engine's snapshot

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "school-year"}

NOTE:

	Loading a scenario discards all existing data. Only use in
	development/demo environments.

SEE ALSO:
  - handlers.go: Shared helpers
  - ledger/engine.go: Commands used by the loaders
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/btels/scheme-ledger/ledger"
	"github.com/btels/scheme-ledger/ledger/store"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "empty",
		Name:        "Empty Ledger",
		Description: "Fresh installation with no staff or transactions",
	},
	{
		ID:          "loan-lifecycle",
		Name:        "Loan Lifecycle",
		Description: "A 10,000 loan repaid by settlements of 6,000 and 4,000",
	},
	{
		ID:          "school-year",
		Name:        "School Year",
		Description: "Five staff with savings, dues, donations, loans and withdrawals over 2024",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.getCurrentScenario()
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// scenarioLoaders builds each scenario into the engine it is given.
var scenarioLoaders = map[string]func(ctx context.Context, eng *ledger.Engine) error{
	"empty":          func(context.Context, *ledger.Engine) error { return nil },
	"loan-lifecycle": loadLoanLifecycleScenario,
	"school-year":    loadSchoolYearScenario,
}

// LoadScenario replaces the ledger with a demo data set. The data set is
// built in a scratch in-memory engine first, so a failed load leaves the
// live ledger untouched.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	loader, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	scratch, err := ledger.Open(ctx, ledger.NewKeyedStore(store.NewMemory(), ""),
		ledger.WithLogger(h.Logger.WithField("scenario", req.ScenarioID)))
	if err != nil {
		h.writeDomainError(w, "Failed to load scenario", err)
		return
	}
	if err := loader(ctx, scratch); err != nil {
		h.writeDomainError(w, "Failed to load scenario", err)
		return
	}
	if err := h.Engine.Replace(ctx, scratch.Snapshot()); err != nil {
		h.writeDomainError(w, "Failed to replace ledger", err)
		return
	}
	h.setCurrentScenario(req.ScenarioID)

	h.Logger.WithField("scenario", req.ScenarioID).Info("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "loaded",
		"scenario":     req.ScenarioID,
		"staff":        len(h.Engine.ListStaff("")),
		"transactions": len(h.Engine.Transactions()),
	})
}

// ResetDatabase empties the ledger. Requires confirm=true.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeErrorCode(w, http.StatusConflict, "Reset deletes all data; repeat with confirm=true", "confirmation_required", nil)
		return
	}
	if err := h.Engine.Replace(r.Context(), ledger.EmptyState()); err != nil {
		h.writeDomainError(w, "Failed to reset ledger", err)
		return
	}
	h.setCurrentScenario("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) getCurrentScenario() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentScenario
}

func (h *Handler) setCurrentScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// scenarioBuilder records demo data and remembers the first error.
type scenarioBuilder struct {
	ctx context.Context
	eng *ledger.Engine
	err error
}

func (b *scenarioBuilder) staff(name string, d ledger.Designation, other string, joined time.Time) ledger.StaffID {
	if b.err != nil {
		return ""
	}
	s, err := b.eng.AddStaff(b.ctx, ledger.NewStaff{
		Name:             name,
		Address:          "Mawanella",
		Designation:      d,
		OtherDesignation: other,
		JoinDate:         joined,
		ContactNo:        "0350000000",
	})
	b.err = err
	return s.ID
}

func (b *scenarioBuilder) tx(staffID ledger.StaffID, on time.Time, amount int64, d ledger.Detail) ledger.Transaction {
	if b.err != nil {
		return ledger.Transaction{}
	}
	tx, err := b.eng.AddTransaction(b.ctx, ledger.NewTransaction{
		StaffID: staffID,
		Date:    on,
		Amount:  decimal.NewFromInt(amount),
		Detail:  d,
	})
	b.err = err
	return tx
}

func (b *scenarioBuilder) loan(staffID ledger.StaffID, on time.Time, amount int64, method ledger.PaymentMethod) ledger.LoanID {
	tx := b.tx(staffID, on, amount, ledger.GiveLoan{
		InterestRate:      decimal.NewFromInt(5),
		RepaymentSchedule: "Monthly from salary",
		PaymentMethod:     method,
	})
	l, _ := tx.Loan()
	return l.LoanID
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func loadLoanLifecycleScenario(ctx context.Context, eng *ledger.Engine) error {
	b := &scenarioBuilder{ctx: ctx, eng: eng}

	s1 := b.staff("M. R. Fathima", ledger.Teacher, "", day(2015, time.January, 5))
	l1 := b.loan(s1, day(2024, time.January, 15), 10000, ledger.Cash)
	b.tx(s1, day(2024, time.February, 15), 6000, ledger.LoanSettlement{LinkedLoanID: l1, PaymentMethod: ledger.Cash})
	b.tx(s1, day(2024, time.March, 15), 4000, ledger.LoanSettlement{LinkedLoanID: l1, PaymentMethod: ledger.BankDeposit})

	return b.err
}

func loadSchoolYearScenario(ctx context.Context, eng *ledger.Engine) error {
	b := &scenarioBuilder{ctx: ctx, eng: eng}

	principal := b.staff("A. L. M. Nizar", ledger.DeputyPrincipal, "", day(2008, time.March, 1))
	teacher := b.staff("S. Rifka", ledger.Teacher, "", day(2016, time.June, 1))
	head := b.staff("K. Jayasinghe", ledger.SectionalHead, "", day(2012, time.January, 10))
	coach := b.staff("R. Perera", ledger.SportsCoach, "", day(2021, time.September, 1))
	librarian := b.staff("F. Hana", ledger.OtherDesignation, "Librarian", day(2019, time.February, 1))

	members := []ledger.StaffID{principal, teacher, head, coach, librarian}

	// Monthly dues and savings.
	for m := time.January; m <= time.June; m++ {
		for i, id := range members {
			b.tx(id, day(2024, m, 5), 100, ledger.Membership{})
			method := ledger.Cash
			if i%2 == 0 {
				method = ledger.BankDeposit
			}
			b.tx(id, day(2024, m, 10), 1000+int64(i)*250, ledger.Saving{SavingType: ledger.NormalDeposit, PaymentMethod: method})
		}
	}
	b.tx(head, day(2024, time.February, 1), 25000, ledger.Saving{SavingType: ledger.FixedDeposit, PaymentMethod: ledger.BankDeposit})

	// Loans: one repaid, one still open.
	settled := b.loan(teacher, day(2024, time.February, 20), 15000, ledger.Cheque)
	for m := time.March; m <= time.May; m++ {
		b.tx(teacher, day(2024, m, 25), 5000, ledger.LoanSettlement{LinkedLoanID: settled, PaymentMethod: ledger.Cash})
	}
	open := b.loan(coach, day(2024, time.April, 2), 20000, ledger.Cash)
	b.tx(coach, day(2024, time.May, 2), 2500, ledger.LoanSettlement{LinkedLoanID: open, PaymentMethod: ledger.Cash})
	b.tx(coach, day(2024, time.June, 2), 2500, ledger.LoanSettlement{LinkedLoanID: open, PaymentMethod: ledger.BankDeposit})

	// Donations and a withdrawal.
	b.tx(principal, day(2024, time.April, 14), 5000, ledger.Donation{PaymentMethod: ledger.Cash})
	b.tx(librarian, day(2024, time.May, 20), 1500, ledger.Donation{PaymentMethod: ledger.BankDeposit})
	b.tx(principal, day(2024, time.June, 28), 3000, ledger.SavingWithdrawal{SavingType: ledger.NormalDeposit, PaymentMethod: ledger.Cheque})

	return b.err
}
