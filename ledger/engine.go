/*
engine.go - The ledger engine: roster + append-only log

PURPOSE:
  Owns the staff roster and the transaction log. It is the only component
  that mutates either. Commands validate, append, run the loan settlement
  rule, and persist a full snapshot. Queries derive views from the log.

COMMANDS:
  AddStaff:        New member with a fresh ST- id
  AddTransaction:  New receipt (RCPT- id); Give Loan also gets a LOAN- id
  Replace:         Whole-state import, no merge

QUERIES:
  ListStaff, Staff, Transaction, Transactions
  ActiveLoansFor:    Unsettled loans of a member (settlement picker)
  Profile:           Derived member summary
  FinancialSummary:  Scheme-wide totals
  MonthlyTrend:      Loans vs savings per month
  Filter:            Report query

ATOMICITY:
  A command builds the next state on copies, saves it, and only then swaps
  it in. If validation or the store fails, the in-memory state is exactly
  what it was before the call.

CONCURRENCY:
  The domain is single-writer. The RWMutex enforces that when the engine is
  served over HTTP: commands take the write lock, queries the read lock.

SEE ALSO:
  - derive.go: Aggregation rules
  - store.go: Persistence contract
*/
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// NewTransaction is the input to AddTransaction. For a GiveLoan detail the
// engine assigns LoanID and sets Status to Active; whatever the caller put
// there is ignored.
type NewTransaction struct {
	StaffID StaffID
	Date    time.Time
	Amount  decimal.Decimal
	Detail  Detail
}

// Engine holds the roster and log in memory and persists them through Store.
type Engine struct {
	mu sync.RWMutex

	store    Store
	staff    []Staff
	staffIdx map[StaffID]int
	txs      []Transaction

	newID func(prefix string) string
	log   logrus.FieldLogger
}

type Option func(*Engine)

// WithLogger sets the logger used for command logging.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithIDGenerator replaces the UUID-based id generator. fn receives the id
// prefix ("ST-", "RCPT-", "LOAN-") and must return a unique id.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(e *Engine) { e.newID = fn }
}

// Open loads the state from store and returns a ready engine. A missing
// document starts an empty ledger.
func Open(ctx context.Context, store Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		newID: func(prefix string) string { return prefix + uuid.NewString() },
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	state, found, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger state: %w", err)
	}
	e.install(state)
	e.log.WithFields(logrus.Fields{
		"found":        found,
		"staff":        len(e.staff),
		"transactions": len(e.txs),
	}).Info("ledger loaded")
	return e, nil
}

func (e *Engine) install(s State) {
	e.staff = s.Staff
	e.txs = s.Transactions
	if e.staff == nil {
		e.staff = []Staff{}
	}
	if e.txs == nil {
		e.txs = []Transaction{}
	}
	e.staffIdx = make(map[StaffID]int, len(e.staff))
	for i, s := range e.staff {
		e.staffIdx[s.ID] = i
	}
}

// commit persists next and, on success, makes it the live state.
func (e *Engine) commit(ctx context.Context, next State) error {
	if err := e.store.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist ledger state: %w", err)
	}
	e.install(next)
	return nil
}

func (e *Engine) current() State {
	return State{Staff: e.staff, Transactions: e.txs}.Clone()
}

// =============================================================================
// COMMANDS
// =============================================================================

// AddStaff registers a new member. Required-field presence is the caller's
// job; the engine checks the designation and the Other/otherDesignation pairing.
func (e *Engine) AddStaff(ctx context.Context, in NewStaff) (Staff, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	staff, err := in.build(StaffID(e.newID(staffIDPrefix)))
	if err != nil {
		return Staff{}, err
	}
	if _, exists := e.staffIdx[staff.ID]; exists {
		return Staff{}, fmt.Errorf("generated staff id %s already in use", staff.ID)
	}

	next := e.current()
	next.Staff = append(next.Staff, staff)
	if err := e.commit(ctx, next); err != nil {
		return Staff{}, err
	}

	e.log.WithFields(logrus.Fields{
		"staff_id":    staff.ID,
		"designation": staff.Designation,
	}).Info("staff added")
	return staff, nil
}

// AddTransaction records a receipt. A Loan Settlement also re-evaluates the
// linked loan and marks it Settled once fully repaid.
func (e *Engine) AddTransaction(ctx context.Context, in NewTransaction) (Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.staffIdx[in.StaffID]; !ok {
		return Transaction{}, &ValidationError{
			Field:  "staffId",
			Reason: fmt.Sprintf("no staff member with id %q", in.StaffID),
			Cause:  ErrStaffNotFound,
		}
	}
	if !in.Amount.IsPositive() {
		return Transaction{}, &ValidationError{Field: "amount", Reason: "must be greater than zero", Cause: ErrInvalidAmount}
	}
	if in.Date.IsZero() {
		return Transaction{}, &ValidationError{Field: "date", Reason: "is required"}
	}
	if in.Detail == nil {
		return Transaction{}, &ValidationError{Field: "subType", Reason: "is required"}
	}

	detail := in.Detail
	if loan, ok := detail.(GiveLoan); ok {
		loan.LoanID = LoanID(e.newID(loanIDPrefix))
		loan.Status = LoanActive
		detail = loan
	}
	if err := detail.validate(); err != nil {
		return Transaction{}, err
	}
	settlement, isSettlement := detail.(LoanSettlement)
	if isSettlement && findLoan(e.txs, settlement.LinkedLoanID) < 0 {
		return Transaction{}, &ValidationError{
			Field:  "linkedLoanId",
			Reason: fmt.Sprintf("no loan with id %q", settlement.LinkedLoanID),
			Cause:  ErrLoanNotFound,
		}
	}

	tx := Transaction{
		ReceiptID: ReceiptID(e.newID(receiptIDPrefix)),
		StaffID:   in.StaffID,
		Date:      in.Date.UTC(),
		Amount:    in.Amount,
		Detail:    detail,
	}

	next := e.current()
	next.Transactions = append(next.Transactions, tx)
	settled := false
	if isSettlement {
		settled = settleLoan(next.Transactions, settlement.LinkedLoanID)
	}
	if err := e.commit(ctx, next); err != nil {
		return Transaction{}, err
	}

	fields := logrus.Fields{
		"receipt_id": tx.ReceiptID,
		"staff_id":   tx.StaffID,
		"sub_type":   tx.SubType(),
		"amount":     tx.Amount.String(),
	}
	if loan, ok := tx.Loan(); ok {
		fields["loan_id"] = loan.LoanID
	}
	e.log.WithFields(fields).Info("transaction recorded")
	if settled {
		e.log.WithField("loan_id", settlement.LinkedLoanID).Info("loan settled")
	}
	return tx, nil
}

// Replace swaps the whole dataset for s (import). There is no merge: the
// previous roster and log are discarded once s is persisted.
func (e *Engine) Replace(ctx context.Context, s State) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.commit(ctx, s.Clone()); err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{
		"staff":        len(e.staff),
		"transactions": len(e.txs),
	}).Warn("ledger state replaced by import")
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Snapshot returns a copy of the full state (export).
func (e *Engine) Snapshot() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current()
}

// ListStaff returns members whose name or id contains search (case
// insensitive). An empty search returns the whole roster.
func (e *Engine) ListStaff(search string) []Staff {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := []Staff{}
	for _, s := range e.staff {
		if s.matches(search) {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) Staff(id StaffID) (Staff, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i, ok := e.staffIdx[id]
	if !ok {
		return Staff{}, ErrStaffNotFound
	}
	return e.staff[i], nil
}

// StaffNames maps every staff id to its name, for report rendering.
func (e *Engine) StaffNames() map[StaffID]string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make(map[StaffID]string, len(e.staff))
	for _, s := range e.staff {
		names[s.ID] = s.Name
	}
	return names
}

func (e *Engine) Transaction(id ReceiptID) (Transaction, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, tx := range e.txs {
		if tx.ReceiptID == id {
			return tx, nil
		}
	}
	return Transaction{}, ErrTransactionNotFound
}

// Transactions returns the full log in insertion order.
func (e *Engine) Transactions() []Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Transaction, len(e.txs))
	copy(out, e.txs)
	return out
}

func (e *Engine) ActiveLoansFor(staffID StaffID) []Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ActiveLoans(e.txs, staffID)
}

func (e *Engine) Profile(staffID StaffID) (Profile, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i, ok := e.staffIdx[staffID]
	if !ok {
		return Profile{}, ErrStaffNotFound
	}
	return SummarizeStaff(e.txs, e.staff[i]), nil
}

func (e *Engine) FinancialSummary() FinancialSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Summarize(e.txs)
}

func (e *Engine) MonthlyTrend() []TrendPoint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return MonthlyTrend(e.txs)
}

func (e *Engine) Filter(c Criteria) []Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Filter(e.txs, c)
}
