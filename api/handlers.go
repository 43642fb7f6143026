/*
handlers.go - HTTP API handlers for the scheme ledger

PURPOSE:
  Exposes the ledger engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and report packages.

ENDPOINTS:
  GET    /api/health                     Liveness + record counts

  Staff:
    GET    /api/staff?search=              List / search staff
    POST   /api/staff                      Register a member
    GET    /api/staff/{id}                 Staff record
    GET    /api/staff/{id}/profile         Derived profile + history
    GET    /api/staff/{id}/loans/active    Loans open for settlement

  Transactions:
    GET    /api/transactions               Filtered report (start_date, end_date,
                                           staff_id, type, sub_type)
    POST   /api/transactions               Generate a receipt
    GET    /api/transactions/{id}          One transaction
    GET    /api/transactions/{id}/receipt  Receipt PDF

  Reports:
    GET    /api/reports/summary            Scheme-wide totals
    GET    /api/reports/trend              Loans vs savings per month
    GET    /api/reports/transactions.csv   CSV of the filtered report
    GET    /api/words?amount=              Amount in words

  State:
    GET    /api/state/export               Download the whole dataset
    POST   /api/state/import?confirm=true  Replace the whole dataset
    GET    /api/state/backups              List stored backups
    POST   /api/state/backups              Write a backup now
    GET    /api/state/backups/{name}       Download a stored backup

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Engine: The ledger (roster + log)
  - Branding: Letterhead and currency for documents
  - Backups: Optional scheduler writing dated backups to the blob store

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (validator tags, then enum parsing)
  3. Call the engine
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed import documents
  - 404: Unknown staff, transaction or route
  - 409: Import or reset without confirm=true
  - 500: Persistence failures

SECURITY NOTE:
  No authentication. The service is meant for a single trusted operator.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo data loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/btels/scheme-ledger/ledger"
	"github.com/btels/scheme-ledger/report"
	"github.com/btels/scheme-ledger/words"
)

// maxImportBytes bounds the size of an imported state document.
const maxImportBytes = 16 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine   *ledger.Engine
	Branding report.Branding
	Backups  *BackupScheduler
	Logger   logrus.FieldLogger

	validate *validator.Validate
	now      func() time.Time

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler around the engine.
func NewHandler(eng *ledger.Engine, branding report.Branding, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Engine:   eng,
		Branding: branding,
		Logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// Health reports that the service is up and how much data it holds.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.Engine.Snapshot()
	resp := map[string]any{
		"status":       "ok",
		"staff":        len(snap.Staff),
		"transactions": len(snap.Transactions),
	}
	if h.Backups != nil {
		if last, ok := h.Backups.LastRun(); ok {
			resp["lastBackup"] = last.UTC().Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// STAFF HANDLERS
// =============================================================================

// ListStaff returns the roster, optionally narrowed by ?search=.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.ListStaff(r.URL.Query().Get("search")))
}

// CreateStaff registers a new member.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	designation, err := ledger.ParseDesignation(req.Designation)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid designation", err)
		return
	}
	joinDate, err := parseDate(req.JoinDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid joinDate (use YYYY-MM-DD)", err)
		return
	}

	staff, err := h.Engine.AddStaff(r.Context(), ledger.NewStaff{
		Name:             req.Name,
		Address:          req.Address,
		Designation:      designation,
		OtherDesignation: req.OtherDesignation,
		JoinDate:         joinDate,
		ContactNo:        req.ContactNo,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to add staff", err)
		return
	}

	writeJSON(w, http.StatusCreated, staff)
}

// GetStaff returns one staff record.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Engine.Staff(ledger.StaffID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Staff not found", err)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

// GetProfile returns the derived profile of a staff member.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Engine.Profile(ledger.StaffID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Staff not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// GetActiveLoans lists the loans a settlement may be linked to.
func (h *Handler) GetActiveLoans(w http.ResponseWriter, r *http.Request) {
	id := ledger.StaffID(chi.URLParam(r, "id"))
	if _, err := h.Engine.Staff(id); err != nil {
		h.writeDomainError(w, "Staff not found", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Engine.ActiveLoansFor(id))
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns the log filtered by the query parameters.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Engine.Filter(criteria))
}

// CreateTransaction records a transaction and returns it with its receipt.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	in, err := req.toNewTransaction()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction", err)
		return
	}

	tx, err := h.Engine.AddTransaction(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, "Failed to record transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateTransactionResponse{
		Transaction: tx,
		Receipt:     toReceiptDTO(h.receiptFor(tx)),
	})
}

// GetTransaction returns one transaction by receipt id.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Engine.Transaction(ledger.ReceiptID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Transaction not found", err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// GetReceipt renders the receipt PDF of a transaction.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Engine.Transaction(ledger.ReceiptID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, "Transaction not found", err)
		return
	}

	receipt := h.receiptFor(tx)
	var buf bytes.Buffer
	if err := receipt.WritePDF(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render receipt", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, receipt.Filename()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// receiptFor builds the receipt of tx. Imported data may reference staff
// that are not on the roster; those print as Unknown.
func (h *Handler) receiptFor(tx ledger.Transaction) report.Receipt {
	staff, err := h.Engine.Staff(tx.StaffID)
	if err != nil {
		staff = ledger.Staff{ID: tx.StaffID, Name: "Unknown"}
	}
	return report.NewReceipt(tx, staff, h.Branding)
}

func (req CreateTransactionRequest) toNewTransaction() (ledger.NewTransaction, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ledger.NewTransaction{}, fmt.Errorf("invalid date: %w", err)
	}
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return ledger.NewTransaction{}, fmt.Errorf("invalid amount %q", req.Amount)
	}

	subType := ledger.SubType(req.SubType)
	if subType.Type() != ledger.TransactionType(req.Type) {
		return ledger.NewTransaction{}, fmt.Errorf("%s is not a %s", subType, req.Type)
	}
	method := ledger.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = ledger.Cash
	}

	var detail ledger.Detail
	switch subType {
	case ledger.SubSaving:
		detail = ledger.Saving{SavingType: ledger.SavingType(req.SavingType), PaymentMethod: method}
	case ledger.SubLoanSettlement:
		detail = ledger.LoanSettlement{LinkedLoanID: ledger.LoanID(req.LinkedLoanID), PaymentMethod: method}
	case ledger.SubDonation:
		detail = ledger.Donation{PaymentMethod: method}
	case ledger.SubMembership:
		if method != ledger.Cash {
			return ledger.NewTransaction{}, errors.New("membership is paid in cash only")
		}
		detail = ledger.Membership{}
	case ledger.SubGiveLoan:
		rate := decimal.Zero
		if req.InterestRate != "" {
			if rate, err = decimal.NewFromString(req.InterestRate.String()); err != nil {
				return ledger.NewTransaction{}, fmt.Errorf("invalid interestRate %q", req.InterestRate)
			}
		}
		detail = ledger.GiveLoan{
			InterestRate:      rate,
			RepaymentSchedule: strings.TrimSpace(req.RepaymentSchedule),
			PaymentMethod:     method,
		}
	case ledger.SubSavingWithdrawal:
		detail = ledger.SavingWithdrawal{SavingType: ledger.SavingType(req.SavingType), PaymentMethod: method}
	default:
		return ledger.NewTransaction{}, fmt.Errorf("unknown subType %q", req.SubType)
	}

	return ledger.NewTransaction{
		StaffID: ledger.StaffID(req.StaffID),
		Date:    date,
		Amount:  amount,
		Detail:  detail,
	}, nil
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetSummary returns the scheme-wide financial summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSummaryDTO(h.Engine.FinancialSummary(), h.Branding.Currency))
}

// GetTrend returns loans vs savings per calendar month, oldest first.
func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toTrendDTOs(h.Engine.MonthlyTrend()))
}

// ExportCSV streams the filtered report as CSV.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, h.Engine.Filter(criteria), h.Engine.StaffNames(), h.Branding.Currency); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write CSV", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.CSVFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetWords spells ?amount= out the way receipts do.
func (h *Handler) GetWords(w http.ResponseWriter, r *http.Request) {
	amount := r.URL.Query().Get("amount")
	writeJSON(w, http.StatusOK, map[string]string{
		"amount": amount,
		"words":  words.ConvertString(amount),
	})
}

// =============================================================================
// STATE HANDLERS
// =============================================================================

// ExportState downloads the whole dataset as a backup document.
func (h *Handler) ExportState(w http.ResponseWriter, r *http.Request) {
	data, err := ledger.EncodeState(h.Engine.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export data", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.BackupFilename(h.now())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportState replaces the whole dataset. The caller must pass confirm=true
// because the current roster and log are discarded.
func (h *Handler) ImportState(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		writeErrorCode(w, http.StatusConflict, "Import overwrites all existing data; repeat with confirm=true", "confirmation_required", nil)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read import document", err)
		return
	}
	state, err := ledger.DecodeState(data)
	if err != nil {
		h.writeDomainError(w, "Invalid import document", err)
		return
	}
	if err := h.Engine.Replace(r.Context(), state); err != nil {
		h.writeDomainError(w, "Failed to import data", err)
		return
	}

	h.setCurrentScenario("")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "imported",
		"staff":        len(state.Staff),
		"transactions": len(state.Transactions),
	})
}

// ListBackups returns the keys of stored backups.
func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	if h.Backups == nil {
		writeError(w, http.StatusNotFound, "Backups are not configured", nil)
		return
	}
	keys, err := ListBackups(r.Context(), h.Backups.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list backups", err)
		return
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = strings.TrimPrefix(k, BackupKeyPrefix)
	}
	resp := map[string]any{"backups": names}
	if last, ok := h.Backups.LastRun(); ok {
		resp["lastRun"] = last.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateBackup writes a backup immediately.
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	if h.Backups == nil {
		writeError(w, http.StatusNotFound, "Backups are not configured", nil)
		return
	}
	key, err := h.Backups.RunNow(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to write backup", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"status": "created",
		"name":   strings.TrimPrefix(key, BackupKeyPrefix),
	})
}

// GetBackup downloads one stored backup document.
func (h *Handler) GetBackup(w http.ResponseWriter, r *http.Request) {
	if h.Backups == nil {
		writeError(w, http.StatusNotFound, "Backups are not configured", nil)
		return
	}
	name := chi.URLParam(r, "name")
	data, ok, err := h.Backups.Store.Get(r.Context(), BackupKeyPrefix+name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read backup", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Backup not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeAndValidate reads a JSON body into dst and runs validator tags.
// It writes the 400 response itself and returns false on failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
			}
			writeErrorCode(w, http.StatusBadRequest, "Validation failed", "validation_error", errors.New(strings.Join(fields, "; ")))
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// writeDomainError maps engine errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var verr *ledger.ValidationError
	var perr *ledger.ParseError
	switch {
	case errors.As(err, &verr):
		writeErrorCode(w, http.StatusBadRequest, message, "validation_error", err)
	case errors.As(err, &perr):
		writeErrorCode(w, http.StatusBadRequest, message, "malformed_state", err)
	case ledger.IsNotFound(err):
		writeErrorCode(w, http.StatusNotFound, message, "not_found", err)
	case ledger.IsClientError(err):
		writeErrorCode(w, http.StatusBadRequest, message, "bad_request", err)
	default:
		h.Logger.WithError(err).Error(message)
		writeErrorCode(w, http.StatusInternalServerError, message, "internal", err)
	}
}

func parseCriteria(r *http.Request) (ledger.Criteria, error) {
	q := r.URL.Query()
	var c ledger.Criteria

	if s := q.Get("start_date"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c, fmt.Errorf("start_date: %w", err)
		}
		c.StartDate = &d
	}
	if s := q.Get("end_date"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			return c, fmt.Errorf("end_date: %w", err)
		}
		c.EndDate = &d
	}
	c.StaffID = ledger.StaffID(q.Get("staff_id"))
	if s := q.Get("type"); s != "" {
		c.Type = ledger.TransactionType(s)
		if !c.Type.Valid() {
			return c, fmt.Errorf("unknown type %q", s)
		}
	}
	c.SubType = ledger.SubType(q.Get("sub_type"))
	return c, nil
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func confirmed(r *http.Request) bool {
	v := strings.ToLower(r.URL.Query().Get("confirm"))
	return v == "true" || v == "1" || v == "yes"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeErrorCode(w, status, message, "", err)
}

func writeErrorCode(w http.ResponseWriter, status int, message, code string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
