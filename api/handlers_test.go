/*
handlers_test.go - HTTP tests for the ledger API

Tests for:
- Staff registration, search and validation
- Transaction recording, receipts and the loan settlement flow
- Reports (summary, trend, CSV, words)
- State export / import with confirmation
*/
package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btels/scheme-ledger/ledger"
	"github.com/btels/scheme-ledger/ledger/store"
	"github.com/btels/scheme-ledger/report"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type testServer struct {
	h      *Handler
	router http.Handler
	blobs  *store.Memory
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	blobs := store.NewMemory()
	eng, err := ledger.Open(context.Background(), ledger.NewKeyedStore(blobs, ""), ledger.WithLogger(quietLogger()))
	require.NoError(t, err)

	h := NewHandler(eng, report.DefaultBranding(), quietLogger())
	h.now = func() time.Time { return time.Date(2024, time.June, 30, 9, 0, 0, 0, time.UTC) }
	return &testServer{
		h:      h,
		router: NewRouter(h, []string{"http://localhost:5173"}, nil),
		blobs:  blobs,
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (ts *testServer) createStaff(t *testing.T, name string) ledger.Staff {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/staff", `{
		"name": "`+name+`",
		"address": "Hemmathagama Road, Mawanella",
		"designation": "Teacher",
		"joinDate": "2019-01-07",
		"contactNo": "0771234567"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[ledger.Staff](t, rec)
}

// wireTx is the flat transaction record as clients see it.
type wireTx struct {
	ReceiptID     string      `json:"receiptId"`
	StaffID       string      `json:"staffId"`
	Amount        json.Number `json:"amount"`
	Type          string      `json:"type"`
	SubType       string      `json:"subType"`
	PaymentMethod string      `json:"paymentMethod"`
	LinkedLoanID  string      `json:"linkedLoanId"`
	LoanID        string      `json:"loanId"`
	Status        string      `json:"status"`
}

type createTxResponse struct {
	Transaction wireTx     `json:"transaction"`
	Receipt     ReceiptDTO `json:"receipt"`
}

func (ts *testServer) createTx(t *testing.T, body string) createTxResponse {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[createTxResponse](t, rec)
}

func txBody(staffID ledger.StaffID, fields string) string {
	return `{"staffId": "` + string(staffID) + `", ` + fields + `}`
}

// =============================================================================
// STAFF
// =============================================================================

func TestCreateStaff_AndSearch(t *testing.T) {
	// GIVEN: Two registered members
	ts := newTestServer(t)
	nimal := ts.createStaff(t, "Nimal Perera")
	ts.createStaff(t, "Fathima Rizna")

	// WHEN: Searching by part of a name, in another case
	rec := ts.do(t, http.MethodGet, "/api/staff?search=NIMAL", "")

	// THEN: Only the matching member is returned
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]ledger.Staff](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, nimal.ID, found[0].ID)
	assert.True(t, strings.HasPrefix(string(nimal.ID), "ST-"))
}

func TestCreateStaff_DesignationIsCaseInsensitive(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/staff", `{
		"name": "K. Silva", "address": "Kandy", "designation": "sports coach",
		"joinDate": "2021-09-01", "contactNo": "0710000000"
	}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, ledger.SportsCoach, decode[ledger.Staff](t, rec).Designation)
}

func TestCreateStaff_OtherRequiresFreeText(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/staff", `{
		"name": "F. Hana", "address": "Mawanella", "designation": "Other",
		"joinDate": "2019-02-01", "contactNo": "0712222222"
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decode[ErrorResponse](t, rec).Code)
}

func TestCreateStaff_MissingFields(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/staff", `{"name": "Only A Name"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Code)
	assert.Contains(t, resp.Details, "Address")
}

func TestGetStaff_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/staff/ST-missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[ErrorResponse](t, rec).Code)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestCreateTransaction_UnknownStaff(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/transactions", txBody("ST-ghost",
		`"date": "2024-01-10", "amount": 500, "type": "Deposit", "subType": "Donation", "paymentMethod": "Cash"`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decode[ErrorResponse](t, rec).Code)
	assert.Empty(t, ts.h.Engine.Transactions())
}

func TestCreateTransaction_Rejections(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.createStaff(t, "Nimal Perera")

	cases := []struct {
		name   string
		fields string
	}{
		{"zero amount", `"date": "2024-01-10", "amount": 0, "type": "Deposit", "subType": "Donation"`},
		{"negative amount", `"date": "2024-01-10", "amount": -5, "type": "Deposit", "subType": "Donation"`},
		{"subtype of the other type", `"date": "2024-01-10", "amount": 100, "type": "Deposit", "subType": "Give Loan"`},
		{"unknown subtype", `"date": "2024-01-10", "amount": 100, "type": "Deposit", "subType": "Bonus"`},
		{"saving without saving type", `"date": "2024-01-10", "amount": 100, "type": "Deposit", "subType": "Saving"`},
		{"deposit by cheque", `"date": "2024-01-10", "amount": 100, "type": "Deposit", "subType": "Donation", "paymentMethod": "Cheque"`},
		{"loan paid into bank", `"date": "2024-01-10", "amount": 100, "type": "Withdrawal", "subType": "Give Loan", "paymentMethod": "Bank Deposit"`},
		{"membership by bank", `"date": "2024-01-10", "amount": 100, "type": "Deposit", "subType": "Membership", "paymentMethod": "Bank Deposit"`},
		{"settlement without loan", `"date": "2024-01-10", "amount": 100, "type": "Deposit", "subType": "Loan Settlement"`},
		{"settlement of unknown loan", `"date": "2024-01-10", "amount": 100, "type": "Deposit", "subType": "Loan Settlement", "linkedLoanId": "LOAN-nope"`},
		{"bad date", `"date": "10/01/2024", "amount": 100, "type": "Deposit", "subType": "Donation"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/transactions", txBody(staff.ID, tc.fields))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, ts.h.Engine.Transactions())
}

func TestCreateTransaction_ReturnsReceipt(t *testing.T) {
	// GIVEN: A member
	ts := newTestServer(t)
	staff := ts.createStaff(t, "Nimal Perera")

	// WHEN: Recording a normal saving paid into the bank
	resp := ts.createTx(t, txBody(staff.ID,
		`"date": "2024-03-05", "amount": 1500, "type": "Deposit", "subType": "Saving",
		 "savingType": "Normal Deposit", "paymentMethod": "Bank Deposit"`))

	// THEN: The transaction and a printable receipt come back together
	assert.True(t, strings.HasPrefix(resp.Transaction.ReceiptID, "RCPT-"))
	assert.Equal(t, "1500", resp.Transaction.Amount.String())
	assert.Equal(t, "Bank Deposit", resp.Transaction.PaymentMethod)
	assert.Equal(t, "Rupees One Thousand Only", resp.Receipt.AmountInWords)
	assert.Equal(t, "receipt-"+resp.Transaction.ReceiptID+".pdf", resp.Receipt.Filename)
	assert.Equal(t, "/api/transactions/"+resp.Transaction.ReceiptID+"/receipt", resp.Receipt.URL)
	assert.Equal(t, report.DefaultBranding().SchemeName, resp.Receipt.SchemeName)
}

func TestCreateTransaction_PaymentMethodDefaultsToCash(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.createStaff(t, "Nimal Perera")

	resp := ts.createTx(t, txBody(staff.ID,
		`"date": "2024-03-05", "amount": 100, "type": "Deposit", "subType": "Membership"`))

	assert.Equal(t, "Cash", resp.Transaction.PaymentMethod)
}

func TestLoanLifecycle(t *testing.T) {
	// GIVEN: A member who takes a 10,000 loan
	ts := newTestServer(t)
	staff := ts.createStaff(t, "Nimal Perera")
	loan := ts.createTx(t, txBody(staff.ID,
		`"date": "2024-01-15", "amount": "10000", "type": "Withdrawal", "subType": "Give Loan",
		 "paymentMethod": "Cash", "interestRate": 5, "repaymentSchedule": "10 monthly installments"`))
	loanID := loan.Transaction.LoanID
	require.True(t, strings.HasPrefix(loanID, "LOAN-"))
	assert.Equal(t, "Active", loan.Transaction.Status)

	activeLoans := func() []wireTx {
		rec := ts.do(t, http.MethodGet, "/api/staff/"+string(staff.ID)+"/loans/active", "")
		require.Equal(t, http.StatusOK, rec.Code)
		return decode[[]wireTx](t, rec)
	}
	require.Len(t, activeLoans(), 1)

	// WHEN: A partial settlement is paid
	ts.createTx(t, txBody(staff.ID,
		`"date": "2024-02-15", "amount": 6000, "type": "Deposit", "subType": "Loan Settlement", "linkedLoanId": "`+loanID+`"`))

	// THEN: The loan is still open with 4,000 outstanding
	require.Len(t, activeLoans(), 1)
	profile := decode[ProfileDTO](t, ts.do(t, http.MethodGet, "/api/staff/"+string(staff.ID)+"/profile", ""))
	assert.Equal(t, 4000.0, profile.Loans.Outstanding)
	assert.Equal(t, 1, profile.Loans.ActiveLoanCount)

	// WHEN: The remainder is paid into the bank
	ts.createTx(t, txBody(staff.ID,
		`"date": "2024-03-15", "amount": 4000, "type": "Deposit", "subType": "Loan Settlement",
		 "linkedLoanId": "`+loanID+`", "paymentMethod": "Bank Deposit"`))

	// THEN: The loan is settled and no longer offered for settlement
	assert.Empty(t, activeLoans())
	rec := ts.do(t, http.MethodGet, "/api/transactions/"+loan.Transaction.ReceiptID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Settled", decode[wireTx](t, rec).Status)

	profile = decode[ProfileDTO](t, ts.do(t, http.MethodGet, "/api/staff/"+string(staff.ID)+"/profile", ""))
	assert.Zero(t, profile.Loans.Outstanding)
	assert.Zero(t, profile.Loans.ActiveLoanCount)
	require.NotNil(t, profile.Loans.LastPaymentDate)
	assert.Equal(t, "2024-03-15", *profile.Loans.LastPaymentDate)
	assert.Len(t, profile.History.Loans, 3)

	summary := decode[FinancialSummaryDTO](t, ts.do(t, http.MethodGet, "/api/reports/summary", ""))
	assert.Equal(t, 10000.0, summary.TotalLoanDisbursed)
	assert.Equal(t, 10000.0, summary.TotalLoanRepayments)
	assert.Equal(t, -4000.0, summary.CashBalance)
	assert.Equal(t, 4000.0, summary.BankBalance)
	assert.Zero(t, summary.TotalSchemeFunds)
	assert.Equal(t, "LKR", summary.Currency)
}

func TestGetProfile_Membership(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.createStaff(t, "Nimal Perera")

	ts.createTx(t, txBody(staff.ID, `"date": "2024-04-10", "amount": 100, "type": "Deposit", "subType": "Membership"`))

	profile := decode[ProfileDTO](t, ts.do(t, http.MethodGet, "/api/staff/"+string(staff.ID)+"/profile", ""))
	assert.Equal(t, ledger.MembershipActive, profile.Membership.Status)
	require.NotNil(t, profile.Membership.NextDueDate)
	assert.Equal(t, "2024-05-10", *profile.Membership.NextDueDate)
	assert.Nil(t, profile.Savings.LastDepositDate)
}

func TestGetReceipt_PDF(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.createStaff(t, "Nimal Perera")
	resp := ts.createTx(t, txBody(staff.ID, `"date": "2024-04-10", "amount": 250.75, "type": "Deposit", "subType": "Donation"`))

	rec := ts.do(t, http.MethodGet, resp.Receipt.URL, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), resp.Receipt.Filename)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestGetTransaction_NotFound(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/transactions/RCPT-missing", "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/transactions/RCPT-missing/receipt", "").Code)
}

// =============================================================================
// REPORTS
// =============================================================================

func seedReport(t *testing.T, ts *testServer) (ledger.Staff, ledger.Staff) {
	t.Helper()
	a := ts.createStaff(t, "Nimal Perera")
	b := ts.createStaff(t, "Fathima Rizna")
	ts.createTx(t, txBody(a.ID, `"date": "2023-12-20", "amount": 1000, "type": "Deposit", "subType": "Saving", "savingType": "Normal Deposit"`))
	ts.createTx(t, txBody(b.ID, `"date": "2024-01-05", "amount": 500, "type": "Deposit", "subType": "Donation"`))
	ts.createTx(t, txBody(a.ID, `"date": "2024-01-31", "amount": 5000, "type": "Withdrawal", "subType": "Give Loan", "paymentMethod": "Cheque"`))
	ts.createTx(t, txBody(b.ID, `"date": "2024-03-01", "amount": 2000, "type": "Deposit", "subType": "Saving", "savingType": "Fix Deposit", "paymentMethod": "Bank Deposit"`))
	return a, b
}

func TestListTransactions_Filter(t *testing.T) {
	ts := newTestServer(t)
	a, _ := seedReport(t, ts)

	cases := []struct {
		query string
		want  int
	}{
		{"", 4},
		{"?start_date=2024-01-01&end_date=2024-01-31", 2},
		{"?staff_id=" + string(a.ID), 2},
		{"?type=Withdrawal", 1},
		{"?sub_type=Saving", 2},
		{"?sub_type=Saving&staff_id=" + string(a.ID), 1},
		{"?start_date=2025-01-01", 0},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/transactions"+tc.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Len(t, decode[[]wireTx](t, rec), tc.want)
		})
	}
}

func TestListTransactions_InvalidFilter(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/transactions?start_date=yesterday", "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/transactions?type=Transfer", "").Code)
}

func TestGetTrend_Chronological(t *testing.T) {
	ts := newTestServer(t)
	seedReport(t, ts)

	rec := ts.do(t, http.MethodGet, "/api/reports/trend", "")

	require.Equal(t, http.StatusOK, rec.Code)
	points := decode[[]TrendPointDTO](t, rec)
	require.Len(t, points, 3)
	assert.Equal(t, "Dec 23", points[0].Name)
	assert.Equal(t, 1000.0, points[0].Savings)
	assert.Equal(t, "Jan 24", points[1].Name)
	assert.Equal(t, 5000.0, points[1].Loans)
	assert.Equal(t, "Mar 24", points[2].Name)
	assert.Equal(t, 2000.0, points[2].Savings)
}

func TestExportCSV(t *testing.T) {
	ts := newTestServer(t)
	a, _ := seedReport(t, ts)

	rec := ts.do(t, http.MethodGet, "/api/reports/transactions.csv?staff_id="+string(a.ID), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), report.CSVFilename)

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.CSVHeader("LKR"), rows[0])
	assert.Equal(t, "Nimal Perera", rows[1][2])
	assert.Equal(t, "N/A", rows[1][8])
	assert.Equal(t, "Give Loan", rows[2][5])
	assert.Equal(t, "Active", rows[2][8])
}

func TestExportCSV_OffsetDateMatchesRangeAndPrintedDay(t *testing.T) {
	// GIVEN: A donation dated late evening at UTC-5, already the next day in UTC
	ts := newTestServer(t)
	a := ts.createStaff(t, "Nimal Perera")
	ts.createTx(t, txBody(a.ID, `"date": "2024-06-15T23:30:00-05:00", "amount": 250, "type": "Deposit", "subType": "Donation"`))

	// WHEN: Exporting the single day the row is printed under
	rec := ts.do(t, http.MethodGet, "/api/reports/transactions.csv?start_date=2024-06-16&end_date=2024-06-16", "")

	// THEN: The row is in the range and shows that same day
	require.Equal(t, http.StatusOK, rec.Code)
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-06-16", rows[1][1])

	rec = ts.do(t, http.MethodGet, "/api/reports/transactions.csv?end_date=2024-06-15", "")
	rows, err = csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGetWords(t *testing.T) {
	ts := newTestServer(t)

	cases := map[string]string{
		"1500":   "Rupees One Thousand Only",
		"25.50":  "Rupees Twenty Five and Fifty Cents Only",
		"banana": "Invalid Number",
	}
	for amount, want := range cases {
		rec := ts.do(t, http.MethodGet, "/api/words?amount="+amount, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, decode[map[string]string](t, rec)["words"], amount)
	}
}

// =============================================================================
// STATE
// =============================================================================

func TestExportImport_RoundTrip(t *testing.T) {
	// GIVEN: A populated ledger
	src := newTestServer(t)
	seedReport(t, src)

	// WHEN: Exporting it and importing the document into another ledger
	exported := src.do(t, http.MethodGet, "/api/state/export", "")
	require.Equal(t, http.StatusOK, exported.Code)
	assert.Contains(t, exported.Header().Get("Content-Disposition"), "btels_backup_2024-06-30.json")

	dst := newTestServer(t)
	dst.createStaff(t, "Someone Replaced")
	rec := dst.do(t, http.MethodPost, "/api/state/import?confirm=true", exported.Body.String())

	// THEN: The target holds exactly the source data
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, src.h.Engine.Snapshot().Staff, dst.h.Engine.Snapshot().Staff)
	assert.Len(t, dst.h.Engine.Transactions(), 4)
	assert.Empty(t, dst.h.Engine.ListStaff("Replaced"))
}

func TestImportState_RequiresConfirmation(t *testing.T) {
	ts := newTestServer(t)
	ts.createStaff(t, "Nimal Perera")

	rec := ts.do(t, http.MethodPost, "/api/state/import", `{"staff": [], "transactions": []}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "confirmation_required", decode[ErrorResponse](t, rec).Code)
	assert.Len(t, ts.h.Engine.ListStaff(""), 1)
}

func TestImportState_Malformed(t *testing.T) {
	ts := newTestServer(t)
	ts.createStaff(t, "Nimal Perera")

	for _, doc := range []string{`not json`, `{"staff": []}`, `{"transactions": []}`} {
		rec := ts.do(t, http.MethodPost, "/api/state/import?confirm=true", doc)
		assert.Equal(t, http.StatusBadRequest, rec.Code, doc)
		assert.Equal(t, "malformed_state", decode[ErrorResponse](t, rec).Code, doc)
	}
	assert.Len(t, ts.h.Engine.ListStaff(""), 1)
}

// =============================================================================
// ROUTER
// =============================================================================

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	ts.createStaff(t, "Nimal Perera")

	rec := ts.do(t, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 1.0, body["staff"])
}

func TestUnknownAPIRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[ErrorResponse](t, rec).Code)
}

func TestRootServesLandingPage(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/staff")
}

func TestCORS_AllowedOrigin(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/staff", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
