/*
scenarios_test.go - Tests for demo scenario loading

Tests that every scenario loads through the engine without error and
leaves the ledger in the state its description promises.
*/
package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btels/scheme-ledger/ledger"
)

func TestListScenarios(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/scenarios", "")

	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]ScenarioDTO](t, rec)
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"empty", "loan-lifecycle", "school-year"}, ids)
}

func TestLoadScenario_AllLoad(t *testing.T) {
	for _, s := range scenarios {
		t.Run(s.ID, func(t *testing.T) {
			ts := newTestServer(t)

			rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "`+s.ID+`"}`)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			current := decode[ScenarioDTO](t, ts.do(t, http.MethodGet, "/api/scenarios/current", ""))
			assert.Equal(t, s.ID, current.ID)
		})
	}
}

func TestLoadScenario_LoanLifecycle(t *testing.T) {
	// GIVEN: Existing data that the scenario must discard
	ts := newTestServer(t)
	ts.createStaff(t, "To Be Discarded")

	// WHEN: Loading the loan lifecycle scenario
	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "loan-lifecycle"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: One member whose only loan is fully settled
	staff := ts.h.Engine.ListStaff("")
	require.Len(t, staff, 1)
	assert.Empty(t, ts.h.Engine.ActiveLoansFor(staff[0].ID))

	txs := ts.h.Engine.Transactions()
	require.Len(t, txs, 3)
	loan, ok := txs[0].Loan()
	require.True(t, ok)
	assert.Equal(t, ledger.LoanSettled, loan.Status)

	summary := ts.h.Engine.FinancialSummary()
	assert.Equal(t, "10000", summary.LoansDisbursed.String())
	assert.Equal(t, "10000", summary.LoanRepayments.String())
}

func TestLoadScenario_SchoolYear(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "school-year"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.Equal(t, 5.0, body["staff"])

	// One loan repaid, one still open with 15,000 outstanding.
	open := 0
	for _, s := range ts.h.Engine.ListStaff("") {
		loans := ts.h.Engine.ActiveLoansFor(s.ID)
		open += len(loans)
		if len(loans) == 1 {
			p, err := ts.h.Engine.Profile(s.ID)
			require.NoError(t, err)
			assert.Equal(t, "15000", p.Loans.Outstanding.String())
		}
	}
	assert.Equal(t, 1, open)

	trend := ts.h.Engine.MonthlyTrend()
	require.Len(t, trend, 6)
	assert.Equal(t, "Jan 24", trend[0].Label)
	assert.Equal(t, "Jun 24", trend[5].Label)

	others := ts.h.Engine.ListStaff("Hana")
	require.Len(t, others, 1)
	assert.Equal(t, "Librarian", others[0].Title())
}

func TestLoadScenario_FailureLeavesLedgerUntouched(t *testing.T) {
	// GIVEN: Existing data and a scenario that fails after registering a member
	ts := newTestServer(t)
	kept := ts.createStaff(t, "Kept Member")
	before, _, err := ts.blobs.Get(context.Background(), ledger.DefaultStateKey)
	require.NoError(t, err)

	scenarioLoaders["half-built"] = func(ctx context.Context, eng *ledger.Engine) error {
		b := &scenarioBuilder{ctx: ctx, eng: eng}
		b.staff("Partial Member", ledger.Teacher, "", day(2020, time.January, 1))
		b.tx("ST-ghost", day(2024, time.January, 5), 100, ledger.Donation{PaymentMethod: ledger.Cash})
		return b.err
	}
	t.Cleanup(func() { delete(scenarioLoaders, "half-built") })

	// WHEN: Loading it
	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "half-built"}`)

	// THEN: The request fails and neither the live ledger nor the store changed
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	staff := ts.h.Engine.ListStaff("")
	require.Len(t, staff, 1)
	assert.Equal(t, kept.ID, staff[0].ID)

	after, _, err := ts.blobs.Get(context.Background(), ledger.DefaultStateKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "null\n", ts.do(t, http.MethodGet, "/api/scenarios/current", "").Body.String())
}

func TestLoadScenario_Unknown(t *testing.T) {
	ts := newTestServer(t)
	ts.createStaff(t, "Nimal Perera")

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "nope"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, ts.h.Engine.ListStaff(""), 1)
}

func TestLoadScenario_MissingID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/scenarios/load", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetDatabase(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "school-year"}`).Code)

	// Without confirmation nothing happens.
	rec := ts.do(t, http.MethodPost, "/api/scenarios/reset", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotEmpty(t, ts.h.Engine.ListStaff(""))

	rec = ts.do(t, http.MethodPost, "/api/scenarios/reset?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, ts.h.Engine.ListStaff(""))
	assert.Empty(t, ts.h.Engine.Transactions())
	assert.Equal(t, "null\n", ts.do(t, http.MethodGet, "/api/scenarios/current", "").Body.String())
}
