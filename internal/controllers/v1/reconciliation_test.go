package v1_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	v1 "github.com/condofin/backend/internal/controllers/v1"
	"github.com/condofin/backend/internal/events"
	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	"github.com/condofin/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getReconciliation(t *testing.T, url string) v1.Reconciliation {
	r := test.Request(t, http.MethodGet, url, "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.Response[v1.Reconciliation]
	test.DecodeResponse(t, &r, &response)

	return *response.Data
}

func (suite *TestSuiteStandard) TestReconciliationsDBClosed() {
	a := createTestAccount(suite.T(), v1.AccountEditable{})
	suite.CloseDB()

	createTestReconciliation(suite.T(), v1.ReconciliationEditable{AccountID: a.Data.ID}, http.StatusInternalServerError)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reconciliations", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}

func (suite *TestSuiteStandard) TestReconciliationsCreate() {
	a := createTestAccount(suite.T(), v1.AccountEditable{OpeningBalance: decimal.NewFromFloat(1000)})

	reconciliation := createTestReconciliation(suite.T(), v1.ReconciliationEditable{
		AccountID:          a.Data.ID,
		CutoffDate:         types.NewDate(2024, 3, 31),
		ClosingBalanceBank: decimal.NewFromFloat(1150),
	})

	assert.Equal(suite.T(), models.ReconciliationDraft, reconciliation.Data.Status)
	assert.Equal(suite.T(), types.Epoch.String(), reconciliation.Data.PeriodStart.String())
	assert.Equal(suite.T(), "2024-03-31", reconciliation.Data.PeriodEnd.String())
	assert.True(suite.T(), decimal.NewFromFloat(1000).Equal(reconciliation.Data.OpeningBalance))
	assert.True(suite.T(), decimal.NewFromFloat(150).Equal(reconciliation.Data.Difference))
	assert.True(suite.T(), reconciliation.Data.Pending)
	assert.Equal(suite.T(), "anonymous", reconciliation.Data.CreatedBy)

	suite.T().Run("Duplicate draft", func(t *testing.T) {
		createTestReconciliation(t, v1.ReconciliationEditable{AccountID: a.Data.ID, CutoffDate: types.NewDate(2024, 3, 31)}, http.StatusBadRequest)
	})

	suite.T().Run("Unknown account", func(t *testing.T) {
		createTestReconciliation(t, v1.ReconciliationEditable{AccountID: uuid.New()}, http.StatusNotFound)
	})

	suite.T().Run("Update bank balance", func(t *testing.T) {
		r := test.Request(t, http.MethodPatch, reconciliation.Data.Links.Self, map[string]any{"closingBalanceBank": "1000", "detail": "Statement March"})
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Reconciliation]
		test.DecodeResponse(t, &r, &response)
		assert.True(t, response.Data.Difference.IsZero(), response.Data.Difference.String())
		assert.False(t, response.Data.Pending)
		assert.Equal(t, "Statement March", response.Data.Detail)
	})

	suite.T().Run("Filter", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/reconciliations?account=%s&status=draft&cutoffDate=2024-03-31", a.Data.ID), "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.ListResponse[v1.Reconciliation]
		test.DecodeResponse(t, &r, &response)
		assert.Len(t, response.Data, 1)
	})
}

func (suite *TestSuiteStandard) TestReconciliationsFlow() {
	a := createTestAccount(suite.T(), v1.AccountEditable{OpeningBalance: decimal.NewFromFloat(1000)})
	checkbook := createTestCheckbook(suite.T(), v1.CheckbookEditable{AccountID: a.Data.ID})

	payment := createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: a.Data.ID, Amount: decimal.NewFromFloat(200), Date: types.NewDate(2024, 3, 5), ReferenceNumber: "TRX-1"})
	egress := createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: a.Data.ID, Kind: models.KindEgress, Amount: decimal.NewFromFloat(50), Date: types.NewDate(2024, 3, 10)})
	checkEgress := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:   a.Data.ID,
		Kind:        models.KindEgress,
		Amount:      decimal.NewFromFloat(300),
		Date:        types.NewDate(2024, 3, 15),
		Beneficiary: "Elevadores C.A.",
		CheckbookID: &checkbook.Data.ID,
	})
	later := createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: a.Data.ID, Amount: decimal.NewFromFloat(99), Date: types.NewDate(2024, 4, 2)})

	reconciliation := createTestReconciliation(suite.T(), v1.ReconciliationEditable{
		AccountID:          a.Data.ID,
		CutoffDate:         types.NewDate(2024, 3, 31),
		ClosingBalanceBank: decimal.NewFromFloat(1150),
	})

	suite.T().Run("Candidates", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, reconciliation.Data.Links.Candidates, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Candidates]
		test.DecodeResponse(t, &r, &response)
		require.Len(t, response.Data.Payments, 1)
		require.Len(t, response.Data.Egresses, 2)
		assert.Equal(t, payment.Data.ID, response.Data.Payments[0].Transaction.ID)
		assert.False(t, response.Data.Payments[0].Selected)
		assert.Nil(t, response.Data.Egresses[0].CheckNumber)
		require.NotNil(t, response.Data.Egresses[1].CheckNumber)
		assert.Equal(t, int64(1001), *response.Data.Egresses[1].CheckNumber)

		r = test.Request(t, http.MethodGet, reconciliation.Data.Links.Candidates+"?reference=TRX-*", "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)
		test.DecodeResponse(t, &r, &response)
		assert.Len(t, response.Data.Payments, 1)
		assert.Len(t, response.Data.Egresses, 0)
	})

	suite.T().Run("Candidates with an invalid reference", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, reconciliation.Data.Links.Candidates+"?reference="+strings.Repeat("A", 101), "")
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("Transactions of other periods cannot be selected", func(t *testing.T) {
		r := test.Request(t, http.MethodPut, reconciliation.Data.Links.Items, v1.Selection{PaymentIDs: []uuid.UUID{later.Data.ID}})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		assert.Contains(t, r.Body.String(), models.ErrNotACandidate.Error())
	})

	suite.T().Run("Egresses are not payments", func(t *testing.T) {
		r := test.Request(t, http.MethodPut, reconciliation.Data.Links.Items, v1.Selection{PaymentIDs: []uuid.UUID{egress.Data.ID}})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("Uncashed checks do not count", func(t *testing.T) {
		r := test.Request(t, http.MethodPut, reconciliation.Data.Links.Items, v1.Selection{
			PaymentIDs: []uuid.UUID{payment.Data.ID},
			Egresses: []v1.EgressSelection{
				{EgressID: egress.Data.ID},
				{EgressID: checkEgress.Data.ID, CheckCashed: false},
			},
		})
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Reconciliation]
		test.DecodeResponse(t, &r, &response)
		assert.True(t, decimal.NewFromFloat(1150).Equal(response.Data.ClosingBalanceCalculated), response.Data.ClosingBalanceCalculated.String())
		assert.True(t, response.Data.Difference.IsZero())
	})

	suite.T().Run("Cashed checks count", func(t *testing.T) {
		r := test.Request(t, http.MethodPut, reconciliation.Data.Links.Items, v1.Selection{
			PaymentIDs: []uuid.UUID{payment.Data.ID},
			Egresses: []v1.EgressSelection{
				{EgressID: egress.Data.ID},
				{EgressID: checkEgress.Data.ID, CheckCashed: true},
			},
		})
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Reconciliation]
		test.DecodeResponse(t, &r, &response)
		assert.True(t, decimal.NewFromFloat(850).Equal(response.Data.ClosingBalanceCalculated), response.Data.ClosingBalanceCalculated.String())
		assert.True(t, decimal.NewFromFloat(300).Equal(response.Data.Difference))
		assert.True(t, response.Data.Pending)
	})

	suite.T().Run("Items", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, reconciliation.Data.Links.Items, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.ListResponse[v1.ReconciliationItem]
		test.DecodeResponse(t, &r, &response)
		require.Len(t, response.Data, 3)
		assert.Equal(t, &payment.Data.ID, response.Data[0].PaymentID)
		assert.True(t, response.Data[2].IsCheckCashed)
		assert.Equal(t, checkEgress.Data.CheckID, response.Data[2].CheckID)
	})

	suite.T().Run("Close requires finalizing", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, reconciliation.Data.Links.Close, "")
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("Finalize with difference", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, reconciliation.Data.Links.Finalize, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Reconciliation]
		test.DecodeResponse(t, &r, &response)
		assert.Equal(t, models.ReconciliationReconciled, response.Data.Status)
		assert.Equal(t, "anonymous", response.Data.ReconciledBy)
		assert.NotNil(t, response.Data.ReconciledAt)
		assert.Contains(t, suite.eventNames(), events.ReconciliationFinalized)

		r = test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/checks/%s", checkEgress.Data.CheckID), "")
		var check v1.Response[v1.Check]
		test.DecodeResponse(t, &r, &check)
		assert.True(t, check.Data.Cashed)
		assert.NotNil(t, check.Data.CashedAt)
	})

	suite.T().Run("Finalized reconciliations are locked", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, reconciliation.Data.Links.Finalize, "")
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

		r = test.Request(t, http.MethodPut, reconciliation.Data.Links.Items, v1.Selection{})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

		r = test.Request(t, http.MethodPatch, reconciliation.Data.Links.Self, map[string]any{"detail": "Changed"})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("Reconciled transactions cannot be cancelled", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, payment.Data.Links.Cancel, v1.CancelRequest{Reason: "Bounced"})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		assert.Contains(t, r.Body.String(), models.ErrTransactionReconciled.Error())
	})

	suite.T().Run("Close", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, reconciliation.Data.Links.Close, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		closed := getReconciliation(t, reconciliation.Data.Links.Self)
		assert.Equal(t, models.ReconciliationClosed, closed.Status)
		assert.Equal(t, "anonymous", closed.ClosedBy)
		assert.Contains(t, suite.eventNames(), events.ReconciliationClosed)
	})

	suite.T().Run("Next period", func(t *testing.T) {
		createTestReconciliation(t, v1.ReconciliationEditable{AccountID: a.Data.ID, CutoffDate: types.NewDate(2024, 3, 20)}, http.StatusBadRequest)

		next := createTestReconciliation(t, v1.ReconciliationEditable{
			AccountID:          a.Data.ID,
			CutoffDate:         types.NewDate(2024, 4, 30),
			ClosingBalanceBank: decimal.NewFromFloat(949),
		})
		assert.Equal(t, "2024-04-01", next.Data.PeriodStart.String())
		assert.True(t, decimal.NewFromFloat(850).Equal(next.Data.OpeningBalance), next.Data.OpeningBalance.String())

		r := test.Request(t, http.MethodGet, next.Data.Links.Candidates, "")
		var response v1.Response[v1.Candidates]
		test.DecodeResponse(t, &r, &response)
		require.Len(t, response.Data.Payments, 1)
		assert.Equal(t, later.Data.ID, response.Data.Payments[0].Transaction.ID)
	})
}

func (suite *TestSuiteStandard) TestReconciliationsDelete() {
	reconciliation := createTestReconciliation(suite.T(), v1.ReconciliationEditable{})

	r := test.Request(suite.T(), http.MethodDelete, reconciliation.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, reconciliation.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
