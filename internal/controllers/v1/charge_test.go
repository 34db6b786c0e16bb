package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/condofin/backend/internal/controllers/v1"
	"github.com/condofin/backend/internal/distribution"
	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestChargesDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/charges", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}

func (suite *TestSuiteStandard) TestChargesGet() {
	editable, units := planEditable(suite.T(), 2, distribution.ByAliquot)
	editable.InstallmentCount = 4
	budget := createTestBudget(suite.T(), v1.BudgetEditable{PlanEditable: editable})
	_ = approve[v1.Budget](suite.T(), budget.Data.Links.Approve, http.StatusOK)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 8},
		{"Source type", "sourceType=budget", 8},
		{"Other source type", "sourceType=paymentAgreement", 0},
		{"Unit", fmt.Sprintf("unit=%s", units[0]), 4},
		{"From date", "fromDate=2024-03-01", 4},
		{"Until date", "untilDate=2024-01-05", 2},
		{"Range", "fromDate=2024-02-01&untilDate=2024-02-28", 2},
		{"Status", "status=cancelled", 0},
		{"Limit", "limit=3", 3},
		{"Offset", "offset=6", 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := getCharges(t, tt.query)
			assert.Len(t, response.Data, tt.len)
		})
	}

	suite.T().Run("Invalid date", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, "http://example.com/v1/charges?fromDate=March", "")
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("Detail", func(t *testing.T) {
		charge := getCharges(t, "limit=1").Data[0]

		r := test.Request(t, http.MethodGet, charge.Links.Self, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Charge]
		test.DecodeResponse(t, &r, &response)
		assert.Equal(t, charge.ID, response.Data.ID)
		assert.Equal(t, models.ChargePending, response.Data.Status)
		assert.Equal(t, "http://example.com/v1/units/"+charge.UnitID.String(), response.Data.Links.Unit)
	})

	suite.T().Run("Cancel needs a reason", func(t *testing.T) {
		charge := getCharges(t, "limit=1").Data[0]

		r := test.Request(t, http.MethodPost, charge.Links.Cancel, v1.CancelRequest{Reason: "  "})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

		cancelled := getCharges(t, "status=cancelled")
		require.Len(t, cancelled.Data, 0)
	})
}
