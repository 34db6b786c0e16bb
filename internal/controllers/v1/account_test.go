package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/condofin/backend/internal/controllers/v1"
	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	"github.com/condofin/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getAccount(t *testing.T, url string) v1.Account {
	r := test.Request(t, http.MethodGet, url, "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.Response[v1.Account]
	test.DecodeResponse(t, &r, &response)

	return *response.Data
}

func (suite *TestSuiteStandard) TestAccountsCreate() {
	c := createTestCondominium(suite.T(), v1.CondominiumEditable{})

	tests := []struct {
		name     string
		editable v1.AccountEditable
		status   int
	}{
		{"Default type", v1.AccountEditable{CondominiumID: c.Data.ID, Name: "Operating"}, http.StatusCreated},
		{"Petty cash", v1.AccountEditable{CondominiumID: c.Data.ID, Name: "Cash box", Type: models.AccountPettyCash}, http.StatusCreated},
		{"Duplicate name", v1.AccountEditable{CondominiumID: c.Data.ID, Name: "Operating"}, http.StatusBadRequest},
		{"Invalid type", v1.AccountEditable{CondominiumID: c.Data.ID, Name: "Crypto", Type: "wallet"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			a := createTestAccount(t, tt.editable, tt.status)
			if tt.status == http.StatusCreated {
				assert.NotEmpty(t, a.Data.Type)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsBalance() {
	a := createTestAccount(suite.T(), v1.AccountEditable{OpeningBalance: decimal.NewFromFloat(1000)})
	assert.True(suite.T(), decimal.NewFromFloat(1000).Equal(a.Data.CurrentBalance))

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID: a.Data.ID,
		Kind:      models.KindPayment,
		Amount:    decimal.NewFromFloat(250.5),
		Date:      types.NewDate(2024, 3, 10),
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID:   a.Data.ID,
		Kind:        models.KindEgress,
		Amount:      decimal.NewFromFloat(100.25),
		Date:        types.NewDate(2024, 3, 20),
		Beneficiary: "Elevadores C.A.",
	})

	adjustment := createTestTransaction(suite.T(), v1.TransactionEditable{
		AccountID: a.Data.ID,
		Kind:      models.KindAdjustment,
		Direction: models.DirectionOut,
		Amount:    decimal.NewFromFloat(0.25),
		Date:      types.NewDate(2024, 3, 31),
	})
	assert.Equal(suite.T(), models.DirectionOut, adjustment.Data.Direction)

	account := getAccount(suite.T(), a.Data.Links.Self)
	assert.True(suite.T(), decimal.NewFromFloat(1150).Equal(account.CurrentBalance), account.CurrentBalance.String())

	tests := []struct {
		date    string
		balance float64
	}{
		{"2024-03-09", 1000},
		{"2024-03-10", 1250.5},
		{"2024-03-20", 1150.25},
		{"2024-03-31", 1150},
	}

	for _, tt := range tests {
		suite.T().Run(tt.date, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("%s?date=%s", a.Data.Links.Balance, tt.date), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.Response[v1.AccountBalance]
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.date, response.Data.Date.String())
			assert.True(t, decimal.NewFromFloat(tt.balance).Equal(response.Data.Balance), "got %s", response.Data.Balance)
		})
	}

	suite.T().Run("Cancellation reverts the balance", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, adjustment.Data.Links.Cancel, v1.CancelRequest{Reason: "Bank fee refunded"})
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		account := getAccount(t, a.Data.Links.Self)
		assert.True(t, decimal.NewFromFloat(1150.25).Equal(account.CurrentBalance), account.CurrentBalance.String())
	})

	suite.T().Run("Invalid date", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, fmt.Sprintf("%s?date=yesterday", a.Data.Links.Balance), "")
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})
}

func (suite *TestSuiteStandard) TestAccountsUpdateOpeningBalance() {
	a := createTestAccount(suite.T(), v1.AccountEditable{OpeningBalance: decimal.NewFromFloat(500)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: a.Data.ID, Amount: decimal.NewFromFloat(20)})

	r := test.Request(suite.T(), http.MethodPatch, a.Data.Links.Self, map[string]any{"openingBalance": "100"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.Account]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), decimal.NewFromFloat(120).Equal(response.Data.CurrentBalance), response.Data.CurrentBalance.String())
}

func (suite *TestSuiteStandard) TestAccountsArchived() {
	a := createTestAccount(suite.T(), v1.AccountEditable{})

	r := test.Request(suite.T(), http.MethodPatch, a.Data.Links.Self, map[string]any{"archived": true})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: a.Data.ID}, http.StatusBadRequest)

	var response v1.ListResponse[v1.Account]
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts?condominium=%s&archived=true", a.Data.CondominiumID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.True(suite.T(), response.Data[0].Archived)
}

func (suite *TestSuiteStandard) TestAccountsDeleteInUse() {
	a := createTestAccount(suite.T(), v1.AccountEditable{})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{AccountID: a.Data.ID})

	r := test.Request(suite.T(), http.MethodDelete, a.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	unused := createTestAccount(suite.T(), v1.AccountEditable{})
	r = test.Request(suite.T(), http.MethodDelete, unused.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}
