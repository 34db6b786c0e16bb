package v1_test

import (
	"fmt"
	"net/http"
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

func (suite *TestSuiteStandard) TestVouchersDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/vouchers", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/replenishments", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}

func (suite *TestSuiteStandard) TestVouchersCreate() {
	pettyCash := createTestAccount(suite.T(), v1.AccountEditable{Type: models.AccountPettyCash, OpeningBalance: decimal.NewFromInt(200)})

	voucher := createTestVoucher(suite.T(), v1.VoucherEditable{
		AccountID:   pettyCash.Data.ID,
		Date:        types.NewDate(2024, 2, 14),
		Amount:      decimal.NewFromFloat(12.4),
		Beneficiary: "Hardware store",
		Description: "Light bulbs for the lobby",
	})
	assert.Equal(suite.T(), models.VoucherPending, voucher.Data.Status)
	assert.Equal(suite.T(), "anonymous", voucher.Data.CreatedBy)
	require.NotNil(suite.T(), voucher.Data.TransactionID)

	suite.T().Run("Egress", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, voucher.Data.Links.Transaction, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Transaction]
		test.DecodeResponse(t, &r, &response)
		assert.Equal(t, models.KindEgress, response.Data.Kind)
		assert.Equal(t, models.DirectionOut, response.Data.Direction)
		assert.Equal(t, "Light bulbs for the lobby", response.Data.Note)

		account := getAccount(t, pettyCash.Data.Links.Self)
		assert.True(t, decimal.NewFromFloat(187.6).Equal(account.CurrentBalance), account.CurrentBalance.String())
	})

	suite.T().Run("Bank account", func(t *testing.T) {
		bank := createTestAccount(t, v1.AccountEditable{})
		createTestVoucher(t, v1.VoucherEditable{AccountID: bank.Data.ID}, http.StatusBadRequest)
	})

	suite.T().Run("Empty description", func(t *testing.T) {
		createTest[v1.VoucherEditable, v1.Voucher](t, "vouchers", v1.VoucherEditable{
			AccountID:   pettyCash.Data.ID,
			Amount:      decimal.NewFromInt(1),
			Description: "   ",
		}, http.StatusBadRequest)
	})

	suite.T().Run("Unknown account", func(t *testing.T) {
		createTestVoucher(t, v1.VoucherEditable{AccountID: uuid.New()}, http.StatusNotFound, http.StatusBadRequest)
	})

	suite.T().Run("Update", func(t *testing.T) {
		r := test.Request(t, http.MethodPatch, voucher.Data.Links.Self, map[string]any{"beneficiary": "Ferretería El Clavo"})
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Voucher]
		test.DecodeResponse(t, &r, &response)
		assert.Equal(t, "Ferretería El Clavo", response.Data.Beneficiary)
		assert.Equal(t, "Light bulbs for the lobby", response.Data.Description)
		assert.True(t, decimal.NewFromFloat(12.4).Equal(response.Data.Amount))
	})

	suite.T().Run("Filter", func(t *testing.T) {
		_ = createTestVoucher(t, v1.VoucherEditable{AccountID: pettyCash.Data.ID, Date: types.NewDate(2024, 3, 1)})

		var response v1.ListResponse[v1.Voucher]
		r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/vouchers?account=%s&untilDate=2024-02-29", pettyCash.Data.ID), "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)
		test.DecodeResponse(t, &r, &response)

		require.Len(t, response.Data, 1)
		assert.Equal(t, voucher.Data.ID, response.Data[0].ID)
	})
}

func (suite *TestSuiteStandard) TestVouchersCancel() {
	voucher := createTestVoucher(suite.T(), v1.VoucherEditable{})

	r := test.Request(suite.T(), http.MethodPost, voucher.Data.Links.Cancel, v1.CancelRequest{})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPost, voucher.Data.Links.Cancel, v1.CancelRequest{Reason: "Duplicate receipt"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response[v1.Voucher]
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.VoucherCancelled, response.Data.Status)
	assert.Equal(suite.T(), "Duplicate receipt", response.Data.CancelReason)

	r = test.Request(suite.T(), http.MethodGet, voucher.Data.Links.Transaction, "")
	var egress v1.Response[v1.Transaction]
	test.DecodeResponse(suite.T(), &r, &egress)
	assert.Equal(suite.T(), models.TransactionCancelled, egress.Data.Status)

	account := getAccount(suite.T(), voucher.Data.Links.Account)
	assert.True(suite.T(), account.CurrentBalance.IsZero(), account.CurrentBalance.String())

	r = test.Request(suite.T(), http.MethodPost, voucher.Data.Links.Cancel, v1.CancelRequest{Reason: "Again"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestReplenishments() {
	pettyCash := createTestAccount(suite.T(), v1.AccountEditable{Type: models.AccountPettyCash, OpeningBalance: decimal.NewFromInt(100)})
	bank := createTestAccount(suite.T(), v1.AccountEditable{CondominiumID: pettyCash.Data.CondominiumID, OpeningBalance: decimal.NewFromInt(5000)})

	first := createTestVoucher(suite.T(), v1.VoucherEditable{AccountID: pettyCash.Data.ID, Date: types.NewDate(2024, 2, 1), Amount: decimal.NewFromFloat(20.5)})
	_ = createTestVoucher(suite.T(), v1.VoucherEditable{AccountID: pettyCash.Data.ID, Date: types.NewDate(2024, 2, 10), Amount: decimal.NewFromFloat(15)})
	late := createTestVoucher(suite.T(), v1.VoucherEditable{AccountID: pettyCash.Data.ID, Date: types.NewDate(2024, 3, 2), Amount: decimal.NewFromFloat(7)})
	cancelled := createTestVoucher(suite.T(), v1.VoucherEditable{AccountID: pettyCash.Data.ID, Date: types.NewDate(2024, 2, 5), Amount: decimal.NewFromFloat(99)})

	r := test.Request(suite.T(), http.MethodPost, cancelled.Data.Links.Cancel, v1.CancelRequest{Reason: "Wrong amount"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	suite.T().Run("Source must be a bank account", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, "http://example.com/v1/replenishments", v1.ReplenishmentEditable{
			PettyCashAccountID: pettyCash.Data.ID,
			SourceAccountID:    pettyCash.Data.ID,
			Date:               types.NewDate(2024, 2, 29),
		})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("Target must be petty cash", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, "http://example.com/v1/replenishments", v1.ReplenishmentEditable{
			PettyCashAccountID: bank.Data.ID,
			SourceAccountID:    bank.Data.ID,
			Date:               types.NewDate(2024, 2, 29),
		})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("Nothing to replenish", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, "http://example.com/v1/replenishments", v1.ReplenishmentEditable{
			PettyCashAccountID: pettyCash.Data.ID,
			SourceAccountID:    bank.Data.ID,
			Date:               types.NewDate(2024, 1, 31),
		})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		assert.Contains(t, r.Body.String(), models.ErrNothingToReplenish.Error())
	})

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/replenishments", v1.ReplenishmentEditable{
		PettyCashAccountID: pettyCash.Data.ID,
		SourceAccountID:    bank.Data.ID,
		Date:               types.NewDate(2024, 2, 29),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.Response[v1.ReplenishmentResult]
	test.DecodeResponse(suite.T(), &r, &response)

	replenishment := response.Data.Replenishment
	assert.True(suite.T(), decimal.NewFromFloat(35.5).Equal(replenishment.Amount), replenishment.Amount.String())
	require.Len(suite.T(), response.Data.Vouchers, 2)
	assert.Equal(suite.T(), first.Data.ID, response.Data.Vouchers[0].ID)
	for _, v := range response.Data.Vouchers {
		assert.Equal(suite.T(), models.VoucherReplenished, v.Status)
		require.NotNil(suite.T(), v.ReplenishmentID)
		assert.Equal(suite.T(), replenishment.ID, *v.ReplenishmentID)
	}

	recorded := suite.events.Events()
	require.Len(suite.T(), recorded, 1)
	assert.Equal(suite.T(), events.PettyCashReplenished, recorded[0].Name)

	suite.T().Run("Balances", func(t *testing.T) {
		// 100 - 20.5 - 15 - 7 + 35.5, the cancelled voucher does not count
		account := getAccount(t, pettyCash.Data.Links.Self)
		assert.True(t, decimal.NewFromFloat(93).Equal(account.CurrentBalance), account.CurrentBalance.String())

		account = getAccount(t, bank.Data.Links.Self)
		assert.True(t, decimal.NewFromFloat(4964.5).Equal(account.CurrentBalance), account.CurrentBalance.String())
	})

	suite.T().Run("Transfer", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, replenishment.Links.Transactions, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var legs v1.ListResponse[v1.Transaction]
		test.DecodeResponse(t, &r, &legs)
		assert.Len(t, legs.Data, 2)
	})

	suite.T().Run("Vouchers link", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, replenishment.Links.Vouchers, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var vouchers v1.ListResponse[v1.Voucher]
		test.DecodeResponse(t, &r, &vouchers)
		assert.Len(t, vouchers.Data, 2)
	})

	suite.T().Run("Replenished vouchers cannot be cancelled", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, first.Data.Links.Cancel, v1.CancelRequest{Reason: "Too late"})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("List and detail", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/replenishments?pettyCashAccount=%s", pettyCash.Data.ID), "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var list v1.ListResponse[v1.Replenishment]
		test.DecodeResponse(t, &r, &list)
		require.Len(t, list.Data, 1)

		r = test.Request(t, http.MethodGet, list.Data[0].Links.Self, "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)
	})

	suite.T().Run("Later vouchers stay pending", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, late.Data.Links.Self, "")
		var response v1.Response[v1.Voucher]
		test.DecodeResponse(t, &r, &response)
		assert.Equal(t, models.VoucherPending, response.Data.Status)
		assert.Nil(t, response.Data.ReplenishmentID)
	})
}
