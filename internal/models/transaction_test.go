package models_test

import (
	"testing"
	"time"

	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTransactionDirectionFromKind() {
	account := suite.createTestAccount(models.Account{})

	payment := suite.createTestTransaction(models.Transaction{AccountID: account.ID, Kind: models.KindPayment, Amount: decimal.NewFromInt(10)})
	suite.Assert().Equal(models.DirectionIn, payment.Direction)
	suite.Assert().Equal(models.TransactionAvailable, payment.Status)
	suite.Assert().False(payment.Date.IsZero(), "Date must default to today")

	egress := suite.createTestTransaction(models.Transaction{AccountID: account.ID, Kind: models.KindEgress, Direction: models.DirectionIn, Amount: decimal.NewFromInt(10)})
	suite.Assert().Equal(models.DirectionOut, egress.Direction, "Egresses always subtract from the balance")
}

func (suite *TestSuiteStandard) TestTransactionValidation() {
	account := suite.createTestAccount(models.Account{})

	tests := []struct {
		name        string
		transaction models.Transaction
		checkbookID *uuid.UUID
		err         error
	}{
		{"Amount zero", models.Transaction{Kind: models.KindPayment}, nil, models.ErrAmountNotPositive},
		{"Amount negative", models.Transaction{Kind: models.KindPayment, Amount: decimal.NewFromInt(-5)}, nil, models.ErrAmountNotPositive},
		{"Kind invalid", models.Transaction{Kind: "gift", Amount: decimal.NewFromInt(5)}, nil, models.ErrTransactionKindInvalid},
		{"Adjustment without direction", models.Transaction{Kind: models.KindAdjustment, Amount: decimal.NewFromInt(5)}, nil, models.ErrTransactionDirectionInvalid},
		{"Transfer kind", models.Transaction{Kind: models.KindTransfer, Direction: models.DirectionIn, Amount: decimal.NewFromInt(5)}, nil, models.ErrTransferKindViaTransfers},
		{"Check for payment", models.Transaction{Kind: models.KindPayment, Amount: decimal.NewFromInt(5)}, &uuid.Nil, models.ErrCheckOnlyForEgress},
		{"Unknown unit", models.Transaction{Kind: models.KindPayment, Amount: decimal.NewFromInt(5), UnitID: &uuid.Nil}, nil, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			tt.transaction.AccountID = account.ID
			err := models.CreateTransaction(models.DB, &tt.transaction, tt.checkbookID)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionAmountRounded() {
	account := suite.createTestAccount(models.Account{})
	payment := suite.createTestTransaction(models.Transaction{AccountID: account.ID, Amount: decimal.RequireFromString("10.005")})

	suite.Assert().True(decimal.RequireFromString("10.01").Equal(payment.Amount), payment.Amount.String())
}

func (suite *TestSuiteStandard) TestTransfer() {
	source := suite.createTestAccount(models.Account{OpeningBalance: decimal.NewFromInt(500)})
	destination := suite.createTestAccount(models.Account{CondominiumID: source.CondominiumID, Type: models.AccountSavings})

	legs, err := models.CreateTransfer(models.DB, models.Transfer{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.NewFromInt(200),
		Date:                 types.NewDate(2024, time.June, 1),
	}, "tester@example.com")
	suite.Require().Nil(err)
	suite.Require().Len(legs, 2)

	suite.Assert().Equal(models.DirectionOut, legs[0].Direction)
	suite.Assert().Equal(source.ID, legs[0].AccountID)
	suite.Assert().Equal(models.DirectionIn, legs[1].Direction)
	suite.Assert().Equal(destination.ID, legs[1].AccountID)
	suite.Assert().Equal(*legs[0].TransferID, *legs[1].TransferID)

	suite.Require().Nil(models.DB.First(&source, source.ID).Error)
	suite.Require().Nil(models.DB.First(&destination, destination.ID).Error)
	suite.Assert().True(decimal.NewFromInt(300).Equal(source.CurrentBalance), source.CurrentBalance.String())
	suite.Assert().True(decimal.NewFromInt(200).Equal(destination.CurrentBalance), destination.CurrentBalance.String())

	// Cancelling one leg cancels both
	suite.Require().Nil(legs[1].Cancel(models.DB, "Wrong account", "tester@example.com"))
	suite.Assert().Equal(models.TransactionCancelled, legs[1].Status)

	var out models.Transaction
	suite.Require().Nil(models.DB.First(&out, legs[0].ID).Error)
	suite.Assert().Equal(models.TransactionCancelled, out.Status)

	suite.Require().Nil(models.DB.First(&source, source.ID).Error)
	suite.Assert().True(decimal.NewFromInt(500).Equal(source.CurrentBalance), source.CurrentBalance.String())
}

func (suite *TestSuiteStandard) TestTransferSameAccount() {
	account := suite.createTestAccount(models.Account{})

	_, err := models.CreateTransfer(models.DB, models.Transfer{
		SourceAccountID:      account.ID,
		DestinationAccountID: account.ID,
		Amount:               decimal.NewFromInt(1),
	}, "")
	suite.Assert().ErrorIs(err, models.ErrTransferSameAccount)
}

func (suite *TestSuiteStandard) TestTransactionCancel() {
	account := suite.createTestAccount(models.Account{})
	payment := suite.createTestTransaction(models.Transaction{AccountID: account.ID, Amount: decimal.NewFromInt(10)})

	suite.Assert().ErrorIs(payment.Cancel(models.DB, "  ", "tester@example.com"), models.ErrCancelReasonEmpty)

	suite.Require().Nil(payment.Cancel(models.DB, "Duplicate", "tester@example.com"))
	suite.Assert().Equal("Duplicate", payment.CancelReason)
	suite.Assert().Equal("tester@example.com", payment.CancelledBy)
	suite.Assert().NotNil(payment.CancelledAt)

	suite.Assert().ErrorIs(payment.Cancel(models.DB, "Again", "tester@example.com"), models.ErrTransactionCancelled)
}

func (suite *TestSuiteStandard) TestTransactionCancelReconciled() {
	account := suite.createTestAccount(models.Account{})
	payment := suite.createTestTransaction(models.Transaction{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(10),
		Date:      types.NewDate(2024, time.January, 3),
	})

	reconciliation := suite.createTestReconciliation(account.ID, types.NewDate(2024, time.January, 31), "10")
	suite.Require().Nil(reconciliation.SaveSelection(models.DB, []uuid.UUID{payment.ID}, nil))

	// Drafts do not lock transactions
	reconciled, err := payment.Reconciled(models.DB)
	suite.Require().Nil(err)
	suite.Assert().False(reconciled)

	suite.Require().Nil(reconciliation.Finalize(models.DB, "tester@example.com"))

	reconciled, err = payment.Reconciled(models.DB)
	suite.Require().Nil(err)
	suite.Assert().True(reconciled)

	suite.Assert().ErrorIs(payment.Cancel(models.DB, "Too late", "tester@example.com"), models.ErrTransactionReconciled)
}

func (suite *TestSuiteStandard) TestTransactionEgressWithCheck() {
	account := suite.createTestAccount(models.Account{OpeningBalance: decimal.NewFromInt(100)})
	checkbook := suite.createTestCheckbook(models.Checkbook{AccountID: account.ID, StartNumber: 100, EndNumber: 101})

	first := models.Transaction{AccountID: account.ID, Kind: models.KindEgress, Amount: decimal.NewFromInt(30), Beneficiary: "Plumber"}
	suite.Require().Nil(models.CreateTransaction(models.DB, &first, &checkbook.ID))
	suite.Require().NotNil(first.CheckID)

	var check models.Check
	suite.Require().Nil(models.DB.First(&check, first.CheckID).Error)
	suite.Assert().Equal(int64(100), check.Number)
	suite.Assert().Equal(models.CheckUsed, check.Status)
	suite.Assert().Equal("Plumber", check.Beneficiary)
	suite.Assert().Equal(first.ID, *check.EgressID)

	second := models.Transaction{AccountID: account.ID, Kind: models.KindEgress, Amount: decimal.NewFromInt(20)}
	suite.Require().Nil(models.CreateTransaction(models.DB, &second, &checkbook.ID))

	suite.Require().Nil(models.DB.First(&checkbook, checkbook.ID).Error)
	suite.Assert().Equal(models.CheckbookExhausted, checkbook.Status)
	suite.Assert().Equal(int64(102), checkbook.CurrentNumber)

	third := models.Transaction{AccountID: account.ID, Kind: models.KindEgress, Amount: decimal.NewFromInt(1)}
	suite.Assert().ErrorIs(models.CreateTransaction(models.DB, &third, &checkbook.ID), models.ErrCheckbookNotActive)

	// Cancelling the egress voids its check
	suite.Require().Nil(first.Cancel(models.DB, "Check lost in the mail", "tester@example.com"))
	suite.Require().Nil(models.DB.First(&check, first.CheckID).Error)
	suite.Assert().Equal(models.CheckVoided, check.Status)

	suite.Require().Nil(models.DB.First(&account, account.ID).Error)
	suite.Assert().True(decimal.NewFromInt(80).Equal(account.CurrentBalance), account.CurrentBalance.String())
}

func (suite *TestSuiteStandard) TestTransactionCheckSkipsVoided() {
	account := suite.createTestAccount(models.Account{})
	checkbook := suite.createTestCheckbook(models.Checkbook{AccountID: account.ID, StartNumber: 1, EndNumber: 5})

	var check models.Check
	suite.Require().Nil(models.DB.Where(&models.Check{CheckbookID: checkbook.ID, Number: 1}).First(&check).Error)
	suite.Require().Nil(models.DB.Model(&check).Updates(models.Check{Status: models.CheckVoided}).Error)

	egress := models.Transaction{AccountID: account.ID, Kind: models.KindEgress, Amount: decimal.NewFromInt(1)}
	suite.Require().Nil(models.CreateTransaction(models.DB, &egress, &checkbook.ID))

	var issued models.Check
	suite.Require().Nil(models.DB.First(&issued, egress.CheckID).Error)
	suite.Assert().Equal(int64(2), issued.Number)
	suite.Assert().Equal(models.CheckUsed, issued.Status)
}

func (suite *TestSuiteStandard) TestTransactionCheckOtherAccount() {
	account := suite.createTestAccount(models.Account{})
	other := suite.createTestAccount(models.Account{CondominiumID: account.CondominiumID})
	checkbook := suite.createTestCheckbook(models.Checkbook{AccountID: other.ID, StartNumber: 1, EndNumber: 5})

	egress := models.Transaction{AccountID: account.ID, Kind: models.KindEgress, Amount: decimal.NewFromInt(1)}
	suite.Assert().ErrorIs(models.CreateTransaction(models.DB, &egress, &checkbook.ID), models.ErrCheckbookOtherAccount)
}
