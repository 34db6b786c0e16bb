package models_test

import (
	"time"

	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// reconciliationFixture is an account with one payment, one egress paid
// in cash and one egress paid by check, all in January 2024.
type reconciliationFixture struct {
	account     models.Account
	payment     models.Transaction
	cashEgress  models.Transaction
	checkEgress models.Transaction
}

func (suite *TestSuiteStandard) createReconciliationFixture() reconciliationFixture {
	account := suite.createTestAccount(models.Account{OpeningBalance: decimal.NewFromInt(1000)})
	checkbook := suite.createTestCheckbook(models.Checkbook{AccountID: account.ID, StartNumber: 1, EndNumber: 50})

	payment := suite.createTestTransaction(models.Transaction{
		AccountID:       account.ID,
		Kind:            models.KindPayment,
		Amount:          decimal.NewFromInt(300),
		Date:            types.NewDate(2024, time.January, 5),
		ReferenceNumber: "DEP-0001",
	})

	cashEgress := suite.createTestTransaction(models.Transaction{
		AccountID:       account.ID,
		Kind:            models.KindEgress,
		Amount:          decimal.NewFromInt(100),
		Date:            types.NewDate(2024, time.January, 10),
		ReferenceNumber: "TRF-0001",
	})

	checkEgress := models.Transaction{
		AccountID: account.ID,
		Kind:      models.KindEgress,
		Amount:    decimal.NewFromInt(50),
		Date:      types.NewDate(2024, time.January, 12),
	}
	suite.Require().Nil(models.CreateTransaction(models.DB, &checkEgress, &checkbook.ID))

	return reconciliationFixture{account, payment, cashEgress, checkEgress}
}

func (suite *TestSuiteStandard) TestReconciliationCreate() {
	f := suite.createReconciliationFixture()

	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "1150")
	suite.Assert().Equal(models.ReconciliationDraft, r.Status)
	suite.Assert().Equal(types.Epoch, r.PeriodStart)
	suite.Assert().Equal(types.NewDate(2024, time.January, 31), r.PeriodEnd)
	suite.Assert().True(decimal.NewFromInt(1000).Equal(r.OpeningBalance), r.OpeningBalance.String())
	suite.Assert().True(decimal.NewFromInt(1000).Equal(r.ClosingBalanceCalculated), r.ClosingBalanceCalculated.String())
	suite.Assert().True(decimal.NewFromInt(150).Equal(r.Difference), r.Difference.String())
	suite.Assert().Equal("tester@example.com", r.CreatedBy)
}

func (suite *TestSuiteStandard) TestReconciliationDuplicateDraft() {
	account := suite.createTestAccount(models.Account{})
	cutoff := types.NewDate(2024, time.January, 31)
	suite.createTestReconciliation(account.ID, cutoff, "0")

	_, err := models.CreateReconciliation(models.DB, account.ID, cutoff, decimal.Zero, "", "")
	suite.Assert().ErrorIs(err, models.ErrDuplicateDraft)

	// The partial unique index rejects duplicates that skip the check
	err = models.DB.Create(&models.Reconciliation{
		AccountID:  account.ID,
		CutoffDate: cutoff,
		Status:     models.ReconciliationDraft,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrDuplicateDraft)

	// A different cutoff date is fine
	suite.createTestReconciliation(account.ID, types.NewDate(2024, time.February, 29), "0")
}

func (suite *TestSuiteStandard) TestReconciliationSaveSelection() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "1150")

	// The check is not cashed yet, only the cash egress counts
	err := r.SaveSelection(models.DB, []uuid.UUID{f.payment.ID}, []models.EgressSelection{
		{EgressID: f.cashEgress.ID},
		{EgressID: f.checkEgress.ID, CheckCashed: false},
	})
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromInt(1200).Equal(r.ClosingBalanceCalculated), r.ClosingBalanceCalculated.String())
	suite.Assert().True(decimal.NewFromInt(-50).Equal(r.Difference), r.Difference.String())
	suite.Assert().True(r.Pending())

	err = r.SaveSelection(models.DB, []uuid.UUID{f.payment.ID}, []models.EgressSelection{
		{EgressID: f.cashEgress.ID},
		{EgressID: f.checkEgress.ID, CheckCashed: true},
	})
	suite.Require().Nil(err)
	suite.Assert().True(decimal.NewFromInt(1150).Equal(r.ClosingBalanceCalculated), r.ClosingBalanceCalculated.String())
	suite.Assert().True(r.Difference.IsZero(), r.Difference.String())
	suite.Assert().False(r.Pending())

	// Stored state matches
	var stored models.Reconciliation
	suite.Require().Nil(models.DB.First(&stored, r.ID).Error)
	suite.Assert().True(stored.ClosingBalanceCalculated.Equal(r.ClosingBalanceCalculated))
	suite.Assert().True(stored.Difference.Equal(r.Difference))

	// Selections are replaced, not appended
	var items []models.ReconciliationItem
	suite.Require().Nil(models.DB.Where(&models.ReconciliationItem{ReconciliationID: r.ID}).Find(&items).Error)
	suite.Assert().Len(items, 3)

	candidates, err := r.Candidates(models.DB, "")
	suite.Require().Nil(err)
	suite.Require().Len(candidates, 3)
	for _, c := range candidates {
		suite.Assert().True(c.Selected)
		if c.Transaction.ID == f.checkEgress.ID {
			suite.Assert().True(c.CheckCashed)
			suite.Require().NotNil(c.CheckNumber)
			suite.Assert().Equal(int64(1), *c.CheckNumber)
		}
	}
}

// TestReconciliationBalanceEquation verifies that
// closing = opening + payments - counted egresses and difference = bank - closing
// for several selections.
func (suite *TestSuiteStandard) TestReconciliationBalanceEquation() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "999.99")

	tests := []struct {
		name     string
		payments []uuid.UUID
		egresses []models.EgressSelection
		closing  string
	}{
		{"Nothing", nil, nil, "1000"},
		{"Payment only", []uuid.UUID{f.payment.ID}, nil, "1300"},
		{"Cash egress only", nil, []models.EgressSelection{{EgressID: f.cashEgress.ID}}, "900"},
		{"Uncashed check", nil, []models.EgressSelection{{EgressID: f.checkEgress.ID}}, "1000"},
		{"Cashed check", nil, []models.EgressSelection{{EgressID: f.checkEgress.ID, CheckCashed: true}}, "950"},
	}

	bank := decimal.RequireFromString("999.99")
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Require().Nil(r.SaveSelection(models.DB, tt.payments, tt.egresses))
			suite.Assert().True(decimal.NewFromInt(1000).Equal(r.OpeningBalance), r.OpeningBalance.String())
			suite.Assert().True(decimal.RequireFromString(tt.closing).Equal(r.ClosingBalanceCalculated), "closing is %s, expected %s", r.ClosingBalanceCalculated, tt.closing)
			suite.Assert().True(bank.Sub(r.ClosingBalanceCalculated).Equal(r.Difference), r.Difference.String())
		})
	}
}

func (suite *TestSuiteStandard) TestReconciliationSaveSelectionNotACandidate() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "0")

	other := suite.createTestAccount(models.Account{CondominiumID: f.account.CondominiumID})
	foreign := suite.createTestTransaction(models.Transaction{AccountID: other.ID, Amount: decimal.NewFromInt(1), Date: types.NewDate(2024, time.January, 2)})
	late := suite.createTestTransaction(models.Transaction{AccountID: f.account.ID, Amount: decimal.NewFromInt(1), Date: types.NewDate(2024, time.February, 2)})

	tests := []struct {
		name     string
		payments []uuid.UUID
		egresses []models.EgressSelection
	}{
		{"Other account", []uuid.UUID{foreign.ID}, nil},
		{"After the cutoff", []uuid.UUID{late.ID}, nil},
		{"Egress as payment", []uuid.UUID{f.cashEgress.ID}, nil},
		{"Payment as egress", nil, []models.EgressSelection{{EgressID: f.payment.ID}}},
		{"Unknown", []uuid.UUID{uuid.New()}, nil},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := r.SaveSelection(models.DB, tt.payments, tt.egresses)
			suite.Assert().ErrorIs(err, models.ErrNotACandidate)
		})
	}
}

func (suite *TestSuiteStandard) TestReconciliationSaveSelectionSelectedTwice() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "1300")
	suite.Require().Nil(r.SaveSelection(models.DB, []uuid.UUID{f.payment.ID}, nil))

	tests := []struct {
		name     string
		payments []uuid.UUID
		egresses []models.EgressSelection
	}{
		{"Payment", []uuid.UUID{f.payment.ID, f.payment.ID}, nil},
		{"Egress", nil, []models.EgressSelection{{EgressID: f.cashEgress.ID}, {EgressID: f.cashEgress.ID, CheckCashed: true}}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := r.SaveSelection(models.DB, tt.payments, tt.egresses)
			suite.Assert().ErrorIs(err, models.ErrSelectedTwice)

			// The previous selection is untouched
			var items []models.ReconciliationItem
			suite.Require().Nil(models.DB.Where(&models.ReconciliationItem{ReconciliationID: r.ID}).Find(&items).Error)
			suite.Assert().Len(items, 1)
			suite.Assert().True(decimal.NewFromInt(1300).Equal(r.ClosingBalanceCalculated), r.ClosingBalanceCalculated.String())
		})
	}
}

func (suite *TestSuiteStandard) TestReconciliationItemUniquePerTransaction() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "0")

	items := []models.ReconciliationItem{
		{ReconciliationID: r.ID, PaymentID: &f.payment.ID, Amount: f.payment.Amount},
		{ReconciliationID: r.ID, PaymentID: &f.payment.ID, Amount: f.payment.Amount},
	}

	err := models.DB.Create(&items).Error
	suite.Assert().ErrorIs(err, models.ErrSelectedTwice)
}

func (suite *TestSuiteStandard) TestReconciliationCandidatesCancelledExcluded() {
	f := suite.createReconciliationFixture()
	suite.Require().Nil(f.payment.Cancel(models.DB, "Bounced", ""))

	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "0")
	candidates, err := r.Candidates(models.DB, "")
	suite.Require().Nil(err)
	suite.Assert().Len(candidates, 2)
}

func (suite *TestSuiteStandard) TestReconciliationCandidatesReferenceFilter() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "0")

	candidates, err := r.Candidates(models.DB, "DEP-*")
	suite.Require().Nil(err)
	suite.Require().Len(candidates, 1)
	suite.Assert().Equal(f.payment.ID, candidates[0].Transaction.ID)
	suite.Assert().True(candidates[0].IsPayment())
}

// TestReconciliationCandidatesExcludeFinalized verifies that transactions of a
// finalized reconciliation are no candidates for other reconciliations.
func (suite *TestSuiteStandard) TestReconciliationCandidatesExcludeFinalized() {
	f := suite.createReconciliationFixture()

	// Both drafts start at the epoch since no reconciliation is finalized yet
	january := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "1300")
	february := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.February, 29), "1300")

	suite.Require().Nil(january.SaveSelection(models.DB, []uuid.UUID{f.payment.ID}, nil))

	// Drafts do not exclude each other
	candidates, err := february.Candidates(models.DB, "")
	suite.Require().Nil(err)
	suite.Assert().Len(candidates, 3)

	suite.Require().Nil(january.Finalize(models.DB, ""))

	candidates, err = february.Candidates(models.DB, "")
	suite.Require().Nil(err)
	suite.Assert().Len(candidates, 2)
	for _, c := range candidates {
		suite.Assert().NotEqual(f.payment.ID, c.Transaction.ID)
	}
}

func (suite *TestSuiteStandard) TestReconciliationFinalize() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "1100")

	suite.Require().Nil(r.SaveSelection(models.DB, []uuid.UUID{f.payment.ID}, []models.EgressSelection{
		{EgressID: f.cashEgress.ID},
		{EgressID: f.checkEgress.ID, CheckCashed: true},
	}))

	// Finalizing with a difference is allowed
	suite.Require().True(r.Pending())
	suite.Require().Nil(r.Finalize(models.DB, "treasurer@example.com"))
	suite.Assert().Equal(models.ReconciliationReconciled, r.Status)
	suite.Assert().Equal("treasurer@example.com", r.ReconciledBy)
	suite.Assert().NotNil(r.ReconciledAt)

	var check models.Check
	suite.Require().Nil(models.DB.First(&check, f.checkEgress.CheckID).Error)
	suite.Assert().True(check.Cashed, "Checks marked as cashed are cashed on finalize")
	suite.Assert().NotNil(check.CashedAt)
}

// TestReconciliationFinalizeIrreversible verifies that a finalized
// reconciliation cannot be finalized again or changed.
func (suite *TestSuiteStandard) TestReconciliationFinalizeIrreversible() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "1300")
	suite.Require().Nil(r.SaveSelection(models.DB, []uuid.UUID{f.payment.ID}, nil))
	suite.Require().Nil(r.Finalize(models.DB, "first@example.com"))

	suite.Assert().ErrorIs(r.Finalize(models.DB, "second@example.com"), models.ErrAlreadyFinalized)
	suite.Assert().ErrorIs(r.SaveSelection(models.DB, nil, nil), models.ErrAlreadyFinalized)
	suite.Assert().ErrorIs(r.UpdateBankBalance(models.DB, decimal.Zero), models.ErrAlreadyFinalized)

	// A stale copy of the draft cannot finalize either
	stale := r
	stale.Status = models.ReconciliationDraft
	suite.Assert().ErrorIs(stale.Finalize(models.DB, "third@example.com"), models.ErrAlreadyFinalized)
	suite.Assert().ErrorIs(stale.SaveSelection(models.DB, nil, nil), models.ErrAlreadyFinalized)

	var stored models.Reconciliation
	suite.Require().Nil(models.DB.First(&stored, r.ID).Error)
	suite.Assert().Equal(models.ReconciliationReconciled, stored.Status)
	suite.Assert().Equal("first@example.com", stored.ReconciledBy)

	var items []models.ReconciliationItem
	suite.Require().Nil(models.DB.Where(&models.ReconciliationItem{ReconciliationID: r.ID}).Find(&items).Error)
	suite.Assert().Len(items, 1, "Items of a finalized reconciliation must not change")

	err := models.DB.Model(&stored).Updates(models.Reconciliation{Detail: "Changed"}).Error
	suite.Assert().ErrorIs(err, models.ErrAlreadyFinalized)
}

func (suite *TestSuiteStandard) TestReconciliationClose() {
	account := suite.createTestAccount(models.Account{})
	r := suite.createTestReconciliation(account.ID, types.NewDate(2024, time.January, 31), "0")

	suite.Assert().ErrorIs(r.Close(models.DB, ""), models.ErrReconciliationNotReconciled)

	suite.Require().Nil(r.Finalize(models.DB, ""))
	suite.Require().Nil(r.Close(models.DB, "auditor@example.com"))
	suite.Assert().Equal(models.ReconciliationClosed, r.Status)
	suite.Assert().Equal("auditor@example.com", r.ClosedBy)

	suite.Assert().ErrorIs(r.Close(models.DB, ""), models.ErrReconciliationNotReconciled)
}

func (suite *TestSuiteStandard) TestReconciliationNextPeriod() {
	f := suite.createReconciliationFixture()
	january := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "1150")
	suite.Require().Nil(january.SaveSelection(models.DB, []uuid.UUID{f.payment.ID}, []models.EgressSelection{
		{EgressID: f.cashEgress.ID},
		{EgressID: f.checkEgress.ID, CheckCashed: true},
	}))
	suite.Require().Nil(january.Finalize(models.DB, ""))

	_, err := models.CreateReconciliation(models.DB, f.account.ID, types.NewDate(2024, time.January, 15), decimal.Zero, "", "")
	suite.Assert().ErrorIs(err, models.ErrCutoffBeforePeriodStart)

	february := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.February, 29), "1150")
	suite.Assert().Equal(types.NewDate(2024, time.February, 1), february.PeriodStart)
	suite.Assert().True(decimal.NewFromInt(1150).Equal(february.OpeningBalance), february.OpeningBalance.String())

	// The opening balance is recomputed from the transaction log on save
	suite.Require().Nil(february.SaveSelection(models.DB, nil, nil))
	suite.Assert().True(decimal.NewFromInt(1150).Equal(february.OpeningBalance), february.OpeningBalance.String())
	suite.Assert().True(february.Difference.IsZero(), february.Difference.String())
}

func (suite *TestSuiteStandard) TestReconciliationUpdateBankBalance() {
	account := suite.createTestAccount(models.Account{OpeningBalance: decimal.NewFromInt(10)})
	r := suite.createTestReconciliation(account.ID, types.NewDate(2024, time.January, 31), "0")

	suite.Require().Nil(r.UpdateBankBalance(models.DB, decimal.RequireFromString("12.345")))
	suite.Assert().True(decimal.RequireFromString("12.35").Equal(r.ClosingBalanceBank), r.ClosingBalanceBank.String())
	suite.Assert().True(decimal.RequireFromString("2.35").Equal(r.Difference), r.Difference.String())
}

func (suite *TestSuiteStandard) TestReconciliationDeleteCascades() {
	f := suite.createReconciliationFixture()
	r := suite.createTestReconciliation(f.account.ID, types.NewDate(2024, time.January, 31), "0")
	suite.Require().Nil(r.SaveSelection(models.DB, []uuid.UUID{f.payment.ID}, nil))
	suite.Require().Nil(r.Finalize(models.DB, ""))

	suite.Require().Nil(models.DB.Delete(&r).Error)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.ReconciliationItem{}).Count(&count).Error)
	suite.Assert().Zero(count)

	// Transactions of deleted reconciliations can be selected again
	reconciled, err := f.payment.Reconciled(models.DB)
	suite.Require().Nil(err)
	suite.Assert().False(reconciled)
}
