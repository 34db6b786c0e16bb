package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/condofin/backend/internal/types"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reconciliation compares the book balance of an account with the balance
// stated by the bank at a cutoff date.
type Reconciliation struct {
	DefaultModel
	Account                  Account   `json:"-"`
	AccountID                uuid.UUID `gorm:"index"`
	CutoffDate               types.Date
	PeriodStart              types.Date
	PeriodEnd                types.Date
	OpeningBalance           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ClosingBalanceBank       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ClosingBalanceCalculated decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Difference               decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // ClosingBalanceBank - ClosingBalanceCalculated
	Status                   ReconciliationStatus
	Detail                   string
	CreatedBy                string
	ReconciledAt             *time.Time
	ReconciledBy             string
	ClosedAt                 *time.Time
	ClosedBy                 string
	Items                    []ReconciliationItem `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// swagger:enum ReconciliationStatus
type ReconciliationStatus string

const (
	ReconciliationDraft      ReconciliationStatus = "draft"
	ReconciliationReconciled ReconciliationStatus = "reconciled"
	ReconciliationClosed     ReconciliationStatus = "closed"
)

// ReconciliationItem is a snapshot of a transaction selected in a reconciliation.
//
// Exactly one of PaymentID and EgressID is set: payments are all transactions
// adding to the balance, egresses all transactions subtracting from it.
type ReconciliationItem struct {
	DefaultModel
	ReconciliationID uuid.UUID       `gorm:"index;uniqueIndex:item_reconciliation_payment;uniqueIndex:item_reconciliation_egress"`
	Payment          *Transaction    `json:"-"`
	PaymentID        *uuid.UUID      `gorm:"uniqueIndex:item_reconciliation_payment;check:item_single_transaction,(payment_id IS NULL) <> (egress_id IS NULL)"`
	Egress           *Transaction    `json:"-"`
	EgressID         *uuid.UUID      `gorm:"index;uniqueIndex:item_reconciliation_egress"`
	Check            *Check          `json:"-"`
	CheckID          *uuid.UUID
	IsCheckCashed    bool
	Amount           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TransactionDate  types.Date
}

var (
	ErrDuplicateDraft              = errors.New("a draft reconciliation already exists for this account and cutoff date, continue with that one")
	ErrAlreadyFinalized            = errors.New("the reconciliation is already finalized")
	ErrReconciliationNotReconciled = errors.New("only reconciled reconciliations can be closed")
	ErrCutoffBeforePeriodStart     = errors.New("the cutoff date must not be before the start of the period, which is the day after the last reconciled cutoff")
	ErrCutoffMissing               = errors.New("the cutoff date must be set")
	ErrNotACandidate               = errors.New("the transaction cannot be selected in this reconciliation")
	ErrItemSingleTransaction       = errors.New("a reconciliation item must reference exactly one payment or egress")
	ErrSelectedTwice               = errors.New("a transaction can only be selected once per reconciliation")
)

func (r *Reconciliation) BeforeSave(_ *gorm.DB) error {
	r.Detail = strings.TrimSpace(r.Detail)

	r.OpeningBalance = r.OpeningBalance.Round(2)
	r.ClosingBalanceBank = r.ClosingBalanceBank.Round(2)
	r.ClosingBalanceCalculated = r.ClosingBalanceCalculated.Round(2)
	r.Difference = r.Difference.Round(2)

	return nil
}

// BeforeUpdate prevents changes to anything but drafts. The transitions
// to reconciled and closed update the status columns directly.
func (r *Reconciliation) BeforeUpdate(tx *gorm.DB) error {
	if _, ok := tx.Statement.Dest.(Reconciliation); ok && r.Status != ReconciliationDraft {
		return ErrAlreadyFinalized
	}

	return nil
}

func (i *ReconciliationItem) BeforeSave(_ *gorm.DB) error {
	i.Amount = i.Amount.Round(2)
	return nil
}

// previousReconciliation returns the latest reconciled or closed reconciliation of
// the account. found is false when there is none.
func previousReconciliation(db *gorm.DB, accountID uuid.UUID) (previous Reconciliation, found bool, err error) {
	var reconciliations []Reconciliation
	err = db.
		Where("account_id = ? AND status IN ?", accountID, []ReconciliationStatus{ReconciliationReconciled, ReconciliationClosed}).
		Order("cutoff_date DESC").
		Limit(1).
		Find(&reconciliations).Error
	if err != nil || len(reconciliations) == 0 {
		return Reconciliation{}, false, err
	}

	return reconciliations[0], true, nil
}

// CreateReconciliation starts a draft reconciliation for an account.
//
// The period starts the day after the cutoff of the previous reconciled session,
// whose calculated closing balance is the opening balance. Without a previous
// session, the period starts at types.Epoch with the account opening balance.
func CreateReconciliation(db *gorm.DB, accountID uuid.UUID, cutoff types.Date, bankClosingBalance decimal.Decimal, detail, user string) (Reconciliation, error) {
	if cutoff.IsZero() {
		return Reconciliation{}, ErrCutoffMissing
	}

	var reconciliation Reconciliation
	err := inTransaction(db, func(tx *gorm.DB) error {
		var account Account
		err := tx.First(&account, accountID).Error
		if err != nil {
			return err
		}

		previous, found, err := previousReconciliation(tx, accountID)
		if err != nil {
			return err
		}

		periodStart := types.Epoch
		opening := account.OpeningBalance
		if found {
			periodStart = previous.CutoffDate.AddDate(0, 0, 1)
			opening = previous.ClosingBalanceCalculated
		}

		if cutoff.Before(periodStart) {
			return ErrCutoffBeforePeriodStart
		}

		var drafts int64
		err = tx.Model(&Reconciliation{}).
			Where("account_id = ? AND cutoff_date = ? AND status = ?", accountID, cutoff, ReconciliationDraft).
			Count(&drafts).Error
		if err != nil {
			return err
		}

		if drafts > 0 {
			return ErrDuplicateDraft
		}

		bankClosingBalance = bankClosingBalance.Round(2)
		reconciliation = Reconciliation{
			AccountID:                accountID,
			CutoffDate:               cutoff,
			PeriodStart:              periodStart,
			PeriodEnd:                cutoff,
			OpeningBalance:           opening,
			ClosingBalanceBank:       bankClosingBalance,
			ClosingBalanceCalculated: opening,
			Difference:               bankClosingBalance.Sub(opening),
			Status:                   ReconciliationDraft,
			Detail:                   detail,
			CreatedBy:                user,
		}

		return tx.Create(&reconciliation).Error
	})

	return reconciliation, err
}

// Candidate is a transaction that can be selected in a reconciliation.
type Candidate struct {
	Transaction Transaction
	CheckNumber *int64
	Selected    bool // Selected in the reconciliation
	CheckCashed bool // The check is marked as cashed in the reconciliation
}

// IsPayment reports whether the candidate adds to the balance.
func (c Candidate) IsPayment() bool {
	return c.Transaction.Direction == DirectionIn
}

// Candidates returns the available transactions of the account within the
// reconciliation period that are not part of any reconciled or closed reconciliation.
//
// Transactions selected in other drafts are included. A non-empty reference
// glob pattern filters on the reference number.
func (r Reconciliation) Candidates(db *gorm.DB, reference string) ([]Candidate, error) {
	finalized := db.
		Table("reconciliation_items").
		Joins("JOIN reconciliations ON reconciliations.id = reconciliation_items.reconciliation_id").
		Where("reconciliations.account_id = ? AND reconciliations.status IN ?", r.AccountID, []ReconciliationStatus{ReconciliationReconciled, ReconciliationClosed})

	var transactions []Transaction
	err := db.
		Preload("Check").
		Where("account_id = ? AND status = ?", r.AccountID, TransactionAvailable).
		Where("date(transactions.date) >= date(?) AND date(transactions.date) <= date(?)", r.PeriodStart.String(), r.CutoffDate.String()).
		Where("id NOT IN (?)", finalized.Session(&gorm.Session{}).Select("reconciliation_items.payment_id").Where("reconciliation_items.payment_id IS NOT NULL")).
		Where("id NOT IN (?)", finalized.Session(&gorm.Session{}).Select("reconciliation_items.egress_id").Where("reconciliation_items.egress_id IS NOT NULL")).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	var items []ReconciliationItem
	err = db.Where(&ReconciliationItem{ReconciliationID: r.ID}).Find(&items).Error
	if err != nil {
		return nil, err
	}

	selected := make(map[uuid.UUID]ReconciliationItem, len(items))
	for _, i := range items {
		if i.PaymentID != nil {
			selected[*i.PaymentID] = i
		} else if i.EgressID != nil {
			selected[*i.EgressID] = i
		}
	}

	candidates := make([]Candidate, 0, len(transactions))
	for _, t := range transactions {
		if reference != "" && !glob.Glob(reference, t.ReferenceNumber) {
			continue
		}

		c := Candidate{Transaction: t}
		if t.Check != nil {
			number := t.Check.Number
			c.CheckNumber = &number
		}

		if item, ok := selected[t.ID]; ok {
			c.Selected = true
			c.CheckCashed = item.IsCheckCashed
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}

// EgressSelection selects an egress and states whether its check was cashed.
type EgressSelection struct {
	EgressID    uuid.UUID
	CheckCashed bool
}

// SaveSelection replaces the selected transactions of a draft and recomputes
// its balances.
//
// The opening balance is recomputed from the period start. Egresses paid by a check
// only count towards the calculated closing balance when the check is cashed.
func (r *Reconciliation) SaveSelection(db *gorm.DB, paymentIDs []uuid.UUID, egresses []EgressSelection) error {
	if r.Status != ReconciliationDraft {
		return ErrAlreadyFinalized
	}

	var opening, calculated, difference decimal.Decimal

	// Balances and candidates are read in the same transaction that
	// replaces the items
	err := inTransaction(db, func(tx *gorm.DB) error {
		var account Account
		err := tx.First(&account, r.AccountID).Error
		if err != nil {
			return err
		}

		opening, err = account.ComputeBalance(tx, r.PeriodStart)
		if err != nil {
			return err
		}

		candidates, err := r.Candidates(tx, "")
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]Candidate, len(candidates))
		for _, c := range candidates {
			byID[c.Transaction.ID] = c
		}

		selected := make(map[uuid.UUID]bool, len(paymentIDs)+len(egresses))
		items := make([]ReconciliationItem, 0, len(paymentIDs)+len(egresses))

		payments := decimal.Zero
		for _, id := range paymentIDs {
			c, ok := byID[id]
			if !ok || !c.IsPayment() {
				return fmt.Errorf("%w: %s is not a payment of this period", ErrNotACandidate, id)
			}

			if selected[id] {
				return fmt.Errorf("%w: %s", ErrSelectedTwice, id)
			}
			selected[id] = true

			paymentID := id
			payments = payments.Add(c.Transaction.Amount)
			items = append(items, ReconciliationItem{
				ReconciliationID: r.ID,
				PaymentID:        &paymentID,
				Amount:           c.Transaction.Amount,
				TransactionDate:  c.Transaction.Date,
			})
		}

		outgoing := decimal.Zero
		for _, e := range egresses {
			c, ok := byID[e.EgressID]
			if !ok || c.IsPayment() {
				return fmt.Errorf("%w: %s is not an egress of this period", ErrNotACandidate, e.EgressID)
			}

			if selected[e.EgressID] {
				return fmt.Errorf("%w: %s", ErrSelectedTwice, e.EgressID)
			}
			selected[e.EgressID] = true

			hasCheck := c.Transaction.CheckID != nil
			cashed := hasCheck && e.CheckCashed
			if !hasCheck || cashed {
				outgoing = outgoing.Add(c.Transaction.Amount)
			}

			egressID := e.EgressID
			items = append(items, ReconciliationItem{
				ReconciliationID: r.ID,
				EgressID:         &egressID,
				CheckID:          c.Transaction.CheckID,
				IsCheckCashed:    cashed,
				Amount:           c.Transaction.Amount,
				TransactionDate:  c.Transaction.Date,
			})
		}

		calculated = opening.Add(payments).Sub(outgoing).Round(2)
		difference = r.ClosingBalanceBank.Sub(calculated).Round(2)

		err = tx.Where(&ReconciliationItem{ReconciliationID: r.ID}).Delete(&ReconciliationItem{}).Error
		if err != nil {
			return err
		}

		if len(items) > 0 {
			err = tx.Create(&items).Error
			if err != nil {
				return err
			}
		}

		// Only update drafts, a concurrent finalize wins
		result := tx.Model(&Reconciliation{}).
			Where("id = ? AND status = ?", r.ID, ReconciliationDraft).
			Updates(map[string]any{
				"opening_balance":            opening,
				"closing_balance_calculated": calculated,
				"difference":                 difference,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrAlreadyFinalized
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.OpeningBalance = opening
	r.ClosingBalanceCalculated = calculated
	r.Difference = difference

	return nil
}

// UpdateBankBalance sets the closing balance stated by the bank on a draft
// and recomputes the difference.
func (r *Reconciliation) UpdateBankBalance(db *gorm.DB, bank decimal.Decimal) error {
	if r.Status != ReconciliationDraft {
		return ErrAlreadyFinalized
	}

	bank = bank.Round(2)
	difference := bank.Sub(r.ClosingBalanceCalculated).Round(2)

	err := db.Model(&Reconciliation{}).Where("id = ?", r.ID).Updates(map[string]any{
		"closing_balance_bank": bank,
		"difference":           difference,
	}).Error
	if err != nil {
		return err
	}

	r.ClosingBalanceBank = bank
	r.Difference = difference
	return nil
}

// Pending reports whether calculated and bank balance differ.
func (r Reconciliation) Pending() bool {
	return !r.Difference.IsZero()
}

// Finalize transitions a draft to reconciled, regardless of the difference.
// Checks of the selected egresses that are marked as cashed are cashed.
func (r *Reconciliation) Finalize(db *gorm.DB, user string) error {
	if r.Status != ReconciliationDraft {
		return ErrAlreadyFinalized
	}

	now := stamp()
	err := inTransaction(db, func(tx *gorm.DB) error {
		result := tx.Model(&Reconciliation{}).
			Where("id = ? AND status = ?", r.ID, ReconciliationDraft).
			Updates(map[string]any{
				"status":        ReconciliationReconciled,
				"reconciled_at": now,
				"reconciled_by": user,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrAlreadyFinalized
		}

		cashed := tx.Model(&ReconciliationItem{}).
			Select("check_id").
			Where("reconciliation_id = ? AND is_check_cashed AND check_id IS NOT NULL", r.ID)

		return tx.Model(&Check{}).
			Where("id IN (?)", cashed).
			Updates(map[string]any{"cashed": true, "cashed_at": now}).Error
	})
	if err != nil {
		return err
	}

	r.Status = ReconciliationReconciled
	r.ReconciledAt = now
	r.ReconciledBy = user
	return nil
}

// Close locks a reconciled reconciliation.
func (r *Reconciliation) Close(db *gorm.DB, user string) error {
	if r.Status != ReconciliationReconciled {
		return fmt.Errorf("%w, the reconciliation is %s", ErrReconciliationNotReconciled, r.Status)
	}

	now := stamp()
	err := db.Model(&Reconciliation{}).Where("id = ?", r.ID).Updates(map[string]any{
		"status":    ReconciliationClosed,
		"closed_at": now,
		"closed_by": user,
	}).Error
	if err != nil {
		return err
	}

	r.Status = ReconciliationClosed
	r.ClosedAt = now
	r.ClosedBy = user
	return nil
}
