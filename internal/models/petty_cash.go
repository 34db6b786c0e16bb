package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/condofin/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Voucher is a receipt for an expense paid from petty cash.
//
// Creating a voucher posts an egress on the petty cash account. Pending
// vouchers are settled by a replenishment from a bank account.
type Voucher struct {
	DefaultModel
	Account         Account         `json:"-"`
	AccountID       uuid.UUID       `gorm:"index"`
	Date            types.Date
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Beneficiary     string
	Description     string
	Status          VoucherStatus
	Transaction     *Transaction    `json:"-"`
	TransactionID   *uuid.UUID      // The egress posted for the voucher
	Replenishment   *Replenishment  `json:"-"`
	ReplenishmentID *uuid.UUID
	CreatedBy       string
	CancelReason    string
}

// swagger:enum VoucherStatus
type VoucherStatus string

const (
	VoucherPending     VoucherStatus = "pending"
	VoucherReplenished VoucherStatus = "replenished"
	VoucherCancelled   VoucherStatus = "cancelled"
)

// Replenishment refills a petty cash account from a bank account by the sum
// of its pending vouchers.
type Replenishment struct {
	DefaultModel
	PettyCashAccount   Account   `json:"-"`
	PettyCashAccountID uuid.UUID `gorm:"index"`
	SourceAccount      Account   `json:"-"`
	SourceAccountID    uuid.UUID
	Date               types.Date
	Amount             decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TransferID         uuid.UUID       // Shared by both legs of the transfer
	CreatedBy          string
}

var (
	ErrVoucherNotPending       = errors.New("only pending vouchers can be cancelled")
	ErrVoucherDescriptionEmpty = errors.New("the voucher description must not be empty")
	ErrNothingToReplenish      = errors.New("there are no pending vouchers to replenish")
)

func (v *Voucher) BeforeSave(_ *gorm.DB) error {
	v.Beneficiary = strings.TrimSpace(v.Beneficiary)
	v.Description = strings.TrimSpace(v.Description)
	v.CancelReason = strings.TrimSpace(v.CancelReason)
	v.Amount = v.Amount.Round(2)

	return nil
}

// BeforeCreate posts the egress for the voucher on the petty cash account.
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	_ = v.DefaultModel.BeforeCreate(tx)

	if v.Description == "" {
		return ErrVoucherDescriptionEmpty
	}

	var account Account
	err := tx.First(&account, v.AccountID).Error
	if err != nil {
		return err
	}

	if account.Type != AccountPettyCash {
		return ErrAccountNotPettyCash
	}

	if v.Date.IsZero() {
		v.Date = types.Today()
	}
	v.Status = VoucherPending

	egress := Transaction{
		AccountID:   v.AccountID,
		Kind:        KindEgress,
		Amount:      v.Amount,
		Date:        v.Date,
		Beneficiary: v.Beneficiary,
		Note:        v.Description,
		CreatedBy:   v.CreatedBy,
	}

	err = tx.Create(&egress).Error
	if err != nil {
		return err
	}

	v.TransactionID = &egress.ID
	return nil
}

// BeforeUpdate prevents changes to the money side of a voucher. Status
// transitions update the columns directly.
func (v *Voucher) BeforeUpdate(tx *gorm.DB) error {
	if _, ok := tx.Statement.Dest.(Voucher); !ok {
		return nil
	}

	for _, field := range []string{"AccountID", "Amount", "Date", "Status"} {
		if tx.Statement.Changed(field) {
			return fmt.Errorf("the %s of a voucher cannot be changed, cancel it and create a new one", field)
		}
	}

	return nil
}

// Cancel cancels a pending voucher together with its egress.
func (v *Voucher) Cancel(db *gorm.DB, reason, user string) error {
	if v.Status != VoucherPending {
		return fmt.Errorf("%w, it is %s", ErrVoucherNotPending, v.Status)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancelReasonEmpty
	}

	return inTransaction(db, func(tx *gorm.DB) error {
		if v.TransactionID != nil {
			var egress Transaction
			err := tx.First(&egress, v.TransactionID).Error
			if err != nil {
				return err
			}

			err = egress.Cancel(tx, reason, user)
			if err != nil && !errors.Is(err, ErrTransactionCancelled) {
				return err
			}
		}

		err := tx.Model(v).Updates(map[string]any{
			"status":        VoucherCancelled,
			"cancel_reason": reason,
		}).Error
		if err != nil {
			return err
		}

		v.Status = VoucherCancelled
		v.CancelReason = reason
		return nil
	})
}

// Replenish transfers the sum of all pending vouchers of a petty cash account
// dated on or before date from a bank account and marks the vouchers as replenished.
func Replenish(db *gorm.DB, pettyCashAccountID, sourceAccountID uuid.UUID, date types.Date, user string) (Replenishment, []Voucher, error) {
	if date.IsZero() {
		date = types.Today()
	}

	var replenishment Replenishment
	var vouchers []Voucher

	err := inTransaction(db, func(tx *gorm.DB) error {
		var pettyCash, source Account
		if err := tx.First(&pettyCash, pettyCashAccountID).Error; err != nil {
			return err
		}

		if pettyCash.Type != AccountPettyCash {
			return ErrAccountNotPettyCash
		}

		if err := tx.First(&source, sourceAccountID).Error; err != nil {
			return err
		}

		if source.Type == AccountPettyCash {
			return ErrAccountIsPettyCash
		}

		err := tx.
			Where("account_id = ? AND status = ? AND date(vouchers.date) <= date(?)", pettyCashAccountID, VoucherPending, date.String()).
			Order("date ASC").
			Find(&vouchers).Error
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, v := range vouchers {
			total = total.Add(v.Amount)
		}

		if !total.IsPositive() {
			return ErrNothingToReplenish
		}

		legs, err := CreateTransfer(tx, Transfer{
			SourceAccountID:      sourceAccountID,
			DestinationAccountID: pettyCashAccountID,
			Amount:               total,
			Date:                 date,
			Note:                 fmt.Sprintf("Petty cash replenishment for %d vouchers", len(vouchers)),
		}, user)
		if err != nil {
			return err
		}

		replenishment = Replenishment{
			PettyCashAccountID: pettyCashAccountID,
			SourceAccountID:    sourceAccountID,
			Date:               date,
			Amount:             total,
			TransferID:         *legs[0].TransferID,
			CreatedBy:          user,
		}

		err = tx.Create(&replenishment).Error
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(vouchers))
		for i := range vouchers {
			ids = append(ids, vouchers[i].ID)
			vouchers[i].Status = VoucherReplenished
			vouchers[i].ReplenishmentID = &replenishment.ID
		}

		return tx.Model(&Voucher{}).Where("id IN ?", ids).Updates(map[string]any{
			"status":           VoucherReplenished,
			"replenishment_id": replenishment.ID,
		}).Error
	})
	if err != nil {
		return Replenishment{}, nil, err
	}

	return replenishment, vouchers, nil
}

func (r *Replenishment) BeforeSave(_ *gorm.DB) error {
	r.Amount = r.Amount.Round(2)
	return nil
}
