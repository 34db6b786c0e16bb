package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/condofin/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is a movement of money on a single account.
//
// Amount is always positive, Direction says whether it adds to
// or subtracts from the account balance.
type Transaction struct {
	DefaultModel
	Account         Account   `json:"-"`
	AccountID       uuid.UUID `gorm:"index"`
	Kind            TransactionKind
	Direction       Direction
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date            types.Date      `gorm:"index"`
	Status          TransactionStatus
	ReferenceNumber string
	Beneficiary     string
	Note            string
	Unit            *Unit      `json:"-"`
	UnitID          *uuid.UUID // The unit a payment was received from
	Check           *Check     `json:"-"`
	CheckID         *uuid.UUID // The check an egress was paid with
	TransferID      *uuid.UUID `gorm:"index"` // Shared by both legs of a transfer
	CreatedBy       string
	CancelReason    string
	CancelledAt     *time.Time
	CancelledBy     string
}

// swagger:enum TransactionKind
type TransactionKind string

const (
	KindPayment    TransactionKind = "payment"
	KindEgress     TransactionKind = "egress"
	KindTransfer   TransactionKind = "transfer"
	KindAdjustment TransactionKind = "adjustment"
)

// swagger:enum Direction
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// swagger:enum TransactionStatus
type TransactionStatus string

const (
	TransactionAvailable TransactionStatus = "available"
	TransactionCancelled TransactionStatus = "cancelled"
)

var (
	ErrTransactionKindInvalid      = errors.New("the transaction kind must be one of payment, egress, transfer, adjustment")
	ErrTransactionDirectionInvalid = errors.New("the transaction direction must be IN or OUT")
	ErrTransactionCancelled        = errors.New("the transaction is already cancelled")
	ErrTransactionReconciled       = errors.New("the transaction is part of a finalized reconciliation and cannot be cancelled")
	ErrTransferSameAccount         = errors.New("source and destination accounts of a transfer must be different")
	ErrTransferKindViaTransfers    = errors.New("transfers must be created with the transfers endpoint")
	ErrCheckOnlyForEgress          = errors.New("only egresses can be paid by check")
	ErrCancelReasonEmpty           = errors.New("a reason is required for cancelling")
)

// Signed returns the amount with the sign of its effect on the account balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Amount.Neg()
	}

	return t.Amount
}

// BeforeSave trims whitespace and rounds the amount to cents.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.ReferenceNumber = strings.TrimSpace(t.ReferenceNumber)
	t.Beneficiary = strings.TrimSpace(t.Beneficiary)
	t.Note = strings.TrimSpace(t.Note)
	t.Amount = t.Amount.Round(2)

	return nil
}

// BeforeCreate validates the transaction and sets the direction implied by its kind.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	switch t.Kind {
	case KindPayment:
		t.Direction = DirectionIn
	case KindEgress:
		t.Direction = DirectionOut
	case KindTransfer, KindAdjustment:
		if t.Direction != DirectionIn && t.Direction != DirectionOut {
			return fmt.Errorf("%w, got '%s'", ErrTransactionDirectionInvalid, t.Direction)
		}
	default:
		return fmt.Errorf("%w, got '%s'", ErrTransactionKindInvalid, t.Kind)
	}

	if t.Status == "" {
		t.Status = TransactionAvailable
	}

	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if t.Date.IsZero() {
		t.Date = types.Today()
	}

	return t.checkIntegrity(tx)
}

// checkIntegrity verifies references to other resources
func (t *Transaction) checkIntegrity(tx *gorm.DB) error {
	var account Account
	err := tx.First(&account, t.AccountID).Error
	if err != nil {
		return err
	}

	if account.Archived {
		return ErrAccountArchived
	}

	if t.UnitID != nil {
		var unit Unit
		err = tx.First(&unit, t.UnitID).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// AfterCreate posts the transaction to the account balance.
func (t *Transaction) AfterCreate(tx *gorm.DB) error {
	if t.Status != TransactionAvailable {
		return nil
	}

	return adjustBalance(tx, t.AccountID, t.Signed())
}

// CreateTransaction creates a payment, egress or adjustment.
//
// When checkbookID is set, the next check of that checkbook is issued
// for the egress.
func CreateTransaction(db *gorm.DB, t *Transaction, checkbookID *uuid.UUID) error {
	if t.Kind == KindTransfer {
		return ErrTransferKindViaTransfers
	}

	if checkbookID != nil && t.Kind != KindEgress {
		return ErrCheckOnlyForEgress
	}

	return inTransaction(db, func(tx *gorm.DB) error {
		var check Check
		if checkbookID != nil {
			var err error
			check, err = nextCheck(tx, *checkbookID, t.AccountID)
			if err != nil {
				return err
			}
			t.CheckID = &check.ID
		}

		err := tx.Create(t).Error
		if err != nil {
			return err
		}

		if checkbookID != nil {
			return check.issue(tx, *t)
		}

		return nil
	})
}

// Transfer moves money between two accounts.
type Transfer struct {
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Date                 types.Date
	ReferenceNumber      string
	Note                 string
}

// CreateTransfer posts both legs of a transfer. The outgoing leg is returned first.
func CreateTransfer(db *gorm.DB, transfer Transfer, user string) (legs []Transaction, err error) {
	if transfer.SourceAccountID == transfer.DestinationAccountID {
		return nil, ErrTransferSameAccount
	}

	transferID := uuid.New()
	legs = []Transaction{
		{
			AccountID: transfer.SourceAccountID,
			Direction: DirectionOut,
		},
		{
			AccountID: transfer.DestinationAccountID,
			Direction: DirectionIn,
		},
	}

	for i := range legs {
		legs[i].Kind = KindTransfer
		legs[i].Amount = transfer.Amount
		legs[i].Date = transfer.Date
		legs[i].ReferenceNumber = transfer.ReferenceNumber
		legs[i].Note = transfer.Note
		legs[i].TransferID = &transferID
		legs[i].CreatedBy = user
	}

	err = inTransaction(db, func(tx *gorm.DB) error {
		for i := range legs {
			if err := tx.Create(&legs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return legs, nil
}

// Cancel marks the transaction as cancelled and reverts its effect on the account
// balance. The other leg of a transfer is cancelled with it, the check of
// an egress is voided.
func (t *Transaction) Cancel(db *gorm.DB, reason, user string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancelReasonEmpty
	}

	return inTransaction(db, func(tx *gorm.DB) error {
		if t.TransferID == nil {
			return t.cancel(tx, reason, user)
		}

		var legs []Transaction
		err := tx.Where(&Transaction{TransferID: t.TransferID}).Find(&legs).Error
		if err != nil {
			return err
		}

		for i := range legs {
			if err := legs[i].cancel(tx, reason, user); err != nil {
				return err
			}

			if legs[i].ID == t.ID {
				*t = legs[i]
			}
		}

		return nil
	})
}

func (t *Transaction) cancel(tx *gorm.DB, reason, user string) error {
	if t.Status == TransactionCancelled {
		return ErrTransactionCancelled
	}

	reconciled, err := t.Reconciled(tx)
	if err != nil {
		return err
	}

	if reconciled {
		return ErrTransactionReconciled
	}

	now := stamp()
	err = tx.Model(t).Updates(map[string]any{
		"status":        TransactionCancelled,
		"cancel_reason": reason,
		"cancelled_at":  now,
		"cancelled_by":  user,
	}).Error
	if err != nil {
		return err
	}

	t.Status = TransactionCancelled
	t.CancelReason = reason
	t.CancelledAt = now
	t.CancelledBy = user

	if t.CheckID != nil {
		err = tx.Model(&Check{}).Where("id = ?", t.CheckID).Update("status", CheckVoided).Error
		if err != nil {
			return err
		}
	}

	return adjustBalance(tx, t.AccountID, t.Signed().Neg())
}

// Reconciled reports whether the transaction is part of a reconciled
// or closed reconciliation.
func (t Transaction) Reconciled(db *gorm.DB) (bool, error) {
	var count int64
	err := db.Model(&ReconciliationItem{}).
		Joins("JOIN reconciliations ON reconciliations.id = reconciliation_items.reconciliation_id").
		Where("reconciliation_items.payment_id = ? OR reconciliation_items.egress_id = ?", t.ID, t.ID).
		Where("reconciliations.status IN ?", []ReconciliationStatus{ReconciliationReconciled, ReconciliationClosed}).
		Count(&count).Error

	return count > 0, err
}
