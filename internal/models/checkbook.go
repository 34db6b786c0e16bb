package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Checkbook is a numbered range of checks for a bank account.
type Checkbook struct {
	DefaultModel
	Account       Account   `json:"-"`
	AccountID     uuid.UUID `gorm:"index"`
	StartNumber   int64     `gorm:"check:checkbook_range_valid,start_number <= end_number"`
	EndNumber     int64
	CurrentNumber int64 // Next number to issue
	Status        CheckbookStatus
	Note          string
}

// MaxCheckbookSize is the maximum number of checks in one checkbook.
const MaxCheckbookSize = 10000

// swagger:enum CheckbookStatus
type CheckbookStatus string

const (
	CheckbookActive    CheckbookStatus = "active"
	CheckbookExhausted CheckbookStatus = "exhausted"
	CheckbookCancelled CheckbookStatus = "cancelled"
)

// Check is a single check of a checkbook.
type Check struct {
	DefaultModel
	Checkbook   Checkbook `json:"-"`
	CheckbookID uuid.UUID `gorm:"uniqueIndex:check_checkbook_number"`
	Number      int64     `gorm:"uniqueIndex:check_checkbook_number"`
	Status      CheckStatus
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Beneficiary string
	IssuedAt    *time.Time
	EgressID    *uuid.UUID // The egress transaction this check paid
	Cashed      bool
	CashedAt    *time.Time
	Note        string
}

// swagger:enum CheckStatus
type CheckStatus string

const (
	CheckAvailable CheckStatus = "available"
	CheckUsed      CheckStatus = "used"
	CheckVoided    CheckStatus = "voided"
	CheckLost      CheckStatus = "lost"
)

var (
	ErrCheckbookRangeInvalid     = errors.New("the start number of a checkbook must not be greater than its end number")
	ErrCheckbookTooLarge         = fmt.Errorf("a checkbook must not contain more than %d checks", MaxCheckbookSize)
	ErrCheckbookRangeOverlap     = errors.New("the check number range overlaps with an existing checkbook of this account")
	ErrCheckbookNumberNegative   = errors.New("check numbers must not be negative")
	ErrCheckbookStatusInvalid    = errors.New("the checkbook status must be one of active, exhausted, cancelled")
	ErrCheckbookNotActive        = errors.New("the checkbook is not active")
	ErrCheckbookOtherAccount     = errors.New("the checkbook belongs to a different account")
	ErrCheckbookHasUsedChecks    = errors.New("the checkbook has used checks and cannot be deleted")
	ErrCheckbookPettyCashAccount = errors.New("checkbooks can only be created for bank accounts")
	ErrCheckNumberNotUnique      = errors.New("the check number must be unique for the checkbook")
	ErrCheckStatusTransition     = errors.New("only available checks can be marked as voided or lost")
)

func (c *Checkbook) BeforeSave(_ *gorm.DB) error {
	c.Note = strings.TrimSpace(c.Note)
	return nil
}

// BeforeCreate validates the range. The overlap check here only provides
// a better error message, the database trigger enforces it.
func (c *Checkbook) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	if c.StartNumber < 0 || c.EndNumber < 0 {
		return ErrCheckbookNumberNegative
	}

	if c.StartNumber > c.EndNumber {
		return ErrCheckbookRangeInvalid
	}

	if c.EndNumber-c.StartNumber >= MaxCheckbookSize {
		return ErrCheckbookTooLarge
	}

	if c.Status == "" {
		c.Status = CheckbookActive
	}
	c.CurrentNumber = c.StartNumber

	var account Account
	err := tx.First(&account, c.AccountID).Error
	if err != nil {
		return err
	}

	if account.Type == AccountPettyCash {
		return ErrCheckbookPettyCashAccount
	}

	var overlapping int64
	err = tx.Model(&Checkbook{}).
		Where("account_id = ? AND start_number <= ? AND ? <= end_number", c.AccountID, c.EndNumber, c.StartNumber).
		Count(&overlapping).Error
	if err != nil {
		return err
	}

	if overlapping > 0 {
		return ErrCheckbookRangeOverlap
	}

	return nil
}

// AfterCreate creates one available check for every number of the range.
func (c *Checkbook) AfterCreate(tx *gorm.DB) error {
	checks := make([]Check, 0, c.EndNumber-c.StartNumber+1)
	for n := c.StartNumber; n <= c.EndNumber; n++ {
		checks = append(checks, Check{
			CheckbookID: c.ID,
			Number:      n,
			Status:      CheckAvailable,
		})
	}

	return tx.CreateInBatches(&checks, 100).Error
}

func (c *Checkbook) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(Checkbook)
	if !ok || !tx.Statement.Changed("Status") {
		return nil
	}

	switch toSave.Status {
	case CheckbookActive, CheckbookExhausted, CheckbookCancelled:
		return nil
	}

	return fmt.Errorf("%w, got '%s'", ErrCheckbookStatusInvalid, toSave.Status)
}

// BeforeDelete only allows deletion while no check has been used.
func (c *Checkbook) BeforeDelete(tx *gorm.DB) error {
	var used int64
	err := tx.Model(&Check{}).Where("checkbook_id = ? AND status = ?", c.ID, CheckUsed).Count(&used).Error
	if err != nil {
		return err
	}

	if used > 0 {
		return ErrCheckbookHasUsedChecks
	}

	return tx.Where("checkbook_id = ?", c.ID).Delete(&Check{}).Error
}

// nextCheck returns the next available check of a checkbook for an account.
//
// Voided and lost checks are skipped.
func nextCheck(tx *gorm.DB, checkbookID, accountID uuid.UUID) (Check, error) {
	var checkbook Checkbook
	err := tx.First(&checkbook, checkbookID).Error
	if err != nil {
		return Check{}, err
	}

	if checkbook.AccountID != accountID {
		return Check{}, ErrCheckbookOtherAccount
	}

	if checkbook.Status != CheckbookActive {
		return Check{}, ErrCheckbookNotActive
	}

	var check Check
	err = tx.
		Where("checkbook_id = ? AND status = ? AND number >= ?", checkbook.ID, CheckAvailable, checkbook.CurrentNumber).
		Order("number ASC").
		First(&check).Error
	if errors.Is(err, ErrResourceNotFound) {
		return Check{}, fmt.Errorf("%w: no available checks left", ErrCheckbookNotActive)
	}

	return check, err
}

// issue marks the check as used for an egress and advances the checkbook.
func (c *Check) issue(tx *gorm.DB, egress Transaction) error {
	err := tx.Model(c).Updates(map[string]any{
		"status":      CheckUsed,
		"amount":      egress.Amount,
		"beneficiary": egress.Beneficiary,
		"issued_at":   egress.Date.Time(),
		"egress_id":   egress.ID,
	}).Error
	if err != nil {
		return err
	}

	var checkbook Checkbook
	err = tx.First(&checkbook, c.CheckbookID).Error
	if err != nil {
		return err
	}

	updates := map[string]any{"current_number": c.Number + 1}
	if c.Number >= checkbook.EndNumber {
		updates["status"] = CheckbookExhausted
	}

	return tx.Model(&checkbook).Updates(updates).Error
}

func (c *Check) BeforeSave(_ *gorm.DB) error {
	c.Beneficiary = strings.TrimSpace(c.Beneficiary)
	c.Note = strings.TrimSpace(c.Note)
	c.Amount = c.Amount.Round(2)
	return nil
}

// BeforeUpdate allows available checks to be voided or marked lost.
// Issuing and cashing checks updates columns directly.
func (c *Check) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(Check)
	if !ok || !tx.Statement.Changed("Status") {
		return nil
	}

	if c.Status != CheckAvailable || (toSave.Status != CheckVoided && toSave.Status != CheckLost) {
		return fmt.Errorf("%w, the check is %s", ErrCheckStatusTransition, c.Status)
	}

	return nil
}
