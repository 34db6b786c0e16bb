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

// Account is a financial account of a condominium: a bank account or petty cash.
type Account struct {
	DefaultModel
	Condominium    Condominium `json:"-"`
	CondominiumID  uuid.UUID   `gorm:"uniqueIndex:account_condominium_name"`
	Name           string      `gorm:"uniqueIndex:account_condominium_name"`
	Note           string
	Type           AccountType
	BankName       string
	AccountNumber  string
	OpeningBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CurrentBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Running total of all available transactions
	Archived       bool
}

// swagger:enum AccountType
type AccountType string

const (
	AccountCurrent   AccountType = "current"
	AccountSavings   AccountType = "savings"
	AccountPettyCash AccountType = "pettyCash"
)

var (
	ErrAccountNameNotUnique = errors.New("the account name must be unique for the condominium")
	ErrAccountTypeInvalid   = errors.New("the account type must be one of current, savings, pettyCash")
	ErrAccountArchived      = errors.New("the account is archived")
	ErrAccountNotPettyCash  = errors.New("the account is not a petty cash account")
	ErrAccountIsPettyCash   = errors.New("the account must be a bank account, not petty cash")
)

func (t AccountType) validate() error {
	switch t {
	case AccountCurrent, AccountSavings, AccountPettyCash:
		return nil
	}

	return fmt.Errorf("%w, got '%s'", ErrAccountTypeInvalid, t)
}

// BeforeSave trims whitespace and rounds balances to cents.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)
	a.BankName = strings.TrimSpace(a.BankName)
	a.AccountNumber = strings.TrimSpace(a.AccountNumber)

	a.OpeningBalance = a.OpeningBalance.Round(2)
	a.CurrentBalance = a.CurrentBalance.Round(2)

	return nil
}

// BeforeCreate starts the running total at the opening balance.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	if a.Type == "" {
		a.Type = AccountCurrent
	}

	if err := a.Type.validate(); err != nil {
		return err
	}

	a.CurrentBalance = a.OpeningBalance
	return a.checkIntegrity(tx, *a)
}

// BeforeUpdate verifies the state of the account before
// committing an update to the database.
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(Account)
	if !ok {
		return nil
	}

	if tx.Statement.Changed("Type") {
		if err := toSave.Type.validate(); err != nil {
			return err
		}
	}

	if tx.Statement.Changed("CondominiumID") {
		return a.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (a *Account) checkIntegrity(tx *gorm.DB, toSave Account) error {
	return tx.First(&Condominium{}, toSave.CondominiumID).Error
}

// ComputeBalance returns the balance at the start of a day: the opening balance plus
// all available transactions dated before periodStart.
//
// For types.Epoch, this is the opening balance.
func (a Account) ComputeBalance(db *gorm.DB, periodStart types.Date) (decimal.Decimal, error) {
	sum, err := signedSum(db.Where("account_id = ? AND status = ? AND date(transactions.date) < date(?)", a.ID, TransactionAvailable, periodStart.String()))
	if err != nil {
		return decimal.Zero, err
	}

	return a.OpeningBalance.Add(sum).Round(2), nil
}

// Balance returns the balance at the end of a day, including all available
// transactions dated on or before date.
func (a Account) Balance(db *gorm.DB, date types.Date) (decimal.Decimal, error) {
	return a.ComputeBalance(db, date.AddDate(0, 0, 1))
}

// Recalculate rebuilds the current balance from the opening balance and the
// transaction log and persists it.
func (a *Account) Recalculate(db *gorm.DB) error {
	sum, err := signedSum(db.Where("account_id = ? AND status = ?", a.ID, TransactionAvailable))
	if err != nil {
		return err
	}

	balance := a.OpeningBalance.Add(sum).Round(2)
	err = db.Model(a).Update("current_balance", balance).Error
	if err != nil {
		return err
	}

	a.CurrentBalance = balance
	return nil
}

// signedSum adds up the signed amounts of all transactions matching query.
//
// Amounts are summed in Go since SQL SUM() on DECIMAL columns
// returns floating point values in SQLite.
func signedSum(query *gorm.DB) (decimal.Decimal, error) {
	var transactions []Transaction
	err := query.Select("amount", "direction").Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, t := range transactions {
		sum = sum.Add(t.Signed())
	}

	return sum, nil
}

// adjustBalance adds delta to the current balance of an account.
//
// It must be called inside the database transaction that posts or cancels
// the transaction causing the change.
func adjustBalance(tx *gorm.DB, accountID uuid.UUID, delta decimal.Decimal) error {
	var account Account
	err := tx.First(&account, accountID).Error
	if err != nil {
		return err
	}

	return tx.Model(&account).Update("current_balance", account.CurrentBalance.Add(delta).Round(2)).Error
}
