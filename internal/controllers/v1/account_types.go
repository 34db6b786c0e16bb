package v1

import (
	"fmt"

	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	ez_uuid "github.com/condofin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountEditable represents all user configurable parameters
type AccountEditable struct {
	CondominiumID  uuid.UUID          `json:"condominiumId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the condominium the account belongs to
	Name           string             `json:"name" example:"Operating account"`                             // Name of the account, unique per condominium
	Note           string             `json:"note" example:"Used for all ordinary expenses"`                // A longer description
	Type           models.AccountType `json:"type" example:"current" default:"current"`                     // One of current, savings, pettyCash
	BankName       string             `json:"bankName" example:"Banco de Venezuela"`                        // Name of the bank
	AccountNumber  string             `json:"accountNumber" example:"0102-0000-00-0000000000"`              // Number of the bank account
	OpeningBalance decimal.Decimal    `json:"openingBalance" example:"1500.00"`                             // Balance before the first transaction
	Archived       bool               `json:"archived" example:"false" default:"false"`                     // Archived accounts do not accept new transactions
}

func (editable AccountEditable) model() models.Account {
	return models.Account{
		CondominiumID:  editable.CondominiumID,
		Name:           editable.Name,
		Note:           editable.Note,
		Type:           editable.Type,
		BankName:       editable.BankName,
		AccountNumber:  editable.AccountNumber,
		OpeningBalance: editable.OpeningBalance,
		Archived:       editable.Archived,
	}
}

type AccountLinks struct {
	Self            string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                       // The account itself
	Balance         string `json:"balance" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/balance"`            // Balance of the account at a date
	Transactions    string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`   // Transactions of the account
	Checkbooks      string `json:"checkbooks" example:"https://example.com/api/v1/checkbooks?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`       // Checkbooks of the account
	Reconciliations string `json:"reconciliations" example:"https://example.com/api/v1/reconciliations?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Reconciliations of the account
}

type Account struct {
	models.DefaultModel
	AccountEditable
	Links AccountLinks `json:"links"`

	// These fields are computed
	CurrentBalance decimal.Decimal `json:"currentBalance" example:"2315.40"` // Opening balance plus all available transactions
}

func newAccount(c *gin.Context, model models.Account) (Account, error) {
	url := c.GetString(string(models.DBContextURL))

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			CondominiumID:  model.CondominiumID,
			Name:           model.Name,
			Note:           model.Note,
			Type:           model.Type,
			BankName:       model.BankName,
			AccountNumber:  model.AccountNumber,
			OpeningBalance: model.OpeningBalance,
			Archived:       model.Archived,
		},
		CurrentBalance: model.CurrentBalance,
		Links: AccountLinks{
			Self:            fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Balance:         fmt.Sprintf("%s/v1/accounts/%s/balance", url, model.ID),
			Transactions:    fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
			Checkbooks:      fmt.Sprintf("%s/v1/checkbooks?account=%s", url, model.ID),
			Reconciliations: fmt.Sprintf("%s/v1/reconciliations?account=%s", url, model.ID),
		},
	}, nil
}

type AccountQueryFilter struct {
	CondominiumID ez_uuid.UUID       `form:"condominium"`                // By ID of the condominium
	Type          models.AccountType `form:"type"`                       // By type
	Archived      bool               `form:"archived"`                   // Is the account archived?
	Name          string             `form:"name" filterField:"false"`   // By name
	Note          string             `form:"note" filterField:"false"`   // By note
	Search        string             `form:"search" filterField:"false"` // By string in name or note
	Offset        uint               `form:"offset" filterField:"false"` // The offset of the first Account returned. Defaults to 0.
	Limit         int                `form:"limit" filterField:"false"`  // Maximum number of Accounts to return. Defaults to 50.
}

func (f AccountQueryFilter) model() models.Account {
	return models.Account{
		CondominiumID: f.CondominiumID.UUID,
		Type:          f.Type,
		Archived:      f.Archived,
	}
}

type BalanceQuery struct {
	Date types.Date `form:"date"` // The day to compute the balance for. Defaults to today.
}

type AccountBalance struct {
	Date    types.Date      `json:"date" example:"2024-03-31"`   // The balance includes all transactions on or before this day
	Balance decimal.Decimal `json:"balance" example:"2315.40"` // Balance at the end of the day
}
