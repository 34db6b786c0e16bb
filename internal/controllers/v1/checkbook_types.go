package v1

import (
	"fmt"
	"time"

	"github.com/condofin/backend/internal/models"
	ez_uuid "github.com/condofin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckbookEditable represents the parameters of a new checkbook
type CheckbookEditable struct {
	AccountID   uuid.UUID `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the bank account
	StartNumber int64     `json:"startNumber" example:"1001"`                               // First check number
	EndNumber   int64     `json:"endNumber" example:"1050"`                                 // Last check number
	Note        string    `json:"note" example:"Ordered in January"`                        // A longer description
}

func (editable CheckbookEditable) model() models.Checkbook {
	return models.Checkbook{
		AccountID:   editable.AccountID,
		StartNumber: editable.StartNumber,
		EndNumber:   editable.EndNumber,
		Note:        editable.Note,
	}
}

// CheckbookUpdateEditable contains the parameters that can be changed
// after a checkbook is created.
type CheckbookUpdateEditable struct {
	Status models.CheckbookStatus `json:"status" example:"cancelled"`         // One of active, exhausted, cancelled
	Note   string                 `json:"note" example:"Ordered in January"` // A longer description
}

func (editable CheckbookUpdateEditable) model() models.Checkbook {
	return models.Checkbook{
		Status: editable.Status,
		Note:   editable.Note,
	}
}

type CheckbookLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/checkbooks/0f2d8a71-1c1c-4a39-a4c4-59c0c30a3c55"`               // The checkbook itself
	Account string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`              // The bank account
	Checks  string `json:"checks" example:"https://example.com/api/v1/checks?checkbook=0f2d8a71-1c1c-4a39-a4c4-59c0c30a3c55"`       // Checks of the checkbook
}

type Checkbook struct {
	models.DefaultModel
	CheckbookEditable
	Links CheckbookLinks `json:"links"`

	CurrentNumber int64                  `json:"currentNumber" example:"1007"` // Next number to issue
	Status        models.CheckbookStatus `json:"status" example:"active"`      // One of active, exhausted, cancelled
}

func newCheckbook(c *gin.Context, model models.Checkbook) (Checkbook, error) {
	url := c.GetString(string(models.DBContextURL))

	return Checkbook{
		DefaultModel: model.DefaultModel,
		CheckbookEditable: CheckbookEditable{
			AccountID:   model.AccountID,
			StartNumber: model.StartNumber,
			EndNumber:   model.EndNumber,
			Note:        model.Note,
		},
		CurrentNumber: model.CurrentNumber,
		Status:        model.Status,
		Links: CheckbookLinks{
			Self:    fmt.Sprintf("%s/v1/checkbooks/%s", url, model.ID),
			Account: fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
			Checks:  fmt.Sprintf("%s/v1/checks?checkbook=%s", url, model.ID),
		},
	}, nil
}

type CheckbookQueryFilter struct {
	AccountID ez_uuid.UUID           `form:"account"`                    // By ID of the bank account
	Status    models.CheckbookStatus `form:"status"`                     // By status
	Offset    uint                   `form:"offset" filterField:"false"` // The offset of the first Checkbook returned. Defaults to 0.
	Limit     int                    `form:"limit" filterField:"false"`  // Maximum number of Checkbooks to return. Defaults to 50.
}

func (f CheckbookQueryFilter) model() models.Checkbook {
	return models.Checkbook{
		AccountID: f.AccountID.UUID,
		Status:    f.Status,
	}
}

// CheckEditable contains the parameters of a check that can be changed.
// Checks are issued by posting egresses.
type CheckEditable struct {
	Status models.CheckStatus `json:"status" example:"voided"`       // Available checks can be set to voided or lost
	Note   string             `json:"note" example:"Torn by mistake"` // A longer description
}

func (editable CheckEditable) model() models.Check {
	return models.Check{
		Status: editable.Status,
		Note:   editable.Note,
	}
}

type CheckLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/checks/5d7e9c7e-6a06-4f5c-a0b4-02a6b0d2f0cb"`          // The check itself
	Checkbook string `json:"checkbook" example:"https://example.com/api/v1/checkbooks/0f2d8a71-1c1c-4a39-a4c4-59c0c30a3c55"` // The checkbook of the check
}

type Check struct {
	models.DefaultModel
	CheckEditable
	Links CheckLinks `json:"links"`

	CheckbookID uuid.UUID       `json:"checkbookId" example:"0f2d8a71-1c1c-4a39-a4c4-59c0c30a3c55"` // ID of the checkbook
	Number      int64           `json:"number" example:"1006"`                                      // Check number
	Amount      decimal.Decimal `json:"amount" example:"350.00"`                                    // Amount of the egress the check paid
	Beneficiary string          `json:"beneficiary" example:"Elevadores C.A."`                      // Beneficiary of the egress
	IssuedAt    *time.Time      `json:"issuedAt" example:"2024-03-14T00:00:00Z"`                    // When the check was issued
	EgressID    *uuid.UUID      `json:"egressId" example:"1b6bbf3f-c2cc-4b7a-a5c9-0b8ac8e61c8e"`    // The egress the check paid
	Cashed      bool            `json:"cashed" example:"true"`                                      // Confirmed as cashed by a reconciliation
	CashedAt    *time.Time      `json:"cashedAt" example:"2024-04-02T10:00:00Z"`                    // When the reconciliation confirmed it
}

func newCheck(c *gin.Context, model models.Check) (Check, error) {
	url := c.GetString(string(models.DBContextURL))

	return Check{
		DefaultModel: model.DefaultModel,
		CheckEditable: CheckEditable{
			Status: model.Status,
			Note:   model.Note,
		},
		CheckbookID: model.CheckbookID,
		Number:      model.Number,
		Amount:      model.Amount,
		Beneficiary: model.Beneficiary,
		IssuedAt:    model.IssuedAt,
		EgressID:    model.EgressID,
		Cashed:      model.Cashed,
		CashedAt:    model.CashedAt,
		Links: CheckLinks{
			Self:      fmt.Sprintf("%s/v1/checks/%s", url, model.ID),
			Checkbook: fmt.Sprintf("%s/v1/checkbooks/%s", url, model.CheckbookID),
		},
	}, nil
}

type CheckQueryFilter struct {
	CheckbookID ez_uuid.UUID       `form:"checkbook"`                  // By ID of the checkbook
	Status      models.CheckStatus `form:"status"`                     // By status
	Number      int64              `form:"number"`                     // By number
	Cashed      bool               `form:"cashed"`                     // Is the check cashed?
	Offset      uint               `form:"offset" filterField:"false"` // The offset of the first Check returned. Defaults to 0.
	Limit       int                `form:"limit" filterField:"false"`  // Maximum number of Checks to return. Defaults to 50.
}

func (f CheckQueryFilter) model() models.Check {
	return models.Check{
		CheckbookID: f.CheckbookID.UUID,
		Status:      f.Status,
		Number:      f.Number,
		Cashed:      f.Cashed,
	}
}
