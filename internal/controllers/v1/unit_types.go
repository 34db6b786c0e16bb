package v1

import (
	"fmt"

	"github.com/condofin/backend/internal/models"
	ez_uuid "github.com/condofin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitEditable represents all user configurable parameters
type UnitEditable struct {
	CondominiumID uuid.UUID         `json:"condominiumId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the condominium the unit belongs to
	Number        string            `json:"number" example:"B-12"`                                        // Number of the unit, unique per condominium
	Owner         string            `json:"owner" example:"María Pérez"`                                  // Name of the owner
	Note          string            `json:"note" example:"Penthouse with roof terrace"`                   // A longer description
	Aliquot       decimal.Decimal   `json:"aliquot" example:"2.35"`                                       // Percentage share of the condominium
	Status        models.UnitStatus `json:"status" example:"active" default:"active"`                     // Only active units take part in distributions
}

func (editable UnitEditable) model() models.Unit {
	return models.Unit{
		CondominiumID: editable.CondominiumID,
		Number:        editable.Number,
		Owner:         editable.Owner,
		Note:          editable.Note,
		Aliquot:       editable.Aliquot,
		Status:        editable.Status,
	}
}

type UnitLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/units/9c1c49e4-5e3a-4e41-8a8e-1b2b5b8ad9f4"`                // The unit itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?unit=9c1c49e4-5e3a-4e41-8a8e-1b2b5b8ad9f4"` // Payments received from the unit
	Charges      string `json:"charges" example:"https://example.com/api/v1/charges?unit=9c1c49e4-5e3a-4e41-8a8e-1b2b5b8ad9f4"`           // Charges of the unit
}

type Unit struct {
	models.DefaultModel
	UnitEditable
	Links UnitLinks `json:"links"`
}

func newUnit(c *gin.Context, model models.Unit) (Unit, error) {
	url := c.GetString(string(models.DBContextURL))

	return Unit{
		DefaultModel: model.DefaultModel,
		UnitEditable: UnitEditable{
			CondominiumID: model.CondominiumID,
			Number:        model.Number,
			Owner:         model.Owner,
			Note:          model.Note,
			Aliquot:       model.Aliquot,
			Status:        model.Status,
		},
		Links: UnitLinks{
			Self:         fmt.Sprintf("%s/v1/units/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?unit=%s", url, model.ID),
			Charges:      fmt.Sprintf("%s/v1/charges?unit=%s", url, model.ID),
		},
	}, nil
}

type UnitQueryFilter struct {
	CondominiumID ez_uuid.UUID      `form:"condominium"`                // By ID of the condominium
	Number        string            `form:"number"`                     // By exact number
	Owner         string            `form:"owner" filterField:"false"`  // By owner
	Note          string            `form:"note" filterField:"false"`   // By note
	Status        models.UnitStatus `form:"status"`                     // By status
	Offset        uint              `form:"offset" filterField:"false"` // The offset of the first Unit returned. Defaults to 0.
	Limit         int               `form:"limit" filterField:"false"`  // Maximum number of Units to return. Defaults to 50.
}

func (f UnitQueryFilter) model() models.Unit {
	return models.Unit{
		CondominiumID: f.CondominiumID.UUID,
		Number:        f.Number,
		Status:        f.Status,
	}
}
