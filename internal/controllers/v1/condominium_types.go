package v1

import (
	"fmt"

	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// CondominiumEditable represents all user configurable parameters
type CondominiumEditable struct {
	Name     string `json:"name" example:"Residencias El Parque"`                 // Name of the condominium
	Note     string `json:"note" example:"Tower B, administered since 2019"`      // A longer description
	Locale   string `json:"locale" example:"es-VE"`                               // BCP 47 language tag
	Currency string `json:"currency" example:"VES" default:"derived from locale"` // ISO 4217 code. Derived from the locale when empty
}

func (editable CondominiumEditable) model() models.Condominium {
	return models.Condominium{
		Name:     editable.Name,
		Note:     editable.Note,
		Locale:   editable.Locale,
		Currency: editable.Currency,
	}
}

type CondominiumLinks struct {
	Self               string `json:"self" example:"https://example.com/api/v1/condominiums/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                          // The condominium itself
	Units              string `json:"units" example:"https://example.com/api/v1/units?condominium=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                    // Units of the condominium
	Accounts           string `json:"accounts" example:"https://example.com/api/v1/accounts?condominium=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`              // Accounts of the condominium
	Budgets            string `json:"budgets" example:"https://example.com/api/v1/budgets?condominium=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                // Budgets of the condominium
	ExtraordinaryPlans string `json:"extraordinaryPlans" example:"https://example.com/api/v1/extraordinary-plans?condominium=550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // Extraordinary plans of the condominium
	PaymentAgreements  string `json:"paymentAgreements" example:"https://example.com/api/v1/payment-agreements?condominium=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`   // Payment agreements of the condominium
}

type Condominium struct {
	models.DefaultModel
	CondominiumEditable
	Links CondominiumLinks `json:"links"`
}

func newCondominium(c *gin.Context, model models.Condominium) (Condominium, error) {
	url := c.GetString(string(models.DBContextURL))

	return Condominium{
		DefaultModel: model.DefaultModel,
		CondominiumEditable: CondominiumEditable{
			Name:     model.Name,
			Note:     model.Note,
			Locale:   model.Locale,
			Currency: model.Currency,
		},
		Links: CondominiumLinks{
			Self:               fmt.Sprintf("%s/v1/condominiums/%s", url, model.ID),
			Units:              fmt.Sprintf("%s/v1/units?condominium=%s", url, model.ID),
			Accounts:           fmt.Sprintf("%s/v1/accounts?condominium=%s", url, model.ID),
			Budgets:            fmt.Sprintf("%s/v1/budgets?condominium=%s", url, model.ID),
			ExtraordinaryPlans: fmt.Sprintf("%s/v1/extraordinary-plans?condominium=%s", url, model.ID),
			PaymentAgreements:  fmt.Sprintf("%s/v1/payment-agreements?condominium=%s", url, model.ID),
		},
	}, nil
}

type CondominiumQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // By name
	Note     string `form:"note" filterField:"false"`   // By note
	Locale   string `form:"locale"`                     // By locale
	Currency string `form:"currency"`                   // By currency
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Condominium returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Condominiums to return. Defaults to 50.
}

func (f CondominiumQueryFilter) model() models.Condominium {
	return models.Condominium{
		Locale:   f.Locale,
		Currency: f.Currency,
	}
}
