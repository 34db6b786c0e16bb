package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.DELETE("", Cleanup)
	r.OPTIONS("", Options)
}

type RootResponse struct {
	Links RootLinks `json:"links"` // Links for the v1 API
}

type RootLinks struct {
	Condominiums       string `json:"condominiums" example:"https://example.com/api/v1/condominiums"`              // URL of Condominium collection endpoint
	Units              string `json:"units" example:"https://example.com/api/v1/units"`                            // URL of Unit collection endpoint
	Accounts           string `json:"accounts" example:"https://example.com/api/v1/accounts"`                      // URL of Account collection endpoint
	Transactions       string `json:"transactions" example:"https://example.com/api/v1/transactions"`              // URL of Transaction collection endpoint
	Transfers          string `json:"transfers" example:"https://example.com/api/v1/transfers"`                    // URL of Transfer endpoint
	Checkbooks         string `json:"checkbooks" example:"https://example.com/api/v1/checkbooks"`                  // URL of Checkbook collection endpoint
	Checks             string `json:"checks" example:"https://example.com/api/v1/checks"`                          // URL of Check collection endpoint
	Reconciliations    string `json:"reconciliations" example:"https://example.com/api/v1/reconciliations"`        // URL of Reconciliation collection endpoint
	Budgets            string `json:"budgets" example:"https://example.com/api/v1/budgets"`                        // URL of Budget collection endpoint
	ExtraordinaryPlans string `json:"extraordinaryPlans" example:"https://example.com/api/v1/extraordinary-plans"` // URL of Extraordinary Plan collection endpoint
	PaymentAgreements  string `json:"paymentAgreements" example:"https://example.com/api/v1/payment-agreements"`   // URL of Payment Agreement collection endpoint
	Charges            string `json:"charges" example:"https://example.com/api/v1/charges"`                        // URL of Charge collection endpoint
	Vouchers           string `json:"vouchers" example:"https://example.com/api/v1/vouchers"`                      // URL of Voucher collection endpoint
	Replenishments     string `json:"replenishments" example:"https://example.com/api/v1/replenishments"`          // URL of Replenishment collection endpoint
	Export             string `json:"export" example:"https://example.com/api/v1/export"`                          // URL of the export endpoint
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	RootResponse
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL)) + "/v1"

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Condominiums:       url + "/condominiums",
			Units:              url + "/units",
			Accounts:           url + "/accounts",
			Transactions:       url + "/transactions",
			Transfers:          url + "/transfers",
			Checkbooks:         url + "/checkbooks",
			Checks:             url + "/checks",
			Reconciliations:    url + "/reconciliations",
			Budgets:            url + "/budgets",
			ExtraordinaryPlans: url + "/extraordinary-plans",
			PaymentAgreements:  url + "/payment-agreements",
			Charges:            url + "/charges",
			Vouchers:           url + "/vouchers",
			Replenishments:     url + "/replenishments",
			Export:             url + "/export",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}

// @Summary		Delete everything
// @Description	Permanently deletes all resources
// @Tags			v1
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			confirm	query		string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	var params struct {
		Confirm string `form:"confirm"`
	}

	err := c.ShouldBindQuery(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		abort(c, errCleanupConfirmation)
		return
	}

	// Hooks are skipped, they guard single deletions
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range models.Registry {
			err := tx.Session(&gorm.Session{SkipHooks: true}).Where("true").Delete(&model).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
