package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/auth"
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterChargeRoutes registers the routes for charges with
// the RouterGroup that is passed.
func RegisterChargeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsChargeList)
		r.GET("", GetCharges)
	}

	// Charge with ID
	{
		r.OPTIONS("/:id", OptionsChargeDetail)
		r.GET("/:id", GetCharge)
		r.OPTIONS("/:id/cancel", OptionsChargeCancel)
		r.POST("/:id/cancel", CancelCharge)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Charges
// @Success		204
// @Router			/v1/charges [options]
func OptionsChargeList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Charges
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/charges/{id} [options]
func OptionsChargeDetail(c *gin.Context) {
	resourceOptionsDetail[models.Charge](c, httputil.OptionsGet)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Charges
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/charges/{id}/cancel [options]
func OptionsChargeCancel(c *gin.Context) {
	resourceOptionsDetail[models.Charge](c, httputil.OptionsPost)
}

// @Summary		Get charges
// @Description	Returns a list of charges ordered by due date
// @Tags			Charges
// @Produce		json
// @Success		200	{object}	ListResponse[Charge]
// @Failure		400	{object}	ListResponse[Charge]
// @Failure		500	{object}	ListResponse[Charge]
// @Router			/v1/charges [get]
// @Param			sourceType	query	string	false	"Filter by type of the plan"
// @Param			source		query	string	false	"Filter by plan ID"
// @Param			unit		query	string	false	"Filter by unit ID"
// @Param			status		query	string	false	"Filter by status"
// @Param			batch		query	string	false	"Filter by approval batch ID"
// @Param			fromDate	query	string	false	"Due on or after this date"
// @Param			untilDate	query	string	false	"Due on or before this date"
// @Param			offset		query	uint	false	"The offset of the first Charge returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Charges to return. Defaults to 50."
func GetCharges(c *gin.Context) {
	var filter ChargeQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Charge](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("date(due_date) ASC, installment_number ASC, unit_id ASC").
		Where(&filterModel, queryFields...)

	q = dateFilters(q, "due_date", filter.FromDate, filter.UntilDate)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newCharge)
}

// @Summary		Get charge
// @Description	Returns a specific charge
// @Tags			Charges
// @Produce		json
// @Success		200	{object}	Response[Charge]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/charges/{id} [get]
func GetCharge(c *gin.Context) {
	getResource(c, newCharge)
}

// @Summary		Cancel charge
// @Description	Cancels a single pending charge
// @Tags			Charges
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Charge]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			request	body		CancelRequest	true	"Reason"
// @Router			/v1/charges/{id}/cancel [post]
func CancelCharge(c *gin.Context) {
	charge, ok := getModel[models.Charge](c)
	if !ok {
		return
	}

	var data CancelRequest
	if err := httputil.BindData(c, &data); err != nil {
		abort(c, err)
		return
	}

	err := charge.Cancel(models.DB, data.Reason, auth.CurrentUser(c).Name())
	if err != nil {
		abort(c, err)
		return
	}

	respond(c, http.StatusOK, charge, newCharge)
}
