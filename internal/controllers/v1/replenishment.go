package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/auth"
	"github.com/condofin/backend/internal/events"
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterReplenishmentRoutes registers the routes for petty cash
// replenishments with the RouterGroup that is passed.
func RegisterReplenishmentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsReplenishmentList)
		r.GET("", GetReplenishments)
		r.POST("", CreateReplenishment)
	}

	// Replenishment with ID
	{
		r.OPTIONS("/:id", OptionsReplenishmentDetail)
		r.GET("/:id", GetReplenishment)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Petty Cash
// @Success		204
// @Router			/v1/replenishments [options]
func OptionsReplenishmentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Petty Cash
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/replenishments/{id} [options]
func OptionsReplenishmentDetail(c *gin.Context) {
	resourceOptionsDetail[models.Replenishment](c, httputil.OptionsGet)
}

// @Summary		Replenish petty cash
// @Description	Transfers the sum of all pending vouchers from a bank account to the petty cash account and marks the vouchers as replenished
// @Tags			Petty Cash
// @Accept			json
// @Produce		json
// @Success		201				{object}	Response[ReplenishmentResult]
// @Failure		400				{object}	httpError
// @Failure		404				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			replenishment	body		ReplenishmentEditable	true	"Replenishment"
// @Router			/v1/replenishments [post]
func CreateReplenishment(c *gin.Context) {
	var data ReplenishmentEditable
	if err := httputil.BindData(c, &data); err != nil {
		abort(c, err)
		return
	}

	user := auth.CurrentUser(c).Name()
	replenishment, vouchers, err := models.Replenish(models.DB, data.PettyCashAccountID, data.SourceAccountID, data.Date, user)
	if err != nil {
		abort(c, err)
		return
	}

	events.Emit(c.Request.Context(), events.PettyCashReplenished, pettyCashReplenished{
		ID:                 replenishment.ID,
		PettyCashAccountID: replenishment.PettyCashAccountID,
		SourceAccountID:    replenishment.SourceAccountID,
		Amount:             replenishment.Amount,
		Vouchers:           len(vouchers),
		User:               user,
	})

	result := ReplenishmentResult{
		Vouchers: make([]Voucher, 0, len(vouchers)),
	}

	result.Replenishment, err = newReplenishment(c, replenishment)
	if err != nil {
		abort(c, err)
		return
	}

	for _, v := range vouchers {
		voucher, err := newVoucher(c, v)
		if err != nil {
			abort(c, err)
			return
		}
		result.Vouchers = append(result.Vouchers, voucher)
	}

	c.JSON(http.StatusCreated, Response[ReplenishmentResult]{Data: &result})
}

// @Summary		Get replenishments
// @Description	Returns a list of replenishments, latest first
// @Tags			Petty Cash
// @Produce		json
// @Success		200	{object}	ListResponse[Replenishment]
// @Failure		400	{object}	ListResponse[Replenishment]
// @Failure		500	{object}	ListResponse[Replenishment]
// @Router			/v1/replenishments [get]
// @Param			pettyCashAccount	query	string	false	"Filter by petty cash account ID"
// @Param			sourceAccount		query	string	false	"Filter by source account ID"
// @Param			offset				query	uint	false	"The offset of the first Replenishment returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of Replenishments to return. Defaults to 50."
func GetReplenishments(c *gin.Context) {
	var filter ReplenishmentQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Replenishment](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("date(date) DESC, datetime(created_at) DESC").
		Where(&filterModel, queryFields...)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newReplenishment)
}

// @Summary		Get replenishment
// @Description	Returns a specific replenishment
// @Tags			Petty Cash
// @Produce		json
// @Success		200	{object}	Response[Replenishment]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/replenishments/{id} [get]
func GetReplenishment(c *gin.Context) {
	getResource(c, newReplenishment)
}
