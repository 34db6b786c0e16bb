package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/auth"
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterVoucherRoutes registers the routes for petty cash vouchers with
// the RouterGroup that is passed.
func RegisterVoucherRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsVoucherList)
		r.GET("", GetVouchers)
		r.POST("", CreateVouchers)
	}

	// Voucher with ID
	{
		r.OPTIONS("/:id", OptionsVoucherDetail)
		r.GET("/:id", GetVoucher)
		r.PATCH("/:id", UpdateVoucher)
		r.OPTIONS("/:id/cancel", OptionsVoucherCancel)
		r.POST("/:id/cancel", CancelVoucher)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Petty Cash
// @Success		204
// @Router			/v1/vouchers [options]
func OptionsVoucherList(c *gin.Context) {
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
// @Router			/v1/vouchers/{id} [options]
func OptionsVoucherDetail(c *gin.Context) {
	resourceOptionsDetail[models.Voucher](c, httputil.OptionsGetPatch)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Petty Cash
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/vouchers/{id}/cancel [options]
func OptionsVoucherCancel(c *gin.Context) {
	resourceOptionsDetail[models.Voucher](c, httputil.OptionsPost)
}

// @Summary		Create vouchers
// @Description	Creates vouchers and posts an egress on the petty cash account for each of them
// @Tags			Petty Cash
// @Produce		json
// @Success		201			{object}	CreateResponse[Voucher]
// @Failure		400			{object}	CreateResponse[Voucher]
// @Failure		404			{object}	CreateResponse[Voucher]
// @Failure		500			{object}	CreateResponse[Voucher]
// @Param			vouchers	body		[]VoucherEditable	true	"Vouchers"
// @Router			/v1/vouchers [post]
func CreateVouchers(c *gin.Context) {
	createResources[VoucherEditable](c, newVoucher, func(c *gin.Context, v *models.Voucher) error {
		v.CreatedBy = auth.CurrentUser(c).Name()
		return models.DB.Create(v).Error
	})
}

// @Summary		Get vouchers
// @Description	Returns a list of vouchers, latest first
// @Tags			Petty Cash
// @Produce		json
// @Success		200	{object}	ListResponse[Voucher]
// @Failure		400	{object}	ListResponse[Voucher]
// @Failure		500	{object}	ListResponse[Voucher]
// @Router			/v1/vouchers [get]
// @Param			account			query	string	false	"Filter by petty cash account ID"
// @Param			status			query	string	false	"Filter by status"
// @Param			replenishment	query	string	false	"Filter by replenishment ID. Set to an empty value for vouchers that have not been replenished."
// @Param			fromDate		query	string	false	"Vouchers at and after this date"
// @Param			untilDate		query	string	false	"Vouchers before and at this date"
// @Param			offset			query	uint	false	"The offset of the first Voucher returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of Vouchers to return. Defaults to 50."
func GetVouchers(c *gin.Context) {
	var filter VoucherQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Voucher](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("date(vouchers.date) DESC, datetime(vouchers.created_at) DESC").
		Where(&filterModel, queryFields...)

	q = dateFilters(q, "vouchers.date", filter.FromDate, filter.UntilDate)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newVoucher)
}

// @Summary		Get voucher
// @Description	Returns a specific voucher
// @Tags			Petty Cash
// @Produce		json
// @Success		200	{object}	Response[Voucher]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/vouchers/{id} [get]
func GetVoucher(c *gin.Context) {
	getResource(c, newVoucher)
}

// @Summary		Update voucher
// @Description	Updates the beneficiary or description of a voucher. The amount cannot be changed, cancel the voucher instead.
// @Tags			Petty Cash
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Voucher]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			voucher	body		VoucherUpdateEditable	true	"Voucher"
// @Router			/v1/vouchers/{id} [patch]
func UpdateVoucher(c *gin.Context) {
	updateResource[VoucherUpdateEditable](c, newVoucher, nil)
}

// @Summary		Cancel voucher
// @Description	Cancels a pending voucher together with its egress
// @Tags			Petty Cash
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Voucher]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			request	body		CancelRequest	true	"Reason"
// @Router			/v1/vouchers/{id}/cancel [post]
func CancelVoucher(c *gin.Context) {
	voucher, ok := getModel[models.Voucher](c)
	if !ok {
		return
	}

	var data CancelRequest
	if err := httputil.BindData(c, &data); err != nil {
		abort(c, err)
		return
	}

	err := voucher.Cancel(models.DB, data.Reason, auth.CurrentUser(c).Name())
	if err != nil {
		abort(c, err)
		return
	}

	respond(c, http.StatusOK, voucher, newVoucher)
}
