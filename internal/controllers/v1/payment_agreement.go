package v1

import (
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterPaymentAgreementRoutes registers the routes for payment agreements with
// the RouterGroup that is passed.
func RegisterPaymentAgreementRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPaymentAgreementList)
		r.GET("", GetPaymentAgreements)
		r.POST("", CreatePaymentAgreements)
	}

	// Payment agreement with ID
	{
		r.OPTIONS("/:id", OptionsPaymentAgreementDetail)
		r.GET("/:id", GetPaymentAgreement)
		r.PATCH("/:id", UpdatePaymentAgreement)
		r.DELETE("/:id", DeletePaymentAgreement)
		r.OPTIONS("/:id/approve", OptionsPaymentAgreementTransition)
		r.POST("/:id/approve", ApprovePaymentAgreement)
		r.OPTIONS("/:id/cancel", OptionsPaymentAgreementTransition)
		r.POST("/:id/cancel", CancelPaymentAgreement)
		r.OPTIONS("/:id/manual-shares", OptionsPaymentAgreementManualShares)
		r.GET("/:id/manual-shares", GetPaymentAgreementManualShares)
		r.PUT("/:id/manual-shares", SetPaymentAgreementManualShares)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payment Agreements
// @Success		204
// @Router			/v1/payment-agreements [options]
func OptionsPaymentAgreementList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payment Agreements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payment-agreements/{id} [options]
func OptionsPaymentAgreementDetail(c *gin.Context) {
	resourceOptionsDetail[models.PaymentAgreement](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payment Agreements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payment-agreements/{id}/approve [options]
// @Router			/v1/payment-agreements/{id}/cancel [options]
func OptionsPaymentAgreementTransition(c *gin.Context) {
	resourceOptionsDetail[models.PaymentAgreement](c, httputil.OptionsPost)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payment Agreements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payment-agreements/{id}/manual-shares [options]
func OptionsPaymentAgreementManualShares(c *gin.Context) {
	resourceOptionsDetail[models.PaymentAgreement](c, httputil.OptionsGetPut)
}

// @Summary		Create payment agreements
// @Description	Creates draft payment agreements
// @Tags			Payment Agreements
// @Produce		json
// @Success		201		{object}	CreateResponse[PaymentAgreement]
// @Failure		400		{object}	CreateResponse[PaymentAgreement]
// @Failure		404		{object}	CreateResponse[PaymentAgreement]
// @Failure		500		{object}	CreateResponse[PaymentAgreement]
// @Param			agreements	body		[]PaymentAgreementEditable	true	"Payment agreements"
// @Router			/v1/payment-agreements [post]
func CreatePaymentAgreements(c *gin.Context) {
	createResources[PaymentAgreementEditable](c, newPaymentAgreement, createPlan[models.PaymentAgreement, *models.PaymentAgreement])
}

// @Summary		Get payment agreements
// @Description	Returns a list of payment agreements
// @Tags			Payment Agreements
// @Produce		json
// @Success		200	{object}	ListResponse[PaymentAgreement]
// @Failure		400	{object}	ListResponse[PaymentAgreement]
// @Failure		500	{object}	ListResponse[PaymentAgreement]
// @Router			/v1/payment-agreements [get]
// @Param			condominium			query	string	false	"Filter by condominium ID"
// @Param			status				query	string	false	"Filter by status"
// @Param			distributionMethod	query	string	false	"Filter by distribution method"
// @Param			unit				query	string	false	"Filter by unit ID"
// @Param			name				query	string	false	"Filter by name"
// @Param			note				query	string	false	"Filter by note"
// @Param			search				query	string	false	"Search for this text in name and note"
// @Param			offset				query	uint	false	"The offset of the first PaymentAgreement returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of PaymentAgreements to return. Defaults to 50."
func GetPaymentAgreements(c *gin.Context) {
	var filter PaymentAgreementQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[PaymentAgreement](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := planQuery(models.DB.Where(&filterModel, queryFields...), filter.PlanQueryFilter, setFields)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newPaymentAgreement)
}

// @Summary		Get payment agreement
// @Description	Returns a specific payment agreement
// @Tags			Payment Agreements
// @Produce		json
// @Success		200	{object}	Response[PaymentAgreement]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payment-agreements/{id} [get]
func GetPaymentAgreement(c *gin.Context) {
	getResource(c, newPaymentAgreement)
}

// @Summary		Update payment agreement
// @Description	Updates a draft payment agreement. Only values to be updated need to be specified.
// @Tags			Payment Agreements
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[PaymentAgreement]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			agreement	body		PaymentAgreementEditable	true	"Payment agreement"
// @Router			/v1/payment-agreements/{id} [patch]
func UpdatePaymentAgreement(c *gin.Context) {
	updateResource[PaymentAgreementEditable](c, newPaymentAgreement, nil)
}

// @Summary		Delete payment agreement
// @Description	Deletes a payment agreement that has no charges
// @Tags			Payment Agreements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payment-agreements/{id} [delete]
func DeletePaymentAgreement(c *gin.Context) {
	deleteResource[models.PaymentAgreement](c)
}

// @Summary		Approve payment agreement
// @Description	Creates one charge per installment for the debtor unit
// @Tags			Payment Agreements
// @Produce		json
// @Success		200	{object}	Response[Approval[PaymentAgreement]]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payment-agreements/{id}/approve [post]
func ApprovePaymentAgreement(c *gin.Context) {
	approvePlan[models.PaymentAgreement, PaymentAgreement, *models.PaymentAgreement](c, newPaymentAgreement)
}

// @Summary		Cancel payment agreement
// @Description	Cancels the payment agreement and all of its pending charges
// @Tags			Payment Agreements
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[PaymentAgreement]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			request	body		CancelRequest	true	"Reason"
// @Router			/v1/payment-agreements/{id}/cancel [post]
func CancelPaymentAgreement(c *gin.Context) {
	cancelPlan[models.PaymentAgreement, PaymentAgreement, *models.PaymentAgreement](c, newPaymentAgreement)
}

// @Summary		Get manual shares
// @Description	Returns the manual amounts per unit of a payment agreement
// @Tags			Payment Agreements
// @Produce		json
// @Success		200	{object}	ListResponse[ManualShare]
// @Failure		400	{object}	ListResponse[ManualShare]
// @Failure		404	{object}	ListResponse[ManualShare]
// @Failure		500	{object}	ListResponse[ManualShare]
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payment-agreements/{id}/manual-shares [get]
func GetPaymentAgreementManualShares(c *gin.Context) {
	getManualShares[models.PaymentAgreement, *models.PaymentAgreement](c)
}

// @Summary		Set manual shares
// @Description	Payment agreements always use equal shares, so this only fails with a descriptive error
// @Tags			Payment Agreements
// @Accept			json
// @Produce		json
// @Success		200		{object}	ListResponse[ManualShare]
// @Failure		400		{object}	ListResponse[ManualShare]
// @Failure		404		{object}	ListResponse[ManualShare]
// @Failure		500		{object}	ListResponse[ManualShare]
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			shares	body		[]ManualShareEditable	true	"Manual shares"
// @Router			/v1/payment-agreements/{id}/manual-shares [put]
func SetPaymentAgreementManualShares(c *gin.Context) {
	setManualShares[models.PaymentAgreement, *models.PaymentAgreement](c)
}
