package v1

import (
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterExtraordinaryPlanRoutes registers the routes for extraordinary plans with
// the RouterGroup that is passed.
func RegisterExtraordinaryPlanRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExtraordinaryPlanList)
		r.GET("", GetExtraordinaryPlans)
		r.POST("", CreateExtraordinaryPlans)
	}

	// Extraordinary plan with ID
	{
		r.OPTIONS("/:id", OptionsExtraordinaryPlanDetail)
		r.GET("/:id", GetExtraordinaryPlan)
		r.PATCH("/:id", UpdateExtraordinaryPlan)
		r.DELETE("/:id", DeleteExtraordinaryPlan)
		r.OPTIONS("/:id/approve", OptionsExtraordinaryPlanTransition)
		r.POST("/:id/approve", ApproveExtraordinaryPlan)
		r.OPTIONS("/:id/cancel", OptionsExtraordinaryPlanTransition)
		r.POST("/:id/cancel", CancelExtraordinaryPlan)
		r.OPTIONS("/:id/manual-shares", OptionsExtraordinaryPlanManualShares)
		r.GET("/:id/manual-shares", GetExtraordinaryPlanManualShares)
		r.PUT("/:id/manual-shares", SetExtraordinaryPlanManualShares)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Extraordinary Plans
// @Success		204
// @Router			/v1/extraordinary-plans [options]
func OptionsExtraordinaryPlanList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Extraordinary Plans
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/extraordinary-plans/{id} [options]
func OptionsExtraordinaryPlanDetail(c *gin.Context) {
	resourceOptionsDetail[models.ExtraordinaryPlan](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Extraordinary Plans
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/extraordinary-plans/{id}/approve [options]
// @Router			/v1/extraordinary-plans/{id}/cancel [options]
func OptionsExtraordinaryPlanTransition(c *gin.Context) {
	resourceOptionsDetail[models.ExtraordinaryPlan](c, httputil.OptionsPost)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Extraordinary Plans
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/extraordinary-plans/{id}/manual-shares [options]
func OptionsExtraordinaryPlanManualShares(c *gin.Context) {
	resourceOptionsDetail[models.ExtraordinaryPlan](c, httputil.OptionsGetPut)
}

// @Summary		Create extraordinary plans
// @Description	Creates draft extraordinary plans
// @Tags			Extraordinary Plans
// @Produce		json
// @Success		201		{object}	CreateResponse[ExtraordinaryPlan]
// @Failure		400		{object}	CreateResponse[ExtraordinaryPlan]
// @Failure		404		{object}	CreateResponse[ExtraordinaryPlan]
// @Failure		500		{object}	CreateResponse[ExtraordinaryPlan]
// @Param			plans	body		[]ExtraordinaryPlanEditable	true	"Extraordinary plans"
// @Router			/v1/extraordinary-plans [post]
func CreateExtraordinaryPlans(c *gin.Context) {
	createResources[ExtraordinaryPlanEditable](c, newExtraordinaryPlan, createPlan[models.ExtraordinaryPlan, *models.ExtraordinaryPlan])
}

// @Summary		Get extraordinary plans
// @Description	Returns a list of extraordinary plans
// @Tags			Extraordinary Plans
// @Produce		json
// @Success		200	{object}	ListResponse[ExtraordinaryPlan]
// @Failure		400	{object}	ListResponse[ExtraordinaryPlan]
// @Failure		500	{object}	ListResponse[ExtraordinaryPlan]
// @Router			/v1/extraordinary-plans [get]
// @Param			condominium			query	string	false	"Filter by condominium ID"
// @Param			status				query	string	false	"Filter by status"
// @Param			distributionMethod	query	string	false	"Filter by distribution method"
// @Param			name				query	string	false	"Filter by name"
// @Param			note				query	string	false	"Filter by note"
// @Param			search				query	string	false	"Search for this text in name and note"
// @Param			offset				query	uint	false	"The offset of the first ExtraordinaryPlan returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of ExtraordinaryPlans to return. Defaults to 50."
func GetExtraordinaryPlans(c *gin.Context) {
	var filter PlanQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[ExtraordinaryPlan](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := models.ExtraordinaryPlan{InstallmentPlan: filter.plan()}
	q := planQuery(models.DB.Where(&filterModel, queryFields...), filter, setFields)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newExtraordinaryPlan)
}

// @Summary		Get extraordinary plan
// @Description	Returns a specific extraordinary plan
// @Tags			Extraordinary Plans
// @Produce		json
// @Success		200	{object}	Response[ExtraordinaryPlan]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/extraordinary-plans/{id} [get]
func GetExtraordinaryPlan(c *gin.Context) {
	getResource(c, newExtraordinaryPlan)
}

// @Summary		Update extraordinary plan
// @Description	Updates a draft extraordinary plan. Only values to be updated need to be specified.
// @Tags			Extraordinary Plans
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[ExtraordinaryPlan]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			plan	body		ExtraordinaryPlanEditable	true	"Extraordinary plan"
// @Router			/v1/extraordinary-plans/{id} [patch]
func UpdateExtraordinaryPlan(c *gin.Context) {
	updateResource[ExtraordinaryPlanEditable](c, newExtraordinaryPlan, nil)
}

// @Summary		Delete extraordinary plan
// @Description	Deletes an extraordinary plan that has no charges
// @Tags			Extraordinary Plans
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/extraordinary-plans/{id} [delete]
func DeleteExtraordinaryPlan(c *gin.Context) {
	deleteResource[models.ExtraordinaryPlan](c)
}

// @Summary		Approve extraordinary plan
// @Description	Distributes the extraordinary plan across the active units and creates one charge per unit and installment
// @Tags			Extraordinary Plans
// @Produce		json
// @Success		200	{object}	Response[Approval[ExtraordinaryPlan]]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/extraordinary-plans/{id}/approve [post]
func ApproveExtraordinaryPlan(c *gin.Context) {
	approvePlan[models.ExtraordinaryPlan, ExtraordinaryPlan, *models.ExtraordinaryPlan](c, newExtraordinaryPlan)
}

// @Summary		Cancel extraordinary plan
// @Description	Cancels the extraordinary plan and all of its pending charges
// @Tags			Extraordinary Plans
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[ExtraordinaryPlan]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			request	body		CancelRequest	true	"Reason"
// @Router			/v1/extraordinary-plans/{id}/cancel [post]
func CancelExtraordinaryPlan(c *gin.Context) {
	cancelPlan[models.ExtraordinaryPlan, ExtraordinaryPlan, *models.ExtraordinaryPlan](c, newExtraordinaryPlan)
}

// @Summary		Get manual shares
// @Description	Returns the manual amounts per unit of an extraordinary plan
// @Tags			Extraordinary Plans
// @Produce		json
// @Success		200	{object}	ListResponse[ManualShare]
// @Failure		400	{object}	ListResponse[ManualShare]
// @Failure		404	{object}	ListResponse[ManualShare]
// @Failure		500	{object}	ListResponse[ManualShare]
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/extraordinary-plans/{id}/manual-shares [get]
func GetExtraordinaryPlanManualShares(c *gin.Context) {
	getManualShares[models.ExtraordinaryPlan, *models.ExtraordinaryPlan](c)
}

// @Summary		Set manual shares
// @Description	Replaces the manual amounts per unit of a draft extraordinary plan using the manual distribution method
// @Tags			Extraordinary Plans
// @Accept			json
// @Produce		json
// @Success		200		{object}	ListResponse[ManualShare]
// @Failure		400		{object}	ListResponse[ManualShare]
// @Failure		404		{object}	ListResponse[ManualShare]
// @Failure		500		{object}	ListResponse[ManualShare]
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			shares	body		[]ManualShareEditable	true	"Manual shares"
// @Router			/v1/extraordinary-plans/{id}/manual-shares [put]
func SetExtraordinaryPlanManualShares(c *gin.Context) {
	setManualShares[models.ExtraordinaryPlan, *models.ExtraordinaryPlan](c)
}
