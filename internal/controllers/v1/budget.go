package v1

import (
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterBudgetRoutes registers the routes for budgets with
// the RouterGroup that is passed.
func RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetList)
		r.GET("", GetBudgets)
		r.POST("", CreateBudgets)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", OptionsBudgetDetail)
		r.GET("/:id", GetBudget)
		r.PATCH("/:id", UpdateBudget)
		r.DELETE("/:id", DeleteBudget)
		r.OPTIONS("/:id/approve", OptionsBudgetTransition)
		r.POST("/:id/approve", ApproveBudget)
		r.OPTIONS("/:id/cancel", OptionsBudgetTransition)
		r.POST("/:id/cancel", CancelBudget)
		r.OPTIONS("/:id/manual-shares", OptionsBudgetManualShares)
		r.GET("/:id/manual-shares", GetBudgetManualShares)
		r.PUT("/:id/manual-shares", SetBudgetManualShares)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Router			/v1/budgets [options]
func OptionsBudgetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [options]
func OptionsBudgetDetail(c *gin.Context) {
	resourceOptionsDetail[models.Budget](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/approve [options]
// @Router			/v1/budgets/{id}/cancel [options]
func OptionsBudgetTransition(c *gin.Context) {
	resourceOptionsDetail[models.Budget](c, httputil.OptionsPost)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/manual-shares [options]
func OptionsBudgetManualShares(c *gin.Context) {
	resourceOptionsDetail[models.Budget](c, httputil.OptionsGetPut)
}

// @Summary		Create budgets
// @Description	Creates draft budgets
// @Tags			Budgets
// @Produce		json
// @Success		201		{object}	CreateResponse[Budget]
// @Failure		400		{object}	CreateResponse[Budget]
// @Failure		404		{object}	CreateResponse[Budget]
// @Failure		500		{object}	CreateResponse[Budget]
// @Param			budgets	body		[]BudgetEditable	true	"Budgets"
// @Router			/v1/budgets [post]
func CreateBudgets(c *gin.Context) {
	createResources[BudgetEditable](c, newBudget, createPlan[models.Budget, *models.Budget])
}

// @Summary		Get budgets
// @Description	Returns a list of budgets
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	ListResponse[Budget]
// @Failure		400	{object}	ListResponse[Budget]
// @Failure		500	{object}	ListResponse[Budget]
// @Router			/v1/budgets [get]
// @Param			condominium			query	string	false	"Filter by condominium ID"
// @Param			status				query	string	false	"Filter by status"
// @Param			distributionMethod	query	string	false	"Filter by distribution method"
// @Param			year				query	int		false	"Filter by year"
// @Param			name				query	string	false	"Filter by name"
// @Param			note				query	string	false	"Filter by note"
// @Param			search				query	string	false	"Search for this text in name and note"
// @Param			offset				query	uint	false	"The offset of the first Budget returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of Budgets to return. Defaults to 50."
func GetBudgets(c *gin.Context) {
	var filter BudgetQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Budget](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := planQuery(models.DB.Where(&filterModel, queryFields...), filter.PlanQueryFilter, setFields)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newBudget)
}

// @Summary		Get budget
// @Description	Returns a specific budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	Response[Budget]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [get]
func GetBudget(c *gin.Context) {
	getResource(c, newBudget)
}

// @Summary		Update budget
// @Description	Updates a draft budget. Only values to be updated need to be specified.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Budget]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budgets/{id} [patch]
func UpdateBudget(c *gin.Context) {
	updateResource[BudgetEditable](c, newBudget, nil)
}

// @Summary		Delete budget
// @Description	Deletes a budget that has no charges
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id} [delete]
func DeleteBudget(c *gin.Context) {
	deleteResource[models.Budget](c)
}

// @Summary		Approve budget
// @Description	Distributes the budget across the active units and creates one charge per unit and installment
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	Response[Approval[Budget]]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/approve [post]
func ApproveBudget(c *gin.Context) {
	approvePlan[models.Budget, Budget, *models.Budget](c, newBudget)
}

// @Summary		Cancel budget
// @Description	Cancels the budget and all of its pending charges
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Budget]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			request	body		CancelRequest	true	"Reason"
// @Router			/v1/budgets/{id}/cancel [post]
func CancelBudget(c *gin.Context) {
	cancelPlan[models.Budget, Budget, *models.Budget](c, newBudget)
}

// @Summary		Get manual shares
// @Description	Returns the manual amounts per unit of a budget
// @Tags			Budgets
// @Produce		json
// @Success		200	{object}	ListResponse[ManualShare]
// @Failure		400	{object}	ListResponse[ManualShare]
// @Failure		404	{object}	ListResponse[ManualShare]
// @Failure		500	{object}	ListResponse[ManualShare]
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/manual-shares [get]
func GetBudgetManualShares(c *gin.Context) {
	getManualShares[models.Budget, *models.Budget](c)
}

// @Summary		Set manual shares
// @Description	Replaces the manual amounts per unit of a draft budget using the manual distribution method
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	ListResponse[ManualShare]
// @Failure		400		{object}	ListResponse[ManualShare]
// @Failure		404		{object}	ListResponse[ManualShare]
// @Failure		500		{object}	ListResponse[ManualShare]
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			shares	body		[]ManualShareEditable	true	"Manual shares"
// @Router			/v1/budgets/{id}/manual-shares [put]
func SetBudgetManualShares(c *gin.Context) {
	setManualShares[models.Budget, *models.Budget](c)
}
