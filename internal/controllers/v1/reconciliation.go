package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/auth"
	"github.com/condofin/backend/internal/events"
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterReconciliationRoutes registers the routes for reconciliations with
// the RouterGroup that is passed.
func RegisterReconciliationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsReconciliationList)
		r.GET("", GetReconciliations)
		r.POST("", CreateReconciliations)
	}

	// Reconciliation with ID
	{
		r.OPTIONS("/:id", OptionsReconciliationDetail)
		r.GET("/:id", GetReconciliation)
		r.PATCH("/:id", UpdateReconciliation)
		r.DELETE("/:id", DeleteReconciliation)
		r.OPTIONS("/:id/candidates", OptionsReconciliationCandidates)
		r.GET("/:id/candidates", GetReconciliationCandidates)
		r.OPTIONS("/:id/items", OptionsReconciliationItems)
		r.GET("/:id/items", GetReconciliationItems)
		r.PUT("/:id/items", SaveReconciliationItems)
		r.OPTIONS("/:id/finalize", OptionsReconciliationTransition)
		r.POST("/:id/finalize", FinalizeReconciliation)
		r.OPTIONS("/:id/close", OptionsReconciliationTransition)
		r.POST("/:id/close", CloseReconciliation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliations
// @Success		204
// @Router			/v1/reconciliations [options]
func OptionsReconciliationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id} [options]
func OptionsReconciliationDetail(c *gin.Context) {
	resourceOptionsDetail[models.Reconciliation](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id}/candidates [options]
func OptionsReconciliationCandidates(c *gin.Context) {
	resourceOptionsDetail[models.Reconciliation](c, httputil.OptionsGet)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id}/items [options]
func OptionsReconciliationItems(c *gin.Context) {
	resourceOptionsDetail[models.Reconciliation](c, httputil.OptionsGetPut)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id}/finalize [options]
// @Router			/v1/reconciliations/{id}/close [options]
func OptionsReconciliationTransition(c *gin.Context) {
	resourceOptionsDetail[models.Reconciliation](c, httputil.OptionsPost)
}

// @Summary		Create reconciliations
// @Description	Starts draft reconciliations. The period starts the day after the last reconciled cutoff of the account.
// @Tags			Reconciliations
// @Produce		json
// @Success		201				{object}	CreateResponse[Reconciliation]
// @Failure		400				{object}	CreateResponse[Reconciliation]
// @Failure		404				{object}	CreateResponse[Reconciliation]
// @Failure		500				{object}	CreateResponse[Reconciliation]
// @Param			reconciliations	body		[]ReconciliationEditable	true	"Reconciliations"
// @Router			/v1/reconciliations [post]
func CreateReconciliations(c *gin.Context) {
	createResources[ReconciliationEditable](c, newReconciliation, func(c *gin.Context, r *models.Reconciliation) error {
		created, err := models.CreateReconciliation(models.DB, r.AccountID, r.CutoffDate, r.ClosingBalanceBank, r.Detail, auth.CurrentUser(c).Name())
		if err != nil {
			return err
		}

		*r = created
		return nil
	})
}

// @Summary		Get reconciliations
// @Description	Returns a list of reconciliations, latest cutoff first
// @Tags			Reconciliations
// @Produce		json
// @Success		200	{object}	ListResponse[Reconciliation]
// @Failure		400	{object}	ListResponse[Reconciliation]
// @Failure		500	{object}	ListResponse[Reconciliation]
// @Router			/v1/reconciliations [get]
// @Param			account		query	string	false	"Filter by account ID"
// @Param			status		query	string	false	"Filter by status"
// @Param			cutoffDate	query	string	false	"Filter by cutoff date"
// @Param			offset		query	uint	false	"The offset of the first Reconciliation returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Reconciliations to return. Defaults to 50."
func GetReconciliations(c *gin.Context) {
	var filter ReconciliationQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Reconciliation](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("date(cutoff_date) DESC, datetime(created_at) DESC").
		Where(&filterModel, queryFields...)

	q = dateFilters(q, "cutoff_date", filter.CutoffDate, filter.CutoffDate)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newReconciliation)
}

// @Summary		Get reconciliation
// @Description	Returns a specific reconciliation
// @Tags			Reconciliations
// @Produce		json
// @Success		200	{object}	Response[Reconciliation]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id} [get]
func GetReconciliation(c *gin.Context) {
	getResource(c, newReconciliation)
}

// @Summary		Update reconciliation
// @Description	Updates the bank closing balance or the detail of a draft. The difference is recomputed.
// @Tags			Reconciliations
// @Accept			json
// @Produce		json
// @Success		200				{object}	Response[Reconciliation]
// @Failure		400				{object}	httpError
// @Failure		404				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			id				path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			reconciliation	body		ReconciliationUpdate	true	"Reconciliation"
// @Router			/v1/reconciliations/{id} [patch]
func UpdateReconciliation(c *gin.Context) {
	reconciliation, ok := getModel[models.Reconciliation](c)
	if !ok {
		return
	}

	var data ReconciliationUpdate
	if err := httputil.BindData(c, &data); err != nil {
		abort(c, err)
		return
	}

	if reconciliation.Status != models.ReconciliationDraft {
		abort(c, models.ErrAlreadyFinalized)
		return
	}

	if data.ClosingBalanceBank != nil {
		err := reconciliation.UpdateBankBalance(models.DB, *data.ClosingBalanceBank)
		if err != nil {
			abort(c, err)
			return
		}
	}

	if data.Detail != nil {
		err := models.DB.Model(&reconciliation).Select("Detail").Updates(models.Reconciliation{Detail: *data.Detail}).Error
		if err != nil {
			abort(c, err)
			return
		}
	}

	respond(c, http.StatusOK, reconciliation, newReconciliation)
}

// @Summary		Delete reconciliation
// @Description	Deletes a reconciliation with all of its items
// @Tags			Reconciliations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id} [delete]
func DeleteReconciliation(c *gin.Context) {
	deleteResource[models.Reconciliation](c)
}

// @Summary		Get candidates
// @Description	Returns the transactions of the period that are not part of a finalized reconciliation, split into payments and egresses
// @Tags			Reconciliations
// @Produce		json
// @Success		200			{object}	Response[Candidates]
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			reference	query		string	false	"Glob pattern for the reference number"
// @Router			/v1/reconciliations/{id}/candidates [get]
func GetReconciliationCandidates(c *gin.Context) {
	reconciliation, ok := getModel[models.Reconciliation](c)
	if !ok {
		return
	}

	var query CandidateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abort(c, err)
		return
	}

	candidates, err := reconciliation.Candidates(models.DB, query.Reference)
	if err != nil {
		abort(c, err)
		return
	}

	respond(c, http.StatusOK, candidates, newCandidates)
}

// @Summary		Get items
// @Description	Returns the selected transactions of a reconciliation
// @Tags			Reconciliations
// @Produce		json
// @Success		200	{object}	ListResponse[ReconciliationItem]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id}/items [get]
func GetReconciliationItems(c *gin.Context) {
	reconciliation, ok := getModel[models.Reconciliation](c)
	if !ok {
		return
	}

	var items []models.ReconciliationItem
	err := models.DB.
		Where(&models.ReconciliationItem{ReconciliationID: reconciliation.ID}).
		Order("date(transaction_date) ASC, datetime(created_at) ASC").
		Find(&items).Error
	if err != nil {
		abort(c, err)
		return
	}

	// Items are never paginated
	listPage(c, items, []string{"Limit"}, 0, -1, newReconciliationItem)
}

// @Summary		Save selection
// @Description	Replaces the selected transactions of a draft and recomputes its balances
// @Tags			Reconciliations
// @Accept			json
// @Produce		json
// @Success		200			{object}	Response[Reconciliation]
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			selection	body		Selection	true	"Selection"
// @Router			/v1/reconciliations/{id}/items [put]
func SaveReconciliationItems(c *gin.Context) {
	reconciliation, ok := getModel[models.Reconciliation](c)
	if !ok {
		return
	}

	var selection Selection
	if err := httputil.BindData(c, &selection); err != nil {
		abort(c, err)
		return
	}

	err := reconciliation.SaveSelection(models.DB, selection.PaymentIDs, selection.egresses())
	if err != nil {
		abort(c, err)
		return
	}

	respond(c, http.StatusOK, reconciliation, newReconciliation)
}

// @Summary		Finalize reconciliation
// @Description	Marks a draft as reconciled, even with a difference left. Checks selected as cashed are cashed.
// @Tags			Reconciliations
// @Produce		json
// @Success		200	{object}	Response[Reconciliation]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id}/finalize [post]
func FinalizeReconciliation(c *gin.Context) {
	reconciliation, ok := getModel[models.Reconciliation](c)
	if !ok {
		return
	}

	user := auth.CurrentUser(c).Name()
	err := reconciliation.Finalize(models.DB, user)
	if err != nil {
		abort(c, err)
		return
	}

	events.Emit(c.Request.Context(), events.ReconciliationFinalized, newReconciliationEvent(reconciliation, user))
	respond(c, http.StatusOK, reconciliation, newReconciliation)
}

// @Summary		Close reconciliation
// @Description	Locks a reconciled reconciliation
// @Tags			Reconciliations
// @Produce		json
// @Success		200	{object}	Response[Reconciliation]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reconciliations/{id}/close [post]
func CloseReconciliation(c *gin.Context) {
	reconciliation, ok := getModel[models.Reconciliation](c)
	if !ok {
		return
	}

	user := auth.CurrentUser(c).Name()
	err := reconciliation.Close(models.DB, user)
	if err != nil {
		abort(c, err)
		return
	}

	events.Emit(c.Request.Context(), events.ReconciliationClosed, newReconciliationEvent(reconciliation, user))
	respond(c, http.StatusOK, reconciliation, newReconciliation)
}
