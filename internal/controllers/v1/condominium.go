package v1

import (
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterCondominiumRoutes registers the routes for condominiums with
// the RouterGroup that is passed.
func RegisterCondominiumRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCondominiumList)
		r.GET("", GetCondominiums)
		r.POST("", CreateCondominiums)
	}

	// Condominium with ID
	{
		r.OPTIONS("/:id", OptionsCondominiumDetail)
		r.GET("/:id", GetCondominium)
		r.PATCH("/:id", UpdateCondominium)
		r.DELETE("/:id", DeleteCondominium)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Condominiums
// @Success		204
// @Router			/v1/condominiums [options]
func OptionsCondominiumList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Condominiums
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/condominiums/{id} [options]
func OptionsCondominiumDetail(c *gin.Context) {
	resourceOptionsDetail[models.Condominium](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Create condominiums
// @Description	Creates new condominiums
// @Tags			Condominiums
// @Produce		json
// @Success		201				{object}	CreateResponse[Condominium]
// @Failure		400				{object}	CreateResponse[Condominium]
// @Failure		500				{object}	CreateResponse[Condominium]
// @Param			condominiums	body		[]CondominiumEditable	true	"Condominiums"
// @Router			/v1/condominiums [post]
func CreateCondominiums(c *gin.Context) {
	createResources[CondominiumEditable](c, newCondominium, createInDB[models.Condominium])
}

// @Summary		Get condominiums
// @Description	Returns a list of condominiums
// @Tags			Condominiums
// @Produce		json
// @Success		200	{object}	ListResponse[Condominium]
// @Failure		400	{object}	ListResponse[Condominium]
// @Failure		500	{object}	ListResponse[Condominium]
// @Router			/v1/condominiums [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			locale		query	string	false	"Filter by locale"
// @Param			currency	query	string	false	"Filter by currency"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first Condominium returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Condominiums to return. Defaults to 50."
func GetCondominiums(c *gin.Context) {
	var filter CondominiumQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Condominium](c, err)
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newCondominium)
}

// @Summary		Get condominium
// @Description	Returns a specific condominium
// @Tags			Condominiums
// @Produce		json
// @Success		200	{object}	Response[Condominium]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/condominiums/{id} [get]
func GetCondominium(c *gin.Context) {
	getResource(c, newCondominium)
}

// @Summary		Update condominium
// @Description	Update an existing condominium. Only values to be updated need to be specified.
// @Tags			Condominiums
// @Accept			json
// @Produce		json
// @Success		200			{object}	Response[Condominium]
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			condominium	body		CondominiumEditable	true	"Condominium"
// @Router			/v1/condominiums/{id} [patch]
func UpdateCondominium(c *gin.Context) {
	updateResource[CondominiumEditable](c, newCondominium, nil)
}

// @Summary		Delete condominium
// @Description	Deletes a condominium. Condominiums with units, accounts or plans cannot be deleted.
// @Tags			Condominiums
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/condominiums/{id} [delete]
func DeleteCondominium(c *gin.Context) {
	deleteResource[models.Condominium](c)
}
