package v1

import (
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterUnitRoutes registers the routes for units with
// the RouterGroup that is passed.
func RegisterUnitRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsUnitList)
		r.GET("", GetUnits)
		r.POST("", CreateUnits)
	}

	// Unit with ID
	{
		r.OPTIONS("/:id", OptionsUnitDetail)
		r.GET("/:id", GetUnit)
		r.PATCH("/:id", UpdateUnit)
		r.DELETE("/:id", DeleteUnit)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Units
// @Success		204
// @Router			/v1/units [options]
func OptionsUnitList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Units
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/units/{id} [options]
func OptionsUnitDetail(c *gin.Context) {
	resourceOptionsDetail[models.Unit](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Create units
// @Description	Creates new units
// @Tags			Units
// @Produce		json
// @Success		201		{object}	CreateResponse[Unit]
// @Failure		400		{object}	CreateResponse[Unit]
// @Failure		404		{object}	CreateResponse[Unit]
// @Failure		500		{object}	CreateResponse[Unit]
// @Param			units	body		[]UnitEditable	true	"Units"
// @Router			/v1/units [post]
func CreateUnits(c *gin.Context) {
	createResources[UnitEditable](c, newUnit, createInDB[models.Unit])
}

// @Summary		Get units
// @Description	Returns a list of units
// @Tags			Units
// @Produce		json
// @Success		200	{object}	ListResponse[Unit]
// @Failure		400	{object}	ListResponse[Unit]
// @Failure		500	{object}	ListResponse[Unit]
// @Router			/v1/units [get]
// @Param			condominium	query	string	false	"Filter by condominium ID"
// @Param			number		query	string	false	"Filter by number"
// @Param			owner		query	string	false	"Filter by owner"
// @Param			note		query	string	false	"Filter by note"
// @Param			status		query	string	false	"Filter by status"
// @Param			offset		query	uint	false	"The offset of the first Unit returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Units to return. Defaults to 50."
func GetUnits(c *gin.Context) {
	var filter UnitQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Unit](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("number ASC").
		Where(&filterModel, queryFields...)

	q = stringFilter(q, setFields, "Owner", "owner", filter.Owner)
	q = stringFilter(q, setFields, "Note", "note", filter.Note)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newUnit)
}

// @Summary		Get unit
// @Description	Returns a specific unit
// @Tags			Units
// @Produce		json
// @Success		200	{object}	Response[Unit]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/units/{id} [get]
func GetUnit(c *gin.Context) {
	getResource(c, newUnit)
}

// @Summary		Update unit
// @Description	Update an existing unit. Only values to be updated need to be specified.
// @Tags			Units
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Unit]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			unit	body		UnitEditable	true	"Unit"
// @Router			/v1/units/{id} [patch]
func UpdateUnit(c *gin.Context) {
	updateResource[UnitEditable](c, newUnit, nil)
}

// @Summary		Delete unit
// @Description	Deletes a unit. Units with transactions, charges or agreements cannot be deleted, set them inactive instead.
// @Tags			Units
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/units/{id} [delete]
func DeleteUnit(c *gin.Context) {
	deleteResource[models.Unit](c)
}
