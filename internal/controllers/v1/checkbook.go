package v1

import (
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterCheckbookRoutes registers the routes for checkbooks with
// the RouterGroup that is passed.
func RegisterCheckbookRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCheckbookList)
		r.GET("", GetCheckbooks)
		r.POST("", CreateCheckbooks)
	}

	// Checkbook with ID
	{
		r.OPTIONS("/:id", OptionsCheckbookDetail)
		r.GET("/:id", GetCheckbook)
		r.PATCH("/:id", UpdateCheckbook)
		r.DELETE("/:id", DeleteCheckbook)
	}
}

// RegisterCheckRoutes registers the routes for checks with
// the RouterGroup that is passed.
func RegisterCheckRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCheckList)
		r.GET("", GetChecks)
	}

	// Check with ID
	{
		r.OPTIONS("/:id", OptionsCheckDetail)
		r.GET("/:id", GetCheck)
		r.PATCH("/:id", UpdateCheck)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Checkbooks
// @Success		204
// @Router			/v1/checkbooks [options]
func OptionsCheckbookList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Checkbooks
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/checkbooks/{id} [options]
func OptionsCheckbookDetail(c *gin.Context) {
	resourceOptionsDetail[models.Checkbook](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Create checkbooks
// @Description	Creates new checkbooks together with one available check per number
// @Tags			Checkbooks
// @Produce		json
// @Success		201			{object}	CreateResponse[Checkbook]
// @Failure		400			{object}	CreateResponse[Checkbook]
// @Failure		404			{object}	CreateResponse[Checkbook]
// @Failure		500			{object}	CreateResponse[Checkbook]
// @Param			checkbooks	body		[]CheckbookEditable	true	"Checkbooks"
// @Router			/v1/checkbooks [post]
func CreateCheckbooks(c *gin.Context) {
	createResources[CheckbookEditable](c, newCheckbook, createInDB[models.Checkbook])
}

// @Summary		Get checkbooks
// @Description	Returns a list of checkbooks
// @Tags			Checkbooks
// @Produce		json
// @Success		200	{object}	ListResponse[Checkbook]
// @Failure		400	{object}	ListResponse[Checkbook]
// @Failure		500	{object}	ListResponse[Checkbook]
// @Router			/v1/checkbooks [get]
// @Param			account	query	string	false	"Filter by account ID"
// @Param			status	query	string	false	"Filter by status"
// @Param			offset	query	uint	false	"The offset of the first Checkbook returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Checkbooks to return. Defaults to 50."
func GetCheckbooks(c *gin.Context) {
	var filter CheckbookQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Checkbook](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("start_number ASC").
		Where(&filterModel, queryFields...)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newCheckbook)
}

// @Summary		Get checkbook
// @Description	Returns a specific checkbook
// @Tags			Checkbooks
// @Produce		json
// @Success		200	{object}	Response[Checkbook]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/checkbooks/{id} [get]
func GetCheckbook(c *gin.Context) {
	getResource(c, newCheckbook)
}

// @Summary		Update checkbook
// @Description	Updates status and note of a checkbook
// @Tags			Checkbooks
// @Accept			json
// @Produce		json
// @Success		200			{object}	Response[Checkbook]
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			checkbook	body		CheckbookUpdateEditable	true	"Checkbook"
// @Router			/v1/checkbooks/{id} [patch]
func UpdateCheckbook(c *gin.Context) {
	updateResource[CheckbookUpdateEditable](c, newCheckbook, nil)
}

// @Summary		Delete checkbook
// @Description	Deletes a checkbook and its checks. Only possible while no check has been used.
// @Tags			Checkbooks
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/checkbooks/{id} [delete]
func DeleteCheckbook(c *gin.Context) {
	deleteResource[models.Checkbook](c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Checks
// @Success		204
// @Router			/v1/checks [options]
func OptionsCheckList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Checks
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/checks/{id} [options]
func OptionsCheckDetail(c *gin.Context) {
	resourceOptionsDetail[models.Check](c, httputil.OptionsGetPatch)
}

// @Summary		Get checks
// @Description	Returns a list of checks, ordered by number
// @Tags			Checks
// @Produce		json
// @Success		200	{object}	ListResponse[Check]
// @Failure		400	{object}	ListResponse[Check]
// @Failure		500	{object}	ListResponse[Check]
// @Router			/v1/checks [get]
// @Param			checkbook	query	string	false	"Filter by checkbook ID"
// @Param			status		query	string	false	"Filter by status"
// @Param			number		query	int		false	"Filter by number"
// @Param			cashed		query	bool	false	"Is the check cashed?"
// @Param			offset		query	uint	false	"The offset of the first Check returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Checks to return. Defaults to 50."
func GetChecks(c *gin.Context) {
	var filter CheckQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Check](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("number ASC").
		Where(&filterModel, queryFields...)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newCheck)
}

// @Summary		Get check
// @Description	Returns a specific check
// @Tags			Checks
// @Produce		json
// @Success		200	{object}	Response[Check]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/checks/{id} [get]
func GetCheck(c *gin.Context) {
	getResource(c, newCheck)
}

// @Summary		Update check
// @Description	Marks an available check as voided or lost, or updates its note
// @Tags			Checks
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Check]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			check	body		CheckEditable	true	"Check"
// @Router			/v1/checks/{id} [patch]
func UpdateCheck(c *gin.Context) {
	updateResource[CheckEditable](c, newCheck, nil)
}
