package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func RegisterAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAccountList)
		r.GET("", GetAccounts)
		r.POST("", CreateAccounts)
	}

	// Account with ID
	{
		r.OPTIONS("/:id", OptionsAccountDetail)
		r.GET("/:id", GetAccount)
		r.PATCH("/:id", UpdateAccount)
		r.DELETE("/:id", DeleteAccount)
		r.OPTIONS("/:id/balance", OptionsAccountBalance)
		r.GET("/:id/balance", GetAccountBalance)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Router			/v1/accounts [options]
func OptionsAccountList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [options]
func OptionsAccountDetail(c *gin.Context) {
	resourceOptionsDetail[models.Account](c, httputil.OptionsGetPatchDelete)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id}/balance [options]
func OptionsAccountBalance(c *gin.Context) {
	resourceOptionsDetail[models.Account](c, httputil.OptionsGet)
}

// @Summary		Create accounts
// @Description	Creates new accounts. The current balance starts at the opening balance.
// @Tags			Accounts
// @Produce		json
// @Success		201			{object}	CreateResponse[Account]
// @Failure		400			{object}	CreateResponse[Account]
// @Failure		404			{object}	CreateResponse[Account]
// @Failure		500			{object}	CreateResponse[Account]
// @Param			accounts	body		[]AccountEditable	true	"Accounts"
// @Router			/v1/accounts [post]
func CreateAccounts(c *gin.Context) {
	createResources[AccountEditable](c, newAccount, createInDB[models.Account])
}

// @Summary		Get accounts
// @Description	Returns a list of accounts
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	ListResponse[Account]
// @Failure		400	{object}	ListResponse[Account]
// @Failure		500	{object}	ListResponse[Account]
// @Router			/v1/accounts [get]
// @Param			condominium	query	string	false	"Filter by condominium ID"
// @Param			type		query	string	false	"Filter by type"
// @Param			archived	query	bool	false	"Is the account archived?"
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first Account returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Accounts to return. Defaults to 50."
func GetAccounts(c *gin.Context) {
	var filter AccountQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Account](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	listResources(c, q, setFields, filter.Offset, filter.Limit, newAccount)
}

// @Summary		Get account
// @Description	Returns a specific account
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	Response[Account]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [get]
func GetAccount(c *gin.Context) {
	getResource(c, newAccount)
}

// @Summary		Get account balance
// @Description	Returns the balance of the account at the end of a day
// @Tags			Accounts
// @Produce		json
// @Success		200		{object}	Response[AccountBalance]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			date	query		string	false	"Date in the format YYYY-MM-DD. Defaults to today."
// @Router			/v1/accounts/{id}/balance [get]
func GetAccountBalance(c *gin.Context) {
	account, ok := getModel[models.Account](c)
	if !ok {
		return
	}

	var query BalanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abort(c, httputil.ErrInvalidDate)
		return
	}

	if query.Date.IsZero() {
		query.Date = types.Today()
	}

	balance, err := account.Balance(models.DB, query.Date)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[AccountBalance]{
		Data: &AccountBalance{
			Date:    query.Date,
			Balance: balance,
		},
	})
}

// @Summary		Update account
// @Description	Update an existing account. Only values to be updated need to be specified. Changing the opening balance recalculates the current balance.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Account]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/accounts/{id} [patch]
func UpdateAccount(c *gin.Context) {
	updateResource[AccountEditable](c, newAccount, func(account *models.Account, fields []any) error {
		if !slices.Contains(fields, any("OpeningBalance")) {
			return nil
		}

		return account.Recalculate(models.DB)
	})
}

// @Summary		Delete account
// @Description	Deletes an account. Accounts with transactions cannot be deleted, archive them instead.
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [delete]
func DeleteAccount(c *gin.Context) {
	deleteResource[models.Account](c)
}
