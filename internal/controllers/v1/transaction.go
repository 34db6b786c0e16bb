package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/auth"
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	ez_uuid "github.com/condofin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.OPTIONS("/:id/cancel", OptionsTransactionCancel)
		r.POST("/:id/cancel", CancelTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	resourceOptionsDetail[models.Transaction](c, httputil.OptionsGetPatch)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id}/cancel [options]
func OptionsTransactionCancel(c *gin.Context) {
	resourceOptionsDetail[models.Transaction](c, httputil.OptionsPost)
}

// @Summary		Create transactions
// @Description	Posts payments, egresses and adjustments. The account balance is updated in the same database transaction.
// @Tags			Transactions
// @Produce		json
// @Success		201				{object}	CreateResponse[Transaction]
// @Failure		400				{object}	CreateResponse[Transaction]
// @Failure		404				{object}	CreateResponse[Transaction]
// @Failure		500				{object}	CreateResponse[Transaction]
// @Param			transactions	body		[]TransactionEditable	true	"Transactions"
// @Router			/v1/transactions [post]
func CreateTransactions(c *gin.Context) {
	var editables []TransactionEditable
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CreateResponse[Transaction]{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CreateResponse[Transaction]{}
	user := auth.CurrentUser(c).Name()

	for _, editable := range editables {
		transaction := editable.model()
		transaction.CreatedBy = user

		err = models.CreateTransaction(models.DB, &transaction, editable.CheckbookID)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newTransaction(c, transaction)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, Response[Transaction]{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get transactions
// @Description	Returns a list of transactions, latest first
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	ListResponse[Transaction]
// @Failure		400	{object}	ListResponse[Transaction]
// @Failure		500	{object}	ListResponse[Transaction]
// @Router			/v1/transactions [get]
// @Param			account		query	string	false	"Filter by account ID"
// @Param			kind		query	string	false	"Filter by kind"
// @Param			direction	query	string	false	"Filter by direction"
// @Param			status		query	string	false	"Filter by status"
// @Param			unit		query	string	false	"Filter by paying unit ID"
// @Param			transfer	query	string	false	"Filter by transfer ID"
// @Param			fromDate	query	string	false	"Transactions at and after this date"
// @Param			untilDate	query	string	false	"Transactions before and at this date"
// @Param			reference	query	string	false	"Glob pattern for the reference number"
// @Param			note		query	string	false	"Filter by note"
// @Param			offset		query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Transactions to return. Defaults to 50."
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortList[Transaction](c, err)
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel := filter.model()
	q := models.DB.
		Order("date(transactions.date) DESC, datetime(transactions.created_at) DESC").
		Where(&filterModel, queryFields...)

	if filter.UnitID != ez_uuid.Nil {
		q = q.Where("unit_id = ?", filter.UnitID.UUID)
	}

	if filter.Transfer != ez_uuid.Nil {
		q = q.Where("transfer_id = ?", filter.Transfer.UUID)
	}

	q = dateFilters(q, "transactions.date", filter.FromDate, filter.UntilDate)
	q = stringFilter(q, setFields, "Note", "note", filter.Note)

	if !slices.Contains(setFields, "Reference") {
		listResources(c, q, setFields, filter.Offset, filter.Limit, newTransaction)
		return
	}

	// Glob patterns cannot be expressed in SQL, so matching happens here
	var transactions []models.Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		abortList[Transaction](c, err)
		return
	}

	matching := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if glob.Glob(filter.Reference, t.ReferenceNumber) {
			matching = append(matching, t)
		}
	}

	listPage(c, matching, setFields, filter.Offset, filter.Limit, newTransaction)
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	Response[Transaction]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	getResource(c, newTransaction)
}

// @Summary		Update transaction
// @Description	Updates the descriptive fields of a transaction. Amounts, dates and accounts cannot be changed, cancel the transaction instead.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	Response[Transaction]
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionUpdateEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	updateResource[TransactionUpdateEditable](c, newTransaction, nil)
}

// @Summary		Cancel transaction
// @Description	Cancels a transaction and reverts its effect on the account balance. Both legs of a transfer are cancelled. Transactions of finalized reconciliations cannot be cancelled.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[Transaction]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			cancel	body		CancelRequest	true	"Reason"
// @Router			/v1/transactions/{id}/cancel [post]
func CancelTransaction(c *gin.Context) {
	transaction, ok := getModel[models.Transaction](c)
	if !ok {
		return
	}

	var request CancelRequest
	if err := httputil.BindData(c, &request); err != nil {
		abort(c, err)
		return
	}

	err := transaction.Cancel(models.DB, request.Reason, auth.CurrentUser(c).Name())
	if err != nil {
		abort(c, err)
		return
	}

	respond(c, http.StatusOK, transaction, newTransaction)
}
