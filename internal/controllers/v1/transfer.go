package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/auth"
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterTransferRoutes registers the routes for transfers with
// the RouterGroup that is passed.
func RegisterTransferRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsTransfers)
	r.POST("", CreateTransfer)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transfers [options]
func OptionsTransfers(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Create transfer
// @Description	Moves money between two accounts. Both legs are posted in one database transaction, the outgoing leg is returned first.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransferResponse
// @Failure		400			{object}	TransferResponse
// @Failure		404			{object}	TransferResponse
// @Failure		500			{object}	TransferResponse
// @Param			transfer	body		TransferEditable	true	"Transfer"
// @Router			/v1/transfers [post]
func CreateTransfer(c *gin.Context) {
	var editable TransferEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransferResponse{Error: &e})
		return
	}

	legs, err := models.CreateTransfer(models.DB, editable.model(), auth.CurrentUser(c).Name())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransferResponse{Error: &e})
		return
	}

	data := make([]Transaction, 0, len(legs))
	for _, leg := range legs {
		t, err := newTransaction(c, leg)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), TransferResponse{Error: &e})
			return
		}
		data = append(data, t)
	}

	c.JSON(http.StatusCreated, TransferResponse{Data: data})
}
