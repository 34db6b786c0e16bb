package v1

import (
	"net/http"

	"github.com/condofin/backend/internal/auth"
	"github.com/condofin/backend/internal/events"
	"github.com/condofin/backend/internal/httputil"
	"github.com/condofin/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// createPlan stores a new draft plan created by the current user.
func createPlan[M any, P chargeSource[M]](c *gin.Context, m *M) error {
	P(m).Plan().CreatedBy = auth.CurrentUser(c).Name()
	return models.DB.Create(m).Error
}

// planQuery orders plans and applies the filters shared by all plans.
func planQuery(q *gorm.DB, filter PlanQueryFilter, setFields []string) *gorm.DB {
	q = q.Order("date(start_date) DESC, name ASC")
	return stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)
}

// approvePlan generates the charges of a draft plan.
func approvePlan[M, A any, P chargeSource[M]](c *gin.Context, convert func(*gin.Context, M) (A, error)) {
	plan, ok := getModel[M](c)
	if !ok {
		return
	}

	source := P(&plan)
	user := auth.CurrentUser(c).Name()

	approval, err := models.ApprovePlan(models.DB, source, user, models.ChargeBatchSize)
	if err != nil {
		abort(c, err)
		return
	}

	events.Emit(c.Request.Context(), events.ChargesGenerated, chargesGenerated{
		SourceType: source.SourceType(),
		SourceID:   source.SourceID(),
		BatchID:    approval.BatchID.String(),
		Created:    approval.Created,
		User:       user,
	})

	data, err := convert(c, plan)
	if err != nil {
		abort(c, err)
		return
	}

	c.JSON(http.StatusOK, Response[Approval[A]]{Data: &Approval[A]{
		Plan:    data,
		BatchID: approval.BatchID.String(),
		Created: approval.Created,
		Shares:  approval.Shares,
	}})
}

// cancelPlan cancels a plan and its pending charges.
func cancelPlan[M, A any, P chargeSource[M]](c *gin.Context, convert func(*gin.Context, M) (A, error)) {
	plan, ok := getModel[M](c)
	if !ok {
		return
	}

	var data CancelRequest
	if err := httputil.BindData(c, &data); err != nil {
		abort(c, err)
		return
	}

	source := P(&plan)
	user := auth.CurrentUser(c).Name()

	cancelled, err := models.CancelPlan(models.DB, source, data.Reason, user)
	if err != nil {
		abort(c, err)
		return
	}

	events.Emit(c.Request.Context(), events.PlanCancelled, planCancelled{
		SourceType:       source.SourceType(),
		SourceID:         source.SourceID(),
		CancelledCharges: cancelled,
		Reason:           source.Plan().CancelReason,
		User:             user,
	})

	respond(c, http.StatusOK, plan, convert)
}

func writeManualShares(c *gin.Context, shares []models.ManualShare) {
	data := make([]ManualShare, 0, len(shares))
	for _, share := range shares {
		s, _ := newManualShare(c, share)
		data = append(data, s)
	}

	c.JSON(http.StatusOK, ListResponse[ManualShare]{
		Data: data,
		Pagination: &Pagination{
			Count: len(data),
			Total: int64(len(data)),
			Limit: -1,
		},
	})
}

func getManualShares[M any, P chargeSource[M]](c *gin.Context) {
	plan, ok := getModel[M](c)
	if !ok {
		return
	}

	shares, err := models.ManualShares(models.DB, P(&plan))
	if err != nil {
		abortList[ManualShare](c, err)
		return
	}

	writeManualShares(c, shares)
}

// setManualShares replaces the manual amounts of a plan.
func setManualShares[M any, P chargeSource[M]](c *gin.Context) {
	plan, ok := getModel[M](c)
	if !ok {
		return
	}

	var editables []ManualShareEditable
	if err := httputil.BindData(c, &editables); err != nil {
		abortList[ManualShare](c, err)
		return
	}

	shares := make([]models.ManualShare, 0, len(editables))
	for _, e := range editables {
		shares = append(shares, e.model())
	}

	shares, err := models.SetManualShares(models.DB, P(&plan), shares)
	if err != nil {
		abortList[ManualShare](c, err)
		return
	}

	writeManualShares(c, shares)
}
