package v1

import (
	"fmt"
	"time"

	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	ez_uuid "github.com/condofin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge is an installment a unit owes for a plan. Charges are created by
// approving a plan and can only be cancelled.
type Charge struct {
	models.DefaultModel
	SourceType        models.SourceType   `json:"sourceType" example:"budget"`                                  // One of budget, extraordinaryPlan, paymentAgreement
	SourceID          uuid.UUID           `json:"sourceId" example:"6c0bd7f4-65a1-4c02-8d8d-4f44a36a8b70"`      // ID of the plan
	UnitID            uuid.UUID           `json:"unitId" example:"9c1c49e4-5e3a-4e41-8a8e-1b2b5b8ad9f4"`        // ID of the unit
	InstallmentNumber int                 `json:"installmentNumber" example:"3"`                                // Number of the installment, starting at 1
	DueDate           types.Date          `json:"dueDate" example:"2024-03-05"`                                 // When the installment is due
	Amount            decimal.Decimal     `json:"amount" example:"136.72"`                                      // Amount of the installment
	Status            models.ChargeStatus `json:"status" example:"pending"`                                     // One of pending, cancelled
	BatchID           string              `json:"batchId" example:"01HQ3W8V6Q2Y9R0T5J1KX7M4ZB"`                 // ID of the approval that created the charge
	ApprovedAt        *time.Time          `json:"approvedAt" example:"2023-12-01T10:00:00Z"`                    // Time encoded in the batch ID
	CancelReason      string              `json:"cancelReason"`                                                 // Why the charge was cancelled
	CancelledAt       *time.Time          `json:"cancelledAt"`                                                  // When the charge was cancelled
	CancelledBy       string              `json:"cancelledBy"`                                                  // Who cancelled the charge
	Links             ChargeLinks         `json:"links"`
}

type ChargeLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/charges/4ac1d9a1-1f5b-4d1c-9c0e-6b3e9b0f1d2a"`        // The charge itself
	Unit   string `json:"unit" example:"https://example.com/api/v1/units/9c1c49e4-5e3a-4e41-8a8e-1b2b5b8ad9f4"`           // The unit that owes the charge
	Source string `json:"source" example:"https://example.com/api/v1/budgets/6c0bd7f4-65a1-4c02-8d8d-4f44a36a8b70"`       // The plan that generated the charge
	Cancel string `json:"cancel" example:"https://example.com/api/v1/charges/4ac1d9a1-1f5b-4d1c-9c0e-6b3e9b0f1d2a/cancel"` // Endpoint to cancel the charge
}

var sourcePaths = map[models.SourceType]string{
	models.SourceBudget:            "budgets",
	models.SourceExtraordinaryPlan: "extraordinary-plans",
	models.SourcePaymentAgreement:  "payment-agreements",
}

func newCharge(c *gin.Context, model models.Charge) (Charge, error) {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/charges/%s", url, model.ID)

	charge := Charge{
		DefaultModel:      model.DefaultModel,
		SourceType:        model.SourceType,
		SourceID:          model.SourceID,
		UnitID:            model.UnitID,
		InstallmentNumber: model.InstallmentNumber,
		DueDate:           model.DueDate,
		Amount:            model.Amount,
		Status:            model.Status,
		BatchID:           model.BatchID,
		CancelReason:      model.CancelReason,
		CancelledAt:       model.CancelledAt,
		CancelledBy:       model.CancelledBy,
		Links: ChargeLinks{
			Self:   self,
			Unit:   fmt.Sprintf("%s/v1/units/%s", url, model.UnitID),
			Source: fmt.Sprintf("%s/v1/%s/%s", url, sourcePaths[model.SourceType], model.SourceID),
			Cancel: self + "/cancel",
		},
	}

	if batch, err := model.Batch(); err == nil {
		approvedAt := time.UnixMilli(int64(batch.Time())).UTC()
		charge.ApprovedAt = &approvedAt
	}

	return charge, nil
}

type ChargeQueryFilter struct {
	SourceType models.SourceType   `form:"sourceType"`                    // By type of the plan
	SourceID   ez_uuid.UUID        `form:"source"`                        // By ID of the plan
	UnitID     ez_uuid.UUID        `form:"unit"`                          // By ID of the unit
	Status     models.ChargeStatus `form:"status"`                        // By status
	BatchID    string              `form:"batch"`                         // By ID of the approval
	FromDate   types.Date          `form:"fromDate" filterField:"false"`  // Due on or after this date
	UntilDate  types.Date          `form:"untilDate" filterField:"false"` // Due on or before this date
	Offset     uint                `form:"offset" filterField:"false"`    // The offset of the first charge returned. Defaults to 0.
	Limit      int                 `form:"limit" filterField:"false"`     // Maximum number of charges to return. Defaults to 50.
}

func (f ChargeQueryFilter) model() models.Charge {
	return models.Charge{
		SourceType: f.SourceType,
		SourceID:   f.SourceID.UUID,
		UnitID:     f.UnitID.UUID,
		Status:     f.Status,
		BatchID:    f.BatchID,
	}
}
