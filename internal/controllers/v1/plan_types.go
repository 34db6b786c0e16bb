package v1

import (
	"fmt"
	"time"

	"github.com/condofin/backend/internal/distribution"
	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	ez_uuid "github.com/condofin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// chargeSource is a pointer to a plan model.
type chargeSource[M any] interface {
	*M
	models.ChargeSource
}

// PlanEditable contains the parameters shared by all plans
type PlanEditable struct {
	CondominiumID      uuid.UUID           `json:"condominiumId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the condominium
	Name               string              `json:"name" example:"Budget 2024"`                                   // Name of the plan
	Note               string              `json:"note" example:"Approved by the assembly on 2023-11-28"`        // A longer description
	DistributionMethod distribution.Method `json:"distributionMethod" example:"byAliquot"`                       // One of equalShare, byAliquot, manual
	TotalAmount        decimal.Decimal     `json:"totalAmount" example:"24000.00"`                               // Amount distributed across the units
	InstallmentCount   int                 `json:"installmentCount" example:"12" minimum:"1"`                    // Number of monthly installments
	StartDate          types.Date          `json:"startDate" example:"2024-01-05" default:"today"`               // Due date of the first installment
}

func (editable PlanEditable) plan() models.InstallmentPlan {
	return models.InstallmentPlan{
		CondominiumID:      editable.CondominiumID,
		Name:               editable.Name,
		Note:               editable.Note,
		DistributionMethod: editable.DistributionMethod,
		TotalAmount:        editable.TotalAmount,
		InstallmentCount:   editable.InstallmentCount,
		StartDate:          editable.StartDate,
	}
}

func newPlanEditable(plan models.InstallmentPlan) PlanEditable {
	return PlanEditable{
		CondominiumID:      plan.CondominiumID,
		Name:               plan.Name,
		Note:               plan.Note,
		DistributionMethod: plan.DistributionMethod,
		TotalAmount:        plan.TotalAmount,
		InstallmentCount:   plan.InstallmentCount,
		StartDate:          plan.StartDate,
	}
}

// PlanState contains the computed and audit fields of a plan
type PlanState struct {
	InstallmentAmount decimal.Decimal   `json:"installmentAmount" example:"2000.00"`        // Total amount divided by the installment count
	Status            models.PlanStatus `json:"status" example:"draft"`                     // One of draft, approved, cancelled
	CreatedBy         string            `json:"createdBy" example:"treasurer@example.com"`  // Who created the plan
	ApprovedAt        *time.Time        `json:"approvedAt" example:"2023-12-01T10:00:00Z"`  // When the plan was approved
	ApprovedBy        string            `json:"approvedBy" example:"treasurer@example.com"` // Who approved the plan
	CancelledAt       *time.Time        `json:"cancelledAt"`                                // When the plan was cancelled
	CancelledBy       string            `json:"cancelledBy"`                                // Who cancelled the plan
	CancelReason      string            `json:"cancelReason"`                               // Why the plan was cancelled
}

func newPlanState(plan models.InstallmentPlan) PlanState {
	return PlanState{
		InstallmentAmount: plan.InstallmentAmount,
		Status:            plan.Status,
		CreatedBy:         plan.CreatedBy,
		ApprovedAt:        plan.ApprovedAt,
		ApprovedBy:        plan.ApprovedBy,
		CancelledAt:       plan.CancelledAt,
		CancelledBy:       plan.CancelledBy,
		CancelReason:      plan.CancelReason,
	}
}

type PlanLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/budgets/6c0bd7f4-65a1-4c02-8d8d-4f44a36a8b70"`                 // The plan itself
	Condominium  string `json:"condominium" example:"https://example.com/api/v1/condominiums/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`     // The condominium
	Charges      string `json:"charges" example:"https://example.com/api/v1/charges?source=6c0bd7f4-65a1-4c02-8d8d-4f44a36a8b70"`       // Charges generated by the plan
	ManualShares string `json:"manualShares" example:"https://example.com/api/v1/budgets/6c0bd7f4-65a1-4c02-8d8d-4f44a36a8b70/manual-shares"` // Manual amounts per unit
	Approve      string `json:"approve" example:"https://example.com/api/v1/budgets/6c0bd7f4-65a1-4c02-8d8d-4f44a36a8b70/approve"`     // Endpoint to approve the plan
	Cancel       string `json:"cancel" example:"https://example.com/api/v1/budgets/6c0bd7f4-65a1-4c02-8d8d-4f44a36a8b70/cancel"`       // Endpoint to cancel the plan
}

func newPlanLinks(c *gin.Context, path string, id, condominiumID uuid.UUID) PlanLinks {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/%s/%s", url, path, id)

	return PlanLinks{
		Self:         self,
		Condominium:  fmt.Sprintf("%s/v1/condominiums/%s", url, condominiumID),
		Charges:      fmt.Sprintf("%s/v1/charges?source=%s", url, id),
		ManualShares: self + "/manual-shares",
		Approve:      self + "/approve",
		Cancel:       self + "/cancel",
	}
}

// PlanQueryFilter contains the filters shared by all plans
type PlanQueryFilter struct {
	CondominiumID      ez_uuid.UUID        `form:"condominium"`                // By ID of the condominium
	Status             models.PlanStatus   `form:"status"`                     // By status
	DistributionMethod distribution.Method `form:"distributionMethod"`         // By distribution method
	Name               string              `form:"name" filterField:"false"`   // By name
	Note               string              `form:"note" filterField:"false"`   // By note
	Search             string              `form:"search" filterField:"false"` // By string in name or note
	Offset             uint                `form:"offset" filterField:"false"` // The offset of the first plan returned. Defaults to 0.
	Limit              int                 `form:"limit" filterField:"false"`  // Maximum number of plans to return. Defaults to 50.
}

func (f PlanQueryFilter) plan() models.InstallmentPlan {
	return models.InstallmentPlan{
		CondominiumID:      f.CondominiumID.UUID,
		Status:             f.Status,
		DistributionMethod: f.DistributionMethod,
	}
}

// Approval is the result of approving a plan
type Approval[A any] struct {
	Plan    A                    `json:"plan"`                                      // The approved plan
	BatchID string               `json:"batchId" example:"01HQ3W8V6Q2Y9R0T5J1KX7M4ZB"` // ID shared by all charges created by the approval
	Created int64                `json:"created" example:"36"`                      // Number of charges created
	Shares  []distribution.Share `json:"shares"`                                    // Share of every unit
}

// ManualShareEditable is the amount a unit owes for a plan with manual distribution
type ManualShareEditable struct {
	UnitID uuid.UUID       `json:"unitId" example:"9c1c49e4-5e3a-4e41-8a8e-1b2b5b8ad9f4"` // ID of the unit
	Amount decimal.Decimal `json:"amount" example:"410.25"`                               // Total amount the unit owes
}

func (editable ManualShareEditable) model() models.ManualShare {
	return models.ManualShare{
		UnitID: editable.UnitID,
		Amount: editable.Amount,
	}
}

type ManualShare struct {
	ID uuid.UUID `json:"id" example:"2e5d3c3c-0b1a-4f0e-8f6f-3a1e1f1c9a77"` // ID of the manual share
	ManualShareEditable
}

func newManualShare(_ *gin.Context, model models.ManualShare) (ManualShare, error) {
	return ManualShare{
		ID: model.ID,
		ManualShareEditable: ManualShareEditable{
			UnitID: model.UnitID,
			Amount: model.Amount,
		},
	}, nil
}

// chargesGenerated is the payload of the charges.generated event
type chargesGenerated struct {
	SourceType models.SourceType `json:"sourceType"`
	SourceID   uuid.UUID         `json:"sourceId"`
	BatchID    string            `json:"batchId"`
	Created    int64             `json:"created"`
	User       string            `json:"user"`
}

// planCancelled is the payload of the plan.cancelled event
type planCancelled struct {
	SourceType       models.SourceType `json:"sourceType"`
	SourceID         uuid.UUID         `json:"sourceId"`
	CancelledCharges int64             `json:"cancelledCharges"`
	Reason           string            `json:"reason"`
	User             string            `json:"user"`
}

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	PlanEditable
	Year int `json:"year" example:"2024" default:"year of the start date"` // Fiscal year
}

func (editable BudgetEditable) model() models.Budget {
	return models.Budget{
		InstallmentPlan: editable.plan(),
		Year:            editable.Year,
	}
}

type Budget struct {
	models.DefaultModel
	BudgetEditable
	PlanState
	Links PlanLinks `json:"links"`
}

func newBudget(c *gin.Context, model models.Budget) (Budget, error) {
	return Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			PlanEditable: newPlanEditable(model.InstallmentPlan),
			Year:         model.Year,
		},
		PlanState: newPlanState(model.InstallmentPlan),
		Links:     newPlanLinks(c, "budgets", model.ID, model.CondominiumID),
	}, nil
}

type BudgetQueryFilter struct {
	PlanQueryFilter
	Year int `form:"year"` // By year
}

// ExtraordinaryPlanEditable represents all user configurable parameters
type ExtraordinaryPlanEditable struct {
	PlanEditable
	Purpose string `json:"purpose" example:"Roof waterproofing"` // What the money is raised for
}

func (editable ExtraordinaryPlanEditable) model() models.ExtraordinaryPlan {
	return models.ExtraordinaryPlan{
		InstallmentPlan: editable.plan(),
		Purpose:         editable.Purpose,
	}
}

type ExtraordinaryPlan struct {
	models.DefaultModel
	ExtraordinaryPlanEditable
	PlanState
	Links PlanLinks `json:"links"`
}

func newExtraordinaryPlan(c *gin.Context, model models.ExtraordinaryPlan) (ExtraordinaryPlan, error) {
	return ExtraordinaryPlan{
		DefaultModel: model.DefaultModel,
		ExtraordinaryPlanEditable: ExtraordinaryPlanEditable{
			PlanEditable: newPlanEditable(model.InstallmentPlan),
			Purpose:      model.Purpose,
		},
		PlanState: newPlanState(model.InstallmentPlan),
		Links:     newPlanLinks(c, "extraordinary-plans", model.ID, model.CondominiumID),
	}, nil
}

// PaymentAgreementEditable represents all user configurable parameters.
// The distribution method is always equalShare.
type PaymentAgreementEditable struct {
	PlanEditable
	UnitID uuid.UUID `json:"unitId" example:"9c1c49e4-5e3a-4e41-8a8e-1b2b5b8ad9f4"` // ID of the debtor unit
}

func (editable PaymentAgreementEditable) model() models.PaymentAgreement {
	return models.PaymentAgreement{
		InstallmentPlan: editable.plan(),
		UnitID:          editable.UnitID,
	}
}

type PaymentAgreement struct {
	models.DefaultModel
	PaymentAgreementEditable
	PlanState
	Links PlanLinks `json:"links"`
}

func newPaymentAgreement(c *gin.Context, model models.PaymentAgreement) (PaymentAgreement, error) {
	return PaymentAgreement{
		DefaultModel: model.DefaultModel,
		PaymentAgreementEditable: PaymentAgreementEditable{
			PlanEditable: newPlanEditable(model.InstallmentPlan),
			UnitID:       model.UnitID,
		},
		PlanState: newPlanState(model.InstallmentPlan),
		Links:     newPlanLinks(c, "payment-agreements", model.ID, model.CondominiumID),
	}, nil
}

type PaymentAgreementQueryFilter struct {
	PlanQueryFilter
	UnitID ez_uuid.UUID `form:"unit"` // By ID of the debtor unit
}

func (f BudgetQueryFilter) model() models.Budget {
	return models.Budget{
		InstallmentPlan: f.plan(),
		Year:            f.Year,
	}
}

func (f PaymentAgreementQueryFilter) model() models.PaymentAgreement {
	return models.PaymentAgreement{
		InstallmentPlan: f.plan(),
		UnitID:          f.UnitID.UUID,
	}
}
