package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/condofin/backend/internal/distribution"
	"github.com/condofin/backend/internal/types"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InstallmentPlan is the part shared by all sources of charges: an amount
// distributed across units and paid in monthly installments.
type InstallmentPlan struct {
	CondominiumID      uuid.UUID `gorm:"index"`
	Name               string
	Note               string
	DistributionMethod distribution.Method
	TotalAmount        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	InstallmentCount   int             `gorm:"check:installment_count_positive,installment_count > 0"`
	InstallmentAmount  decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Derived from total and count
	StartDate          types.Date      // Due date of the first installment
	Status             PlanStatus
	CreatedBy          string
	ApprovedAt         *time.Time
	ApprovedBy         string
	CancelledAt        *time.Time
	CancelledBy        string
	CancelReason       string
}

// swagger:enum PlanStatus
type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanApproved  PlanStatus = "approved"
	PlanCancelled PlanStatus = "cancelled"
)

// swagger:enum SourceType
type SourceType string

const (
	SourceBudget            SourceType = "budget"
	SourceExtraordinaryPlan SourceType = "extraordinaryPlan"
	SourcePaymentAgreement  SourceType = "paymentAgreement"
)

var (
	ErrPlanNotDraft            = errors.New("the plan is not a draft")
	ErrPlanCancelled           = errors.New("the plan is already cancelled")
	ErrPlanHasCharges          = errors.New("the plan has charges and cannot be deleted, cancel it instead")
	ErrPlanNameEmpty           = errors.New("the plan name must not be empty")
	ErrNoActiveUnits           = errors.New("there are no active units to distribute the amount to")
	ErrManualAmountsMismatch   = errors.New("the manual amounts must add up to the total amount")
	ErrManualShareNotUnique    = errors.New("there is already a manual amount for this unit")
	ErrManualShareNotManual    = errors.New("manual amounts can only be set for plans using the manual distribution method")
	ErrInstallmentCountInvalid = errors.New("the installment count must be at least 1")
	ErrInstallmentTooSmall     = errors.New("every installment must be at least 0.01, use fewer installments")
	ErrSourceTypeInvalid       = errors.New("the source type must be one of budget, extraordinaryPlan, paymentAgreement")
)

// ManualTolerance is the maximum difference between the sum of manual amounts
// and the total amount.
var ManualTolerance = decimal.RequireFromString("0.01")

func (t SourceType) validate() error {
	switch t {
	case SourceBudget, SourceExtraordinaryPlan, SourcePaymentAgreement:
		return nil
	}

	return fmt.Errorf("%w, got '%s'", ErrSourceTypeInvalid, t)
}

// normalize trims strings, validates the plan and derives the installment amount.
func (p *InstallmentPlan) normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Note = strings.TrimSpace(p.Note)
	p.CancelReason = strings.TrimSpace(p.CancelReason)

	if p.Name == "" {
		return ErrPlanNameEmpty
	}

	if err := p.DistributionMethod.Validate(); err != nil {
		return err
	}

	p.TotalAmount = p.TotalAmount.Round(2)
	if !p.TotalAmount.IsPositive() {
		return ErrAmountNotPositive
	}

	if p.InstallmentCount < 1 {
		return fmt.Errorf("%w, got %d", ErrInstallmentCountInvalid, p.InstallmentCount)
	}

	p.InstallmentAmount = distribution.InstallmentAmount(p.TotalAmount, p.InstallmentCount)
	return nil
}

// create sets the defaults for new plans and verifies the condominium.
func (p *InstallmentPlan) create(tx *gorm.DB) error {
	p.Status = PlanDraft
	if p.StartDate.IsZero() {
		p.StartDate = types.Today()
	}

	return tx.First(&Condominium{}, p.CondominiumID).Error
}

// update only allows changes to drafts and keeps the installment amount
// in sync with the new total and count.
func (p *InstallmentPlan) update(tx *gorm.DB, toSave InstallmentPlan) error {
	if p.Status != PlanDraft {
		return fmt.Errorf("%w, it is %s", ErrPlanNotDraft, p.Status)
	}

	if tx.Statement.Changed("CondominiumID") {
		return errors.New("the condominium of a plan cannot be changed")
	}

	if tx.Statement.Changed("DistributionMethod") {
		if err := toSave.DistributionMethod.Validate(); err != nil {
			return err
		}
	}

	total, count := p.TotalAmount, p.InstallmentCount
	if tx.Statement.Changed("TotalAmount") {
		total = toSave.TotalAmount.Round(2)
	}

	if tx.Statement.Changed("InstallmentCount") {
		count = toSave.InstallmentCount
	}

	if !total.IsPositive() {
		return ErrAmountNotPositive
	}

	if count < 1 {
		return fmt.Errorf("%w, got %d", ErrInstallmentCountInvalid, count)
	}

	tx.Statement.SetColumn("InstallmentAmount", distribution.InstallmentAmount(total, count))
	return nil
}

// ChargeSource is a plan that generates charges.
type ChargeSource interface {
	SourceType() SourceType
	SourceID() uuid.UUID
	Plan() *InstallmentPlan

	// participants returns the units the total is distributed to
	participants(tx *gorm.DB) ([]Unit, error)
}

// LoadChargeSource loads the plan of the given type.
func LoadChargeSource(db *gorm.DB, sourceType SourceType, id uuid.UUID) (ChargeSource, error) {
	var source ChargeSource
	switch sourceType {
	case SourceBudget:
		source = &Budget{}
	case SourceExtraordinaryPlan:
		source = &ExtraordinaryPlan{}
	case SourcePaymentAgreement:
		source = &PaymentAgreement{}
	default:
		return nil, sourceType.validate()
	}

	err := db.First(source, id).Error
	if err != nil {
		return nil, err
	}

	return source, nil
}

// Budget is the ordinary yearly budget of a condominium.
type Budget struct {
	DefaultModel
	InstallmentPlan
	Year int
}

func (b *Budget) SourceType() SourceType      { return SourceBudget }
func (b *Budget) SourceID() uuid.UUID         { return b.ID }
func (b *Budget) Plan() *InstallmentPlan      { return &b.InstallmentPlan }
func (b *Budget) BeforeSave(_ *gorm.DB) error { return b.normalize() }

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	err := b.create(tx)
	if err != nil {
		return err
	}

	if b.Year == 0 {
		b.Year = b.StartDate.Time().Year()
	}

	return nil
}

func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(Budget)
	if !ok {
		return nil
	}

	return b.update(tx, toSave.InstallmentPlan)
}

func (b *Budget) BeforeDelete(tx *gorm.DB) error {
	return beforePlanDelete(tx, b)
}

func (b *Budget) participants(tx *gorm.DB) ([]Unit, error) {
	return activeUnits(tx, b.CondominiumID)
}

// ExtraordinaryPlan is a one-off assessment, e.g. for repairs.
type ExtraordinaryPlan struct {
	DefaultModel
	InstallmentPlan
	Purpose string
}

func (e *ExtraordinaryPlan) SourceType() SourceType { return SourceExtraordinaryPlan }
func (e *ExtraordinaryPlan) SourceID() uuid.UUID    { return e.ID }
func (e *ExtraordinaryPlan) Plan() *InstallmentPlan { return &e.InstallmentPlan }

func (e *ExtraordinaryPlan) BeforeSave(_ *gorm.DB) error {
	e.Purpose = strings.TrimSpace(e.Purpose)
	return e.normalize()
}

func (e *ExtraordinaryPlan) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)
	return e.create(tx)
}

func (e *ExtraordinaryPlan) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(ExtraordinaryPlan)
	if !ok {
		return nil
	}

	return e.update(tx, toSave.InstallmentPlan)
}

func (e *ExtraordinaryPlan) BeforeDelete(tx *gorm.DB) error {
	return beforePlanDelete(tx, e)
}

func (e *ExtraordinaryPlan) participants(tx *gorm.DB) ([]Unit, error) {
	return activeUnits(tx, e.CondominiumID)
}

// PaymentAgreement refinances the debt of a single unit in installments.
//
// The whole amount is owed by the debtor unit, the distribution
// method is always equalShare.
type PaymentAgreement struct {
	DefaultModel
	InstallmentPlan
	UnitID uuid.UUID `gorm:"index"` // The debtor unit
}

func (a *PaymentAgreement) SourceType() SourceType { return SourcePaymentAgreement }
func (a *PaymentAgreement) SourceID() uuid.UUID    { return a.ID }
func (a *PaymentAgreement) Plan() *InstallmentPlan { return &a.InstallmentPlan }

func (a *PaymentAgreement) BeforeSave(_ *gorm.DB) error {
	a.DistributionMethod = distribution.EqualShare
	return a.normalize()
}

func (a *PaymentAgreement) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	err := a.create(tx)
	if err != nil {
		return err
	}

	var unit Unit
	err = tx.First(&unit, a.UnitID).Error
	if err != nil {
		return err
	}

	if unit.CondominiumID != a.CondominiumID {
		return fmt.Errorf("%w: the unit belongs to a different condominium", ErrReferenceNotFound)
	}

	return nil
}

func (a *PaymentAgreement) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(PaymentAgreement)
	if !ok {
		return nil
	}

	if tx.Statement.Changed("UnitID") {
		return errors.New("the debtor unit of a payment agreement cannot be changed")
	}

	if tx.Statement.Changed("DistributionMethod") {
		return errors.New("payment agreements always use the equalShare distribution method")
	}

	return a.update(tx, toSave.InstallmentPlan)
}

func (a *PaymentAgreement) BeforeDelete(tx *gorm.DB) error {
	return beforePlanDelete(tx, a)
}

func (a *PaymentAgreement) participants(tx *gorm.DB) ([]Unit, error) {
	var unit Unit
	err := tx.First(&unit, a.UnitID).Error
	if err != nil {
		return nil, err
	}

	if unit.Status != UnitActive {
		return nil, fmt.Errorf("%w: unit %s", ErrUnitInactive, unit.Number)
	}

	return []Unit{unit}, nil
}

func activeUnits(tx *gorm.DB, condominiumID uuid.UUID) ([]Unit, error) {
	return Condominium{DefaultModel: DefaultModel{ID: condominiumID}}.ActiveUnits(tx)
}

// beforePlanDelete blocks deletion of plans with charges and removes
// their manual amounts.
func beforePlanDelete(tx *gorm.DB, source ChargeSource) error {
	var charges int64
	err := tx.Model(&Charge{}).Where(&Charge{SourceType: source.SourceType(), SourceID: source.SourceID()}).Count(&charges).Error
	if err != nil {
		return err
	}

	if charges > 0 {
		return ErrPlanHasCharges
	}

	return tx.Where(&ManualShare{SourceType: source.SourceType(), SourceID: source.SourceID()}).Delete(&ManualShare{}).Error
}

// ManualShare is the amount a unit owes for a plan using the manual distribution method.
type ManualShare struct {
	DefaultModel
	SourceType SourceType      `gorm:"uniqueIndex:manual_share_source_unit"`
	SourceID   uuid.UUID       `gorm:"uniqueIndex:manual_share_source_unit"`
	Unit       Unit            `json:"-"`
	UnitID     uuid.UUID       `gorm:"uniqueIndex:manual_share_source_unit"`
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (m *ManualShare) BeforeSave(_ *gorm.DB) error {
	m.Amount = m.Amount.Round(2)

	if m.Amount.IsNegative() {
		return fmt.Errorf("%w: manual amounts must not be negative", ErrAmountNotPositive)
	}

	return nil
}

// BeforeCreate verifies that the plan is a draft using the manual method
// and the unit belongs to its condominium.
func (m *ManualShare) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	source, err := LoadChargeSource(tx, m.SourceType, m.SourceID)
	if err != nil {
		return err
	}

	plan := source.Plan()
	if plan.Status != PlanDraft {
		return ErrPlanNotDraft
	}

	if plan.DistributionMethod != distribution.Manual {
		return ErrManualShareNotManual
	}

	var unit Unit
	err = tx.First(&unit, m.UnitID).Error
	if err != nil {
		return err
	}

	if unit.CondominiumID != plan.CondominiumID {
		return fmt.Errorf("%w: the unit belongs to a different condominium", ErrReferenceNotFound)
	}

	return nil
}

// ManualShares returns the manual amounts of a plan.
func ManualShares(db *gorm.DB, source ChargeSource) ([]ManualShare, error) {
	var shares []ManualShare
	err := db.
		Where(&ManualShare{SourceType: source.SourceType(), SourceID: source.SourceID()}).
		Order("created_at ASC").
		Find(&shares).Error

	return shares, err
}

// SetManualShares replaces all manual amounts of a draft plan.
func SetManualShares(db *gorm.DB, source ChargeSource, shares []ManualShare) ([]ManualShare, error) {
	plan := source.Plan()
	if plan.Status != PlanDraft {
		return nil, fmt.Errorf("%w, it is %s", ErrPlanNotDraft, plan.Status)
	}

	if plan.DistributionMethod != distribution.Manual {
		return nil, ErrManualShareNotManual
	}

	err := inTransaction(db, func(tx *gorm.DB) error {
		err := tx.Where(&ManualShare{SourceType: source.SourceType(), SourceID: source.SourceID()}).Delete(&ManualShare{}).Error
		if err != nil {
			return err
		}

		for i := range shares {
			shares[i].ID = uuid.Nil
			shares[i].SourceType = source.SourceType()
			shares[i].SourceID = source.SourceID()

			if err := tx.Create(&shares[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return shares, nil
}

// Approval is the result of approving a plan.
type Approval struct {
	BatchID ulid.ULID
	Created int64 // Number of charges created
	Shares  []distribution.Share
}

// ApprovePlan distributes the plan across its units and creates one charge
// per unit and installment, then marks the plan as approved.
//
// Everything happens in one database transaction. Charges are inserted in
// batches of batchSize and existing charges are left untouched, so a repeated
// approval never creates duplicates.
func ApprovePlan(db *gorm.DB, source ChargeSource, user string, batchSize int) (Approval, error) {
	plan := source.Plan()
	if plan.Status != PlanDraft {
		return Approval{}, fmt.Errorf("%w, it is %s", ErrPlanNotDraft, plan.Status)
	}

	if batchSize < 1 {
		batchSize = ChargeBatchSize
	}

	approval := Approval{BatchID: ulid.Make()}
	now := stamp()

	err := inTransaction(db, func(tx *gorm.DB) error {
		units, err := source.participants(tx)
		if err != nil {
			return err
		}

		if len(units) == 0 {
			return ErrNoActiveUnits
		}

		participants := make([]distribution.Unit, 0, len(units))
		for _, u := range units {
			participants = append(participants, u.DistributionUnit())
		}

		var manual map[uuid.UUID]decimal.Decimal
		if plan.DistributionMethod == distribution.Manual {
			manual, err = manualAmounts(tx, source, plan.TotalAmount)
			if err != nil {
				return err
			}
		}

		approval.Shares = distribution.Distribute(plan.TotalAmount, plan.DistributionMethod, participants, manual, plan.InstallmentCount)

		charges := make([]Charge, 0, len(approval.Shares)*plan.InstallmentCount)
		for _, share := range approval.Shares {
			if share.TotalShare.IsZero() {
				continue
			}

			for _, i := range distribution.Installments(share.TotalShare, plan.InstallmentCount, plan.StartDate) {
				if !i.Amount.IsPositive() {
					return fmt.Errorf("%w: unit %s, installment %d is %s", ErrInstallmentTooSmall, share.UnitID, i.Number, i.Amount)
				}

				charges = append(charges, Charge{
					SourceType:        source.SourceType(),
					SourceID:          source.SourceID(),
					UnitID:            share.UnitID,
					InstallmentNumber: i.Number,
					DueDate:           i.DueDate,
					Amount:            i.Amount,
					Status:            ChargePending,
					BatchID:           approval.BatchID.String(),
				})
			}
		}

		if len(charges) > 0 {
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&charges, batchSize)
			if result.Error != nil {
				return result.Error
			}
			approval.Created = result.RowsAffected
		}

		result := tx.Model(source).
			Where("status = ?", PlanDraft).
			Updates(map[string]any{
				"status":      PlanApproved,
				"approved_at": now,
				"approved_by": user,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrPlanNotDraft
		}

		return nil
	})
	if err != nil {
		return Approval{}, err
	}

	plan.Status = PlanApproved
	plan.ApprovedAt = now
	plan.ApprovedBy = user

	ChargesGenerated.WithLabelValues(string(source.SourceType())).Add(float64(approval.Created))
	return approval, nil
}

// manualAmounts loads the manual amounts of a plan and verifies that they
// add up to total.
func manualAmounts(tx *gorm.DB, source ChargeSource, total decimal.Decimal) (map[uuid.UUID]decimal.Decimal, error) {
	var shares []ManualShare
	err := tx.Where(&ManualShare{SourceType: source.SourceType(), SourceID: source.SourceID()}).Find(&shares).Error
	if err != nil {
		return nil, err
	}

	amounts := make(map[uuid.UUID]decimal.Decimal, len(shares))
	sum := decimal.Zero
	for _, s := range shares {
		amounts[s.UnitID] = s.Amount
		sum = sum.Add(s.Amount)
	}

	if sum.Sub(total).Abs().GreaterThan(ManualTolerance) {
		return nil, fmt.Errorf("%w: the amounts add up to %s, the total is %s", ErrManualAmountsMismatch, sum.StringFixed(2), total.StringFixed(2))
	}

	return amounts, nil
}

// CancelPlan cancels a plan together with all of its pending charges.
func CancelPlan(db *gorm.DB, source ChargeSource, reason, user string) (cancelledCharges int64, err error) {
	plan := source.Plan()
	if plan.Status == PlanCancelled {
		return 0, ErrPlanCancelled
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return 0, ErrCancelReasonEmpty
	}

	now := stamp()
	err = inTransaction(db, func(tx *gorm.DB) error {
		err := tx.Model(source).Updates(map[string]any{
			"status":        PlanCancelled,
			"cancelled_at":  now,
			"cancelled_by":  user,
			"cancel_reason": reason,
		}).Error
		if err != nil {
			return err
		}

		result := tx.Model(&Charge{}).
			Where(&Charge{SourceType: source.SourceType(), SourceID: source.SourceID(), Status: ChargePending}).
			Updates(map[string]any{
				"status":        ChargeCancelled,
				"cancel_reason": reason,
				"cancelled_at":  now,
				"cancelled_by":  user,
			})
		cancelledCharges = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, err
	}

	plan.Status = PlanCancelled
	plan.CancelledAt = now
	plan.CancelledBy = user
	plan.CancelReason = reason

	return cancelledCharges, nil
}
