package models

import (
	"errors"
	"strings"
	"time"

	"github.com/condofin/backend/internal/types"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Charge is an installment a unit owes for a plan.
type Charge struct {
	DefaultModel
	SourceType        SourceType      `gorm:"uniqueIndex:charge_source_unit_installment"`
	SourceID          uuid.UUID       `gorm:"uniqueIndex:charge_source_unit_installment"`
	Unit              Unit            `json:"-"`
	UnitID            uuid.UUID       `gorm:"uniqueIndex:charge_source_unit_installment"`
	InstallmentNumber int             `gorm:"uniqueIndex:charge_source_unit_installment"`
	DueDate           types.Date      `gorm:"index"`
	Amount            decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Status            ChargeStatus
	BatchID           string `gorm:"index"` // ULID of the approval that created the charge
	CancelReason      string
	CancelledAt       *time.Time
	CancelledBy       string
}

// swagger:enum ChargeStatus
type ChargeStatus string

const (
	ChargePending   ChargeStatus = "pending"
	ChargeCancelled ChargeStatus = "cancelled"
)

var ErrChargeCancelled = errors.New("the charge is already cancelled")

// ChargeBatchSize is the default number of charges inserted per statement.
var ChargeBatchSize = 100

// ChargesGenerated counts the charges created by plan approvals.
//
// It is registered by the router together with the HTTP metrics.
var ChargesGenerated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "condofin_charges_generated_total",
		Help: "Number of charges created by plan approvals.",
	},
	[]string{"source_type"},
)

func (c *Charge) BeforeSave(_ *gorm.DB) error {
	c.Amount = c.Amount.Round(2)
	c.CancelReason = strings.TrimSpace(c.CancelReason)

	return nil
}

func (c *Charge) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	if c.Status == "" {
		c.Status = ChargePending
	}

	if c.BatchID == "" {
		c.BatchID = ulid.Make().String()
	}

	return nil
}

// Batch returns the parsed batch id. The timestamp of the id is
// the time of the approval.
func (c Charge) Batch() (ulid.ULID, error) {
	return ulid.ParseStrict(c.BatchID)
}

// Cancel soft-cancels a pending charge.
func (c *Charge) Cancel(db *gorm.DB, reason, user string) error {
	if c.Status == ChargeCancelled {
		return ErrChargeCancelled
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancelReasonEmpty
	}

	now := stamp()
	err := db.Model(c).Updates(map[string]any{
		"status":        ChargeCancelled,
		"cancel_reason": reason,
		"cancelled_at":  now,
		"cancelled_by":  user,
	}).Error
	if err != nil {
		return err
	}

	c.Status = ChargeCancelled
	c.CancelReason = reason
	c.CancelledAt = now
	c.CancelledBy = user
	return nil
}
