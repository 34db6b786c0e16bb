package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/condofin/backend/internal/distribution"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Unit is an apartment, house or commercial space of a condominium.
type Unit struct {
	DefaultModel
	Condominium   Condominium     `json:"-"`
	CondominiumID uuid.UUID       `gorm:"uniqueIndex:unit_condominium_number"`
	Number        string          `gorm:"uniqueIndex:unit_condominium_number"`
	Owner         string
	Note          string
	Aliquot       decimal.Decimal `gorm:"type:DECIMAL(20,8);check:aliquot_not_negative,aliquot >= 0"` // Percentage share of the condominium
	Status        UnitStatus
}

// swagger:enum UnitStatus
type UnitStatus string

const (
	UnitActive   UnitStatus = "active"
	UnitInactive UnitStatus = "inactive"
)

var (
	ErrUnitNumberNotUnique = errors.New("the unit number must be unique for the condominium")
	ErrUnitNumberEmpty     = errors.New("the unit number must not be empty")
	ErrUnitStatusInvalid   = errors.New("the unit status must be active or inactive")
	ErrAliquotNegative     = errors.New("the aliquot must not be negative")
	ErrUnitInactive        = errors.New("the unit is not active")
)

func (u *Unit) BeforeSave(_ *gorm.DB) error {
	u.Number = strings.TrimSpace(u.Number)
	u.Owner = strings.TrimSpace(u.Owner)
	u.Note = strings.TrimSpace(u.Note)

	if u.Status == "" {
		u.Status = UnitActive
	}

	if u.Status != UnitActive && u.Status != UnitInactive {
		return fmt.Errorf("%w, got '%s'", ErrUnitStatusInvalid, u.Status)
	}

	if u.Aliquot.IsNegative() {
		return ErrAliquotNegative
	}

	return nil
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	_ = u.DefaultModel.BeforeCreate(tx)

	if u.Number == "" {
		return ErrUnitNumberEmpty
	}

	return u.checkIntegrity(tx, *u)
}

func (u *Unit) BeforeUpdate(tx *gorm.DB) error {
	toSave, ok := tx.Statement.Dest.(Unit)
	if !ok {
		return nil
	}

	if tx.Statement.Changed("Status") && toSave.Status != UnitActive && toSave.Status != UnitInactive {
		return fmt.Errorf("%w, got '%s'", ErrUnitStatusInvalid, toSave.Status)
	}

	if tx.Statement.Changed("CondominiumID") {
		return u.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (u *Unit) checkIntegrity(tx *gorm.DB, toSave Unit) error {
	return tx.First(&Condominium{}, toSave.CondominiumID).Error
}

// DistributionUnit returns the unit as a participant of a distribution.
func (u Unit) DistributionUnit() distribution.Unit {
	return distribution.Unit{
		ID:      u.ID,
		Aliquot: u.Aliquot,
	}
}
