package models

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Condominium is a building or community whose finances are managed.
type Condominium struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex"`
	Note     string
	Locale   string // BCP 47 language tag, e.g. "es-VE"
	Currency string // ISO 4217 currency code
}

var (
	ErrCondominiumNameNotUnique = errors.New("the condominium name must be unique")
	ErrCondominiumNameEmpty     = errors.New("the condominium name must not be empty")
	ErrLocaleInvalid            = errors.New("the locale is not a valid language tag")
	ErrCurrencyInvalid          = errors.New("the currency is not a valid ISO 4217 code")
)

func (Condominium) TableName() string {
	return "condominiums"
}

// BeforeSave trims whitespace and derives the currency from the locale
// when none is set.
func (c *Condominium) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)
	c.Locale = strings.TrimSpace(c.Locale)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))

	if c.Name == "" {
		return ErrCondominiumNameEmpty
	}

	if c.Locale != "" {
		tag, err := language.Parse(c.Locale)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrLocaleInvalid, c.Locale)
		}
		c.Locale = tag.String()

		if c.Currency == "" {
			if unit, conf := currency.FromTag(tag); conf != language.No {
				c.Currency = unit.String()
			}
		}
	}

	if c.Currency != "" {
		if _, err := currency.ParseISO(c.Currency); err != nil {
			return fmt.Errorf("%w: %s", ErrCurrencyInvalid, c.Currency)
		}
	}

	return nil
}

// ActiveUnits returns the units of the condominium that take part in distributions,
// ordered by number.
func (c Condominium) ActiveUnits(db *gorm.DB) ([]Unit, error) {
	var units []Unit
	err := db.
		Where(&Unit{CondominiumID: c.ID, Status: UnitActive}).
		Order("number ASC").
		Find(&units).Error

	return units, err
}
