// Package distribution splits an amount across units and expands it into
// dated installments.
package distribution

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// swagger:enum Method
type Method string

const (
	EqualShare Method = "equalShare"
	ByAliquot  Method = "byAliquot"
	Manual     Method = "manual"
)

var ErrUnknownMethod = errors.New("the distribution method must be one of equalShare, byAliquot, manual")

// Validate returns ErrUnknownMethod for anything but the three known methods.
func (m Method) Validate() error {
	switch m {
	case EqualShare, ByAliquot, Manual:
		return nil
	}

	return fmt.Errorf("%w, got '%s'", ErrUnknownMethod, m)
}

// Unit is a participant of a distribution.
type Unit struct {
	ID      uuid.UUID
	Aliquot decimal.Decimal
}

// Share is the amount a unit owes in total and per installment.
type Share struct {
	UnitID         uuid.UUID       `json:"unitId" example:"0a8ea1d6-3b55-4b1a-9c6b-2f0b4c1f7b5e"`
	TotalShare     decimal.Decimal `json:"totalShare" example:"400"`
	PerInstallment decimal.Decimal `json:"perInstallment" example:"33.33"`
}

// Distribute computes each unit's share of total.
//
// Shares are rounded to cents per unit, so their sum can differ from total
// by up to one cent per unit. With no units, the result is empty.
// For ByAliquot with an aliquot sum of zero, every share is zero.
// For Manual, amounts are taken from manual as they are, units without an
// entry get zero.
func Distribute(total decimal.Decimal, method Method, units []Unit, manual map[uuid.UUID]decimal.Decimal, installmentCount int) []Share {
	shares := make([]Share, 0, len(units))
	if len(units) == 0 {
		return shares
	}

	if installmentCount < 1 {
		installmentCount = 1
	}
	count := decimal.NewFromInt(int64(installmentCount))

	var aliquotSum decimal.Decimal
	if method == ByAliquot {
		for _, u := range units {
			aliquotSum = aliquotSum.Add(u.Aliquot)
		}

		if aliquotSum.IsZero() {
			aliquotSum = decimal.NewFromInt(1)
		}
	}

	for _, u := range units {
		var share decimal.Decimal

		switch method {
		case EqualShare:
			share = total.Div(decimal.NewFromInt(int64(len(units))))
		case ByAliquot:
			share = total.Mul(u.Aliquot).Div(aliquotSum)
		case Manual:
			share = manual[u.ID]
		}

		share = share.Round(2)
		shares = append(shares, Share{
			UnitID:         u.ID,
			TotalShare:     share,
			PerInstallment: share.Div(count).Round(2),
		})
	}

	return shares
}

// Sum returns the sum of all total shares.
func Sum(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.TotalShare)
	}

	return sum
}
