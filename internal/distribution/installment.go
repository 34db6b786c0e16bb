package distribution

import (
	"github.com/condofin/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Installment is one dated part of an amount.
type Installment struct {
	Number  int             `json:"number" example:"1"`
	DueDate types.Date      `json:"dueDate" example:"2024-01-01"`
	Amount  decimal.Decimal `json:"amount" example:"33.33"`
}

// InstallmentAmount is total divided by count, rounded to cents.
func InstallmentAmount(total decimal.Decimal, count int) decimal.Decimal {
	if count < 1 {
		return total.Round(2)
	}

	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}

// Installments splits total into count installments due monthly from start.
//
// All installments but the last are InstallmentAmount(total, count). The last one
// absorbs the rounding remainder, so the amounts always add up to total.
// A count below 1 is treated as 1.
func Installments(total decimal.Decimal, count int, start types.Date) []Installment {
	if count < 1 {
		count = 1
	}

	regular := InstallmentAmount(total, count)
	installments := make([]Installment, 0, count)

	allocated := decimal.Zero
	for i := 1; i <= count; i++ {
		amount := regular
		if i == count {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)

		installments = append(installments, Installment{
			Number:  i,
			DueDate: start.AddDate(0, i-1, 0),
			Amount:  amount,
		})
	}

	return installments
}
