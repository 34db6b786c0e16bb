package v1

import (
	"fmt"

	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	ez_uuid "github.com/condofin/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherEditable represents all user configurable parameters
type VoucherEditable struct {
	AccountID   uuid.UUID       `json:"accountId" example:"3b1e9a40-5d0c-4a93-9d37-9f3f4f1d2b11"` // ID of the petty cash account
	Date        types.Date      `json:"date" example:"2024-02-14" default:"today"`                // Date of the expense
	Amount      decimal.Decimal `json:"amount" example:"12.40" minimum:"0.01"`                    // Amount paid
	Beneficiary string          `json:"beneficiary" example:"Hardware store"`                     // Who was paid
	Description string          `json:"description" example:"Light bulbs for the lobby"`          // What was paid for
}

func (editable VoucherEditable) model() models.Voucher {
	return models.Voucher{
		AccountID:   editable.AccountID,
		Date:        editable.Date,
		Amount:      editable.Amount,
		Beneficiary: editable.Beneficiary,
		Description: editable.Description,
	}
}

// VoucherUpdateEditable contains the fields that can be changed after
// the voucher was created.
type VoucherUpdateEditable struct {
	Beneficiary string `json:"beneficiary" example:"Hardware store"`            // Who was paid
	Description string `json:"description" example:"Light bulbs for the lobby"` // What was paid for
}

func (editable VoucherUpdateEditable) model() models.Voucher {
	return models.Voucher{
		Beneficiary: editable.Beneficiary,
		Description: editable.Description,
	}
}

type Voucher struct {
	models.DefaultModel
	VoucherEditable
	Status          models.VoucherStatus `json:"status" example:"pending"`                                             // One of pending, replenished, cancelled
	TransactionID   *uuid.UUID           `json:"transactionId" example:"b0e0e5c0-7f0d-4d0b-9a8e-2c1f4a7d6e55"`         // ID of the egress posted for the voucher
	ReplenishmentID *uuid.UUID           `json:"replenishmentId" example:"58a2c5c6-1d4b-4d1e-8a48-4f0c6f3d7e21"`       // ID of the replenishment that settled the voucher
	CreatedBy       string               `json:"createdBy" example:"treasurer@example.com"`                           // Who created the voucher
	CancelReason    string               `json:"cancelReason"`                                                        // Why the voucher was cancelled
	Links           VoucherLinks         `json:"links"`
}

type VoucherLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/vouchers/e3c1d5b8-6f4a-4b1e-9d2c-7a8b9c0d1e2f"`        // The voucher itself
	Account     string `json:"account" example:"https://example.com/api/v1/accounts/3b1e9a40-5d0c-4a93-9d37-9f3f4f1d2b11"`    // The petty cash account
	Transaction string `json:"transaction" example:"https://example.com/api/v1/transactions/b0e0e5c0-7f0d-4d0b-9a8e-2c1f4a7d6e55"` // The egress, empty if there is none
	Cancel      string `json:"cancel" example:"https://example.com/api/v1/vouchers/e3c1d5b8-6f4a-4b1e-9d2c-7a8b9c0d1e2f/cancel"` // Endpoint to cancel the voucher
}

func newVoucher(c *gin.Context, model models.Voucher) (Voucher, error) {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/vouchers/%s", url, model.ID)

	links := VoucherLinks{
		Self:    self,
		Account: fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
		Cancel:  self + "/cancel",
	}

	if model.TransactionID != nil {
		links.Transaction = fmt.Sprintf("%s/v1/transactions/%s", url, model.TransactionID)
	}

	return Voucher{
		DefaultModel: model.DefaultModel,
		VoucherEditable: VoucherEditable{
			AccountID:   model.AccountID,
			Date:        model.Date,
			Amount:      model.Amount,
			Beneficiary: model.Beneficiary,
			Description: model.Description,
		},
		Status:          model.Status,
		TransactionID:   model.TransactionID,
		ReplenishmentID: model.ReplenishmentID,
		CreatedBy:       model.CreatedBy,
		CancelReason:    model.CancelReason,
		Links:           links,
	}, nil
}

type VoucherQueryFilter struct {
	AccountID       ez_uuid.UUID         `form:"account"`                       // By ID of the petty cash account
	Status          models.VoucherStatus `form:"status"`                        // By status
	ReplenishmentID ez_uuid.UUID         `form:"replenishment"`                 // By ID of the replenishment
	FromDate        types.Date           `form:"fromDate" filterField:"false"`  // On or after this date
	UntilDate       types.Date           `form:"untilDate" filterField:"false"` // On or before this date
	Offset          uint                 `form:"offset" filterField:"false"`    // The offset of the first voucher returned. Defaults to 0.
	Limit           int                  `form:"limit" filterField:"false"`     // Maximum number of vouchers to return. Defaults to 50.
}

func (f VoucherQueryFilter) model() models.Voucher {
	return models.Voucher{
		AccountID:       f.AccountID.UUID,
		Status:          f.Status,
		ReplenishmentID: f.ReplenishmentID.Ptr(),
	}
}

// ReplenishmentEditable represents all user configurable parameters.
// The amount is the sum of the pending vouchers.
type ReplenishmentEditable struct {
	PettyCashAccountID uuid.UUID  `json:"pettyCashAccountId" example:"3b1e9a40-5d0c-4a93-9d37-9f3f4f1d2b11"` // ID of the petty cash account
	SourceAccountID    uuid.UUID  `json:"sourceAccountId" example:"7d7f3c1a-2b4e-4c6d-8e9f-0a1b2c3d4e5f"`    // ID of the bank account the money comes from
	Date               types.Date `json:"date" example:"2024-02-29" default:"today"`                        // Vouchers dated on or before this date are replenished
}

type Replenishment struct {
	models.DefaultModel
	ReplenishmentEditable
	Amount     decimal.Decimal    `json:"amount" example:"148.90"`                                    // Sum of the replenished vouchers
	TransferID uuid.UUID          `json:"transferId" example:"0f9e8d7c-6b5a-4938-2716-05f4e3d2c1b0"` // ID shared by both legs of the transfer
	CreatedBy  string             `json:"createdBy" example:"treasurer@example.com"`                 // Who replenished the petty cash
	Links      ReplenishmentLinks `json:"links"`
}

type ReplenishmentLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/replenishments/58a2c5c6-1d4b-4d1e-8a48-4f0c6f3d7e21"`                // The replenishment itself
	Vouchers     string `json:"vouchers" example:"https://example.com/api/v1/vouchers?replenishment=58a2c5c6-1d4b-4d1e-8a48-4f0c6f3d7e21"`  // The replenished vouchers
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?transfer=0f9e8d7c-6b5a-4938-2716-05f4e3d2c1b0"` // Both legs of the transfer
}

func newReplenishment(c *gin.Context, model models.Replenishment) (Replenishment, error) {
	url := c.GetString(string(models.DBContextURL))

	return Replenishment{
		DefaultModel: model.DefaultModel,
		ReplenishmentEditable: ReplenishmentEditable{
			PettyCashAccountID: model.PettyCashAccountID,
			SourceAccountID:    model.SourceAccountID,
			Date:               model.Date,
		},
		Amount:     model.Amount,
		TransferID: model.TransferID,
		CreatedBy:  model.CreatedBy,
		Links: ReplenishmentLinks{
			Self:         fmt.Sprintf("%s/v1/replenishments/%s", url, model.ID),
			Vouchers:     fmt.Sprintf("%s/v1/vouchers?replenishment=%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?transfer=%s", url, model.TransferID),
		},
	}, nil
}

type ReplenishmentQueryFilter struct {
	PettyCashAccountID ez_uuid.UUID `form:"pettyCashAccount"`           // By ID of the petty cash account
	SourceAccountID    ez_uuid.UUID `form:"sourceAccount"`              // By ID of the source account
	Offset             uint         `form:"offset" filterField:"false"` // The offset of the first replenishment returned. Defaults to 0.
	Limit              int          `form:"limit" filterField:"false"`  // Maximum number of replenishments to return. Defaults to 50.
}

func (f ReplenishmentQueryFilter) model() models.Replenishment {
	return models.Replenishment{
		PettyCashAccountID: f.PettyCashAccountID.UUID,
		SourceAccountID:    f.SourceAccountID.UUID,
	}
}

// ReplenishmentResult is a replenishment together with the vouchers it settled
type ReplenishmentResult struct {
	Replenishment Replenishment `json:"replenishment"`
	Vouchers      []Voucher     `json:"vouchers"`
}

// pettyCashReplenished is the payload of the petty_cash.replenished event
type pettyCashReplenished struct {
	ID                 uuid.UUID       `json:"id"`
	PettyCashAccountID uuid.UUID       `json:"pettyCashAccountId"`
	SourceAccountID    uuid.UUID       `json:"sourceAccountId"`
	Amount             decimal.Decimal `json:"amount"`
	Vouchers           int             `json:"vouchers"`
	User               string          `json:"user"`
}
