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

// TransactionEditable represents all user configurable parameters
type TransactionEditable struct {
	AccountID       uuid.UUID              `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`         // ID of the account
	Kind            models.TransactionKind `json:"kind" example:"payment"`                                           // One of payment, egress, adjustment. Transfers are created with the transfers endpoint
	Direction       models.Direction       `json:"direction" example:"IN"`                                           // IN or OUT. Only needed for adjustments, payments are IN and egresses OUT
	Amount          decimal.Decimal        `json:"amount" example:"125.50" minimum:"0.01"`                           // Positive amount
	Date            types.Date             `json:"date" example:"2024-03-14" default:"today"`                        // Date of the transaction
	ReferenceNumber string                 `json:"referenceNumber" example:"TRX-88213"`                              // Bank reference
	Beneficiary     string                 `json:"beneficiary" example:"Elevadores C.A."`                            // Who received the money
	Note            string                 `json:"note" example:"March maintenance"`                                 // A longer description
	UnitID          *uuid.UUID             `json:"unitId" example:"9c1c49e4-5e3a-4e41-8a8e-1b2b5b8ad9f4"`            // The unit a payment was received from
	CheckbookID     *uuid.UUID             `json:"checkbookId,omitempty" example:"0f2d8a71-1c1c-4a39-a4c4-59c0c30a3c55"` // Pay the egress with the next check of this checkbook
}

func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		AccountID:       editable.AccountID,
		Kind:            editable.Kind,
		Direction:       editable.Direction,
		Amount:          editable.Amount,
		Date:            editable.Date,
		ReferenceNumber: editable.ReferenceNumber,
		Beneficiary:     editable.Beneficiary,
		Note:            editable.Note,
		UnitID:          editable.UnitID,
	}
}

// TransactionUpdateEditable contains the parameters that can be changed
// after a transaction is posted.
type TransactionUpdateEditable struct {
	ReferenceNumber string `json:"referenceNumber" example:"TRX-88213"`   // Bank reference
	Beneficiary     string `json:"beneficiary" example:"Elevadores C.A."` // Who received the money
	Note            string `json:"note" example:"March maintenance"`      // A longer description
}

func (editable TransactionUpdateEditable) model() models.Transaction {
	return models.Transaction{
		ReferenceNumber: editable.ReferenceNumber,
		Beneficiary:     editable.Beneficiary,
		Note:            editable.Note,
	}
}

type TransactionLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/transactions/1b6bbf3f-c2cc-4b7a-a5c9-0b8ac8e61c8e"`          // The transaction itself
	Account string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`           // The account of the transaction
	Cancel  string `json:"cancel" example:"https://example.com/api/v1/transactions/1b6bbf3f-c2cc-4b7a-a5c9-0b8ac8e61c8e/cancel"` // Endpoint to cancel the transaction
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`

	Status       models.TransactionStatus `json:"status" example:"available"`                                  // available or cancelled
	CheckID      *uuid.UUID               `json:"checkId" example:"5d7e9c7e-6a06-4f5c-a0b4-02a6b0d2f0cb"`      // The check the egress was paid with
	TransferID   *uuid.UUID               `json:"transferId" example:"a07a8c1e-f3b8-4c05-9a4c-3aa1f0c54d6e"`   // Shared by both legs of a transfer
	CreatedBy    string                   `json:"createdBy" example:"treasurer@example.com"`                   // Who posted the transaction
	CancelReason string                   `json:"cancelReason" example:"Entered twice"`                        // Why the transaction was cancelled
	CancelledAt  *time.Time               `json:"cancelledAt" example:"2024-03-15T09:12:44Z"`                  // When the transaction was cancelled
	CancelledBy  string                   `json:"cancelledBy" example:"treasurer@example.com"`                 // Who cancelled the transaction
}

func newTransaction(c *gin.Context, model models.Transaction) (Transaction, error) {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			AccountID:       model.AccountID,
			Kind:            model.Kind,
			Direction:       model.Direction,
			Amount:          model.Amount,
			Date:            model.Date,
			ReferenceNumber: model.ReferenceNumber,
			Beneficiary:     model.Beneficiary,
			Note:            model.Note,
			UnitID:          model.UnitID,
		},
		Status:       model.Status,
		CheckID:      model.CheckID,
		TransferID:   model.TransferID,
		CreatedBy:    model.CreatedBy,
		CancelReason: model.CancelReason,
		CancelledAt:  model.CancelledAt,
		CancelledBy:  model.CancelledBy,
		Links: TransactionLinks{
			Self:    fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
			Account: fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
			Cancel:  fmt.Sprintf("%s/v1/transactions/%s/cancel", url, model.ID),
		},
	}, nil
}

type TransactionQueryFilter struct {
	AccountID ez_uuid.UUID             `form:"account"`                       // By ID of the account
	Kind      models.TransactionKind   `form:"kind"`                          // By kind
	Direction models.Direction         `form:"direction"`                     // By direction
	Status    models.TransactionStatus `form:"status"`                        // By status
	UnitID    ez_uuid.UUID             `form:"unit" filterField:"false"`      // By ID of the paying unit
	Transfer  ez_uuid.UUID             `form:"transfer" filterField:"false"`  // By transfer ID
	FromDate  types.Date               `form:"fromDate" filterField:"false"`  // From this date
	UntilDate types.Date               `form:"untilDate" filterField:"false"` // Until this date
	Reference string                   `form:"reference" filterField:"false"` // Reference number matching this glob pattern, e.g. "TRX-*"
	Note      string                   `form:"note" filterField:"false"`      // Note contains this string
	Offset    uint                     `form:"offset" filterField:"false"`    // The offset of the first Transaction returned. Defaults to 0.
	Limit     int                      `form:"limit" filterField:"false"`     // Maximum number of Transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() models.Transaction {
	return models.Transaction{
		AccountID: f.AccountID.UUID,
		Kind:      f.Kind,
		Direction: f.Direction,
		Status:    f.Status,
	}
}

// TransferEditable represents all parameters of a transfer
type TransferEditable struct {
	SourceAccountID      uuid.UUID       `json:"sourceAccountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`      // Account the money is taken from
	DestinationAccountID uuid.UUID       `json:"destinationAccountId" example:"3e7c5b51-7f5a-4bd4-8a8c-7e3e1d0f2bb0"` // Account the money is moved to
	Amount               decimal.Decimal `json:"amount" example:"500.00" minimum:"0.01"`                              // Positive amount
	Date                 types.Date      `json:"date" example:"2024-03-14" default:"today"`                           // Date of the transfer
	ReferenceNumber      string          `json:"referenceNumber" example:"TRF-1021"`                                  // Bank reference
	Note                 string          `json:"note" example:"Move reserves to savings"`                             // A longer description
}

func (editable TransferEditable) model() models.Transfer {
	return models.Transfer{
		SourceAccountID:      editable.SourceAccountID,
		DestinationAccountID: editable.DestinationAccountID,
		Amount:               editable.Amount,
		Date:                 editable.Date,
		ReferenceNumber:      editable.ReferenceNumber,
		Note:                 editable.Note,
	}
}

type TransferResponse struct {
	Data  []Transaction `json:"data"`                                                          // Outgoing and incoming leg of the transfer
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
