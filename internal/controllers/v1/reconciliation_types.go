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

// ReconciliationEditable represents the parameters of a new reconciliation
type ReconciliationEditable struct {
	AccountID          uuid.UUID       `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the bank account
	CutoffDate         types.Date      `json:"cutoffDate" example:"2024-03-31"`                          // Last day of the bank statement
	ClosingBalanceBank decimal.Decimal `json:"closingBalanceBank" example:"10250.75"`                    // Closing balance of the bank statement
	Detail             string          `json:"detail" example:"Statement March 2024"`                    // A longer description
}

func (editable ReconciliationEditable) model() models.Reconciliation {
	return models.Reconciliation{
		AccountID:          editable.AccountID,
		CutoffDate:         editable.CutoffDate,
		ClosingBalanceBank: editable.ClosingBalanceBank,
		Detail:             editable.Detail,
	}
}

// ReconciliationUpdate contains the parameters of a draft that can be changed.
// Only set values are updated.
type ReconciliationUpdate struct {
	ClosingBalanceBank *decimal.Decimal `json:"closingBalanceBank" example:"10250.75"` // Closing balance of the bank statement
	Detail             *string          `json:"detail" example:"Statement March 2024"` // A longer description
}

type ReconciliationLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/reconciliations/d2b1a3a4-6fd4-4b0e-9f3a-3c5b9f4a8e61"`                // The reconciliation itself
	Account    string `json:"account" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                    // The bank account
	Candidates string `json:"candidates" example:"https://example.com/api/v1/reconciliations/d2b1a3a4-6fd4-4b0e-9f3a-3c5b9f4a8e61/candidates"` // Transactions that can be selected
	Items      string `json:"items" example:"https://example.com/api/v1/reconciliations/d2b1a3a4-6fd4-4b0e-9f3a-3c5b9f4a8e61/items"`           // Selected transactions
	Finalize   string `json:"finalize" example:"https://example.com/api/v1/reconciliations/d2b1a3a4-6fd4-4b0e-9f3a-3c5b9f4a8e61/finalize"`     // Endpoint to finalize the draft
	Close      string `json:"close" example:"https://example.com/api/v1/reconciliations/d2b1a3a4-6fd4-4b0e-9f3a-3c5b9f4a8e61/close"`           // Endpoint to close the reconciliation
}

type Reconciliation struct {
	models.DefaultModel
	ReconciliationEditable
	Links ReconciliationLinks `json:"links"`

	PeriodStart              types.Date                  `json:"periodStart" example:"2024-03-01"`               // First day of the period
	PeriodEnd                types.Date                  `json:"periodEnd" example:"2024-03-31"`                 // Last day of the period
	OpeningBalance           decimal.Decimal             `json:"openingBalance" example:"9800.00"`               // Book balance at the start of the period
	ClosingBalanceCalculated decimal.Decimal             `json:"closingBalanceCalculated" example:"10250.75"`    // Opening balance plus the selected transactions
	Difference               decimal.Decimal             `json:"difference" example:"0"`                         // Bank minus calculated closing balance
	Pending                  bool                        `json:"pending" example:"false"`                        // Is there a difference left?
	Status                   models.ReconciliationStatus `json:"status" example:"draft"`                         // One of draft, reconciled, closed
	CreatedBy                string                      `json:"createdBy" example:"treasurer@example.com"`      // Who started the reconciliation
	ReconciledAt             *time.Time                  `json:"reconciledAt" example:"2024-04-03T14:00:00Z"`    // When the reconciliation was finalized
	ReconciledBy             string                      `json:"reconciledBy" example:"treasurer@example.com"`   // Who finalized the reconciliation
	ClosedAt                 *time.Time                  `json:"closedAt" example:"2024-04-10T09:00:00Z"`        // When the reconciliation was closed
	ClosedBy                 string                      `json:"closedBy" example:"administrator@example.com"`   // Who closed the reconciliation
}

func newReconciliation(c *gin.Context, model models.Reconciliation) (Reconciliation, error) {
	url := c.GetString(string(models.DBContextURL))
	self := fmt.Sprintf("%s/v1/reconciliations/%s", url, model.ID)

	return Reconciliation{
		DefaultModel: model.DefaultModel,
		ReconciliationEditable: ReconciliationEditable{
			AccountID:          model.AccountID,
			CutoffDate:         model.CutoffDate,
			ClosingBalanceBank: model.ClosingBalanceBank,
			Detail:             model.Detail,
		},
		PeriodStart:              model.PeriodStart,
		PeriodEnd:                model.PeriodEnd,
		OpeningBalance:           model.OpeningBalance,
		ClosingBalanceCalculated: model.ClosingBalanceCalculated,
		Difference:               model.Difference,
		Pending:                  model.Pending(),
		Status:                   model.Status,
		CreatedBy:                model.CreatedBy,
		ReconciledAt:             model.ReconciledAt,
		ReconciledBy:             model.ReconciledBy,
		ClosedAt:                 model.ClosedAt,
		ClosedBy:                 model.ClosedBy,
		Links: ReconciliationLinks{
			Self:       self,
			Account:    fmt.Sprintf("%s/v1/accounts/%s", url, model.AccountID),
			Candidates: self + "/candidates",
			Items:      self + "/items",
			Finalize:   self + "/finalize",
			Close:      self + "/close",
		},
	}, nil
}

type ReconciliationQueryFilter struct {
	AccountID  ez_uuid.UUID                `form:"account"`                       // By ID of the bank account
	Status     models.ReconciliationStatus `form:"status"`                        // By status
	CutoffDate types.Date                  `form:"cutoffDate" filterField:"false"` // By cutoff date
	Offset     uint                        `form:"offset" filterField:"false"`     // The offset of the first Reconciliation returned. Defaults to 0.
	Limit      int                         `form:"limit" filterField:"false"`      // Maximum number of Reconciliations to return. Defaults to 50.
}

func (f ReconciliationQueryFilter) model() models.Reconciliation {
	return models.Reconciliation{
		AccountID: f.AccountID.UUID,
		Status:    f.Status,
	}
}

type CandidateQuery struct {
	Reference string `form:"reference" binding:"max=100"` // Glob pattern for the reference number
}

type Candidate struct {
	Transaction Transaction `json:"transaction"`                  // The transaction
	CheckNumber *int64      `json:"checkNumber" example:"1006"`   // Number of the check the egress was paid with
	Selected    bool        `json:"selected" example:"true"`      // Is the transaction selected in this reconciliation?
	CheckCashed bool        `json:"checkCashed" example:"false"`  // Is the check marked as cashed in this reconciliation?
}

// Candidates are the transactions that can be selected, split by their effect on the balance.
type Candidates struct {
	Payments []Candidate `json:"payments"` // Transactions adding to the balance
	Egresses []Candidate `json:"egresses"` // Transactions subtracting from the balance
}

func newCandidates(c *gin.Context, candidates []models.Candidate) (Candidates, error) {
	result := Candidates{
		Payments: make([]Candidate, 0),
		Egresses: make([]Candidate, 0),
	}

	for _, candidate := range candidates {
		transaction, err := newTransaction(c, candidate.Transaction)
		if err != nil {
			return Candidates{}, err
		}

		apiCandidate := Candidate{
			Transaction: transaction,
			CheckNumber: candidate.CheckNumber,
			Selected:    candidate.Selected,
			CheckCashed: candidate.CheckCashed,
		}

		if candidate.IsPayment() {
			result.Payments = append(result.Payments, apiCandidate)
		} else {
			result.Egresses = append(result.Egresses, apiCandidate)
		}
	}

	return result, nil
}

type EgressSelection struct {
	EgressID    uuid.UUID `json:"egressId" example:"1b6bbf3f-c2cc-4b7a-a5c9-0b8ac8e61c8e"` // ID of the egress
	CheckCashed bool      `json:"checkCashed" example:"true"`                              // Was the check of the egress cashed? Ignored for egresses without check
}

// Selection replaces all selected transactions of a draft.
type Selection struct {
	PaymentIDs []uuid.UUID       `json:"paymentIds"` // IDs of the selected payments
	Egresses   []EgressSelection `json:"egresses"`   // Selected egresses
}

func (s Selection) egresses() []models.EgressSelection {
	egresses := make([]models.EgressSelection, 0, len(s.Egresses))
	for _, e := range s.Egresses {
		egresses = append(egresses, models.EgressSelection{
			EgressID:    e.EgressID,
			CheckCashed: e.CheckCashed,
		})
	}

	return egresses
}

type ReconciliationItem struct {
	ID              uuid.UUID       `json:"id" example:"7fe0f2f9-9aa5-4ad4-8fd5-0a5a57d25c61"`        // ID of the item
	PaymentID       *uuid.UUID      `json:"paymentId" example:"1b6bbf3f-c2cc-4b7a-a5c9-0b8ac8e61c8e"` // The selected payment
	EgressID        *uuid.UUID      `json:"egressId"`                                                 // The selected egress
	CheckID         *uuid.UUID      `json:"checkId"`                                                  // The check of the egress
	IsCheckCashed   bool            `json:"isCheckCashed" example:"false"`                            // Is the check marked as cashed?
	Amount          decimal.Decimal `json:"amount" example:"125.50"`                                  // Amount of the transaction when it was selected
	TransactionDate types.Date      `json:"transactionDate" example:"2024-03-14"`                     // Date of the transaction when it was selected
}

func newReconciliationItem(_ *gin.Context, model models.ReconciliationItem) (ReconciliationItem, error) {
	return ReconciliationItem{
		ID:              model.ID,
		PaymentID:       model.PaymentID,
		EgressID:        model.EgressID,
		CheckID:         model.CheckID,
		IsCheckCashed:   model.IsCheckCashed,
		Amount:          model.Amount,
		TransactionDate: model.TransactionDate,
	}, nil
}

// reconciliationEvent is the payload of reconciliation events.
type reconciliationEvent struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"accountId"`
	CutoffDate types.Date      `json:"cutoffDate"`
	Difference decimal.Decimal `json:"difference"`
	User       string          `json:"user"`
}

func newReconciliationEvent(r models.Reconciliation, user string) reconciliationEvent {
	return reconciliationEvent{
		ID:         r.ID,
		AccountID:  r.AccountID,
		CutoffDate: r.CutoffDate,
		Difference: r.Difference,
		User:       user,
	}
}
