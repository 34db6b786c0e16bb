package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/condofin/backend/internal/controllers/v1"
	"github.com/condofin/backend/internal/distribution"
	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/internal/types"
	"github.com/condofin/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// createTest posts a single resource to a collection endpoint and returns
// the created resource. For any other status than 201, the zero value is returned.
func createTest[E, A any](t *testing.T, path string, editable E, expectedStatus ...int) v1.Response[A] {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, fmt.Sprintf("http://example.com/v1/%s", path), []E{editable})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.CreateResponse[A]
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		require.Len(t, response.Data, 1)
		return response.Data[0]
	}

	return v1.Response[A]{}
}

func createTestCondominium(t *testing.T, c v1.CondominiumEditable, expectedStatus ...int) v1.Response[v1.Condominium] {
	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	return createTest[v1.CondominiumEditable, v1.Condominium](t, "condominiums", c, expectedStatus...)
}

func createTestUnit(t *testing.T, u v1.UnitEditable, expectedStatus ...int) v1.Response[v1.Unit] {
	if u.CondominiumID == uuid.Nil {
		u.CondominiumID = createTestCondominium(t, v1.CondominiumEditable{}).Data.ID
	}

	if u.Number == "" {
		u.Number = uuid.NewString()[:8]
	}

	return createTest[v1.UnitEditable, v1.Unit](t, "units", u, expectedStatus...)
}

func createTestAccount(t *testing.T, a v1.AccountEditable, expectedStatus ...int) v1.Response[v1.Account] {
	if a.CondominiumID == uuid.Nil {
		a.CondominiumID = createTestCondominium(t, v1.CondominiumEditable{}).Data.ID
	}

	if a.Name == "" {
		a.Name = uuid.NewString()
	}

	return createTest[v1.AccountEditable, v1.Account](t, "accounts", a, expectedStatus...)
}

func createTestTransaction(t *testing.T, tr v1.TransactionEditable, expectedStatus ...int) v1.Response[v1.Transaction] {
	if tr.AccountID == uuid.Nil {
		tr.AccountID = createTestAccount(t, v1.AccountEditable{}).Data.ID
	}

	if tr.Kind == "" {
		tr.Kind = models.KindPayment
	}

	if tr.Amount.IsZero() {
		tr.Amount = decimal.NewFromFloat(100)
	}

	return createTest[v1.TransactionEditable, v1.Transaction](t, "transactions", tr, expectedStatus...)
}

func createTestCheckbook(t *testing.T, cb v1.CheckbookEditable, expectedStatus ...int) v1.Response[v1.Checkbook] {
	if cb.AccountID == uuid.Nil {
		cb.AccountID = createTestAccount(t, v1.AccountEditable{}).Data.ID
	}

	if cb.StartNumber == 0 && cb.EndNumber == 0 {
		cb.StartNumber = 1001
		cb.EndNumber = 1010
	}

	return createTest[v1.CheckbookEditable, v1.Checkbook](t, "checkbooks", cb, expectedStatus...)
}

func createTestReconciliation(t *testing.T, r v1.ReconciliationEditable, expectedStatus ...int) v1.Response[v1.Reconciliation] {
	if r.AccountID == uuid.Nil {
		r.AccountID = createTestAccount(t, v1.AccountEditable{}).Data.ID
	}

	if r.CutoffDate.IsZero() {
		r.CutoffDate = types.Today()
	}

	return createTest[v1.ReconciliationEditable, v1.Reconciliation](t, "reconciliations", r, expectedStatus...)
}

// planEditable returns a plan for a new condominium with the given number of
// active units, all with the same aliquot.
func planEditable(t *testing.T, units int, method distribution.Method) (v1.PlanEditable, []uuid.UUID) {
	condominium := createTestCondominium(t, v1.CondominiumEditable{}).Data.ID

	ids := make([]uuid.UUID, 0, units)
	for i := 0; i < units; i++ {
		unit := createTestUnit(t, v1.UnitEditable{
			CondominiumID: condominium,
			Number:        fmt.Sprintf("A-%d", i+1),
			Aliquot:       decimal.NewFromInt(100).Div(decimal.NewFromInt(int64(units))),
		})
		ids = append(ids, unit.Data.ID)
	}

	return v1.PlanEditable{
		CondominiumID:      condominium,
		Name:               uuid.NewString(),
		DistributionMethod: method,
		TotalAmount:        decimal.NewFromInt(1200),
		InstallmentCount:   12,
		StartDate:          types.NewDate(2024, 1, 5),
	}, ids
}

func createTestBudget(t *testing.T, b v1.BudgetEditable, expectedStatus ...int) v1.Response[v1.Budget] {
	if b.CondominiumID == uuid.Nil {
		b.PlanEditable, _ = planEditable(t, 3, distribution.EqualShare)
	}

	return createTest[v1.BudgetEditable, v1.Budget](t, "budgets", b, expectedStatus...)
}

func createTestVoucher(t *testing.T, v v1.VoucherEditable, expectedStatus ...int) v1.Response[v1.Voucher] {
	if v.AccountID == uuid.Nil {
		v.AccountID = createTestAccount(t, v1.AccountEditable{Type: models.AccountPettyCash}).Data.ID
	}

	if v.Description == "" {
		v.Description = "Cleaning supplies"
	}

	if v.Amount.IsZero() {
		v.Amount = decimal.NewFromFloat(12.5)
	}

	return createTest[v1.VoucherEditable, v1.Voucher](t, "vouchers", v, expectedStatus...)
}
