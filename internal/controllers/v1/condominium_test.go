package v1_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	v1 "github.com/condofin/backend/internal/controllers/v1"
	"github.com/condofin/backend/internal/models"
	"github.com/condofin/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCondominiumsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestCondominiumsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestCondominium(t, v1.CondominiumEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/condominiums", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.ListResponse[v1.Condominium]
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

func (suite *TestSuiteStandard) TestCondominiumsCreate() {
	tests := []struct {
		name     string
		editable v1.CondominiumEditable
		currency string
		status   int
	}{
		{"Currency from locale", v1.CondominiumEditable{Name: "Los Samanes", Locale: "de-DE"}, "EUR", http.StatusCreated},
		{"Explicit currency", v1.CondominiumEditable{Name: "Altamira", Locale: "de-DE", Currency: "usd"}, "USD", http.StatusCreated},
		{"No locale", v1.CondominiumEditable{Name: "La Castellana"}, "", http.StatusCreated},
		{"Invalid locale", v1.CondominiumEditable{Name: "Chacao", Locale: "not a locale"}, "", http.StatusBadRequest},
		{"Invalid currency", v1.CondominiumEditable{Name: "El Hatillo", Currency: "XXXX"}, "", http.StatusBadRequest},
		{"Name missing", v1.CondominiumEditable{Name: "   "}, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/condominiums", []v1.CondominiumEditable{tt.editable})
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusCreated {
				return
			}

			var response v1.CreateResponse[v1.Condominium]
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.currency, response.Data[0].Data.Currency)
		})
	}
}

func (suite *TestSuiteStandard) TestCondominiumsNameUnique() {
	_ = createTestCondominium(suite.T(), v1.CondominiumEditable{Name: "Torre Norte"})
	_ = createTestCondominium(suite.T(), v1.CondominiumEditable{Name: "Torre Norte"}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCondominiumsCreatePartialFailure() {
	body := []v1.CondominiumEditable{{Name: "Works"}, {Name: ""}}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/condominiums", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CreateResponse[v1.Condominium]
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "Works", response.Data[0].Data.Name)
	assert.Equal(suite.T(), models.ErrCondominiumNameEmpty.Error(), *response.Data[1].Error)
}

func (suite *TestSuiteStandard) TestCondominiumsGetFilter() {
	_ = createTestCondominium(suite.T(), v1.CondominiumEditable{Name: "Parque Central", Note: "Downtown"})
	_ = createTestCondominium(suite.T(), v1.CondominiumEditable{Name: "Parque Sur", Locale: "de-DE"})
	_ = createTestCondominium(suite.T(), v1.CondominiumEditable{Name: "Colinas"})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Name", "name=Colinas", 1},
		{"Search", "search=parque", 2},
		{"Note", "note=Downtown", 1},
		{"Empty note", "note=", 2},
		{"Currency", "currency=EUR", 1},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.ListResponse[v1.Condominium]
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/condominiums?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestCondominiumsUpdateDelete() {
	c := createTestCondominium(suite.T(), v1.CondominiumEditable{Name: "Old name"})

	r := test.Request(suite.T(), http.MethodPatch, c.Data.Links.Self, map[string]any{"note": "Updated"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.Response[v1.Condominium]
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "Old name", updated.Data.Name)
	assert.Equal(suite.T(), "Updated", updated.Data.Note)

	r = test.Request(suite.T(), http.MethodDelete, c.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, c.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCondominiumsDeleteInUse() {
	u := createTestUnit(suite.T(), v1.UnitEditable{})

	r := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/condominiums/%s", u.Data.CondominiumID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	assert.Contains(suite.T(), r.Body.String(), models.ErrResourceInUse.Error())
}

func (suite *TestSuiteStandard) TestUnits() {
	c := createTestCondominium(suite.T(), v1.CondominiumEditable{})
	a := createTestUnit(suite.T(), v1.UnitEditable{CondominiumID: c.Data.ID, Number: "A-1", Aliquot: decimal.NewFromFloat(60)})
	_ = createTestUnit(suite.T(), v1.UnitEditable{CondominiumID: c.Data.ID, Number: "A-2", Aliquot: decimal.NewFromFloat(40), Status: models.UnitInactive})

	suite.Assert().Equal(models.UnitActive, a.Data.Status)
	suite.Assert().True(strings.HasSuffix(a.Data.Links.Charges, a.Data.ID.String()))

	suite.T().Run("Number unique per condominium", func(t *testing.T) {
		createTestUnit(t, v1.UnitEditable{CondominiumID: c.Data.ID, Number: "A-1"}, http.StatusBadRequest)
		createTestUnit(t, v1.UnitEditable{Number: "A-1"})
	})

	suite.T().Run("Invalid values", func(t *testing.T) {
		createTestUnit(t, v1.UnitEditable{CondominiumID: c.Data.ID, Aliquot: decimal.NewFromFloat(-1)}, http.StatusBadRequest)
		createTestUnit(t, v1.UnitEditable{CondominiumID: c.Data.ID, Status: "sold"}, http.StatusBadRequest)
		createTestUnit(t, v1.UnitEditable{CondominiumID: uuid.New()}, http.StatusNotFound, http.StatusBadRequest)
	})

	suite.T().Run("Filter", func(t *testing.T) {
		var response v1.ListResponse[v1.Unit]
		r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/units?condominium=%s&status=active", c.Data.ID), "")
		test.AssertHTTPStatus(t, &r, http.StatusOK)
		test.DecodeResponse(t, &r, &response)

		require.Len(t, response.Data, 1)
		assert.Equal(t, "A-1", response.Data[0].Number)
	})

	suite.T().Run("Update", func(t *testing.T) {
		r := test.Request(t, http.MethodPatch, a.Data.Links.Self, map[string]any{"owner": "María Pérez"})
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var response v1.Response[v1.Unit]
		test.DecodeResponse(t, &r, &response)
		assert.Equal(t, "María Pérez", response.Data.Owner)
		assert.True(t, decimal.NewFromFloat(60).Equal(response.Data.Aliquot))
	})
}
