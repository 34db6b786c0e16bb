package models_test

import (
	"encoding/json"

	"github.com/condofin/backend/internal/models"
)

func (suite *TestSuiteStandard) TestExport() {
	unit := suite.createTestUnit(models.Unit{})

	raw, err := models.Unit{}.Export()
	suite.Require().Nil(err)

	var units []models.Unit
	suite.Require().Nil(json.Unmarshal(raw, &units))
	suite.Require().Len(units, 1)
	suite.Assert().Equal(unit.ID, units[0].ID)

	for _, model := range models.Registry {
		raw, err := model.Export()
		suite.Require().Nil(err, "Export failed for %s", models.Name(model))
		suite.Assert().True(json.Valid(raw))
	}
}
