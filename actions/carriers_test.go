package actions

import (
	"net/http"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/models"
)

func (as *ActionSuite) Test_CarriersList() {
	partner := models.CreatePartnerFixtures(as.DB, 1).Partners[0]
	models.CreateCarrierFixtures(as.DB)

	res := as.authedJSON(partner, "/carriers/").Get()
	as.Equal(http.StatusOK, res.Code)

	var carriers api.Carriers
	as.NoError(as.decodeBody(res.Body.Bytes(), &carriers))
	as.Len(carriers, 3)

	as.Equal("c_atlas", carriers[0].ID)
	as.Equal("c_borealis", carriers[1].ID)
	as.Equal("c_cascade", carriers[2].ID)
	as.Equal(api.Currency(50_000_000), carriers[0].CapacityCents)
}
